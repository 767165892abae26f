package storefrontserver

import (
	"time"

	identitydomain "github.com/Apurer/storefront-api/internal/domains/identity/domain"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Actor describes who the session belongs to and what it may do.
type Actor struct {
	ID           int64    `json:"id"`
	Kind         string   `json:"kind,omitempty"`
	Role         string   `json:"role"`
	Email        string   `json:"email,omitempty"`
	DisplayName  string   `json:"displayName,omitempty"`
	Capabilities []string `json:"capabilities"`
}

type Session struct {
	Token     string     `json:"token,omitempty"`
	Actor     Actor      `json:"actor"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

func fromDomainActor(a identitydomain.Actor) Actor {
	caps := make([]string, 0)
	for _, c := range a.Capabilities() {
		caps = append(caps, string(c))
	}
	return Actor{
		ID:           a.ID,
		Kind:         string(a.Kind),
		Role:         a.Role.String(),
		Email:        a.Email,
		DisplayName:  a.DisplayName,
		Capabilities: caps,
	}
}

func fromDomainSession(s *identitydomain.Session) Session {
	out := Session{Token: s.Token, Actor: fromDomainActor(s.Actor)}
	if !s.ExpiresAt.IsZero() {
		expires := s.ExpiresAt
		out.ExpiresAt = &expires
	}
	return out
}
