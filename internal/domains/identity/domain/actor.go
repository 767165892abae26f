package domain

import "time"

// AccountKind distinguishes the two account tables.
type AccountKind string

const (
	KindCustomer AccountKind = "customer"
	KindEmployee AccountKind = "employee"
)

// Valid reports whether the kind is known.
func (k AccountKind) Valid() bool {
	return k == KindCustomer || k == KindEmployee
}

// Actor is the authenticated (or guest) principal behind a request.
type Actor struct {
	ID          int64
	Kind        AccountKind
	Role        Role
	Email       string
	DisplayName string
}

// Guest returns the unauthenticated actor.
func Guest() Actor {
	return Actor{Role: RoleGuest}
}

// Authenticated reports whether the actor is a signed-in account.
func (a Actor) Authenticated() bool {
	return a.ID != 0 && a.Role != RoleGuest
}

// Can reports whether the actor holds the capability. Ordering capabilities
// also require a customer account: order rows reference the customers table.
func (a Actor) Can(c Capability) bool {
	if !a.Authenticated() {
		return false
	}
	if c.CustomerOnly() && a.Kind != KindCustomer {
		return false
	}
	return a.Role.Can(c)
}

// Capabilities lists what the actor may do.
func (a Actor) Capabilities() []Capability {
	out := make([]Capability, 0)
	for _, c := range a.Role.Capabilities() {
		if a.Can(c) {
			out = append(out, c)
		}
	}
	return out
}

// Session binds an opaque token to an actor. The cart is keyed by Token.
type Session struct {
	Token     string
	Actor     Actor
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
