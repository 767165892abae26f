package ports

import (
	"context"
	"errors"
	"time"

	"github.com/Apurer/storefront-api/internal/domains/identity/domain"
)

var ErrSessionNotFound = errors.New("session not found or expired")

// SessionStore abstracts session/token persistence.
type SessionStore interface {
	Save(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, token string) (*domain.Session, error)
	Delete(ctx context.Context, token string) error
}

// SessionPurger removes expired sessions in bulk.
type SessionPurger interface {
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// CartResetter empties the cart bound to a session token. Login and logout use it
// so a session never inherits another session's cart.
type CartResetter interface {
	Reset(ctx context.Context, sessionToken string) error
}

// NoopCartResetter is used when no cart store is wired.
var NoopCartResetter CartResetter = noopCartResetter{}

type noopCartResetter struct{}

func (noopCartResetter) Reset(_ context.Context, _ string) error { return nil }
