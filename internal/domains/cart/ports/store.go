package ports

import (
	"context"

	"github.com/Apurer/storefront-api/internal/domains/cart/domain"
)

// Store keeps one cart per session token.
type Store interface {
	// Get returns the session's cart, empty when none is stored.
	Get(ctx context.Context, session string) (*domain.Cart, error)
	// Update runs fn against the current cart and persists the result atomically
	// with respect to other updates of the same session. When fn fails nothing is
	// written and its error is returned unchanged.
	Update(ctx context.Context, session string, fn func(*domain.Cart) error) (*domain.Cart, error)
	Delete(ctx context.Context, session string) error
}
