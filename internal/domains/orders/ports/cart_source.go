package ports

import (
	"context"

	cartdomain "github.com/Apurer/storefront-api/internal/domains/cart/domain"
)

// CartSource is the part of the cart store checkout reads and clears.
type CartSource interface {
	Get(ctx context.Context, session string) (*cartdomain.Cart, error)
	Delete(ctx context.Context, session string) error
}
