package ports

import (
	"context"

	"github.com/Apurer/storefront-api/internal/domains/cart/domain"
	identitydomain "github.com/Apurer/storefront-api/internal/domains/identity/domain"
)

// Service exposes cart use cases. Every call names the session that owns the cart.
type Service interface {
	AddToCart(ctx context.Context, session string, actor identitydomain.Actor, productID int64, qty int) (*domain.Cart, error)
	SetQuantity(ctx context.Context, session string, actor identitydomain.Actor, productID int64, qty int) (*domain.Cart, error)
	RemoveFromCart(ctx context.Context, session string, productID int64) (*domain.Cart, error)
	Increase(ctx context.Context, session string, actor identitydomain.Actor, productID int64) (*domain.Cart, error)
	Decrease(ctx context.Context, session string, productID int64) (*domain.Cart, error)
	Entries(ctx context.Context, session string) ([]domain.Entry, error)
	TotalQuantity(ctx context.Context, session string) (int, error)
	Quote(ctx context.Context, session string) (domain.Quote, error)
	Clear(ctx context.Context, session string) error
}
