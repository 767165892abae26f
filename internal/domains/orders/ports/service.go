package ports

import (
	"context"

	identitydomain "github.com/Apurer/storefront-api/internal/domains/identity/domain"
	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
)

// Service exposes checkout and order history.
type Service interface {
	Checkout(ctx context.Context, cmd domain.CheckoutCommand) (*domain.Receipt, error)
	ListMyOrders(ctx context.Context, actor identitydomain.Actor) ([]*domain.Order, error)
	GetOrder(ctx context.Context, actor identitydomain.Actor, id int64) (*domain.Order, error)
}
