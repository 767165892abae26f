package ports

import (
	"context"
	"fmt"

	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/storefront-api/internal/shared/faults"
)

// ErrNotFound matches faults.ErrNotFound.
var ErrNotFound = fmt.Errorf("%w: order does not exist", faults.ErrNotFound)

// Repository is the read side of order history. Orders are written only
// through a UnitOfWork.
type Repository interface {
	// ListByCustomer returns the customer's orders, newest first, with lines.
	ListByCustomer(ctx context.Context, customerID int64) ([]*domain.Order, error)
	Get(ctx context.Context, id int64) (*domain.Order, error)
	ProductInUse(ctx context.Context, productID int64) (bool, error)
}
