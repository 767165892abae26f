package ports

import (
	"context"

	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
)

// UnitOfWork runs fn atomically. If fn returns an error every write made
// through tx is discarded and that error is returned unchanged.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx is the set of writes a checkout performs.
type Tx interface {
	// CreateOrder persists the header and assigns order.ID. Lines are ignored.
	CreateOrder(ctx context.Context, order *domain.Order) error
	// AddLine persists one line of an order created in the same Tx and assigns line.ID.
	AddLine(ctx context.Context, line *domain.Line) error
	// DecrementStock lowers stock by qty, failing with an InsufficientStockError
	// when fewer than qty units remain.
	DecrementStock(ctx context.Context, productID int64, qty int) error
}
