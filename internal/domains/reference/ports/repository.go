package ports

import (
	"context"

	"github.com/Apurer/storefront-api/internal/domains/reference/domain"
)

// Repository reads each reference table, ordered by id.
type Repository interface {
	Categories(ctx context.Context) ([]domain.Lookup, error)
	Suppliers(ctx context.Context) ([]domain.Supplier, error)
	PaymentMethods(ctx context.Context) ([]domain.Lookup, error)
	DeliveryMethods(ctx context.Context) ([]domain.DeliveryMethod, error)
	OrderStatuses(ctx context.Context) ([]domain.Lookup, error)
	Products(ctx context.Context) ([]domain.Product, error)
	Orders(ctx context.Context) ([]domain.Order, error)
	OrderItems(ctx context.Context) ([]domain.OrderItem, error)
}

// Directory appends rows to the editable reference tables.
type Directory interface {
	AddCategory(ctx context.Context, name string) (domain.Lookup, error)
	AddSupplier(ctx context.Context, supplier domain.Supplier) (domain.Supplier, error)
}
