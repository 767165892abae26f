package ports

import (
	"context"
	"errors"
	"fmt"

	"github.com/Apurer/storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-api/internal/shared/faults"
)

// ErrNotFound matches faults.ErrNotFound so callers outside the catalog can classify it.
var ErrNotFound = fmt.Errorf("%w: product does not exist", faults.ErrNotFound)

var ErrSKUTaken = errors.New("another product already uses this SKU")

// Repository is the catalog's persistence port. Stock decrements happen only
// inside the checkout unit of work, never through this interface.
type Repository interface {
	FindProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	Search(ctx context.Context, query domain.SearchQuery) ([]*domain.Product, error)
	Save(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	// SKUTaken reports whether sku belongs to a product other than excludeID.
	SKUTaken(ctx context.Context, sku string, excludeID int64) (bool, error)
}

// Lookup is the read side other contexts depend on.
type Lookup interface {
	FindProduct(ctx context.Context, id int64) (*domain.Product, error)
}

// UsageChecker reports whether order history references a product.
type UsageChecker interface {
	ProductInUse(ctx context.Context, productID int64) (bool, error)
}
