package ports

import (
	"context"

	"github.com/Apurer/storefront-api/internal/domains/catalog/domain"
	identitydomain "github.com/Apurer/storefront-api/internal/domains/identity/domain"
)

// Service exposes catalog use cases to adapters.
type Service interface {
	Search(ctx context.Context, query domain.SearchQuery) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, actor identitydomain.Actor, product *domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, actor identitydomain.Actor, product *domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, actor identitydomain.Actor, id int64) error
}
