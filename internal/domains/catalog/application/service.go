package application

import (
	"context"
	"fmt"

	"github.com/Apurer/storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-api/internal/domains/catalog/ports"
	identitydomain "github.com/Apurer/storefront-api/internal/domains/identity/domain"
	"github.com/Apurer/storefront-api/internal/shared/faults"
)

// Service coordinates catalog reads and product administration.
type Service struct {
	repo  ports.Repository
	usage ports.UsageChecker
}

// NewService wires the catalog service. usage may be nil when no order history exists.
func NewService(repo ports.Repository, usage ports.UsageChecker) *Service {
	return &Service{repo: repo, usage: usage}
}

func (s *Service) Search(ctx context.Context, query domain.SearchQuery) ([]*domain.Product, error) {
	if query.Sort == "" {
		query.Sort = domain.SortNameAsc
	}
	return s.repo.Search(ctx, query)
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.FindProduct(ctx, id)
}

func (s *Service) CreateProduct(ctx context.Context, actor identitydomain.Actor, product *domain.Product) (*domain.Product, error) {
	if !actor.Can(identitydomain.CapabilityEditProducts) {
		return nil, faults.ErrUnauthorized
	}
	if product == nil {
		return nil, fmt.Errorf("%w: product is required", ErrInvalidInput)
	}
	candidate := product.Clone()
	candidate.ID = 0
	if err := s.validate(ctx, candidate); err != nil {
		return nil, err
	}
	return s.repo.Save(ctx, candidate)
}

func (s *Service) UpdateProduct(ctx context.Context, actor identitydomain.Actor, product *domain.Product) (*domain.Product, error) {
	if !actor.Can(identitydomain.CapabilityEditProducts) {
		return nil, faults.ErrUnauthorized
	}
	if product == nil {
		return nil, fmt.Errorf("%w: product is required", ErrInvalidInput)
	}
	existing, err := s.repo.FindProduct(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	candidate := product.Clone()
	candidate.CreatedAt = existing.CreatedAt
	if err := s.validate(ctx, candidate); err != nil {
		return nil, err
	}
	return s.repo.Save(ctx, candidate)
}

func (s *Service) validate(ctx context.Context, product *domain.Product) error {
	product.Normalize()
	if err := product.Validate(); err != nil {
		return mapError(err)
	}
	taken, err := s.repo.SKUTaken(ctx, product.SKU, product.ID)
	if err != nil {
		return err
	}
	if taken {
		return mapError(ports.ErrSKUTaken)
	}
	return nil
}

func (s *Service) DeleteProduct(ctx context.Context, actor identitydomain.Actor, id int64) error {
	if !actor.Can(identitydomain.CapabilityDeleteProducts) {
		return faults.ErrUnauthorized
	}
	if _, err := s.repo.FindProduct(ctx, id); err != nil {
		return err
	}
	if s.usage != nil {
		inUse, err := s.usage.ProductInUse(ctx, id)
		if err != nil {
			return err
		}
		if inUse {
			return ErrProductInUse
		}
	}
	return s.repo.Delete(ctx, id)
}

var _ ports.Service = (*Service)(nil)
