package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Apurer/storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-api/internal/domains/catalog/ports"
	"github.com/Apurer/storefront-api/internal/shared/faults"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory catalog for development and tests.
type Repository struct {
	mu       sync.RWMutex
	products map[int64]*domain.Product
	nextID   int64
	now      func() time.Time
}

func NewRepository() *Repository {
	return &Repository{products: make(map[int64]*domain.Product), nextID: 1, now: time.Now}
}

// WithClock overrides the time source for deterministic testing.
func (r *Repository) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

func (r *Repository) FindProduct(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return p.Clone(), nil
}

func (r *Repository) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return r.Search(ctx, domain.SearchQuery{})
}

func (r *Repository) Search(_ context.Context, query domain.SearchQuery) ([]*domain.Product, error) {
	r.mu.RLock()
	all := make([]*domain.Product, 0, len(r.products))
	for _, p := range r.products {
		all = append(all, p.Clone())
	}
	r.mu.RUnlock()
	return query.Apply(all), nil
}

// Save inserts when ID is zero, otherwise replaces the stored product.
func (r *Repository) Save(_ context.Context, product *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := product.Clone()
	now := r.now()
	if stored.ID == 0 {
		stored.ID = r.nextID
	}
	if existing, ok := r.products[stored.ID]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	if stored.ID >= r.nextID {
		r.nextID = stored.ID + 1
	}
	r.products[stored.ID] = stored
	return stored.Clone(), nil
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *Repository) SKUTaken(_ context.Context, sku string, excludeID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for id, p := range r.products {
		if id != excludeID && strings.EqualFold(p.SKU, sku) {
			return true, nil
		}
	}
	return false, nil
}

// DecrementStock removes qty units only when that many are available.
func (r *Repository) DecrementStock(_ context.Context, id int64, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return ports.ErrNotFound
	}
	if p.StockQuantity < qty {
		return faults.InsufficientStock(p.ID, p.Name, p.StockQuantity, qty)
	}
	p.StockQuantity -= qty
	return nil
}

// RestoreStock adds qty units back, undoing a DecrementStock.
func (r *Repository) RestoreStock(_ context.Context, id int64, qty int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.products[id]; ok {
		p.StockQuantity += qty
	}
}
