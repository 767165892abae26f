package application

import (
	"context"
	"errors"

	"github.com/Apurer/storefront-api/internal/domains/cart/domain"
	"github.com/Apurer/storefront-api/internal/domains/cart/ports"
	catalogdomain "github.com/Apurer/storefront-api/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/storefront-api/internal/domains/catalog/ports"
	identitydomain "github.com/Apurer/storefront-api/internal/domains/identity/domain"
	"github.com/Apurer/storefront-api/internal/shared/faults"
)

// Service implements the cart use cases on top of a per-session Store.
type Service struct {
	store    ports.Store
	products catalogports.Lookup
}

func NewService(store ports.Store, products catalogports.Lookup) *Service {
	return &Service{store: store, products: products}
}

// AddToCart checks capability, then existence, then that stock covers the
// cart's resulting quantity for the product.
func (s *Service) AddToCart(ctx context.Context, session string, actor identitydomain.Actor, productID int64, qty int) (*domain.Cart, error) {
	if !actor.Can(identitydomain.CapabilityPlaceOrder) {
		return nil, faults.ErrUnauthorized
	}
	qty = domain.CoerceQuantity(qty)
	product, err := s.products.FindProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return s.store.Update(ctx, session, func(c *domain.Cart) error {
		wanted := c.Quantity(productID) + qty
		if !product.InStock(wanted) {
			return faults.InsufficientStock(product.ID, product.Name, product.StockQuantity, wanted)
		}
		c.Add(productID, qty)
		return nil
	})
}

// SetQuantity overwrites the entry without a stock check; qty <= 0 removes it.
// Setting a product that is not in the cart is a no-op.
func (s *Service) SetQuantity(ctx context.Context, session string, actor identitydomain.Actor, productID int64, qty int) (*domain.Cart, error) {
	if qty > 0 && !actor.Can(identitydomain.CapabilityPlaceOrder) {
		return nil, faults.ErrUnauthorized
	}
	return s.store.Update(ctx, session, func(c *domain.Cart) error {
		if c.Quantity(productID) == 0 {
			return nil
		}
		c.Set(productID, qty)
		return nil
	})
}

func (s *Service) RemoveFromCart(ctx context.Context, session string, productID int64) (*domain.Cart, error) {
	return s.store.Update(ctx, session, func(c *domain.Cart) error {
		c.Remove(productID)
		return nil
	})
}

// Increase adds one unit when live stock exceeds the current quantity.
func (s *Service) Increase(ctx context.Context, session string, actor identitydomain.Actor, productID int64) (*domain.Cart, error) {
	if !actor.Can(identitydomain.CapabilityPlaceOrder) {
		return nil, faults.ErrUnauthorized
	}
	product, err := s.products.FindProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return s.store.Update(ctx, session, func(c *domain.Cart) error {
		current := c.Quantity(productID)
		if current == 0 {
			return faults.ErrNotFound
		}
		if !product.InStock(current + 1) {
			return faults.InsufficientStock(product.ID, product.Name, product.StockQuantity, current+1)
		}
		c.Set(productID, current+1)
		return nil
	})
}

// Decrease subtracts one unit, removing the entry at quantity 1.
func (s *Service) Decrease(ctx context.Context, session string, productID int64) (*domain.Cart, error) {
	return s.store.Update(ctx, session, func(c *domain.Cart) error {
		c.Set(productID, c.Quantity(productID)-1)
		return nil
	})
}

func (s *Service) Entries(ctx context.Context, session string) ([]domain.Entry, error) {
	c, err := s.store.Get(ctx, session)
	if err != nil {
		return nil, err
	}
	return c.Entries(), nil
}

func (s *Service) TotalQuantity(ctx context.Context, session string) (int, error) {
	c, err := s.store.Get(ctx, session)
	if err != nil {
		return 0, err
	}
	return c.TotalQuantity(), nil
}

// Quote prices the cart against live products.
func (s *Service) Quote(ctx context.Context, session string) (domain.Quote, error) {
	c, err := s.store.Get(ctx, session)
	if err != nil {
		return domain.Quote{}, err
	}
	lines, err := LineItems(ctx, s.products, c.Entries())
	if err != nil {
		return domain.Quote{}, err
	}
	return domain.NewQuote(lines), nil
}

func (s *Service) Clear(ctx context.Context, session string) error {
	return s.store.Delete(ctx, session)
}

// Reset satisfies the identity cart resetter so sign-in and sign-out empty the cart.
func (s *Service) Reset(ctx context.Context, session string) error {
	return s.Clear(ctx, session)
}

// LineItems resolves entries against the catalog and builds line items.
// Products that no longer exist are skipped.
func LineItems(ctx context.Context, products catalogports.Lookup, entries []domain.Entry) ([]domain.LineItem, error) {
	resolved := make(map[int64]*catalogdomain.Product, len(entries))
	for _, e := range entries {
		p, err := products.FindProduct(ctx, e.ProductID)
		if errors.Is(err, faults.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		resolved[e.ProductID] = p
	}
	return domain.BuildLineItems(entries, resolved), nil
}

var _ ports.Service = (*Service)(nil)
