package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	cartdomain "github.com/Apurer/storefront-api/internal/domains/cart/domain"
	catalogdomain "github.com/Apurer/storefront-api/internal/domains/catalog/domain"
	ordersdomain "github.com/Apurer/storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/storefront-api/internal/domains/reference/domain"
	"github.com/Apurer/storefront-api/internal/domains/reference/ports"
)

var (
	_ ports.Repository = (*Repository)(nil)
	_ ports.Directory  = (*Repository)(nil)
)

// ProductLister is satisfied by the in-memory catalog repository.
type ProductLister interface {
	ListProducts(ctx context.Context) ([]*catalogdomain.Product, error)
}

// OrderLister is satisfied by the in-memory orders repository.
type OrderLister interface {
	All(ctx context.Context) ([]*ordersdomain.Order, error)
}

// Repository projects the in-memory catalog and orders, plus lookup tables
// holding the same fixed rows the database migrations seed.
type Repository struct {
	mu         sync.RWMutex
	categories []domain.Lookup
	suppliers  []domain.Supplier
	products   ProductLister
	orders     OrderLister
}

func NewRepository(products ProductLister, orders OrderLister) *Repository {
	return &Repository{products: products, orders: orders}
}

// AddCategory appends a category with the next id.
func (r *Repository) AddCategory(_ context.Context, name string) (domain.Lookup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row := domain.Lookup{ID: int64(len(r.categories) + 1), Name: name}
	r.categories = append(r.categories, row)
	return row, nil
}

// AddSupplier appends a supplier, assigning the next id.
func (r *Repository) AddSupplier(_ context.Context, s domain.Supplier) (domain.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = int64(len(r.suppliers) + 1)
	r.suppliers = append(r.suppliers, s)
	return s, nil
}

func (r *Repository) Categories(context.Context) ([]domain.Lookup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Lookup(nil), r.categories...), nil
}

func (r *Repository) Suppliers(context.Context) ([]domain.Supplier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Supplier(nil), r.suppliers...), nil
}

func (r *Repository) PaymentMethods(context.Context) ([]domain.Lookup, error) {
	return []domain.Lookup{
		{ID: int64(ordersdomain.PaymentCash), Name: "Cash"},
		{ID: int64(ordersdomain.PaymentCard), Name: "Card"},
	}, nil
}

func (r *Repository) DeliveryMethods(context.Context) ([]domain.DeliveryMethod, error) {
	return []domain.DeliveryMethod{
		{ID: 1, Name: "Pickup", Fee: decimal.Zero},
		{ID: 2, Name: "Courier", Fee: cartdomain.FlatDeliveryFee},
	}, nil
}

func (r *Repository) OrderStatuses(context.Context) ([]domain.Lookup, error) {
	return []domain.Lookup{
		{ID: int64(ordersdomain.StatusNew), Name: "New"},
		{ID: int64(ordersdomain.StatusProcessing), Name: "Processing"},
		{ID: int64(ordersdomain.StatusShipped), Name: "Shipped"},
		{ID: int64(ordersdomain.StatusDelivered), Name: "Delivered"},
		{ID: int64(ordersdomain.StatusCancelled), Name: "Cancelled"},
	}, nil
}

func (r *Repository) Products(ctx context.Context) ([]domain.Product, error) {
	products, err := r.products.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	rows := make([]domain.Product, 0, len(products))
	for _, p := range products {
		rows = append(rows, domain.Product{
			ID:              p.ID,
			SKU:             p.SKU,
			Name:            p.Name,
			Price:           p.Price,
			DiscountPercent: p.DiscountPercent,
			StockQuantity:   p.StockQuantity,
			CategoryID:      p.CategoryID,
			SupplierID:      p.SupplierID,
		})
	}
	return rows, nil
}

func (r *Repository) Orders(ctx context.Context) ([]domain.Order, error) {
	orders, err := r.orders.All(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, domain.Order{
			ID:              o.ID,
			CustomerID:      o.CustomerID,
			OrderDate:       o.OrderDate,
			TotalAmount:     o.TotalAmount,
			StatusID:        int64(o.Status),
			PaymentMethodID: int64(o.PaymentMethod),
		})
	}
	return rows, nil
}

func (r *Repository) OrderItems(ctx context.Context) ([]domain.OrderItem, error) {
	orders, err := r.orders.All(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]domain.OrderItem, 0)
	for _, o := range orders {
		for _, l := range o.Lines {
			rows = append(rows, domain.OrderItem{ID: l.ID, OrderID: l.OrderID, ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows, nil
}
