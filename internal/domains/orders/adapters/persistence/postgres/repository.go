package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/storefront-api/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository reads order history from PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type orderRecord struct {
	ID              int64           `gorm:"primaryKey;column:id"`
	CustomerID      int64           `gorm:"column:customer_id"`
	OrderDate       time.Time       `gorm:"column:order_date"`
	TotalAmount     decimal.Decimal `gorm:"column:total_amount"`
	StatusID        int64           `gorm:"column:status_id"`
	PaymentMethodID int64           `gorm:"column:payment_method_id"`
	CreatedAt       time.Time       `gorm:"column:created_at"`
}

func (orderRecord) TableName() string { return "orders" }

type orderItemRecord struct {
	ID        int64           `gorm:"primaryKey;column:id"`
	OrderID   int64           `gorm:"column:order_id"`
	ProductID int64           `gorm:"column:product_id"`
	Quantity  int             `gorm:"column:quantity"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// ListByCustomer returns the customer's orders newest first, lines included.
func (r *Repository) ListByCustomer(ctx context.Context, customerID int64) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var headers []orderRecord
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("order_date DESC, id DESC").
		Find(&headers).Error; err != nil {
		return nil, err
	}
	if len(headers) == 0 {
		return []*domain.Order{}, nil
	}
	ids := make([]int64, 0, len(headers))
	for _, h := range headers {
		ids = append(ids, h.ID)
	}
	var items []orderItemRecord
	if err := r.db.WithContext(ctx).Where("order_id IN ?", ids).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	byOrder := make(map[int64][]orderItemRecord, len(headers))
	for _, item := range items {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}
	out := make([]*domain.Order, 0, len(headers))
	for i := range headers {
		out = append(out, toDomain(&headers[i], byOrder[headers[i].ID]))
	}
	return out, nil
}

// Get loads one order with its lines.
func (r *Repository) Get(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var header orderRecord
	if err := r.db.WithContext(ctx).First(&header, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	var items []orderItemRecord
	if err := r.db.WithContext(ctx).Where("order_id = ?", id).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return toDomain(&header, items), nil
}

// ProductInUse reports whether any order line references the product.
func (r *Repository) ProductInUse(ctx context.Context, productID int64) (bool, error) {
	if err := r.ensureDB(); err != nil {
		return false, err
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&orderItemRecord{}).Where("product_id = ?", productID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toOrderRecord(o *domain.Order) orderRecord {
	return orderRecord{
		ID:              o.ID,
		CustomerID:      o.CustomerID,
		OrderDate:       o.OrderDate,
		TotalAmount:     o.TotalAmount,
		StatusID:        int64(o.Status),
		PaymentMethodID: int64(o.PaymentMethod),
	}
}

func toItemRecord(l *domain.Line) orderItemRecord {
	return orderItemRecord{
		ID:        l.ID,
		OrderID:   l.OrderID,
		ProductID: l.ProductID,
		Quantity:  l.Quantity,
		UnitPrice: l.UnitPrice,
	}
}

func toDomain(header *orderRecord, items []orderItemRecord) *domain.Order {
	order := &domain.Order{
		ID:            header.ID,
		CustomerID:    header.CustomerID,
		OrderDate:     header.OrderDate,
		TotalAmount:   header.TotalAmount,
		Status:        domain.Status(header.StatusID),
		PaymentMethod: domain.PaymentMethod(header.PaymentMethodID),
		Lines:         make([]domain.Line, 0, len(items)),
	}
	for _, item := range items {
		order.Lines = append(order.Lines, domain.Line{
			ID:        item.ID,
			OrderID:   item.OrderID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return order
}
