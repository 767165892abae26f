package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Apurer/storefront-api/internal/domains/reference/domain"
	"github.com/Apurer/storefront-api/internal/domains/reference/ports"
)

var (
	_ ports.Repository = (*Repository)(nil)
	_ ports.Directory  = (*Repository)(nil)
)

// Repository reads the reference tables from PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type lookupRecord struct {
	ID   int64  `gorm:"column:id"`
	Name string `gorm:"column:name"`
}

type supplierRecord struct {
	ID    int64  `gorm:"column:id"`
	Name  string `gorm:"column:name"`
	Phone string `gorm:"column:phone"`
	Email string `gorm:"column:email"`
}

type deliveryMethodRecord struct {
	ID   int64           `gorm:"column:id"`
	Name string          `gorm:"column:name"`
	Fee  decimal.Decimal `gorm:"column:fee"`
}

type productRecord struct {
	ID              int64            `gorm:"column:id"`
	SKU             string           `gorm:"column:sku"`
	Name            string           `gorm:"column:name"`
	Price           decimal.Decimal  `gorm:"column:price"`
	DiscountPercent *decimal.Decimal `gorm:"column:discount_percent"`
	StockQuantity   int              `gorm:"column:stock_quantity"`
	CategoryID      *int64           `gorm:"column:category_id"`
	SupplierID      *int64           `gorm:"column:supplier_id"`
}

type orderRecord struct {
	ID              int64           `gorm:"column:id"`
	CustomerID      int64           `gorm:"column:customer_id"`
	OrderDate       time.Time       `gorm:"column:order_date"`
	TotalAmount     decimal.Decimal `gorm:"column:total_amount"`
	StatusID        int64           `gorm:"column:status_id"`
	PaymentMethodID int64           `gorm:"column:payment_method_id"`
}

type orderItemRecord struct {
	ID        int64           `gorm:"column:id"`
	OrderID   int64           `gorm:"column:order_id"`
	ProductID int64           `gorm:"column:product_id"`
	Quantity  int             `gorm:"column:quantity"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price"`
}

func (r *Repository) Categories(ctx context.Context) ([]domain.Lookup, error) {
	return r.lookups(ctx, "categories")
}

func (r *Repository) PaymentMethods(ctx context.Context) ([]domain.Lookup, error) {
	return r.lookups(ctx, "payment_methods")
}

func (r *Repository) OrderStatuses(ctx context.Context) ([]domain.Lookup, error) {
	return r.lookups(ctx, "order_statuses")
}

func (r *Repository) Suppliers(ctx context.Context) ([]domain.Supplier, error) {
	var records []supplierRecord
	if err := r.scan(ctx, "suppliers", &records); err != nil {
		return nil, err
	}
	rows := make([]domain.Supplier, 0, len(records))
	for _, rec := range records {
		rows = append(rows, domain.Supplier(rec))
	}
	return rows, nil
}

func (r *Repository) DeliveryMethods(ctx context.Context) ([]domain.DeliveryMethod, error) {
	var records []deliveryMethodRecord
	if err := r.scan(ctx, "delivery_methods", &records); err != nil {
		return nil, err
	}
	rows := make([]domain.DeliveryMethod, 0, len(records))
	for _, rec := range records {
		rows = append(rows, domain.DeliveryMethod(rec))
	}
	return rows, nil
}

func (r *Repository) Products(ctx context.Context) ([]domain.Product, error) {
	var records []productRecord
	if err := r.scan(ctx, "products", &records); err != nil {
		return nil, err
	}
	rows := make([]domain.Product, 0, len(records))
	for _, rec := range records {
		rows = append(rows, domain.Product(rec))
	}
	return rows, nil
}

func (r *Repository) Orders(ctx context.Context) ([]domain.Order, error) {
	var records []orderRecord
	if err := r.scan(ctx, "orders", &records); err != nil {
		return nil, err
	}
	rows := make([]domain.Order, 0, len(records))
	for _, rec := range records {
		rows = append(rows, domain.Order(rec))
	}
	return rows, nil
}

func (r *Repository) OrderItems(ctx context.Context) ([]domain.OrderItem, error) {
	var records []orderItemRecord
	if err := r.scan(ctx, "order_items", &records); err != nil {
		return nil, err
	}
	rows := make([]domain.OrderItem, 0, len(records))
	for _, rec := range records {
		rows = append(rows, domain.OrderItem(rec))
	}
	return rows, nil
}

func (r *Repository) AddCategory(ctx context.Context, name string) (domain.Lookup, error) {
	rec := lookupRecord{Name: name}
	if err := r.create(ctx, "categories", &rec); err != nil {
		return domain.Lookup{}, err
	}
	return domain.Lookup(rec), nil
}

func (r *Repository) AddSupplier(ctx context.Context, supplier domain.Supplier) (domain.Supplier, error) {
	rec := supplierRecord{Name: supplier.Name, Phone: supplier.Phone, Email: supplier.Email}
	if err := r.create(ctx, "suppliers", &rec); err != nil {
		return domain.Supplier{}, err
	}
	return domain.Supplier(rec), nil
}

func (r *Repository) lookups(ctx context.Context, table string) ([]domain.Lookup, error) {
	var records []lookupRecord
	if err := r.scan(ctx, table, &records); err != nil {
		return nil, err
	}
	rows := make([]domain.Lookup, 0, len(records))
	for _, rec := range records {
		rows = append(rows, domain.Lookup(rec))
	}
	return rows, nil
}

// scan reads a whole table ordered by id into dest. table is always one of the
// fixed names above, never caller input.
func (r *Repository) scan(ctx context.Context, table string, dest any) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Table(table).Order("id ASC").Find(dest).Error
}

func (r *Repository) create(ctx context.Context, table string, rec any) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Table(table).Create(rec).Error
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres reference repository not configured")
	}
	return nil
}
