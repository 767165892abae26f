package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-api/internal/domains/catalog/ports"
	"github.com/Apurer/storefront-api/internal/shared/faults"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists products in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type productRecord struct {
	ID              int64            `gorm:"primaryKey;column:id"`
	SKU             string           `gorm:"column:sku"`
	Name            string           `gorm:"column:name"`
	Description     string           `gorm:"column:description"`
	Price           decimal.Decimal  `gorm:"column:price"`
	DiscountPercent *decimal.Decimal `gorm:"column:discount_percent"`
	StockQuantity   int              `gorm:"column:stock_quantity"`
	CategoryID      *int64           `gorm:"column:category_id"`
	SupplierID      *int64           `gorm:"column:supplier_id"`
	CreatedAt       time.Time        `gorm:"column:created_at"`
	UpdatedAt       time.Time        `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

var orderClauses = map[domain.SortOrder]string{
	domain.SortNameAsc:   "LOWER(name) ASC, id ASC",
	domain.SortNameDesc:  "LOWER(name) DESC, id ASC",
	domain.SortPriceAsc:  "price ASC, LOWER(name) ASC, id ASC",
	domain.SortPriceDesc: "price DESC, LOWER(name) ASC, id ASC",
	domain.SortStockAsc:  "stock_quantity ASC, LOWER(name) ASC, id ASC",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// FindProduct fetches a product by id.
func (r *Repository) FindProduct(ctx context.Context, id int64) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	return findProduct(ctx, r.db, id)
}

func findProduct(ctx context.Context, db *gorm.DB, id int64) (*domain.Product, error) {
	var record productRecord
	if err := db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// ListProducts returns the whole catalog ordered by name.
func (r *Repository) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return r.Search(ctx, domain.SearchQuery{})
}

// Search filters and orders products in SQL.
func (r *Repository) Search(ctx context.Context, query domain.SearchQuery) ([]*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	tx := r.db.WithContext(ctx).Model(&productRecord{})
	if text := strings.ToLower(strings.TrimSpace(query.Text)); text != "" {
		pattern := "%" + likeEscaper.Replace(text) + "%"
		tx = tx.Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR LOWER(sku) LIKE ? ESCAPE '\')`, pattern, pattern, pattern)
	}
	if query.CategoryID != nil {
		tx = tx.Where("category_id = ?", *query.CategoryID)
	}
	if query.OnlyExpensive {
		tx = tx.Where("price > ?", domain.ExpensiveThreshold)
	}
	if query.LowStock {
		tx = tx.Where("stock_quantity < ?", domain.LowStockThreshold)
	}
	order, ok := orderClauses[query.Sort]
	if !ok {
		order = orderClauses[domain.SortNameAsc]
	}
	var records []productRecord
	if err := tx.Order(order).Find(&records).Error; err != nil {
		return nil, err
	}
	products := make([]*domain.Product, 0, len(records))
	for i := range records {
		products = append(products, records[i].toDomain())
	}
	return products, nil
}

// Save inserts a new product or updates the existing row keyed by id.
func (r *Repository) Save(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("product is nil")
	}
	record := toRecord(product)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"sku", "name", "description", "price", "discount_percent",
				"stock_quantity", "category_id", "supplier_id", "updated_at",
			}),
		}).
		Create(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrSKUTaken
		}
		return nil, err
	}
	return r.FindProduct(ctx, record.ID)
}

// Delete removes a product by id.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&productRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// SKUTaken compares case-insensitively against every other product.
func (r *Repository) SKUTaken(ctx context.Context, sku string, excludeID int64) (bool, error) {
	if err := r.ensureDB(); err != nil {
		return false, err
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&productRecord{}).
		Where("LOWER(sku) = ? AND id <> ?", strings.ToLower(strings.TrimSpace(sku)), excludeID).
		Count(&count).Error
	return count > 0, err
}

// DecrementStock runs the guarded decrement on tx, which must be the caller's
// open transaction. The row is only touched when enough stock remains, so two
// concurrent checkouts can never drive stock below zero.
func DecrementStock(ctx context.Context, tx *gorm.DB, productID int64, qty int) error {
	result := tx.WithContext(ctx).Model(&productRecord{}).
		Where("id = ? AND stock_quantity >= ?", productID, qty).
		Updates(map[string]any{
			"stock_quantity": gorm.Expr("stock_quantity - ?", qty),
			"updated_at":     time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 1 {
		return nil
	}
	product, err := findProduct(ctx, tx, productID)
	if err != nil {
		return err
	}
	return faults.InsufficientStock(product.ID, product.Name, product.StockQuantity, qty)
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres catalog repository not configured")
	}
	return nil
}

func toRecord(p *domain.Product) productRecord {
	return productRecord{
		ID:              p.ID,
		SKU:             p.SKU,
		Name:            p.Name,
		Description:     p.Description,
		Price:           p.Price,
		DiscountPercent: p.DiscountPercent,
		StockQuantity:   p.StockQuantity,
		CategoryID:      p.CategoryID,
		SupplierID:      p.SupplierID,
		CreatedAt:       p.CreatedAt,
	}
}

func (r productRecord) toDomain() *domain.Product {
	return &domain.Product{
		ID:              r.ID,
		SKU:             r.SKU,
		Name:            r.Name,
		Description:     r.Description,
		Price:           r.Price,
		DiscountPercent: r.DiscountPercent,
		StockQuantity:   r.StockQuantity,
		CategoryID:      r.CategoryID,
		SupplierID:      r.SupplierID,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}
