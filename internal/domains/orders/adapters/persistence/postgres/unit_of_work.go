package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	catalogpostgres "github.com/Apurer/storefront-api/internal/domains/catalog/adapters/persistence/postgres"
	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/storefront-api/internal/domains/orders/ports"
)

var _ ports.UnitOfWork = (*UnitOfWork)(nil)

// UnitOfWork runs a checkout inside one database transaction.
type UnitOfWork struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

// Within commits when fn returns nil and rolls back otherwise. Stock rows are
// decremented with a guarded UPDATE so the check and the write are one statement.
func (u *UnitOfWork) Within(ctx context.Context, fn func(ctx context.Context, tx ports.Tx) error) error {
	if u == nil || u.db == nil {
		return errors.New("postgres unit of work not configured")
	}
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &gormTx{db: tx})
	})
}

type gormTx struct {
	db *gorm.DB
}

func (t *gormTx) CreateOrder(ctx context.Context, order *domain.Order) error {
	record := toOrderRecord(order)
	if err := t.db.WithContext(ctx).Create(&record).Error; err != nil {
		return err
	}
	order.ID = record.ID
	return nil
}

func (t *gormTx) AddLine(ctx context.Context, line *domain.Line) error {
	record := toItemRecord(line)
	if err := t.db.WithContext(ctx).Create(&record).Error; err != nil {
		return err
	}
	line.ID = record.ID
	return nil
}

func (t *gormTx) DecrementStock(ctx context.Context, productID int64, qty int) error {
	return catalogpostgres.DecrementStock(ctx, t.db, productID, qty)
}
