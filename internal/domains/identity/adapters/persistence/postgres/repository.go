package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/storefront-api/internal/domains/identity/domain"
	"github.com/Apurer/storefront-api/internal/domains/identity/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists customers and employees in their own tables using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle and migrations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type accountRecord struct {
	ID         int64     `gorm:"primaryKey;column:id"`
	LastName   string    `gorm:"column:last_name"`
	FirstName  string    `gorm:"column:first_name"`
	MiddleName string    `gorm:"column:middle_name"`
	Email      string    `gorm:"column:email"`
	Phone      string    `gorm:"column:phone"`
	Password   string    `gorm:"column:password"`
	RoleID     int       `gorm:"column:role_id"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func tableFor(kind domain.AccountKind) (string, error) {
	switch kind {
	case domain.KindCustomer:
		return "customers", nil
	case domain.KindEmployee:
		return "employees", nil
	default:
		return "", domain.ErrInvalidAccountKind
	}
}

// Save inserts a new account or updates an existing one keyed by id.
func (r *Repository) Save(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if account == nil {
		return nil, errors.New("account is nil")
	}
	table, err := tableFor(account.Kind)
	if err != nil {
		return nil, err
	}
	record := toRecord(account)
	err = r.db.WithContext(ctx).Table(table).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_name", "first_name", "middle_name", "email", "phone", "password", "role_id", "updated_at"}),
		}).
		Create(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrEmailTaken
		}
		return nil, err
	}
	return r.GetByID(ctx, account.Kind, record.ID)
}

// GetByID fetches one account.
func (r *Repository) GetByID(ctx context.Context, kind domain.AccountKind, id int64) (*domain.Account, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	var record accountRecord
	if err := r.db.WithContext(ctx).Table(table).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(kind), nil
}

// FindByEmail matches the email case-insensitively.
func (r *Repository) FindByEmail(ctx context.Context, kind domain.AccountKind, email string) (*domain.Account, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	var record accountRecord
	err = r.db.WithContext(ctx).Table(table).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(kind), nil
}

// List returns customers followed by employees, each ordered by id.
func (r *Repository) List(ctx context.Context) ([]*domain.Account, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var accounts []*domain.Account
	for _, kind := range []domain.AccountKind{domain.KindCustomer, domain.KindEmployee} {
		table, _ := tableFor(kind)
		var records []accountRecord
		if err := r.db.WithContext(ctx).Table(table).Order("id").Find(&records).Error; err != nil {
			return nil, err
		}
		for i := range records {
			accounts = append(accounts, records[i].toDomain(kind))
		}
	}
	return accounts, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres account repository not configured")
	}
	return nil
}

func toRecord(account *domain.Account) accountRecord {
	return accountRecord{
		ID:         account.ID,
		LastName:   account.LastName,
		FirstName:  account.FirstName,
		MiddleName: account.MiddleName,
		Email:      account.Email,
		Phone:      account.Phone,
		Password:   account.Password,
		RoleID:     int(account.Role),
	}
}

func (r accountRecord) toDomain(kind domain.AccountKind) *domain.Account {
	return &domain.Account{
		ID:         r.ID,
		Kind:       kind,
		LastName:   r.LastName,
		FirstName:  r.FirstName,
		MiddleName: r.MiddleName,
		Email:      r.Email,
		Phone:      r.Phone,
		Password:   r.Password,
		Role:       domain.Role(r.RoleID),
	}
}
