package ports

import (
	"context"
	"errors"

	"github.com/Apurer/storefront-api/internal/domains/identity/domain"
)

var ErrNotFound = errors.New("account not found")
var ErrInvalidCredentials = errors.New("invalid email or password")
var ErrEmailTaken = errors.New("an account with this email already exists")

// Repository persists customer and employee accounts.
type Repository interface {
	Save(ctx context.Context, account *domain.Account) (*domain.Account, error)
	GetByID(ctx context.Context, kind domain.AccountKind, id int64) (*domain.Account, error)
	// FindByEmail matches case-insensitively within one account kind.
	FindByEmail(ctx context.Context, kind domain.AccountKind, email string) (*domain.Account, error)
	List(ctx context.Context) ([]*domain.Account, error)
}
