package ports

import (
	"context"

	"github.com/Apurer/storefront-api/internal/domains/identity/domain"
)

// Service exposes identity use cases to adapters.
type Service interface {
	Login(ctx context.Context, creds domain.Credentials) (*domain.Session, error)
	GuestSession(ctx context.Context) (*domain.Session, error)
	Logout(ctx context.Context, token string) error
	Resolve(ctx context.Context, token string) (*domain.Session, error)
	Register(ctx context.Context, registration domain.Registration) (*domain.Account, error)
	ListAccounts(ctx context.Context, actor domain.Actor, query string) ([]*domain.Account, error)
	ChangeRole(ctx context.Context, actor domain.Actor, kind domain.AccountKind, id int64, role domain.Role) (*domain.Account, error)
}
