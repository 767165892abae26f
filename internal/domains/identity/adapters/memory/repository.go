package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/Apurer/storefront-api/internal/domains/identity/domain"
	"github.com/Apurer/storefront-api/internal/domains/identity/ports"
)

type accountKey struct {
	kind domain.AccountKind
	id   int64
}

// Repository is an in-memory account repository keyed by kind and id.
type Repository struct {
	mu       sync.RWMutex
	accounts map[accountKey]*domain.Account
	nextID   map[domain.AccountKind]int64
}

func NewRepository() *Repository {
	return &Repository{
		accounts: make(map[accountKey]*domain.Account),
		nextID:   map[domain.AccountKind]int64{domain.KindCustomer: 1, domain.KindEmployee: 1},
	}
}

func (r *Repository) Save(_ context.Context, account *domain.Account) (*domain.Account, error) {
	if !account.Kind.Valid() {
		return nil, domain.ErrInvalidAccountKind
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, existing := range r.accounts {
		if key.kind == account.Kind && key.id != account.ID && strings.EqualFold(existing.Email, account.Email) {
			return nil, ports.ErrEmailTaken
		}
	}
	stored := cloneAccount(account)
	if stored.ID == 0 {
		stored.ID = r.nextID[stored.Kind]
	}
	if stored.ID >= r.nextID[stored.Kind] {
		r.nextID[stored.Kind] = stored.ID + 1
	}
	r.accounts[accountKey{kind: stored.Kind, id: stored.ID}] = stored
	return cloneAccount(stored), nil
}

func (r *Repository) GetByID(_ context.Context, kind domain.AccountKind, id int64) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	account, ok := r.accounts[accountKey{kind: kind, id: id}]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneAccount(account), nil
}

func (r *Repository) FindByEmail(_ context.Context, kind domain.AccountKind, email string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for key, account := range r.accounts {
		if key.kind == kind && strings.EqualFold(account.Email, email) {
			return cloneAccount(account), nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) List(_ context.Context) ([]*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*domain.Account, 0, len(r.accounts))
	for _, account := range r.accounts {
		result = append(result, cloneAccount(account))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Kind != result[j].Kind {
			return result[i].Kind < result[j].Kind
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func cloneAccount(account *domain.Account) *domain.Account {
	if account == nil {
		return nil
	}
	copy := *account
	return &copy
}

var _ ports.Repository = (*Repository)(nil)
