package application

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/storefront-api/internal/domains/identity/domain"
	"github.com/Apurer/storefront-api/internal/domains/identity/ports"
	"github.com/Apurer/storefront-api/internal/shared/faults"
)

// DefaultSessionTTL bounds how long a session token stays valid.
const DefaultSessionTTL = 24 * time.Hour

// Service exposes identity use cases.
type Service struct {
	repo     ports.Repository
	sessions ports.SessionStore
	carts    ports.CartResetter
	ttl      time.Duration
	now      func() time.Time
	newToken func() string
}

// Option customises the identity service.
type Option func(*Service)

// WithCartResetter wires the cart store so sign-in and sign-out start from an empty cart.
func WithCartResetter(carts ports.CartResetter) Option {
	return func(s *Service) {
		if carts != nil {
			s.carts = carts
		}
	}
}

// WithSessionTTL overrides DefaultSessionTTL.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(repo ports.Repository, sessions ports.SessionStore, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		sessions: sessions,
		carts:    ports.NoopCartResetter,
		ttl:      DefaultSessionTTL,
		now:      time.Now,
		newToken: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Login checks customers first, then employees, and opens a fresh session.
func (s *Service) Login(ctx context.Context, creds domain.Credentials) (*domain.Session, error) {
	creds = creds.Normalize()
	if err := creds.Validate(); err != nil {
		return nil, mapError(err)
	}
	account, err := s.findForLogin(ctx, creds.Email)
	if err != nil {
		return nil, mapError(err)
	}
	if !account.CheckPassword(creds.Password) {
		return nil, mapError(ports.ErrInvalidCredentials)
	}
	return s.openSession(ctx, account.Actor())
}

func (s *Service) findForLogin(ctx context.Context, email string) (*domain.Account, error) {
	for _, kind := range []domain.AccountKind{domain.KindCustomer, domain.KindEmployee} {
		account, err := s.repo.FindByEmail(ctx, kind, email)
		if err == nil {
			return account, nil
		}
		if !errors.Is(err, ports.ErrNotFound) {
			return nil, err
		}
	}
	return nil, ports.ErrInvalidCredentials
}

// GuestSession opens a session for browsing without an account.
func (s *Service) GuestSession(ctx context.Context) (*domain.Session, error) {
	return s.openSession(ctx, domain.Guest())
}

func (s *Service) openSession(ctx context.Context, actor domain.Actor) (*domain.Session, error) {
	now := s.now()
	session := &domain.Session{
		Token:     s.newToken(),
		Actor:     actor,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.carts.Reset(ctx, session.Token); err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Logout clears the session's cart and forgets the token.
func (s *Service) Logout(ctx context.Context, token string) error {
	session, err := s.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, ports.ErrSessionNotFound) {
			return nil
		}
		return err
	}
	if !session.Actor.Can(domain.CapabilityLogout) {
		return faults.ErrUnauthorized
	}
	if err := s.carts.Reset(ctx, session.Token); err != nil {
		return err
	}
	return s.sessions.Delete(ctx, session.Token)
}

// Resolve returns the live session for token. An empty token is a transient guest.
func (s *Service) Resolve(ctx context.Context, token string) (*domain.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return &domain.Session{Actor: domain.Guest()}, nil
	}
	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if session.Expired(s.now()) {
		_ = s.sessions.Delete(ctx, token)
		return nil, ports.ErrSessionNotFound
	}
	return session, nil
}

// Register creates a customer account.
func (s *Service) Register(ctx context.Context, registration domain.Registration) (*domain.Account, error) {
	if err := registration.Validate(); err != nil {
		return nil, mapError(err)
	}
	account := registration.Account()
	taken, err := s.emailTaken(ctx, account.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, mapError(ports.ErrEmailTaken)
	}
	return s.repo.Save(ctx, account)
}

func (s *Service) emailTaken(ctx context.Context, email string) (bool, error) {
	for _, kind := range []domain.AccountKind{domain.KindCustomer, domain.KindEmployee} {
		_, err := s.repo.FindByEmail(ctx, kind, email)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, ports.ErrNotFound) {
			return false, err
		}
	}
	return false, nil
}

// ListAccounts returns customers and employees, optionally filtered by name, email or id.
func (s *Service) ListAccounts(ctx context.Context, actor domain.Actor, query string) ([]*domain.Account, error) {
	if !actor.Can(domain.CapabilityManageUsers) {
		return nil, faults.ErrUnauthorized
	}
	accounts, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))
	result := make([]*domain.Account, 0, len(accounts))
	for _, account := range accounts {
		if query == "" || matchesAccount(account, query) {
			result = append(result, account)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Kind != result[j].Kind {
			return result[i].Kind == domain.KindCustomer
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func matchesAccount(account *domain.Account, query string) bool {
	return strings.Contains(strings.ToLower(account.FullName()), query) ||
		strings.Contains(strings.ToLower(account.Email), query) ||
		strings.Contains(strconv.FormatInt(account.ID, 10), query)
}

// ChangeRole updates an account's role.
func (s *Service) ChangeRole(ctx context.Context, actor domain.Actor, kind domain.AccountKind, id int64, role domain.Role) (*domain.Account, error) {
	if !actor.Can(domain.CapabilityManageUsers) {
		return nil, faults.ErrUnauthorized
	}
	if !kind.Valid() {
		return nil, mapError(domain.ErrInvalidAccountKind)
	}
	account, err := s.repo.GetByID(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if err := account.ChangeRole(role); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, account)
}

var _ ports.Service = (*Service)(nil)
