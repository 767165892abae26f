package memory

import (
	"context"
	"sync"

	"github.com/Apurer/storefront-api/internal/domains/cart/domain"
	"github.com/Apurer/storefront-api/internal/domains/cart/ports"
)

var _ ports.Store = (*Store)(nil)

// Store keeps carts in process memory. Updates are serialised by one mutex.
type Store struct {
	mu    sync.Mutex
	carts map[string]*domain.Cart
}

func NewStore() *Store {
	return &Store{carts: make(map[string]*domain.Cart)}
}

func (s *Store) Get(_ context.Context, session string) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.carts[session]; ok {
		return c.Clone(), nil
	}
	return domain.NewCart(), nil
}

func (s *Store) Update(_ context.Context, session string, fn func(*domain.Cart) error) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	working := domain.NewCart()
	if c, ok := s.carts[session]; ok {
		working = c.Clone()
	}
	if err := fn(working); err != nil {
		return nil, err
	}
	if working.IsEmpty() {
		delete(s.carts, session)
	} else {
		s.carts[session] = working.Clone()
	}
	return working, nil
}

func (s *Store) Delete(_ context.Context, session string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, session)
	return nil
}
