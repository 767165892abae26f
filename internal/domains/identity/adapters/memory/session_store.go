package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Apurer/storefront-api/internal/domains/identity/domain"
	"github.com/Apurer/storefront-api/internal/domains/identity/ports"
)

// SessionStore is an in-memory SessionStore implementation.
type SessionStore struct {
	session sync.Map
}

func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

func (s *SessionStore) Save(_ context.Context, session *domain.Session) error {
	copy := *session
	s.session.Store(session.Token, &copy)
	return nil
}

func (s *SessionStore) Get(_ context.Context, token string) (*domain.Session, error) {
	value, ok := s.session.Load(token)
	if !ok {
		return nil, ports.ErrSessionNotFound
	}
	copy := *value.(*domain.Session)
	return &copy, nil
}

func (s *SessionStore) Delete(_ context.Context, token string) error {
	s.session.Delete(token)
	return nil
}

// PurgeExpired drops sessions whose expiry is at or before now.
func (s *SessionStore) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	var purged int64
	s.session.Range(func(key, value any) bool {
		if value.(*domain.Session).Expired(now) {
			s.session.Delete(key)
			purged++
		}
		return true
	})
	return purged, nil
}

var _ ports.SessionStore = (*SessionStore)(nil)
