package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Apurer/storefront-api/internal/domains/cart/domain"
	"github.com/Apurer/storefront-api/internal/domains/cart/ports"
)

var _ ports.Store = (*Store)(nil)

// DefaultTTL bounds how long an untouched cart is kept.
const DefaultTTL = 24 * time.Hour

const maxUpdateAttempts = 10

// ErrContention is returned when an update keeps losing the optimistic race.
var ErrContention = errors.New("cart is being modified concurrently, please retry")

// Store keeps each session's cart as a JSON list under its own key.
// Updates use WATCH/MULTI so concurrent writers to one cart never lose an entry.
type Store struct {
	rdb goredis.UniversalClient
	ttl time.Duration
}

func NewStore(rdb goredis.UniversalClient, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{rdb: rdb, ttl: ttl}
}

func (s *Store) key(session string) string {
	return fmt.Sprintf("cart:%s:entries", session)
}

func (s *Store) Get(ctx context.Context, session string) (*domain.Cart, error) {
	return load(ctx, s.rdb, s.key(session))
}

func (s *Store) Update(ctx context.Context, session string, fn func(*domain.Cart) error) (*domain.Cart, error) {
	key := s.key(session)
	var result *domain.Cart
	txf := func(tx *goredis.Tx) error {
		c, err := load(ctx, tx, key)
		if err != nil {
			return err
		}
		if err := fn(c); err != nil {
			return err
		}
		payload, err := json.Marshal(c.Entries())
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			if c.IsEmpty() {
				pipe.Del(ctx, key)
				return nil
			}
			pipe.Set(ctx, key, payload, s.ttl)
			return nil
		})
		if err == nil {
			result = c
		}
		return err
	}
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := s.rdb.Watch(ctx, txf, key)
		if errors.Is(err, goredis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return result, nil
	}
	return nil, ErrContention
}

func (s *Store) Delete(ctx context.Context, session string) error {
	return s.rdb.Del(ctx, s.key(session)).Err()
}

func load(ctx context.Context, rdb goredis.Cmdable, key string) (*domain.Cart, error) {
	raw, err := rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return domain.NewCart(), nil
	}
	if err != nil {
		return nil, err
	}
	var entries []domain.Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode cart %s: %w", key, err)
	}
	return domain.NewCart(entries...), nil
}
