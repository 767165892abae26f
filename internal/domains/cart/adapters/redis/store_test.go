package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/storefront-api/internal/domains/cart/domain"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client, 30*time.Minute), mr
}

func TestStore_PersistsEntriesWithTTL(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	c, err := store.Update(ctx, "abc", func(c *domain.Cart) error {
		c.Add(3, 1)
		c.Add(1, 2)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, c.TotalQuantity())

	raw, err := mr.Get("cart:abc:entries")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"productId":3,"quantity":1},{"productId":1,"quantity":2}]`, raw)
	assert.Equal(t, 30*time.Minute, mr.TTL("cart:abc:entries"))

	loaded, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, c.Entries(), loaded.Entries())
}

func TestStore_MissingKeyIsEmptyCart(t *testing.T) {
	store, _ := newTestStore(t)

	c, err := store.Get(context.Background(), "nobody")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestStore_FailedUpdateKeepsPreviousState(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	_, err := store.Update(ctx, "abc", func(c *domain.Cart) error { c.Add(1, 1); return nil })
	require.NoError(t, err)
	_, err = store.Update(ctx, "abc", func(c *domain.Cart) error { c.Add(1, 4); return boom })
	require.ErrorIs(t, err, boom)

	c, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, 1, c.Quantity(1))
}

func TestStore_EmptyCartRemovesKey(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	_, err := store.Update(ctx, "abc", func(c *domain.Cart) error { c.Add(1, 1); return nil })
	require.NoError(t, err)
	_, err = store.Update(ctx, "abc", func(c *domain.Cart) error { c.Remove(1); return nil })
	require.NoError(t, err)
	assert.False(t, mr.Exists("cart:abc:entries"))

	_, err = store.Update(ctx, "abc", func(c *domain.Cart) error { c.Add(2, 1); return nil })
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, "abc"))
	assert.False(t, mr.Exists("cart:abc:entries"))
}
