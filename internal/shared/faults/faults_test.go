package faults

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsufficientStockMatchesSentinel(t *testing.T) {
	err := fmt.Errorf("checkout: %w", InsufficientStock(7, "Lamp", 1, 3))

	require.ErrorIs(t, err, ErrInsufficientStock)
	var stock *InsufficientStockError
	require.True(t, errors.As(err, &stock))
	assert.Equal(t, int64(7), stock.ProductID)
	assert.Equal(t, 1, stock.Available)
	assert.Contains(t, err.Error(), "Lamp")
}

func TestKindOf(t *testing.T) {
	cases := map[Kind]error{
		KindUnauthorized:       ErrUnauthorized,
		KindNotFound:           fmt.Errorf("product 4: %w", ErrNotFound),
		KindInsufficientStock:  InsufficientStock(1, "", 0, 1),
		KindEmptyCart:          ErrEmptyCart,
		KindPersistenceFailure: Persistence(errors.New("deadlock")),
	}
	for want, err := range cases {
		assert.Equal(t, want, KindOf(err), want)
	}
	assert.Equal(t, Kind(""), KindOf(errors.New("other")))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestMessagesAreDistinct(t *testing.T) {
	seen := map[string]bool{}
	for _, err := range []error{ErrUnauthorized, ErrNotFound, ErrInsufficientStock, ErrEmptyCart, ErrPersistenceFailure} {
		require.False(t, seen[err.Error()], err.Error())
		seen[err.Error()] = true
	}
}

func TestFromKindRoundTrip(t *testing.T) {
	original := &InsufficientStockError{ProductID: 3, ProductName: "Desk", Available: 0, Requested: 1}
	rebuilt := FromKind(KindInsufficientStock, original.Error(), original)
	require.ErrorIs(t, rebuilt, ErrInsufficientStock)
	assert.Equal(t, original.Error(), rebuilt.Error())

	require.ErrorIs(t, FromKind(KindEmptyCart, ErrEmptyCart.Error(), nil), ErrEmptyCart)
	require.ErrorIs(t, FromKind(KindPersistenceFailure, "tx aborted", nil), ErrPersistenceFailure)
}
