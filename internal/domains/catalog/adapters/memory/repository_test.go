package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-api/internal/domains/catalog/ports"
	"github.com/Apurer/storefront-api/internal/shared/faults"
)

func TestRepository_StockAdjustments(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	saved, err := repo.Save(ctx, &domain.Product{SKU: "P1", Name: "Kettle", Price: decimal.NewFromInt(100), StockQuantity: 5})
	require.NoError(t, err)
	require.Equal(t, int64(1), saved.ID)
	require.False(t, saved.CreatedAt.IsZero())

	require.NoError(t, repo.DecrementStock(ctx, saved.ID, 3))
	err = repo.DecrementStock(ctx, saved.ID, 3)
	require.ErrorIs(t, err, faults.ErrInsufficientStock)

	repo.RestoreStock(ctx, saved.ID, 3)
	p, err := repo.FindProduct(ctx, saved.ID)
	require.NoError(t, err)
	require.Equal(t, 5, p.StockQuantity)

	require.ErrorIs(t, repo.DecrementStock(ctx, 99, 1), ports.ErrNotFound)
}

func TestRepository_ReturnsCopies(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	saved, err := repo.Save(ctx, &domain.Product{SKU: "P1", Name: "Kettle", StockQuantity: 5})
	require.NoError(t, err)

	saved.StockQuantity = 0
	p, err := repo.FindProduct(ctx, saved.ID)
	require.NoError(t, err)
	require.Equal(t, 5, p.StockQuantity)

	taken, err := repo.SKUTaken(ctx, "p1", 0)
	require.NoError(t, err)
	require.True(t, taken)
	taken, err = repo.SKUTaken(ctx, "p1", saved.ID)
	require.NoError(t, err)
	require.False(t, taken)

	require.NoError(t, repo.Delete(ctx, saved.ID))
	require.ErrorIs(t, repo.Delete(ctx, saved.ID), ports.ErrNotFound)
	_, err = repo.FindProduct(ctx, saved.ID)
	require.ErrorIs(t, err, faults.ErrNotFound)
}
