package postgres

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Apurer/storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-api/internal/domains/catalog/ports"
	"github.com/Apurer/storefront-api/internal/platform/postgres/dbtest"
	"github.com/Apurer/storefront-api/internal/shared/faults"
)

func seedProducts(t *testing.T, repo *Repository) []*domain.Product {
	t.Helper()
	furniture, lighting := int64(1), int64(2)
	discount := decimal.NewFromInt(10)
	inputs := []*domain.Product{
		{SKU: "CH-01", Name: "Chair", Description: "solid oak", Price: decimal.NewFromInt(1500), StockQuantity: 4, CategoryID: &furniture, DiscountPercent: &discount},
		{SKU: "TB-01", Name: "Table", Description: "oak 100%", Price: decimal.RequireFromString("900.50"), StockQuantity: 20, CategoryID: &furniture},
		{SKU: "LM-01", Name: "Lamp", Price: decimal.NewFromInt(1200), StockQuantity: 12, CategoryID: &lighting},
	}
	out := make([]*domain.Product, 0, len(inputs))
	for _, p := range inputs {
		saved, err := repo.Save(context.Background(), p)
		require.NoError(t, err)
		out = append(out, saved)
	}
	return out
}

func names(products []*domain.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}

func TestRepository_Search(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))
	seedProducts(t, repo)
	ctx := context.Background()
	lighting := int64(2)

	cases := []struct {
		name  string
		query domain.SearchQuery
		want  []string
	}{
		{"all by name", domain.SearchQuery{}, []string{"Chair", "Lamp", "Table"}},
		{"text over description", domain.SearchQuery{Text: "OAK"}, []string{"Chair", "Table"}},
		{"percent is literal", domain.SearchQuery{Text: "100%"}, []string{"Table"}},
		{"sku", domain.SearchQuery{Text: "lm-"}, []string{"Lamp"}},
		{"expensive", domain.SearchQuery{OnlyExpensive: true}, []string{"Chair", "Lamp"}},
		{"low stock", domain.SearchQuery{LowStock: true}, []string{"Chair"}},
		{"category", domain.SearchQuery{CategoryID: &lighting}, []string{"Lamp"}},
		{"price desc", domain.SearchQuery{Sort: domain.SortPriceDesc}, []string{"Chair", "Lamp", "Table"}},
		{"stock asc", domain.SearchQuery{Sort: domain.SortStockAsc}, []string{"Chair", "Lamp", "Table"}},
		{"text and filter", domain.SearchQuery{Text: "oak", OnlyExpensive: true}, []string{"Chair"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			products, err := repo.Search(ctx, tc.query)
			require.NoError(t, err)
			assert.Equal(t, tc.want, names(products))
		})
	}
}

func TestRepository_SaveRoundTrip(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))
	products := seedProducts(t, repo)
	ctx := context.Background()

	chair, err := repo.FindProduct(ctx, products[0].ID)
	require.NoError(t, err)
	require.NotNil(t, chair.DiscountPercent)
	assert.True(t, chair.EffectivePrice().Equal(decimal.NewFromInt(1350)))
	assert.Equal(t, "900.5", products[1].Price.String())

	chair.Name = "Armchair"
	chair.DiscountPercent = nil
	updated, err := repo.Save(ctx, chair)
	require.NoError(t, err)
	assert.Equal(t, "Armchair", updated.Name)
	assert.Nil(t, updated.DiscountPercent)

	taken, err := repo.SKUTaken(ctx, "ch-01", 0)
	require.NoError(t, err)
	assert.True(t, taken)
	taken, err = repo.SKUTaken(ctx, "CH-01", chair.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	require.NoError(t, repo.Delete(ctx, chair.ID))
	_, err = repo.FindProduct(ctx, chair.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)
	require.ErrorIs(t, repo.Delete(ctx, chair.ID), faults.ErrNotFound)
}

func TestDecrementStock_Guarded(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewRepository(db)
	products := seedProducts(t, repo)
	ctx := context.Background()
	chair := products[0]

	err := db.Transaction(func(tx *gorm.DB) error {
		return DecrementStock(ctx, tx, chair.ID, 3)
	})
	require.NoError(t, err)

	err = db.Transaction(func(tx *gorm.DB) error {
		return DecrementStock(ctx, tx, chair.ID, 2)
	})
	var stock *faults.InsufficientStockError
	require.ErrorAs(t, err, &stock)
	assert.Equal(t, 1, stock.Available)
	assert.Equal(t, "Chair", stock.ProductName)

	err = db.Transaction(func(tx *gorm.DB) error {
		return DecrementStock(ctx, tx, 999, 1)
	})
	require.ErrorIs(t, err, ports.ErrNotFound)

	reloaded, err := repo.FindProduct(ctx, chair.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.StockQuantity)
}
