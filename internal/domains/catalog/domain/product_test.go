package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }

func TestEffectivePrice(t *testing.T) {
	p := &Product{Price: dec("199.99")}
	assert.False(t, p.HasDiscount())
	assert.True(t, p.EffectivePrice().Equal(dec("199.99")))

	p.DiscountPercent = ptr(dec("15"))
	assert.True(t, p.HasDiscount())
	assert.Equal(t, "169.99", p.EffectivePrice().StringFixed(2))

	p.DiscountPercent = ptr(decimal.Zero)
	assert.False(t, p.HasDiscount())
	assert.True(t, p.EffectivePrice().Equal(p.Price))
}

func TestProductValidate(t *testing.T) {
	valid := Product{SKU: "LMP-1", Name: "Lamp", Price: dec("10"), StockQuantity: 3}
	require.NoError(t, valid.Validate())

	cases := map[string]struct {
		mutate func(p *Product)
		want   error
	}{
		"no name":        {func(p *Product) { p.Name = "" }, ErrEmptyName},
		"no sku":         {func(p *Product) { p.SKU = "" }, ErrEmptySKU},
		"negative price": {func(p *Product) { p.Price = dec("-1") }, ErrNegativePrice},
		"negative stock": {func(p *Product) { p.StockQuantity = -1 }, ErrNegativeStock},
		"zero discount":  {func(p *Product) { p.DiscountPercent = ptr(decimal.Zero) }, ErrDiscountOutOfRange},
		"discount 90":    {func(p *Product) { p.DiscountPercent = ptr(dec("90")) }, ErrDiscountOutOfRange},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			p := valid.Clone()
			tc.mutate(p)
			require.ErrorIs(t, p.Validate(), tc.want)
		})
	}

	discounted := valid.Clone()
	discounted.DiscountPercent = ptr(dec("89.99"))
	require.NoError(t, discounted.Validate())
}

func TestCloneIsDeep(t *testing.T) {
	p := &Product{ID: 1, DiscountPercent: ptr(dec("5")), CategoryID: ptr(int64(2))}
	c := p.Clone()
	*c.DiscountPercent = dec("50")
	*c.CategoryID = 9
	assert.Equal(t, "5", p.DiscountPercent.String())
	assert.Equal(t, int64(2), *p.CategoryID)
}

func TestSearchQueryApply(t *testing.T) {
	products := []*Product{
		{ID: 1, SKU: "CH-01", Name: "Chair", Description: "oak", Price: dec("1500"), StockQuantity: 4, CategoryID: ptr(int64(1))},
		{ID: 2, SKU: "TB-01", Name: "table", Description: "Oak table", Price: dec("900"), StockQuantity: 20, CategoryID: ptr(int64(1))},
		{ID: 3, SKU: "LM-01", Name: "Lamp", Price: dec("1200"), StockQuantity: 12, CategoryID: ptr(int64(2))},
	}

	names := func(ps []*Product) []string {
		out := make([]string, 0, len(ps))
		for _, p := range ps {
			out = append(out, p.Name)
		}
		return out
	}

	assert.Equal(t, []string{"Chair", "Lamp", "table"}, names(SearchQuery{}.Apply(products)))
	assert.Equal(t, []string{"Chair", "table"}, names(SearchQuery{Text: "OAK"}.Apply(products)))
	assert.Equal(t, []string{"Lamp"}, names(SearchQuery{Text: "lm-"}.Apply(products)))
	assert.Equal(t, []string{"Chair", "Lamp"}, names(SearchQuery{OnlyExpensive: true}.Apply(products)))
	assert.Equal(t, []string{"Chair"}, names(SearchQuery{LowStock: true}.Apply(products)))
	assert.Equal(t, []string{"Lamp"}, names(SearchQuery{CategoryID: ptr(int64(2))}.Apply(products)))
	assert.Equal(t, []string{"table", "Lamp", "Chair"}, names(SearchQuery{Sort: SortNameDesc}.Apply(products)))
	assert.Equal(t, []string{"table", "Lamp", "Chair"}, names(SearchQuery{Sort: SortPriceAsc}.Apply(products)))
	assert.Equal(t, []string{"Chair", "Lamp", "table"}, names(SearchQuery{Sort: SortPriceDesc}.Apply(products)))
	assert.Equal(t, []string{"Chair", "Lamp", "table"}, names(SearchQuery{Sort: SortStockAsc}.Apply(products)))
}

func TestParseSortOrder(t *testing.T) {
	order, err := ParseSortOrder("")
	require.NoError(t, err)
	assert.Equal(t, SortNameAsc, order)

	order, err = ParseSortOrder("PRICE_DESC")
	require.NoError(t, err)
	assert.Equal(t, SortPriceDesc, order)

	_, err = ParseSortOrder("random")
	require.Error(t, err)
}
