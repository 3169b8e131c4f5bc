package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arbscan/internal/catalog"
)

type fakeBuy struct {
	infos []catalog.ProductInfo
	err   error
}

func (f fakeBuy) SearchProduct(_ context.Context, _ string) ([]catalog.ProductInfo, error) {
	return f.infos, f.err
}

type fakeSell struct {
	info *catalog.ProductInfo
	err  error
}

func (f fakeSell) GetProductInfo(_ context.Context, _ string) (*catalog.ProductInfo, error) {
	return f.info, f.err
}

func buyProduct(opts ...catalog.Option) []catalog.ProductInfo {
	return []catalog.ProductInfo{{
		Platform:   "Musinsa",
		ModelNo:    "DV1748-601",
		Title:      "에어포스 1 '07",
		ProductURL: "https://example.com/products/1",
		Options:    opts,
	}}
}

func sellProduct(opts ...catalog.Option) *catalog.ProductInfo {
	return &catalog.ProductInfo{
		Platform: "Poizon",
		ModelNo:  "DV1748-601",
		Title:    "Air Force 1 '07",
		Options:  opts,
	}
}

func newTestComparator(buy BuySide, sell SellSide) *Comparator {
	return NewComparator(buy, sell, zerolog.Nop())
}

func TestRefineKeyword(t *testing.T) {
	assert.Equal(t, "SQ313RPD91", RefineKeyword("SQ313RPD91_BLK0"))
	assert.Equal(t, "DV1748-601", RefineKeyword("DV1748-601"))
	// short prefixes are identifiers, not stems
	assert.Equal(t, "AB_123", RefineKeyword("AB_123"))
}

func TestCompareProductExactMatch(t *testing.T) {
	cmp := newTestComparator(
		fakeBuy{infos: buyProduct(
			catalog.Option{Size: "270", Color: "Black", Price: 100000, Stock: catalog.InStock},
		)},
		fakeSell{info: sellProduct(
			catalog.Option{Size: "270", Color: "블랙", Price: 150000, Stock: catalog.InStock},
		)},
	)

	res := cmp.CompareProduct(context.Background(), "DV1748-601")
	require.NotNil(t, res)
	require.Len(t, res.Rows, 1)

	row := res.Rows[0]
	assert.Equal(t, "270", row.Size)
	assert.Equal(t, 100000, row.BuyPrice)
	assert.Equal(t, 150000, row.SellPrice)
	assert.Equal(t, 50000, row.Profit)
	assert.True(t, row.IsProfitable)
	assert.Equal(t, 50.0, row.Margin)
	assert.Equal(t, "PROFIT", row.Status())
	assert.True(t, res.HasProfit())
}

func TestCompareProductNoProfitWhenOutOfStock(t *testing.T) {
	cmp := newTestComparator(
		fakeBuy{infos: buyProduct(
			catalog.Option{Size: "270", Color: "Black", Price: 100000, Stock: catalog.OutOfStock},
		)},
		fakeSell{info: sellProduct(
			catalog.Option{Size: "270", Color: "Black", Price: 150000, Stock: catalog.InStock},
		)},
	)

	res := cmp.CompareProduct(context.Background(), "DV1748-601")
	require.NotNil(t, res)
	require.Len(t, res.Rows, 1)

	row := res.Rows[0]
	assert.Equal(t, 0, row.Profit)
	assert.False(t, row.IsProfitable)
	assert.Equal(t, 0.0, row.Margin)
	assert.Equal(t, "N/A", row.Status())
	assert.False(t, res.HasProfit())
}

func TestCompareProductLoss(t *testing.T) {
	cmp := newTestComparator(
		fakeBuy{infos: buyProduct(
			catalog.Option{Size: "270", Color: "Black", Price: 150000, Stock: catalog.InStock},
		)},
		fakeSell{info: sellProduct(
			catalog.Option{Size: "270", Color: "Black", Price: 120000, Stock: catalog.InStock},
		)},
	)

	res := cmp.CompareProduct(context.Background(), "DV1748-601")
	require.NotNil(t, res)
	require.Len(t, res.Rows, 1)

	row := res.Rows[0]
	assert.Equal(t, -30000, row.Profit)
	assert.False(t, row.IsProfitable)
	assert.Equal(t, -20.0, row.Margin)
	assert.Equal(t, "LOSS", row.Status())
}

func TestCompareProductMissingSide(t *testing.T) {
	cmp := newTestComparator(
		fakeBuy{infos: buyProduct(catalog.Option{Size: "270", Color: "Black", Price: 1, Stock: catalog.InStock})},
		fakeSell{info: nil},
	)
	assert.Nil(t, cmp.CompareProduct(context.Background(), "DV1748-601"))

	cmp = newTestComparator(fakeBuy{}, fakeSell{info: sellProduct()})
	assert.Nil(t, cmp.CompareProduct(context.Background(), "DV1748-601"))
}

func TestCompareProductAdapterErrorIsNotFound(t *testing.T) {
	cmp := newTestComparator(
		fakeBuy{err: assert.AnError},
		fakeSell{info: sellProduct(catalog.Option{Size: "270", Color: "Black", Price: 1})},
	)
	assert.Nil(t, cmp.CompareProduct(context.Background(), "DV1748-601"))
}

func TestCompareProductCollisionPrefersInStock(t *testing.T) {
	// two buy listings collapse onto the same canonical variant; the
	// in-stock offer wins even at a higher price
	cmp := newTestComparator(
		fakeBuy{infos: buyProduct(
			catalog.Option{Size: "270", Color: "Black", Price: 100000, Stock: catalog.OutOfStock},
			catalog.Option{Size: "270", Color: "블랙", Price: 120000, Stock: catalog.InStock},
		)},
		fakeSell{info: sellProduct(
			catalog.Option{Size: "270", Color: "Black", Price: 150000, Stock: catalog.InStock},
		)},
	)

	res := cmp.CompareProduct(context.Background(), "DV1748-601")
	require.NotNil(t, res)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, 120000, res.Rows[0].BuyPrice)
	assert.Equal(t, 30000, res.Rows[0].Profit)
}

func TestCompareProductCollisionPrefersLowerPrice(t *testing.T) {
	cmp := newTestComparator(
		fakeBuy{infos: buyProduct(
			catalog.Option{Size: "270", Color: "Black", Price: 120000, Stock: catalog.InStock},
			catalog.Option{Size: "270", Color: "Black", Price: 100000, Stock: catalog.InStock},
		)},
		fakeSell{info: sellProduct(
			catalog.Option{Size: "270", Color: "Black", Price: 150000, Stock: catalog.InStock},
		)},
	)

	res := cmp.CompareProduct(context.Background(), "DV1748-601")
	require.NotNil(t, res)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, 100000, res.Rows[0].BuyPrice)
}

func TestCompareProductFlexibleSizePairing(t *testing.T) {
	// buy side lists "M" (canonical 95); the sell side's primary size is
	// a CN spec string, the letter code only survives in EUSize
	cmp := newTestComparator(
		fakeBuy{infos: buyProduct(
			catalog.Option{Size: "M", Color: "Black", Price: 50000, Stock: catalog.InStock},
		)},
		fakeSell{info: sellProduct(
			catalog.Option{Size: "160/84A", EUSize: "M", Color: "Black", Price: 80000, Stock: catalog.InStock},
		)},
	)

	res := cmp.CompareProduct(context.Background(), "DV1748-601")
	require.NotNil(t, res)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, 30000, res.Rows[0].Profit)
}

func TestCompareProductFlexibleColorOneColor(t *testing.T) {
	cmp := newTestComparator(
		fakeBuy{infos: buyProduct(
			catalog.Option{Size: "270", Color: "", Price: 50000, Stock: catalog.InStock},
		)},
		fakeSell{info: sellProduct(
			catalog.Option{Size: "270", Color: "Black", Price: 80000, Stock: catalog.InStock},
		)},
	)

	res := cmp.CompareProduct(context.Background(), "DV1748-601")
	require.NotNil(t, res)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, 30000, res.Rows[0].Profit)
	// display color falls back to the sell-side raw string via the key
	assert.Equal(t, "ONE COLOR", res.Rows[0].Color)
}

func TestCompareProductUnmatchedRows(t *testing.T) {
	cmp := newTestComparator(
		fakeBuy{infos: buyProduct(
			catalog.Option{Size: "260", Color: "Black", Price: 50000, Stock: catalog.InStock},
		)},
		fakeSell{info: sellProduct(
			catalog.Option{Size: "280", Color: "White", Price: 80000, Stock: catalog.InStock},
		)},
	)

	res := cmp.CompareProduct(context.Background(), "DV1748-601")
	require.NotNil(t, res)
	require.Len(t, res.Rows, 2)

	for _, row := range res.Rows {
		assert.Equal(t, 0, row.Profit)
		assert.False(t, row.IsProfitable)
		assert.Equal(t, "N/A", row.Status())
	}

	// rows are sorted by color then size
	assert.Equal(t, "260", res.Rows[0].Size)
	assert.Equal(t, catalog.StockNA, res.Rows[0].SellStock)
	assert.Equal(t, 0, res.Rows[0].SellPrice)
	assert.Equal(t, "280", res.Rows[1].Size)
	assert.Equal(t, catalog.StockNA, res.Rows[1].BuyStock)
}

func TestCompareProductMergesMultipleBuyListings(t *testing.T) {
	infos := buyProduct(catalog.Option{Size: "270", Color: "Black", Price: 100000, Stock: catalog.InStock})
	infos = append(infos, catalog.ProductInfo{
		Platform: "Musinsa",
		ModelNo:  "DV1748-601",
		Title:    "에어포스 1 '07 화이트",
		Options: []catalog.Option{
			{Size: "270", Color: "White", Price: 110000, Stock: catalog.InStock},
		},
	})

	cmp := newTestComparator(
		fakeBuy{infos: infos},
		fakeSell{info: sellProduct(
			catalog.Option{Size: "270", Color: "Black", Price: 150000, Stock: catalog.InStock},
			catalog.Option{Size: "270", Color: "White", Price: 130000, Stock: catalog.InStock},
		)},
	)

	res := cmp.CompareProduct(context.Background(), "DV1748-601")
	require.NotNil(t, res)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, 50000, res.Rows[0].Profit)
	assert.Equal(t, 20000, res.Rows[1].Profit)
}

func TestCompareProductSalesMetricsCarryOver(t *testing.T) {
	sell := sellProduct(catalog.Option{Size: "270", Color: "Black", Price: 150000, Stock: catalog.InStock})
	sell.Sales = &catalog.SalesMetrics{VelocityScore: 5200.5, Rank: "SSS (미친 속도)"}

	cmp := newTestComparator(
		fakeBuy{infos: buyProduct(catalog.Option{Size: "270", Color: "Black", Price: 100000, Stock: catalog.InStock})},
		fakeSell{info: sell},
	)

	res := cmp.CompareProduct(context.Background(), "DV1748-601")
	require.NotNil(t, res)
	assert.Equal(t, 5200.5, res.SalesScore)
	assert.Equal(t, "SSS (미친 속도)", res.SalesRank)
}
