package service

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"arbscan/internal/catalog"
)

// BuySide is the domestic retailer: a keyword may hit several listings
// of the same model (one per color variant).
type BuySide interface {
	SearchProduct(ctx context.Context, keyword string) ([]catalog.ProductInfo, error)
}

// SellSide is the resale marketplace: one canonical listing per model,
// or nothing.
type SellSide interface {
	GetProductInfo(ctx context.Context, keyword string) (*catalog.ProductInfo, error)
}

// variantKey is the canonical join key between the two platforms.
type variantKey struct {
	size  string
	color string
}

// Comparator pairs size×color variants of one product across the buy
// and sell platforms and computes per-variant profitability. Each
// CompareProduct call is self-contained; the struct holds no state
// between calls.
type Comparator struct {
	buy  BuySide
	sell SellSide
	log  zerolog.Logger
}

func NewComparator(buy BuySide, sell SellSide, log zerolog.Logger) *Comparator {
	return &Comparator{buy: buy, sell: sell, log: log}
}

// RefineKeyword strips a trailing color code from composite model
// numbers ("SQ313RPD91_BLK0" -> "SQ313RPD91"). Short prefixes are left
// alone: they are more likely part of the identifier than a model stem.
func RefineKeyword(keyword string) string {
	if i := strings.Index(keyword, "_"); i > 3 {
		return keyword[:i]
	}
	return keyword
}

// CompareProduct looks the keyword up on both platforms and returns the
// merged variant comparison, or nil when either side has no data.
// Adapter errors are logged and treated as not-found; a batch caller
// keeps going with its next keyword.
func (c *Comparator) CompareProduct(ctx context.Context, keyword string) *catalog.ComparisonResult {
	searchKey := RefineKeyword(keyword)
	if searchKey != keyword {
		c.log.Debug().Str("keyword", keyword).Str("refined", searchKey).Msg("refined keyword")
	}

	buyInfos, err := c.buy.SearchProduct(ctx, searchKey)
	if err != nil {
		c.log.Warn().Err(err).Str("keyword", searchKey).Msg("buy-side search failed")
		buyInfos = nil
	}
	sellInfo, err := c.sell.GetProductInfo(ctx, searchKey)
	if err != nil {
		c.log.Warn().Err(err).Str("keyword", searchKey).Msg("sell-side lookup failed")
		sellInfo = nil
	}
	// partial data is worse than none: without both sides every row
	// would be unpaired and the profit column meaningless
	if len(buyInfos) == 0 || sellInfo == nil {
		c.log.Info().
			Str("keyword", searchKey).
			Bool("buyFound", len(buyInfos) > 0).
			Bool("sellFound", sellInfo != nil).
			Msg("comparison unavailable")
		return nil
	}

	buyMain := buyInfos[0]

	buyMap := map[variantKey]catalog.Option{}
	for _, info := range buyInfos {
		for _, opt := range info.Options {
			addOption(buyMap, opt)
		}
	}
	sellMap := map[variantKey]catalog.Option{}
	for _, opt := range sellInfo.Options {
		addOption(sellMap, opt)
	}

	type pairing struct {
		buy  *catalog.Option
		sell *catalog.Option
	}
	pairs := map[variantKey]pairing{}
	consumedSell := map[variantKey]bool{}

	// pass 1: exact canonical keys
	for _, k := range sortedKeys(buyMap) {
		if so, ok := sellMap[k]; ok {
			bo := buyMap[k]
			pairs[k] = pairing{buy: &bo, sell: &so}
			consumedSell[k] = true
		}
	}

	// pass 2: flexible pairing for leftover buy keys. First fit, no
	// scoring among candidates; key order is pre-sorted so the outcome
	// does not depend on map iteration.
	sellKeys := sortedKeys(sellMap)
	for _, bk := range sortedKeys(buyMap) {
		if _, done := pairs[bk]; done {
			continue
		}
		bo := buyMap[bk]
		matched := false
		for _, sk := range sellKeys {
			if consumedSell[sk] {
				continue
			}
			so := sellMap[sk]
			if !sizeMatches(bk.size, sk.size, so.EUSize) || !colorMatches(bk.color, sk.color) {
				continue
			}
			pairs[bk] = pairing{buy: &bo, sell: &so}
			consumedSell[sk] = true
			matched = true
			break
		}
		if !matched {
			pairs[bk] = pairing{buy: &bo}
		}
	}

	// leftover sell-side variants surface as rows of their own
	for _, sk := range sellKeys {
		if consumedSell[sk] {
			continue
		}
		so := sellMap[sk]
		pairs[sk] = pairing{sell: &so}
	}

	rows := make([]catalog.SizeComparison, 0, len(pairs))
	keys := make([]variantKey, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	sortKeys(keys)

	for _, k := range keys {
		p := pairs[k]
		rows = append(rows, buildRow(k, p.buy, p.sell, buyMain.ProductURL))
	}

	result := &catalog.ComparisonResult{
		Keyword:   keyword,
		BuyTitle:  buyMain.Title,
		SellTitle: sellInfo.Title,
		ImageURL:  buyMain.ImageURL,
		SalesRank: "N/A",
		Rows:      rows,
	}
	if sellInfo.Sales != nil {
		result.SalesScore = sellInfo.Sales.VelocityScore
		result.SalesRank = sellInfo.Sales.Rank
	}
	return result
}

// addOption folds an option into a per-platform variant map, resolving
// canonical-key collisions: in-stock beats out-of-stock, then the lower
// price wins. The comparison should always see the most favorable
// available offer per variant.
func addOption(m map[variantKey]catalog.Option, opt catalog.Option) {
	key := variantKey{size: NormalizeSize(opt.Size), color: NormalizeColor(opt.Color)}
	existing, ok := m[key]
	if !ok {
		m[key] = opt
		return
	}
	exIn := existing.Stock == catalog.InStock
	opIn := opt.Stock == catalog.InStock
	switch {
	case !exIn && opIn:
		m[key] = opt
	case exIn == opIn && opt.Price < existing.Price:
		m[key] = opt
	}
}

// sizeMatches is the relaxed size rule of the flexible pass: exact
// canonical equality, or the buy-side KR size reverse-mapped to a
// letter code matching either the sell-side canonical size or its raw
// secondary EU size.
func sizeMatches(buySize, sellSize, sellEUSize string) bool {
	if buySize == sellSize {
		return true
	}
	letter, ok := krToClothingSize[buySize]
	if !ok {
		return false
	}
	return letter == sellSize || (sellEUSize != "" && letter == sellEUSize)
}

// colorMatches is the relaxed color rule: equality, the onecolor
// sentinel on either side, or substring containment for compound color
// names ("beigeblack" vs "black").
func colorMatches(buyColor, sellColor string) bool {
	return buyColor == sellColor ||
		buyColor == OneColor || sellColor == OneColor ||
		strings.Contains(buyColor, sellColor) || strings.Contains(sellColor, buyColor)
}

func buildRow(k variantKey, buy, sell *catalog.Option, buyURL string) catalog.SizeComparison {
	row := catalog.SizeComparison{
		Size:      k.size,
		Color:     k.color,
		BuyStock:  catalog.StockNA,
		SellStock: catalog.StockNA,
	}

	if buy != nil {
		row.BuyPrice = buy.Price
		row.BuyStock = buy.Stock
		row.BuyURL = buyURL
	}
	if sell != nil {
		row.SellPrice = sell.Price
		row.SellStock = sell.Stock
		row.EUSize = sell.EUSize
	}

	// display color prefers a raw platform string over the canonical key
	switch {
	case buy != nil:
		row.Color = buy.Color
	case sell != nil:
		row.Color = sell.Color
	}
	if NormalizeColor(row.Color) == OneColor {
		row.Color = "ONE COLOR"
	}

	// profitability only makes sense when the variant can actually be
	// bought right now and both sides quote a price
	if row.BuyPrice > 0 && row.SellPrice > 0 && row.BuyStock == catalog.InStock {
		row.Profit = row.SellPrice - row.BuyPrice
		row.IsProfitable = row.Profit > 0
		row.Margin = math.Round(float64(row.Profit)/float64(row.BuyPrice)*100*100) / 100
	}
	return row
}

// sortedKeys returns the variant keys of m ordered by color then
// numeric size so every merge pass walks candidates deterministically.
func sortedKeys(m map[variantKey]catalog.Option) []variantKey {
	keys := make([]variantKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sortKeys(keys)
	return keys
}

func sortKeys(keys []variantKey) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].color != keys[j].color {
			return keys[i].color < keys[j].color
		}
		fi, fj := SizeToFloat(keys[i].size), SizeToFloat(keys[j].size)
		if fi != fj {
			return fi < fj
		}
		return keys[i].size < keys[j].size
	})
}
