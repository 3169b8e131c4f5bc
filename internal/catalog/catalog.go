// Package catalog holds the product data model shared by the platform
// clients, the comparison engine and the exporters. All values are built
// fresh per lookup and never mutated afterwards.
package catalog

// StockStatus is a closed set; "N/A" marks a side that has no option
// for a given variant in a comparison row.
type StockStatus string

const (
	InStock    StockStatus = "IN_STOCK"
	OutOfStock StockStatus = "OUT_OF_STOCK"
	StockNA    StockStatus = "N/A"
)

// CatalogRecord is one raw search hit. It lives only for the duration of
// a search call, long enough to pick the listing worth fetching in full.
type CatalogRecord struct {
	ArticleNumber string // model/article number, may be empty
	Title         string
	PlatformID    string // opaque id used to fetch the detail record
}

// Option is a single purchasable size×color variant.
type Option struct {
	SkuID    string      `json:"skuId"`
	Size     string      `json:"size"`    // platform-native raw size
	EUSize   string      `json:"euSize"`  // optional secondary size
	Color    string      `json:"color"`   // platform-native raw color
	Price    int         `json:"price"`   // KRW, whole won
	Stock    StockStatus `json:"stock"`
	ImageURL string      `json:"imageUrl,omitempty"`
}

// SalesMetrics is the sell-side liquidity summary derived from recent
// trade records.
type SalesMetrics struct {
	VelocityScore float64 `json:"velocityScore"`
	Rank          string  `json:"rank"`
	RecentSales   int     `json:"recentSales"`
	LastSoldAgo   string  `json:"lastSoldAgo,omitempty"`
}

// ProductInfo is one platform's view of a product.
type ProductInfo struct {
	Platform   string        `json:"platform"`
	ModelNo    string        `json:"modelNo"` // cross-platform join key
	Title      string        `json:"title"`
	ImageURL   string        `json:"imageUrl"`
	ProductURL string        `json:"productUrl,omitempty"`
	Options    []Option      `json:"options"`
	Sales      *SalesMetrics `json:"sales,omitempty"`
}

// SizeComparison is one variant row of a finished comparison.
// Buy is the domestic retailer, Sell the resale marketplace; profit is
// always signed sell minus buy and margin is relative to the buy price.
type SizeComparison struct {
	Size   string `json:"size"`
	EUSize string `json:"euSize,omitempty"`
	Color  string `json:"color"`

	BuyPrice int         `json:"buyPrice"`
	BuyStock StockStatus `json:"buyStock"`
	BuyURL   string      `json:"buyUrl,omitempty"`

	SellPrice int         `json:"sellPrice"`
	SellStock StockStatus `json:"sellStock"`

	Profit       int     `json:"profit"`
	IsProfitable bool    `json:"isProfitable"`
	Margin       float64 `json:"margin"` // percent, 2 decimals
}

// Status classifies the row for reporting: PROFIT, LOSS, or N/A when
// the buy side is unavailable or either price is missing.
func (c SizeComparison) Status() string {
	switch {
	case c.IsProfitable:
		return "PROFIT"
	case c.BuyStock == InStock && c.SellPrice > 0 && c.BuyPrice > 0:
		return "LOSS"
	default:
		return "N/A"
	}
}

// ComparisonResult is the terminal output of one CompareProduct call.
type ComparisonResult struct {
	Keyword    string           `json:"keyword"`
	BuyTitle   string           `json:"buyTitle"`
	SellTitle  string           `json:"sellTitle"`
	ImageURL   string           `json:"imageUrl"`
	SalesScore float64          `json:"salesScore"`
	SalesRank  string           `json:"salesRank"`
	Rows       []SizeComparison `json:"rows"`
}

// HasProfit reports whether any row in the result is profitable.
func (r *ComparisonResult) HasProfit() bool {
	for _, row := range r.Rows {
		if row.IsProfitable {
			return true
		}
	}
	return false
}
