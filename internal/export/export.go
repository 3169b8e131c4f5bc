// Package export writes scan results as dated CSV and XLSX reports.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"arbscan/internal/catalog"
)

// Row is one flattened report line: a single variant comparison plus
// the product context it belongs to.
type Row struct {
	Brand       string
	ProductName string
	ModelNo     string
	Size        string
	EUSize      string
	Color       string
	BuyPrice    int
	BuyStock    string
	SellPrice   int
	SellStock   string
	Profit      int
	Margin      float64
	Status      string
	SalesScore  float64
	SalesRank   string
	ImageURL    string
	BuyURL      string
	HasProfit   bool
	UpdatedAt   time.Time
}

// header order is stable; the viewer keys on these names.
var header = []string{
	"Brand", "Product Name", "Model No", "Size", "EU Size", "Color",
	"Buy Price", "Buy Stock", "Sell Price", "Sell Stock",
	"Profit", "Margin (%)", "Status", "Sales Score", "Sales Rank",
	"Image URL", "Buy URL", "Has Profit", "Updated At",
}

func (r Row) values() []string {
	return []string{
		r.Brand, r.ProductName, r.ModelNo, r.Size, orDash(r.EUSize), r.Color,
		fmt.Sprintf("%d", r.BuyPrice), r.BuyStock,
		fmt.Sprintf("%d", r.SellPrice), r.SellStock,
		fmt.Sprintf("%d", r.Profit), fmt.Sprintf("%.2f", r.Margin), r.Status,
		fmt.Sprintf("%.2f", r.SalesScore), r.SalesRank,
		r.ImageURL, r.BuyURL, fmt.Sprintf("%t", r.HasProfit),
		r.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// FromComparison flattens one comparison result into report rows.
func FromComparison(brand, productName string, res *catalog.ComparisonResult, now time.Time) []Row {
	if res == nil {
		return nil
	}
	hasProfit := res.HasProfit()
	rows := make([]Row, 0, len(res.Rows))
	for _, c := range res.Rows {
		rows = append(rows, Row{
			Brand:       brand,
			ProductName: productName,
			ModelNo:     res.Keyword,
			Size:        c.Size,
			EUSize:      c.EUSize,
			Color:       c.Color,
			BuyPrice:    c.BuyPrice,
			BuyStock:    string(c.BuyStock),
			SellPrice:   c.SellPrice,
			SellStock:   string(c.SellStock),
			Profit:      c.Profit,
			Margin:      c.Margin,
			Status:      c.Status(),
			SalesScore:  res.SalesScore,
			SalesRank:   res.SalesRank,
			ImageURL:    res.ImageURL,
			BuyURL:      c.BuyURL,
			HasProfit:   hasProfit,
			UpdatedAt:   now,
		})
	}
	return rows
}

// DatedPath returns dir/YYYY-MM-DD.ext for the given day.
func DatedPath(dir string, day time.Time, ext string) string {
	return filepath.Join(dir, day.Format("2006-01-02")+"."+strings.TrimPrefix(ext, "."))
}

// ListReportDates scans dir for dated CSV reports, newest first.
func ListReportDates(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var dates []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".csv") {
			continue
		}
		date := strings.TrimSuffix(name, ".csv")
		if _, err := time.Parse("2006-01-02", date); err == nil {
			dates = append(dates, date)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates, nil
}
