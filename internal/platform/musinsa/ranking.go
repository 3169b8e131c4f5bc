package musinsa

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"arbscan/internal/platform"
)

// RankingType selects a ranking board section.
type RankingType string

const (
	RankingAll    RankingType = "199"
	RankingNew    RankingType = "200"
	RankingRising RankingType = "201"
)

// RankingItem is one board entry, enough to seed a comparison: the
// product id is later resolved to a model number via GetProductInfo.
type RankingItem struct {
	ProductID   string
	BrandName   string
	ProductName string
	Price       int
	ProductURL  string
	ImageURL    string
}

type rankingResponse struct {
	Data struct {
		Modules []rankingModule `json:"modules"`
	} `json:"data"`
}

type rankingModule struct {
	ID    string        `json:"id"`
	Items []rankingSlot `json:"items"`
}

type rankingSlot struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Info struct {
		BrandName   string `json:"brandName"`
		ProductName string `json:"productName"`
		FinalPrice  int    `json:"finalPrice"`
	} `json:"info"`
	Image struct {
		URL string `json:"url"`
	} `json:"image"`
}

// FetchRanking pulls one ranking board section, keeping only entries
// whose brand matches one of brandNames (all entries when empty).
func (c *Client) FetchRanking(ctx context.Context, rt RankingType, brandNames []string) ([]RankingItem, error) {
	u := fmt.Sprintf(
		"%s?storeCode=musinsa&sectionId=%s&contentsId=&categoryCode=000&subPan=product&gf=A&ageBand=AGE_BAND_ALL",
		c.rankingURL, rt)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	var out rankingResponse
	if err := platform.DecodeJSON(resp, &out); err != nil {
		return nil, err
	}

	targets := make([]string, 0, len(brandNames))
	for _, b := range brandNames {
		targets = append(targets, normalizeBrand(b))
	}

	var items []RankingItem
	for _, module := range out.Data.Modules {
		if !strings.HasPrefix(module.ID, "MULTICOLUMN") {
			continue
		}
		for _, slot := range module.Items {
			if !strings.HasPrefix(slot.Type, "PRODUCT_COLUMN") {
				continue
			}
			if len(targets) > 0 && !brandMatches(normalizeBrand(slot.Info.BrandName), targets) {
				continue
			}
			items = append(items, RankingItem{
				ProductID:   slot.ID,
				BrandName:   slot.Info.BrandName,
				ProductName: slot.Info.ProductName,
				Price:       slot.Info.FinalPrice,
				ProductURL:  fmt.Sprintf("%s/products/%s", c.pageURL, slot.ID),
				ImageURL:    slot.Image.URL,
			})
		}
	}
	return items, nil
}

// Brand names mix Hangul and Latin, so normalization keeps every
// letter and digit, unlike the article-number matcher.
var nonBrandRune = regexp.MustCompile(`[^\p{L}\p{N}]+`)

func normalizeBrand(s string) string {
	return nonBrandRune.ReplaceAllString(strings.ToLower(s), "")
}

// brandMatches allows containment both ways: the board spells brands
// like "나이키(Nike)" while the filter says "나이키".
func brandMatches(brand string, targets []string) bool {
	if brand == "" {
		return false
	}
	for _, t := range targets {
		if t == "" {
			continue
		}
		if strings.Contains(brand, t) || strings.Contains(t, brand) {
			return true
		}
	}
	return false
}
