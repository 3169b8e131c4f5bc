// Package musinsa is the buy-side adapter: keyword search, product
// detail assembly (HTML metadata + options + inventory) and the ranking
// boards used to seed batch scans.
package musinsa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"arbscan/internal/catalog"
	"arbscan/internal/config"
	"arbscan/internal/match"
	"arbscan/internal/platform"
)

const platformName = "Musinsa"

// Search results below this rank are too noisy to be worth filtering.
const searchScanLimit = 20

// Only the top few unmatched hits justify a detail fetch to check the
// style number.
const styleNoProbeLimit = 3

type Client struct {
	http       *http.Client
	searchURL  string
	goodsURL   string
	pageURL    string
	rankingURL string
	log        zerolog.Logger
}

func NewClient(cfg config.Config, log zerolog.Logger) *Client {
	return &Client{
		http:       platform.NewHTTPClient(),
		searchURL:  cfg.MusinsaSearchURL,
		goodsURL:   cfg.MusinsaGoodsURL,
		pageURL:    cfg.MusinsaPageURL,
		rankingURL: cfg.MusinsaRankingURL,
		log:        log.With().Str("platform", platformName).Logger(),
	}
}

// SearchProduct returns detail records for every search hit that looks
// like the given model number. Several listings of one model (one per
// colorway) are all returned; the caller merges their options.
func (c *Client) SearchProduct(ctx context.Context, keyword string) ([]catalog.ProductInfo, error) {
	hits, err := c.callSearchAPI(ctx, keyword)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, nil
	}

	target := match.NormalizeText(keyword)
	var ids []string
	seen := map[string]bool{}
	for i, hit := range hits {
		if i >= searchScanLimit {
			break
		}
		id := hit.GoodsNo.String()
		if id == "" || seen[id] {
			continue
		}
		if c.hitMatches(ctx, hit, target, i) {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		c.log.Debug().Str("keyword", keyword).Msg("no search hit matched")
		return nil, nil
	}

	var infos []catalog.ProductInfo
	for _, id := range ids {
		info, err := c.GetProductInfo(ctx, id)
		if err != nil {
			c.log.Warn().Err(err).Str("goodsNo", id).Msg("detail fetch failed")
			continue
		}
		if info != nil {
			infos = append(infos, *info)
		}
	}
	return infos, nil
}

// hitMatches checks a search hit against the normalized keyword: name
// containment first, then the model number extracted from the product
// name, and for the top hits a detail fetch to compare the style number.
func (c *Client) hitMatches(ctx context.Context, hit searchItem, target string, rank int) bool {
	if strings.Contains(match.NormalizeText(hit.GoodsName), target) {
		return true
	}
	if m := extractModelNo(hit.GoodsName); m != "" && match.NormalizeText(m) == target {
		return true
	}
	if rank < styleNoProbeLimit {
		if base, err := c.fetchBaseInfo(ctx, hit.GoodsNo.String()); err == nil && base != nil {
			return base.StyleNo != "" && match.NormalizeText(base.StyleNo) == target
		}
	}
	return false
}

// GetProductInfo assembles one listing: the product page metadata, the
// option matrix and the per-variant inventory.
func (c *Client) GetProductInfo(ctx context.Context, goodsNo string) (*catalog.ProductInfo, error) {
	base, err := c.fetchBaseInfo(ctx, goodsNo)
	if err != nil {
		return nil, err
	}
	if base == nil {
		return nil, nil
	}

	opts, err := c.fetchOptions(ctx, goodsNo)
	if err != nil {
		return nil, err
	}
	if opts == nil {
		return nil, nil
	}

	var valueNos []int64
	for _, basic := range opts.Data.Basic {
		for _, v := range basic.OptionValues {
			valueNos = append(valueNos, v.No)
		}
	}
	var inv *inventoryResponse
	if len(valueNos) > 0 {
		// inventory failure falls back to everything in stock, same as
		// the product page shows before its stock call resolves
		if inv, err = c.fetchInventory(ctx, goodsNo, valueNos); err != nil {
			c.log.Warn().Err(err).Str("goodsNo", goodsNo).Msg("inventory fetch failed")
			inv = nil
		}
	}

	modelNo := base.StyleNo
	if modelNo == "" {
		modelNo = goodsNo
	}
	return &catalog.ProductInfo{
		Platform:   platformName,
		ModelNo:    modelNo,
		Title:      base.Title,
		ImageURL:   base.ImageURL,
		ProductURL: fmt.Sprintf("%s/products/%s", c.pageURL, goodsNo),
		Options:    buildOptions(base, opts, inv),
	}, nil
}

// fetchBaseInfo loads the product page and parses the embedded
// __NEXT_DATA__ metadata. A nil result means the page exists but the
// blob was missing or reshaped.
func (c *Client) fetchBaseInfo(ctx context.Context, goodsNo string) (*baseInfo, error) {
	u := fmt.Sprintf("%s/products/%s", c.pageURL, goodsNo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", platform.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, err
	}
	return parseBaseInfo(string(body)), nil
}

func (c *Client) callSearchAPI(ctx context.Context, keyword string) ([]searchItem, error) {
	q := url.Values{
		"gf":       {"A"},
		"keyword":  {keyword},
		"sortCode": {"POPULAR"},
		"isUsed":   {"false"},
		"page":     {"1"},
		"size":     {"60"},
		"caller":   {"SEARCH"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	var out searchResponse
	if err := platform.DecodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return out.Data.List, nil
}

func (c *Client) fetchOptions(ctx context.Context, goodsNo string) (*optionsResponse, error) {
	u := fmt.Sprintf("%s/api2/goods/%s/options?goodsSaleType=SALE&optKindCd=CLOTHES", c.goodsURL, goodsNo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	var out optionsResponse
	if err := platform.DecodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) fetchInventory(ctx context.Context, goodsNo string, valueNos []int64) (*inventoryResponse, error) {
	u := fmt.Sprintf("%s/api2/goods/%s/options/v2/prioritized-inventories", c.goodsURL, goodsNo)
	payload, err := json.Marshal(map[string]any{"optionValueNos": valueNos})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	var out inventoryResponse
	if err := platform.DecodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", platform.UserAgent)
	req.Header.Set("Origin", "https://www.musinsa.com")
	req.Header.Set("Referer", "https://www.musinsa.com/")
}
