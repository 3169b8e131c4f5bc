// Package poizon is the sell-side adapter for the resale marketplace's
// seller portal: signed JSON-RPC style endpoints for spu search, live
// sale prices, the sku size table and recent-trade analytics.
package poizon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"arbscan/internal/catalog"
	"arbscan/internal/config"
	"arbscan/internal/match"
	"arbscan/internal/platform"
)

const platformName = "Poizon"

const (
	searchPath    = "/api/v1/h5/gw/intl-merchant-platform/oversea/aurora-spu/merchant/search"
	saleNowPath   = "/api/v1/h5/gw/adapter/pc/bidding/query/querySaleNowInfo"
	biddingPath   = "/api/v1/h5/gw/adapter/pc/bidding/query/batchQueryNewBidding"
	analyticsPath = "/api/v1/h5/gw/intl-price-center/merchant/price/floatLayer/getMoreFloatingLayer"
)

type Client struct {
	http      *http.Client
	baseURL   string
	token     string
	cookie    string
	threshold float64
	log       zerolog.Logger
}

func NewClient(cfg config.Config, log zerolog.Logger) *Client {
	return &Client{
		http:      platform.NewHTTPClient(),
		baseURL:   cfg.PoizonBaseURL,
		token:     cfg.PoizonToken,
		cookie:    cfg.PoizonCookie,
		threshold: cfg.MatchThreshold,
		log:       log.With().Str("platform", platformName).Logger(),
	}
}

// UpdateCredentials swaps the session credentials; the portal expires
// them every few days.
func (c *Client) UpdateCredentials(token, cookie string) {
	if token != "" {
		c.token = token
	}
	if cookie != "" {
		c.cookie = cookie
	}
}

// GetProductInfo resolves a model number to the marketplace's canonical
// listing: search, pick the article-number match, then join the live
// price list with the sku size table and attach sales velocity.
// Returns nil (no error) when no trustworthy listing exists.
func (c *Client) GetProductInfo(ctx context.Context, keyword string) (*catalog.ProductInfo, error) {
	spus, err := c.search(ctx, keyword)
	if err != nil {
		return nil, err
	}
	spu, ok := match.FindBestMatch(spus, keyword, func(s spuItem) string { return s.ArticleNumber }, c.threshold)
	if !ok {
		c.log.Debug().Str("keyword", keyword).Msg("no matching spu")
		return nil, nil
	}
	c.log.Debug().Str("keyword", keyword).Str("title", spu.Title).Int64("spuId", spu.GlobalSpuID).Msg("spu matched")

	saleNow, err := c.querySaleNow(ctx, spu.GlobalSpuID)
	if err != nil {
		return nil, err
	}
	prices := extractPriceInfo(saleNow)
	if prices == nil {
		return nil, nil
	}

	// the size table and analytics enrich the result but their absence
	// should not sink the comparison
	var skus []skuSize
	if bidding, err := c.queryBidding(ctx, spu.GlobalSpuID); err != nil {
		c.log.Warn().Err(err).Int64("spuId", spu.GlobalSpuID).Msg("bidding query failed")
	} else {
		skus = extractSkuSizes(bidding)
	}

	sales := &catalog.SalesMetrics{Rank: string(RankStalled)}
	if analytics, err := c.queryAnalytics(ctx, spu.GlobalSpuID); err != nil {
		c.log.Warn().Err(err).Int64("spuId", spu.GlobalSpuID).Msg("analytics query failed")
	} else {
		sales = calculateVelocity(analytics.Data.HistoryTradeRecord.TradeRecordDTO.TradeRecords)
	}

	title := prices.Title
	if title == "" {
		title = spu.Title
	}
	return &catalog.ProductInfo{
		Platform: platformName,
		ModelNo:  spu.ArticleNumber,
		Title:    title,
		ImageURL: prices.ImageURL,
		Options:  assembleOptions(prices, skus),
		Sales:    sales,
	}, nil
}

func (c *Client) search(ctx context.Context, keyword string) ([]spuItem, error) {
	payload := map[string]any{
		"pageNum":              1,
		"identifyStatusEnable": true,
		"pageSize":             20,
		"keyword":              keyword,
		"current":              1,
		"page":                 1,
	}
	var out searchResponse
	if err := c.post(ctx, searchPath, payload, &out); err != nil {
		return nil, err
	}
	if out.Code != 200 {
		return nil, fmt.Errorf("search api code %d: %s", out.Code, out.Msg)
	}
	return out.Data.MerchantSpuDtoList, nil
}

func (c *Client) querySaleNow(ctx context.Context, spuID int64) (*saleNowResponse, error) {
	var out saleNowResponse
	err := c.post(ctx, saleNowPath, map[string]any{"source": "PC", "spuId": spuID}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) queryBidding(ctx context.Context, spuID int64) (*biddingResponse, error) {
	payload := map[string]any{
		"biddingType": -1,
		"spuIds":      []any{spuID},
	}
	var out biddingResponse
	if err := c.post(ctx, biddingPath, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) queryAnalytics(ctx context.Context, spuID int64) (*analyticsResponse, error) {
	payload := map[string]any{
		"spuId":             spuID,
		"source":            0,
		"timeRangeTypeCode": 0,
		"platformFlag":      "PC",
	}
	var out analyticsResponse
	if err := c.post(ctx, analyticsPath, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// post signs the payload, appends the signature as a query parameter
// and sends the compact JSON body with the session headers.
func (c *Client) post(ctx context.Context, path string, payload map[string]any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	u := fmt.Sprintf("%s%s?sign=%s", c.baseURL, path, generateSign(payload))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json;charset=UTF-8")
	req.Header.Set("User-Agent", platform.UserAgent)
	req.Header.Set("Origin", c.baseURL)
	req.Header.Set("Referer", c.baseURL+"/")
	req.Header.Set("channel", "pc")
	req.Header.Set("clientid", "global")
	req.Header.Set("language", "ko")
	req.Header.Set("syscode", "DU_USER_GLOBAL")
	req.Header.Set("timezone", "GMT+09:00")
	req.Header.Set("dutoken", c.token)
	req.Header.Set("Cookie", c.cookie)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	return platform.DecodeJSON(resp, out)
}
