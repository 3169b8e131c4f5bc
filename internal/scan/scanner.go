// Package scan drives batch comparisons: ranking boards or uploaded
// watchlists in, report rows out. Requests against the platforms are
// paced with a shared rate limiter; pacing is the batch caller's job,
// not the comparison engine's.
package scan

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"arbscan/internal/catalog"
	"arbscan/internal/compare/service"
	"arbscan/internal/export"
	"arbscan/internal/platform/musinsa"
)

// RankingSource seeds a scan with the buy-side ranking boards and
// resolves board entries to full products.
type RankingSource interface {
	FetchRanking(ctx context.Context, rt musinsa.RankingType, brands []string) ([]musinsa.RankingItem, error)
	GetProductInfo(ctx context.Context, goodsNo string) (*catalog.ProductInfo, error)
}

type Scanner struct {
	source  RankingSource // nil when only keyword scans are run
	cmp     *service.Comparator
	limiter *rate.Limiter
	log     zerolog.Logger
}

func New(cmp *service.Comparator, source RankingSource, perMinute int, log zerolog.Logger) *Scanner {
	if perMinute <= 0 {
		perMinute = 30
	}
	return &Scanner{
		source:  source,
		cmp:     cmp,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1),
		log:     log,
	}
}

// Scan ranking sections in fixed order; NEW and RISING entries are the
// freshest arbitrage candidates, ALL backfills the long tail.
var rankingOrder = []musinsa.RankingType{
	musinsa.RankingNew,
	musinsa.RankingRising,
	musinsa.RankingAll,
}

// ScanRankings walks the ranking boards for the given brands, compares
// every unique product and returns the flattened report rows. One
// product failing never aborts the batch.
func (s *Scanner) ScanRankings(ctx context.Context, brands []string) ([]export.Row, error) {
	seen := map[string]bool{}
	var items []musinsa.RankingItem
	for _, rt := range rankingOrder {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		board, err := s.source.FetchRanking(ctx, rt, brands)
		if err != nil {
			s.log.Warn().Err(err).Str("section", string(rt)).Msg("ranking fetch failed")
			continue
		}
		for _, item := range board {
			if item.ProductID == "" || seen[item.ProductID] {
				continue
			}
			seen[item.ProductID] = true
			items = append(items, item)
		}
	}
	s.log.Info().Int("products", len(items)).Msg("ranking collection done")

	var rows []export.Row
	for i, item := range items {
		if err := s.limiter.Wait(ctx); err != nil {
			return rows, err
		}
		s.log.Info().
			Int("n", i+1).Int("total", len(items)).
			Str("brand", item.BrandName).Str("product", item.ProductName).
			Msg("comparing")

		info, err := s.source.GetProductInfo(ctx, item.ProductID)
		if err != nil || info == nil || info.ModelNo == "" {
			s.log.Debug().Err(err).Str("productId", item.ProductID).Msg("skip: no model number")
			continue
		}

		res := s.cmp.CompareProduct(ctx, info.ModelNo)
		if res == nil {
			continue
		}
		rows = append(rows, export.FromComparison(item.BrandName, item.ProductName, res, time.Now())...)
	}
	return rows, nil
}

// ScanKeywords compares a watchlist of model numbers. Brand is unknown
// for uploads, so rows carry the buy-side title as product name.
func (s *Scanner) ScanKeywords(ctx context.Context, keywords []string) ([]export.Row, error) {
	var rows []export.Row
	for i, kw := range keywords {
		if err := s.limiter.Wait(ctx); err != nil {
			return rows, err
		}
		s.log.Info().Int("n", i+1).Int("total", len(keywords)).Str("keyword", kw).Msg("comparing")

		res := s.cmp.CompareProduct(ctx, kw)
		if res == nil {
			continue
		}
		rows = append(rows, export.FromComparison("", res.BuyTitle, res, time.Now())...)
	}
	return rows, nil
}
