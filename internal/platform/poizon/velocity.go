package poizon

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"arbscan/internal/catalog"
)

// VelocityRank grades how fast a product is currently trading.
type VelocityRank string

const (
	RankExplosive2 VelocityRank = "SSS (미친 속도)"
	RankExplosive  VelocityRank = "S (폭발적)"
	RankVeryFast   VelocityRank = "A (매우 빠름)"
	RankGood       VelocityRank = "B (양호)"
	RankModerate   VelocityRank = "C (보통)"
	RankStalled    VelocityRank = "F (정체)"
)

// Each recorded sale contributes basePoint/(elapsed minutes + 5), so a
// just-sold item counts three orders of magnitude more than a
// day-old one.
const basePoint = 10000.0

// Trade timestamps with no recognizable unit sort as ancient.
const unknownElapsed = 999999

var leadingNumber = regexp.MustCompile(`\d+`)

// parseMinutesAgo converts the portal's relative Korean timestamps
// ("방금", "3분전", "2시간전", "5일전", "2주전", "1달전", "1년전")
// into elapsed minutes.
func parseMinutesAgo(ts string) int {
	s := strings.ReplaceAll(strings.TrimSpace(ts), " ", "")
	if strings.Contains(s, "방금") {
		return 0
	}

	n := 0
	if m := leadingNumber.FindString(s); m != "" {
		n, _ = strconv.Atoi(m)
	}

	switch {
	case strings.Contains(s, "분전"):
		if n == 0 {
			return 1
		}
		return n
	case strings.Contains(s, "시간전"):
		if n == 0 {
			return 60
		}
		return n * 60
	// a unit with no count is malformed, not fresh
	case n > 0 && strings.Contains(s, "일전"):
		return n * 24 * 60
	case n > 0 && strings.Contains(s, "주전"):
		return n * 7 * 24 * 60
	case n > 0 && strings.Contains(s, "달전"):
		return n * 30 * 24 * 60
	case n > 0 && strings.Contains(s, "년전"):
		return n * 365 * 24 * 60
	}
	return unknownElapsed
}

// calculateVelocity folds recent trade records into a decay-weighted
// liquidity score and its letter rank.
func calculateVelocity(records []tradeRecord) *catalog.SalesMetrics {
	total := 0.0
	for _, rec := range records {
		elapsed := parseMinutesAgo(rec.Time)
		total += basePoint / float64(elapsed+5)
	}

	rank := RankStalled
	switch {
	case total >= 5000:
		rank = RankExplosive2
	case total >= 2000:
		rank = RankExplosive
	case total >= 500:
		rank = RankVeryFast
	case total >= 100:
		rank = RankGood
	case total >= 20:
		rank = RankModerate
	}

	m := &catalog.SalesMetrics{
		VelocityScore: math.Round(total*100) / 100,
		Rank:          string(rank),
		RecentSales:   len(records),
	}
	if len(records) > 0 {
		m.LastSoldAgo = records[0].Time
	}
	return m
}
