package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, "127.0.0.1:8083", cfg.Addr())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 0.8, cfg.MatchThreshold)
	assert.Equal(t, 30, cfg.ScanPerMinute)
	assert.NotEmpty(t, cfg.ScanBrands)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("SCAN_BRANDS", "나이키, 아디다스")
	t.Setenv("MATCH_THRESHOLD", "0.9")

	cfg := Load()
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, []string{"나이키", "아디다스"}, cfg.ScanBrands)
	assert.Equal(t, 0.9, cfg.MatchThreshold)
}

func TestLoadBadThresholdFallsBack(t *testing.T) {
	t.Setenv("MATCH_THRESHOLD", "7")
	assert.Equal(t, 0.8, Load().MatchThreshold)
}
