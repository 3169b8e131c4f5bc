package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Host         string
	Port         int
	AllowOrigins []string
	LogLevel     string
	LogFile      string
	MaxUploadMB  int

	// data directory for dated comparison reports
	DataDir string

	// sell-side (Poizon) credentials; the buy-side APIs are anonymous
	PoizonToken  string
	PoizonCookie string

	// base URLs are overridable for tests and staging mirrors
	MusinsaSearchURL  string
	MusinsaGoodsURL   string
	MusinsaPageURL    string
	MusinsaRankingURL string
	PoizonBaseURL     string

	// batch scan settings
	ScanBrands     []string
	ScanPerMinute  int // request pacing against the platforms
	MatchThreshold float64
}

func Load() Config {
	// credentials live in .env during development; a missing file is fine
	_ = godotenv.Load()

	port, _ := strconv.Atoi(getenv("PORT", "8083"))
	mb, _ := strconv.Atoi(getenv("MAX_UPLOAD_MB", "64"))
	rpm, _ := strconv.Atoi(getenv("SCAN_PER_MINUTE", "30"))
	threshold, err := strconv.ParseFloat(getenv("MATCH_THRESHOLD", "0.8"), 64)
	if err != nil || threshold <= 0 || threshold > 1 {
		threshold = 0.8
	}
	origins := splitTrim(getenv("ALLOW_ORIGINS", "*"))
	brands := splitTrim(getenv("SCAN_BRANDS", "나이키,아디다스,데상트"))

	return Config{
		Host:         getenv("HOST", "127.0.0.1"),
		Port:         port,
		AllowOrigins: origins,
		LogLevel:     getenv("LOG_LEVEL", "info"),
		LogFile:      getenv("LOG_FILE", "logs/arbscan.log"),
		MaxUploadMB:  mb,
		DataDir:      getenv("DATA_DIR", "data"),

		PoizonToken:  getenv("POIZON_DUTOKEN", ""),
		PoizonCookie: getenv("POIZON_COOKIE", ""),

		MusinsaSearchURL:  getenv("MUSINSA_SEARCH_URL", "https://api.musinsa.com/api2/dp/v1/plp/goods"),
		MusinsaGoodsURL:   getenv("MUSINSA_GOODS_URL", "https://goods-detail.musinsa.com"),
		MusinsaPageURL:    getenv("MUSINSA_PAGE_URL", "https://www.musinsa.com"),
		MusinsaRankingURL: getenv("MUSINSA_RANKING_URL", "https://api.musinsa.com/api2/hm/web/v5/pans/ranking"),
		PoizonBaseURL:     getenv("POIZON_BASE_URL", "https://seller.poizon.com"),

		ScanBrands:     brands,
		ScanPerMinute:  rpm,
		MatchThreshold: threshold,
	}
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

func splitTrim(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
