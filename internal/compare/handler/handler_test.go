package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arbscan/internal/catalog"
	"arbscan/internal/compare/service"
	"arbscan/internal/config"
	"arbscan/internal/export"
)

type stubBuy struct{ info *catalog.ProductInfo }

func (s stubBuy) SearchProduct(_ context.Context, _ string) ([]catalog.ProductInfo, error) {
	if s.info == nil {
		return nil, nil
	}
	return []catalog.ProductInfo{*s.info}, nil
}

type stubSell struct{ info *catalog.ProductInfo }

func (s stubSell) GetProductInfo(_ context.Context, _ string) (*catalog.ProductInfo, error) {
	return s.info, nil
}

func stubComparator(found bool) *service.Comparator {
	if !found {
		return service.NewComparator(stubBuy{}, stubSell{}, zerolog.Nop())
	}
	info := &catalog.ProductInfo{
		ModelNo: "DV1748-601",
		Title:   "에어포스 1 '07",
		Options: []catalog.Option{
			{Size: "270", Color: "블랙", Price: 100000, Stock: catalog.InStock},
		},
	}
	sell := &catalog.ProductInfo{
		ModelNo: "DV1748-601",
		Title:   "Air Force 1 '07",
		Options: []catalog.Option{
			{Size: "270", Color: "블랙", Price: 150000, Stock: catalog.InStock},
		},
	}
	return service.NewComparator(stubBuy{info: info}, stubSell{info: sell}, zerolog.Nop())
}

func TestCompareHandler(t *testing.T) {
	h := Compare(stubComparator(true), zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/compare?keyword=DV1748-601", nil)
	rec := httptest.NewRecorder()
	h(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var res catalog.ComparisonResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Rows, 1)
	assert.Equal(t, 50000, res.Rows[0].Profit)
}

func TestCompareHandlerMissingKeyword(t *testing.T) {
	h := Compare(stubComparator(true), zerolog.Nop())
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/compare", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompareHandlerNotFound(t *testing.T) {
	h := Compare(stubComparator(false), zerolog.Nop())
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/compare?keyword=X99999", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListReportsEmptyDir(t *testing.T) {
	cfg := config.Config{DataDir: t.TempDir()}
	rec := httptest.NewRecorder()
	ListReports(cfg, zerolog.Nop())(rec, httptest.NewRequest(http.MethodGet, "/reports", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Dates []string `json:"dates"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Dates)
}

func TestGetReport(t *testing.T) {
	cfg := config.Config{DataDir: t.TempDir()}
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	res := stubComparator(true).CompareProduct(context.Background(), "DV1748-601")
	require.NotNil(t, res)
	rows := export.FromComparison("나이키", "에어포스", res, now)
	require.NoError(t, export.WriteCSV(export.DatedPath(cfg.DataDir, now, "csv"), rows))

	r := chi.NewRouter()
	r.Get("/reports/{date}", GetReport(cfg, zerolog.Nop()))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/2026-08-31", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Date string           `json:"date"`
		Rows []map[string]any `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2026-08-31", body.Date)
	require.Len(t, body.Rows, 1)
	// price columns come back numeric
	assert.Equal(t, float64(50000), body.Rows[0]["Profit"])

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/2026-09-01", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/nonsense", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWatchlistScanRoundTrip(t *testing.T) {
	cfg := config.Config{DataDir: t.TempDir(), MaxUploadMB: 8, ScanPerMinute: 60000}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "watch.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte("Model No\nDV1748-601\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/scan/watchlist", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	WatchlistScan(cfg, stubComparator(true), zerolog.Nop())(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body struct {
		Keywords   int    `json:"keywords"`
		Rows       int    `json:"rows"`
		Profitable int    `json:"profitable"`
		Report     string `json:"report"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Keywords)
	assert.Equal(t, 1, body.Rows)
	assert.Equal(t, 1, body.Profitable)

	_, err = os.Stat(body.Report)
	assert.NoError(t, err)
	_, err = os.Stat(export.DatedPath(cfg.DataDir, time.Now(), "xlsx"))
	assert.NoError(t, err)
}

func TestWatchlistScanEmptyFile(t *testing.T) {
	cfg := config.Config{DataDir: t.TempDir(), MaxUploadMB: 8, ScanPerMinute: 60000}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "watch.csv")
	_, _ = fw.Write([]byte("Model No\n"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/scan/watchlist", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	WatchlistScan(cfg, stubComparator(true), zerolog.Nop())(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
