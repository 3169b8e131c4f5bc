package handler

import (
	"net/http"
	"os"
	"regexp"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"arbscan/internal/compare/service"
	"arbscan/internal/config"
	"arbscan/internal/export"
	"arbscan/internal/fileio"
	"arbscan/internal/scan"
	"arbscan/internal/utils"
)

// Compare runs a single on-demand comparison for ?keyword=.
func Compare(cmp *service.Comparator, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		keyword := r.URL.Query().Get("keyword")
		if keyword == "" {
			writeError(w, http.StatusBadRequest, "missing keyword")
			return
		}

		res := cmp.CompareProduct(r.Context(), keyword)
		if res == nil {
			writeError(w, http.StatusNotFound, "comparison unavailable")
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// ListReports returns the dates of stored scan reports, newest first.
func ListReports(cfg config.Config, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dates, err := export.ListReportDates(cfg.DataDir)
		if err != nil {
			logger.Error().Err(err).Str("dir", cfg.DataDir).Msg("report listing failed")
			writeError(w, http.StatusInternalServerError, "cannot list reports")
			return
		}
		if dates == nil {
			dates = []string{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"dates": dates})
	}
}

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// GetReport streams one dated report back as JSON rows.
func GetReport(cfg config.Config, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := chi.URLParam(r, "date")
		if !dateRe.MatchString(date) {
			writeError(w, http.StatusBadRequest, "bad date")
			return
		}

		day, err := time.Parse("2006-01-02", date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad date")
			return
		}
		path := export.DatedPath(cfg.DataDir, day, "csv")
		f, err := os.Open(path)
		if err != nil {
			writeError(w, http.StatusNotFound, "no report for "+date)
			return
		}
		defer f.Close()

		rows, err := fileio.ReadAnyMaps(f, path, 1)
		if err != nil {
			logger.Error().Err(err).Str("path", path).Msg("report read failed")
			writeError(w, http.StatusInternalServerError, "cannot read report")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"date": date, "rows": numericRows(rows)})
	}
}

// Price columns come back from hand-edited report files with thousand
// separators or a won sign; the viewer wants numbers.
var priceColumns = []string{"Buy Price", "Sell Price", "Profit"}

func numericRows(rows []map[string]string) []map[string]any {
	out := make([]map[string]any, 0, len(rows))
	for _, rec := range rows {
		m := make(map[string]any, len(rec))
		for k, v := range rec {
			m[k] = v
		}
		for _, k := range priceColumns {
			if n, ok := utils.ParseWon(rec[k]); ok {
				m[k] = n
			}
		}
		out = append(out, m)
	}
	return out
}

// WatchlistScan accepts a csv/xls/xlsx watchlist of model numbers,
// compares every entry and writes the dated reports before answering
// with a summary. The work happens in-request; watchlists are small
// and the upload caller wants the outcome.
func WatchlistScan(cfg config.Config, cmp *service.Comparator, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		if err := r.ParseMultipartForm(int64(cfg.MaxUploadMB) << 20); err != nil {
			writeError(w, http.StatusBadRequest, "bad multipart form: "+err.Error())
			return
		}
		file, fh, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "missing file: "+err.Error())
			return
		}
		defer file.Close()

		keywords, err := fileio.ReadKeywords(file, fh.Filename)
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read watchlist: "+err.Error())
			return
		}
		if len(keywords) == 0 {
			writeError(w, http.StatusBadRequest, "watchlist is empty")
			return
		}

		scanner := scan.New(cmp, nil, cfg.ScanPerMinute, logger)
		rows, err := scanner.ScanKeywords(r.Context(), keywords)
		if err != nil {
			logger.Error().Err(err).Msg("watchlist scan aborted")
			writeError(w, http.StatusInternalServerError, "scan aborted")
			return
		}

		now := time.Now()
		csvPath := export.DatedPath(cfg.DataDir, now, "csv")
		if err := export.WriteCSV(csvPath, rows); err != nil {
			logger.Error().Err(err).Str("path", csvPath).Msg("csv export failed")
			writeError(w, http.StatusInternalServerError, "export failed")
			return
		}
		xlsxPath := export.DatedPath(cfg.DataDir, now, "xlsx")
		if err := export.WriteXLSX(xlsxPath, rows); err != nil {
			logger.Error().Err(err).Str("path", xlsxPath).Msg("xlsx export failed")
			writeError(w, http.StatusInternalServerError, "export failed")
			return
		}

		profitable := 0
		for _, row := range rows {
			if row.Status == "PROFIT" {
				profitable++
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"keywords":   len(keywords),
			"rows":       len(rows),
			"profitable": profitable,
			"report":     csvPath,
		})
	}
}
