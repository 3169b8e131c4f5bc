package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	cmpHnd "arbscan/internal/compare/handler"
	"arbscan/internal/compare/service"
	"arbscan/internal/config"
	"arbscan/internal/middleware"
	"arbscan/server/http/handlers"
)

func NewRouter(cfg config.Config, cmp *service.Comparator, logger zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// order matters: recover -> requestID -> logging -> cors -> limit
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(int64(cfg.MaxUploadMB) * 1024 * 1024))

	r.Get("/health", handlers.Health)

	// on-demand comparison for a single model number
	r.Get("/compare", cmpHnd.Compare(cmp, logger))

	// dated reports produced by batch scans
	r.Get("/reports", cmpHnd.ListReports(cfg, logger))
	r.Get("/reports/{date}", cmpHnd.GetReport(cfg, logger))

	// upload a keyword watchlist and compare every entry
	r.Post("/scan/watchlist", cmpHnd.WatchlistScan(cfg, cmp, logger))

	return r
}
