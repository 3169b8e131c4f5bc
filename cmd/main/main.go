package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	_ "net/http/pprof"

	"github.com/rs/zerolog"

	"arbscan/internal/compare/service"
	"arbscan/internal/config"
	"arbscan/internal/export"
	"arbscan/internal/platform/musinsa"
	"arbscan/internal/platform/poizon"
	"arbscan/internal/scan"
	serverhttp "arbscan/server/http"
)

func main() {
	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		runtime.GOMAXPROCS(runtime.NumCPU())
	}

	cfg := config.Load()
	logger := config.SetupLogger(cfg)

	buy := musinsa.NewClient(cfg, logger)
	sell := poizon.NewClient(cfg, logger)
	cmp := service.NewComparator(buy, sell, logger)

	mode := "serve"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	switch mode {
	case "scan":
		runScan(cfg, cmp, buy, logger)
	case "serve":
		runServer(cfg, cmp, logger)
	default:
		logger.Fatal().Str("mode", mode).Msg("unknown mode, want serve or scan")
	}
}

func runServer(cfg config.Config, cmp *service.Comparator, logger zerolog.Logger) {
	r := serverhttp.NewRouter(cfg, cmp, logger)

	srv := &http.Server{Addr: cfg.Addr(), Handler: r}
	logger.Info().Str("addr", cfg.Addr()).Msg("server starting")

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	logger.Info().Msg("bye")
}

func runScan(cfg config.Config, cmp *service.Comparator, source scan.RankingSource, logger zerolog.Logger) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	scanner := scan.New(cmp, source, cfg.ScanPerMinute, logger)
	rows, err := scanner.ScanRankings(ctx, cfg.ScanBrands)
	if err != nil {
		logger.Fatal().Err(err).Msg("ranking scan failed")
	}

	csvPath := export.DatedPath(cfg.DataDir, start, "csv")
	if err := export.WriteCSV(csvPath, rows); err != nil {
		logger.Fatal().Err(err).Str("path", csvPath).Msg("csv export failed")
	}
	xlsxPath := export.DatedPath(cfg.DataDir, start, "xlsx")
	if err := export.WriteXLSX(xlsxPath, rows); err != nil {
		logger.Fatal().Err(err).Str("path", xlsxPath).Msg("xlsx export failed")
	}

	profitable := 0
	for _, row := range rows {
		if row.Status == "PROFIT" {
			profitable++
		}
	}
	logger.Info().
		Int("rows", len(rows)).
		Int("profitable", profitable).
		Str("csv", csvPath).
		Str("xlsx", xlsxPath).
		Dur("elapsed", time.Since(start)).
		Msg("scan done")
}
