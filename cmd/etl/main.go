package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/accident-light-etl/internal/adapter/geojson"
	"github.com/couchcryptid/accident-light-etl/internal/adapter/persian"
	"github.com/couchcryptid/accident-light-etl/internal/adapter/sun"
	"github.com/couchcryptid/accident-light-etl/internal/adapter/tsv"
	"github.com/couchcryptid/accident-light-etl/internal/adapter/utm"
	"github.com/couchcryptid/accident-light-etl/internal/config"
	"github.com/couchcryptid/accident-light-etl/internal/domain"
	"github.com/couchcryptid/accident-light-etl/internal/observability"
	"github.com/couchcryptid/accident-light-etl/internal/pipeline"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
)

func main() {
	// A .env file is optional; real environment variables take precedence.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("failed to load .env", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	runID := uuid.NewString()
	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat).With("run_id", runID)
	metrics := observability.NewMetrics()

	projector, err := utm.NewProjector(cfg.UTMZone, cfg.UTMBand)
	if err != nil {
		logger.Error("failed to build projection", "error", err)
		os.Exit(1)
	}
	var coords domain.Projector = projector
	if cfg.ProjectionCacheSize > 0 {
		coords = utm.NewCachedProjector(projector, cfg.ProjectionCacheSize, metrics)
	}
	logger.Info("projection ready",
		"epsg", projector.EPSG(),
		"cache_size", cfg.ProjectionCacheSize,
		"utc_offset", cfg.UTCOffset,
	)

	transformer := pipeline.NewTransformer(
		persian.NewCalendar(persian.FixedZone(cfg.UTCOffset)),
		coords,
		sun.NewPositioner(),
		cfg.ObserverElevation,
	)
	reader := tsv.NewReader(cfg.InputPath, logger)
	writer := geojson.NewWriter(cfg.OutputPath, logger)

	p := pipeline.New(reader, transformer, writer, logger, metrics, clockwork.NewRealClock())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_, runErr := p.Run(ctx)
	if runErr != nil {
		logger.Error("pipeline error", "error", runErr)
	}

	if cfg.MetricsPushURL != "" {
		pushCtx, cancel := context.WithTimeout(context.Background(), cfg.MetricsPushTimeout)
		if err := metrics.Push(pushCtx, cfg.MetricsPushURL, cfg.MetricsJobName, runID); err != nil {
			logger.Error("metrics push error", "error", err)
		}
		cancel()
	}

	if runErr != nil {
		stop()
		os.Exit(1)
	}
}
