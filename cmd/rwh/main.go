package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/rwh-feasibility-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/rwh-feasibility-service/internal/adapter/kafka"
	"github.com/couchcryptid/rwh-feasibility-service/internal/adapter/predictor"
	"github.com/couchcryptid/rwh-feasibility-service/internal/config"
	"github.com/couchcryptid/rwh-feasibility-service/internal/domain"
	"github.com/couchcryptid/rwh-feasibility-service/internal/mapsvg"
	"github.com/couchcryptid/rwh-feasibility-service/internal/observability"
	"github.com/couchcryptid/rwh-feasibility-service/internal/pipeline"
	"github.com/couchcryptid/rwh-feasibility-service/internal/reference"
	"github.com/couchcryptid/rwh-feasibility-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	index, err := reference.LoadDir(cfg.DataDir)
	if err != nil {
		logger.Error("failed to load reference data", "dir", cfg.DataDir, "error", err)
		os.Exit(1)
	}
	tables, err := reference.DefaultTables()
	if err != nil {
		logger.Error("failed to load lookup tables", "error", err)
		os.Exit(1)
	}
	logger.Info("reference data loaded", "dir", cfg.DataDir)

	renderer, err := mapsvg.NewRenderer(index, tables,
		mapsvg.NewGeometryStore(os.DirFS(cfg.MapsDir), cfg.GeometryCacheTTL, metrics),
		mapsvg.NewArtifactStore(cfg.OutputDir),
		logger, metrics)
	if err != nil {
		logger.Error("failed to build map renderer", "error", err)
		os.Exit(1)
	}

	// Aquifer predictor is feature-flagged via PREDICTOR_ENABLED / PREDICTOR_URL.
	var aquiferPredictor domain.AquiferPredictor
	if cfg.PredictorEnabled {
		client := predictor.NewClient(cfg.PredictorURL, cfg.PredictorTimeout, metrics, logger)
		aquiferPredictor = predictor.NewCachedPredictor(client, cfg.PredictorCacheTTL, metrics)
		logger.Info("aquifer predictor enabled", "url", cfg.PredictorURL, "timeout", cfg.PredictorTimeout)
	} else {
		logger.Info("aquifer predictor disabled")
	}

	svc := service.New(domain.NewAssessor(index, cfg.DailyDemandLPCD), renderer, aquiferPredictor, logger, metrics)

	var (
		p      *pipeline.Pipeline
		reader *kafkaadapter.Reader
		writer *kafkaadapter.Writer
	)
	if cfg.KafkaEnabled {
		reader = kafkaadapter.NewReader(cfg, logger)
		writer = kafkaadapter.NewWriter(cfg, logger)
		p = pipeline.New(reader, pipeline.NewTransformer(svc, logger), writer, logger, metrics, cfg.BatchSize)
	}

	// Readiness reflects loaded reference data only.
	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, svc, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	// Start streaming pipeline.
	if p != nil {
		go func() {
			if err := p.Run(ctx); err != nil {
				logger.Error("pipeline error", "error", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if reader != nil {
		if err := reader.Close(); err != nil {
			logger.Error("kafka reader close error", "error", err)
		}
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
