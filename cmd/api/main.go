package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/gunviolence-data-service/internal/adapter/census"
	"github.com/couchcryptid/gunviolence-data-service/internal/adapter/httpapi"
	"github.com/couchcryptid/gunviolence-data-service/internal/config"
	"github.com/couchcryptid/gunviolence-data-service/internal/dataset"
	"github.com/couchcryptid/gunviolence-data-service/internal/domain"
	"github.com/couchcryptid/gunviolence-data-service/internal/observability"
	"github.com/couchcryptid/gunviolence-data-service/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel)
	metrics := observability.NewMetrics()

	profile, err := config.LoadProfile(cfg.DatasetProfile)
	if err != nil {
		logger.Error("failed to load dataset profile", "path", cfg.DatasetProfile, "error", err)
		os.Exit(1)
	}

	// Select the geocoding provider from the profile. NewMock warns on
	// construction so fabricated coordinates never go unnoticed.
	var geocoder domain.Geocoder
	switch profile.Geocoder.Provider {
	case config.ProviderCensus:
		geocoder = census.NewClient(profile.Geocoder, metrics, logger)
		logger.Info("census geocoding enabled",
			"url", profile.Geocoder.URL,
			"max_batch_rows", profile.Geocoder.MaxBatchRows)
	case config.ProviderMock:
		geocoder = census.NewMock(profile.Geocoder.Seed, logger)
	default:
		logger.Info("geocoding disabled, input must be pre-geocoded")
	}

	loader := dataset.NewLoader(logger, metrics)
	p := pipeline.New(profile, loader, geocoder, logger, metrics)

	srv := httpapi.NewServer(cfg.HTTPAddr, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server. Health and metrics respond immediately; the data
	// routes report 503 until the store is attached.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	exitCode := 0
	store, err := p.Run(ctx)
	if err != nil {
		logger.Error("pipeline error", "error", err)
		exitCode = 1
		stop()
	} else {
		srv.AttachStore(store)
		logger.Info("service ready",
			"incidents", len(store.Incidents()),
			"state_laws", len(store.StateLaws()))
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
