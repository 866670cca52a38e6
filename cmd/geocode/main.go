// Command geocode is the offline batch enricher: it reads a raw incident
// CSV, resolves each address to coordinates through the US Census batch
// geocoding service (or the labeled mock provider), and writes the
// enriched artifact CSV that the dashboard service loads.
//
// A transport failure aborts the run without writing any output, so a
// half-geocoded artifact can never shadow a good one.
//
// Usage:
//
//	go run ./cmd/geocode \
//	  -in data/MassShootingIncidents.csv \
//	  -out data/mass_shootings_geocoded.csv \
//	  -reuse
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/couchcryptid/gunviolence-data-service/internal/adapter/census"
	"github.com/couchcryptid/gunviolence-data-service/internal/config"
	"github.com/couchcryptid/gunviolence-data-service/internal/dataset"
	"github.com/couchcryptid/gunviolence-data-service/internal/domain"
	"github.com/couchcryptid/gunviolence-data-service/internal/observability"
)

func main() {
	if err := run(); err != nil {
		slog.Error("geocode failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	in := flag.String("in", "", "path to the raw incident CSV")
	out := flag.String("out", "", "path for the enriched artifact CSV")
	provider := flag.String("provider", config.ProviderCensus, "geocoding provider: census or mock")
	url := flag.String("url", config.DefaultCensusURL, "census batch geocoding endpoint")
	batchSize := flag.Int("batch-size", 10000, "maximum rows per batch submission")
	timeout := flag.Int("timeout", 60, "per-request timeout in seconds")
	rpm := flag.Int("rpm", 30, "maximum batch submissions per minute")
	seed := flag.Int64("seed", 1, "mock provider seed")
	reuse := flag.Bool("reuse", false, "reuse coordinates already present in the -out artifact")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	if *in == "" || *out == "" {
		flag.Usage()
		return errors.New("missing required flags: -in, -out")
	}

	logger := observability.NewLogger(*logLevel)
	metrics := observability.NewMetrics()

	gcfg := config.GeocoderProfile{
		Provider:          *provider,
		URL:               *url,
		Benchmark:         "Public_AR_Current",
		Vintage:           "Current_Current",
		ReturnType:        "locations",
		TimeoutSeconds:    *timeout,
		MaxBatchRows:      *batchSize,
		RequestsPerMinute: *rpm,
		Seed:              *seed,
		ArtifactPath:      *out,
	}

	var geocoder domain.Geocoder
	switch *provider {
	case config.ProviderCensus:
		geocoder = census.NewClient(gcfg, metrics, logger)
	case config.ProviderMock:
		geocoder = census.NewMock(*seed, logger)
	default:
		return fmt.Errorf("unknown provider %q", *provider)
	}

	loader := dataset.NewLoader(logger, metrics)
	incidents := loader.LoadIncidents(*in, "")
	if len(incidents) == 0 {
		return fmt.Errorf("no incidents loaded from %s", *in)
	}

	if *reuse {
		if prior := loadPrior(loader, *out); len(prior) > 0 {
			incidents = domain.MergeGeocodeResults(incidents, priorResults(prior))
			geocoder = census.NewArtifactCache(geocoder, prior, metrics)
			logger.Info("reusing existing artifact", "path", *out, "rows", len(prior))
		}
	}

	enriched, report, err := domain.Enrich(context.Background(), geocoder, incidents)
	if err != nil {
		return fmt.Errorf("enrich incidents: %w", err)
	}

	if err := dataset.WriteIncidents(*out, enriched); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}

	logger.Info("artifact written",
		"path", *out,
		"rows", len(enriched),
		"submitted", report.Submitted,
		"matched", report.Matched,
		"unmatched", report.Unmatched,
		"duration", report.FinishedAt.Sub(report.StartedAt))
	return nil
}

// loadPrior reads a previous run's artifact. A missing file is a normal
// first run, not an error.
func loadPrior(loader *dataset.Loader, path string) []domain.IncidentRecord {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return loader.LoadIncidents(path, "")
}

// priorResults projects previously enriched records into geocode results so
// their coordinates merge through the same left-join as provider output.
func priorResults(records []domain.IncidentRecord) []domain.GeocodeResult {
	results := make([]domain.GeocodeResult, 0, len(records))
	for _, rec := range records {
		if rec.Latitude == nil || rec.Longitude == nil {
			continue
		}
		results = append(results, domain.GeocodeResult{
			ID:        rec.ID,
			Latitude:  rec.Latitude,
			Longitude: rec.Longitude,
		})
	}
	return results
}
