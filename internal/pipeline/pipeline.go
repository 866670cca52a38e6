package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/couchcryptid/gunviolence-data-service/internal/adapter/census"
	"github.com/couchcryptid/gunviolence-data-service/internal/config"
	"github.com/couchcryptid/gunviolence-data-service/internal/dataset"
	"github.com/couchcryptid/gunviolence-data-service/internal/domain"
	"github.com/couchcryptid/gunviolence-data-service/internal/observability"
)

// Pipeline runs the load-enrich-normalize cycle that produces the store
// the API serves from. One pipeline handles every provider: the profile
// decides whether enrichment happens and which geocoder backs it.
type Pipeline struct {
	profile  *config.Profile
	loader   *dataset.Loader
	geocoder domain.Geocoder
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// New creates a Pipeline. geocoder may be nil when the profile disables
// enrichment.
func New(profile *config.Profile, loader *dataset.Loader, geocoder domain.Geocoder, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		profile:  profile,
		loader:   loader,
		geocoder: geocoder,
		logger:   logger,
		metrics:  metrics,
	}
}

// Run executes one full cycle and returns the immutable store. Loading
// failures surface as an empty store; a geocoding failure aborts the run
// so half-enriched data never reaches the map.
func (p *Pipeline) Run(ctx context.Context) (*dataset.Store, error) {
	start := time.Now()
	p.logger.Info("pipeline started",
		"incidents_path", p.profile.Incidents.Path,
		"geocoder_provider", p.profile.Geocoder.Provider)

	incidents := p.loader.LoadIncidents(p.profile.Incidents.Path, p.profile.Incidents.FallbackPath)

	if p.profile.Geocoder.Provider != config.ProviderNone && p.geocoder != nil && len(incidents) > 0 {
		enriched, err := p.enrich(ctx, incidents)
		if err != nil {
			return nil, err
		}
		incidents = enriched
	}

	normalized := domain.Normalize(incidents)
	dropped := len(incidents) - len(normalized)
	p.metrics.RowsDropped.Add(float64(dropped))
	p.logger.Info("incidents normalized", "in", len(incidents), "out", len(normalized), "dropped", dropped)

	var laws []domain.StateLawRecord
	if p.profile.StateLaws.Path != "" {
		laws = p.loader.LoadStateLaws(p.profile.StateLaws.Path)
	}

	store := dataset.NewStore(normalized, laws)
	p.logger.Info("pipeline complete",
		"incidents", len(normalized),
		"state_laws", len(laws),
		"duration", time.Since(start))
	return store, nil
}

// enrich geocodes the batch, reusing coordinates from the previous run's
// persisted artifact and rewriting the artifact afterwards. The artifact
// is the only geocoding cache there is, so failing to write it is fatal.
func (p *Pipeline) enrich(ctx context.Context, incidents []domain.IncidentRecord) ([]domain.IncidentRecord, error) {
	artifactPath := p.profile.Geocoder.ArtifactPath

	prior := p.loadArtifact(artifactPath)
	geocoder := p.geocoder
	if len(prior) > 0 {
		incidents = domain.MergeGeocodeResults(incidents, artifactResults(prior))
		geocoder = census.NewArtifactCache(geocoder, prior, p.metrics)
		p.logger.Info("artifact reused", "path", artifactPath, "rows", len(prior))
	}

	enriched, report, err := domain.Enrich(ctx, geocoder, incidents)
	if err != nil {
		return nil, err
	}
	p.logger.Info("enrichment complete",
		"submitted", report.Submitted,
		"matched", report.Matched,
		"unmatched", report.Unmatched,
		"duration", report.FinishedAt.Sub(report.StartedAt))

	if err := dataset.WriteIncidents(artifactPath, enriched); err != nil {
		return nil, fmt.Errorf("write artifact: %w", err)
	}
	p.logger.Info("artifact written", "path", artifactPath, "rows", len(enriched))

	return enriched, nil
}

// loadArtifact reads the previous run's enriched output. A missing file
// is a normal first run, not an error.
func (p *Pipeline) loadArtifact(path string) []domain.IncidentRecord {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return p.loader.LoadIncidents(path, "")
}

// artifactResults projects previously enriched records into geocode
// results so they merge through the same path as fresh provider output.
func artifactResults(records []domain.IncidentRecord) []domain.GeocodeResult {
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
