package census

import (
	"context"

	"github.com/couchcryptid/gunviolence-data-service/internal/domain"
	"github.com/couchcryptid/gunviolence-data-service/internal/observability"
)

// ArtifactCache wraps a Geocoder so that incidents already resolved by a
// previous run's persisted artifact are never re-submitted. The artifact
// file is the system's only geocoding cache; this decorator is what makes
// reloading it cheap.
type ArtifactCache struct {
	next    domain.Geocoder
	known   map[string]struct{}
	metrics *observability.Metrics
}

// NewArtifactCache builds the cache from previously enriched records. An
// id counts as known only when both coordinates are present.
func NewArtifactCache(next domain.Geocoder, records []domain.IncidentRecord, metrics *observability.Metrics) *ArtifactCache {
	known := make(map[string]struct{})
	for _, rec := range records {
		if rec.ID != "" && rec.Latitude != nil && rec.Longitude != nil {
			known[rec.ID] = struct{}{}
		}
	}
	return &ArtifactCache{next: next, known: known, metrics: metrics}
}

// GeocodeBatch forwards only the queries whose ids are not already
// resolved. When everything is known the wrapped geocoder is not called
// at all.
func (c *ArtifactCache) GeocodeBatch(ctx context.Context, batch []domain.AddressQuery) ([]domain.GeocodeResult, error) {
	misses := make([]domain.AddressQuery, 0, len(batch))
	for _, q := range batch {
		if _, ok := c.known[q.ID]; ok {
			c.metrics.GeocodeCache.WithLabelValues("hit").Inc()
			continue
		}
		c.metrics.GeocodeCache.WithLabelValues("miss").Inc()
		misses = append(misses, q)
	}

	if len(misses) == 0 {
		return []domain.GeocodeResult{}, nil
	}
	return c.next.GeocodeBatch(ctx, misses)
}
