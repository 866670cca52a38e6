package census

import (
	"context"
	"log/slog"
	"math/rand"

	"github.com/couchcryptid/gunviolence-data-service/internal/domain"
)

// Continental US bounding box for fabricated coordinates.
const (
	mockMinLat = 24.5
	mockMaxLat = 49.4
	mockMinLon = -124.8
	mockMaxLon = -66.9
)

// Mock implements domain.Geocoder with fabricated coordinates so the
// service can run without network access. Results are deterministic for a
// given seed and batch, and every result carries match type "Mock" so
// fabricated points stay identifiable downstream.
type Mock struct {
	seed   int64
	logger *slog.Logger
}

// NewMock creates the mock geocoder. It warns at construction time:
// fabricated coordinates must never reach a published map unnoticed.
func NewMock(seed int64, logger *slog.Logger) *Mock {
	logger.Warn("mock geocoder selected, coordinates will be fabricated", "seed", seed)
	return &Mock{seed: seed, logger: logger}
}

// GeocodeBatch fabricates one matched result per query.
func (m *Mock) GeocodeBatch(_ context.Context, batch []domain.AddressQuery) ([]domain.GeocodeResult, error) {
	rng := rand.New(rand.NewSource(m.seed))
	results := make([]domain.GeocodeResult, 0, len(batch))
	for _, q := range batch {
		lat := mockMinLat + rng.Float64()*(mockMaxLat-mockMinLat)
		lon := mockMinLon + rng.Float64()*(mockMaxLon-mockMinLon)
		results = append(results, domain.GeocodeResult{
			ID:        q.ID,
			MatchType: "Mock",
			Latitude:  &lat,
			Longitude: &lon,
		})
	}
	return results, nil
}
