//go:build census

package census

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/gunviolence-data-service/internal/config"
	"github.com/couchcryptid/gunviolence-data-service/internal/domain"
	"github.com/couchcryptid/gunviolence-data-service/internal/observability"
)

// These tests hit the real Census Bureau batch endpoint, which needs no
// credentials but is slow and occasionally flaky.
// Run with: go test -tags=census ./internal/adapter/census/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	cfg := config.GeocoderProfile{
		Provider:          config.ProviderCensus,
		URL:               config.DefaultCensusURL,
		Benchmark:         "Public_AR_Current",
		Vintage:           "Current_Current",
		ReturnType:        "locations",
		TimeoutSeconds:    60,
		MaxBatchRows:      10000,
		RequestsPerMinute: 30,
	}
	return NewClient(cfg, observability.NewMetricsForTesting(), discardLogger())
}

func TestSmoke_GeocodeBatch(t *testing.T) {
	c := smokeClient(t)

	batch := []domain.AddressQuery{
		{ID: "1", Address: "1600 Pennsylvania Ave NW", City: "Washington", State: "DC"},
	}

	results, err := c.GeocodeBatch(context.Background(), batch)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	assert.Equal(t, "1", results[0].ID)
	require.NotNil(t, results[0].Latitude, "the White House should geocode")
	require.NotNil(t, results[0].Longitude)
	assert.InDelta(t, 38.9, *results[0].Latitude, 0.2, "lat should be near DC")
	assert.InDelta(t, -77.0, *results[0].Longitude, 0.2, "lon should be near DC")
}

func TestSmoke_GeocodeBatch_UnmatchableAddress(t *testing.T) {
	c := smokeClient(t)

	batch := []domain.AddressQuery{
		{ID: "1", Address: "99999 Nowhere At All Blvd", City: "Nosuchtown", State: "ZZ"},
	}

	results, err := c.GeocodeBatch(context.Background(), batch)
	require.NoError(t, err)

	for _, res := range results {
		assert.Nil(t, res.Latitude)
		assert.Nil(t, res.Longitude)
	}
}
