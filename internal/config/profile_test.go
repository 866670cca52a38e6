package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadProfile_Defaults(t *testing.T) {
	path := writeProfile(t, `
incidents:
  path: data/mass_shootings_geocoded.csv
`)

	p, err := LoadProfile(path)
	require.NoError(t, err)

	assert.Equal(t, "data/mass_shootings_geocoded.csv", p.Incidents.Path)
	assert.Empty(t, p.Incidents.FallbackPath)
	assert.Empty(t, p.StateLaws.Path)

	g := p.Geocoder
	assert.Equal(t, ProviderNone, g.Provider)
	assert.Equal(t, DefaultCensusURL, g.URL)
	assert.Equal(t, "Public_AR_Current", g.Benchmark)
	assert.Equal(t, "Current_Current", g.Vintage)
	assert.Equal(t, "locations", g.ReturnType)
	assert.Equal(t, 60, g.TimeoutSeconds)
	assert.Equal(t, 10000, g.MaxBatchRows)
	assert.Equal(t, 30, g.RequestsPerMinute)
}

func TestLoadProfile_Full(t *testing.T) {
	path := writeProfile(t, `
incidents:
  path: data/MassShootingIncidents.csv
  fallback_path: data/MassShootingIncidnets.csv
state_laws:
  path: data/state_laws.csv
geocoder:
  provider: census
  url: http://localhost:9999/geocoder
  benchmark: Public_AR_Census2020
  vintage: Census2020_Census2020
  return_type: geographies
  timeout_seconds: 120
  max_batch_rows: 5000
  requests_per_minute: 10
  artifact_path: data/mass_shootings_geocoded.csv
`)

	p, err := LoadProfile(path)
	require.NoError(t, err)

	assert.Equal(t, "data/MassShootingIncidnets.csv", p.Incidents.FallbackPath)
	assert.Equal(t, "data/state_laws.csv", p.StateLaws.Path)

	g := p.Geocoder
	assert.Equal(t, ProviderCensus, g.Provider)
	assert.Equal(t, "http://localhost:9999/geocoder", g.URL)
	assert.Equal(t, "Public_AR_Census2020", g.Benchmark)
	assert.Equal(t, "Census2020_Census2020", g.Vintage)
	assert.Equal(t, "geographies", g.ReturnType)
	assert.Equal(t, 120, g.TimeoutSeconds)
	assert.Equal(t, 5000, g.MaxBatchRows)
	assert.Equal(t, 10, g.RequestsPerMinute)
	assert.Equal(t, "data/mass_shootings_geocoded.csv", g.ArtifactPath)
}

func TestLoadProfile_MissingFile(t *testing.T) {
	_, err := LoadProfile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read dataset profile")
}

func TestLoadProfile_MalformedYAML(t *testing.T) {
	path := writeProfile(t, "incidents: [not: valid")
	_, err := LoadProfile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse dataset profile")
}

func TestLoadProfile_MissingIncidentsPath(t *testing.T) {
	path := writeProfile(t, `
geocoder:
  provider: none
`)
	_, err := LoadProfile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incidents.path")
}

func TestLoadProfile_UnknownProvider(t *testing.T) {
	path := writeProfile(t, `
incidents:
  path: data/incidents.csv
geocoder:
  provider: nominatim
`)
	_, err := LoadProfile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown geocoder provider "nominatim"`)
}

func TestLoadProfile_ProviderRequiresArtifactPath(t *testing.T) {
	path := writeProfile(t, `
incidents:
  path: data/incidents.csv
geocoder:
  provider: mock
`)
	_, err := LoadProfile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "artifact_path")
}

func TestLoadProfile_NegativeTimeout(t *testing.T) {
	path := writeProfile(t, `
incidents:
  path: data/incidents.csv
geocoder:
  provider: none
  timeout_seconds: -5
`)
	_, err := LoadProfile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout_seconds")
}
