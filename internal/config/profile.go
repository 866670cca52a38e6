package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Geocoder provider names selectable in a dataset profile.
const (
	ProviderNone   = "none"
	ProviderCensus = "census"
	ProviderMock   = "mock"
)

// DefaultCensusURL is the US Census batch geocoding endpoint.
const DefaultCensusURL = "https://geocoding.geo.census.gov/geocoder/locations/addressbatch"

// Profile parameterizes the dataset pipeline: where the source tables live
// and how (or whether) records are geocoded. One profile covers every
// dataset variant, so the pipeline code exists exactly once.
type Profile struct {
	Incidents IncidentsProfile `yaml:"incidents"`
	StateLaws StateLawsProfile `yaml:"state_laws"`
	Geocoder  GeocoderProfile  `yaml:"geocoder"`
}

// IncidentsProfile locates the incident table. FallbackPath is the one
// alternate filename tried when Path does not exist.
type IncidentsProfile struct {
	Path         string `yaml:"path"`
	FallbackPath string `yaml:"fallback_path"`
}

// StateLawsProfile locates the optional state-law table.
type StateLawsProfile struct {
	Path string `yaml:"path"`
}

// GeocoderProfile selects and tunes the geocoding provider. Provider "none"
// expects pre-geocoded input, "census" calls the live service, and "mock"
// generates labeled synthetic coordinates that must never be mixed with
// real data.
type GeocoderProfile struct {
	Provider          string `yaml:"provider"`
	URL               string `yaml:"url"`
	Benchmark         string `yaml:"benchmark"`
	Vintage           string `yaml:"vintage"`
	ReturnType        string `yaml:"return_type"`
	TimeoutSeconds    int    `yaml:"timeout_seconds"`
	MaxBatchRows      int    `yaml:"max_batch_rows"`
	RequestsPerMinute int    `yaml:"requests_per_minute"`
	Seed              int64  `yaml:"seed"`
	ArtifactPath      string `yaml:"artifact_path"`
}

// LoadProfile reads and validates the dataset profile at path. A missing
// file is an error: the service cannot guess its dataset.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset profile: %w", err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse dataset profile: %w", err)
	}

	p.applyDefaults()
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("dataset profile %s: %w", path, err)
	}

	return &p, nil
}

func (p *Profile) applyDefaults() {
	g := &p.Geocoder
	if g.Provider == "" {
		g.Provider = ProviderNone
	}
	if g.URL == "" {
		g.URL = DefaultCensusURL
	}
	if g.Benchmark == "" {
		g.Benchmark = "Public_AR_Current"
	}
	if g.Vintage == "" {
		g.Vintage = "Current_Current"
	}
	if g.ReturnType == "" {
		g.ReturnType = "locations"
	}
	if g.TimeoutSeconds == 0 {
		g.TimeoutSeconds = 60
	}
	if g.MaxBatchRows == 0 {
		g.MaxBatchRows = 10000
	}
	if g.RequestsPerMinute == 0 {
		g.RequestsPerMinute = 30
	}
}

func (p *Profile) validate() error {
	if p.Incidents.Path == "" {
		return errors.New("incidents.path is required")
	}

	g := p.Geocoder
	switch g.Provider {
	case ProviderNone, ProviderCensus, ProviderMock:
	default:
		return fmt.Errorf("unknown geocoder provider %q", g.Provider)
	}
	if g.TimeoutSeconds <= 0 {
		return errors.New("geocoder.timeout_seconds must be positive")
	}
	if g.MaxBatchRows <= 0 {
		return errors.New("geocoder.max_batch_rows must be positive")
	}
	if g.RequestsPerMinute <= 0 {
		return errors.New("geocoder.requests_per_minute must be positive")
	}
	if g.Provider != ProviderNone && g.ArtifactPath == "" {
		return errors.New("geocoder.artifact_path is required when a geocoding provider is selected")
	}

	return nil
}
