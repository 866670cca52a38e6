package domain

import (
	"context"
	"fmt"
	"time"
)

// EnrichmentReport summarizes one geocoding run. Timestamps come from the
// package clock so tests can freeze them.
type EnrichmentReport struct {
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Submitted  int       `json:"submitted"`
	Matched    int       `json:"matched"`
	Unmatched  int       `json:"unmatched"`
}

// BatchQueries projects incidents into outbound batch rows, preserving input
// order. The ZIP column is always empty: the source data carries no postal
// codes and the census service accepts blank ones.
func BatchQueries(incidents []IncidentRecord) []AddressQuery {
	queries := make([]AddressQuery, len(incidents))
	for i, rec := range incidents {
		queries[i] = AddressQuery{
			ID:      rec.ID,
			Address: rec.Address,
			City:    rec.City,
			State:   rec.State,
		}
	}
	return queries
}

// MergeGeocodeResults left-joins provider results onto incidents by ID.
// Every incident is preserved: a match fills Latitude and Longitude and
// clears any stale combined coordinate text, while records without a match
// keep nil coordinates. Dropping coordinate-less rows happens later, in
// Normalize, never here. The output length always equals the input length.
func MergeGeocodeResults(incidents []IncidentRecord, results []GeocodeResult) []IncidentRecord {
	byID := make(map[string]GeocodeResult, len(results))
	for _, res := range results {
		if res.ID == "" {
			continue
		}
		byID[res.ID] = res
	}

	merged := make([]IncidentRecord, len(incidents))
	for i, rec := range incidents {
		if res, ok := byID[rec.ID]; ok && res.Latitude != nil && res.Longitude != nil {
			rec.Latitude = res.Latitude
			rec.Longitude = res.Longitude
			rec.RawCoordinate = ""
		}
		merged[i] = rec
	}
	return merged
}

// Enrich submits every incident's address to the geocoder and merges the
// returned coordinates back by ID. On geocoder failure it returns only the
// error: callers never see partial results, because merging a failed run
// would corrupt coordinate data silently.
func Enrich(ctx context.Context, geocoder Geocoder, incidents []IncidentRecord) ([]IncidentRecord, *EnrichmentReport, error) {
	report := &EnrichmentReport{StartedAt: clock.Now()}

	queries := BatchQueries(incidents)
	report.Submitted = len(queries)

	var results []GeocodeResult
	if len(queries) > 0 {
		var err error
		results, err = geocoder.GeocodeBatch(ctx, queries)
		if err != nil {
			return nil, nil, fmt.Errorf("geocode batch: %w", err)
		}
	}

	merged := MergeGeocodeResults(incidents, results)

	matched := make(map[string]bool, len(results))
	for _, res := range results {
		if res.ID != "" && res.Latitude != nil && res.Longitude != nil {
			matched[res.ID] = true
		}
	}
	for _, q := range queries {
		if matched[q.ID] {
			report.Matched++
		}
	}
	report.Unmatched = report.Submitted - report.Matched
	report.FinishedAt = clock.Now()

	return merged, report, nil
}
