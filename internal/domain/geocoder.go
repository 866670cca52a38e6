package domain

import "context"

// AddressQuery is one outbound row of a geocoding batch: the projection of
// an incident that the batch geocoding service accepts.
type AddressQuery struct {
	ID      string
	Address string
	City    string
	State   string
	ZIP     string
}

// GeocodeResult is one response row from a geocoding provider. Latitude and
// Longitude are nil when the provider returned no match for the query.
type GeocodeResult struct {
	ID        string
	MatchType string
	Latitude  *float64
	Longitude *float64
}

// Geocoder resolves addresses to coordinates in batches.
type Geocoder interface {
	// GeocodeBatch submits the queries and returns one result per response
	// row. Implementations must not return partial results alongside an
	// error: on failure the caller gets nothing to merge.
	GeocodeBatch(ctx context.Context, batch []AddressQuery) ([]GeocodeResult, error)
}
