package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAddress = "1 Main St"
	testCity    = "Springfield"
	testState   = "IL"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestNormalize(t *testing.T) {
	t.Run("combined coordinate row", func(t *testing.T) {
		records := []IncidentRecord{{
			ID:             "1",
			Date:           "March 3, 2022",
			Address:        testAddress,
			City:           testCity,
			State:          testState,
			VictimsKilled:  intPtr(2),
			VictimsInjured: intPtr(3),
			RawCoordinate:  "-89.5,39.8",
		}}

		out := Normalize(records)

		require.Len(t, out, 1)
		rec := out[0]
		require.NotNil(t, rec.Year)
		assert.Equal(t, 2022, *rec.Year)
		require.NotNil(t, rec.TotalVictims)
		assert.Equal(t, 5, *rec.TotalVictims)
		require.NotNil(t, rec.Latitude)
		assert.Equal(t, 39.8, *rec.Latitude)
		require.NotNil(t, rec.Longitude)
		assert.Equal(t, -89.5, *rec.Longitude)
		require.NotNil(t, rec.FullLocation)
		assert.Equal(t, "1 Main St, Springfield, IL, USA", *rec.FullLocation)
	})

	t.Run("separate coordinate columns pass through", func(t *testing.T) {
		records := []IncidentRecord{{
			ID:        "2",
			Date:      "2019-07-04",
			Latitude:  floatPtr(41.88),
			Longitude: floatPtr(-87.63),
		}}

		out := Normalize(records)

		require.Len(t, out, 1)
		assert.Equal(t, 41.88, *out[0].Latitude)
		assert.Equal(t, -87.63, *out[0].Longitude)
		assert.Equal(t, 2019, *out[0].Year)
	})

	t.Run("drops rows missing either coordinate", func(t *testing.T) {
		records := []IncidentRecord{
			{ID: "keep", RawCoordinate: "-89.5,39.8"},
			{ID: "no-coords"},
			{ID: "lat-only", Latitude: floatPtr(39.8)},
			{ID: "lon-only", Longitude: floatPtr(-89.5)},
			{ID: "bad-combined", RawCoordinate: "not,numbers"},
			{ID: "half-combined", RawCoordinate: "-89.5"},
		}

		out := Normalize(records)

		require.Len(t, out, 1)
		assert.Equal(t, "keep", out[0].ID)
		for _, rec := range out {
			require.NotNil(t, rec.Latitude)
			require.NotNil(t, rec.Longitude)
		}
	})

	t.Run("missing operand keeps total missing", func(t *testing.T) {
		records := []IncidentRecord{{
			ID:            "3",
			VictimsKilled: intPtr(4),
			RawCoordinate: "-89.5,39.8",
		}}

		out := Normalize(records)

		require.Len(t, out, 1)
		assert.Nil(t, out[0].TotalVictims)
	})

	t.Run("missing location component keeps full location missing", func(t *testing.T) {
		records := []IncidentRecord{{
			ID:            "4",
			Address:       testAddress,
			State:         testState,
			RawCoordinate: "-89.5,39.8",
		}}

		out := Normalize(records)

		require.Len(t, out, 1)
		assert.Nil(t, out[0].FullLocation)
	})

	t.Run("does not mutate input", func(t *testing.T) {
		records := []IncidentRecord{{
			ID:             "5",
			Date:           "March 3, 2022",
			VictimsKilled:  intPtr(1),
			VictimsInjured: intPtr(1),
			RawCoordinate:  "-89.5,39.8",
		}}

		Normalize(records)

		assert.Nil(t, records[0].Year)
		assert.Nil(t, records[0].TotalVictims)
		assert.Nil(t, records[0].Latitude)
		assert.Nil(t, records[0].Longitude)
	})

	t.Run("idempotent on its own output", func(t *testing.T) {
		records := []IncidentRecord{
			{
				ID:             "1",
				Date:           "March 3, 2022",
				Address:        testAddress,
				City:           testCity,
				State:          testState,
				VictimsKilled:  intPtr(2),
				VictimsInjured: intPtr(3),
				RawCoordinate:  "-89.5,39.8",
			},
			{
				ID:        "2",
				Date:      "no year here",
				Latitude:  floatPtr(41.88),
				Longitude: floatPtr(-87.63),
			},
		}

		once := Normalize(records)
		twice := Normalize(once)

		assert.Equal(t, once, twice)
	})
}

func TestSplitCombinedCoordinate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		lon  *float64
		lat  *float64
	}{
		{"lon then lat", "-89.5,39.8", floatPtr(-89.5), floatPtr(39.8)},
		{"whitespace trimmed", " -89.5 , 39.8 ", floatPtr(-89.5), floatPtr(39.8)},
		{"missing latitude part", "-89.5", floatPtr(-89.5), nil},
		{"unparseable longitude", "west,39.8", nil, floatPtr(39.8)},
		{"unparseable latitude", "-89.5,north", floatPtr(-89.5), nil},
		{"both unparseable", "a,b", nil, nil},
		{"empty parts", ",", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lon, lat := splitCombinedCoordinate(tt.raw)
			assert.Equal(t, tt.lon, lon)
			assert.Equal(t, tt.lat, lat)
		})
	}
}

func TestExtractYear(t *testing.T) {
	tests := []struct {
		name     string
		date     string
		expected *int
	}{
		{"month name date", "March 3, 2022", intPtr(2022)},
		{"iso date", "2019-03-02", intPtr(2019)},
		{"year at end", "1 May 1999", intPtr(1999)},
		{"first four digit run wins", "1999 and 2001", intPtr(1999)},
		{"five digit run skipped", "20223", nil},
		{"five digit run then four", "20223 in 2022", intPtr(2022)},
		{"two digit year", "3/3/22", nil},
		{"no digits", "sometime in spring", nil},
		{"empty string", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractYear(tt.date))
		})
	}
}

func TestSumVictims(t *testing.T) {
	tests := []struct {
		name     string
		killed   *int
		injured  *int
		expected *int
	}{
		{"both present", intPtr(2), intPtr(3), intPtr(5)},
		{"zero counts", intPtr(0), intPtr(0), intPtr(0)},
		{"killed missing", nil, intPtr(3), nil},
		{"injured missing", intPtr(2), nil, nil},
		{"both missing", nil, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sumVictims(tt.killed, tt.injured))
		})
	}
}

func TestBuildFullLocation(t *testing.T) {
	t.Run("all components present", func(t *testing.T) {
		got := buildFullLocation(testAddress, testCity, testState)
		require.NotNil(t, got)
		assert.Equal(t, "1 Main St, Springfield, IL, USA", *got)
	})

	t.Run("any missing component yields nil", func(t *testing.T) {
		assert.Nil(t, buildFullLocation("", testCity, testState))
		assert.Nil(t, buildFullLocation(testAddress, "", testState))
		assert.Nil(t, buildFullLocation(testAddress, testCity, ""))
	})
}
