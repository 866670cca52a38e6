package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// digitRunRe matches maximal runs of ASCII digits. Year extraction scans the
// runs in a date string and takes the first run of exactly four digits:
// "March 3, 2022" -> 2022 (the one-digit run "3" is skipped).
var digitRunRe = regexp.MustCompile(`[0-9]+`)

// Normalize derives the computed columns for a batch of incident records and
// drops the rows that can never be mapped. It is pure: no I/O, the input
// slice is not mutated, and the output is freshly allocated. Normalizing an
// already-normalized table yields the same rows and values.
//
// Steps, in order:
//  1. Split a combined "lon,lat" coordinate into Longitude and Latitude.
//  2. Extract Year from the date text.
//  3. Sum TotalVictims, propagating missing operands.
//  4. Build FullLocation from address, city, and state.
//  5. Drop rows still missing either coordinate.
func Normalize(records []IncidentRecord) []IncidentRecord {
	out := make([]IncidentRecord, 0, len(records))
	for _, rec := range records {
		rec = normalizeRecord(rec)
		if rec.Latitude == nil || rec.Longitude == nil {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// normalizeRecord recomputes the derived columns of a single record.
func normalizeRecord(rec IncidentRecord) IncidentRecord {
	if rec.RawCoordinate != "" {
		rec.Longitude, rec.Latitude = splitCombinedCoordinate(rec.RawCoordinate)
	}
	rec.Year = ExtractYear(rec.Date)
	rec.TotalVictims = sumVictims(rec.VictimsKilled, rec.VictimsInjured)
	rec.FullLocation = buildFullLocation(rec.Address, rec.City, rec.State)
	return rec
}

// splitCombinedCoordinate splits "<longitude>,<latitude>" text on the first
// comma and parses each side independently. A side that is absent or fails
// to parse comes back nil rather than aborting the row.
func splitCombinedCoordinate(raw string) (lon, lat *float64) {
	parts := strings.SplitN(raw, ",", 2)
	lon = parseCoordinate(parts[0])
	if len(parts) == 2 {
		lat = parseCoordinate(parts[1])
	}
	return lon, lat
}

// parseCoordinate parses a string as float64, returning nil on failure.
func parseCoordinate(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// ExtractYear returns the first run of exactly four digits in the date text,
// or nil when no such run exists. Runs of three or five-plus digits never
// match: "20223" yields nothing, "backfilled 2019-03-02" yields 2019.
func ExtractYear(date string) *int {
	for _, run := range digitRunRe.FindAllString(date, -1) {
		if len(run) != 4 {
			continue
		}
		year, err := strconv.Atoi(run)
		if err != nil {
			continue
		}
		return &year
	}
	return nil
}

// sumVictims adds killed and injured counts. A missing operand makes the sum
// missing; counts are never silently coerced to zero.
func sumVictims(killed, injured *int) *int {
	if killed == nil || injured == nil {
		return nil
	}
	total := *killed + *injured
	return &total
}

// buildFullLocation renders "<address>, <city>, <state>, USA" for geocoding
// submissions and display. Any missing component makes the whole value
// missing; partial strings are never produced.
func buildFullLocation(address, city, state string) *string {
	if address == "" || city == "" || state == "" {
		return nil
	}
	s := fmt.Sprintf("%s, %s, %s, USA", address, city, state)
	return &s
}
