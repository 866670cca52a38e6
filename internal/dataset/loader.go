package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/couchcryptid/gunviolence-data-service/internal/domain"
	"github.com/couchcryptid/gunviolence-data-service/internal/observability"
)

// Loader reads the delimited source tables into memory. Every failure path
// returns an empty table and logs the reason: callers render zero incidents
// instead of crashing.
type Loader struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewLoader creates a Loader with the given observability handles.
func NewLoader(logger *slog.Logger, metrics *observability.Metrics) *Loader {
	return &Loader{logger: logger, metrics: metrics}
}

// LoadIncidents reads the incident table at path. When path does not exist
// and fallbackPath is non-empty, the fallback is tried once before giving
// up. Header matching is case-insensitive with the known synonym spellings;
// a file carrying only a "latitude" column holds combined "lon,lat" text,
// which is kept raw for the normalizer to split.
func (l *Loader) LoadIncidents(path, fallbackPath string) []domain.IncidentRecord {
	rows, resolved, err := l.readTable(path, fallbackPath)
	if err != nil {
		l.logger.Error("incident load failed", "path", path, "fallback_path", fallbackPath, "error", err)
		return []domain.IncidentRecord{}
	}

	header := rows[0]
	colIdx := columnIndex(header)
	idCol := findColumn(colIdx, "incident id", "id")
	dateCol := findColumn(colIdx, "incident date", "date")
	addressCol := findColumn(colIdx, "address")
	cityCol := findColumn(colIdx, "city or county", "city")
	stateCol := findColumn(colIdx, "state")
	killedCol := findColumn(colIdx, "victims killed", "killed")
	injuredCol := findColumn(colIdx, "victims injured", "injured")
	latCol := findColumn(colIdx, "latitude")
	lonCol := findColumn(colIdx, "longitude")

	records := make([]domain.IncidentRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := domain.IncidentRecord{
			ID:             cell(row, idCol),
			Date:           cell(row, dateCol),
			Address:        cell(row, addressCol),
			City:           cell(row, cityCol),
			State:          cell(row, stateCol),
			VictimsKilled:  parseCount(cell(row, killedCol)),
			VictimsInjured: parseCount(cell(row, injuredCol)),
		}

		if lonCol >= 0 {
			rec.Latitude = parseFloat(cell(row, latCol))
			rec.Longitude = parseFloat(cell(row, lonCol))
		} else {
			rec.RawCoordinate = cell(row, latCol)
		}

		records = append(records, rec)
	}

	l.metrics.RowsLoaded.WithLabelValues("incidents").Add(float64(len(records)))
	l.logger.Info("incidents loaded", "path", resolved, "rows", len(records), "columns", header)
	return records
}

// LoadStateLaws reads the state-law table at path under the same failure
// contract as LoadIncidents. Rows whose numeric cells do not parse are
// skipped: a law record without its numbers has no use in the choropleth.
func (l *Loader) LoadStateLaws(path string) []domain.StateLawRecord {
	rows, resolved, err := l.readTable(path, "")
	if err != nil {
		l.logger.Error("state law load failed", "path", path, "error", err)
		return []domain.StateLawRecord{}
	}

	header := rows[0]
	colIdx := columnIndex(header)
	stateCol := findColumn(colIdx, "label", "state")
	strengthCol := findColumn(colIdx, "strength of gun laws (out of 100 points)", "law strength")
	deathsCol := findColumn(colIdx, "gun deaths per 100,000 residents", "gun deaths")

	records := make([]domain.StateLawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		name := cell(row, stateCol)
		strength := parseFloat(cell(row, strengthCol))
		deathRate := parseFloat(cell(row, deathsCol))
		if name == "" || strength == nil || deathRate == nil {
			continue
		}
		records = append(records, domain.StateLawRecord{
			StateName:    name,
			LawStrength:  *strength,
			GunDeathRate: *deathRate,
		})
	}

	l.metrics.RowsLoaded.WithLabelValues("state_laws").Add(float64(len(records)))
	l.logger.Info("state laws loaded", "path", resolved, "rows", len(records), "columns", header)
	return records
}

// readTable opens the primary path, falling back once when it does not
// exist, and reads every row. Ragged rows are allowed; short rows read as
// missing trailing fields.
func (l *Loader) readTable(path, fallbackPath string) ([][]string, string, error) {
	resolved := path
	f, err := os.Open(path)
	if err != nil && fallbackPath != "" && errors.Is(err, os.ErrNotExist) {
		resolved = fallbackPath
		f, err = os.Open(fallbackPath)
	}
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, "", fmt.Errorf("read csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, "", errors.New("empty file")
	}

	return rows, resolved, nil
}

// columnIndex maps lowercased, trimmed header names to their positions.
func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return idx
}

// findColumn returns the index of the first synonym present in the header,
// or -1 when none is.
func findColumn(idx map[string]int, names ...string) int {
	for _, name := range names {
		if i, ok := idx[name]; ok {
			return i
		}
	}
	return -1
}

// cell returns the trimmed value at column i, or "" when the column is
// absent or the row is short.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseCount parses a victim count, tolerating the "2.0" form some exports
// use for whole-number columns. Missing or malformed counts are nil, never
// zero.
func parseCount(s string) *int {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || v != math.Trunc(v) {
		return nil
	}
	n := int(v)
	return &n
}

// parseFloat parses a numeric cell, returning nil when missing or malformed.
func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
