// Command validate checks an incident CSV artifact for data-quality
// problems before it is served: CSV parseability, id presence and
// uniqueness, victim-count parseability, coordinate coverage, and whether
// each date yields a usable year. It writes a JSON report and prints a
// human-readable summary.
//
// An unreadable input file exits non-zero; quality findings are reported,
// not fatal, because the pipeline degrades row by row rather than
// rejecting whole files.
//
// Usage:
//
//	go run ./cmd/validate -in data/mass_shootings_geocoded.csv -out reports/validation.json
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/gunviolence-data-service/internal/domain"
)

// report is the JSON document written to -out.
type report struct {
	Path        string    `json:"path"`
	GeneratedAt time.Time `json:"generated_at"`

	TotalRows    int `json:"total_rows"`
	MissingIDs   int `json:"missing_ids"`
	DuplicateIDs int `json:"duplicate_ids"`

	UnparseableVictimCounts int `json:"unparseable_victim_counts"`

	RowsWithCoordinates    int `json:"rows_with_coordinates"`
	RowsWithoutCoordinates int `json:"rows_without_coordinates"`
	RowsWithoutYear        int `json:"rows_without_year"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	in := flag.String("in", "", "path to the incident CSV to validate")
	out := flag.String("out", "", "output path for the JSON report")
	flag.Parse()

	if *in == "" || *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -in, -out")
	}

	rows, err := readCSV(*in)
	if err != nil {
		return fmt.Errorf("read %s: %w", *in, err)
	}

	rep := validate(*in, rows)

	if err := writeJSON(*out, rep); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	printSummary(rep)
	return nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("empty file")
	}
	return rows, nil
}

func validate(path string, rows [][]string) report {
	rep := report{
		Path:        path,
		GeneratedAt: domain.Now(),
		TotalRows:   len(rows) - 1,
	}

	colIdx := map[string]int{}
	for i, name := range rows[0] {
		colIdx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	idCol := findColumn(colIdx, "incident id", "id")
	dateCol := findColumn(colIdx, "incident date", "date")
	killedCol := findColumn(colIdx, "victims killed", "killed")
	injuredCol := findColumn(colIdx, "victims injured", "injured")
	latCol := findColumn(colIdx, "latitude")
	lonCol := findColumn(colIdx, "longitude")

	seen := map[string]bool{}
	for _, row := range rows[1:] {
		id := cell(row, idCol)
		switch {
		case id == "":
			rep.MissingIDs++
		case seen[id]:
			rep.DuplicateIDs++
		default:
			seen[id] = true
		}

		for _, c := range []string{cell(row, killedCol), cell(row, injuredCol)} {
			if c != "" && !countParses(c) {
				rep.UnparseableVictimCounts++
			}
		}

		if hasCoordinates(row, latCol, lonCol) {
			rep.RowsWithCoordinates++
		} else {
			rep.RowsWithoutCoordinates++
		}

		if domain.ExtractYear(cell(row, dateCol)) == nil {
			rep.RowsWithoutYear++
		}
	}

	return rep
}

// hasCoordinates checks the coordinate cells for this row's file shape:
// separate numeric latitude and longitude columns, or a single combined
// "lon,lat" column when there is no longitude column.
func hasCoordinates(row []string, latCol, lonCol int) bool {
	if lonCol >= 0 {
		return floatParses(cell(row, latCol)) && floatParses(cell(row, lonCol))
	}
	parts := strings.SplitN(cell(row, latCol), ",", 2)
	return len(parts) == 2 && floatParses(parts[0]) && floatParses(parts[1])
}

// countParses mirrors the loader's victim-count rule: a non-negative whole
// number, tolerating the "2.0" export form.
func countParses(s string) bool {
	v, err := strconv.ParseFloat(s, 64)
	return err == nil && v >= 0 && v == math.Trunc(v)
}

func floatParses(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func findColumn(idx map[string]int, names ...string) int {
	for _, name := range names {
		if i, ok := idx[name]; ok {
			return i
		}
	}
	return -1
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printSummary(rep report) {
	fmt.Printf("=== Incident Data Validation: %s ===\n", rep.Path)
	fmt.Printf("Total rows:                %d\n", rep.TotalRows)
	fmt.Printf("Missing ids:               %d\n", rep.MissingIDs)
	fmt.Printf("Duplicate ids:             %d\n", rep.DuplicateIDs)
	fmt.Printf("Unparseable victim counts: %d\n", rep.UnparseableVictimCounts)
	fmt.Printf("With coordinates:          %d\n", rep.RowsWithCoordinates)
	fmt.Printf("Without coordinates:       %d (dropped by normalization)\n", rep.RowsWithoutCoordinates)
	fmt.Printf("Without a usable year:     %d (excluded by year filters)\n", rep.RowsWithoutYear)
}
