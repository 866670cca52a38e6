// Command genmock generates synthetic incident CSV fixtures for developing
// and testing the dashboard pipeline without the real dataset. Output is
// deterministic for a given seed.
//
// By default the file has the raw, un-geocoded shape (empty latitude
// column). With -geocoded the latitude column carries combined "lon,lat"
// text, matching the upstream export's mislabeled geocoder output, so the
// normalizer's split path can be exercised end to end.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock/incidents.csv -rows 250 -seed 7
//	go run ./cmd/genmock -out data/mock/incidents_geocoded.csv -rows 250 -geocoded
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
)

// Continental US bounding box for fabricated coordinates.
const (
	minLat = 24.5
	maxLat = 49.4
	minLon = -124.8
	maxLon = -66.9
)

var header = []string{
	"Incident ID",
	"Incident Date",
	"Address",
	"City Or County",
	"State",
	"Victims Killed",
	"Victims Injured",
	"latitude",
}

var months = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var places = []struct{ city, state string }{
	{"Springfield", "IL"},
	{"Austin", "TX"},
	{"Dayton", "OH"},
	{"Aurora", "CO"},
	{"Savannah", "GA"},
	{"Fresno", "CA"},
	{"Rochester", "NY"},
	{"Mobile", "AL"},
	{"Wichita", "KS"},
	{"Memphis", "TN"},
}

var streets = []string{
	"Main St", "Oak Ave", "Elm St", "Maple Dr", "Washington Blvd",
	"2nd Ave", "Church St", "Park Rd", "Lake View Dr", "Mill St",
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the incident CSV")
	rows := flag.Int("rows", 100, "number of incident rows to generate")
	seed := flag.Int64("seed", 1, "random seed")
	geocoded := flag.Bool("geocoded", false, "emit combined \"lon,lat\" coordinate text")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	rng := rand.New(rand.NewSource(*seed))

	records := make([][]string, 0, *rows)
	for i := 0; i < *rows; i++ {
		records = append(records, makeRow(rng, i+1, *geocoded))
	}

	if err := writeCSV(*out, records); err != nil {
		return fmt.Errorf("writing %s: %w", *out, err)
	}

	log.Printf("wrote %d rows to %s (geocoded=%v, seed=%d)", *rows, *out, *geocoded, *seed)
	return nil
}

func makeRow(rng *rand.Rand, id int, geocoded bool) []string {
	place := places[rng.Intn(len(places))]
	date := fmt.Sprintf("%s %d, %d",
		months[rng.Intn(len(months))],
		rng.Intn(28)+1,
		2014+rng.Intn(10))
	address := fmt.Sprintf("%d %s", rng.Intn(9000)+100, streets[rng.Intn(len(streets))])

	killed := strconv.Itoa(rng.Intn(5))
	injured := strconv.Itoa(rng.Intn(12))
	// Sprinkle in missing counts so coercion paths stay exercised.
	if id%13 == 0 {
		killed = ""
	}
	if id%17 == 0 {
		injured = ""
	}

	coord := ""
	if geocoded {
		lat := minLat + rng.Float64()*(maxLat-minLat)
		lon := minLon + rng.Float64()*(maxLon-minLon)
		coord = fmt.Sprintf("%.6f,%.6f", lon, lat)
	}

	return []string{
		strconv.Itoa(id),
		date,
		address,
		place.city,
		place.state,
		killed,
		injured,
		coord,
	}
}

func writeCSV(path string, records [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, rec := range records {
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
