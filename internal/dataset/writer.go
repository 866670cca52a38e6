package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/couchcryptid/gunviolence-data-service/internal/domain"
)

// incidentHeader is the column order of the persisted enriched artifact.
// Coordinates are written as two separate numeric columns, so the artifact
// reloads without the combined-field split.
var incidentHeader = []string{
	"Incident ID",
	"Incident Date",
	"Address",
	"City Or County",
	"State",
	"Victims Killed",
	"Victims Injured",
	"latitude",
	"longitude",
}

// WriteIncidents persists the enriched incident table at path, creating
// parent directories as needed. Nil numeric fields serialize as blank
// cells. The artifact is the system's only geocoding cache: a persisted
// file that later runs read back instead of asking the service again.
func WriteIncidents(path string, records []domain.IncidentRecord) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(incidentHeader); err != nil {
		return fmt.Errorf("write artifact header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			rec.ID,
			rec.Date,
			rec.Address,
			rec.City,
			rec.State,
			formatCount(rec.VictimsKilled),
			formatCount(rec.VictimsInjured),
			formatCoordinate(rec.Latitude),
			formatCoordinate(rec.Longitude),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write artifact row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush artifact: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o600)
}

func formatCount(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatCoordinate(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
