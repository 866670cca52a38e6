package dataset

import (
	"time"

	"github.com/couchcryptid/gunviolence-data-service/internal/domain"
)

// Store holds the fully loaded and normalized dataset. It is built once
// at startup and never mutated afterwards, so handlers may read it from
// any goroutine without locking.
type Store struct {
	incidents []domain.IncidentRecord
	stateLaws []domain.StateLawRecord

	loadedAt time.Time

	minYear  int
	maxYear  int
	hasYears bool
}

// NewStore builds an immutable store over the given tables. Year bounds
// are computed once here so query handlers can default their range
// without rescanning the dataset.
func NewStore(incidents []domain.IncidentRecord, stateLaws []domain.StateLawRecord) *Store {
	s := &Store{
		incidents: incidents,
		stateLaws: stateLaws,
		loadedAt:  domain.Now(),
	}
	s.minYear, s.maxYear, s.hasYears = domain.YearBounds(incidents)
	return s
}

// Incidents returns the normalized incident table.
func (s *Store) Incidents() []domain.IncidentRecord {
	return s.incidents
}

// StateLaws returns the state-law scorecard table.
func (s *Store) StateLaws() []domain.StateLawRecord {
	return s.stateLaws
}

// LoadedAt reports when the store was built.
func (s *Store) LoadedAt() time.Time {
	return s.loadedAt
}

// YearBounds reports the minimum and maximum incident years present in
// the dataset. ok is false when no incident carries a year.
func (s *Store) YearBounds() (minYear, maxYear int, ok bool) {
	return s.minYear, s.maxYear, s.hasYears
}
