// Package domain models mass-shooting incident data and the pure operations
// the dashboard pipeline runs over it.
//
// # Data Sources
//
// Incident rows come from a hand-maintained CSV export with columns
// "Incident ID", "Incident Date", "State", "City Or County", "Address",
// "Victims Killed", and "Victims Injured", plus coordinate columns once the
// export has been geocoded. State-law rows come from a legislative scorecard
// CSV keyed by state name, carrying a 0-100 law-strength score and a gun
// death rate per 100k residents.
//
// # Dataset Conventions
//
// Dates:
//
//	Free-text calendar dates, e.g. "March 3, 2022" or "3/3/22". The year is
//	the first run of exactly four digits in the text; a run of three or five
//	digits never matches. Dates with no such run yield no year, and a record
//	without a year is excluded by every year-range filter.
//
// Coordinates:
//
//	Geocoded exports carry separate numeric latitude and longitude columns.
//	Older artifacts instead carry a single combined column holding
//	"<longitude>,<latitude>" text (the upstream export mislabeled the
//	geocoder response columns). [Normalize] splits the combined form. A
//	record still lacking either coordinate after normalization is dropped:
//	it can never be placed on a map.
//
// Victim counts:
//
//	Non-negative integers. A count that fails to parse is missing, not zero.
//	TotalVictims is the sum of killed and injured and propagates missing
//	operands instead of coercing them ([Normalize]).
//
// # Missing Values
//
// Optional numeric fields are pointers; nil marks a value the source file did
// not carry or could not parse. Free-text fields use "" for missing. Derived
// fields (Year, TotalVictims, FullLocation, Latitude, Longitude) are
// recomputed by [Normalize] and never independently settable.
package domain
