package domain

import "fmt"

// Metric identifies the incident column a map view encodes visually.
// Selecting a metric never changes which rows a query returns, only which
// column the presentation layer reads for marker size or color.
type Metric string

const (
	MetricTotalVictims   Metric = "total_victims"
	MetricVictimsKilled  Metric = "victims_killed"
	MetricVictimsInjured Metric = "victims_injured"
)

// ParseMetric validates a metric name from an API request or profile.
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case MetricTotalVictims, MetricVictimsKilled, MetricVictimsInjured:
		return Metric(s), nil
	default:
		return "", fmt.Errorf("unknown metric %q", s)
	}
}

// YearRange bounds a filter query, inclusive on both ends. Min greater than
// Max selects nothing.
type YearRange struct {
	Min int
	Max int
}

// QueryResult pairs a filtered subset with its count and the metric
// selections the presentation layer uses for visual encoding. Count always
// equals len(Incidents), so a "Showing N incidents" caption renders straight
// from it.
type QueryResult struct {
	Incidents   []IncidentRecord `json:"incidents"`
	Count       int              `json:"count"`
	SizeMetric  Metric           `json:"size_metric"`
	ColorMetric Metric           `json:"color_metric"`
}

// Filter returns the records whose Year falls inside years. Records without
// a year are always excluded. The metric selectors are validated and echoed
// back; they never re-filter rows. Filter is pure, deterministic, and
// preserves input order.
func Filter(records []IncidentRecord, years YearRange, sizeMetric, colorMetric Metric) (QueryResult, error) {
	if _, err := ParseMetric(string(sizeMetric)); err != nil {
		return QueryResult{}, fmt.Errorf("size metric: %w", err)
	}
	if _, err := ParseMetric(string(colorMetric)); err != nil {
		return QueryResult{}, fmt.Errorf("color metric: %w", err)
	}

	subset := make([]IncidentRecord, 0, len(records))
	for _, rec := range records {
		if rec.Year == nil {
			continue
		}
		if *rec.Year < years.Min || *rec.Year > years.Max {
			continue
		}
		subset = append(subset, rec)
	}

	return QueryResult{
		Incidents:   subset,
		Count:       len(subset),
		SizeMetric:  sizeMetric,
		ColorMetric: colorMetric,
	}, nil
}

// YearBounds reports the smallest and largest year present in records; the
// UI derives its slider bounds from them. ok is false when no record carries
// a year.
func YearBounds(records []IncidentRecord) (min, max int, ok bool) {
	for _, rec := range records {
		if rec.Year == nil {
			continue
		}
		y := *rec.Year
		if !ok {
			min, max, ok = y, y, true
			continue
		}
		if y < min {
			min = y
		}
		if y > max {
			max = y
		}
	}
	return min, max, ok
}
