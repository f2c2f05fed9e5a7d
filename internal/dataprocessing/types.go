package dataprocessing

import "fmt"

// RawWideRecord is one parsed row of a wide-format input table: identifying
// fields plus one value per year column. It exists only between parsing and
// reshaping and never leaves the loader.
type RawWideRecord struct {
	CountryName   string
	CountryCode   string
	IndicatorCode string
	IndicatorName string
	Values        map[int]*float64
}

// ValueRange is an optional plausibility bound for one indicator. Violations
// are reported as warnings, never as errors.
type ValueRange struct {
	Min float64
	Max float64
}

// Contains reports whether v lies within the bound.
func (r ValueRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// LoadOptions controls a single load cycle.
type LoadOptions struct {
	// Strategy is one of the config.Strategy* constants. Empty means
	// forward_fill.
	Strategy string
	// Bounds holds optional per-indicator plausibility ranges checked after
	// cleaning.
	Bounds map[string]ValueRange
}

// IndicatorStats summarizes coverage of one indicator after cleaning.
type IndicatorStats struct {
	Total   int `json:"total"`
	Missing int `json:"missing"`
	Filled  int `json:"filled"`
}

// LoadReport records what a load did: row accounting, standardization
// warnings and plausibility findings. It ships with every successful load.
type LoadReport struct {
	Source              string                    `json:"source"`
	Strategy            string                    `json:"strategy"`
	RawRows             int                       `json:"raw_rows"`
	YearColumns         int                       `json:"year_columns"`
	LongRows            int                       `json:"long_rows"`
	CanonicalRows       int                       `json:"canonical_rows"`
	ExcludedRows        int                       `json:"excluded_rows"`
	UnknownCountries    []string                  `json:"unknown_countries,omitempty"`
	DuplicatesCollapsed int                       `json:"duplicates_collapsed"`
	Indicators          map[string]IndicatorStats `json:"indicators"`
	RangeWarnings       []string                  `json:"range_warnings,omitempty"`
}

// Summary returns a one-line human-readable account of the load.
func (r *LoadReport) Summary() string {
	return fmt.Sprintf("%d raw rows x %d year columns -> %d canonical rows (%d excluded, %d unknown countries, strategy %s)",
		r.RawRows, r.YearColumns, r.CanonicalRows, r.ExcludedRows, len(r.UnknownCountries), r.Strategy)
}
