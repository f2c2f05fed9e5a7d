package domain

import "fmt"

// CanonicalRecord is one long-format observation of a development indicator
// for a single country and year. The tuple (CountryISO3, IndicatorCode, Year)
// is unique across a cleaned dataset. Value is nil when the observation is
// missing and the configured missing-value strategy left the gap in place.
type CanonicalRecord struct {
	CountryISO3   string   `json:"country_iso3" validate:"required,len=3"`
	CountryName   string   `json:"country_name"`
	IndicatorCode string   `json:"indicator_code" validate:"required"`
	IndicatorName string   `json:"indicator_name"`
	Year          int      `json:"year" validate:"required,min=1800,max=2200"`
	Value         *float64 `json:"value"`
}

// Key returns the canonical uniqueness key for the record.
func (r CanonicalRecord) Key() string {
	return fmt.Sprintf("%s|%s|%d", r.CountryISO3, r.IndicatorCode, r.Year)
}

// HasValue reports whether the observation carries a value.
func (r CanonicalRecord) HasValue() bool {
	return r.Value != nil
}

// Float returns the value, or 0 when missing. Callers must check HasValue
// first when the distinction matters.
func (r CanonicalRecord) Float() float64 {
	if r.Value == nil {
		return 0
	}
	return *r.Value
}

// Ptr is a convenience for building nullable values in literals and tests.
func Ptr(v float64) *float64 {
	return &v
}
