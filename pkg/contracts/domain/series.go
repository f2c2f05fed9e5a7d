package domain

import "sort"

// Observation is one (year, value) point of a gap-free series.
type Observation struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// Series is the cleaned, strictly year-ordered history of one
// (country, indicator) pair. Forecasting requires it to be gap-free, which
// the loader's missing-value handling guarantees upstream.
type Series struct {
	CountryISO3   string        `json:"country_iso3"`
	IndicatorCode string        `json:"indicator_code"`
	Points        []Observation `json:"points"`
}

// Len returns the number of observations.
func (s Series) Len() int {
	return len(s.Points)
}

// LastYear returns the final observed year, or 0 for an empty series.
func (s Series) LastYear() int {
	if len(s.Points) == 0 {
		return 0
	}
	return s.Points[len(s.Points)-1].Year
}

// Sorted reports whether years are strictly increasing.
func (s Series) Sorted() bool {
	return sort.SliceIsSorted(s.Points, func(i, j int) bool {
		return s.Points[i].Year < s.Points[j].Year
	}) && !s.hasDuplicateYears()
}

func (s Series) hasDuplicateYears() bool {
	for i := 1; i < len(s.Points); i++ {
		if s.Points[i].Year == s.Points[i-1].Year {
			return true
		}
	}
	return false
}

// SeriesFromRecords extracts the gap-free series for one (country, indicator)
// pair from canonical records, skipping missing values and sorting by year.
func SeriesFromRecords(records []CanonicalRecord, iso3, indicator string) Series {
	s := Series{CountryISO3: iso3, IndicatorCode: indicator}
	for _, r := range records {
		if r.CountryISO3 != iso3 || r.IndicatorCode != indicator || !r.HasValue() {
			continue
		}
		s.Points = append(s.Points, Observation{Year: r.Year, Value: *r.Value})
	}
	sort.Slice(s.Points, func(i, j int) bool { return s.Points[i].Year < s.Points[j].Year })
	return s
}
