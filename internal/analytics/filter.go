package analytics

import (
	"indicli/pkg/contracts/domain"
)

// Filter selects canonical records by country, indicator and year range.
// Empty slices and zero bounds mean no restriction on that dimension.
type Filter struct {
	Countries  []string
	Indicators []string
	YearFrom   int
	YearTo     int
}

// Apply returns the records matching every set dimension, preserving order.
func (f Filter) Apply(records []domain.CanonicalRecord) []domain.CanonicalRecord {
	countries := toSet(f.Countries)
	indicators := toSet(f.Indicators)

	out := make([]domain.CanonicalRecord, 0, len(records))
	for _, r := range records {
		if len(countries) > 0 && !countries[r.CountryISO3] {
			continue
		}
		if len(indicators) > 0 && !indicators[r.IndicatorCode] {
			continue
		}
		if f.YearFrom != 0 && r.Year < f.YearFrom {
			continue
		}
		if f.YearTo != 0 && r.Year > f.YearTo {
			continue
		}
		out = append(out, r)
	}

	return out
}

func toSet(items []string) map[string]bool {
	if len(items) == 0 {
		return nil
	}
	set := make(map[string]bool, len(items))
	for _, s := range items {
		set[s] = true
	}
	return set
}
