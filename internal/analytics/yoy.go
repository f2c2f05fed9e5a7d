package analytics

import (
	"indicli/pkg/contracts/domain"
)

// yearOverYear computes the percentage change versus the previous year
// within each (country, indicator) series. The cell is nil when the
// previous year is absent, has no value, or is zero. Null over infinity.
func yearOverYear(records []domain.CanonicalRecord) []domain.AggregateRecord {
	out := make([]domain.AggregateRecord, 0, len(records))

	for _, series := range groupSeries(records) {
		byYear := make(map[int]*float64, len(series))
		for _, r := range series {
			byYear[r.Year] = r.Value
		}

		for _, r := range series {
			out = append(out, domain.AggregateRecord{
				RegionOrCountry: r.CountryISO3,
				IndicatorCode:   r.IndicatorCode,
				Year:            r.Year,
				Metric:          domain.MetricYoYPct,
				Value:           yoyChange(byYear, r.Year, r.Value),
			})
		}
	}

	return out
}

func yoyChange(byYear map[int]*float64, year int, current *float64) *float64 {
	if current == nil {
		return nil
	}
	prev, ok := byYear[year-1]
	if !ok || prev == nil || *prev == 0 {
		return nil
	}
	pct := (*current - *prev) / *prev * 100
	return &pct
}
