package analytics

import (
	"indicli/pkg/contracts/domain"
)

// rollingAverage computes a trailing mean over the last window consecutive
// years of each (country, indicator) series. A year gets a value only when
// every year in [y-window+1, y] is present with a value; otherwise the cell
// is nil rather than a silently partial average.
func rollingAverage(records []domain.CanonicalRecord, window int) []domain.AggregateRecord {
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
				Metric:          domain.MetricRollingAvg,
				Value:           trailingMean(byYear, r.Year, window),
			})
		}
	}

	return out
}

func trailingMean(byYear map[int]*float64, year, window int) *float64 {
	sum := 0.0
	for y := year - window + 1; y <= year; y++ {
		v, ok := byYear[y]
		if !ok || v == nil {
			return nil
		}
		sum += *v
	}
	mean := sum / float64(window)
	return &mean
}
