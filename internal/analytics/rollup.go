package analytics

import (
	"indicli/pkg/contracts/domain"
)

// regionRollups computes sum and mean per (region, indicator, year) over the
// countries the injected mapping assigns to a region. Records without a
// value or without a region entry do not contribute.
func regionRollups(records []domain.CanonicalRecord, regions map[string]string) []domain.AggregateRecord {
	if len(regions) == 0 {
		return nil
	}

	type groupID struct {
		region    string
		indicator string
		year      int
	}
	type acc struct {
		sum   float64
		count int
	}
	groups := make(map[groupID]*acc)

	for _, r := range records {
		if !r.HasValue() {
			continue
		}
		region, ok := regions[r.CountryISO3]
		if !ok || region == "" {
			continue
		}
		id := groupID{region: region, indicator: r.IndicatorCode, year: r.Year}
		a, ok := groups[id]
		if !ok {
			a = &acc{}
			groups[id] = a
		}
		a.sum += *r.Value
		a.count++
	}

	out := make([]domain.AggregateRecord, 0, len(groups)*2)
	for id, a := range groups {
		out = append(out,
			domain.AggregateRecord{
				RegionOrCountry: id.region,
				IndicatorCode:   id.indicator,
				Year:            id.year,
				Metric:          domain.MetricSum,
				Value:           domain.Ptr(a.sum),
			},
			domain.AggregateRecord{
				RegionOrCountry: id.region,
				IndicatorCode:   id.indicator,
				Year:            id.year,
				Metric:          domain.MetricMean,
				Value:           domain.Ptr(a.sum / float64(a.count)),
			})
	}

	return out
}
