package analytics

import (
	"sort"

	apperrors "indicli/internal/errors"
	"indicli/pkg/contracts/domain"
)

// Aggregation names accepted by Summarize.
const (
	AggMean   = "mean"
	AggMedian = "median"
	AggSum    = "sum"
)

// WeightedAggregate computes, per (indicator, year), the mean over all
// countries weighted by the value of weightIndicator for the same country
// and year. Countries missing either value drop out of that cell. The weight
// indicator itself is not aggregated. Rows carry the "World" region key.
func WeightedAggregate(records []domain.CanonicalRecord, weightIndicator string) []domain.AggregateRecord {
	type key struct {
		country string
		year    int
	}
	weights := make(map[key]float64)
	for _, r := range records {
		if r.IndicatorCode == weightIndicator && r.HasValue() {
			weights[key{country: r.CountryISO3, year: r.Year}] = *r.Value
		}
	}
	if len(weights) == 0 {
		return nil
	}

	type groupID struct {
		indicator string
		year      int
	}
	type acc struct {
		weighted float64
		weight   float64
	}
	groups := make(map[groupID]*acc)

	for _, r := range records {
		if r.IndicatorCode == weightIndicator || !r.HasValue() {
			continue
		}
		w, ok := weights[key{country: r.CountryISO3, year: r.Year}]
		if !ok || w <= 0 {
			continue
		}
		id := groupID{indicator: r.IndicatorCode, year: r.Year}
		a, ok := groups[id]
		if !ok {
			a = &acc{}
			groups[id] = a
		}
		a.weighted += *r.Value * w
		a.weight += w
	}

	out := make([]domain.AggregateRecord, 0, len(groups))
	for id, a := range groups {
		out = append(out, domain.AggregateRecord{
			RegionOrCountry: "World",
			IndicatorCode:   id.indicator,
			Year:            id.year,
			Metric:          domain.MetricMean,
			Value:           domain.Ptr(a.weighted / a.weight),
		})
	}
	sortAggregates(out)

	return out
}

// Summarize builds per-indicator KPIs for a reference year: the aggregated
// value over the country selection plus the percentage change versus the
// previous year's aggregate. An empty country filter means all countries.
// Aggregations maps indicator codes to mean, median or sum; indicators
// without an entry use mean. Change is nil when the previous year has no
// data or aggregates to zero.
func Summarize(records []domain.CanonicalRecord, year int, countries []string, aggregations map[string]string) ([]domain.KPI, error) {
	selected := make(map[string]bool, len(countries))
	for _, c := range countries {
		selected[c] = true
	}

	byIndicatorYear := make(map[string]map[int][]float64)
	for _, r := range records {
		if !r.HasValue() {
			continue
		}
		if len(selected) > 0 && !selected[r.CountryISO3] {
			continue
		}
		years, ok := byIndicatorYear[r.IndicatorCode]
		if !ok {
			years = make(map[int][]float64)
			byIndicatorYear[r.IndicatorCode] = years
		}
		years[r.Year] = append(years[r.Year], *r.Value)
	}

	out := make([]domain.KPI, 0, len(byIndicatorYear))
	for indicator, years := range byIndicatorYear {
		agg := aggregations[indicator]
		if agg == "" {
			agg = AggMean
		}

		current, err := aggregate(years[year], agg)
		if err != nil {
			return nil, err
		}

		kpi := domain.KPI{
			IndicatorCode: indicator,
			Year:          year,
			Aggregation:   agg,
			Value:         current,
		}
		if current != nil {
			prev, err := aggregate(years[year-1], agg)
			if err != nil {
				return nil, err
			}
			if prev != nil && *prev != 0 {
				kpi.Change = domain.Ptr((*current - *prev) / *prev * 100)
			}
		}
		out = append(out, kpi)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].IndicatorCode < out[j].IndicatorCode })

	return out, nil
}

func aggregate(values []float64, agg string) (*float64, error) {
	if len(values) == 0 {
		return nil, nil
	}

	switch agg {
	case AggSum:
		sum := 0.0
		for _, v := range values {
			sum += v
		}
		return &sum, nil
	case AggMean:
		sum := 0.0
		for _, v := range values {
			sum += v
		}
		mean := sum / float64(len(values))
		return &mean, nil
	case AggMedian:
		sorted := make([]float64, len(values))
		copy(sorted, values)
		sort.Float64s(sorted)
		mid := len(sorted) / 2
		var median float64
		if len(sorted)%2 == 0 {
			median = (sorted[mid-1] + sorted[mid]) / 2
		} else {
			median = sorted[mid]
		}
		return &median, nil
	default:
		return nil, apperrors.NewInvalidParameterError("aggregation", agg)
	}
}
