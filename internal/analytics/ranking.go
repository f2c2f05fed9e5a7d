package analytics

import (
	"sort"

	"indicli/pkg/contracts/domain"
)

// rankByYear assigns competition ranks per (indicator, year): countries are
// ordered by value descending, tied values share a rank and the next rank
// skips the tied count. Countries without a value for that year receive no
// rank row.
func rankByYear(records []domain.CanonicalRecord) []domain.AggregateRecord {
	type cell struct {
		iso3  string
		value float64
	}
	type groupID struct {
		indicator string
		year      int
	}
	groups := make(map[groupID][]cell)

	for _, r := range records {
		if !r.HasValue() {
			continue
		}
		id := groupID{indicator: r.IndicatorCode, year: r.Year}
		groups[id] = append(groups[id], cell{iso3: r.CountryISO3, value: *r.Value})
	}

	out := make([]domain.AggregateRecord, 0, len(records))
	for id, cells := range groups {
		sort.Slice(cells, func(i, j int) bool {
			if cells[i].value != cells[j].value {
				return cells[i].value > cells[j].value
			}
			return cells[i].iso3 < cells[j].iso3
		})

		rank := 0
		for i, c := range cells {
			if i == 0 || cells[i].value != cells[i-1].value {
				rank = i + 1
			}
			out = append(out, domain.AggregateRecord{
				RegionOrCountry: c.iso3,
				IndicatorCode:   id.indicator,
				Year:            id.year,
				Metric:          domain.MetricRank,
				Value:           domain.Ptr(float64(rank)),
			})
		}
	}

	return out
}
