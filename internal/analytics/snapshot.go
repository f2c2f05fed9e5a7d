package analytics

import (
	"sort"

	"indicli/pkg/contracts/domain"
)

// LatestSnapshot returns, for each (country, indicator), the most recent
// year that has a value. Pairs with no valued year at all are omitted.
func LatestSnapshot(records []domain.CanonicalRecord) []domain.SnapshotRecord {
	latest := make(map[string]domain.SnapshotRecord)

	for _, r := range records {
		if !r.HasValue() {
			continue
		}
		key := r.CountryISO3 + "|" + r.IndicatorCode
		if cur, ok := latest[key]; ok && cur.Year >= r.Year {
			continue
		}
		latest[key] = domain.SnapshotRecord{
			CountryISO3:   r.CountryISO3,
			CountryName:   r.CountryName,
			IndicatorCode: r.IndicatorCode,
			Year:          r.Year,
			Value:         *r.Value,
		}
	}

	out := make([]domain.SnapshotRecord, 0, len(latest))
	for _, s := range latest {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CountryISO3 != out[j].CountryISO3 {
			return out[i].CountryISO3 < out[j].CountryISO3
		}
		return out[i].IndicatorCode < out[j].IndicatorCode
	})

	return out
}
