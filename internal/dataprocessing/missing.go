package dataprocessing

import (
	"sort"
	"strconv"

	"indicli/internal/config"
	apperrors "indicli/internal/errors"
	"indicli/pkg/contracts/domain"
)

// ApplyStrategy applies the configured missing-value policy to a canonical
// dataset. Series-scoped strategies (forward_fill, interpolate) operate
// within each (country, indicator) series sorted by year; mean_fill uses the
// (indicator, year) cross-section. The returned slice is a new allocation;
// the input is never mutated. The second return counts filled values per
// indicator code.
func ApplyStrategy(records []domain.CanonicalRecord, strategy string) ([]domain.CanonicalRecord, map[string]int, error) {
	switch strategy {
	case config.StrategyDrop:
		return dropMissing(records), map[string]int{}, nil
	case config.StrategyForwardFill:
		return fillSeries(records, forwardFill)
	case config.StrategyInterpolate:
		return fillSeries(records, interpolate)
	case config.StrategyMeanFill:
		return meanFill(records)
	default:
		return nil, nil, apperrors.NewInvalidParameterError("missing_value_strategy", strategy)
	}
}

func dropMissing(records []domain.CanonicalRecord) []domain.CanonicalRecord {
	out := make([]domain.CanonicalRecord, 0, len(records))
	for _, r := range records {
		if r.HasValue() {
			out = append(out, r)
		}
	}
	return out
}

// fillSeries groups records into (country, indicator) series, sorts each by
// year and lets fill rewrite the value column.
func fillSeries(records []domain.CanonicalRecord, fill func([]*float64) []*float64) ([]domain.CanonicalRecord, map[string]int, error) {
	out := make([]domain.CanonicalRecord, len(records))
	copy(out, records)

	groups := make(map[string][]int)
	for i, r := range out {
		key := r.CountryISO3 + "|" + r.IndicatorCode
		groups[key] = append(groups[key], i)
	}

	filled := make(map[string]int)
	for _, idxs := range groups {
		sort.Slice(idxs, func(a, b int) bool { return out[idxs[a]].Year < out[idxs[b]].Year })

		values := make([]*float64, len(idxs))
		for j, i := range idxs {
			values[j] = out[i].Value
		}

		result := fill(values)
		for j, i := range idxs {
			if out[i].Value == nil && result[j] != nil {
				filled[out[i].IndicatorCode]++
			}
			out[i].Value = result[j]
		}
	}

	return out, filled, nil
}

// forwardFill replaces each nil with the nearest earlier non-nil value.
// Leading nils remain nil.
func forwardFill(values []*float64) []*float64 {
	out := make([]*float64, len(values))
	var last *float64
	for i, v := range values {
		if v != nil {
			last = v
			out[i] = v
			continue
		}
		if last != nil {
			filled := *last
			out[i] = &filled
		}
	}
	return out
}

// interpolate linearly fills interior gaps between the nearest non-nil
// neighbors. Nils at the series boundaries remain nil.
func interpolate(values []*float64) []*float64 {
	out := make([]*float64, len(values))
	copy(out, values)

	prev := -1
	for i, v := range values {
		if v == nil {
			continue
		}
		if prev >= 0 && i-prev > 1 {
			step := (*v - *values[prev]) / float64(i-prev)
			for j := prev + 1; j < i; j++ {
				filled := *values[prev] + step*float64(j-prev)
				out[j] = &filled
			}
		}
		prev = i
	}

	return out
}

// meanFill replaces each nil with the mean of non-nil values in the same
// (indicator, year) cross-section. Cells in an all-nil cross-section stay
// nil.
func meanFill(records []domain.CanonicalRecord) ([]domain.CanonicalRecord, map[string]int, error) {
	out := make([]domain.CanonicalRecord, len(records))
	copy(out, records)

	type cell struct {
		sum   float64
		count int
	}
	sections := make(map[string]*cell)
	sectionKey := func(r domain.CanonicalRecord) string {
		return r.IndicatorCode + "|" + strconv.Itoa(r.Year)
	}

	for _, r := range out {
		if !r.HasValue() {
			continue
		}
		key := sectionKey(r)
		c, ok := sections[key]
		if !ok {
			c = &cell{}
			sections[key] = c
		}
		c.sum += *r.Value
		c.count++
	}

	filled := make(map[string]int)
	for i, r := range out {
		if r.HasValue() {
			continue
		}
		if c, ok := sections[sectionKey(r)]; ok && c.count > 0 {
			mean := c.sum / float64(c.count)
			out[i].Value = &mean
			filled[r.IndicatorCode]++
		}
	}

	return out, filled, nil
}
