package analytics

import (
	"log/slog"
	"sort"

	"indicli/internal/config"
	apperrors "indicli/internal/errors"
	"indicli/pkg/contracts/domain"
)

// Options controls a single Derive pass.
type Options struct {
	// RollingWindow is the trailing window size W. Zero means the
	// configured default.
	RollingWindow int

	// Regions maps ISO3 codes to a region key for rollups. Countries
	// absent from the map are excluded from rollups only; their
	// per-country metrics are still produced.
	Regions map[string]string
}

// Engine computes derived metrics from canonical records.
type Engine struct {
	logger *slog.Logger
}

// NewEngine creates a feature engine.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger.With(slog.String("component", "analytics"))}
}

// Derive computes the full feature table: rank, rolling_avg and yoy_pct per
// country plus sum and mean rollups per region. Input records violating
// canonical uniqueness indicate an upstream cleaning bug and abort with an
// INVARIANT_VIOLATION error.
func (e *Engine) Derive(records []domain.CanonicalRecord, opts Options) ([]domain.AggregateRecord, error) {
	if err := checkCanonicalUniqueness(records); err != nil {
		return nil, err
	}

	window := opts.RollingWindow
	if window <= 0 {
		window = config.DefaultRollingWindow
	}

	out := make([]domain.AggregateRecord, 0, len(records)*4)
	out = append(out, rankByYear(records)...)
	out = append(out, rollingAverage(records, window)...)
	out = append(out, yearOverYear(records)...)
	out = append(out, regionRollups(records, opts.Regions)...)

	sortAggregates(out)

	e.logger.Debug("feature table derived",
		slog.Int("canonical_rows", len(records)),
		slog.Int("aggregate_rows", len(out)),
		slog.Int("rolling_window", window))

	return out, nil
}

func checkCanonicalUniqueness(records []domain.CanonicalRecord) error {
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		key := r.Key()
		if seen[key] {
			return apperrors.NewInvariantError("duplicate canonical tuple " + key)
		}
		seen[key] = true
	}
	return nil
}

func sortAggregates(out []domain.AggregateRecord) {
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.IndicatorCode != b.IndicatorCode {
			return a.IndicatorCode < b.IndicatorCode
		}
		if a.Metric != b.Metric {
			return a.Metric < b.Metric
		}
		if a.RegionOrCountry != b.RegionOrCountry {
			return a.RegionOrCountry < b.RegionOrCountry
		}
		return a.Year < b.Year
	})
}

// groupSeries groups canonical records into (country, indicator) series with
// year-sorted observations. Shared by the per-country metrics.
func groupSeries(records []domain.CanonicalRecord) map[string][]domain.CanonicalRecord {
	groups := make(map[string][]domain.CanonicalRecord)
	for _, r := range records {
		key := r.CountryISO3 + "|" + r.IndicatorCode
		groups[key] = append(groups[key], r)
	}
	for _, g := range groups {
		sort.Slice(g, func(i, j int) bool { return g[i].Year < g[j].Year })
	}
	return groups
}
