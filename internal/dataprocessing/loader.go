package dataprocessing

import (
	"fmt"
	"log/slog"
	"sort"

	"indicli/internal/config"
	"indicli/pkg/contracts/domain"
)

// Loader turns a raw wide-format input file into the canonical long-format
// dataset. One Loader can serve many load cycles; it holds no per-load
// state.
type Loader struct {
	logger   *slog.Logger
	resolver *CountryResolver
}

// NewLoader creates a loader with the embedded country table.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:   logger.With(slog.String("component", "loader")),
		resolver: NewCountryResolver(),
	}
}

// Resolver exposes the country resolver so callers can reuse its region
// mapping for aggregate rollups.
func (l *Loader) Resolver() *CountryResolver {
	return l.resolver
}

// Load parses, reshapes and cleans the file at path. It returns the full
// canonical dataset and a report of what happened, or a DATA_FORMAT error
// and no dataset at all. Unknown countries reduce the output but never fail
// the load.
func (l *Loader) Load(path string, opts LoadOptions) ([]domain.CanonicalRecord, *LoadReport, error) {
	strategy := opts.Strategy
	if strategy == "" {
		strategy = config.DefaultMissingValueStrategy
	}

	report := &LoadReport{
		Source:     path,
		Strategy:   strategy,
		Indicators: make(map[string]IndicatorStats),
	}

	raw, years, err := ParseWide(path)
	if err != nil {
		return nil, nil, err
	}
	report.RawRows = len(raw)
	report.YearColumns = len(years)

	long := Reshape(raw, years)
	report.LongRows = len(long)

	canonical := l.standardize(long, report)
	canonical = l.dedupe(canonical, report)

	canonical, filled, err := ApplyStrategy(canonical, strategy)
	if err != nil {
		return nil, nil, err
	}

	sort.Slice(canonical, func(i, j int) bool {
		a, b := canonical[i], canonical[j]
		if a.CountryISO3 != b.CountryISO3 {
			return a.CountryISO3 < b.CountryISO3
		}
		if a.IndicatorCode != b.IndicatorCode {
			return a.IndicatorCode < b.IndicatorCode
		}
		return a.Year < b.Year
	})

	report.CanonicalRows = len(canonical)
	l.collectStats(canonical, filled, report)
	l.checkBounds(canonical, opts.Bounds, report)

	l.logger.Info("load completed",
		slog.String("source", path),
		slog.Int("raw_rows", report.RawRows),
		slog.Int("canonical_rows", report.CanonicalRows),
		slog.Int("excluded_rows", report.ExcludedRows),
		slog.String("strategy", strategy))

	return canonical, report, nil
}

// standardize resolves country identifiers to ISO3 and drops rows that
// cannot be resolved. Each excluded row is logged at Debug; the Warn is
// emitted once per distinct country label to keep the log readable.
func (l *Loader) standardize(rows []LongRow, report *LoadReport) []domain.CanonicalRecord {
	out := make([]domain.CanonicalRecord, 0, len(rows))
	unknown := make(map[string]bool)

	for _, row := range rows {
		iso3, ok := l.resolver.Resolve(row.CountryCode, row.CountryName)
		if !ok {
			report.ExcludedRows++
			label := row.CountryName
			if label == "" {
				label = row.CountryCode
			}
			l.logger.Debug("row excluded, country not standardized",
				slog.String("country", label),
				slog.String("indicator", row.IndicatorCode),
				slog.Int("year", row.Year))
			if !unknown[label] {
				unknown[label] = true
				l.logger.Warn("country not standardized, rows excluded",
					slog.String("country", label))
			}
			continue
		}

		name := row.CountryName
		if name == "" {
			name = l.resolver.NameOf(iso3)
		}

		out = append(out, domain.CanonicalRecord{
			CountryISO3:   iso3,
			CountryName:   name,
			IndicatorCode: row.IndicatorCode,
			IndicatorName: row.IndicatorName,
			Year:          row.Year,
			Value:         row.Value,
		})
	}

	for label := range unknown {
		report.UnknownCountries = append(report.UnknownCountries, label)
	}
	sort.Strings(report.UnknownCountries)

	return out
}

// dedupe enforces canonical uniqueness on (iso3, indicator, year). The first
// occurrence wins, matching the original pivot behavior; collapsed rows are
// counted in the report.
func (l *Loader) dedupe(records []domain.CanonicalRecord, report *LoadReport) []domain.CanonicalRecord {
	seen := make(map[string]bool, len(records))
	out := make([]domain.CanonicalRecord, 0, len(records))

	for _, r := range records {
		key := r.Key()
		if seen[key] {
			report.DuplicatesCollapsed++
			continue
		}
		seen[key] = true
		out = append(out, r)
	}

	if report.DuplicatesCollapsed > 0 {
		l.logger.Warn("duplicate canonical keys collapsed",
			slog.Int("count", report.DuplicatesCollapsed))
	}

	return out
}

func (l *Loader) collectStats(records []domain.CanonicalRecord, filled map[string]int, report *LoadReport) {
	for _, r := range records {
		stats := report.Indicators[r.IndicatorCode]
		stats.Total++
		if !r.HasValue() {
			stats.Missing++
		}
		report.Indicators[r.IndicatorCode] = stats
	}

	for code, count := range filled {
		stats := report.Indicators[code]
		stats.Filled = count
		report.Indicators[code] = stats
	}
}

// checkBounds flags values outside the configured plausibility ranges.
func (l *Loader) checkBounds(records []domain.CanonicalRecord, bounds map[string]ValueRange, report *LoadReport) {
	if len(bounds) == 0 {
		return
	}

	for _, r := range records {
		bound, ok := bounds[r.IndicatorCode]
		if !ok || !r.HasValue() {
			continue
		}
		if !bound.Contains(*r.Value) {
			report.RangeWarnings = append(report.RangeWarnings,
				fmt.Sprintf("%s %s %d: value %.4g outside [%g, %g]",
					r.CountryISO3, r.IndicatorCode, r.Year, *r.Value, bound.Min, bound.Max))
		}
	}

	if len(report.RangeWarnings) > 0 {
		l.logger.Warn("values outside plausibility bounds",
			slog.Int("count", len(report.RangeWarnings)))
	}
}
