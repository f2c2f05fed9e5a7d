package services

import (
	"context"
	"log/slog"
	"time"

	"indicli/internal/analytics"
	"indicli/internal/config"
	"indicli/internal/dataprocessing"
	"indicli/internal/forecast"
	"indicli/internal/infrastructure"
	"indicli/internal/session"
	"indicli/internal/validation"
	"indicli/pkg/contracts/domain"
)

// IndicatorService is the single entry point for the pipeline: loading
// datasets, querying the canonical table, deriving features, forecasting and
// building KPI summaries.
type IndicatorService struct {
	cfg       *config.Config
	logger    *slog.Logger
	metrics   *infrastructure.Metrics
	validator *validation.FileValidator
	loader    *dataprocessing.Loader
	session   *session.Session
}

// NewIndicatorService builds the full pipeline behind one facade.
func NewIndicatorService(cfg *config.Config, logger *slog.Logger, metrics *infrastructure.Metrics) *IndicatorService {
	if logger == nil {
		logger = slog.Default()
	}
	engine := analytics.NewEngine(logger)
	return &IndicatorService{
		cfg:       cfg,
		logger:    logger.With(slog.String("component", "indicator_service")),
		metrics:   metrics,
		validator: validation.NewFileValidator(logger),
		loader:    dataprocessing.NewLoader(logger),
		session:   session.New(engine, logger, metrics),
	}
}

// LoadFromFile validates and loads one wide-format input file and, on
// success, swaps it in as the session's canonical snapshot. On failure the
// previous snapshot stays in place untouched.
func (s *IndicatorService) LoadFromFile(ctx context.Context, path string) (*dataprocessing.LoadReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.LoadsTotal.Inc()
	}
	start := time.Now()

	report, err := s.load(path)
	if err != nil {
		if s.metrics != nil {
			s.metrics.LoadFailures.Inc()
		}
		logger := s.logger
		if traceID := infrastructure.GetTraceID(ctx); traceID != "" {
			logger = logger.With(slog.String("trace_id", traceID))
		}
		logger.Error("dataset load failed",
			slog.String("source", path),
			slog.String("error", err.Error()))
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.LoadDuration.Observe(time.Since(start).Seconds())
		s.metrics.CountryWarnings.Add(float64(report.ExcludedRows))
	}

	return report, nil
}

func (s *IndicatorService) load(path string) (*dataprocessing.LoadReport, error) {
	if err := s.validator.ValidateInputFile(path); err != nil {
		return nil, err
	}

	bounds := make(map[string]dataprocessing.ValueRange, len(s.cfg.Pipeline.ValueRanges))
	for code, r := range s.cfg.Pipeline.ValueRanges {
		bounds[code] = dataprocessing.ValueRange{Min: r.Min, Max: r.Max}
	}

	records, report, err := s.loader.Load(path, dataprocessing.LoadOptions{
		Strategy: s.cfg.Pipeline.MissingValueStrategy,
		Bounds:   bounds,
	})
	if err != nil {
		return nil, err
	}

	s.session.Replace(records, report)
	return report, nil
}

// Canonical returns the current snapshot filtered by countries, indicators
// and year range.
func (s *IndicatorService) Canonical(filter analytics.Filter) ([]domain.CanonicalRecord, string, error) {
	records, version, ok := s.session.Snapshot()
	if !ok {
		return nil, "", noDatasetErr()
	}
	return filter.Apply(records), version, nil
}

// Aggregates returns the derived feature table. A zero window means the
// configured default. Region rollups exclude World Bank aggregate
// pseudo-countries.
func (s *IndicatorService) Aggregates(window int) ([]domain.AggregateRecord, error) {
	if window <= 0 {
		window = s.cfg.Pipeline.RollingWindow
	}
	return s.session.Derive(analytics.Options{
		RollingWindow: window,
		Regions:       s.countryRegions(),
	})
}

// Forecast predicts one (country, indicator) series. Empty method and zero
// horizon or alpha fall back to the configured defaults.
func (s *IndicatorService) Forecast(iso3, indicator, method string, horizon int, alpha float64) ([]domain.ForecastResult, error) {
	if method == "" {
		method = s.cfg.Pipeline.ForecastMethod
	}
	if method == "" {
		method = config.DefaultForecastMethod
	}
	if horizon == 0 {
		horizon = s.cfg.Pipeline.ForecastHorizon
	}
	if alpha == 0 {
		alpha = s.cfg.Pipeline.SmoothingAlpha
	}
	return s.session.Forecast(iso3, indicator, domain.ForecastMethod(method), horizon, forecast.Params{Alpha: alpha})
}

// Summary is the KPI view of the current snapshot for one reference year.
type Summary struct {
	Year     int                      `json:"year"`
	KPIs     []domain.KPI             `json:"kpis"`
	Snapshot []domain.SnapshotRecord  `json:"snapshot"`
	World    []domain.AggregateRecord `json:"world,omitempty"`
}

// Summarize builds KPIs, the latest-year snapshot and, when a weight
// indicator is configured, population style weighted world aggregates. A
// zero year means the most recent year with data.
func (s *IndicatorService) Summarize(year int, countries []string) (*Summary, error) {
	records, _, ok := s.session.Snapshot()
	if !ok {
		return nil, noDatasetErr()
	}

	if year == 0 {
		year = latestYear(records)
	}

	kpis, err := analytics.Summarize(records, year, countries, s.aggregations())
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Year:     year,
		KPIs:     kpis,
		Snapshot: analytics.LatestSnapshot(records),
	}
	if weight := s.cfg.Pipeline.WeightIndicator; weight != "" {
		summary.World = analytics.WeightedAggregate(records, weight)
	}

	return summary, nil
}

// Report returns the load report of the current snapshot, nil before the
// first load.
func (s *IndicatorService) Report() *dataprocessing.LoadReport {
	return s.session.Report()
}

// Version returns the snapshot version token, empty before the first load.
func (s *IndicatorService) Version() string {
	return s.session.Version()
}

// CacheStats exposes the memoization cache sizes for health reporting.
func (s *IndicatorService) CacheStats() session.CacheStats {
	return s.session.Stats()
}

// countryRegions returns the rollup mapping without aggregate
// pseudo-countries, so the European Union row is never summed into a region
// alongside its members.
func (s *IndicatorService) countryRegions() map[string]string {
	regions := s.loader.Resolver().RegionMap()
	for code, region := range regions {
		if region == "Aggregates" {
			delete(regions, code)
		}
	}
	return regions
}

// aggregations maps the weight indicator to sum so population style totals
// read naturally; everything else defaults to mean.
func (s *IndicatorService) aggregations() map[string]string {
	if s.cfg.Pipeline.WeightIndicator == "" {
		return nil
	}
	return map[string]string{s.cfg.Pipeline.WeightIndicator: analytics.AggSum}
}

func latestYear(records []domain.CanonicalRecord) int {
	year := 0
	for _, r := range records {
		if r.HasValue() && r.Year > year {
			year = r.Year
		}
	}
	return year
}
