package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"indicli/internal/analytics"
	"indicli/internal/config"
	apperrors "indicli/internal/errors"
	"indicli/internal/infrastructure"
	"indicli/pkg/contracts/domain"
)

const wideCSV = `Country Name,Country Code,Series Name,Series Code,2018 [YR2018],2019 [YR2019],2020 [YR2020]
Germany,DEU,GDP per capita,GDP,100,110,120
France,FRA,GDP per capita,GDP,200,..,240
Germany,DEU,Population,POP,80,81,82
France,FRA,Population,POP,20,21,22
`

func newTestService(t *testing.T) *IndicatorService {
	t.Helper()
	cfg := config.Default()
	cfg.Pipeline.WeightIndicator = "POP"
	metrics := infrastructure.NewMetrics(prometheus.NewRegistry())
	return NewIndicatorService(cfg, nil, metrics)
}

func loadTestData(t *testing.T, s *IndicatorService) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(wideCSV), 0o644))
	_, err := s.LoadFromFile(context.Background(), path)
	require.NoError(t, err)
}

func TestIndicatorService_LoadFromFile(t *testing.T) {
	s := newTestService(t)

	require.Empty(t, s.Version())
	loadTestData(t, s)

	require.NotEmpty(t, s.Version())
	report := s.Report()
	require.NotNil(t, report)
	assert.Equal(t, 4, report.RawRows)
	assert.Equal(t, 12, report.CanonicalRows)
}

func TestIndicatorService_LoadFailureKeepsSnapshot(t *testing.T) {
	s := newTestService(t)
	loadTestData(t, s)
	version := s.Version()

	bad := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("Country Name,Country Code,Series Code,2020\nGermany,DEU,GDP,oops\n"), 0o644))

	_, err := s.LoadFromFile(context.Background(), bad)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeDataFormat))

	// The failed load must not disturb the current snapshot.
	assert.Equal(t, version, s.Version())
	records, _, err := s.Canonical(analytics.Filter{})
	require.NoError(t, err)
	assert.Len(t, records, 12)
}

func TestIndicatorService_LoadRejectsMissingFile(t *testing.T) {
	s := newTestService(t)

	_, err := s.LoadFromFile(context.Background(), filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeDataFormat))
}

func TestIndicatorService_CanonicalFilter(t *testing.T) {
	s := newTestService(t)
	loadTestData(t, s)

	records, version, err := s.Canonical(analytics.Filter{
		Countries:  []string{"DEU"},
		Indicators: []string{"GDP"},
		YearFrom:   2019,
	})
	require.NoError(t, err)
	assert.Equal(t, s.Version(), version)
	require.Len(t, records, 2)
	for _, r := range records {
		assert.Equal(t, "DEU", r.CountryISO3)
		assert.Equal(t, "GDP", r.IndicatorCode)
		assert.GreaterOrEqual(t, r.Year, 2019)
	}
}

func TestIndicatorService_CanonicalBeforeLoad(t *testing.T) {
	s := newTestService(t)

	_, _, err := s.Canonical(analytics.Filter{})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
}

func TestIndicatorService_Aggregates(t *testing.T) {
	s := newTestService(t)
	loadTestData(t, s)

	out, err := s.Aggregates(0)
	require.NoError(t, err)
	require.NotEmpty(t, out)

	metrics := make(map[domain.Metric]bool)
	regions := make(map[string]bool)
	for _, a := range out {
		metrics[a.Metric] = true
		regions[a.RegionOrCountry] = true
	}
	assert.True(t, metrics[domain.MetricRank])
	assert.True(t, metrics[domain.MetricRollingAvg])
	assert.True(t, metrics[domain.MetricYoYPct])
	assert.True(t, metrics[domain.MetricSum])
	assert.True(t, regions["Europe & Central Asia"])
}

func TestIndicatorService_ForecastDefaults(t *testing.T) {
	s := newTestService(t)
	loadTestData(t, s)

	// Empty method and zero horizon fall back to configuration.
	out, err := s.Forecast("DEU", "GDP", "", 0, 0)
	require.NoError(t, err)
	require.Len(t, out, config.DefaultForecastHorizon)
	assert.Equal(t, domain.MethodLinearRegression, out[0].Method)
	assert.Equal(t, 2021, out[0].HorizonYear)
	// Exactly linear history.
	assert.InDelta(t, 130, out[0].PredictedValue, 1e-9)
}

func TestIndicatorService_ForecastBuiltinMethodFallback(t *testing.T) {
	cfg := config.Default()
	cfg.Pipeline.ForecastMethod = ""
	s := NewIndicatorService(cfg, nil, infrastructure.NewMetrics(prometheus.NewRegistry()))
	loadTestData(t, s)

	// With neither the request nor the configuration naming a method, the
	// application default applies.
	out, err := s.Forecast("DEU", "GDP", "", 1, 0)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, domain.MethodLinearRegression, out[0].Method)
	assert.InDelta(t, 130, out[0].PredictedValue, 1e-9)
}

func TestIndicatorService_ForecastErrorIsolation(t *testing.T) {
	s := newTestService(t)
	loadTestData(t, s)

	_, err := s.Forecast("DEU", "GDP", "exponential_smoothing", 1, 9.9)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeInvalidParameter))

	out, err := s.Forecast("FRA", "POP", "exponential_smoothing", 1, 0.5)
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestIndicatorService_Summarize(t *testing.T) {
	s := newTestService(t)
	loadTestData(t, s)

	summary, err := s.Summarize(0, nil)
	require.NoError(t, err)

	assert.Equal(t, 2020, summary.Year)
	require.Len(t, summary.KPIs, 2)

	gdp := summary.KPIs[0]
	assert.Equal(t, "GDP", gdp.IndicatorCode)
	assert.Equal(t, analytics.AggMean, gdp.Aggregation)
	require.NotNil(t, gdp.Value)
	assert.InDelta(t, 180, *gdp.Value, 1e-9)

	pop := summary.KPIs[1]
	assert.Equal(t, analytics.AggSum, pop.Aggregation)
	require.NotNil(t, pop.Value)
	assert.InDelta(t, 104, *pop.Value, 1e-9)

	require.Len(t, summary.Snapshot, 4)
	require.NotEmpty(t, summary.World)
	assert.Equal(t, "World", summary.World[0].RegionOrCountry)
}

func TestIndicatorService_ReloadInvalidatesCaches(t *testing.T) {
	s := newTestService(t)
	loadTestData(t, s)

	_, err := s.Aggregates(0)
	require.NoError(t, err)
	require.NotZero(t, s.CacheStats().DeriveEntries)

	loadTestData(t, s)
	assert.Zero(t, s.CacheStats().DeriveEntries)
}
