package session

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"indicli/internal/analytics"
	"indicli/internal/dataprocessing"
	apperrors "indicli/internal/errors"
	"indicli/internal/forecast"
	"indicli/internal/infrastructure"
	"indicli/pkg/contracts/domain"
)

func newTestSession() *Session {
	metrics := infrastructure.NewMetrics(prometheus.NewRegistry())
	return New(analytics.NewEngine(nil), nil, metrics)
}

func testRecords() []domain.CanonicalRecord {
	return []domain.CanonicalRecord{
		{CountryISO3: "DEU", IndicatorCode: "GDP", Year: 2000, Value: domain.Ptr(1)},
		{CountryISO3: "DEU", IndicatorCode: "GDP", Year: 2001, Value: domain.Ptr(2)},
		{CountryISO3: "DEU", IndicatorCode: "GDP", Year: 2002, Value: domain.Ptr(3)},
		{CountryISO3: "DEU", IndicatorCode: "GDP", Year: 2003, Value: domain.Ptr(4)},
	}
}

func TestSession_EmptyUntilReplace(t *testing.T) {
	s := newTestSession()

	_, _, ok := s.Snapshot()
	assert.False(t, ok)
	assert.Empty(t, s.Version())
	assert.Nil(t, s.Report())

	_, err := s.Derive(analytics.Options{})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))

	_, err = s.Forecast("DEU", "GDP", domain.MethodLinearRegression, 1, forecast.Params{})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
}

func TestSession_ReplaceStampsNewVersion(t *testing.T) {
	s := newTestSession()

	s.Replace(testRecords(), &dataprocessing.LoadReport{Source: "a.csv"})
	first := s.Version()
	require.NotEmpty(t, first)
	require.NotNil(t, s.Report())

	s.Replace(testRecords(), &dataprocessing.LoadReport{Source: "b.csv"})
	second := s.Version()
	assert.NotEqual(t, first, second)
	assert.Equal(t, "b.csv", s.Report().Source)
}

func TestSession_DeriveMemoized(t *testing.T) {
	s := newTestSession()
	s.Replace(testRecords(), &dataprocessing.LoadReport{})

	first, err := s.Derive(analytics.Options{RollingWindow: 3})
	require.NoError(t, err)
	require.NotEmpty(t, first)
	assert.Equal(t, 1, s.Stats().DeriveEntries)

	second, err := s.Derive(analytics.Options{RollingWindow: 3})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Stats().DeriveEntries)

	// Hit returns the identical cached slice.
	assert.Same(t, &first[0], &second[0])
}

func TestSession_DeriveKeyedByOptions(t *testing.T) {
	s := newTestSession()
	s.Replace(testRecords(), &dataprocessing.LoadReport{})

	_, err := s.Derive(analytics.Options{RollingWindow: 2})
	require.NoError(t, err)
	_, err = s.Derive(analytics.Options{RollingWindow: 3})
	require.NoError(t, err)

	assert.Equal(t, 2, s.Stats().DeriveEntries)
}

func TestSession_ReplaceInvalidatesCaches(t *testing.T) {
	s := newTestSession()
	s.Replace(testRecords(), &dataprocessing.LoadReport{})

	_, err := s.Derive(analytics.Options{})
	require.NoError(t, err)
	_, err = s.Forecast("DEU", "GDP", domain.MethodLinearRegression, 2, forecast.Params{})
	require.NoError(t, err)
	require.NotZero(t, s.Stats().DeriveEntries)
	require.NotZero(t, s.Stats().ForecastEntries)

	s.Replace(testRecords(), &dataprocessing.LoadReport{})

	stats := s.Stats()
	assert.Zero(t, stats.DeriveEntries)
	assert.Zero(t, stats.ForecastEntries)
}

func TestSession_ForecastMemoized(t *testing.T) {
	s := newTestSession()
	s.Replace(testRecords(), &dataprocessing.LoadReport{})

	first, err := s.Forecast("DEU", "GDP", domain.MethodLinearRegression, 1, forecast.Params{})
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 2004, first[0].HorizonYear)
	assert.InDelta(t, 5, first[0].PredictedValue, 1e-9)

	second, err := s.Forecast("DEU", "GDP", domain.MethodLinearRegression, 1, forecast.Params{})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Stats().ForecastEntries)
	assert.Same(t, &first[0], &second[0])
}

func TestSession_ForecastErrorsAreScopedToRequest(t *testing.T) {
	s := newTestSession()
	s.Replace(testRecords(), &dataprocessing.LoadReport{})

	_, err := s.Forecast("DEU", "GDP", domain.MethodExponentialSmoothing, 1, forecast.Params{Alpha: 7})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeInvalidParameter))

	// A failed request leaves other requests fully functional.
	out, err := s.Forecast("DEU", "GDP", domain.MethodLinearRegression, 1, forecast.Params{})
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestSession_ForecastUnknownSeries(t *testing.T) {
	s := newTestSession()
	s.Replace(testRecords(), &dataprocessing.LoadReport{})

	_, err := s.Forecast("FRA", "GDP", domain.MethodLinearRegression, 1, forecast.Params{})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
}

func TestSession_ConcurrentDerive(t *testing.T) {
	s := newTestSession()
	s.Replace(testRecords(), &dataprocessing.LoadReport{})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := s.Derive(analytics.Options{RollingWindow: 3})
			assert.NoError(t, err)
			assert.NotEmpty(t, out)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, s.Stats().DeriveEntries)
}
