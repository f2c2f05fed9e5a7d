package session

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"indicli/internal/analytics"
	"indicli/internal/dataprocessing"
	apperrors "indicli/internal/errors"
	"indicli/internal/forecast"
	"indicli/internal/infrastructure"
	"indicli/pkg/contracts/domain"
)

// Session is the session-scoped pipeline state: the canonical snapshot, its
// version token and the memoized derive/forecast results. All methods are
// safe for concurrent use.
type Session struct {
	logger  *slog.Logger
	metrics *infrastructure.Metrics
	engine  *analytics.Engine

	mu      sync.RWMutex
	version string
	records []domain.CanonicalRecord
	report  *dataprocessing.LoadReport

	cacheMu       sync.Mutex
	deriveCache   map[string][]domain.AggregateRecord
	forecastCache map[string][]domain.ForecastResult
	group         singleflight.Group
}

// New creates an empty session. Until Replace is called every read
// operation fails with a NOT_FOUND error.
func New(engine *analytics.Engine, logger *slog.Logger, metrics *infrastructure.Metrics) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		logger:        logger.With(slog.String("component", "session")),
		metrics:       metrics,
		engine:        engine,
		deriveCache:   make(map[string][]domain.AggregateRecord),
		forecastCache: make(map[string][]domain.ForecastResult),
	}
}

// Replace swaps in a freshly loaded canonical dataset. The swap is atomic:
// readers see either the old snapshot or the new one, never a mix. All
// memoized results are invalidated by clearing the caches and stamping a
// new version.
func (s *Session) Replace(records []domain.CanonicalRecord, report *dataprocessing.LoadReport) {
	version := uuid.NewString()

	s.mu.Lock()
	s.version = version
	s.records = records
	s.report = report
	s.mu.Unlock()

	s.cacheMu.Lock()
	s.deriveCache = make(map[string][]domain.AggregateRecord)
	s.forecastCache = make(map[string][]domain.ForecastResult)
	s.cacheMu.Unlock()

	if s.metrics != nil {
		s.metrics.CanonicalRows.Set(float64(len(records)))
	}

	s.logger.Info("dataset snapshot replaced",
		slog.String("version", version),
		slog.Int("canonical_rows", len(records)))
}

// Snapshot returns the current canonical records and version. ok is false
// before the first Replace. Callers must not mutate the returned slice.
func (s *Session) Snapshot() (records []domain.CanonicalRecord, version string, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records, s.version, s.version != ""
}

// Version returns the current snapshot version, empty before the first load.
func (s *Session) Version() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Report returns the load report of the current snapshot, nil before the
// first load.
func (s *Session) Report() *dataprocessing.LoadReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report
}

// Derive returns the feature table for the current snapshot, memoized by
// (version, options). Concurrent identical requests collapse into a single
// computation.
func (s *Session) Derive(opts analytics.Options) ([]domain.AggregateRecord, error) {
	records, version, ok := s.Snapshot()
	if !ok {
		return nil, apperrors.NewNotFoundError("no dataset loaded")
	}
	if s.metrics != nil {
		s.metrics.DeriveRequests.Inc()
	}

	key := deriveKey(version, opts)

	s.cacheMu.Lock()
	if cached, ok := s.deriveCache[key]; ok {
		s.cacheMu.Unlock()
		s.countCache("derive", true)
		return cached, nil
	}
	s.cacheMu.Unlock()
	s.countCache("derive", false)

	result, err, _ := s.group.Do(key, func() (interface{}, error) {
		s.cacheMu.Lock()
		if cached, ok := s.deriveCache[key]; ok {
			s.cacheMu.Unlock()
			return cached, nil
		}
		s.cacheMu.Unlock()

		out, err := s.engine.Derive(records, opts)
		if err != nil {
			return nil, err
		}

		s.cacheMu.Lock()
		s.deriveCache[key] = out
		s.cacheMu.Unlock()
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]domain.AggregateRecord), nil
}

// Forecast predicts one (country, indicator) series from the current
// snapshot, memoized by (version, series, method, horizon, params).
func (s *Session) Forecast(iso3, indicator string, method domain.ForecastMethod, horizon int, params forecast.Params) ([]domain.ForecastResult, error) {
	records, version, ok := s.Snapshot()
	if !ok {
		return nil, apperrors.NewNotFoundError("no dataset loaded")
	}
	if s.metrics != nil {
		s.metrics.ForecastRequests.WithLabelValues(string(method)).Inc()
	}

	key := fmt.Sprintf("%s|%s|%s|%s|%d|%g", version, iso3, indicator, method, horizon, params.Alpha)

	s.cacheMu.Lock()
	if cached, ok := s.forecastCache[key]; ok {
		s.cacheMu.Unlock()
		s.countCache("forecast", true)
		return cached, nil
	}
	s.cacheMu.Unlock()
	s.countCache("forecast", false)

	result, err, _ := s.group.Do(key, func() (interface{}, error) {
		s.cacheMu.Lock()
		if cached, ok := s.forecastCache[key]; ok {
			s.cacheMu.Unlock()
			return cached, nil
		}
		s.cacheMu.Unlock()

		series := domain.SeriesFromRecords(records, iso3, indicator)
		if series.Len() == 0 {
			return nil, apperrors.NewNotFoundError(
				fmt.Sprintf("no observations for %s/%s", iso3, indicator))
		}

		out, err := forecast.Forecast(series, method, horizon, params)
		if err != nil {
			return nil, err
		}

		s.cacheMu.Lock()
		s.forecastCache[key] = out
		s.cacheMu.Unlock()
		return out, nil
	})
	if err != nil {
		if s.metrics != nil {
			s.metrics.ForecastFailures.Inc()
		}
		return nil, err
	}

	return result.([]domain.ForecastResult), nil
}

// CacheStats reports the number of live memoized entries per stage.
type CacheStats struct {
	DeriveEntries   int `json:"derive_entries"`
	ForecastEntries int `json:"forecast_entries"`
}

// Stats returns the current cache sizes.
func (s *Session) Stats() CacheStats {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	return CacheStats{
		DeriveEntries:   len(s.deriveCache),
		ForecastEntries: len(s.forecastCache),
	}
}

func (s *Session) countCache(stage string, hit bool) {
	if s.metrics == nil {
		return
	}
	if hit {
		s.metrics.CacheHits.WithLabelValues(stage).Inc()
	} else {
		s.metrics.CacheMisses.WithLabelValues(stage).Inc()
	}
}

// deriveKey folds the full option tuple into the cache key. The region map
// is part of the tuple; its entries are serialized in sorted order so equal
// maps produce equal keys.
func deriveKey(version string, opts analytics.Options) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|w=%d", version, opts.RollingWindow)

	codes := make([]string, 0, len(opts.Regions))
	for code := range opts.Regions {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		fmt.Fprintf(&b, "|%s=%s", code, opts.Regions[code])
	}

	return b.String()
}
