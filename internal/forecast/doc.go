// Package forecast produces future-year point predictions for one cleaned
// (country, indicator) series, by ordinary least squares regression of value
// on year or by single exponential smoothing. Forecast is a pure function of
// its inputs, which makes results safe to memoize (see internal/session).
package forecast
