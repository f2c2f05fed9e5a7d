// Package http serves the pipeline's three tabular contracts over a chi
// router: the canonical dataset, the derived aggregate table and per-series
// forecasts, plus the KPI summary, dataset reload and operational endpoints.
package http
