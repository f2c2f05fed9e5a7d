// Package analytics derives the feature table from the canonical dataset:
// per-year competition rankings, trailing rolling averages, year-over-year
// change and regional rollups, plus the latest-year snapshot, weighted
// aggregates and KPI summaries consumed by reporting collaborators.
//
// The engine only reads canonical records and recomputes everything on each
// call. All outputs are regenerable; callers that want memoization layer it
// on top (see internal/session).
package analytics
