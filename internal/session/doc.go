// Package session owns the canonical dataset snapshot for one session and
// the memoization layer above it. The snapshot is replaced wholesale on each
// load and stamped with a fresh version token; derived features and
// forecasts are cached keyed by that version plus their full parameter
// tuple, so results computed against a stale snapshot can never be served
// after a reload.
package session
