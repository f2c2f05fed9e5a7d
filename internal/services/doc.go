// Package services holds the IndicatorService facade that the transport and
// command layers talk to. It wires the loader, feature engine, forecaster
// and session together and applies configured defaults to per-request
// parameters.
package services
