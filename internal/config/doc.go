// Package config provides configuration management for the indicli pipeline.
//
// Configuration is assembled from three layers, lowest precedence first:
//
//  1. Struct tag defaults (see constants.go for the canonical values)
//  2. A YAML config file (config.yaml, or INDICLI_CONFIG)
//  3. Environment variables with the INDICLI prefix
//
// The Pipeline section enumerates every option the core recognizes:
// missing_value_strategy, rolling_window, forecast_method, forecast_horizon
// and smoothing_alpha. Unknown strategies or out-of-range values fail
// validation at load time rather than propagating downstream.
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(cfg.Pipeline.MissingValueStrategy)
package config
