// Package dataprocessing implements the loader stage of the indicator
// pipeline: parsing wide-format country/year tables from CSV or Excel,
// reshaping them into canonical long rows, standardizing country identifiers
// to ISO3 codes, and applying the configured missing-value strategy.
//
// The loader is a leaf component. It owns the transformation from raw to
// canonical exclusively; downstream engines only read its output.
//
// A load either succeeds with a full canonical dataset plus a LoadReport, or
// fails fatally with a DATA_FORMAT error. Country standardization failures
// are never fatal: unresolvable rows are excluded, logged per row and
// counted in the report, and the load continues for every resolvable
// country.
//
// Usage:
//
//	loader := dataprocessing.NewLoader(logger)
//	records, report, err := loader.Load("indicators.csv", dataprocessing.LoadOptions{
//		Strategy: config.StrategyForwardFill,
//	})
package dataprocessing
