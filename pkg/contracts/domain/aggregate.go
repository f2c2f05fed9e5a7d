package domain

// Metric identifies the kind of derived value an AggregateRecord carries.
type Metric string

const (
	MetricMean       Metric = "mean"
	MetricSum        Metric = "sum"
	MetricRank       Metric = "rank"
	MetricRollingAvg Metric = "rolling_avg"
	MetricYoYPct     Metric = "yoy_pct"
)

// AggregateRecord is one derived cell of the feature table. RegionOrCountry
// holds an ISO3 code for per-country metrics (rank, rolling_avg, yoy_pct)
// and a region key for rollups (sum, mean). Derived rows are always
// regenerable from the canonical dataset and are never a source of truth.
type AggregateRecord struct {
	RegionOrCountry string   `json:"region_or_country"`
	IndicatorCode   string   `json:"indicator_code"`
	Year            int      `json:"year"`
	Metric          Metric   `json:"metric"`
	Value           *float64 `json:"value"`
}

// HasValue reports whether the derived cell carries a value. Cells stay nil
// when the metric is defined as null for that year (partial rolling window,
// YoY over a zero or missing predecessor).
func (a AggregateRecord) HasValue() bool {
	return a.Value != nil
}

// SnapshotRecord is the latest observed year with a value for one
// (country, indicator) pair.
type SnapshotRecord struct {
	CountryISO3   string  `json:"country_iso3"`
	CountryName   string  `json:"country_name"`
	IndicatorCode string  `json:"indicator_code"`
	Year          int     `json:"year"`
	Value         float64 `json:"value"`
}

// KPI summarizes one indicator for a reference year across a country
// selection: the aggregated value and its change versus the previous year.
// Change is nil when the previous year has no aggregable data.
type KPI struct {
	IndicatorCode string   `json:"indicator_code"`
	Year          int      `json:"year"`
	Aggregation   string   `json:"aggregation"` // mean, median or sum
	Value         *float64 `json:"value"`
	Change        *float64 `json:"change"`
}
