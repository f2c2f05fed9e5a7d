// Command indicators runs the pipeline once from the command line: load a
// wide-format file, then print one of the table contracts (canonical,
// aggregates, forecast or summary) as CSV or JSON.
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"indicli/internal/analytics"
	"indicli/internal/config"
	"indicli/internal/infrastructure"
	"indicli/internal/services"
	"indicli/pkg/contracts/domain"
)

type options struct {
	input      string
	table      string
	format     string
	out        string
	countries  string
	indicators string
	indicator  string
	country    string
	method     string
	from       int
	to         int
	window     int
	horizon    int
	alpha      float64
	year       int
}

func main() {
	var opts options
	flag.StringVar(&opts.input, "in", "", "wide-format input file (.csv, .xlsx)")
	flag.StringVar(&opts.table, "table", "summary", "output table: canonical, aggregates, forecast or summary")
	flag.StringVar(&opts.format, "format", "csv", "output format: csv or json")
	flag.StringVar(&opts.out, "out", "", "output file (default stdout)")
	flag.StringVar(&opts.countries, "countries", "", "comma-separated ISO3 filter for canonical/summary")
	flag.StringVar(&opts.indicators, "indicators", "", "comma-separated indicator filter for canonical")
	flag.StringVar(&opts.country, "country", "", "ISO3 code for forecast")
	flag.StringVar(&opts.indicator, "indicator", "", "indicator code for forecast")
	flag.StringVar(&opts.method, "method", "", "forecast method (default from config)")
	flag.IntVar(&opts.from, "from", 0, "first year for canonical filter")
	flag.IntVar(&opts.to, "to", 0, "last year for canonical filter")
	flag.IntVar(&opts.window, "window", 0, "rolling window override")
	flag.IntVar(&opts.horizon, "horizon", 0, "forecast horizon override")
	flag.Float64Var(&opts.alpha, "alpha", 0, "smoothing alpha override")
	flag.IntVar(&opts.year, "year", 0, "reference year for summary (default latest)")
	flag.Parse()

	if opts.input == "" {
		fmt.Fprintln(os.Stderr, "usage: indicators -in <file> [-table canonical|aggregates|forecast|summary]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := run(opts); err != nil {
		slog.Error("pipeline failed", "error", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer infrastructure.CloseLogFile()

	metrics := infrastructure.NewMetrics(prometheus.NewRegistry())
	service := services.NewIndicatorService(cfg, logger, metrics)

	report, err := service.LoadFromFile(context.Background(), opts.input)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, report.Summary())

	out := io.Writer(os.Stdout)
	if opts.out != "" {
		f, err := os.Create(opts.out)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch opts.table {
	case "canonical":
		records, _, err := service.Canonical(analytics.Filter{
			Countries:  splitList(opts.countries),
			Indicators: splitList(opts.indicators),
			YearFrom:   opts.from,
			YearTo:     opts.to,
		})
		if err != nil {
			return err
		}
		return writeCanonical(out, opts.format, records)
	case "aggregates":
		records, err := service.Aggregates(opts.window)
		if err != nil {
			return err
		}
		return writeAggregates(out, opts.format, records)
	case "forecast":
		if opts.country == "" || opts.indicator == "" {
			return fmt.Errorf("forecast requires -country and -indicator")
		}
		results, err := service.Forecast(opts.country, opts.indicator, opts.method, opts.horizon, opts.alpha)
		if err != nil {
			return err
		}
		return writeForecast(out, opts.format, results)
	case "summary":
		summary, err := service.Summarize(opts.year, splitList(opts.countries))
		if err != nil {
			return err
		}
		return writeSummary(out, opts.format, summary)
	default:
		return fmt.Errorf("unknown table %q", opts.table)
	}
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCanonical(out io.Writer, format string, records []domain.CanonicalRecord) error {
	if format == "json" {
		return writeJSON(out, records)
	}

	w := csv.NewWriter(out)
	w.Write([]string{"country_iso3", "country_name", "indicator_code", "indicator_name", "year", "value"})
	for _, r := range records {
		w.Write([]string{
			r.CountryISO3, r.CountryName, r.IndicatorCode, r.IndicatorName,
			strconv.Itoa(r.Year), formatValue(r.Value),
		})
	}
	w.Flush()
	return w.Error()
}

func writeAggregates(out io.Writer, format string, records []domain.AggregateRecord) error {
	if format == "json" {
		return writeJSON(out, records)
	}

	w := csv.NewWriter(out)
	w.Write([]string{"region_or_country", "indicator_code", "year", "metric", "value"})
	for _, r := range records {
		w.Write([]string{
			r.RegionOrCountry, r.IndicatorCode, strconv.Itoa(r.Year),
			string(r.Metric), formatValue(r.Value),
		})
	}
	w.Flush()
	return w.Error()
}

func writeForecast(out io.Writer, format string, results []domain.ForecastResult) error {
	if format == "json" {
		return writeJSON(out, results)
	}

	w := csv.NewWriter(out)
	w.Write([]string{"country_iso3", "indicator_code", "method", "horizon_year", "predicted_value", "fit_error"})
	for _, r := range results {
		w.Write([]string{
			r.CountryISO3, r.IndicatorCode, string(r.Method),
			strconv.Itoa(r.HorizonYear),
			strconv.FormatFloat(r.PredictedValue, 'g', -1, 64),
			strconv.FormatFloat(r.FitError, 'g', -1, 64),
		})
	}
	w.Flush()
	return w.Error()
}

func writeSummary(out io.Writer, format string, summary *services.Summary) error {
	if format == "json" {
		return writeJSON(out, summary)
	}

	w := csv.NewWriter(out)
	w.Write([]string{"indicator_code", "year", "aggregation", "value", "change_pct"})
	for _, k := range summary.KPIs {
		w.Write([]string{
			k.IndicatorCode, strconv.Itoa(k.Year), k.Aggregation,
			formatValue(k.Value), formatValue(k.Change),
		})
	}
	w.Flush()
	return w.Error()
}

func formatValue(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}
