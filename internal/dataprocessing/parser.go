package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"indicli/internal/config"
	apperrors "indicli/internal/errors"
)

// yearHeaderPattern matches World Bank style year headers, e.g. "2015 [YR2015]".
var yearHeaderPattern = regexp.MustCompile(`(?i)^(\d{4})\s*\[yr\d{4}\]$`)

// columnIndex maps the identifying columns of a wide table to their
// positions. A value of -1 means the column is absent.
type columnIndex struct {
	countryName   int
	countryCode   int
	indicatorName int
	indicatorCode int
	years         map[int]int // year -> column position
}

// ParseWide reads a wide-format indicator table from a CSV or Excel file and
// returns the raw records plus the sorted list of year columns found.
func ParseWide(path string) ([]RawWideRecord, []int, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return parseCSV(path)
	case ".xlsx", ".xls":
		return parseExcel(path)
	default:
		return nil, nil, apperrors.NewDataFormatError(
			fmt.Sprintf("unsupported input format %q", filepath.Ext(path)), nil)
	}
}

func parseCSV(path string) ([]RawWideRecord, []int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, apperrors.NewDataFormatError("failed to open input file", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, nil, apperrors.NewDataFormatError("failed to read input file", err)
	}

	// Remove BOM if present
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		content = content[3:]
	}

	reader := csv.NewReader(strings.NewReader(string(content)))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, apperrors.NewDataFormatError("failed to read CSV", err)
	}

	return parseTable(rows)
}

func parseExcel(path string) ([]RawWideRecord, []int, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, apperrors.NewDataFormatError("failed to open Excel file", err)
	}
	defer f.Close()

	// Pick the first sheet whose header row carries the identifying columns.
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil || len(rows) == 0 {
			continue
		}
		if _, ok := findHeader(rows); ok {
			return parseTable(rows)
		}
	}

	return nil, nil, apperrors.NewDataFormatError("no sheet with indicator data found", nil)
}

// findHeader locates the header row: the first row containing a country
// identifier, an indicator identifier and at least one year column.
func findHeader(rows [][]string) (int, bool) {
	for i, row := range rows {
		cols := mapColumns(row)
		if cols.hasCountry() && cols.hasIndicator() && len(cols.years) > 0 {
			return i, true
		}
	}
	return 0, false
}

func (c columnIndex) hasCountry() bool {
	return c.countryName >= 0 || c.countryCode >= 0
}

func (c columnIndex) hasIndicator() bool {
	return c.indicatorCode >= 0 || c.indicatorName >= 0
}

// mapColumns classifies every header cell of a candidate header row.
func mapColumns(header []string) columnIndex {
	cols := columnIndex{
		countryName:   -1,
		countryCode:   -1,
		indicatorName: -1,
		indicatorCode: -1,
		years:         make(map[int]int),
	}

	for i, cell := range header {
		name := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(cell, `"`, "")))
		switch {
		case name == "country name" || name == "country":
			cols.countryName = i
		case name == "country code" || name == "iso_code" || name == "iso3":
			cols.countryCode = i
		case name == "series name" || name == "indicator name":
			cols.indicatorName = i
		case name == "series code" || name == "indicator code" || name == "indicator":
			cols.indicatorCode = i
		default:
			if year, ok := parseYearHeader(name); ok {
				cols.years[year] = i
			}
		}
	}

	return cols
}

// parseYearHeader accepts plain integer headers ("2015") and World Bank
// style headers ("2015 [YR2015]").
func parseYearHeader(name string) (int, bool) {
	if year, err := strconv.Atoi(name); err == nil && year >= 1000 && year <= 9999 {
		return year, true
	}
	if m := yearHeaderPattern.FindStringSubmatch(name); m != nil {
		year, _ := strconv.Atoi(m[1])
		return year, true
	}
	return 0, false
}

func parseTable(rows [][]string) ([]RawWideRecord, []int, error) {
	headerRow, ok := findHeader(rows)
	if !ok {
		return nil, nil, apperrors.NewDataFormatError(
			"required identifying columns (country, indicator) or year columns not found", nil)
	}

	cols := mapColumns(rows[headerRow])

	years := make([]int, 0, len(cols.years))
	for year := range cols.years {
		years = append(years, year)
	}
	sort.Ints(years)

	var records []RawWideRecord
	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rec := RawWideRecord{
			CountryName:   cellAt(row, cols.countryName),
			CountryCode:   cellAt(row, cols.countryCode),
			IndicatorName: cellAt(row, cols.indicatorName),
			IndicatorCode: cellAt(row, cols.indicatorCode),
			Values:        make(map[int]*float64, len(years)),
		}

		// Footer and annotation rows carry no country identifier.
		if rec.CountryName == "" && rec.CountryCode == "" {
			continue
		}
		if rec.IndicatorCode == "" {
			rec.IndicatorCode = rec.IndicatorName
		}

		for year, col := range cols.years {
			value, err := parseValue(cellAt(row, col))
			if err != nil {
				return nil, nil, apperrors.NewDataFormatError(
					fmt.Sprintf("row %d, year %d: value is not numeric", i+1, year), err)
			}
			rec.Values[year] = value
		}

		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, nil, apperrors.NewDataFormatError("input has no data rows", nil)
	}

	return records, years, nil
}

// parseValue coerces a raw cell into a nullable numeric value. The World
// Bank export convention ".." and empty cells mean missing; anything else
// must parse as a float once thousands separators are stripped.
func parseValue(cell string) (*float64, error) {
	s := strings.TrimSpace(cell)
	switch strings.ToUpper(s) {
	case "", config.MissingValueToken, "NA", "N/A", "NULL":
		return nil, nil
	}

	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
