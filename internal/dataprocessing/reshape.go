package dataprocessing

// LongRow is a melted observation before country standardization. It still
// carries the raw country identifiers from the input.
type LongRow struct {
	CountryName   string
	CountryCode   string
	IndicatorCode string
	IndicatorName string
	Year          int
	Value         *float64
}

// Reshape melts wide records into long rows, one per (record, year column).
// The output length is exactly len(records) * len(years); missing values
// stay as nil rows so the missing-value strategy can see them.
func Reshape(records []RawWideRecord, years []int) []LongRow {
	rows := make([]LongRow, 0, len(records)*len(years))

	for _, rec := range records {
		for _, year := range years {
			rows = append(rows, LongRow{
				CountryName:   rec.CountryName,
				CountryCode:   rec.CountryCode,
				IndicatorCode: rec.IndicatorCode,
				IndicatorName: rec.IndicatorName,
				Year:          year,
				Value:         rec.Values[year],
			})
		}
	}

	return rows
}
