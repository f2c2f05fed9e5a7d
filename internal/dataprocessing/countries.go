package dataprocessing

import (
	"embed"
	"encoding/csv"
	"fmt"
	"strings"
)

//go:embed countries.csv
var countriesFS embed.FS

// countryEntry is one row of the embedded standardization table.
type countryEntry struct {
	ISO3   string
	Name   string
	Region string
}

// CountryResolver standardizes country name and code variants to ISO3.
// Resolution is idempotent: a valid ISO3 code always maps to itself.
type CountryResolver struct {
	byCode map[string]countryEntry
	byName map[string]countryEntry
}

// NewCountryResolver builds a resolver from the embedded lookup table.
func NewCountryResolver() *CountryResolver {
	resolver, err := newCountryResolverFromCSV()
	if err != nil {
		// The table ships with the binary; a parse failure is a build defect.
		panic(fmt.Sprintf("embedded country table is invalid: %v", err))
	}
	return resolver
}

func newCountryResolverFromCSV() (*CountryResolver, error) {
	data, err := countriesFS.ReadFile("countries.csv")
	if err != nil {
		return nil, err
	}

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("country table has no entries")
	}

	r := &CountryResolver{
		byCode: make(map[string]countryEntry, len(rows)),
		byName: make(map[string]countryEntry, len(rows)*2),
	}

	for _, row := range rows[1:] {
		if len(row) < 3 {
			continue
		}
		entry := countryEntry{
			ISO3:   strings.ToUpper(strings.TrimSpace(row[0])),
			Name:   strings.TrimSpace(row[1]),
			Region: strings.TrimSpace(row[2]),
		}
		if len(entry.ISO3) != 3 {
			return nil, fmt.Errorf("invalid ISO3 code %q", row[0])
		}

		r.byCode[entry.ISO3] = entry
		r.byName[normalizeName(entry.Name)] = entry

		if len(row) > 3 && row[3] != "" {
			for _, alias := range strings.Split(row[3], "|") {
				r.byName[normalizeName(alias)] = entry
			}
		}
	}

	return r, nil
}

// Resolve maps a (code, name) pair from an input row to an ISO3 code. The
// code wins when it is already a known ISO3 code; otherwise the name and its
// aliases are tried. The second return is false when neither matches.
func (r *CountryResolver) Resolve(code, name string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) == 3 {
		if _, ok := r.byCode[code]; ok {
			return code, true
		}
	}

	if entry, ok := r.byName[normalizeName(name)]; ok {
		return entry.ISO3, true
	}

	return "", false
}

// NameOf returns the canonical display name for an ISO3 code, or the code
// itself when unknown.
func (r *CountryResolver) NameOf(iso3 string) string {
	if entry, ok := r.byCode[strings.ToUpper(iso3)]; ok {
		return entry.Name
	}
	return iso3
}

// RegionMap returns the ISO3-to-region mapping for aggregate rollups.
// Aggregate pseudo-entries (World Bank groupings) map to "Aggregates" and
// are typically excluded by callers.
func (r *CountryResolver) RegionMap() map[string]string {
	regions := make(map[string]string, len(r.byCode))
	for code, entry := range r.byCode {
		regions[code] = entry.Region
	}
	return regions
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
