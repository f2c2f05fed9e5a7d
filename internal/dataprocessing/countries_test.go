package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountryResolver_Resolve(t *testing.T) {
	r := NewCountryResolver()

	tests := []struct {
		name     string
		code     string
		country  string
		wantISO3 string
		wantOK   bool
	}{
		{"code wins", "DEU", "Germany", "DEU", true},
		{"code case insensitive", "deu", "", "DEU", true},
		{"name only", "", "Germany", "DEU", true},
		{"name case insensitive", "", "gErMaNy", "DEU", true},
		{"alias south korea", "", "South Korea", "KOR", true},
		{"official korea name", "", "Korea, Rep.", "KOR", true},
		{"eu aggregate", "EUU", "European Union", "EUU", true},
		{"unknown", "ZZZ", "Atlantis", "", false},
		{"empty", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iso3, ok := r.Resolve(tt.code, tt.country)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantISO3, iso3)
		})
	}
}

func TestCountryResolver_Idempotent(t *testing.T) {
	r := NewCountryResolver()

	// Resolving an already canonical ISO3 code must return it unchanged.
	for _, code := range []string{"DEU", "FRA", "USA", "KOR", "COD"} {
		iso3, ok := r.Resolve(code, "")
		require.True(t, ok, code)
		assert.Equal(t, code, iso3)

		again, ok := r.Resolve(iso3, r.NameOf(iso3))
		require.True(t, ok)
		assert.Equal(t, iso3, again)
	}
}

func TestCountryResolver_NameOf(t *testing.T) {
	r := NewCountryResolver()

	assert.Equal(t, "Germany", r.NameOf("DEU"))
	assert.Equal(t, "Germany", r.NameOf("deu"))
	assert.Equal(t, "XYZ", r.NameOf("XYZ"))
}

func TestCountryResolver_RegionMap(t *testing.T) {
	r := NewCountryResolver()

	regions := r.RegionMap()
	require.NotEmpty(t, regions)
	assert.Equal(t, "Europe & Central Asia", regions["DEU"])
	assert.Equal(t, "Aggregates", regions["EUU"])
}
