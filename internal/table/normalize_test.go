package table

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		keep bool
	}{
		{"선수명", "P_NM", true},
		{"팀명", "TEAM_NM", true},
		{"평균자책점", "ERA", true},
		{" 타율 ", "AVG", true},
		{"순위", "", false},
		{"H/A", "H/A", true},
		{"W/L/T", "W/L/T", true},
		{"INN_1", "INN_1", true},
		{"on base", "ON_BASE", true},
		{"go/ao", "GO_AO", true},
	}
	for _, tt := range tests {
		got, keep := NormalizeKey(tt.raw)
		require.Equal(t, tt.keep, keep, "keep for %q", tt.raw)
		if tt.keep {
			require.Equal(t, tt.want, got, "key for %q", tt.raw)
		}
	}
}

func TestNormalizeKeyIdempotent(t *testing.T) {
	// Canonical keys must survive a second pass unchanged, otherwise
	// reloading a saved file would rename its columns.
	for raw, canonical := range columnNames {
		again, keep := NormalizeKey(canonical)
		require.True(t, keep, "canonical key for %q dropped", raw)
		require.Equal(t, canonical, again, "canonical key for %q not stable", raw)
	}
}

func TestNormalizeValue(t *testing.T) {
	tests := []struct {
		raw  any
		want any
	}{
		{"-", nil},
		{"", nil},
		{"  ", nil},
		{"&nbsp;", nil},
		{"1,234", int64(1234)},
		{"12,345,678", int64(12345678)},
		{"10", int64(10)},
		{"0", int64(0)},
		{"0.364", 0.364},
		{"1 1/3", 1.33},
		{"2/3", 0.67},
		{"두산", "두산"},
		{"20141111SSWO0", "20141111SSWO0"},
		{"1/0", "1/0"},
		{json.Number("7"), int64(7)},
		{json.Number("0.5"), 0.5},
		{nil, nil},
		{int64(3), int64(3)},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, NormalizeValue(tt.raw), "normalize %v", tt.raw)
	}
}

func TestFractionRounding(t *testing.T) {
	// Every innings-pitched value the site can render must come back
	// rounded to 2 decimals and within 0.01 of the exact ratio.
	for whole := 0; whole <= 30; whole++ {
		for den := 1; den <= 3; den++ {
			for num := 0; num < den; num++ {
				raw := fmt.Sprintf("%d %d/%d", whole, num, den)
				got := NormalizeValue(raw)
				f, ok := got.(float64)
				require.True(t, ok, "%q did not normalize to a float", raw)

				exact := float64(whole) + float64(num)/float64(den)
				require.InDelta(t, exact, f, 0.01, "value of %q", raw)

				rendered := strconv.FormatFloat(f, 'f', -1, 64)
				reparsed, err := strconv.ParseFloat(rendered, 64)
				require.NoError(t, err)
				require.Equal(t, f, math.Round(reparsed*100)/100, "%q not 2-decimal", raw)
			}
		}
	}
}
