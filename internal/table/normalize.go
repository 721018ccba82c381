// Package table converts the raw headers and cells scraped from the KBO
// site into typed, canonically keyed records. Everything here is pure:
// no I/O, no state, deterministic output for a given input.
package table

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// columnNames maps raw source column headers (mostly Korean display
// labels) to the canonical keys used in emitted records. Composite keys
// that are already canonical (H/A, W/L) carry identity entries so the
// fallback rule never mangles their slashes.
var columnNames = map[string]string{
	"선수명":   "P_NM",
	"팀명":    "TEAM_NM",
	"타수":    "AB",
	"안타":    "H",
	"타점":    "RBI",
	"득점":    "R",
	"타율":    "AVG",
	"등판":    "POS",
	"결과":    "W/L",
	"승":     "W",
	"패":     "L",
	"세":     "SV",
	"이닝":    "IP",
	"타자":    "TBF",
	"투구수":   "NP",
	"피안타":   "H",
	"홈런":    "HR",
	"4사구":   "BB",
	"삼진":    "SO",
	"실점":    "R",
	"자책":    "ER",
	"평균자책점": "ERA",
	"H/A":   "H/A",
	"W/L":   "W/L",
	"W/L/T": "W/L/T",
}

// droppedColumns are headers whose cells carry no record value, like the
// per-page rank counter.
var droppedColumns = map[string]struct{}{
	"순위": {},
}

var fallbackReplacer = strings.NewReplacer("/", "_", "-", "_", " ", "_")

// NormalizeKey maps a raw column header to its canonical key. The second
// return is false when the column should be dropped from the record.
// Unrecognized headers are upper-cased with slashes, dashes and spaces
// replaced by underscores.
func NormalizeKey(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if _, drop := droppedColumns[raw]; drop {
		return "", false
	}
	if name, ok := columnNames[raw]; ok {
		return name, true
	}
	return fallbackReplacer.Replace(strings.ToUpper(raw)), true
}

// NormalizeValue converts one raw cell into its typed value. Applied in
// order: missing-data sentinels become nil, mixed fractions and plain
// fractions become 2-decimal floats, digit strings (with or without
// thousands separators) become integers, anything float-parsable becomes
// a float, and everything else passes through as the trimmed string.
// Non-string input is returned untouched except for json.Number, which is
// resolved to int64 or float64. Never fails.
func NormalizeValue(raw any) any {
	switch v := raw.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case string:
		return normalizeString(v)
	default:
		return raw
	}
}

func normalizeString(s string) any {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" || s == "&nbsp;" {
		return nil
	}
	if strings.Contains(s, " ") && strings.Contains(s, "/") {
		if f, ok := parseMixedFraction(s); ok {
			return f
		}
	}
	if strings.Contains(s, "/") {
		if f, ok := parseFraction(s); ok {
			return f
		}
	}
	if strings.Contains(s, ",") {
		cleaned := strings.ReplaceAll(s, ",", "")
		if n, ok := parseDigits(cleaned); ok {
			return n
		}
	}
	if n, ok := parseDigits(s); ok {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// parseMixedFraction handles the innings-pitched form "1 1/3".
func parseMixedFraction(s string) (float64, bool) {
	whole, frac, ok := strings.Cut(s, " ")
	if !ok {
		return 0, false
	}
	w, err := strconv.Atoi(whole)
	if err != nil {
		return 0, false
	}
	f, ok := parseFraction(frac)
	if !ok {
		return 0, false
	}
	return round2(float64(w) + f), true
}

func parseFraction(s string) (float64, bool) {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(num)
	if err != nil {
		return 0, false
	}
	d, err := strconv.Atoi(den)
	if err != nil || d == 0 {
		return 0, false
	}
	return round2(float64(n) / float64(d)), true
}

func parseDigits(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
