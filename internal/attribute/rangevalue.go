// Package attribute implements attribute reconciliation for marketplace
// listings: extracting numeric values from product names, inferring values
// for mandatory category attributes, and enforcing the schema's unit and
// group-exclusivity contracts.
package attribute

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// unitPattern pairs a canonical unit with the regexp that recognizes it in
// free text. Order matters: compound units (ml, mm, mah) must be tried before
// their single-letter prefixes.
type unitPattern struct {
	unit string
	re   *regexp.Regexp
}

var unitPatterns = []unitPattern{
	{"ml", regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*ml`)},
	{"l", regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:l\b|리터)`)},
	{"g", regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:g\b|그램)`)},
	{"kg", regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*kg`)},
	{"mm", regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*mm`)},
	{"cm", regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*cm`)},
	{"m", regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:m\b|미터)`)},
	{"개", regexp.MustCompile(`(\d+)\s*(?:개|매|장|입|팩|세트)`)},
	{"w", regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:w\b|와트)`)},
	{"mah", regexp.MustCompile(`(?i)(\d+)\s*mah`)},
}

// conversions maps target unit -> matched unit -> multiplier.
var conversions = map[string]map[string]float64{
	"ml":  {"ml": 1, "l": 1000},
	"l":   {"l": 1, "ml": 0.001},
	"g":   {"g": 1, "kg": 1000},
	"kg":  {"kg": 1, "g": 0.001},
	"mm":  {"mm": 1, "cm": 10, "m": 1000},
	"cm":  {"cm": 1, "mm": 0.1, "m": 100},
	"m":   {"m": 1, "cm": 0.01, "mm": 0.001},
	"개":   {"개": 1},
	"w":   {"w": 1},
	"mah": {"mah": 1},
}

var unitHintRe = regexp.MustCompile(`\((\w+)\)`)

// ExtractRangeValue scans text for the first numeric value carrying a known
// unit and returns it as a numeric string, converted to targetUnit when one
// applies. When no target unit is supplied, a unit hint in parentheses inside
// attributeName (e.g. "길이(cm)") is used instead. Returns "" when nothing
// matches; callers must supply their own fallback. Deterministic and
// side-effect free.
func ExtractRangeValue(text, attributeName, targetUnit string) string {
	target := strings.ToLower(targetUnit)
	if target == "" {
		if m := unitHintRe.FindStringSubmatch(attributeName); m != nil {
			target = strings.ToLower(m[1])
		}
	}

	for _, p := range unitPatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		raw := m[1]
		if target == "" {
			return raw
		}
		converted, ok := convert(raw, p.unit, target)
		if !ok {
			continue
		}
		return converted
	}

	return ""
}

// convert applies the fixed conversion table, rounding to the nearest integer
// when the result is not already integral. An unknown target or source unit
// leaves the value untouched.
func convert(raw, from, to string) (string, bool) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return "", false
	}

	factors, ok := conversions[to]
	if !ok {
		return raw, true
	}
	factor, ok := factors[from]
	if !ok {
		return raw, true
	}

	result := v * factor
	if result == math.Trunc(result) {
		return strconv.FormatFloat(result, 'f', -1, 64), true
	}
	return strconv.FormatInt(int64(math.Round(result)), 10), true
}
