package units

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"steam-toolbox/internal/errors"
)

// PressureMode says whether a pressure reading is absolute or gauge
type PressureMode string

const (
	Absolute PressureMode = "absolute"
	Gauge    PressureMode = "gauge"
)

// ParsePressureMode parses "absolute"/"a" or "gauge"/"g"; "" is absolute
func ParsePressureMode(s string) (PressureMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "a", "abs", "absolute":
		return Absolute, nil
	case "g", "gauge", "gage":
		return Gauge, nil
	}
	return "", errors.InvalidInput("pressure mode", s, "must be absolute or gauge")
}

// ToAbsolutePa converts a pressure reading to absolute Pa. A gauge mode adds
// one standard atmosphere unless the unit itself is already a gauge unit.
func ToAbsolutePa(value float64, unit string, mode PressureMode) (float64, error) {
	u, err := ParsePressureUnit(unit)
	if err != nil {
		return 0, err
	}
	pa := u.ToSI(value)
	if mode == Gauge && !u.Gauge {
		pa += StandardAtmospherePa
	}
	return pa, nil
}

// ParseQuantity parses strings such as "10 bar(g)", "250 C" or "100mm" into
// the SI value of kind. A bare number is read in defaultUnit; if defaultUnit
// is empty the number is taken as SI.
func ParseQuantity(kind Kind, s, defaultUnit string) (float64, error) {
	v, unit, err := SplitQuantity(s)
	if err != nil {
		return 0, errors.InvalidInput(string(kind), s, "must start with a number")
	}
	if unit == "" {
		unit = defaultUnit
	}
	if unit == "" {
		return v, nil
	}
	return ToSI(kind, v, unit)
}

// ParsePressure parses a pressure string to absolute Pa. Bare numbers are
// read in defaultUnit (Pa when empty); mode applies as in ToAbsolutePa.
func ParsePressure(s, defaultUnit string, mode PressureMode) (float64, error) {
	v, unit, err := SplitQuantity(s)
	if err != nil {
		return 0, errors.InvalidInput(string(KindPressure), s, "must start with a number")
	}
	if unit == "" {
		unit = defaultUnit
	}
	if unit == "" {
		unit = "Pa"
	}
	return ToAbsolutePa(v, unit, mode)
}

// SplitQuantity separates the leading number of s from its unit suffix
func SplitQuantity(s string) (float64, string, error) {
	s = strings.TrimSpace(s)
	i := 0
	for i < len(s) {
		c := rune(s[i])
		if unicode.IsDigit(c) || c == '.' || c == '-' || c == '+' {
			i++
			continue
		}
		// exponent, but only when followed by a digit or sign
		if (c == 'e' || c == 'E') && i > 0 && i+1 < len(s) {
			n := rune(s[i+1])
			if unicode.IsDigit(n) || n == '-' || n == '+' {
				i++
				continue
			}
		}
		break
	}
	v, err := strconv.ParseFloat(s[:i], 64)
	if err != nil {
		return 0, "", err
	}
	return v, strings.TrimSpace(s[i:]), nil
}

// Round rounds v half away from zero to places decimals for display
func Round(v float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}

// Format renders an SI value in unit rounded to places, e.g. "12.35 kPa"
func Format(kind Kind, si float64, unit string, places int32) (string, error) {
	u, err := Lookup(kind, unit)
	if err != nil {
		return "", err
	}
	return decimal.NewFromFloat(u.FromSI(si)).StringFixed(places) + " " + u.Symbol, nil
}
