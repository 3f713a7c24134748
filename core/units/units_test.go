package units

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"steam-toolbox/internal/errors"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		kind     Kind
		value    float64
		from, to string
		want     float64
	}{
		{KindPressure, 1, "bar", "kPa", 100},
		{KindPressure, 1, "atm", "Pa", 101325},
		{KindPressure, 14.6959488, "psi", "kPa", 101.325},
		{KindPressure, 0, "bar(g)", "bar", 1.01325},
		{KindPressure, 1, "kgf/cm2", "kPa", 98.0665},
		{KindPressure, 760, "mmHg", "kPa", 101.325},
		{KindTemperature, 100, "°C", "K", 373.15},
		{KindTemperature, 212, "F", "C", 100},
		{KindTemperature, 491.67, "R", "K", 273.15},
		{KindTemperatureDiff, 9, "°F", "K", 5},
		{KindLength, 4, "in", "mm", 101.6},
		{KindLength, 1, "ft", "m", 0.3048},
		{KindVelocity, 36, "km/h", "m/s", 10},
		{KindViscosity, 1, "cP", "Pa·s", 1e-3},
		{KindViscosity, 1000, "μPa·s", "mPa·s", 1},
		{KindDensity, 1, "g/cm3", "kg/m3", 1000},
		{KindDensity, 62.42796, "lb/ft3", "kg/m3", 1000},
		{KindVolumetricFlow, 36, "m3/h", "L/s", 10},
		{KindVolumetricFlow, 1, "gpm", "L/min", 3.785411784},
		{KindMassFlow, 3.6, "t/h", "kg/s", 1},
		{KindMassFlow, 1, "kg/s", "kg/h", 3600},
	}
	for _, tt := range tests {
		got, err := Convert(tt.kind, tt.value, tt.from, tt.to)
		if err != nil {
			t.Fatalf("%s %v %s->%s: %v", tt.kind, tt.value, tt.from, tt.to, err)
		}
		if !scalar.EqualWithinAbsOrRel(got, tt.want, 1e-9, 1e-6) {
			t.Errorf("%s %v %s->%s = %v, want %v", tt.kind, tt.value, tt.from, tt.to, got, tt.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, k := range Kinds() {
		for _, from := range Units(k) {
			for _, to := range Units(k) {
				v := 123.456
				there, err := Convert(k, v, from, to)
				if err != nil {
					t.Fatal(err)
				}
				back, err := Convert(k, there, to, from)
				if err != nil {
					t.Fatal(err)
				}
				if math.Abs(back-v) > 1e-9*math.Abs(v) {
					t.Errorf("%s %s->%s->%s: %v", k, from, to, from, back)
				}
			}
		}
	}
}

func TestUnknownUnit(t *testing.T) {
	if _, err := Convert(KindLength, 1, "furlong", "m"); !errors.IsType(err, errors.TypeInvalidInput) {
		t.Errorf("expected invalid input, got %v", err)
	}
	if _, err := Convert(KindLength, 1, "bar", "m"); !errors.IsType(err, errors.TypeInvalidInput) {
		t.Errorf("cross-kind unit: expected invalid input, got %v", err)
	}
	if _, err := ParseKind("energy"); !errors.IsType(err, errors.TypeInvalidInput) {
		t.Errorf("unknown kind: expected invalid input, got %v", err)
	}
}

func TestToAbsolutePa(t *testing.T) {
	tests := []struct {
		value float64
		unit  string
		mode  PressureMode
		want  float64
	}{
		{10, "bar", Absolute, 1e6},
		{10, "bar", Gauge, 1e6 + StandardAtmospherePa},
		{10, "bar(g)", Absolute, 1e6 + StandardAtmospherePa},
		{10, "barg", Gauge, 1e6 + StandardAtmospherePa},
		{0, "psig", Absolute, StandardAtmospherePa},
	}
	for _, tt := range tests {
		got, err := ToAbsolutePa(tt.value, tt.unit, tt.mode)
		if err != nil {
			t.Fatal(err)
		}
		if !scalar.EqualWithinRel(got, tt.want, 1e-12) {
			t.Errorf("ToAbsolutePa(%v, %s, %s) = %v, want %v", tt.value, tt.unit, tt.mode, got, tt.want)
		}
	}
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		kind Kind
		in   string
		def  string
		want float64
	}{
		{KindPressure, "10 bar(a)", "", 1e6},
		{KindPressure, "9 bar(g)", "", 9e5 + StandardAtmospherePa},
		{KindTemperature, "250 C", "", 523.15},
		{KindLength, "100mm", "", 0.1},
		{KindLength, "1.5e-3 m", "", 1.5e-3},
		{KindLength, "50", "", 50},
		{KindLength, "4", "in", 0.1016},
		{KindMassFlow, "2 t/h", "", 2000 / 3600.0},
	}
	for _, tt := range tests {
		got, err := ParseQuantity(tt.kind, tt.in, tt.def)
		if err != nil {
			t.Fatalf("%q: %v", tt.in, err)
		}
		if !scalar.EqualWithinRel(got, tt.want, 1e-12) {
			t.Errorf("%q = %v, want %v", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", "bar", "ten bar", "10 parsec"} {
		if _, err := ParseQuantity(KindPressure, bad, ""); !errors.IsType(err, errors.TypeInvalidInput) {
			t.Errorf("%q: expected invalid input, got %v", bad, err)
		}
	}
}

func TestRoundAndFormat(t *testing.T) {
	if got := Round(1.23456, 2); got != 1.23 {
		t.Errorf("Round = %v", got)
	}
	if got := Round(2.5, 0); got != 3 {
		t.Errorf("Round half = %v", got)
	}
	s, err := Format(KindPressure, 12345, "kPa", 2)
	if err != nil {
		t.Fatal(err)
	}
	if s != "12.35 kPa" {
		t.Errorf("Format = %q", s)
	}
}

func TestParsePressure(t *testing.T) {
	tests := []struct {
		in   string
		def  string
		mode PressureMode
		want float64
	}{
		{"10 bar", "", Absolute, 1e6},
		{"10 bar", "", Gauge, 1e6 + StandardAtmospherePa},
		{"10 bar(g)", "", Gauge, 1e6 + StandardAtmospherePa},
		{"200000", "", Absolute, 2e5},
		{"5", "bar", Gauge, 5e5 + StandardAtmospherePa},
	}
	for _, tt := range tests {
		got, err := ParsePressure(tt.in, tt.def, tt.mode)
		if err != nil {
			t.Fatalf("%q: %v", tt.in, err)
		}
		if !scalar.EqualWithinRel(got, tt.want, 1e-12) {
			t.Errorf("ParsePressure(%q, %q, %s) = %v, want %v", tt.in, tt.def, tt.mode, got, tt.want)
		}
	}
}
