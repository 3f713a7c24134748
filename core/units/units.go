// Package units converts between display units and the canonical SI values
// used everywhere inside the core. Conversions happen only at the edges
// (CLI flags, HTTP payloads, case files).
//
// Canonical units: Pa (absolute), K, K (difference), m, m/s, Pa·s, kg/m3,
// m3/s and kg/s.
package units

import (
	"sort"
	"strings"

	"steam-toolbox/internal/errors"
)

// Kind is a physical quantity
type Kind string

const (
	KindPressure        Kind = "pressure"
	KindTemperature     Kind = "temperature"
	KindTemperatureDiff Kind = "temperature-difference"
	KindLength          Kind = "length"
	KindVelocity        Kind = "velocity"
	KindViscosity       Kind = "viscosity"
	KindDensity         Kind = "density"
	KindVolumetricFlow  Kind = "volumetric-flow"
	KindMassFlow        Kind = "mass-flow"
)

// Unit maps a display value to SI as value·Factor + Offset
type Unit struct {
	Symbol string  `json:"symbol"`
	Kind   Kind    `json:"kind"`
	Factor float64 `json:"factor"`
	Offset float64 `json:"offset,omitempty"`

	// Gauge marks pressure units measured relative to atmosphere
	Gauge bool `json:"gauge,omitempty"`
}

// ToSI converts a value in this unit to SI
func (u Unit) ToSI(v float64) float64 {
	return v*u.Factor + u.Offset
}

// FromSI converts an SI value to this unit
func (u Unit) FromSI(v float64) float64 {
	return (v - u.Offset) / u.Factor
}

// StandardAtmospherePa is the reference for gauge pressure
const StandardAtmospherePa = 101325.0

const (
	inch   = 0.0254
	foot   = 0.3048
	pound  = 0.45359237
	gallon = 3.785411784e-3
	psi    = 6894.757293168
	kgf    = 9.80665
)

// registry[kind][alias] -> unit. Aliases are lower case.
var registry = map[Kind]map[string]Unit{}

func register(kind Kind, symbol string, factor, offset float64, aliases ...string) {
	m, ok := registry[kind]
	if !ok {
		m = map[string]Unit{}
		registry[kind] = m
	}
	u := Unit{Symbol: symbol, Kind: kind, Factor: factor, Offset: offset}
	m[strings.ToLower(symbol)] = u
	for _, a := range aliases {
		m[strings.ToLower(a)] = u
	}
}

func registerGauge(symbol string, factor float64, aliases ...string) {
	register(KindPressure, symbol, factor, StandardAtmospherePa, aliases...)
	u := registry[KindPressure][strings.ToLower(symbol)]
	u.Gauge = true
	registry[KindPressure][strings.ToLower(symbol)] = u
	for _, a := range aliases {
		registry[KindPressure][strings.ToLower(a)] = u
	}
}

func init() {
	register(KindPressure, "Pa", 1, 0, "pa(a)", "pascal")
	register(KindPressure, "kPa", 1e3, 0, "kpa(a)", "kpaa")
	register(KindPressure, "MPa", 1e6, 0, "mpa(a)", "mpaa")
	register(KindPressure, "bar", 1e5, 0, "bar(a)", "bara")
	register(KindPressure, "mbar", 1e2, 0, "mbar(a)")
	register(KindPressure, "kgf/cm2", kgf*1e4, 0, "kgf/cm²", "kg/cm2", "kg/cm2(a)")
	register(KindPressure, "psi", psi, 0, "psia", "psi(a)")
	register(KindPressure, "atm", StandardAtmospherePa, 0)
	register(KindPressure, "mmHg", 133.322387415, 0, "mmhg(a)", "torr")
	registerGauge("kPa(g)", 1e3, "kpag")
	registerGauge("MPa(g)", 1e6, "mpag")
	registerGauge("bar(g)", 1e5, "barg")
	registerGauge("kgf/cm2(g)", kgf*1e4, "kg/cm2(g)", "kg/cm2g")
	registerGauge("psig", psi, "psi(g)")

	register(KindTemperature, "K", 1, 0, "kelvin")
	register(KindTemperature, "°C", 1, 273.15, "c", "degc", "celsius")
	register(KindTemperature, "°F", 5.0/9.0, 459.67*5.0/9.0, "f", "degf", "fahrenheit")
	register(KindTemperature, "°R", 5.0/9.0, 0, "r", "degr", "rankine")

	register(KindTemperatureDiff, "K", 1, 0, "kelvin", "°c", "c", "delta-c")
	register(KindTemperatureDiff, "°F", 5.0/9.0, 0, "f", "°r", "r", "delta-f")

	register(KindLength, "m", 1, 0, "meter", "metre")
	register(KindLength, "mm", 1e-3, 0)
	register(KindLength, "cm", 1e-2, 0)
	register(KindLength, "km", 1e3, 0)
	register(KindLength, "in", inch, 0, "inch", "\"")
	register(KindLength, "ft", foot, 0, "feet", "'")
	register(KindLength, "yd", 0.9144, 0)

	register(KindVelocity, "m/s", 1, 0)
	register(KindVelocity, "ft/s", foot, 0, "fps")
	register(KindVelocity, "km/h", 1/3.6, 0, "kph")

	register(KindViscosity, "Pa·s", 1, 0, "pa.s", "pas", "pa s", "pa-s")
	register(KindViscosity, "cP", 1e-3, 0, "centipoise")
	register(KindViscosity, "mPa·s", 1e-3, 0, "mpa.s", "mpas", "mpa s")
	register(KindViscosity, "μPa·s", 1e-6, 0, "upa.s", "upas", "µpa·s")

	register(KindDensity, "kg/m3", 1, 0, "kg/m³")
	register(KindDensity, "g/cm3", 1e3, 0, "g/cm³", "g/ml")
	register(KindDensity, "lb/ft3", pound/(foot*foot*foot), 0, "lb/ft³")

	register(KindVolumetricFlow, "m3/s", 1, 0, "m³/s")
	register(KindVolumetricFlow, "m3/h", 1/3600.0, 0, "m³/h")
	register(KindVolumetricFlow, "L/s", 1e-3, 0, "l/s")
	register(KindVolumetricFlow, "L/min", 1e-3/60, 0, "l/min", "lpm")
	register(KindVolumetricFlow, "gpm", gallon/60, 0)
	register(KindVolumetricFlow, "cfm", foot*foot*foot/60, 0)

	register(KindMassFlow, "kg/s", 1, 0)
	register(KindMassFlow, "kg/h", 1/3600.0, 0)
	register(KindMassFlow, "t/h", 1000/3600.0, 0, "ton/h", "tph")
	register(KindMassFlow, "lb/h", pound/3600, 0, "lbm/h", "pph")
}

// ParseKind parses a quantity name
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := registry[k]; !ok {
		return "", errors.InvalidInput("kind", s, "must be one of "+strings.Join(kindNames(), ", "))
	}
	return k, nil
}

// Lookup returns the unit registered for symbol under kind
func Lookup(kind Kind, symbol string) (Unit, error) {
	m, ok := registry[kind]
	if !ok {
		return Unit{}, errors.InvalidInput("kind", string(kind), "is not a known quantity")
	}
	u, ok := m[strings.ToLower(strings.TrimSpace(symbol))]
	if !ok {
		return Unit{}, errors.InvalidInput(string(kind)+" unit", symbol, "is not recognised")
	}
	return u, nil
}

// ToSI converts value in unit to the canonical SI unit of kind
func ToSI(kind Kind, value float64, unit string) (float64, error) {
	u, err := Lookup(kind, unit)
	if err != nil {
		return 0, err
	}
	return u.ToSI(value), nil
}

// FromSI converts an SI value of kind to unit
func FromSI(kind Kind, value float64, unit string) (float64, error) {
	u, err := Lookup(kind, unit)
	if err != nil {
		return 0, err
	}
	return u.FromSI(value), nil
}

// Convert converts value between two units of the same kind
func Convert(kind Kind, value float64, from, to string) (float64, error) {
	src, err := Lookup(kind, from)
	if err != nil {
		return 0, err
	}
	dst, err := Lookup(kind, to)
	if err != nil {
		return 0, err
	}
	return dst.FromSI(src.ToSI(value)), nil
}

// Units lists the canonical symbols registered for kind, sorted
func Units(kind Kind) []string {
	seen := map[string]bool{}
	for _, u := range registry[kind] {
		seen[u.Symbol] = true
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Kinds lists all known quantities, sorted
func Kinds() []Kind {
	out := make([]Kind, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func kindNames() []string {
	ks := Kinds()
	out := make([]string, len(ks))
	for i, k := range ks {
		out[i] = string(k)
	}
	return out
}

// ParsePressureUnit parses a pressure unit symbol
func ParsePressureUnit(s string) (Unit, error) { return Lookup(KindPressure, s) }

// ParseTemperatureUnit parses a temperature unit symbol
func ParseTemperatureUnit(s string) (Unit, error) { return Lookup(KindTemperature, s) }

// ParseLengthUnit parses a length unit symbol
func ParseLengthUnit(s string) (Unit, error) { return Lookup(KindLength, s) }

// ParseViscosityUnit parses a dynamic viscosity unit symbol
func ParseViscosityUnit(s string) (Unit, error) { return Lookup(KindViscosity, s) }

// ParseDensityUnit parses a density unit symbol
func ParseDensityUnit(s string) (Unit, error) { return Lookup(KindDensity, s) }

// ParseVolumetricFlowUnit parses a volumetric flow unit symbol
func ParseVolumetricFlowUnit(s string) (Unit, error) { return Lookup(KindVolumetricFlow, s) }

// ParseMassFlowUnit parses a mass flow unit symbol
func ParseMassFlowUnit(s string) (Unit, error) { return Lookup(KindMassFlow, s) }
