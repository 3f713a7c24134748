package cmd

import (
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"steam-toolbox/adapters/input"
	"steam-toolbox/core/units"
	"steam-toolbox/internal/errors"
)

// inputFlags are the calculation flags shared by solve and size
type inputFlags struct {
	fluid, phase              string
	pressure, pressureMode    string
	temperature               string
	density, viscosity        float64
	diameter, length          string
	roughness                 string
	material, condition       string
	massFlow, volumetricFlow  string
	speedOfSound              float64
	correlation               string
	fittings                  []string
	withGeometry, withFitting bool
}

func (f *inputFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.fluid, "fluid", "", "fluid class (steam, water, condensate, air, gas)")
	fs.StringVar(&f.phase, "phase", "", "phase hint for steam and condensate (saturated, superheated)")
	fs.StringVarP(&f.pressure, "pressure", "p", "", `pressure with unit, e.g. "10 bar(g)"; bare numbers are Pa`)
	fs.StringVar(&f.pressureMode, "pressure-mode", "", "absolute or gauge for pressures without a gauge unit")
	fs.StringVarP(&f.temperature, "temperature", "t", "", `temperature with unit, e.g. "250 C"; bare numbers are K`)
	fs.Float64Var(&f.density, "density", 0, "manual density in kg/m3 (fallback when estimation fails)")
	fs.Float64Var(&f.viscosity, "viscosity", 0, "manual dynamic viscosity in Pa.s")
	fs.StringVar(&f.massFlow, "mass-flow", "", `mass flow with unit, e.g. "2 t/h"`)
	fs.StringVar(&f.volumetricFlow, "volumetric-flow", "", `volumetric flow with unit, e.g. "50 m3/h"`)
	if f.withGeometry {
		fs.StringVarP(&f.diameter, "diameter", "d", "", `internal diameter with unit, e.g. "100 mm"`)
		fs.StringVarP(&f.length, "length", "l", "", `pipe length with unit, e.g. "50 m"`)
		fs.StringVar(&f.roughness, "roughness", "", `absolute roughness with unit, e.g. "0.045 mm"`)
		fs.StringVar(&f.material, "material", "", "pipe material from the roughness catalogue")
		fs.StringVar(&f.condition, "condition", "", "pipe condition (new, aged)")
		fs.Float64Var(&f.speedOfSound, "speed-of-sound", 0, "speed of sound in m/s; enables the Mach number")
		fs.StringVar(&f.correlation, "correlation", "", "turbulent correlation (auto, haaland, petukhov)")
	}
	if f.withFitting {
		fs.StringArrayVar(&f.fittings, "fitting", nil, "fitting: NAME[:COUNT] from the catalogue, NAME=K or NAME=LENGTH (repeatable)")
	}
}

// toInput copies the flags the user set into an Input
func (f *inputFlags) toInput(fs *pflag.FlagSet) (input.Input, error) {
	var in input.Input
	str := func(name, v string) *string {
		if !fs.Changed(name) {
			return nil
		}
		return &v
	}
	num := func(name string, v float64) *float64 {
		if !fs.Changed(name) {
			return nil
		}
		return &v
	}

	in.Fluid = str("fluid", f.fluid)
	in.Phase = str("phase", f.phase)
	in.Pressure = str("pressure", f.pressure)
	in.PressureMode = str("pressure-mode", f.pressureMode)
	in.Temperature = str("temperature", f.temperature)
	in.Density = num("density", f.density)
	in.Viscosity = num("viscosity", f.viscosity)
	in.MassFlow = str("mass-flow", f.massFlow)
	in.VolumetricFlow = str("volumetric-flow", f.volumetricFlow)

	if f.withGeometry {
		in.Diameter = str("diameter", f.diameter)
		in.Length = str("length", f.length)
		in.Roughness = str("roughness", f.roughness)
		in.Material = str("material", f.material)
		in.Condition = str("condition", f.condition)
		in.SpeedOfSound = num("speed-of-sound", f.speedOfSound)
		in.Correlation = str("correlation", f.correlation)
	}
	for _, s := range f.fittings {
		fit, err := parseFitting(s)
		if err != nil {
			return in, err
		}
		in.Fittings = append(in.Fittings, fit)
	}
	return in, nil
}

// parseFitting parses NAME[:COUNT], NAME=K or NAME=LENGTH
func parseFitting(s string) (input.Fitting, error) {
	s = strings.TrimSpace(s)
	if name, value, ok := strings.Cut(s, "="); ok {
		name, value = strings.TrimSpace(name), strings.TrimSpace(value)
		if name == "" || value == "" {
			return input.Fitting{}, errors.InvalidInput("fitting", s, "must be NAME=K or NAME=LENGTH")
		}
		v, unit, err := units.SplitQuantity(value)
		if err != nil {
			return input.Fitting{}, errors.InvalidInput("fitting", s, "must be NAME=K or NAME=LENGTH")
		}
		if unit == "" {
			return input.Fitting{Name: name, K: &v}, nil
		}
		return input.Fitting{Name: name, EquivalentLength: &value}, nil
	}

	name, countStr, hasCount := strings.Cut(s, ":")
	name = strings.TrimSpace(name)
	if name == "" {
		return input.Fitting{}, errors.InvalidInput("fitting", s, "must name a fitting")
	}
	fit := input.Fitting{Name: name}
	if hasCount {
		n, err := strconv.Atoi(strings.TrimSpace(countStr))
		if err != nil {
			return input.Fitting{}, errors.InvalidInput("fitting count", countStr, "must be an integer")
		}
		fit.Count = &n
	}
	return fit, nil
}
