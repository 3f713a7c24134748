package if97

import "steam-toolbox/internal/errors"

// State is the density and viscosity of water or steam at a point
type State struct {
	Region       int
	PressurePa   float64
	TemperatureK float64
	DensityKgM3  float64
	ViscosityPaS float64
}

// Liquid evaluates compressed liquid water (Region 1) at (p, T)
func Liquid(pressurePa, temperatureK float64) (State, error) {
	v, err := Region1SpecificVolume(pressurePa, temperatureK)
	if err != nil {
		return State{}, err
	}
	return finish(1, pressurePa, temperatureK, v)
}

// Vapour evaluates steam (Region 2) at (p, T)
func Vapour(pressurePa, temperatureK float64) (State, error) {
	v, err := Region2SpecificVolume(pressurePa, temperatureK)
	if err != nil {
		return State{}, err
	}
	return finish(2, pressurePa, temperatureK, v)
}

// SaturatedLiquid evaluates liquid on the saturation line at pressure p.
// Limited to p <= psat(623.15 K) where Region 1 still covers the saturated state.
func SaturatedLiquid(pressurePa float64) (State, error) {
	tsat, err := saturatedBelowRegion3(pressurePa)
	if err != nil {
		return State{}, err
	}
	return Liquid(pressurePa, tsat)
}

// SaturatedVapour evaluates dry saturated steam at pressure p.
// Limited to p <= psat(623.15 K) where Region 2 still covers the saturated state.
func SaturatedVapour(pressurePa float64) (State, error) {
	tsat, err := saturatedBelowRegion3(pressurePa)
	if err != nil {
		return State{}, err
	}
	return Vapour(pressurePa, tsat)
}

func saturatedBelowRegion3(pressurePa float64) (float64, error) {
	tsat, err := SaturationTemperature(pressurePa)
	if err != nil {
		return 0, err
	}
	if tsat > Region13TemperatureK {
		return 0, errors.PropertyEstimation("saturated state above 623.15 K lies in IF97 region 3, which is not supported").
			WithContext("field", "pressure").
			WithContext("value", pressurePa)
	}
	return tsat, nil
}

func finish(region int, p, t, v float64) (State, error) {
	if !(v > 0) {
		return State{}, errors.PropertyEstimation("non-physical specific volume").
			WithContext("value", v)
	}
	rho := 1 / v
	mu, err := Viscosity(rho, t)
	if err != nil {
		return State{}, err
	}
	return State{
		Region:       region,
		PressurePa:   p,
		TemperatureK: t,
		DensityKgM3:  rho,
		ViscosityPaS: mu,
	}, nil
}
