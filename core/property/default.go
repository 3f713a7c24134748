package property

import (
	"fmt"
	"math"

	"steam-toolbox/core/if97"
	"steam-toolbox/core/types"
	"steam-toolbox/internal/errors"
)

// Model names reported in ResolvedProperties.Model
const (
	ModelIF97Region1        = "if97-region1"
	ModelIF97Region2        = "if97-region2"
	ModelIF97SaturatedLiq   = "if97-saturated-liquid"
	ModelIF97SaturatedVap   = "if97-saturated-vapour"
	ModelIdealGasSutherland = "ideal-gas-sutherland"
)

// saturationMargin separates superheated from saturated steam when no phase hint is given
const saturationMargin = 1e-6

type defaultEstimator struct{}

// Default returns the built-in estimator: IF97 for steam, water and
// condensate; ideal gas with Sutherland viscosity for air; nothing for gas.
func Default() Estimator {
	return defaultEstimator{}
}

func (defaultEstimator) Estimate(fluid types.FluidSpec, p, t float64) Outcome {
	switch fluid.Class {
	case types.FluidSteam:
		return steam(fluid.Phase, p, t)
	case types.FluidWater:
		return water(p, t)
	case types.FluidCondensate:
		return condensate(fluid.Phase, p, t)
	case types.FluidAir:
		return air(p, t)
	case types.FluidGas:
		return Failed(errors.PropertyEstimation("unsupported fluid: gas has no property model, supply density and viscosity"))
	default:
		return Failed(errors.PropertyEstimation(fmt.Sprintf("unsupported fluid %q", fluid.Class)))
	}
}

func steam(hint types.PhaseHint, p, t float64) Outcome {
	if hint == types.PhaseLiquid {
		return Failed(errors.PropertyEstimation("phase hint liquid is not valid for steam"))
	}

	tsat, err := if97.SaturationTemperature(p)
	if err != nil {
		// Above the critical pressure only the single-phase region applies
		if p > if97.CriticalPressurePa && hint != types.PhaseSaturated {
			s, err := if97.Vapour(p, t)
			return outcome(ModelIF97Region2, s, err)
		}
		return Failed(err)
	}

	superheated := t > tsat+saturationMargin
	switch hint {
	case types.PhaseSuperheated:
		if t <= tsat {
			return Failed(errors.PropertyEstimation(
				fmt.Sprintf("superheated steam requires T > Tsat(p) = %.2f K (got %.2f K)", tsat, t)))
		}
		superheated = true
	case types.PhaseSaturated:
		superheated = false
	}

	if superheated {
		s, err := if97.Vapour(p, t)
		return outcome(ModelIF97Region2, s, err)
	}
	// Without a hint, a state clearly below Tsat is the liquid IF97 returns there
	if hint == types.PhaseUnspecified && t < tsat-saturationMargin {
		s, err := if97.Liquid(p, t)
		return outcome(ModelIF97Region1, s, err)
	}
	s, err := if97.SaturatedVapour(p)
	return outcome(ModelIF97SaturatedVap, s, err)
}

func water(p, t float64) Outcome {
	if tsat, err := if97.SaturationTemperature(p); err == nil && t > tsat {
		return Failed(errors.PropertyEstimation(
			fmt.Sprintf("water requires T <= Tsat(p) = %.2f K (got %.2f K); use steam for vapour", tsat, t)))
	}
	s, err := if97.Liquid(p, t)
	return outcome(ModelIF97Region1, s, err)
}

func condensate(hint types.PhaseHint, p, t float64) Outcome {
	if tsat, err := if97.SaturationTemperature(p); err == nil && (hint == types.PhaseSaturated || t >= tsat) {
		s, err := if97.SaturatedLiquid(p)
		return outcome(ModelIF97SaturatedLiq, s, err)
	}
	s, err := if97.Liquid(p, t)
	return outcome(ModelIF97Region1, s, err)
}

func outcome(model string, s if97.State, err error) Outcome {
	if err != nil {
		return Failed(err)
	}
	return Outcome{DensityKgM3: s.DensityKgM3, ViscosityPaS: s.ViscosityPaS, Model: model}
}

// Air constants
const (
	AirGasConstant     = 287.05
	AirMinTemperatureK = 150.0
	AirMaxTemperatureK = 2000.0

	sutherlandMu0 = 1.716e-5
	sutherlandT0  = 273.15
	sutherlandC   = 110.4
)

func air(p, t float64) Outcome {
	if t < AirMinTemperatureK || t > AirMaxTemperatureK {
		return Failed(errors.PropertyEstimation(
			fmt.Sprintf("air model valid for %.0f K <= T <= %.0f K (got %.2f K)", AirMinTemperatureK, AirMaxTemperatureK, t)).
			WithContext("field", "temperature").
			WithContext("value", t))
	}
	return Outcome{
		DensityKgM3:  AirDensity(p, t),
		ViscosityPaS: AirViscosity(t),
		Model:        ModelIdealGasSutherland,
	}
}

// AirDensity is the ideal-gas density p/(R·T)
func AirDensity(pressurePa, temperatureK float64) float64 {
	return pressurePa / (AirGasConstant * temperatureK)
}

// AirViscosity is Sutherland's law for air
func AirViscosity(temperatureK float64) float64 {
	return sutherlandMu0 * math.Pow(temperatureK/sutherlandT0, 1.5) * (sutherlandT0 + sutherlandC) / (temperatureK + sutherlandC)
}
