package property

import (
	"math"

	"steam-toolbox/core/if97"
	"steam-toolbox/core/types"
	"steam-toolbox/internal/errors"
)

// Phase names used in steam table lookups
const (
	PhaseCompressedLiquid = "compressed-liquid"
	PhaseSaturatedVapour  = "saturated-vapour"
	PhaseSuperheated      = "superheated"
)

// SaturationProperties are the two saturated states at one pressure
type SaturationProperties struct {
	TemperatureK       float64 `json:"temperature_k"`
	LiquidDensityKgM3  float64 `json:"liquid_density_kg_m3"`
	LiquidViscosityPaS float64 `json:"liquid_viscosity_pa_s"`
	VapourDensityKgM3  float64 `json:"vapour_density_kg_m3"`
	VapourViscosityPaS float64 `json:"vapour_viscosity_pa_s"`
}

// PointProperties are the properties at a given (p, T)
type PointProperties struct {
	TemperatureK float64 `json:"temperature_k"`
	Phase        string  `json:"phase"`
	DensityKgM3  float64 `json:"density_kg_m3"`
	ViscosityPaS float64 `json:"viscosity_pa_s"`
	Model        string  `json:"model"`
}

// SteamTable is a steam table lookup at one absolute pressure
type SteamTable struct {
	PressurePa float64               `json:"pressure_pa"`
	Saturation *SaturationProperties `json:"saturation,omitempty"`
	Point      *PointProperties      `json:"point,omitempty"`
}

// LookupSteam evaluates the saturation line at p and, when temperatureK is
// given, the state at (p, T). Above the critical pressure only the point
// lookup is available.
func LookupSteam(pressurePa float64, temperatureK *float64) (*SteamTable, error) {
	if !(pressurePa > 0) || math.IsInf(pressurePa, 0) {
		return nil, errors.InvalidInput("pressure", pressurePa, "must be > 0")
	}
	table := &SteamTable{PressurePa: pressurePa}

	tsat, satErr := if97.SaturationTemperature(pressurePa)
	if satErr == nil {
		liq, err := if97.SaturatedLiquid(pressurePa)
		if err == nil {
			vap, verr := if97.SaturatedVapour(pressurePa)
			err = verr
			if err == nil {
				table.Saturation = &SaturationProperties{
					TemperatureK:       tsat,
					LiquidDensityKgM3:  liq.DensityKgM3,
					LiquidViscosityPaS: liq.ViscosityPaS,
					VapourDensityKgM3:  vap.DensityKgM3,
					VapourViscosityPaS: vap.ViscosityPaS,
				}
			}
		}
		if err != nil && temperatureK == nil {
			return nil, err
		}
	} else if temperatureK == nil {
		return nil, satErr
	}

	if temperatureK == nil {
		return table, nil
	}

	t := *temperatureK
	if !(t > 0) || math.IsInf(t, 0) {
		return nil, errors.InvalidInput("temperature", t, "must be > 0 K")
	}

	fluid := types.FluidSpec{Class: types.FluidSteam}
	phase := PhaseSuperheated
	switch {
	case satErr != nil:
		// supercritical pressure: single-phase region 2 only
	case t < tsat-saturationMargin:
		fluid.Class, phase = types.FluidWater, PhaseCompressedLiquid
	case t <= tsat+saturationMargin:
		phase = PhaseSaturatedVapour
	}

	out := Default().Estimate(fluid, pressurePa, t)
	if out.Err != nil {
		return nil, out.Err
	}
	table.Point = &PointProperties{
		TemperatureK: t,
		Phase:        phase,
		DensityKgM3:  out.DensityKgM3,
		ViscosityPaS: out.ViscosityPaS,
		Model:        out.Model,
	}
	return table, nil
}
