// Package property resolves the density and viscosity used by a calculation.
//
// Resolution policy:
//   - a pressure/temperature state is always tried first when present
//   - if estimation fails and manual values exist, the manual values are used
//     and the source is reported as manual-fallback
//   - manual values alone are returned as-is without estimation
//   - estimation failure without manual values is PropertyUnavailable
package property

import (
	"fmt"
	"math"

	"steam-toolbox/core/types"
	"steam-toolbox/internal/errors"
)

// Outcome is the explicit result of one estimation attempt.
// Err is non-nil when the state could not be evaluated.
type Outcome struct {
	DensityKgM3  float64
	ViscosityPaS float64
	Model        string
	Err          error
}

// Failed builds an Outcome carrying an estimation error
func Failed(err error) Outcome {
	return Outcome{Err: err}
}

// Estimator evaluates density and viscosity at a state point
type Estimator interface {
	Estimate(fluid types.FluidSpec, pressurePa, temperatureK float64) Outcome
}

// EstimatorFunc adapts a function to the Estimator interface
type EstimatorFunc func(fluid types.FluidSpec, pressurePa, temperatureK float64) Outcome

// Estimate calls f
func (f EstimatorFunc) Estimate(fluid types.FluidSpec, pressurePa, temperatureK float64) Outcome {
	return f(fluid, pressurePa, temperatureK)
}

// Resolve applies the resolution policy. A nil estimator uses Default().
func Resolve(fluid types.FluidSpec, in types.ThermodynamicInput, est Estimator) (types.ResolvedProperties, error) {
	if err := fluid.Validate(); err != nil {
		return types.ResolvedProperties{}, err
	}
	if err := in.Validate(); err != nil {
		return types.ResolvedProperties{}, err
	}
	if est == nil {
		est = Default()
	}

	if in.State == nil {
		return types.ResolvedProperties{
			DensityKgM3:  in.Manual.DensityKgM3,
			ViscosityPaS: in.Manual.ViscosityPaS,
			Source:       types.SourceManual,
		}, nil
	}

	out := est.Estimate(fluid, in.State.PressurePa, in.State.TemperatureK)
	estErr := checkOutcome(out)
	if estErr == nil {
		return types.ResolvedProperties{
			DensityKgM3:  out.DensityKgM3,
			ViscosityPaS: out.ViscosityPaS,
			Source:       types.SourceEstimated,
			Model:        out.Model,
		}, nil
	}

	if in.Manual != nil {
		return types.ResolvedProperties{
			DensityKgM3:  in.Manual.DensityKgM3,
			ViscosityPaS: in.Manual.ViscosityPaS,
			Source:       types.SourceManualFallback,
			Detail:       estErr.Error(),
		}, nil
	}

	return types.ResolvedProperties{}, errors.PropertyUnavailable(estErr).
		WithContext("fluid", fluid.Class.String()).
		WithContext("pressure_pa", in.State.PressurePa).
		WithContext("temperature_k", in.State.TemperatureK)
}

// checkOutcome normalises estimator output into a PropertyEstimation error or nil
func checkOutcome(out Outcome) error {
	if out.Err != nil {
		if errors.IsType(out.Err, errors.TypePropertyEstimation) {
			return out.Err
		}
		return errors.Wrap(errors.TypePropertyEstimation, "property estimation failed", out.Err)
	}
	if !finitePositive(out.DensityKgM3) || !finitePositive(out.ViscosityPaS) {
		return errors.PropertyEstimation(fmt.Sprintf("estimator returned non-physical values (density %v, viscosity %v)",
			out.DensityKgM3, out.ViscosityPaS))
	}
	return nil
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
