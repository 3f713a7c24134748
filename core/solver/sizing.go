package solver

import (
	"math"

	"steam-toolbox/core/types"
	"steam-toolbox/internal/errors"
)

// Sizing is the result of sizing a pipe for a target velocity
type Sizing struct {
	DiameterM  float64 `json:"diameter_m"`
	VelocityMS float64 `json:"velocity_m_s"`

	// Reynolds is 0 when no viscosity was supplied
	Reynolds float64 `json:"reynolds"`
}

// SizeForVelocity returns the internal diameter that carries flow at the
// target velocity: D = sqrt(4Q/(π·v)).
func SizeForVelocity(flow types.FlowInput, props types.ResolvedProperties, targetVelocityMS float64) (Sizing, error) {
	if err := flow.Validate(); err != nil {
		return Sizing{}, err
	}
	if !(props.DensityKgM3 > 0) || math.IsInf(props.DensityKgM3, 0) {
		return Sizing{}, errors.InvalidInput("density", props.DensityKgM3, "must be > 0 kg/m3")
	}
	if !(targetVelocityMS > 0) || math.IsInf(targetVelocityMS, 0) {
		return Sizing{}, errors.InvalidInput("target_velocity", targetVelocityMS, "must be > 0 m/s")
	}
	if flow.IsZero() {
		return Sizing{}, errors.Flow(string(flow.Kind)+" flow", flow.Value, "must be > 0 to size a pipe")
	}

	q := flow.VolumetricM3S(props.DensityKgM3)
	d := math.Sqrt(4 * q / (math.Pi * targetVelocityMS))
	v := q / (math.Pi * d * d / 4)

	s := Sizing{DiameterM: d, VelocityMS: v}
	if props.ViscosityPaS > 0 {
		s.Reynolds = props.DensityKgM3 * v * d / props.ViscosityPaS
	}
	return s, nil
}
