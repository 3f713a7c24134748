// Package result defines the immutable output of a pressure-drop calculation.
// A SolveResult echoes every property and intermediate value used so callers
// can audit the assumptions behind the number they display.
package result

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"steam-toolbox/core/fittings"
	"steam-toolbox/core/types"
)

// WarningCode classifies a non-fatal concern attached to a result
type WarningCode string

const (
	// WarnRoughnessOutOfDomain flags ε/D outside [0, 0.05]
	WarnRoughnessOutOfDomain WarningCode = "roughness-out-of-domain"

	// WarnTransitional flags 2300 < Re < 4000 evaluated with a turbulent correlation
	WarnTransitional WarningCode = "transitional-regime"

	// WarnCorrelationSubstituted flags Petukhov replaced by Haaland outside its band
	WarnCorrelationSubstituted WarningCode = "correlation-substituted"

	// WarnCompressibility flags Mach above the incompressible threshold
	WarnCompressibility WarningCode = "compressibility"

	// WarnPropertyFallback flags manual properties used after estimation failed
	WarnPropertyFallback WarningCode = "property-fallback"

	// WarnCreepingFlow flags a Reynolds number so small that 64/Re overflows
	WarnCreepingFlow WarningCode = "creeping-flow"
)

// Warning is an out-of-domain or accuracy concern; never an error
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
	Field   string      `json:"field,omitempty"`
	Value   float64     `json:"value,omitempty"`
	Bound   string      `json:"bound,omitempty"`
}

// SolveResult is the caller-facing artifact of one calculation
type SolveResult struct {
	// Inputs echoed back
	Fluid    types.FluidSpec    `json:"fluid"`
	Geometry types.PipeGeometry `json:"geometry"`
	Flow     types.FlowInput    `json:"flow"`

	// Properties is the density/viscosity used and where it came from
	Properties types.ResolvedProperties `json:"properties"`

	// Flow quantities
	MassFlowKgS       float64 `json:"mass_flow_kg_s"`
	VolumetricFlowM3S float64 `json:"volumetric_flow_m3_s"`
	VelocityMS        float64 `json:"velocity_m_s"`
	DynamicPressurePa float64 `json:"dynamic_pressure_pa"`

	// Regime
	Reynolds          float64           `json:"reynolds"`
	RelativeRoughness float64           `json:"relative_roughness"`
	FrictionFactor    float64           `json:"friction_factor"`
	Regime            types.Regime      `json:"regime"`
	Correlation       types.Correlation `json:"correlation"`

	// Lengths
	Fittings     fittings.Contribution `json:"fittings"`
	TotalLengthM float64               `json:"total_length_m"`

	// PressureDropPa is the Darcy-Weisbach loss over TotalLengthM
	PressureDropPa float64 `json:"pressure_drop_pa"`

	// PressureDropPerMeterPa is PressureDropPa over the straight length
	PressureDropPerMeterPa float64 `json:"pressure_drop_per_m_pa"`

	// Mach is nil when no speed of sound was supplied
	Mach           *float64 `json:"mach,omitempty"`
	SpeedOfSoundMS *float64 `json:"speed_of_sound_m_s,omitempty"`

	Warnings []Warning `json:"warnings,omitempty"`
}

// FlowRegime returns the regime portion of the result
func (r *SolveResult) FlowRegime() types.FlowRegimeResult {
	return types.FlowRegimeResult{
		Reynolds:       r.Reynolds,
		FrictionFactor: r.FrictionFactor,
		Regime:         r.Regime,
		Correlation:    r.Correlation,
	}
}

// PressureDropPerMeter returns ΔP divided by the straight length, or 0 for zero length
func (r *SolveResult) PressureDropPerMeter() float64 {
	if r.Geometry.LengthM <= 0 {
		return 0
	}
	return r.PressureDropPa / r.Geometry.LengthM
}

// HasMach reports whether a Mach number was computed
func (r *SolveResult) HasMach() bool {
	return r.Mach != nil
}

// HasWarning reports whether a warning with the given code is attached
func (r *SolveResult) HasWarning(code WarningCode) bool {
	for _, w := range r.Warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}

// Fingerprint returns a deterministic hash of the full result.
// Identical inputs produce identical fingerprints.
func (r *SolveResult) Fingerprint() string {
	data, err := json.Marshal(r)
	if err != nil {
		return ""
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
