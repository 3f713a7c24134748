// Package types defines core domain types shared across all layers.
// This package contains NO calculation logic - only type definitions and
// input invariants. All quantities are canonical SI.
package types

import (
	"strings"

	"steam-toolbox/internal/errors"
)

// FluidClass identifies the family of fluid flowing in the pipe
type FluidClass string

const (
	FluidSteam      FluidClass = "steam"
	FluidAir        FluidClass = "air"
	FluidGas        FluidClass = "gas"
	FluidWater      FluidClass = "water"
	FluidCondensate FluidClass = "condensate"
)

// String returns the string representation of the fluid class
func (c FluidClass) String() string {
	return string(c)
}

// IsValid checks if the fluid class is known
func (c FluidClass) IsValid() bool {
	switch c {
	case FluidSteam, FluidAir, FluidGas, FluidWater, FluidCondensate:
		return true
	default:
		return false
	}
}

// IsCompressible reports whether the class is a gas or vapour
func (c FluidClass) IsCompressible() bool {
	switch c {
	case FluidSteam, FluidAir, FluidGas:
		return true
	default:
		return false
	}
}

// ParseFluidClass parses a case-insensitive fluid class name
func ParseFluidClass(s string) (FluidClass, error) {
	c := FluidClass(strings.ToLower(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", errors.InvalidInput("fluid", s, "must be one of steam, air, gas, water, condensate")
	}
	return c, nil
}

// PhaseHint refines the thermodynamic state the caller expects
type PhaseHint string

const (
	PhaseUnspecified PhaseHint = ""
	PhaseSaturated   PhaseHint = "saturated"
	PhaseSuperheated PhaseHint = "superheated"
	PhaseLiquid      PhaseHint = "liquid"
)

// String returns the string representation, "unspecified" for the zero value
func (h PhaseHint) String() string {
	if h == PhaseUnspecified {
		return "unspecified"
	}
	return string(h)
}

// ParsePhaseHint parses a case-insensitive phase hint; "" and "unspecified" map to PhaseUnspecified
func ParsePhaseHint(s string) (PhaseHint, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unspecified", "auto":
		return PhaseUnspecified, nil
	case "saturated", "sat":
		return PhaseSaturated, nil
	case "superheated", "sh":
		return PhaseSuperheated, nil
	case "liquid", "subcooled":
		return PhaseLiquid, nil
	}
	return "", errors.InvalidInput("phase", s, "must be one of saturated, superheated, liquid, unspecified")
}

// FluidSpec selects the fluid for one calculation
type FluidSpec struct {
	Class FluidClass `json:"class"`
	Phase PhaseHint  `json:"phase,omitempty"`
}

// Validate checks the fluid class is known
func (f FluidSpec) Validate() error {
	if !f.Class.IsValid() {
		return errors.InvalidInput("fluid", string(f.Class), "must be one of steam, air, gas, water, condensate")
	}
	return nil
}

// StatePoint is an absolute pressure / temperature pair
type StatePoint struct {
	PressurePa   float64 `json:"pressure_pa"`
	TemperatureK float64 `json:"temperature_k"`
}

// ManualProperties are caller-supplied fluid properties
type ManualProperties struct {
	DensityKgM3  float64 `json:"density_kg_m3"`
	ViscosityPaS float64 `json:"viscosity_pa_s"`
}

// ThermodynamicInput carries a state point, manual properties, or both.
// When both are present the state point is tried first and the manual
// values serve as fallback.
type ThermodynamicInput struct {
	State  *StatePoint       `json:"state,omitempty"`
	Manual *ManualProperties `json:"manual,omitempty"`
}

// Validate enforces the per-branch invariants
func (in ThermodynamicInput) Validate() error {
	if in.State == nil && in.Manual == nil {
		return errors.InvalidInput("thermodynamic input", "none", "requires pressure/temperature or manual density/viscosity")
	}
	if s := in.State; s != nil {
		if !isPositive(s.PressurePa) {
			return errors.InvalidInput("pressure", s.PressurePa, "must be > 0 Pa (absolute)")
		}
		if !isPositive(s.TemperatureK) {
			return errors.InvalidInput("temperature", s.TemperatureK, "must be above absolute zero")
		}
	}
	if m := in.Manual; m != nil {
		if !isPositive(m.DensityKgM3) {
			return errors.InvalidInput("density", m.DensityKgM3, "must be > 0 kg/m3")
		}
		if !isPositive(m.ViscosityPaS) {
			return errors.InvalidInput("viscosity", m.ViscosityPaS, "must be > 0 Pa.s")
		}
	}
	return nil
}
