// Package types - Pipe, flow and fitting inputs
package types

import (
	"math"
	"strings"

	"steam-toolbox/internal/errors"
)

// MaxRelativeRoughness is the upper edge of the friction correlations' nominal domain
const MaxRelativeRoughness = 0.05

// PipeGeometry describes a straight run of pipe
type PipeGeometry struct {
	DiameterM  float64 `json:"diameter_m"`
	LengthM    float64 `json:"length_m"`
	RoughnessM float64 `json:"roughness_m"`
}

// Validate returns a geometry error for the first violated bound
func (g PipeGeometry) Validate() error {
	if !isPositive(g.DiameterM) {
		return errors.Geometry("diameter", g.DiameterM, "must be > 0 m")
	}
	if !isNonNegative(g.LengthM) {
		return errors.Geometry("length", g.LengthM, "must be >= 0 m")
	}
	if !isNonNegative(g.RoughnessM) {
		return errors.Geometry("roughness", g.RoughnessM, "must be >= 0 m")
	}
	return nil
}

// AreaM2 returns the internal cross-sectional area
func (g PipeGeometry) AreaM2() float64 {
	return math.Pi * g.DiameterM * g.DiameterM / 4
}

// RelativeRoughness returns ε/D
func (g PipeGeometry) RelativeRoughness() float64 {
	return g.RoughnessM / g.DiameterM
}

// FlowKind says how FlowInput.Value is expressed
type FlowKind string

const (
	FlowMass       FlowKind = "mass"       // kg/s
	FlowVolumetric FlowKind = "volumetric" // m3/s
)

// FlowInput is a mass or volumetric flow rate
type FlowInput struct {
	Kind  FlowKind `json:"kind"`
	Value float64  `json:"value"`
}

// MassFlow returns a mass flow input in kg/s
func MassFlow(kgPerS float64) FlowInput {
	return FlowInput{Kind: FlowMass, Value: kgPerS}
}

// VolumetricFlow returns a volumetric flow input in m3/s
func VolumetricFlow(m3PerS float64) FlowInput {
	return FlowInput{Kind: FlowVolumetric, Value: m3PerS}
}

// Validate returns a flow error for negative or undefined values
func (f FlowInput) Validate() error {
	if f.Kind != FlowMass && f.Kind != FlowVolumetric {
		return errors.Flow("flow kind", string(f.Kind), "must be mass or volumetric")
	}
	if !isNonNegative(f.Value) {
		return errors.Flow(string(f.Kind)+" flow", f.Value, "must be >= 0")
	}
	return nil
}

// IsZero reports a degenerate no-flow input
func (f FlowInput) IsZero() bool {
	return f.Value == 0
}

// VolumetricM3S converts to volumetric flow using density
func (f FlowInput) VolumetricM3S(densityKgM3 float64) float64 {
	if f.Kind == FlowVolumetric {
		return f.Value
	}
	return f.Value / densityKgM3
}

// MassKgS converts to mass flow using density
func (f FlowInput) MassKgS(densityKgM3 float64) float64 {
	if f.Kind == FlowMass {
		return f.Value
	}
	return f.Value * densityKgM3
}

// FittingKind distinguishes the two ways a fitting loss can be given
type FittingKind string

const (
	FittingK                FittingKind = "k-factor"
	FittingEquivalentLength FittingKind = "equivalent-length"
)

// FittingEntry is one line of a fitting list. Count multiplies Value;
// a zero Count is treated as one.
type FittingEntry struct {
	Label string      `json:"label,omitempty"`
	Kind  FittingKind `json:"kind"`
	Value float64     `json:"value"`
	Count int         `json:"count,omitempty"`
}

// KFactor returns a K-factor fitting entry
func KFactor(label string, k float64) FittingEntry {
	return FittingEntry{Label: label, Kind: FittingK, Value: k, Count: 1}
}

// EquivalentLength returns an equivalent-length fitting entry in metres
func EquivalentLength(label string, lengthM float64) FittingEntry {
	return FittingEntry{Label: label, Kind: FittingEquivalentLength, Value: lengthM, Count: 1}
}

// Multiplier returns the effective count
func (e FittingEntry) Multiplier() float64 {
	if e.Count <= 0 {
		return 1
	}
	return float64(e.Count)
}

// Validate checks the entry kind and value
func (e FittingEntry) Validate() error {
	name := e.Label
	if name == "" {
		name = "fitting"
	}
	switch e.Kind {
	case FittingK, FittingEquivalentLength:
	default:
		return errors.InvalidInput(name+" kind", string(e.Kind), "must be k-factor or equivalent-length")
	}
	if !isNonNegative(e.Value) {
		return errors.InvalidInput(name, e.Value, "must be >= 0")
	}
	if e.Count < 0 {
		return errors.InvalidInput(name+" count", e.Count, "must be >= 0")
	}
	return nil
}

// ParseFittingKind parses "k", "k-factor", "leq", "equivalent-length"
func ParseFittingKind(s string) (FittingKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "k", "k-factor", "kfactor":
		return FittingK, nil
	case "leq", "equivalent-length", "length":
		return FittingEquivalentLength, nil
	}
	return "", errors.InvalidInput("fitting kind", s, "must be k-factor or equivalent-length")
}

func isPositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

func isNonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}
