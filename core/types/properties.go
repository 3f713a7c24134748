// Package types - Resolved properties and flow regime
package types

import (
	"strings"

	"steam-toolbox/internal/errors"
)

// PropertySource records where density and viscosity came from
type PropertySource string

const (
	SourceEstimated      PropertySource = "estimated"
	SourceManual         PropertySource = "manual"
	SourceManualFallback PropertySource = "manual-fallback"
)

// ResolvedProperties are the density and viscosity used by a calculation
type ResolvedProperties struct {
	DensityKgM3  float64        `json:"density_kg_m3"`
	ViscosityPaS float64        `json:"viscosity_pa_s"`
	Source       PropertySource `json:"source"`

	// Model names the estimation path (e.g. "if97-region2"); empty for manual values
	Model string `json:"model,omitempty"`

	// Detail explains why estimation was skipped or failed
	Detail string `json:"detail,omitempty"`
}

// Regime is the flow regime classification
type Regime string

const (
	RegimeNone         Regime = "none"
	RegimeLaminar      Regime = "laminar"
	RegimeTransitional Regime = "transitional"
	RegimeTurbulent    Regime = "turbulent"
)

// Correlation selects the turbulent friction-factor correlation
type Correlation string

const (
	// CorrelationAuto uses Petukhov for hydraulically smooth pipe, Haaland otherwise
	CorrelationAuto     Correlation = "auto"
	CorrelationHaaland  Correlation = "haaland"
	CorrelationPetukhov Correlation = "petukhov"
	CorrelationLaminar  Correlation = "laminar"
	CorrelationNone     Correlation = "none"
)

// ParseCorrelation parses a correlation name; "" means auto
func ParseCorrelation(s string) (Correlation, error) {
	switch c := Correlation(strings.ToLower(strings.TrimSpace(s))); c {
	case "":
		return CorrelationAuto, nil
	case CorrelationAuto, CorrelationHaaland, CorrelationPetukhov:
		return c, nil
	}
	return "", errors.InvalidInput("correlation", s, "must be auto, haaland or petukhov")
}

// FlowRegimeResult is the outcome of the friction factor engine
type FlowRegimeResult struct {
	Reynolds       float64     `json:"reynolds"`
	FrictionFactor float64     `json:"friction_factor"`
	Regime         Regime      `json:"regime"`
	Correlation    Correlation `json:"correlation"`
}
