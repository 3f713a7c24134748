// Package friction selects and evaluates the Darcy friction factor by flow regime.
//
// Regime boundaries:
//
//	Re = 0            degenerate, f = 0
//	0 < Re <= 2300    laminar, f = 64/Re
//	2300 < Re < 4000  transitional, turbulent correlation plus a warning
//	Re >= 4000        turbulent (Haaland, or Petukhov for smooth pipe)
//
// The transitional band is a hard switch to the turbulent correlation; no
// interpolation across the boundary is attempted.
package friction

import (
	"fmt"
	"math"

	"steam-toolbox/core/result"
	"steam-toolbox/core/types"
	"steam-toolbox/internal/errors"
)

const (
	// LaminarLimit is the highest Reynolds number treated as laminar
	LaminarLimit = 2300.0

	// TurbulentLimit is the lowest Reynolds number treated as fully turbulent
	TurbulentLimit = 4000.0

	// PetukhovMin and PetukhovMax bound the Petukhov correlation
	PetukhovMin = 3000.0
	PetukhovMax = 5e6

	// SmoothThreshold is the ε/D at or below which auto selection uses Petukhov
	SmoothThreshold = 1e-9
)

// FrictionFactor evaluates the default (auto) correlation and returns only f and the regime
func FrictionFactor(reynolds, relativeRoughness float64) (float64, types.Regime, error) {
	r, _, err := Evaluate(reynolds, relativeRoughness, types.CorrelationAuto)
	if err != nil {
		return 0, "", err
	}
	return r.FrictionFactor, r.Regime, nil
}

// Evaluate returns the friction factor, regime and correlation used for the
// given Reynolds number and relative roughness. Out-of-domain roughness and
// correlation substitutions are reported as warnings, not errors.
func Evaluate(reynolds, relativeRoughness float64, correlation types.Correlation) (types.FlowRegimeResult, []result.Warning, error) {
	if math.IsNaN(reynolds) || math.IsInf(reynolds, 0) || reynolds < 0 {
		return types.FlowRegimeResult{}, nil, errors.InvalidInput("reynolds", reynolds, "must be finite and >= 0")
	}
	if math.IsNaN(relativeRoughness) || math.IsInf(relativeRoughness, 0) || relativeRoughness < 0 {
		return types.FlowRegimeResult{}, nil, errors.InvalidInput("relative roughness", relativeRoughness, "must be finite and >= 0")
	}
	if correlation == "" {
		correlation = types.CorrelationAuto
	}
	switch correlation {
	case types.CorrelationAuto, types.CorrelationHaaland, types.CorrelationPetukhov:
	default:
		return types.FlowRegimeResult{}, nil, errors.InvalidInput("correlation", string(correlation), "must be auto, haaland or petukhov")
	}

	var warnings []result.Warning
	if relativeRoughness > types.MaxRelativeRoughness {
		warnings = append(warnings, result.Warning{
			Code:    result.WarnRoughnessOutOfDomain,
			Message: fmt.Sprintf("relative roughness %.4g is outside the correlation domain [0, %.2f]", relativeRoughness, types.MaxRelativeRoughness),
			Field:   "relative_roughness",
			Value:   relativeRoughness,
			Bound:   "<= 0.05",
		})
	}

	out := types.FlowRegimeResult{Reynolds: reynolds}
	switch {
	case reynolds == 0:
		out.Regime = types.RegimeNone
		out.Correlation = types.CorrelationNone
		return out, warnings, nil

	case reynolds <= LaminarLimit:
		out.Regime = types.RegimeLaminar
		out.Correlation = types.CorrelationLaminar
		out.FrictionFactor = Laminar(reynolds)
		return out, warnings, nil

	case reynolds < TurbulentLimit:
		out.Regime = types.RegimeTransitional
		warnings = append(warnings, result.Warning{
			Code:    result.WarnTransitional,
			Message: fmt.Sprintf("Re %.0f is in the transitional band (2300, 4000); turbulent correlation applied", reynolds),
			Field:   "reynolds",
			Value:   reynolds,
			Bound:   "2300 < Re < 4000",
		})

	default:
		out.Regime = types.RegimeTurbulent
	}

	if relativeRoughness/3.7+6.9/reynolds >= 1 {
		return types.FlowRegimeResult{}, nil, errors.InvalidInput("relative roughness", relativeRoughness,
			fmt.Sprintf("leaves no Haaland solution at Re %.0f (needs ε/D/3.7 + 6.9/Re < 1)", reynolds)).
			WithContext("reynolds", reynolds)
	}

	f, used, w := turbulent(reynolds, relativeRoughness, correlation)
	out.FrictionFactor = f
	out.Correlation = used
	if w != nil {
		warnings = append(warnings, *w)
	}
	return out, warnings, nil
}

func turbulent(re, rr float64, c types.Correlation) (float64, types.Correlation, *result.Warning) {
	want := c
	if c == types.CorrelationAuto {
		want = types.CorrelationHaaland
		if rr <= SmoothThreshold {
			want = types.CorrelationPetukhov
		}
	}

	if want == types.CorrelationPetukhov {
		if f, ok := Petukhov(re); ok {
			return f, types.CorrelationPetukhov, nil
		}
		return Haaland(re, rr), types.CorrelationHaaland, &result.Warning{
			Code:    result.WarnCorrelationSubstituted,
			Message: fmt.Sprintf("Petukhov is valid for 3000 < Re < 5e6; Re %.0f evaluated with Haaland", re),
			Field:   "reynolds",
			Value:   re,
			Bound:   "3000 < Re < 5e6",
		}
	}
	return Haaland(re, rr), types.CorrelationHaaland, nil
}

// Laminar returns 64/Re
func Laminar(re float64) float64 {
	return 64 / re
}

// Haaland solves 1/√f = −1.8·log10((ε/D)/3.7 + 6.9/Re) in closed form
func Haaland(re, relativeRoughness float64) float64 {
	invSqrtF := -1.8 * math.Log10(relativeRoughness/3.7+6.9/re)
	return 1 / (invSqrtF * invSqrtF)
}

// Petukhov returns (0.79·ln Re − 1.64)^−2 and whether Re is inside 3000 < Re < 5e6
func Petukhov(re float64) (float64, bool) {
	if re <= PetukhovMin || re >= PetukhovMax {
		return 0, false
	}
	d := 0.79*math.Log(re) - 1.64
	return 1 / (d * d), true
}
