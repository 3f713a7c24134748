// Package fittings converts fitting losses into additional equivalent pipe length.
package fittings

import (
	"gonum.org/v1/gonum/floats"

	"steam-toolbox/core/types"
)

// Contribution is the extra length fittings add to a pipe run
type Contribution struct {
	// KSum is Σ K·count over K-factor entries
	KSum float64 `json:"k_sum"`

	// KEquivalentLengthM is KSum·D/f
	KEquivalentLengthM float64 `json:"k_equivalent_length_m"`

	// DirectLengthM is Σ Leq·count over equivalent-length entries
	DirectLengthM float64 `json:"direct_length_m"`

	// TotalLengthM is KEquivalentLengthM + DirectLengthM
	TotalLengthM float64 `json:"total_length_m"`

	// Count is the number of entries aggregated
	Count int `json:"count"`
}

// Aggregate sums fitting entries into an additional equivalent length.
// K entries convert with Leq = K·D/f; when f <= 0 (no flow) they add nothing.
// Entry order does not matter. Aggregate never fails; entries are assumed
// validated.
func Aggregate(entries []types.FittingEntry, diameterM, frictionFactor float64) Contribution {
	var (
		ks      = make([]float64, 0, len(entries))
		lengths = make([]float64, 0, len(entries))
	)
	for _, e := range entries {
		v := e.Value * e.Multiplier()
		switch e.Kind {
		case types.FittingK:
			ks = append(ks, v)
		case types.FittingEquivalentLength:
			lengths = append(lengths, v)
		}
	}

	c := Contribution{
		KSum:          floats.Sum(ks),
		DirectLengthM: floats.Sum(lengths),
		Count:         len(entries),
	}
	if frictionFactor > 0 && diameterM > 0 {
		c.KEquivalentLengthM = c.KSum * diameterM / frictionFactor
	}
	c.TotalLengthM = c.KEquivalentLengthM + c.DirectLengthM
	return c
}
