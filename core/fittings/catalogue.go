package fittings

import (
	"sort"
	"strings"

	"steam-toolbox/core/types"
	"steam-toolbox/internal/errors"
)

// Standard describes a catalogued fitting with a typical fully-turbulent K
type Standard struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	K           float64 `json:"k"`
}

// Typical values for screwed/flanged steel fittings in fully turbulent flow.
var standards = map[string]Standard{
	"elbow-90":       {Name: "elbow-90", Description: "90° standard elbow", K: 0.75},
	"elbow-90-long":  {Name: "elbow-90-long", Description: "90° long-radius elbow", K: 0.45},
	"elbow-45":       {Name: "elbow-45", Description: "45° standard elbow", K: 0.35},
	"bend-180":       {Name: "bend-180", Description: "180° return bend", K: 1.5},
	"tee-run":        {Name: "tee-run", Description: "tee, flow through run", K: 0.4},
	"tee-branch":     {Name: "tee-branch", Description: "tee, flow through branch", K: 1.0},
	"gate-valve":     {Name: "gate-valve", Description: "gate valve, fully open", K: 0.17},
	"globe-valve":    {Name: "globe-valve", Description: "globe valve, fully open", K: 6.0},
	"ball-valve":     {Name: "ball-valve", Description: "ball valve, fully open", K: 0.05},
	"check-swing":    {Name: "check-swing", Description: "swing check valve", K: 2.0},
	"strainer-y":     {Name: "strainer-y", Description: "Y-strainer, clean", K: 3.0},
	"entrance-sharp": {Name: "entrance-sharp", Description: "sharp-edged pipe entrance", K: 0.5},
	"exit":           {Name: "exit", Description: "pipe exit to vessel", K: 1.0},
}

// Lookup returns the catalogued fitting with the given name
func Lookup(name string) (Standard, bool) {
	s, ok := standards[strings.ToLower(strings.TrimSpace(name))]
	return s, ok
}

// Entry builds a K-factor entry for a catalogued fitting
func Entry(name string, count int) (types.FittingEntry, error) {
	s, ok := Lookup(name)
	if !ok {
		return types.FittingEntry{}, errors.NotFound("fitting", name)
	}
	if count < 0 {
		return types.FittingEntry{}, errors.InvalidInput(name+" count", count, "must be >= 0")
	}
	e := types.KFactor(s.Name, s.K)
	if count > 0 {
		e.Count = count
	}
	return e, nil
}

// Catalogue returns all catalogued fittings sorted by name
func Catalogue() []Standard {
	out := make([]Standard, 0, len(standards))
	for _, s := range standards {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
