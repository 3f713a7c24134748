// Package output provides output formatting interfaces.
// This package produces human and machine-readable outputs.
package output

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"steam-toolbox/core/result"
	"steam-toolbox/core/units"
)

// Format represents output format type
type Format string

const (
	// FormatTable is a human-readable boxed table
	FormatTable Format = "table"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"

	// FormatMarkdown is a markdown report
	FormatMarkdown Format = "markdown"
)

// ParseFormat parses a format name; "" and "cli" map to table
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", "cli", FormatTable:
		return FormatTable, nil
	case FormatJSON, FormatMarkdown:
		return Format(s), nil
	case "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unknown output format %q (want table, json or markdown)", s)
}

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render produces output for the given report
	Render(w io.Writer, report *Report) error
}

// Report is one or more calculation results prepared for display
type Report struct {
	// Cases are the calculations in input order
	Cases []CaseResult `json:"cases"`

	// Units are the display units; SI values are converted on render
	Units DisplayUnits `json:"units"`

	// Metadata contains execution context
	Metadata Metadata `json:"metadata"`
}

// CaseResult is a named result or the error that prevented it
type CaseResult struct {
	Name   string              `json:"name"`
	Result *result.SolveResult `json:"result,omitempty"`
	Error  string              `json:"error,omitempty"`
}

// Metadata contains execution context
type Metadata struct {
	// Timestamp is when the calculation was performed
	Timestamp string `json:"timestamp"`

	// Duration is how long the calculation took
	Duration string `json:"duration,omitempty"`

	// Version is the tool version
	Version string `json:"version"`

	// Source is the input source (flags, case file, http)
	Source string `json:"source,omitempty"`
}

// DisplayUnits selects the units used when rendering
type DisplayUnits struct {
	Pressure       string `json:"pressure" mapstructure:"pressure"`
	Length         string `json:"length" mapstructure:"length"`
	Diameter       string `json:"diameter" mapstructure:"diameter"`
	Velocity       string `json:"velocity" mapstructure:"velocity"`
	Density        string `json:"density" mapstructure:"density"`
	Viscosity      string `json:"viscosity" mapstructure:"viscosity"`
	MassFlow       string `json:"mass_flow" mapstructure:"mass_flow"`
	VolumetricFlow string `json:"volumetric_flow" mapstructure:"volumetric_flow"`
	Decimals       int32  `json:"decimals" mapstructure:"decimals"`
}

// DefaultDisplayUnits returns the units used when none are configured
func DefaultDisplayUnits() DisplayUnits {
	return DisplayUnits{
		Pressure:       "kPa",
		Length:         "m",
		Diameter:       "mm",
		Velocity:       "m/s",
		Density:        "kg/m3",
		Viscosity:      "cP",
		MassFlow:       "kg/h",
		VolumetricFlow: "m3/h",
		Decimals:       3,
	}
}

// Validate checks every display unit is known
func (u DisplayUnits) Validate() error {
	checks := []struct {
		kind units.Kind
		sym  string
	}{
		{units.KindPressure, u.Pressure},
		{units.KindLength, u.Length},
		{units.KindLength, u.Diameter},
		{units.KindVelocity, u.Velocity},
		{units.KindDensity, u.Density},
		{units.KindViscosity, u.Viscosity},
		{units.KindMassFlow, u.MassFlow},
		{units.KindVolumetricFlow, u.VolumetricFlow},
	}
	for _, c := range checks {
		if _, err := units.Lookup(c.kind, c.sym); err != nil {
			return err
		}
	}
	return nil
}

// quantity renders an SI value in the display unit, falling back to SI on a bad unit
func (u DisplayUnits) quantity(kind units.Kind, si float64, unit string) string {
	s, err := units.Format(kind, si, unit, u.Decimals)
	if err != nil {
		return fmt.Sprintf("%g", si)
	}
	return s
}

// Registry holds formatters by format
type Registry struct {
	mu         sync.RWMutex
	formatters map[Format]Formatter
}

// NewRegistry creates a registry with the table, json and markdown formatters
func NewRegistry() *Registry {
	r := &Registry{formatters: make(map[Format]Formatter)}
	_ = r.Register(&TableFormatter{})
	_ = r.Register(&JSONFormatter{Indent: true})
	_ = r.Register(&MarkdownFormatter{})
	return r
}

// Register adds a formatter to the registry
func (r *Registry) Register(f Formatter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.formatters[f.Format()]; exists {
		return fmt.Errorf("formatter for %s already registered", f.Format())
	}
	r.formatters[f.Format()] = f
	return nil
}

// GetFormatter returns a formatter for a format type
func (r *Registry) GetFormatter(format Format) (Formatter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.formatters[format]
	return f, ok
}

// GetAll returns all registered formatters sorted by format
func (r *Registry) GetAll() []Formatter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Formatter, 0, len(r.formatters))
	for _, f := range r.formatters {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Format() < out[j].Format() })
	return out
}

// Render looks up the formatter for format and renders report
func Render(w io.Writer, format Format, report *Report) error {
	f, ok := NewRegistry().GetFormatter(format)
	if !ok {
		return fmt.Errorf("no formatter for %s", format)
	}
	return f.Render(w, report)
}
