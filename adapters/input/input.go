// Package input converts caller-facing calculation inputs (unit strings,
// material names, catalogued fittings) into solver requests. Case files and
// the HTTP API both decode into Input.
package input

import (
	"strings"

	"steam-toolbox/core/catalog"
	"steam-toolbox/core/fittings"
	"steam-toolbox/core/solver"
	"steam-toolbox/core/types"
	"steam-toolbox/core/units"
	"steam-toolbox/internal/errors"
)

// Defaults fill values an input leaves out
type Defaults struct {
	Fluid        string
	Material     string
	PressureMode units.PressureMode
	Correlation  string

	// SpeedOfSound maps fluid class to m/s
	SpeedOfSound map[string]float64
}

// Builder resolves inputs against defaults and the material catalog
type Builder struct {
	defaults  Defaults
	materials *catalog.Catalog
}

// Option configures a Builder
type Option func(*Builder)

// WithMaterials replaces the material catalog used for roughness lookups
func WithMaterials(c *catalog.Catalog) Option {
	return func(b *Builder) { b.materials = c }
}

// NewBuilder creates a builder
func NewBuilder(defaults Defaults, opts ...Option) *Builder {
	b := &Builder{
		defaults:  defaults,
		materials: catalog.Global,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Input is one calculation as a caller writes it. Every field is optional
// so defaults can be merged field by field. String quantities carry their
// unit ("10 bar(g)", "100 mm"); bare numbers and the *_pa, *_k and *_m
// fields are SI.
type Input struct {
	Fluid        *string  `hcl:"fluid,optional" json:"fluid,omitempty"`
	Phase        *string  `hcl:"phase,optional" json:"phase,omitempty"`
	Pressure     *string  `hcl:"pressure,optional" json:"pressure,omitempty"`
	PressurePa   *float64 `hcl:"pressure_pa,optional" json:"pressure_pa,omitempty"`
	PressureMode *string  `hcl:"pressure_mode,optional" json:"pressure_mode,omitempty"`
	Temperature  *string  `hcl:"temperature,optional" json:"temperature,omitempty"`
	TemperatureK *float64 `hcl:"temperature_k,optional" json:"temperature_k,omitempty"`

	Density   *float64 `hcl:"density,optional" json:"density,omitempty"`
	Viscosity *float64 `hcl:"viscosity,optional" json:"viscosity,omitempty"`

	Diameter   *string  `hcl:"diameter,optional" json:"diameter,omitempty"`
	DiameterM  *float64 `hcl:"diameter_m,optional" json:"diameter_m,omitempty"`
	Length     *string  `hcl:"length,optional" json:"length,omitempty"`
	LengthM    *float64 `hcl:"length_m,optional" json:"length_m,omitempty"`
	Roughness  *string  `hcl:"roughness,optional" json:"roughness,omitempty"`
	RoughnessM *float64 `hcl:"roughness_m,optional" json:"roughness_m,omitempty"`
	Material   *string  `hcl:"material,optional" json:"material,omitempty"`
	Condition  *string  `hcl:"condition,optional" json:"condition,omitempty"`

	MassFlow       *string `hcl:"mass_flow,optional" json:"mass_flow,omitempty"`
	VolumetricFlow *string `hcl:"volumetric_flow,optional" json:"volumetric_flow,omitempty"`

	SpeedOfSound *float64 `hcl:"speed_of_sound,optional" json:"speed_of_sound,omitempty"`
	Correlation  *string  `hcl:"correlation,optional" json:"correlation,omitempty"`

	Fittings []Fitting `hcl:"fitting,block" json:"fittings,omitempty"`
}

// Fitting is a named fitting. With neither K nor EquivalentLength the name
// is looked up in the standard fittings catalogue.
type Fitting struct {
	Name             string   `hcl:"name,label" json:"name"`
	Count            *int     `hcl:"count,optional" json:"count,omitempty"`
	K                *float64 `hcl:"k,optional" json:"k,omitempty"`
	EquivalentLength *string  `hcl:"equivalent_length,optional" json:"equivalent_length,omitempty"`
}

func pick[T any](override, base *T) *T {
	if override != nil {
		return override
	}
	return base
}

// Merge overlays c on d. Fittings of d come first.
func (d Input) Merge(c Input) Input {
	out := Input{
		Fluid:          pick(c.Fluid, d.Fluid),
		Phase:          pick(c.Phase, d.Phase),
		Pressure:       pick(c.Pressure, d.Pressure),
		PressurePa:     pick(c.PressurePa, d.PressurePa),
		PressureMode:   pick(c.PressureMode, d.PressureMode),
		Temperature:    pick(c.Temperature, d.Temperature),
		TemperatureK:   pick(c.TemperatureK, d.TemperatureK),
		Density:        pick(c.Density, d.Density),
		Viscosity:      pick(c.Viscosity, d.Viscosity),
		Diameter:       pick(c.Diameter, d.Diameter),
		DiameterM:      pick(c.DiameterM, d.DiameterM),
		Length:         pick(c.Length, d.Length),
		LengthM:        pick(c.LengthM, d.LengthM),
		Roughness:      pick(c.Roughness, d.Roughness),
		RoughnessM:     pick(c.RoughnessM, d.RoughnessM),
		Material:       pick(c.Material, d.Material),
		Condition:      pick(c.Condition, d.Condition),
		MassFlow:       pick(c.MassFlow, d.MassFlow),
		VolumetricFlow: pick(c.VolumetricFlow, d.VolumetricFlow),
		SpeedOfSound:   pick(c.SpeedOfSound, d.SpeedOfSound),
		Correlation:    pick(c.Correlation, d.Correlation),
	}
	// a case that sets one flow kind replaces the default flow entirely
	if c.MassFlow != nil || c.VolumetricFlow != nil {
		out.MassFlow, out.VolumetricFlow = c.MassFlow, c.VolumetricFlow
	}
	// likewise for explicit roughness versus a material
	if c.Roughness != nil || c.RoughnessM != nil {
		out.Material, out.Condition = nil, nil
	} else if c.Material != nil {
		out.Roughness, out.RoughnessM = nil, nil
	}
	if c.Pressure != nil || c.PressurePa != nil {
		out.Pressure, out.PressurePa = c.Pressure, c.PressurePa
	}
	if c.Temperature != nil || c.TemperatureK != nil {
		out.Temperature, out.TemperatureK = c.Temperature, c.TemperatureK
	}
	if c.Diameter != nil || c.DiameterM != nil {
		out.Diameter, out.DiameterM = c.Diameter, c.DiameterM
	}
	if c.Length != nil || c.LengthM != nil {
		out.Length, out.LengthM = c.Length, c.LengthM
	}
	out.Fittings = append(append([]Fitting{}, d.Fittings...), c.Fittings...)
	return out
}

func str(s *string, fallback string) string {
	if s != nil {
		return *s
	}
	return fallback
}

// quantity resolves a value given either as a unit string or as SI
func quantity(kind units.Kind, field string, s *string, si *float64) (float64, bool, error) {
	switch {
	case s != nil && si != nil:
		return 0, false, errors.InvalidInput(field, *s, "given twice (string and SI form)")
	case si != nil:
		return *si, true, nil
	case s != nil:
		v, err := units.ParseQuantity(kind, *s, "")
		if err != nil {
			return 0, false, err
		}
		return v, true, nil
	}
	return 0, false, nil
}

// Build turns an input into a solver request
func (b *Builder) Build(src Input) (solver.Request, error) {
	var req solver.Request

	class, err := types.ParseFluidClass(str(src.Fluid, b.defaults.Fluid))
	if err != nil {
		return req, err
	}
	phase, err := types.ParsePhaseHint(str(src.Phase, ""))
	if err != nil {
		return req, err
	}
	req.Fluid = types.FluidSpec{Class: class, Phase: phase}

	if req.Thermo, err = b.thermo(src); err != nil {
		return req, err
	}
	if req.Geometry, err = b.geometry(src); err != nil {
		return req, err
	}
	if req.Flow, err = flow(src); err != nil {
		return req, err
	}
	if req.Fittings, err = fittingEntries(src.Fittings); err != nil {
		return req, err
	}

	if src.SpeedOfSound != nil {
		c := *src.SpeedOfSound
		req.SpeedOfSoundMS = &c
	} else if c, ok := b.defaults.SpeedOfSound[string(class)]; ok && c > 0 {
		req.SpeedOfSoundMS = &c
	}

	if req.Correlation, err = types.ParseCorrelation(str(src.Correlation, b.defaults.Correlation)); err != nil {
		return req, err
	}
	return req, nil
}

// SizingRequest is the part of a request pipe sizing needs
type SizingRequest struct {
	Fluid  types.FluidSpec
	Thermo types.ThermodynamicInput
	Flow   types.FlowInput
}

// BuildSizing resolves the fluid, state and flow of an input. Geometry and
// fittings are ignored.
func (b *Builder) BuildSizing(src Input) (SizingRequest, error) {
	var req SizingRequest

	class, err := types.ParseFluidClass(str(src.Fluid, b.defaults.Fluid))
	if err != nil {
		return req, err
	}
	phase, err := types.ParsePhaseHint(str(src.Phase, ""))
	if err != nil {
		return req, err
	}
	req.Fluid = types.FluidSpec{Class: class, Phase: phase}

	if req.Thermo, err = b.thermo(src); err != nil {
		return req, err
	}
	if req.Flow, err = flow(src); err != nil {
		return req, err
	}
	return req, nil
}

func (b *Builder) thermo(src Input) (types.ThermodynamicInput, error) {
	var in types.ThermodynamicInput

	mode := b.defaults.PressureMode
	if src.PressureMode != nil {
		m, err := units.ParsePressureMode(*src.PressureMode)
		if err != nil {
			return in, err
		}
		mode = m
	}

	var pressure float64
	hasP := false
	switch {
	case src.Pressure != nil && src.PressurePa != nil:
		return in, errors.InvalidInput("pressure", *src.Pressure, "given twice (string and SI form)")
	case src.PressurePa != nil:
		pressure, hasP = *src.PressurePa, true
		if mode == units.Gauge {
			pressure += units.StandardAtmospherePa
		}
	case src.Pressure != nil:
		v, err := units.ParsePressure(*src.Pressure, "", mode)
		if err != nil {
			return in, err
		}
		pressure, hasP = v, true
	}

	temperature, hasT, err := quantity(units.KindTemperature, "temperature", src.Temperature, src.TemperatureK)
	if err != nil {
		return in, err
	}

	switch {
	case hasP && hasT:
		in.State = &types.StatePoint{PressurePa: pressure, TemperatureK: temperature}
	case hasP:
		return in, errors.InvalidInput("temperature", "missing", "is required with pressure")
	case hasT:
		return in, errors.InvalidInput("pressure", "missing", "is required with temperature")
	}

	switch {
	case src.Density != nil && src.Viscosity != nil:
		in.Manual = &types.ManualProperties{DensityKgM3: *src.Density, ViscosityPaS: *src.Viscosity}
	case src.Density != nil:
		return in, errors.InvalidInput("viscosity", "missing", "is required with density")
	case src.Viscosity != nil:
		return in, errors.InvalidInput("density", "missing", "is required with viscosity")
	}
	return in, nil
}

func (b *Builder) geometry(src Input) (types.PipeGeometry, error) {
	var g types.PipeGeometry

	d, ok, err := quantity(units.KindLength, "diameter", src.Diameter, src.DiameterM)
	if err != nil {
		return g, err
	}
	if !ok {
		return g, errors.Geometry("diameter", "missing", "is required")
	}
	l, ok, err := quantity(units.KindLength, "length", src.Length, src.LengthM)
	if err != nil {
		return g, err
	}
	if !ok {
		return g, errors.Geometry("length", "missing", "is required")
	}
	g.DiameterM, g.LengthM = d, l

	r, ok, err := quantity(units.KindLength, "roughness", src.Roughness, src.RoughnessM)
	if err != nil {
		return g, err
	}
	if ok {
		g.RoughnessM = r
		return g, nil
	}

	material := str(src.Material, b.defaults.Material)
	if strings.TrimSpace(material) == "" {
		return g, errors.Geometry("roughness", "missing", "requires roughness or material")
	}
	cond, err := catalog.ParseCondition(str(src.Condition, ""))
	if err != nil {
		return g, err
	}
	if g.RoughnessM, err = b.materials.Roughness(material, cond); err != nil {
		return g, err
	}
	return g, nil
}

func flow(src Input) (types.FlowInput, error) {
	switch {
	case src.MassFlow != nil && src.VolumetricFlow != nil:
		return types.FlowInput{}, errors.Flow("flow", "mass and volumetric", "accepts only one of mass_flow or volumetric_flow")
	case src.MassFlow != nil:
		v, err := units.ParseQuantity(units.KindMassFlow, *src.MassFlow, "")
		if err != nil {
			return types.FlowInput{}, err
		}
		return types.MassFlow(v), nil
	case src.VolumetricFlow != nil:
		v, err := units.ParseQuantity(units.KindVolumetricFlow, *src.VolumetricFlow, "")
		if err != nil {
			return types.FlowInput{}, err
		}
		return types.VolumetricFlow(v), nil
	}
	return types.FlowInput{}, errors.Flow("flow", "missing", "requires mass_flow or volumetric_flow")
}

func fittingEntries(bodies []Fitting) ([]types.FittingEntry, error) {
	entries := make([]types.FittingEntry, 0, len(bodies))
	for _, f := range bodies {
		count := 1
		if f.Count != nil {
			count = *f.Count
		}
		if count < 1 {
			return nil, errors.InvalidInput(f.Name+" count", count, "must be >= 1")
		}

		var e types.FittingEntry
		switch {
		case f.K != nil && f.EquivalentLength != nil:
			return nil, errors.InvalidInput(f.Name, "k and equivalent_length", "accepts only one loss form")
		case f.K != nil:
			e = types.KFactor(f.Name, *f.K)
		case f.EquivalentLength != nil:
			l, err := units.ParseQuantity(units.KindLength, *f.EquivalentLength, "")
			if err != nil {
				return nil, err
			}
			e = types.EquivalentLength(f.Name, l)
		default:
			var err error
			if e, err = fittings.Entry(f.Name, 1); err != nil {
				return nil, err
			}
		}
		e.Count = count
		entries = append(entries, e)
	}
	return entries, nil
}
