package output

import (
	"fmt"
	"io"
	"strings"

	"steam-toolbox/core/result"
	"steam-toolbox/core/units"
)

const tableWidth = 73

// TableFormatter renders a boxed summary per case
type TableFormatter struct{}

// Format returns FormatTable
func (f *TableFormatter) Format() Format { return FormatTable }

// Render writes one box per case followed by its warnings
func (f *TableFormatter) Render(w io.Writer, report *Report) error {
	u := report.Units
	for i, c := range report.Cases {
		if i > 0 {
			fmt.Fprintln(w)
		}
		title := "PRESSURE DROP"
		if c.Name != "" {
			title += ": " + c.Name
		}
		border(w, "┌", "┐")
		fmt.Fprintf(w, "│ %-*s │\n", tableWidth-2, center(title, tableWidth-2))
		border(w, "├", "┤")

		if c.Result == nil {
			row(w, "error", c.Error)
			border(w, "└", "┘")
			continue
		}
		for _, r := range rows(c.Result, u) {
			row(w, r[0], r[1])
		}
		border(w, "└", "┘")

		for _, warn := range c.Result.Warnings {
			fmt.Fprintf(w, "  ! %s: %s\n", warn.Code, warn.Message)
		}
	}
	return nil
}

func rows(r *result.SolveResult, u DisplayUnits) [][2]string {
	fr := r.FlowRegime()
	out := [][2]string{
		{"Fluid", fluidLabel(r)},
		{"Property source", propertySource(r)},
		{"Density", u.quantity(units.KindDensity, r.Properties.DensityKgM3, u.Density)},
		{"Viscosity", u.quantity(units.KindViscosity, r.Properties.ViscosityPaS, u.Viscosity)},
		{"Diameter", u.quantity(units.KindLength, r.Geometry.DiameterM, u.Diameter)},
		{"Straight length", u.quantity(units.KindLength, r.Geometry.LengthM, u.Length)},
		{"Fitting length", u.quantity(units.KindLength, r.Fittings.TotalLengthM, u.Length)},
		{"Mass flow", u.quantity(units.KindMassFlow, r.MassFlowKgS, u.MassFlow)},
		{"Volumetric flow", u.quantity(units.KindVolumetricFlow, r.VolumetricFlowM3S, u.VolumetricFlow)},
		{"Velocity", u.quantity(units.KindVelocity, r.VelocityMS, u.Velocity)},
		{"Reynolds", fmt.Sprintf("%.0f", fr.Reynolds)},
		{"Regime", string(fr.Regime)},
		{"Friction factor", fmt.Sprintf("%.5f (%s)", fr.FrictionFactor, fr.Correlation)},
		{"Pressure drop", u.quantity(units.KindPressure, r.PressureDropPa, u.Pressure)},
		{"Pressure drop per m", u.quantity(units.KindPressure, r.PressureDropPerMeterPa, u.Pressure) + "/m"},
	}
	if r.Mach != nil {
		out = append(out, [2]string{"Mach", fmt.Sprintf("%.4f", *r.Mach)})
	}
	return out
}

func fluidLabel(r *result.SolveResult) string {
	if r.Fluid.Phase == "" {
		return r.Fluid.Class.String()
	}
	return r.Fluid.Class.String() + " (" + r.Fluid.Phase.String() + ")"
}

func propertySource(r *result.SolveResult) string {
	if r.Properties.Model == "" {
		return string(r.Properties.Source)
	}
	return string(r.Properties.Source) + " / " + r.Properties.Model
}

func border(w io.Writer, left, right string) {
	fmt.Fprintln(w, left+strings.Repeat("─", tableWidth)+right)
}

func row(w io.Writer, label, value string) {
	fmt.Fprintf(w, "│ %-30s %40s │\n", label, value)
}

func center(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	pad := (width - n) / 2
	return strings.Repeat(" ", pad) + s
}
