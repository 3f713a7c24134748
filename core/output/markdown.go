package output

import (
	"fmt"
	"io"

	"steam-toolbox/core/units"
)

// MarkdownFormatter renders a summary table suitable for reports and PRs
type MarkdownFormatter struct{}

// Format returns FormatMarkdown
func (f *MarkdownFormatter) Format() Format { return FormatMarkdown }

// Render writes a heading, one row per case and a warnings list
func (f *MarkdownFormatter) Render(w io.Writer, report *Report) error {
	u := report.Units
	fmt.Fprintln(w, "## Pressure drop")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| Case | Fluid | Source | Velocity | Reynolds | Regime | f | ΔP | ΔP/m |")
	fmt.Fprintln(w, "|------|-------|--------|----------|----------|--------|---|----|------|")
	for _, c := range report.Cases {
		if c.Result == nil {
			fmt.Fprintf(w, "| %s | | | | | error | | %s | |\n", c.Name, c.Error)
			continue
		}
		r := c.Result
		fr := r.FlowRegime()
		fmt.Fprintf(w, "| %s | %s | %s | %s | %.0f | %s | %.5f | %s | %s/m |\n",
			c.Name,
			fluidLabel(r),
			r.Properties.Source,
			u.quantity(units.KindVelocity, r.VelocityMS, u.Velocity),
			fr.Reynolds,
			fr.Regime,
			fr.FrictionFactor,
			u.quantity(units.KindPressure, r.PressureDropPa, u.Pressure),
			u.quantity(units.KindPressure, r.PressureDropPerMeterPa, u.Pressure),
		)
	}

	var headed bool
	for _, c := range report.Cases {
		if c.Result == nil {
			continue
		}
		for _, warn := range c.Result.Warnings {
			if !headed {
				fmt.Fprintln(w)
				fmt.Fprintln(w, "### Warnings")
				fmt.Fprintln(w)
				headed = true
			}
			fmt.Fprintf(w, "- **%s** `%s`: %s\n", c.Name, warn.Code, warn.Message)
		}
	}

	if report.Metadata.Version != "" {
		fmt.Fprintf(w, "\n_steam-toolbox %s, %s_\n", report.Metadata.Version, report.Metadata.Timestamp)
	}
	return nil
}
