package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"steam-toolbox/core/output"
	"steam-toolbox/core/property"
	"steam-toolbox/core/units"
	"steam-toolbox/internal/config"
)

var (
	steamPressure     string
	steamTemperature  string
	steamPressureMode string
)

// steamCmd represents the steam command
var steamCmd = &cobra.Command{
	Use:   "steam",
	Short: "Look up IF97 steam and water properties",
	Long: `Print the saturation temperature and saturated liquid/vapour properties at
a pressure, and the state at (p, T) when a temperature is given.

Examples:
  steam-toolbox steam --pressure "10 bar"
  steam-toolbox steam --pressure "150 psi" --pressure-mode gauge --temperature "400 F"`,
	Args: cobra.NoArgs,
	RunE: runSteam,
}

func init() {
	steamCmd.Flags().StringVarP(&steamPressure, "pressure", "p", "", `pressure with unit, e.g. "10 bar" [REQUIRED]`)
	steamCmd.Flags().StringVarP(&steamTemperature, "temperature", "t", "", `temperature with unit, e.g. "250 C"`)
	steamCmd.Flags().StringVar(&steamPressureMode, "pressure-mode", "", "absolute or gauge (default from config)")
	_ = steamCmd.MarkFlagRequired("pressure")
	rootCmd.AddCommand(steamCmd)
}

func runSteam(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	f, err := format(cfg)
	if err != nil {
		return err
	}

	modeStr := steamPressureMode
	if modeStr == "" {
		modeStr = cfg.Defaults.PressureMode
	}
	mode, err := units.ParsePressureMode(modeStr)
	if err != nil {
		return err
	}
	p, err := units.ParsePressure(steamPressure, "", mode)
	if err != nil {
		return err
	}

	var temperature *float64
	if steamTemperature != "" {
		t, err := units.ParseQuantity(units.KindTemperature, steamTemperature, "K")
		if err != nil {
			return err
		}
		temperature = &t
	}

	table, err := property.LookupSteam(p, temperature)
	if err != nil {
		return err
	}

	if f == output.FormatJSON {
		return writeJSON(cmd, table)
	}
	printSteamTable(cmd.OutOrStdout(), table, cfg.Units)
	return nil
}

func printSteamTable(w io.Writer, table *property.SteamTable, u output.DisplayUnits) {
	q := func(kind units.Kind, si float64, unit string) string {
		s, err := units.Format(kind, si, unit, u.Decimals)
		if err != nil {
			return fmt.Sprintf("%g", si)
		}
		return s
	}
	celsius := func(k float64) string { return q(units.KindTemperature, k, "°C") }

	fmt.Fprintf(w, "Pressure:                 %s\n", q(units.KindPressure, table.PressurePa, u.Pressure))
	if sat := table.Saturation; sat != nil {
		fmt.Fprintf(w, "Saturation temperature:   %s\n", celsius(sat.TemperatureK))
		fmt.Fprintf(w, "Saturated liquid density: %s\n", q(units.KindDensity, sat.LiquidDensityKgM3, u.Density))
		fmt.Fprintf(w, "Saturated liquid visc.:   %s\n", q(units.KindViscosity, sat.LiquidViscosityPaS, u.Viscosity))
		fmt.Fprintf(w, "Saturated vapour density: %s\n", q(units.KindDensity, sat.VapourDensityKgM3, u.Density))
		fmt.Fprintf(w, "Saturated vapour visc.:   %s\n", q(units.KindViscosity, sat.VapourViscosityPaS, u.Viscosity))
	}
	if pt := table.Point; pt != nil {
		fmt.Fprintf(w, "\nAt %s: %s (%s)\n", celsius(pt.TemperatureK), pt.Phase, pt.Model)
		fmt.Fprintf(w, "  Density:   %s\n", q(units.KindDensity, pt.DensityKgM3, u.Density))
		fmt.Fprintf(w, "  Viscosity: %s\n", q(units.KindViscosity, pt.ViscosityPaS, u.Viscosity))
	}
}
