// Package cmd - solve command
package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"steam-toolbox/adapters/input"
	"steam-toolbox/core/output"
	"steam-toolbox/internal/config"
	"steam-toolbox/internal/logging"
)

var (
	solveFlags = &inputFlags{withGeometry: true, withFitting: true}
	solveName  string
)

// solveCmd represents the solve command
var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Compute the pressure drop of one pipe run",
	Long: `Compute velocity, Reynolds number, friction factor, pressure drop and
(optionally) Mach number for one pipe run with fittings.

Quantities take a unit suffix; bare numbers are SI. Properties are estimated
from pressure and temperature (IF97 for steam, water and condensate; ideal
gas for air). Manual --density and --viscosity are used when no state is
given, or as a fallback when estimation fails.

Examples:
  steam-toolbox solve --fluid steam --pressure "10 bar(g)" --temperature "250 C" \
      --diameter "100 mm" --length "50 m" --mass-flow "2 t/h"
  steam-toolbox solve --fluid water --density 997 --viscosity 0.001 \
      --diameter "4 in" --length "120 ft" --volumetric-flow "50 m3/h" \
      --fitting elbow-90:6 --fitting gate-valve --fitting hx=15m`,
	Args: cobra.NoArgs,
	RunE: runSolve,
}

func init() {
	solveFlags.register(solveCmd.Flags())
	solveCmd.Flags().StringVar(&solveName, "name", "calculation", "name shown in the report")
	rootCmd.AddCommand(solveCmd)
}

func runSolve(cmd *cobra.Command, args []string) error {
	start := time.Now()
	cfg := config.Get()

	f, err := format(cfg)
	if err != nil {
		return err
	}
	in, err := solveFlags.toInput(cmd.Flags())
	if err != nil {
		return err
	}
	req, err := input.NewBuilder(inputDefaults(cfg)).Build(in)
	if err != nil {
		return err
	}

	logging.Debug("solving", zap.String("name", solveName), zap.String("fluid", req.Fluid.Class.String()))
	res, err := newSolver().Solve(req)
	if err != nil {
		return err
	}

	return output.Render(cmd.OutOrStdout(), f, &output.Report{
		Cases: []output.CaseResult{{Name: solveName, Result: res}},
		Units: cfg.Units,
		Metadata: output.Metadata{
			Timestamp: start.UTC().Format(time.RFC3339),
			Duration:  time.Since(start).String(),
			Version:   Version,
			Source:    "flags",
		},
	})
}
