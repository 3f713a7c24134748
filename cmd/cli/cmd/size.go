package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"steam-toolbox/adapters/input"
	"steam-toolbox/core/output"
	"steam-toolbox/core/property"
	"steam-toolbox/core/solver"
	"steam-toolbox/core/units"
	"steam-toolbox/internal/config"
)

var (
	sizeFlags    = &inputFlags{}
	sizeVelocity string
)

// sizeCmd represents the size command
var sizeCmd = &cobra.Command{
	Use:   "size",
	Short: "Size a pipe for a target velocity",
	Long: `Compute the internal diameter that carries a flow at a target velocity.

Examples:
  steam-toolbox size --fluid steam --pressure "10 bar" --temperature "250 C" \
      --mass-flow "2 t/h" --velocity "30 m/s"`,
	Args: cobra.NoArgs,
	RunE: runSize,
}

func init() {
	sizeFlags.register(sizeCmd.Flags())
	sizeCmd.Flags().StringVar(&sizeVelocity, "velocity", "", `target velocity with unit, e.g. "25 m/s" [REQUIRED]`)
	_ = sizeCmd.MarkFlagRequired("velocity")
	rootCmd.AddCommand(sizeCmd)
}

func runSize(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	f, err := format(cfg)
	if err != nil {
		return err
	}

	in, err := sizeFlags.toInput(cmd.Flags())
	if err != nil {
		return err
	}
	req, err := input.NewBuilder(inputDefaults(cfg)).BuildSizing(in)
	if err != nil {
		return err
	}
	velocity, err := units.ParseQuantity(units.KindVelocity, sizeVelocity, "m/s")
	if err != nil {
		return err
	}

	props, err := property.Resolve(req.Fluid, req.Thermo, property.Default())
	if err != nil {
		return err
	}
	sizing, err := solver.SizeForVelocity(req.Flow, props, velocity)
	if err != nil {
		return err
	}

	if f == output.FormatJSON {
		return writeJSON(cmd, sizing)
	}

	w := cmd.OutOrStdout()
	u := cfg.Units
	diameter, _ := units.Format(units.KindLength, sizing.DiameterM, u.Diameter, u.Decimals)
	speed, _ := units.Format(units.KindVelocity, sizing.VelocityMS, u.Velocity, u.Decimals)
	fmt.Fprintf(w, "Internal diameter: %s\n", diameter)
	fmt.Fprintf(w, "Velocity:          %s\n", speed)
	if sizing.Reynolds > 0 {
		fmt.Fprintf(w, "Reynolds:          %.0f\n", sizing.Reynolds)
	}
	source := string(props.Source)
	if props.Model != "" {
		source += " (" + props.Model + ")"
	}
	fmt.Fprintf(w, "Properties:        %s\n", source)
	return nil
}
