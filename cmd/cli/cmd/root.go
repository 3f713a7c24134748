// Package cmd provides the CLI commands for steam-toolbox.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"steam-toolbox/adapters/input"
	"steam-toolbox/core/output"
	"steam-toolbox/core/solver"
	"steam-toolbox/core/units"
	"steam-toolbox/internal/config"
	"steam-toolbox/internal/logging"
)

// Version is set at build time with -ldflags "-X steam-toolbox/cmd/cli/cmd.Version=..."
var Version = "0.1.0"

var (
	cfgFile      string
	verbose      bool
	outputFormat string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "steam-toolbox",
	Short: "Pressure drop and fluid properties for steam and process piping",
	Long: `steam-toolbox computes single-phase pressure drop in pipes with fittings
for steam, water, condensate, air and gases, and looks up IF97 steam
properties.

Examples:
  steam-toolbox solve --fluid steam --pressure "10 bar(g)" --temperature "250 C" \
      --diameter "100 mm" --length "50 m" --mass-flow "2 t/h" --fitting elbow-90:4
  steam-toolbox batch cases.hcl --format markdown
  steam-toolbox steam --pressure "10 bar" --temperature "250 C"
  steam-toolbox convert pressure 10 bar psi
  steam-toolbox serve --addr :8080`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.steam-toolbox/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "", "output format (table, json, markdown); default from config")

	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	path := cfgFile
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	config.Set(cfg)

	// Initialize logging
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "steam-toolbox version %s\n", Version)
	},
}

// inputDefaults resolves configured defaults for the input builder
func inputDefaults(cfg *config.Config) input.Defaults {
	mode, err := units.ParsePressureMode(cfg.Defaults.PressureMode)
	if err != nil {
		mode = units.Absolute
	}
	return input.Defaults{
		Fluid:        cfg.Defaults.Fluid,
		Material:     cfg.Defaults.Material,
		PressureMode: mode,
		Correlation:  cfg.Defaults.Correlation,
		SpeedOfSound: cfg.Defaults.SpeedOfSound,
	}
}

// newSolver returns a solver logging to the global logger
func newSolver() *solver.Solver {
	return solver.New(solver.WithLogger(logging.Named("solver")))
}

// format resolves --format against the configured default
func format(cfg *config.Config) (output.Format, error) {
	f := outputFormat
	if f == "" {
		f = cfg.Output.DefaultFormat
	}
	return output.ParseFormat(f)
}
