package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"steam-toolbox/core/units"
	"steam-toolbox/internal/errors"
)

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert <kind> <value> <from> <to>",
	Short: "Convert a value between units",
	Long: `Convert a value between two units of the same quantity.

Run "steam-toolbox convert units" to list the known quantities and units.

Examples:
  steam-toolbox convert pressure 10 "bar(g)" psi
  steam-toolbox convert temperature 250 C F
  steam-toolbox convert mass-flow 2 t/h kg/s`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 && args[0] == "units" {
			return nil
		}
		return cobra.ExactArgs(4)(cmd, args)
	},
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	if len(args) == 1 {
		for _, k := range units.Kinds() {
			fmt.Fprintf(w, "%-24s %s\n", k, strings.Join(units.Units(k), ", "))
		}
		return nil
	}

	kind, err := units.ParseKind(args[0])
	if err != nil {
		return err
	}
	value, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return errors.InvalidInput("value", args[1], "must be a number")
	}
	out, err := units.Convert(kind, value, args[2], args[3])
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s %s = %s %s\n",
		strconv.FormatFloat(value, 'g', -1, 64), args[2],
		strconv.FormatFloat(units.Round(out, 6), 'g', -1, 64), args[3])
	return nil
}
