package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"steam-toolbox/core/catalog"
	"steam-toolbox/core/fittings"
	"steam-toolbox/core/output"
	"steam-toolbox/internal/config"
)

// fittingsCmd lists the standard fittings catalogue
var fittingsCmd = &cobra.Command{
	Use:   "fittings",
	Short: "List catalogued fittings and their K factors",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := format(config.Get())
		if err != nil {
			return err
		}
		list := fittings.Catalogue()
		if f == output.FormatJSON {
			return writeJSON(cmd, list)
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tK\tDESCRIPTION")
		for _, s := range list {
			fmt.Fprintf(tw, "%s\t%.2f\t%s\n", s.Name, s.K, s.Description)
		}
		return tw.Flush()
	},
}

// materialsCmd lists the pipe roughness catalogue
var materialsCmd = &cobra.Command{
	Use:   "materials",
	Short: "List pipe materials and their absolute roughness",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := format(config.Get())
		if err != nil {
			return err
		}
		list := catalog.Global.List()
		if f == output.FormatJSON {
			return writeJSON(cmd, list)
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tNEW (mm)\tAGED (mm)\tDESCRIPTION")
		for _, m := range list {
			aged := "-"
			if m.AgedRoughnessM > 0 {
				aged = fmt.Sprintf("%.4g", m.AgedRoughnessM*1e3)
			}
			fmt.Fprintf(tw, "%s\t%.4g\t%s\t%s\n", m.Name, m.RoughnessM*1e3, aged, m.Description)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(fittingsCmd)
	rootCmd.AddCommand(materialsCmd)
}

func writeJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
