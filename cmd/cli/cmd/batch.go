// Package cmd - batch command
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"steam-toolbox/adapters/casefile"
	"steam-toolbox/core/batch"
	"steam-toolbox/core/output"
	"steam-toolbox/internal/config"
	"steam-toolbox/internal/logging"
)

var batchWorkers int

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <cases.hcl>",
	Short: "Solve every case in an HCL case file",
	Long: `Solve the cases of an HCL case file concurrently and render one report.

A failing case is reported in place and does not stop the others; the
command exits non-zero when any case failed.

Example case file:

  defaults {
    fluid    = "steam"
    material = "commercial-steel"
  }

  case "header-a" {
    pressure    = "10 bar(g)"
    temperature = "250 C"
    diameter    = "100 mm"
    length      = "50 m"
    mass_flow   = "2 t/h"
    fitting "elbow-90" { count = 4 }
  }`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "cases solved concurrently (default from config)")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	start := time.Now()
	cfg := config.Get()

	f, err := format(cfg)
	if err != nil {
		return err
	}

	cases, err := casefile.NewParser(inputDefaults(cfg)).ParseFile(args[0])
	if err != nil {
		return err
	}

	workers := batchWorkers
	if workers <= 0 {
		workers = cfg.Batch.Workers
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logging.Info("running batch", zap.String("file", args[0]), zap.Int("cases", len(cases)), zap.Int("workers", workers))
	items, stats := batch.NewRunner(workers, newSolver().Solve).Run(ctx, cases)

	report := &output.Report{
		Cases: make([]output.CaseResult, len(items)),
		Units: cfg.Units,
		Metadata: output.Metadata{
			Timestamp: start.UTC().Format(time.RFC3339),
			Duration:  time.Since(start).String(),
			Version:   Version,
			Source:    args[0],
		},
	}
	for i, item := range items {
		report.Cases[i] = output.CaseResult{Name: item.Name, Result: item.Result, Error: item.Error}
	}
	if err := output.Render(cmd.OutOrStdout(), f, report); err != nil {
		return err
	}

	logging.Debug("batch finished",
		zap.Int("succeeded", stats.Succeeded), zap.Int("failed", stats.Failed), zap.Int("skipped", stats.Skipped))
	if stats.Failed+stats.Skipped > 0 {
		return fmt.Errorf("%d of %d cases did not solve", stats.Failed+stats.Skipped, stats.Total)
	}
	return nil
}
