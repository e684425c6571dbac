package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"go-visit-pipeline/internal/history"
	"go-visit-pipeline/internal/model"
	"go-visit-pipeline/internal/pipeline"
	"go-visit-pipeline/internal/store"
)

var (
	runFormat string
	runOut    string
)

// runCmd processes a single batch file from the command line.
var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Process one appointment batch file",
	Long: `Run the full pipeline over a CSV or JSON batch file: classify
against the persistent visit history, detect review flags, aggregate,
and write the export file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if runFormat != "" {
			cfg.ExportFormat = runFormat
		}
		if runOut != "" {
			cfg.ExportDir = runOut
		}

		log, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer log.Sync()

		hs, err := history.OpenSQLite(cfg.HistoryDB)
		if err != nil {
			return err
		}
		defer hs.Close()

		runs, err := store.Open(cfg.RunsDB)
		if err != nil {
			return err
		}
		defer runs.Close()

		svc := pipeline.NewService(cfg, hs, runs, log)

		fmt.Printf("🚀 Processing %s...\n", args[0])
		result, err := svc.RunFile(context.Background(), args[0])
		if err != nil {
			if errors.Is(err, model.ErrEmptyBatch) {
				return fmt.Errorf("no usable records in %s", args[0])
			}
			return err
		}

		s := result.Aggregation.Summary
		fmt.Printf("✅ Run %s completed\n", result.RunID)
		fmt.Printf("   applications: %d  completed: %d  cancellations: %d  rate: %.1f%%\n",
			s.TotalApplications, s.CompletedVisits, s.Cancellations, s.CompletionRate*100)
		fmt.Printf("   review flags: %d  warnings: %d\n", len(result.Flags), len(result.Warnings))
		for _, w := range result.Warnings {
			fmt.Printf("   ⚠️  %s\n", w.String())
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runFormat, "format", "", "export format: csv, json, or yaml")
	runCmd.Flags().StringVar(&runOut, "out", "", "export output directory")

	rootCmd.AddCommand(runCmd)
}
