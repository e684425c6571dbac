package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"go-visit-pipeline/internal/history"
)

// historyCmd groups visit history operations.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect or reset the caller visit history",
}

var historyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List all caller visit history entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		hs, err := history.OpenSQLite(cfg.HistoryDB)
		if err != nil {
			return err
		}
		defer hs.Close()

		entries, err := hs.List(context.Background())
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No visit history recorded.")
			return nil
		}
		for _, e := range entries {
			fmt.Printf("%-20s visits: %-3d last: %s\n",
				e.CallerID, e.VisitCount, e.LastVisit.Format("2006-01-02"))
		}
		fmt.Printf("%d caller(s)\n", len(entries))
		return nil
	},
}

var historyResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all caller visit history",
	Long: `Delete every caller's visit history. Visit ordinals in
subsequent runs start counting from scratch.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		hs, err := history.OpenSQLite(cfg.HistoryDB)
		if err != nil {
			return err
		}
		defer hs.Close()

		if err := hs.Clear(context.Background()); err != nil {
			return err
		}
		fmt.Println("✅ Visit history cleared")
		return nil
	},
}

func init() {
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyResetCmd)
	rootCmd.AddCommand(historyCmd)
}
