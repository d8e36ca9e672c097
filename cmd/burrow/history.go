package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cuemby/burrow/pkg/storage"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored benchmark runs",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().String("history", "./data", "Directory of the run-history database")
	historyCmd.Flags().Int("limit", 20, "Maximum number of runs to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("history")
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := storage.NewBoltStore(dir)
	if err != nil {
		return fmt.Errorf("failed to open history store: %w", err)
	}
	defer store.Close()

	runs, err := store.ListRuns()
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Printf("%-36s  %-5s  %-8s  %-10s  %-12s  %s\n",
		"RUN ID", "CC", "WORKERS", "COMMITS", "THROUGHPUT", "STARTED")
	for i, r := range runs {
		if i >= limit {
			break
		}
		fmt.Printf("%-36s  %-5s  %-8d  %-10d  %-12.0f  %s\n",
			r.ID, r.Variant, r.Workers, r.TotalCommits, r.Throughput,
			r.StartedAt.Format(time.RFC3339))
	}
	return nil
}
