package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"ffstats/internal/runlog"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently monitored runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return fmt.Errorf("open run history: %w", err)
			}
			out := cmd.OutOrStdout()
			if store == nil {
				fmt.Fprintln(out, "Run history is disabled (history.enabled = false)")
				return nil
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			fmt.Fprintln(out, renderRuns(runs))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", runlog.DefaultListLimit, "Maximum number of runs to list")
	return cmd
}

func renderRuns(runs []runlog.Run) string {
	headers := []string{"Started", "Input", "Outcome", "Updates", "Duration", "Snapshot", "ID"}
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		duration := "-"
		if !run.Running() {
			duration = run.Duration().Round(time.Second).String()
		}
		snapshot := "-"
		if run.SnapshotPath != "" {
			snapshot = filepath.Base(run.SnapshotPath)
		}
		rows = append(rows, []string{
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			filepath.Base(run.Input),
			formatOutcome(run.Outcome),
			formatCount(uint64(max(run.Epochs, 0))),
			duration,
			snapshot,
			shortID(run.ID),
		})
	}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft}
	return renderTable("", headers, rows, aligns)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
