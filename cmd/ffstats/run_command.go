package main

import (
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"ffstats/internal/logging"
	"ffstats/internal/monitor"
	"ffstats/internal/services"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var (
		input     string
		overwrite bool
		saveStats bool
		showStats bool
	)

	cmd := &cobra.Command{
		Use:   "run -i <input> [flags] -- <ffmpeg args...>",
		Short: "Run ffmpeg and monitor its progress",
		Long: "Run ffmpeg with the given arguments while collecting fps, speed and bitrate.\n" +
			"The input passed with -i must be the same file given to ffmpeg; it is probed\n" +
			"for duration and bit rate and names the <input>.stats snapshot.",
		Example: "  ffstats run -i movie.mkv --save-stats -- -i movie.mkv -c:v libx264 -crf 20 out.mkv",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			input = strings.TrimSpace(input)
			if input == "" {
				return fmt.Errorf("%w: --input is required", services.ErrValidation)
			}
			if len(args) == 0 {
				return fmt.Errorf("%w: ffmpeg arguments are required after --", services.ErrValidation)
			}
			absInput, err := filepath.Abs(input)
			if err != nil {
				return fmt.Errorf("resolve input path: %w", err)
			}

			lock := flock.New(absInput + ".run.lock")
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire run lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("another ffstats run is already monitoring %s", input)
			}
			defer func() { _ = lock.Unlock() }()

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			opts := []monitor.Option{}
			recorded := false
			history, err := ctx.openHistory()
			if err != nil {
				logging.WarnWithContext(logger, "run history unavailable", "history_open_failed",
					logging.Error(err),
					logging.String(logging.FieldImpact, "this run will not appear in ffstats history"),
				)
			} else if history != nil {
				defer history.Close()
				opts = append(opts, monitor.WithHistory(history))
				recorded = true
			}

			out := cmd.OutOrStdout()
			var bar *barView
			if isTerminal(out) {
				bar = newBarView(out)
				opts = append(opts, monitor.WithObserver(bar), monitor.WithWindow(liveWindow))
			}

			result, runErr := monitor.New(cfg, logger, opts...).Run(signalCtx, monitor.Request{
				Input:     absInput,
				Args:      args,
				Overwrite: overwrite,
				Save:      saveStats,
			})
			if bar != nil {
				bar.finish()
			}

			printRunSummary(cmd, result, recorded)
			if showStats && result.Session.Len() > 0 {
				renderSession(out, result.Session)
			}
			if runErr != nil && errors.Is(runErr, services.ErrCancelled) {
				return fmt.Errorf("run cancelled after %d progress updates: %w", result.Session.Len(), runErr)
			}
			return runErr
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Input media file (same file passed to ffmpeg)")
	cmd.Flags().BoolVarP(&overwrite, "overwrite", "y", false, "Overwrite output files (ffmpeg -y)")
	cmd.Flags().BoolVar(&saveStats, "save-stats", false, "Write <input>.stats when the encode completes")
	cmd.Flags().BoolVar(&showStats, "show-stats", false, "Print replay tables after the encode")
	return cmd
}

func printRunSummary(cmd *cobra.Command, result monitor.Result, recorded bool) {
	out := cmd.OutOrStdout()
	last := result.Session.Last()
	fmt.Fprintf(out, "Run %s: %s\n", result.SessionID, formatOutcome(result.Outcome))
	fmt.Fprintf(out, "  Progress updates: %s\n", formatCount(uint64(result.Session.Len())))
	fmt.Fprintf(out, "  Encoded:          %s in %s\n", formatClock(last.Progress.OutTime), formatClock(last.Elapsed))
	if result.SnapshotPath != "" {
		fmt.Fprintf(out, "  Snapshot:         %s\n", result.SnapshotPath)
	}
	fmt.Fprintf(out, "  History recorded: %s\n", yesNo(recorded))
}
