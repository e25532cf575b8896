package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ffstats/internal/deps"
	"ffstats/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check binaries and writable directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			statuses := deps.CheckBinaries(cmd.Context(), deps.Requirements(cfg))

			rows := make([][]string, 0, len(statuses))
			for _, s := range statuses {
				detail := s.Version
				if s.Detail != "" {
					detail = s.Detail
				}
				location := s.Path
				if location == "" {
					location = s.Command
				}
				rows = append(rows, []string{s.Name, yesNo(s.Available), location, detail})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable("Dependencies", []string{"Binary", "Available", "Path", "Detail"}, rows, nil))

			checks := preflight.RunAll(cfg)
			dirRows := make([][]string, 0, len(checks))
			for _, c := range checks {
				dirRows = append(dirRows, []string{c.Name, yesNo(c.Passed), c.Detail})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable("Directories", []string{"Check", "OK", "Detail"}, dirRows, nil))

			if missing := deps.MissingRequired(statuses); len(missing) > 0 {
				return fmt.Errorf("%d required binaries missing; set ffmpeg.binary / ffmpeg.ffprobe_binary", len(missing))
			}
			if failed := preflight.Failed(checks); len(failed) > 0 {
				return fmt.Errorf("%s: %s", failed[0].Name, failed[0].Detail)
			}
			return nil
		},
	}
}
