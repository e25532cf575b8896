package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ffstats/internal/services"
	"ffstats/internal/stats"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:         "show -i <input>",
		Short:       "Display statistics saved by a previous run",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			input = strings.TrimSpace(input)
			if input == "" && len(args) == 1 {
				input = strings.TrimSpace(args[0])
			}
			if input == "" {
				return fmt.Errorf("%w: --input is required", services.ErrValidation)
			}
			session, err := stats.Load(input)
			if err != nil {
				return fmt.Errorf("load %s: %w", stats.Path(input), err)
			}
			renderSession(cmd.OutOrStdout(), session)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Input media file whose <input>.stats should be shown")
	return cmd
}
