package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

func newManCommand(root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:         "man <dir>",
		Short:       "Generate man pages into a directory",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create man directory: %w", err)
			}
			header := &doc.GenManHeader{Title: "FFSTATS", Section: "1", Source: "ffstats"}
			if err := doc.GenManTree(root, header, dir); err != nil {
				return fmt.Errorf("generate man pages: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote man pages to %s\n", dir)
			return nil
		},
	}
}
