package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGenerateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Writes every cached note to an .apkg without fetching anything.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd); err != nil {
				return err
			}
			lib, err := a.library(cmd.Context())
			if err != nil {
				return err
			}
			n, err := lib.ExportAll(cmd.Context(), a.cfg.Output)
			if err != nil {
				return fmt.Errorf("generate: %w", err)
			}
			fmt.Fprintf(a.stdout, "Wrote %d notes to %s\n", n, a.cfg.Output)
			return nil
		},
	}
}
