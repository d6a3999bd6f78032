package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newScrapeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "scrape <list-url>",
		Short: "Crawls a vocabulary list, builds its notes and writes an .apkg.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd); err != nil {
				return err
			}
			lib, err := a.library(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(a.stdout, "Fetching list %s...\n", args[0])
			n, err := lib.ExportList(cmd.Context(), args[0], a.cfg.Output)
			if err != nil {
				return fmt.Errorf("scrape %s: %w", args[0], err)
			}
			fmt.Fprintf(a.stdout, "Wrote %d notes to %s\n", n, a.cfg.Output)
			return nil
		},
	}
}
