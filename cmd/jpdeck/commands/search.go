package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newSearchCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "search <expression|entry-url>",
		Short: "Builds and caches the note of one expression or entry.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd); err != nil {
				return err
			}
			lib, err := a.library(cmd.Context())
			if err != nil {
				return err
			}
			n, err := lib.FetchSingle(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("search %q: %w", args[0], err)
			}

			if asJSON {
				enc := json.NewEncoder(a.stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(n)
			}
			fmt.Fprintf(a.stdout, "%s\t%s\t%s\n", n.Expression, n.Spelling, n.URL)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the whole note as JSON.")
	return cmd
}
