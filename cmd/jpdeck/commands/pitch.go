package commands

import (
	"fmt"

	"github.com/japaniel/jpdeck/pkg/dictionary"
	"github.com/spf13/cobra"
)

func newPitchCmd(a *app) *cobra.Command {
	pitchCmd := &cobra.Command{
		Use:   "pitch",
		Short: "Manages the pitch accent dictionary.",
	}
	pitchCmd.AddCommand(&cobra.Command{
		Use:   "build",
		Short: "Rebuilds the accent table from the term-meta bank files.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd); err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := dictionary.EnsureBank(ctx, a.cfg.Pitch.BankDir, a.cfg.Pitch.BankURL); err != nil {
				return err
			}
			entries, err := dictionary.LoadBankDir(a.cfg.Pitch.BankDir)
			if err != nil {
				return err
			}
			d := dictionary.BuildFromBank(entries)
			if err := dictionary.Save(ctx, a.cache.DB(), d); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Stored %d pitch accents from %d bank entries\n", d.Len(), len(entries))
			return nil
		},
	})
	return pitchCmd
}
