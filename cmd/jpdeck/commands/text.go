package commands

import (
	"fmt"
	"os"

	"github.com/go-resty/resty/v2"
	"github.com/japaniel/jpdeck/pkg/readerer"
	"github.com/japaniel/jpdeck/pkg/scrape"
	"github.com/spf13/cobra"
)

func newTextCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "text <file|article-url>",
		Short: "Builds notes for every word of a text file or web article and writes an .apkg.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd); err != nil {
				return err
			}
			lib, err := a.library(cmd.Context())
			if err != nil {
				return err
			}

			var text string
			if scrape.IsURL(args[0]) {
				fmt.Fprintf(a.stdout, "Fetching %s...\n", args[0])
				client := resty.New().SetTimeout(a.cfg.HTTP.Timeout)
				if ua := a.cfg.HTTP.UserAgent; ua != "" {
					client.SetHeader("User-Agent", ua)
				} else {
					client.SetHeader("User-Agent", scrape.DefaultUserAgent)
				}
				body, err := readerer.Download(cmd.Context(), client, args[0])
				if err != nil {
					return err
				}
				article, err := readerer.ArticleText(body, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "Title: %s\n", article.Title)
				text = article.Text
			} else {
				b, err := os.ReadFile(args[0])
				if err != nil {
					return err
				}
				text = string(b)
			}

			n, err := lib.ExportText(cmd.Context(), text, a.cfg.Output)
			if err != nil {
				return fmt.Errorf("text %s: %w", args[0], err)
			}
			fmt.Fprintf(a.stdout, "Wrote %d notes to %s\n", n, a.cfg.Output)
			return nil
		},
	}
}
