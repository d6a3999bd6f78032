// Package commands implements the jpdeck command line.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/japaniel/jpdeck/pkg/anki"
	"github.com/japaniel/jpdeck/pkg/cache"
	"github.com/japaniel/jpdeck/pkg/config"
	"github.com/japaniel/jpdeck/pkg/dictionary"
	"github.com/japaniel/jpdeck/pkg/library"
	"github.com/japaniel/jpdeck/pkg/pitch"
	"github.com/japaniel/jpdeck/pkg/scrape"
	"github.com/spf13/cobra"
)

// flags are the global overrides of the config file.
type flags struct {
	configPath string
	dbPath     string
	out        string
	workers    int
}

// app is the state shared by subcommands for one invocation.
type app struct {
	flags  flags
	cfg    *config.Config
	logger *slog.Logger
	cache  *cache.Cache
	stdout io.Writer
	stderr io.Writer
}

// ExecuteContext runs the command line with args and returns the exit code.
func ExecuteContext(ctx context.Context, args []string) int {
	return execute(ctx, args, os.Stdout, os.Stderr)
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.ExecuteContext(ctx)
	a.close()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "jpdeck",
		Short:         "jpdeck builds Anki decks from jpdb.io vocabulary.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", "", "Path to the YAML config (default $JPDECK_CONFIG or ./config.yaml).")
	pf.StringVar(&a.flags.dbPath, "db", "", "Path to the SQLite cache (overrides db_path).")
	pf.StringVarP(&a.flags.out, "out", "o", "", "Path of the .apkg to write (overrides output).")
	pf.IntVarP(&a.flags.workers, "workers", "w", 0, "Concurrent note builds (overrides workers).")

	root.AddCommand(
		newScrapeCmd(a),
		newGenerateCmd(a),
		newSearchCmd(a),
		newTextCmd(a),
		newPitchCmd(a),
	)
	return root
}

// setup loads the configuration, applies flag overrides and opens the cache.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.flags.configPath)
	if err != nil {
		return err
	}
	if a.flags.dbPath != "" {
		cfg.DBPath = a.flags.dbPath
	}
	if a.flags.out != "" {
		cfg.Output = a.flags.out
	}
	if a.flags.workers > 0 {
		cfg.Workers = a.flags.workers
	}
	a.cfg = cfg

	level, err := cfg.Log.SlogLevel()
	if err != nil {
		return err
	}
	a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))

	c, err := cache.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	c.Logger = a.logger
	a.cache = c
	return nil
}

func (a *app) close() {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil && a.logger != nil {
			a.logger.Warn("closing cache", "err", err)
		}
		a.cache = nil
	}
}

// pitchDictionary returns the persisted accent table, building it from the
// bank files on first use. Notes are built without pitch when no accent
// data is available, so failures are only logged.
func (a *app) pitchDictionary(ctx context.Context) pitch.Dictionary {
	if d, err := dictionary.Load(ctx, a.cache.DB()); err == nil && d.Len() > 0 {
		a.logger.Debug("pitch dictionary loaded", "accents", d.Len())
		return d
	}
	if err := dictionary.EnsureBank(ctx, a.cfg.Pitch.BankDir, a.cfg.Pitch.BankURL); err != nil {
		a.logger.Warn("pitch accents unavailable, notes will have no pitch", "err", err)
		return nil
	}
	d, err := dictionary.LoadOrBuild(ctx, a.cache.DB(), a.cfg.Pitch.BankDir)
	if err != nil {
		a.logger.Warn("pitch accents unavailable, notes will have no pitch", "err", err)
		return nil
	}
	a.logger.Info("pitch dictionary built", "accents", d.Len())
	return d
}

// library wires the components for the commands that build notes.
func (a *app) library(ctx context.Context) (*library.Library, error) {
	fetcher := scrape.NewHTTPFetcher(scrape.FetcherOptions{
		UserAgent: a.cfg.HTTP.UserAgent,
		Timeout:   a.cfg.HTTP.Timeout,
		Logger:    a.logger,
	})
	lib := library.New(a.cache, fetcher, a.pitchDictionary(ctx), a.cfg.BaseURL, a.logger)
	lib.Workers = a.cfg.Workers

	model, err := anki.LoadModel(a.cfg.Deck.ModelID, a.cfg.Deck.ModelName, a.cfg.Deck.TemplatesDir)
	if err != nil {
		return nil, err
	}
	lib.Exporter.Model = model
	lib.Exporter.Deck = anki.Deck{ID: a.cfg.Deck.ID, Name: a.cfg.Deck.Name}
	lib.OnProgress = func(current, total int) {
		fmt.Fprintf(a.stdout, "\rBuilding notes: %d/%d", current, total)
		if current == total {
			fmt.Fprintln(a.stdout)
		}
	}
	return lib, nil
}
