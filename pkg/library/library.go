// Package library ties the crawler, the note pipeline, the cache and the
// deck exporter together for the command line.
package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/japaniel/jpdeck/pkg/anki"
	"github.com/japaniel/jpdeck/pkg/cache"
	"github.com/japaniel/jpdeck/pkg/ingest"
	"github.com/japaniel/jpdeck/pkg/note"
	"github.com/japaniel/jpdeck/pkg/pitch"
	"github.com/japaniel/jpdeck/pkg/readerer"
	"github.com/japaniel/jpdeck/pkg/scrape"
)

// Library builds, caches and exports notes.
type Library struct {
	Cache    *cache.Cache
	Pipeline *note.Pipeline
	Crawler  *scrape.Crawler
	Searcher *scrape.Searcher
	Exporter *anki.Exporter
	// Analyzer is created on first use by the text operations when nil.
	Analyzer *readerer.Analyzer
	// Workers bounds concurrent note builds. Values below 1 mean 1.
	Workers int
	// OnProgress receives note-build progress for multi-entry operations.
	OnProgress func(current, total int)
	// Logger is passed to the components built by New. nil means no logging.
	Logger *slog.Logger
}

// New wires a Library around c and f. dict may be nil to build notes
// without pitch; baseURL is the site root used for searches.
func New(c *cache.Cache, f scrape.Fetcher, dict pitch.Dictionary, baseURL string, logger *slog.Logger) *Library {
	crawler := scrape.NewCrawler(f)
	crawler.Logger = logger
	exporter := anki.NewExporter()
	exporter.Logger = logger
	return &Library{
		Cache:    c,
		Pipeline: &note.Pipeline{Fetcher: f, Dictionary: dict, Logger: logger},
		Crawler:  crawler,
		Searcher: &scrape.Searcher{Fetcher: f, BaseURL: baseURL},
		Exporter: exporter,
		Workers:  1,
		Logger:   logger,
	}
}

// List returns the entry URLs of a vocabulary list, crawling it only once.
func (l *Library) List(ctx context.Context, listURL string) ([]string, error) {
	urls, err := l.Cache.List(ctx, listURL, l.Crawler.DiscoverEntries)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", listURL, err)
	}
	return urls, nil
}

// Note returns the note for an entry URL, building it only once.
func (l *Library) Note(ctx context.Context, url string) (note.Note, error) {
	return l.Cache.Note(ctx, url, l.Pipeline.Build)
}

// Notes returns the notes of urls in order.
func (l *Library) Notes(ctx context.Context, urls []string) ([]note.Note, error) {
	ig := ingest.NewIngester(l.Note)
	ig.Workers = l.Workers
	ig.Logger = l.Logger
	ig.OnProgress = l.OnProgress
	return ig.Ingest(ctx, urls)
}

// ExportList writes the notes of a vocabulary list to out and returns how
// many were written.
func (l *Library) ExportList(ctx context.Context, listURL, out string) (int, error) {
	urls, err := l.List(ctx, listURL)
	if err != nil {
		return 0, err
	}
	return l.export(ctx, urls, out)
}

// ExportAll writes every cached note to out.
func (l *Library) ExportAll(ctx context.Context, out string) (int, error) {
	notes, err := l.Cache.Notes(ctx)
	if err != nil {
		return 0, err
	}
	if err := l.Exporter.WriteFile(ctx, out, notes); err != nil {
		return 0, err
	}
	return len(notes), nil
}

// FetchSingle builds the note of an entry URL, or of the entry the site
// search finds for an expression.
func (l *Library) FetchSingle(ctx context.Context, expressionOrURL string) (note.Note, error) {
	url := expressionOrURL
	if !scrape.IsURL(url) {
		resolved, err := l.Searcher.Resolve(ctx, expressionOrURL)
		if err != nil {
			return note.Note{}, err
		}
		url = resolved
	}
	return l.Note(ctx, url)
}

// TextEntries resolves every content word of text to an entry URL.
// Words the search does not find are skipped. Duplicate entries are
// returned once, in order of first appearance.
func (l *Library) TextEntries(ctx context.Context, text string) ([]string, error) {
	if l.Analyzer == nil {
		a, err := readerer.NewAnalyzer()
		if err != nil {
			return nil, fmt.Errorf("create analyzer: %w", err)
		}
		l.Analyzer = a
	}

	seen := make(map[string]bool)
	var urls []string
	for _, expr := range l.Analyzer.Expressions(text) {
		url, err := l.Searcher.Resolve(ctx, expr)
		if errors.Is(err, scrape.ErrNotFound) {
			if l.Logger != nil {
				l.Logger.InfoContext(ctx, "no entry for expression", "expression", expr)
			}
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("search %q: %w", expr, err)
		}
		if !seen[url] {
			seen[url] = true
			urls = append(urls, url)
		}
	}
	return urls, nil
}

// ExportText writes the notes of every entry found in text to out.
func (l *Library) ExportText(ctx context.Context, text, out string) (int, error) {
	urls, err := l.TextEntries(ctx, text)
	if err != nil {
		return 0, err
	}
	return l.export(ctx, urls, out)
}

func (l *Library) export(ctx context.Context, urls []string, out string) (int, error) {
	notes, err := l.Notes(ctx, urls)
	if err != nil {
		return 0, err
	}
	if err := l.Exporter.WriteFile(ctx, out, notes); err != nil {
		return 0, err
	}
	return len(notes), nil
}
