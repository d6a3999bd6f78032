package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
)

// Crawler walks the pages of a vocabulary list.
type Crawler struct {
	Fetcher Fetcher
	// Logger is used for per-page progress. nil means no logging.
	Logger *slog.Logger
}

// NewCrawler creates a crawler using f to load pages.
func NewCrawler(f Fetcher) *Crawler {
	return &Crawler{Fetcher: f}
}

// DiscoverEntries returns the entry URLs of every page of the list at
// rootURL, in page order and document order within a page.
//
// A page is the last one iff it holds an element with both the
// "pagination" and "without-next" classes. "without-prev" only marks the
// first page and never ends the crawl. Otherwise the last link of the
// pagination control is followed. Any failure aborts the crawl and no
// partial list is returned.
func (c *Crawler) DiscoverEntries(ctx context.Context, rootURL string) ([]string, error) {
	current, err := stripFragment(rootURL)
	if err != nil {
		return nil, fmt.Errorf("invalid list url %q: %w", rootURL, err)
	}

	var entries []string
	visited := make(map[string]bool)
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if visited[current] {
			return nil, fmt.Errorf("%w: %s", ErrPaginationCycle, current)
		}
		visited[current] = true

		doc, err := c.Fetcher.Fetch(ctx, current)
		if err != nil {
			return nil, err
		}
		found, err := pageEntries(doc, current)
		if err != nil {
			return nil, err
		}
		entries = append(entries, found...)
		if c.Logger != nil {
			c.Logger.InfoContext(ctx, "crawled list page", "page", page, "url", current, "entries", len(found))
		}

		if IsLastPage(doc) {
			return entries, nil
		}
		next, err := nextPage(doc, current)
		if err != nil {
			return nil, err
		}
		current = next
	}
}

// IsLastPage reports whether a list page carries the no-next-page marker.
func IsLastPage(doc Node) bool {
	return len(doc.FindByClass("pagination", "without-next")) > 0
}

func pageEntries(doc Document, pageURL string) ([]string, error) {
	var out []string
	for _, s := range doc.FindByClass("vocabulary-spelling") {
		a, ok := s.FindFirst("a[href]")
		if !ok {
			return nil, &StructureError{Anchor: "vocabulary-spelling link", URL: pageURL}
		}
		href, _ := a.Attribute("href")
		u, err := resolve(doc, pageURL, href)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

func nextPage(doc Document, pageURL string) (string, error) {
	controls := doc.FindByClass("pagination")
	if len(controls) == 0 {
		return "", fmt.Errorf("%w: no pagination on %s", ErrPagination, pageURL)
	}
	links := controls[0].FindAll("a[href]")
	if len(links) == 0 {
		return "", fmt.Errorf("%w: no next link on %s", ErrPagination, pageURL)
	}
	href, _ := links[len(links)-1].Attribute("href")
	next, err := resolve(doc, pageURL, href)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPagination, err)
	}
	return next, nil
}

// resolve makes href absolute against the page and drops its fragment.
func resolve(doc Document, pageURL, href string) (string, error) {
	base := doc.URL()
	if base == nil {
		var err error
		if base, err = url.Parse(pageURL); err != nil {
			return "", err
		}
	}
	u, err := base.Parse(href)
	if err != nil {
		return "", err
	}
	u.Fragment = ""
	u.RawFragment = ""
	return u.String(), nil
}

func stripFragment(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	u.Fragment = ""
	u.RawFragment = ""
	return u.String(), nil
}
