package scrape

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Searcher resolves an expression to its entry URL with the site search.
type Searcher struct {
	Fetcher Fetcher
	BaseURL string
}

// Resolve searches for expression. A search that lands directly on an
// entry returns the page's canonical URL; a result list returns the first
// result's entry link.
func (s *Searcher) Resolve(ctx context.Context, expression string) (string, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return "", fmt.Errorf("%w: empty expression", ErrNotFound)
	}
	searchURL := strings.TrimRight(s.BaseURL, "/") + "/search?q=" + url.QueryEscape(expression)
	doc, err := s.Fetcher.Fetch(ctx, searchURL)
	if err != nil {
		return "", err
	}

	if len(doc.FindByClass("results", "details")) > 0 {
		for _, l := range doc.FindAll("link[href]") {
			rel, _ := l.Attribute("rel")
			if !containsWord(rel, "canonical") {
				continue
			}
			href, _ := l.Attribute("href")
			return resolve(doc, searchURL, href)
		}
	}

	if results := doc.FindByClass("results", "search"); len(results) > 0 {
		if link, ok := results[0].FindFirst(".view-conjugations-link"); ok {
			if href, ok := link.Attribute("href"); ok {
				return resolve(doc, searchURL, href)
			}
		}
	}
	return "", fmt.Errorf("%w: %q", ErrNotFound, expression)
}

// IsURL reports whether s looks like an absolute http(s) URL rather than an
// expression.
func IsURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func containsWord(list, word string) bool {
	for _, w := range strings.Fields(list) {
		if w == word {
			return true
		}
	}
	return false
}
