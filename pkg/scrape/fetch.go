package scrape

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Fetcher loads and parses one page.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (Document, error)
}

// DefaultUserAgent mimics a desktop browser.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// FetcherOptions configures an HTTPFetcher.
type FetcherOptions struct {
	UserAgent string
	// Timeout of zero leaves the transport default (no timeout).
	Timeout time.Duration
	Logger  *slog.Logger
}

// HTTPFetcher is a Fetcher backed by resty.
type HTTPFetcher struct {
	client *resty.Client
	logger *slog.Logger
}

// NewHTTPFetcher creates a fetcher. No retries are configured.
func NewHTTPFetcher(opts FetcherOptions) *HTTPFetcher {
	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	client := resty.New().
		SetHeader("User-Agent", ua).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
		SetHeader("Accept-Language", "en-US,en;q=0.9,ja;q=0.8")
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	return &HTTPFetcher{client: client, logger: opts.Logger}
}

// Fetch GETs pageURL and parses the body. Every failure is a *TransportError.
func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) (Document, error) {
	if f.logger != nil {
		f.logger.DebugContext(ctx, "fetching page", "url", pageURL)
	}
	res, err := f.client.R().
		SetContext(ctx).
		Get(pageURL)
	if err != nil {
		return nil, &TransportError{URL: pageURL, Err: err}
	}
	if res.StatusCode() != http.StatusOK {
		return nil, &TransportError{URL: pageURL, StatusCode: res.StatusCode()}
	}

	// Redirects may have moved us; anchor relative links on the final URL.
	finalURL := pageURL
	if raw := res.RawResponse; raw != nil && raw.Request != nil && raw.Request.URL != nil {
		finalURL = raw.Request.URL.String()
	}
	doc, err := ParseDocument(bytes.NewReader(res.Body()), finalURL)
	if err != nil {
		return nil, &TransportError{URL: pageURL, StatusCode: res.StatusCode(), Err: err}
	}
	return doc, nil
}
