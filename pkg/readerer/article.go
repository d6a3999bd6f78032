package readerer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"

	"github.com/go-resty/resty/v2"
	"github.com/go-shiori/go-readability"
)

// MaxArticleSize bounds the body accepted by Download.
const MaxArticleSize = 10 * 1024 * 1024

var (
	// (?s) allows dot to match newlines
	// (?i) makes it case-insensitive
	reRT = regexp.MustCompile(`(?si)<rt\b[^>]*>.*?</rt>`)
	reRP = regexp.MustCompile(`(?si)<rp\b[^>]*>.*?</rp>`)
)

// SanitizeRuby removes ruby text (<rt>...</rt>) and ruby parentheses (<rp>...</rp>)
// from HTML content. Readability keeps furigana as plain text otherwise, so
// "漢字" would come out as "漢字かんじ".
func SanitizeRuby(content []byte) []byte {
	cleaned := reRT.ReplaceAll(content, []byte{})
	cleaned = reRP.ReplaceAll(cleaned, []byte{})
	return cleaned
}

// Article is the readable part of a web page.
type Article struct {
	Title string
	Text  string
}

// ArticleText strips furigana from an HTML page and extracts its main text.
func ArticleText(content []byte, pageURL string) (Article, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return Article{}, fmt.Errorf("parse article url: %w", err)
	}
	article, err := readability.FromReader(bytes.NewReader(SanitizeRuby(content)), u)
	if err != nil {
		return Article{}, fmt.Errorf("extract article: %w", err)
	}
	return Article{Title: article.Title, Text: article.TextContent}, nil
}

// Download fetches a page body, refusing bodies over MaxArticleSize.
func Download(ctx context.Context, client *resty.Client, pageURL string) ([]byte, error) {
	res, err := client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	body := res.RawBody()
	defer body.Close()
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", pageURL, res.StatusCode())
	}

	var buf bytes.Buffer
	n, err := buf.ReadFrom(io.LimitReader(body, MaxArticleSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", pageURL, err)
	}
	if n > MaxArticleSize {
		return nil, fmt.Errorf("fetch %s: body exceeds %d bytes", pageURL, MaxArticleSize)
	}
	return buf.Bytes(), nil
}
