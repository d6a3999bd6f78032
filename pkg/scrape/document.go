// Package scrape fetches vocabulary pages and extracts structured fields
// from them.
package scrape

import (
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Node is the subset of a parsed HTML tree the extractors rely on.
type Node interface {
	// FindByClass returns descendant elements carrying every class given.
	FindByClass(classes ...string) []Node
	// FindAll returns descendant elements matching a CSS selector.
	FindAll(selector string) []Node
	// FindFirst returns the first descendant matching a CSS selector.
	FindFirst(selector string) (Node, bool)
	Attribute(name string) (string, bool)
	Text() string
	// Children returns direct children, text nodes included.
	Children() []Node
	// Tag is the element name, or "" for text and other non-element nodes.
	Tag() string
}

// Document is a parsed page together with the URL it was loaded from.
type Document interface {
	Node
	URL() *url.URL
}

// ParseDocument parses HTML read from r. pageURL anchors relative links.
func ParseDocument(r io.Reader, pageURL string) (Document, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	doc.Url = u
	return &document{node: node{sel: doc.Selection}, url: u}, nil
}

type document struct {
	node
	url *url.URL
}

func (d *document) URL() *url.URL { return d.url }

// node wraps a goquery selection holding exactly one html node.
type node struct {
	sel *goquery.Selection
}

func wrap(sel *goquery.Selection) []Node {
	out := make([]Node, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, node{sel: s})
	})
	return out
}

func (n node) FindByClass(classes ...string) []Node {
	if len(classes) == 0 {
		return nil
	}
	return n.FindAll("." + strings.Join(classes, "."))
}

func (n node) FindAll(selector string) []Node {
	return wrap(n.sel.Find(selector))
}

func (n node) FindFirst(selector string) (Node, bool) {
	s := n.sel.Find(selector).First()
	if s.Length() == 0 {
		return nil, false
	}
	return node{sel: s}, true
}

func (n node) Attribute(name string) (string, bool) {
	return n.sel.Attr(name)
}

func (n node) Text() string {
	return n.sel.Text()
}

func (n node) Children() []Node {
	return wrap(n.sel.Contents())
}

func (n node) Tag() string {
	if len(n.sel.Nodes) == 0 || n.sel.Nodes[0].Type != html.ElementNode {
		return ""
	}
	return n.sel.Nodes[0].Data
}
