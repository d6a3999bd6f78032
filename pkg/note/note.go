// Package note assembles study notes from vocabulary entry pages.
package note

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/japaniel/jpdeck/pkg/pitch"
	"github.com/japaniel/jpdeck/pkg/scrape"
)

// Note is one vocabulary entry. Notes are built once and never mutated.
type Note struct {
	URL          string           `json:"url"`
	Expression   string           `json:"expression"`
	Spelling     string           `json:"spelling"`
	Reading      string           `json:"reading"`
	PartOfSpeech string           `json:"part_of_speech"`
	Frequency    int              `json:"frequency"`
	Meanings     []string         `json:"meanings"`
	Examples     []scrape.Example `json:"examples"`
	Pitch        *pitch.Diagram   `json:"pitch,omitempty"`
}

// Pipeline fetches an entry page and turns it into a Note.
type Pipeline struct {
	Fetcher scrape.Fetcher
	// Dictionary may be nil, in which case notes carry no pitch.
	Dictionary pitch.Dictionary
	// Logger receives warnings about unusable accent data. nil means no logging.
	Logger *slog.Logger
}

// Build fetches url, extracts its fields and derives the pitch diagram.
// An accent position that does not fit the reading is logged and dropped
// rather than failing the note.
func (p *Pipeline) Build(ctx context.Context, url string) (Note, error) {
	doc, err := p.Fetcher.Fetch(ctx, url)
	if err != nil {
		return Note{}, err
	}
	fields, err := scrape.ExtractFields(doc)
	if err != nil {
		return Note{}, fmt.Errorf("extract %s: %w", url, err)
	}

	diagram, err := pitch.Derive(fields.Expression, fields.Spelling, p.Dictionary)
	if err != nil {
		if !errors.Is(err, pitch.ErrInvalidPosition) {
			return Note{}, fmt.Errorf("pitch for %s: %w", url, err)
		}
		if p.Logger != nil {
			p.Logger.WarnContext(ctx, "ignoring accent data", "expression", fields.Expression, "spelling", fields.Spelling, "err", err)
		}
		diagram = nil
	}

	return Note{
		URL:          url,
		Expression:   fields.Expression,
		Spelling:     fields.Spelling,
		Reading:      fields.Reading,
		PartOfSpeech: fields.PartOfSpeech,
		Frequency:    fields.Frequency,
		Meanings:     fields.Meanings,
		Examples:     fields.Examples,
		Pitch:        diagram,
	}, nil
}
