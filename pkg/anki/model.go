// Package anki writes notes into an Anki package (.apkg).
package anki

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	// DefaultModelID and DefaultDeckID keep re-imports updating the same
	// note type and deck.
	DefaultModelID   int64 = 1697807219
	DefaultDeckID    int64 = 1294895494
	DefaultModelName       = "jpdeck vocabulary"
	DefaultDeckName        = "jpdeck"
)

// FieldNames is the field order of the note type.
var FieldNames = []string{
	"Expression",
	"PartOfSpeech",
	"Spelling",
	"Pitch",
	"Frequency",
	"Meanings",
	"Examples",
}

//go:embed templates/*
var defaultTemplates embed.FS

// Template is one card type: front and back in Anki template syntax.
type Template struct {
	Name  string
	Front string
	Back  string
}

// Model is an Anki note type.
type Model struct {
	ID        int64
	Name      string
	Fields    []string
	Templates []Template
	CSS       string
}

// Deck is the target deck of an export.
type Deck struct {
	ID   int64
	Name string
}

var templateFiles = []struct {
	name, front, back string
}{
	{"Recognition", "recognition_front.html", "recognition_back.html"},
	{"Recall", "recall_front.html", "recall_back.html"},
}

const cssFile = "style.css"

// LoadModel builds the note type. Files in dir with the default template
// names (recognition_front.html, recall_back.html, style.css, ...) replace
// the embedded defaults; an empty dir uses the defaults only.
func LoadModel(id int64, name, dir string) (Model, error) {
	m := Model{ID: id, Name: name, Fields: append([]string(nil), FieldNames...)}
	read := func(file string) (string, error) {
		if dir != "" {
			b, err := os.ReadFile(filepath.Join(dir, file))
			if err == nil {
				return string(b), nil
			}
			if !errors.Is(err, fs.ErrNotExist) {
				return "", fmt.Errorf("read template %s: %w", file, err)
			}
		}
		b, err := defaultTemplates.ReadFile("templates/" + file)
		if err != nil {
			return "", fmt.Errorf("read embedded template %s: %w", file, err)
		}
		return string(b), nil
	}

	for _, tf := range templateFiles {
		front, err := read(tf.front)
		if err != nil {
			return Model{}, err
		}
		back, err := read(tf.back)
		if err != nil {
			return Model{}, err
		}
		m.Templates = append(m.Templates, Template{Name: tf.name, Front: front, Back: back})
	}
	css, err := read(cssFile)
	if err != nil {
		return Model{}, err
	}
	m.CSS = css
	return m, nil
}

// DefaultModel is the embedded note type with the default ids.
func DefaultModel() Model {
	m, err := LoadModel(DefaultModelID, DefaultModelName, "")
	if err != nil {
		// The templates are compiled in.
		panic(err)
	}
	return m
}
