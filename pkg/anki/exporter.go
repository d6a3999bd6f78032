package anki

import (
	"archive/zip"
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/japaniel/jpdeck/pkg/note"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed collection.sql
var collectionSQL string

// Exporter writes notes as an .apkg: a zip holding a collection.anki2
// SQLite database and an empty media map.
type Exporter struct {
	Model Model
	Deck  Deck
	// Now stamps ids and modification times. nil means time.Now.
	Now func() time.Time
	// TempDir holds the collection while it is built. "" means os.TempDir.
	TempDir string
	// Logger is used for per-export summaries. nil means no logging.
	Logger *slog.Logger
}

// NewExporter creates an exporter for the default model and deck.
func NewExporter() *Exporter {
	return &Exporter{
		Model: DefaultModel(),
		Deck:  Deck{ID: DefaultDeckID, Name: DefaultDeckName},
	}
}

// WriteFile writes the package to path.
func (e *Exporter) WriteFile(ctx context.Context, path string, notes []note.Note) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := e.Write(ctx, f, notes); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write writes the package to w. Each note gets one card per template.
func (e *Exporter) Write(ctx context.Context, w io.Writer, notes []note.Note) error {
	dir, err := os.MkdirTemp(e.TempDir, "jpdeck-apkg-")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	collection := filepath.Join(dir, "collection.anki2")
	if err := e.buildCollection(ctx, collection, notes); err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	if err := addFile(zw, "collection.anki2", collection); err != nil {
		return err
	}
	media, err := zw.Create("media")
	if err != nil {
		return fmt.Errorf("write media: %w", err)
	}
	if _, err := io.WriteString(media, "{}"); err != nil {
		return fmt.Errorf("write media: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish package: %w", err)
	}

	if e.Logger != nil {
		e.Logger.InfoContext(ctx, "wrote anki package", "deck", e.Deck.Name, "notes", len(notes), "cards", len(notes)*len(e.Model.Templates))
	}
	return nil
}

func addFile(zw *zip.Writer, name, path string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()
	dst, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func (e *Exporter) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Exporter) buildCollection(ctx context.Context, path string, notes []note.Note) (err error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("open collection: %w", err)
	}
	defer func() {
		if cerr := conn.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close collection: %w", cerr)
		}
	}()

	if _, err := conn.ExecContext(ctx, collectionSQL); err != nil {
		return fmt.Errorf("create collection schema: %w", err)
	}

	now := e.now()
	modSeconds := now.Unix()
	conf, models, decks, dconf, err := collectionJSON(e.Model, e.Deck, modSeconds)
	if err != nil {
		return fmt.Errorf("encode collection: %w", err)
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO col (id, crt, mod, scm, ver, dty, usn, ls, conf, models, decks, dconf, tags)
		 VALUES (1, ?, ?, ?, 11, 0, 0, 0, ?, ?, ?, ?, '{}')`,
		modSeconds, now.UnixMilli(), now.UnixMilli(), conf, models, decks, dconf,
	); err != nil {
		return fmt.Errorf("insert col: %w", err)
	}

	noteStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO notes (id, guid, mid, mod, usn, tags, flds, sfld, csum, flags, data)
		 VALUES (?, ?, ?, ?, -1, '', ?, ?, ?, 0, '')`)
	if err != nil {
		return err
	}
	defer noteStmt.Close()
	cardStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO cards (id, nid, did, ord, mod, usn, type, queue, due, ivl, factor, reps, lapses, left, odue, odid, flags, data)
		 VALUES (?, ?, ?, ?, ?, -1, 0, 0, ?, 0, 0, 0, 0, 0, 0, 0, 0, '')`)
	if err != nil {
		return err
	}
	defer cardStmt.Close()

	// Millisecond timestamps as ids, one apart, as Anki does for bulk adds.
	baseID := now.UnixMilli()
	nTemplates := len(e.Model.Templates)
	for i, n := range notes {
		fields := NoteFields(n)
		noteID := baseID + int64(i)
		if _, err := noteStmt.ExecContext(ctx,
			noteID, GUID(fields[0], fields[1]), e.Model.ID, modSeconds,
			strings.Join(fields, "\x1f"), stripHTML(fields[0]), checksum(fields[0]),
		); err != nil {
			return fmt.Errorf("insert note %q: %w", n.Expression, err)
		}
		for ord := 0; ord < nTemplates; ord++ {
			cardID := baseID + int64(i*nTemplates+ord)
			if _, err := cardStmt.ExecContext(ctx, cardID, noteID, e.Deck.ID, ord, modSeconds, i); err != nil {
				return fmt.Errorf("insert card %q/%d: %w", n.Expression, ord, err)
			}
		}
	}
	return tx.Commit()
}
