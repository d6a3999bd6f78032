package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a cache entry does not exist.
var ErrNotFound = errors.New("db: entry not found")

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// GetEntry returns the stored value for (namespace, key).
func GetEntry(ctx context.Context, db DBExecutor, namespace, key string) ([]byte, error) {
	var value []byte
	err := db.QueryRowContext(ctx,
		`SELECT value FROM cache_entries WHERE namespace = ? AND key = ?`,
		namespace, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get entry %s/%s: %w", namespace, key, err)
	}
	return value, nil
}

// InsertEntryOnce stores value unless (namespace, key) already exists.
// It reports whether this call performed the write; an existing row is
// never modified.
func InsertEntryOnce(ctx context.Context, db DBExecutor, namespace, key string, value []byte) (bool, error) {
	if strings.TrimSpace(namespace) == "" || strings.TrimSpace(key) == "" {
		return false, fmt.Errorf("namespace and key must be non-empty")
	}
	res, err := db.ExecContext(ctx,
		`INSERT INTO cache_entries (namespace, key, value) VALUES (?, ?, ?)
		 ON CONFLICT(namespace, key) DO NOTHING`,
		namespace, key, value,
	)
	if err != nil {
		return false, fmt.Errorf("insert entry %s/%s: %w", namespace, key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ListEntries returns every entry of a namespace in insertion order.
func ListEntries(ctx context.Context, db DBExecutor, namespace string) ([]Entry, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, namespace, key, value, created_at FROM cache_entries WHERE namespace = ? ORDER BY id`,
		namespace,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Namespace, &e.Key, &e.Value, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CountEntries returns the number of entries in a namespace.
func CountEntries(ctx context.Context, db DBExecutor, namespace string) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cache_entries WHERE namespace = ?`, namespace).Scan(&n)
	return n, err
}

// ReplacePitchAccents clears the pitch table and inserts accents.
// Callers should pass a *sql.Tx so readers never see a half-built table.
func ReplacePitchAccents(ctx context.Context, db DBExecutor, accents []PitchAccent) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM pitch_accents`); err != nil {
		return fmt.Errorf("clear pitch accents: %w", err)
	}
	for _, a := range accents {
		if strings.TrimSpace(a.Expression) == "" {
			return fmt.Errorf("pitch accent expression must be non-empty")
		}
		_, err := db.ExecContext(ctx,
			`INSERT INTO pitch_accents (expression, reading, position) VALUES (?, ?, ?)
			 ON CONFLICT(expression, reading) DO UPDATE SET position = excluded.position`,
			a.Expression, a.Reading, a.Position,
		)
		if err != nil {
			return fmt.Errorf("insert pitch accent %s: %w", a.Expression, err)
		}
	}
	return nil
}

// LoadPitchAccents returns every persisted accent.
func LoadPitchAccents(ctx context.Context, db DBExecutor) ([]PitchAccent, error) {
	rows, err := db.QueryContext(ctx, `SELECT expression, reading, position FROM pitch_accents ORDER BY expression, reading`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []PitchAccent
	for rows.Next() {
		var a PitchAccent
		if err := rows.Scan(&a.Expression, &a.Reading, &a.Position); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CountPitchAccents returns the number of persisted accents.
func CountPitchAccents(ctx context.Context, db DBExecutor) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pitch_accents`).Scan(&n)
	return n, err
}
