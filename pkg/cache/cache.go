// Package cache is a write-once store of computed values keyed by
// namespace and key, kept in SQLite.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/japaniel/jpdeck/pkg/db"
	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/sync/singleflight"
)

// Namespace partitions the key space. Equal keys in different namespaces
// never collide.
type Namespace string

const (
	NamespaceNote Namespace = "note"
	NamespaceList Namespace = "list"
)

// Cache stores each (namespace, key) once. Entries are never updated or
// evicted.
type Cache struct {
	conn  *sql.DB
	group singleflight.Group
	// Logger reports hits and stores at debug level. nil means no logging.
	Logger *slog.Logger
}

// Open opens (creating if needed) the SQLite database at path and applies
// the schema. ":memory:" gives a private in-memory cache.
func Open(path string) (*Cache, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", path, err)
	}
	// One connection keeps ":memory:" databases shared and serializes writes.
	conn.SetMaxOpenConns(1)
	if err := db.InitDB(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("init cache %s: %w", path, err)
	}
	return &Cache{conn: conn}, nil
}

// Close releases the database.
func (c *Cache) Close() error {
	return c.conn.Close()
}

// DB exposes the underlying connection for the other tables of the same file.
func (c *Cache) DB() *sql.DB {
	return c.conn
}

// Contains reports whether (ns, key) is stored.
func (c *Cache) Contains(ctx context.Context, ns Namespace, key string) (bool, error) {
	_, err := db.GetEntry(ctx, c.conn, string(ns), key)
	if errors.Is(err, db.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Count returns the number of entries stored in ns.
func (c *Cache) Count(ctx context.Context, ns Namespace) (int, error) {
	return db.CountEntries(ctx, c.conn, string(ns))
}

// GetOrCompute returns the value stored under (ns, key). On a miss it calls
// compute, stores the JSON encoding of the result and returns it. compute is
// not called on a hit, and concurrent callers for the same key share a single
// call. If another writer stored the key first, the stored value wins.
// A failed compute stores nothing.
func GetOrCompute[T any](ctx context.Context, c *Cache, ns Namespace, key string, compute func(context.Context) (T, error)) (T, error) {
	var zero T
	if key == "" {
		return zero, fmt.Errorf("%w: empty key in namespace %s", ErrInvalidKey, ns)
	}

	raw, err, _ := c.group.Do(string(ns)+"\x00"+key, func() (interface{}, error) {
		stored, err := db.GetEntry(ctx, c.conn, string(ns), key)
		if err == nil {
			if c.Logger != nil {
				c.Logger.DebugContext(ctx, "cache hit", "namespace", ns, "key", key)
			}
			return stored, nil
		}
		if !errors.Is(err, db.ErrNotFound) {
			return nil, err
		}

		value, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("encode %s/%s: %w", ns, key, err)
		}
		inserted, err := db.InsertEntryOnce(ctx, c.conn, string(ns), key, encoded)
		if err != nil {
			return nil, err
		}
		if !inserted {
			return db.GetEntry(ctx, c.conn, string(ns), key)
		}
		if c.Logger != nil {
			c.Logger.DebugContext(ctx, "cache store", "namespace", ns, "key", key)
		}
		return encoded, nil
	})
	if err != nil {
		return zero, err
	}

	// Each caller decodes its own copy.
	var out T
	if err := json.Unmarshal(raw.([]byte), &out); err != nil {
		return zero, fmt.Errorf("decode %s/%s: %w", ns, key, err)
	}
	return out, nil
}
