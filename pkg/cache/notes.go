package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/japaniel/jpdeck/pkg/db"
	"github.com/japaniel/jpdeck/pkg/note"
)

// Note returns the cached note for url, building it with build on a miss.
func (c *Cache) Note(ctx context.Context, url string, build func(context.Context, string) (note.Note, error)) (note.Note, error) {
	key, err := NoteKey(url)
	if err != nil {
		return note.Note{}, err
	}
	return GetOrCompute(ctx, c, NamespaceNote, key, func(ctx context.Context) (note.Note, error) {
		return build(ctx, url)
	})
}

// List returns the cached entry URLs of a list, crawling with discover on a miss.
func (c *Cache) List(ctx context.Context, url string, discover func(context.Context, string) ([]string, error)) ([]string, error) {
	key, err := ListKey(url)
	if err != nil {
		return nil, err
	}
	return GetOrCompute(ctx, c, NamespaceList, key, func(ctx context.Context) ([]string, error) {
		return discover(ctx, url)
	})
}

// Notes returns every cached note in the order they were stored.
func (c *Cache) Notes(ctx context.Context) ([]note.Note, error) {
	entries, err := db.ListEntries(ctx, c.conn, string(NamespaceNote))
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	out := make([]note.Note, 0, len(entries))
	for _, e := range entries {
		var n note.Note
		if err := json.Unmarshal(e.Value, &n); err != nil {
			return nil, fmt.Errorf("decode note %s: %w", e.Key, err)
		}
		out = append(out, n)
	}
	return out, nil
}
