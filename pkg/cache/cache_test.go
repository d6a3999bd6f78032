package cache

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/japaniel/jpdeck/pkg/note"
	"github.com/japaniel/jpdeck/pkg/pitch"
	"github.com/japaniel/jpdeck/pkg/scrape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestGetOrComputeCallsComputeOnce(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()
	var calls int
	compute := func(ctx context.Context) (string, error) {
		calls++
		return "value", nil
	}

	v, err := GetOrCompute(ctx, c, NamespaceNote, "k", compute)
	require.NoError(t, err)
	require.Equal(t, "value", v)

	v, err = GetOrCompute(ctx, c, NamespaceNote, "k", compute)
	require.NoError(t, err)
	require.Equal(t, "value", v)
	require.Equal(t, 1, calls)
}

func TestGetOrComputeConcurrentCallersShareCompute(t *testing.T) {
	c := openTestCache(t)
	var calls int32
	release := make(chan struct{})
	compute := func(ctx context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return 42, nil
	}

	var wg sync.WaitGroup
	results := make([]int, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := GetOrCompute(context.Background(), c, NamespaceNote, "same", compute)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, v := range results {
		require.Equal(t, 42, v)
	}
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGetOrComputeFailureStoresNothing(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()
	boom := errors.New("boom")

	_, err := GetOrCompute(ctx, c, NamespaceNote, "k", func(context.Context) (string, error) {
		return "", boom
	})
	require.ErrorIs(t, err, boom)

	ok, err := c.Contains(ctx, NamespaceNote, "k")
	require.NoError(t, err)
	require.False(t, ok)

	v, err := GetOrCompute(ctx, c, NamespaceNote, "k", func(context.Context) (string, error) {
		return "second", nil
	})
	require.NoError(t, err)
	require.Equal(t, "second", v)
}

func TestNamespacesAreDisjoint(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	_, err := GetOrCompute(ctx, c, NamespaceNote, "x", func(context.Context) (string, error) { return "note", nil })
	require.NoError(t, err)
	v, err := GetOrCompute(ctx, c, NamespaceList, "x", func(context.Context) (string, error) { return "list", nil })
	require.NoError(t, err)
	require.Equal(t, "list", v)

	n, err := c.Count(ctx, NamespaceNote)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestGetOrComputeEmptyKey(t *testing.T) {
	c := openTestCache(t)
	_, err := GetOrCompute(context.Background(), c, NamespaceNote, "", func(context.Context) (string, error) {
		t.Fatal("compute must not run")
		return "", nil
	})
	require.ErrorIs(t, err, ErrInvalidKey)
}

func TestKeys(t *testing.T) {
	tests := []struct {
		url, note, list string
	}{
		{"https://jpdb.io/novel/1/kuma/vocabulary-list", "vocabulary-list", "kuma_vocabulary-list"},
		{"https://jpdb.io/vocabulary/1358280/食べる#a", "食べる", "1358280_食べる"},
		{"https://jpdb.io/deck/12/vocabulary-list/?offset=50", "vocabulary-list", "12_vocabulary-list"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			k, err := NoteKey(tt.url)
			require.NoError(t, err)
			require.Equal(t, tt.note, k)
			k, err = ListKey(tt.url)
			require.NoError(t, err)
			require.Equal(t, tt.list, k)
		})
	}

	_, err := NoteKey("https://jpdb.io/")
	require.ErrorIs(t, err, ErrInvalidKey)
	_, err = ListKey("https://jpdb.io/single")
	require.ErrorIs(t, err, ErrInvalidKey)
}

func sampleNote(url string) note.Note {
	return note.Note{
		URL:          url,
		Expression:   "食べる",
		Spelling:     "食[た]べる",
		Reading:      "たべる",
		PartOfSpeech: "Ichidan verb",
		Frequency:    353,
		Meanings:     []string{"to eat"},
		Examples:     []scrape.Example{{Japanese: "ご飯を食べる。", English: "I eat rice."}},
		Pitch:        &pitch.Diagram{Mora: []string{"た", "べ", "る"}, Pattern: "LHLL", SVG: "<svg></svg>"},
	}
}

func TestNoteSecondBuildServedFromCache(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()
	url := "https://jpdb.io/vocabulary/1358280/taberu"
	var builds int
	build := func(ctx context.Context, u string) (note.Note, error) {
		builds++
		return sampleNote(u), nil
	}

	first, err := c.Note(ctx, url, build)
	require.NoError(t, err)
	second, err := c.Note(ctx, url, build)
	require.NoError(t, err)

	require.Equal(t, 1, builds)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("cached note differs (-first +second):\n%s", diff)
	}

	all, err := c.Notes(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Empty(t, cmp.Diff(sampleNote(url), all[0]))
}

func TestListCached(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()
	var crawls int
	discover := func(ctx context.Context, u string) ([]string, error) {
		crawls++
		return []string{"a", "b", "c"}, nil
	}
	listURL := "https://jpdb.io/novel/1/kuma/vocabulary-list"

	for i := 0; i < 2; i++ {
		got, err := c.List(ctx, listURL, discover)
		require.NoError(t, err)
		require.Equal(t, []string{"a", "b", "c"}, got)
	}
	require.Equal(t, 1, crawls)

	ok, err := c.Contains(ctx, NamespaceList, "kuma_vocabulary-list")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestCachePersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()

	c, err := Open(path)
	require.NoError(t, err)
	_, err = GetOrCompute(ctx, c, NamespaceNote, "k", func(context.Context) (string, error) { return "v", nil })
	require.NoError(t, err)
	require.NoError(t, c.Close())

	c, err = Open(path)
	require.NoError(t, err)
	defer c.Close()
	v, err := GetOrCompute(ctx, c, NamespaceNote, "k", func(context.Context) (string, error) {
		t.Fatal("value should come from disk")
		return "", nil
	})
	require.NoError(t, err)
	require.Equal(t, "v", v)
}
