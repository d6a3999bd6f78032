package dictionary

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/japaniel/jpdeck/pkg/db"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

const sampleBank = `[
  ["橋", "pitch", {"reading": "はし", "pitches": [{"position": 2}]}],
  ["箸", "pitch", {"reading": "はし", "pitches": [{"position": 1}, {"position": 0}]}],
  ["端", "pitch", {"reading": "はし", "pitches": [{"position": 0}]}],
  ["頻度", "freq", 1234],
  ["空", "pitch", {"reading": "そら", "pitches": []}],
  ["テスト", "pitch", {"reading": "てすと", "pitches": [{"position": 1}]}]
]`

func TestBankEntryUnmarshal(t *testing.T) {
	var entries []BankEntry
	require.NoError(t, json.Unmarshal([]byte(sampleBank), &entries))
	require.Len(t, entries, 6)

	require.Equal(t, "箸", entries[1].Expression)
	require.Equal(t, "pitch", entries[1].Tag)
	require.Equal(t, "はし", entries[1].Reading)
	require.Equal(t, []BankPitch{{Position: 1}, {Position: 0}}, entries[1].Pitches)

	// Frequency rows decode without pitch data.
	require.Equal(t, "頻度", entries[3].Expression)
	require.Empty(t, entries[3].Pitches)
}

func TestBankEntryUnmarshalShortRow(t *testing.T) {
	var e BankEntry
	require.Error(t, json.Unmarshal([]byte(`["only", "two"]`), &e))
}

func TestBuildFromBank(t *testing.T) {
	var entries []BankEntry
	require.NoError(t, json.Unmarshal([]byte(sampleBank), &entries))
	d := BuildFromBank(entries)

	pos, ok := d.Lookup("箸", "はし")
	require.True(t, ok)
	require.Equal(t, 1, pos, "first pitch value is used")

	_, ok = d.Lookup("頻度", "")
	require.False(t, ok)
	_, ok = d.Lookup("空", "そら")
	require.False(t, ok)
	require.Equal(t, 4, d.Len())
}

func TestBuildFromBankLastWriteWins(t *testing.T) {
	d := BuildFromBank([]BankEntry{
		{Expression: "橋", Reading: "はし", Pitches: []BankPitch{{Position: 2}}},
		{Expression: "橋", Reading: "はし", Pitches: []BankPitch{{Position: 0}}},
	})
	pos, ok := d.Lookup("橋", "はし")
	require.True(t, ok)
	require.Equal(t, 0, pos)
}

func TestLookupKatakanaFallback(t *testing.T) {
	d := New()
	d.Set("テスト", "てすと", 1)

	pos, ok := d.Lookup("テスト", "テスト")
	require.True(t, ok)
	require.Equal(t, 1, pos)

	_, ok = d.Lookup("テスト", "ちがう")
	require.False(t, ok)
	_, ok = d.Lookup("無い", "ない")
	require.False(t, ok)
}

func TestLoadBankDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "term_meta_bank_1.json"), []byte(sampleBank), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "term_meta_bank_2.json"),
		[]byte(`[["橋", "pitch", {"reading": "はし", "pitches": [{"position": 0}]}]]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.json"), []byte(`{}`), 0o644))

	entries, err := LoadBankDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 7)

	d := BuildFromBank(entries)
	pos, _ := d.Lookup("橋", "はし")
	require.Equal(t, 0, pos, "later bank files overwrite earlier ones")
}

func TestLoadBankDirEmpty(t *testing.T) {
	_, err := LoadBankDir(t.TempDir())
	require.Error(t, err)
}

func TestSaveLoadAndBuild(t *testing.T) {
	conn, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer conn.Close()
	conn.SetMaxOpenConns(1)
	require.NoError(t, db.InitDB(conn))
	ctx := context.Background()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "term_meta_bank_1.json"), []byte(sampleBank), 0o644))

	built, err := LoadOrBuild(ctx, conn, dir)
	require.NoError(t, err)
	require.Equal(t, 4, built.Len())

	// Second call reads the table; the bank directory is no longer needed.
	loaded, err := LoadOrBuild(ctx, conn, filepath.Join(dir, "gone"))
	require.NoError(t, err)
	require.Equal(t, built.Accents(), loaded.Accents())
}

func TestToHiragana(t *testing.T) {
	tests := []struct {
		in, out string
	}{
		{"ア", "あ"},
		{"カ", "か"},
		{"ガ", "が"},
		{"パ", "ぱ"},
		{"ン", "ん"},
		{"ー", "ー"},
		{"abc", "abc"},
		{"あいう", "あいう"},
	}
	for _, tt := range tests {
		if got := ToHiragana(tt.in); got != tt.out {
			t.Errorf("ToHiragana(%q) = %q; want %q", tt.in, got, tt.out)
		}
	}
}
