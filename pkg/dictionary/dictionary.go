package dictionary

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// BankFilePrefix is the file name prefix of term-meta bank files inside a
// Yomichan-style dictionary archive.
const BankFilePrefix = "term_meta_bank"

// BankEntry is one row of a term-meta bank: [expression, tag, data].
// Rows whose data is not pitch data (frequency rows, for example) have
// an empty Pitches slice.
type BankEntry struct {
	Expression string
	Tag        string
	Reading    string
	Pitches    []BankPitch
}

// BankPitch is one accent variant of a reading.
type BankPitch struct {
	Position int `json:"position"`
}

type bankData struct {
	Reading string      `json:"reading"`
	Pitches []BankPitch `json:"pitches"`
}

// UnmarshalJSON decodes the positional array form used by the bank files.
func (e *BankEntry) UnmarshalJSON(b []byte) error {
	var row []json.RawMessage
	if err := json.Unmarshal(b, &row); err != nil {
		return err
	}
	if len(row) < 3 {
		return fmt.Errorf("bank entry has %d fields, want 3", len(row))
	}
	if err := json.Unmarshal(row[0], &e.Expression); err != nil {
		return fmt.Errorf("bank entry expression: %w", err)
	}
	if err := json.Unmarshal(row[1], &e.Tag); err != nil {
		return fmt.Errorf("bank entry tag: %w", err)
	}

	// Frequency banks store a bare number or a differently shaped object here.
	var data bankData
	if err := json.Unmarshal(row[2], &data); err != nil {
		return nil
	}
	e.Reading = data.Reading
	e.Pitches = data.Pitches
	return nil
}

// LoadBank reads a single term-meta bank file.
func LoadBank(path string) ([]BankEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []BankEntry
	if err := json.NewDecoder(f).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to parse bank %s: %w", path, err)
	}
	return entries, nil
}

// BankFiles lists the term-meta bank files in dir in lexical order.
func BankFiles(dir string) ([]string, error) {
	items, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, it := range items {
		if it.IsDir() {
			continue
		}
		if strings.HasPrefix(it.Name(), BankFilePrefix) && strings.HasSuffix(it.Name(), ".json") {
			files = append(files, filepath.Join(dir, it.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// LoadBankDir reads every term-meta bank file in dir. Files are read in
// lexical order so that later banks win on duplicate (expression, reading).
func LoadBankDir(dir string) ([]BankEntry, error) {
	files, err := BankFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no %s*.json files in %s", BankFilePrefix, dir)
	}
	var all []BankEntry
	for _, f := range files {
		entries, err := LoadBank(f)
		if err != nil {
			return nil, err
		}
		all = append(all, entries...)
	}
	return all, nil
}
