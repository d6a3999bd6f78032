package dictionary

import (
	"sort"
	"sync"
)

// Accent is one flattened (expression, reading, position) record.
type Accent struct {
	Expression string
	Reading    string
	Position   int
}

// Dictionary maps expression -> reading -> pitch accent position.
// It is built once and only read afterwards; the mutex guards Set so a
// dictionary can still be assembled incrementally.
type Dictionary struct {
	mu    sync.RWMutex
	index map[string]map[string]int
}

// New returns an empty dictionary.
func New() *Dictionary {
	return &Dictionary{index: make(map[string]map[string]int)}
}

// BuildFromBank records the first pitch position of every entry. Entries
// without pitch data are skipped. A later duplicate (expression, reading)
// overwrites an earlier one.
func BuildFromBank(entries []BankEntry) *Dictionary {
	d := New()
	for _, e := range entries {
		if e.Expression == "" || len(e.Pitches) == 0 {
			continue
		}
		d.Set(e.Expression, e.Reading, e.Pitches[0].Position)
	}
	return d
}

// Set records a position, replacing any previous value.
func (d *Dictionary) Set(expression, reading string, position int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	readings, ok := d.index[expression]
	if !ok {
		readings = make(map[string]int)
		d.index[expression] = readings
	}
	readings[reading] = position
}

// Lookup returns the accent position for expression read as reading.
// Katakana readings fall back to their hiragana form.
func (d *Dictionary) Lookup(expression, reading string) (int, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	readings, ok := d.index[expression]
	if !ok {
		return 0, false
	}
	if pos, ok := readings[reading]; ok {
		return pos, true
	}
	if h := ToHiragana(reading); h != reading {
		pos, ok := readings[h]
		return pos, ok
	}
	return 0, false
}

// Len returns the number of (expression, reading) pairs.
func (d *Dictionary) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	n := 0
	for _, r := range d.index {
		n += len(r)
	}
	return n
}

// Accents flattens the dictionary in a deterministic order.
func (d *Dictionary) Accents() []Accent {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Accent, 0, len(d.index))
	for expr, readings := range d.index {
		for reading, pos := range readings {
			out = append(out, Accent{Expression: expr, Reading: reading, Position: pos})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Expression != out[j].Expression {
			return out[i].Expression < out[j].Expression
		}
		return out[i].Reading < out[j].Reading
	})
	return out
}

// ToHiragana converts Katakana to Hiragana.
func ToHiragana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= 0x30A1 && r <= 0x30F6 {
			runes[i] = r - 0x60
		}
	}
	return string(runes)
}
