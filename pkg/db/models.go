package db

import "time"

// Entry is one cached blob. Namespace and Key together are unique.
type Entry struct {
	ID        int64
	Namespace string
	Key       string
	Value     []byte
	CreatedAt time.Time
}

// PitchAccent is one row of the persisted pitch dictionary.
type PitchAccent struct {
	Expression string
	Reading    string
	Position   int
}
