package scrape

import (
	"errors"
	"fmt"
)

var (
	// ErrStructure matches every *StructureError.
	ErrStructure = errors.New("scrape: missing page structure")
	// ErrPagination is returned when a list page has no usable pagination control.
	ErrPagination = errors.New("scrape: pagination control missing or malformed")
	// ErrPaginationCycle is returned when the next-page link leads to a page already crawled.
	ErrPaginationCycle = errors.New("scrape: pagination revisits a page")
	// ErrNotFound is returned when a search yields no entry.
	ErrNotFound = errors.New("scrape: no entry found")
)

// StructureError reports an expected anchor element missing from a page.
type StructureError struct {
	Anchor string
	URL    string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("scrape: %s missing on %s", e.Anchor, e.URL)
}

func (e *StructureError) Is(target error) bool { return target == ErrStructure }

// TransportError reports a failed fetch, a non-200 status, or an unparsable body.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("scrape: fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("scrape: fetch %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
