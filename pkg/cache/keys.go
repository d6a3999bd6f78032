package cache

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidKey is returned when no key can be derived or the key is empty.
var ErrInvalidKey = errors.New("cache: invalid key")

// NoteKey is the last path segment of an entry URL. Query and fragment are
// ignored, as is a trailing slash.
func NoteKey(rawURL string) (string, error) {
	segs, err := segments(rawURL)
	if err != nil {
		return "", err
	}
	return segs[len(segs)-1], nil
}

// ListKey joins the last two path segments of a list URL with "_", so
// ".../novel/1/kuma/vocabulary-list" becomes "kuma_vocabulary-list".
func ListKey(rawURL string) (string, error) {
	segs, err := segments(rawURL)
	if err != nil {
		return "", err
	}
	if len(segs) < 2 {
		return "", fmt.Errorf("%w: %q has fewer than two path segments", ErrInvalidKey, rawURL)
	}
	return segs[len(segs)-2] + "_" + segs[len(segs)-1], nil
}

func segments(rawURL string) ([]string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	var out []string
	for _, s := range strings.Split(u.Path, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %q has no path", ErrInvalidKey, rawURL)
	}
	return out, nil
}
