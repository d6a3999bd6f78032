package anki

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"

	"github.com/japaniel/jpdeck/pkg/note"
)

// NoteFields renders a note into the model's field order.
func NoteFields(n note.Note) []string {
	pitchSVG := ""
	if n.Pitch != nil {
		pitchSVG = n.Pitch.SVG
	}

	var meanings strings.Builder
	for _, m := range n.Meanings {
		meanings.WriteString(m)
		meanings.WriteString("<br>")
	}

	var examples strings.Builder
	for i, ex := range n.Examples {
		examples.WriteString(strconv.Itoa(i + 1))
		examples.WriteString(". ")
		examples.WriteString(ex.Japanese)
		examples.WriteString("<br>")
		examples.WriteString(ex.English)
		examples.WriteString("<br>")
	}

	return []string{
		n.Expression,
		n.PartOfSpeech,
		n.Spelling,
		pitchSVG,
		strconv.Itoa(n.Frequency),
		meanings.String(),
		examples.String(),
	}
}

const base91Table = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!#$%&()*+,-./:;<=>?@[]^_`{|}~"

// GUID derives a stable note id from values joined by "__": the first 8
// bytes of their SHA-256 written in Anki's base91 alphabet. Re-importing
// the same expression and part of speech updates the existing note.
func GUID(values ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(values, "__")))
	n := binary.BigEndian.Uint64(sum[:8])
	if n == 0 {
		return ""
	}
	var out []byte
	for n > 0 {
		out = append(out, base91Table[n%91])
		n /= 91
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return string(out)
}

var reHTML = regexp.MustCompile(`(?s)<[^>]*>`)

// stripHTML drops tags the way Anki does for sort fields and checksums.
func stripHTML(s string) string {
	return strings.TrimSpace(reHTML.ReplaceAllString(s, ""))
}

// checksum is the first 8 hex digits of the SHA-1 of the stripped first field.
func checksum(field string) int64 {
	sum := sha1.Sum([]byte(stripHTML(field)))
	v, _ := strconv.ParseInt(hex.EncodeToString(sum[:4]), 16, 64)
	return v
}
