package scrape

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// MissingFrequency is the rank used when a page carries no frequency tag.
const MissingFrequency = 100000

// Example is one example sentence with its translation.
type Example struct {
	Japanese string `json:"jp"`
	English  string `json:"en"`
}

// Fields are the values extracted from one vocabulary entry page.
type Fields struct {
	Expression   string
	Spelling     string
	Reading      string
	PartOfSpeech string
	Frequency    int
	Meanings     []string
	Examples     []Example
}

// ExtractFields reads the entry fields from a vocabulary page. The title,
// the primary spelling and the part of speech must be present; meanings,
// examples and frequency are optional.
func ExtractFields(doc Document) (Fields, error) {
	var f Fields
	pageURL := ""
	if u := doc.URL(); u != nil {
		pageURL = u.String()
	}

	title, ok := doc.FindFirst("title")
	if !ok {
		return f, &StructureError{Anchor: "title", URL: pageURL}
	}
	words := strings.Fields(clean(title.Text()))
	if len(words) == 0 {
		return f, &StructureError{Anchor: "title", URL: pageURL}
	}
	f.Expression = words[0]

	spelling, ok := doc.FindFirst(".primary-spelling")
	if !ok {
		return f, &StructureError{Anchor: "primary-spelling", URL: pageURL}
	}
	f.Spelling, f.Reading = spellingOf(spelling)

	pos, ok := doc.FindFirst(".part-of-speech")
	if !ok {
		return f, &StructureError{Anchor: "part-of-speech", URL: pageURL}
	}
	f.PartOfSpeech = partOfSpeech(pos)

	f.Frequency = frequency(doc)
	f.Meanings = meanings(doc)
	f.Examples = examples(doc)
	return f, nil
}

// spellingOf walks the ruby markup. Text outside <rt> is kept verbatim and
// a non-empty <rt> is written as [furigana]. The reading replaces each
// annotated base with its furigana.
func spellingOf(n Node) (spelling, reading string) {
	var sp, rd strings.Builder
	var base string // last text run not yet committed to the reading

	var walk func(Node)
	walk = func(n Node) {
		for _, c := range n.Children() {
			switch c.Tag() {
			case "":
				t := c.Text()
				if strings.TrimSpace(t) == "" {
					continue
				}
				sp.WriteString(t)
				rd.WriteString(base)
				base = t
			case "rt":
				furigana := strings.TrimSpace(c.Text())
				if furigana == "" {
					continue
				}
				sp.WriteString("[" + furigana + "]")
				base = furigana
			case "rp", "script", "style":
			default:
				walk(c)
			}
		}
	}
	walk(n)
	rd.WriteString(base)
	return clean(sp.String()), clean(rd.String())
}

func partOfSpeech(n Node) string {
	var parts []string
	for _, c := range n.Children() {
		if t := clean(c.Text()); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n")
}

// frequency parses the trailing number of the frequency tooltip, e.g. "Top 1200".
func frequency(doc Node) int {
	tags := doc.FindByClass("tag", "tooltip")
	if len(tags) == 0 {
		return MissingFrequency
	}
	words := strings.Fields(tags[0].Text())
	if len(words) == 0 {
		return MissingFrequency
	}
	n, err := strconv.Atoi(words[len(words)-1])
	if err != nil {
		return MissingFrequency
	}
	return n
}

func meanings(doc Node) []string {
	section, ok := doc.FindFirst(".subsection-meanings")
	if !ok {
		return []string{}
	}
	out := []string{}
	for _, d := range section.FindByClass("description") {
		out = append(out, clean(d.Text()))
	}
	return out
}

func examples(doc Node) []Example {
	section, ok := doc.FindFirst(".subsection-examples")
	if !ok {
		return []Example{}
	}
	out := []Example{}
	for _, u := range section.FindByClass("used-in") {
		var ex Example
		if jp, ok := u.FindFirst(".jp"); ok {
			ex.Japanese = clean(jp.Text())
		}
		if en, ok := u.FindFirst(".en"); ok {
			ex.English = clean(en.Text())
		}
		out = append(out, ex)
	}
	return out
}

func clean(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
