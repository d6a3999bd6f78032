package pitch

// Dictionary resolves an accent position for an expression and reading.
type Dictionary interface {
	Lookup(expression, reading string) (int, bool)
}

// Diagram is the rendered accent of one reading.
type Diagram struct {
	Mora    []string `json:"mora"`
	Pattern string   `json:"pattern"`
	SVG     string   `json:"svg"`
}

// Derive builds the diagram for an entry. The spelling is looked up as is
// and then with its furigana resolved into a plain reading. A dictionary
// miss yields a nil diagram and no error.
func Derive(expression, spelling string, dict Dictionary) (*Diagram, error) {
	if dict == nil {
		return nil, nil
	}
	reading := spelling
	position, ok := dict.Lookup(expression, spelling)
	if !ok {
		reading = ReadingOf(spelling)
		if reading == spelling {
			return nil, nil
		}
		if position, ok = dict.Lookup(expression, reading); !ok {
			return nil, nil
		}
	}

	mora := ToMora(reading)
	pattern, err := PositionToPattern(len(mora), position)
	if err != nil {
		return nil, err
	}
	return &Diagram{
		Mora:    mora,
		Pattern: pattern,
		SVG:     Render(reading, pattern),
	}, nil
}
