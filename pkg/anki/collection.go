package anki

import (
	"encoding/json"
	"strconv"
)

// The JSON blobs of the col row. Only the keys Anki reads on import are set.

type fieldJSON struct {
	Name   string        `json:"name"`
	Ord    int           `json:"ord"`
	Font   string        `json:"font"`
	Size   int           `json:"size"`
	Media  []interface{} `json:"media"`
	RTL    bool          `json:"rtl"`
	Sticky bool          `json:"sticky"`
}

type templateJSON struct {
	Name  string      `json:"name"`
	Ord   int         `json:"ord"`
	QFmt  string      `json:"qfmt"`
	AFmt  string      `json:"afmt"`
	BQFmt string      `json:"bqfmt"`
	BAFmt string      `json:"bafmt"`
	Did   interface{} `json:"did"`
}

type modelJSON struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Type      int             `json:"type"`
	Mod       int64           `json:"mod"`
	USN       int             `json:"usn"`
	SortF     int             `json:"sortf"`
	Did       int64           `json:"did"`
	Tmpls     []templateJSON  `json:"tmpls"`
	Flds      []fieldJSON     `json:"flds"`
	CSS       string          `json:"css"`
	LatexPre  string          `json:"latexPre"`
	LatexPost string          `json:"latexPost"`
	Tags      []string        `json:"tags"`
	Vers      []interface{}   `json:"vers"`
	Req       [][]interface{} `json:"req"`
}

type deckJSON struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Desc      string `json:"desc"`
	Mod       int64  `json:"mod"`
	USN       int    `json:"usn"`
	Collapsed bool   `json:"collapsed"`
	Conf      int    `json:"conf"`
	Dyn       int    `json:"dyn"`
	ExtendNew int    `json:"extendNew"`
	ExtendRev int    `json:"extendRev"`
	NewToday  [2]int `json:"newToday"`
	RevToday  [2]int `json:"revToday"`
	LrnToday  [2]int `json:"lrnToday"`
	TimeToday [2]int `json:"timeToday"`
}

const latexPre = "\\documentclass[12pt]{article}\n\\special{papersize=3in,5in}\n\\usepackage[utf8]{inputenc}\n\\usepackage{amssymb,amsmath}\n\\pagestyle{empty}\n\\setlength{\\parindent}{0in}\n\\begin{document}\n"

const latexPost = "\\end{document}"

// collectionJSON returns the conf, models, decks and dconf columns.
func collectionJSON(m Model, d Deck, modSeconds int64) (conf, models, decks, dconf string, err error) {
	flds := make([]fieldJSON, len(m.Fields))
	for i, name := range m.Fields {
		flds[i] = fieldJSON{Name: name, Ord: i, Font: "Arial", Size: 20, Media: []interface{}{}}
	}
	tmpls := make([]templateJSON, len(m.Templates))
	req := make([][]interface{}, len(m.Templates))
	for i, t := range m.Templates {
		tmpls[i] = templateJSON{Name: t.Name, Ord: i, QFmt: t.Front, AFmt: t.Back}
		// Every card needs the first field.
		req[i] = []interface{}{i, "any", []int{0}}
	}

	mj := map[string]modelJSON{
		strconv.FormatInt(m.ID, 10): {
			ID:        strconv.FormatInt(m.ID, 10),
			Name:      m.Name,
			Mod:       modSeconds,
			USN:       -1,
			Did:       d.ID,
			Tmpls:     tmpls,
			Flds:      flds,
			CSS:       m.CSS,
			LatexPre:  latexPre,
			LatexPost: latexPost,
			Tags:      []string{},
			Vers:      []interface{}{},
			Req:       req,
		},
	}
	deck := func(id int64, name string) deckJSON {
		return deckJSON{ID: id, Name: name, Mod: modSeconds, USN: -1, Conf: 1, ExtendRev: 50}
	}
	dj := map[string]deckJSON{
		"1":                         deck(1, "Default"),
		strconv.FormatInt(d.ID, 10): deck(d.ID, d.Name),
	}
	cj := map[string]interface{}{
		"activeDecks":   []int64{1},
		"curDeck":       1,
		"newSpread":     0,
		"collapseTime":  1200,
		"timeLim":       0,
		"estTimes":      true,
		"dueCounts":     true,
		"curModel":      nil,
		"nextPos":       1,
		"sortType":      "noteFld",
		"sortBackwards": false,
		"addToCur":      true,
	}
	dcj := map[string]interface{}{
		"1": map[string]interface{}{
			"id":       1,
			"name":     "Default",
			"mod":      0,
			"usn":      0,
			"maxTaken": 60,
			"autoplay": true,
			"timer":    0,
			"replayq":  true,
			"dyn":      false,
			"new": map[string]interface{}{
				"delays":        []float64{1, 10},
				"ints":          []int{1, 4, 7},
				"initialFactor": 2500,
				"order":         1,
				"perDay":        20,
				"bury":          true,
				"separate":      true,
			},
			"rev": map[string]interface{}{
				"perDay":   200,
				"ease4":    1.3,
				"fuzz":     0.05,
				"ivlFct":   1,
				"maxIvl":   36500,
				"minSpace": 1,
				"bury":     true,
			},
			"lapse": map[string]interface{}{
				"delays":      []float64{10},
				"mult":        0,
				"minInt":      1,
				"leechFails":  8,
				"leechAction": 0,
			},
		},
	}

	for _, v := range []struct {
		dst *string
		src interface{}
	}{{&conf, cj}, {&models, mj}, {&decks, dj}, {&dconf, dcj}} {
		b, err := json.Marshal(v.src)
		if err != nil {
			return "", "", "", "", err
		}
		*v.dst = string(b)
	}
	return conf, models, decks, dconf, nil
}
