package pitch

import (
	"fmt"
	"log/slog"
	"strings"
)

const (
	stepWidth = 35
	marginLR  = 16
	highY     = 5
	lowY      = 30
)

// Render draws a pitch pattern for a kana spelling as an inline SVG.
// The pattern should hold one symbol per mora plus the trailing boundary; on
// mismatch a warning is logged and the canvas is sized by the longer count.
func Render(spelling, pattern string) string {
	mora := ToMora(spelling)
	symbols := []rune(pattern)

	if len(symbols)-len(mora) != 1 {
		slog.Warn("pattern should be number of morae + 1",
			"spelling", spelling, "pattern", pattern)
	}
	positions := max(len(mora), len(symbols))
	width := max(0, (positions-1)*stepWidth+marginLR*2)

	var b strings.Builder
	fmt.Fprintf(&b, `<svg class="pitch" width="%dpx" height="75px" viewBox="0 0 %d 75">`, width, width)
	fmt.Fprintf(&b, `<rect width="%dpx" height="75px" style="fill:rgb(255,255,255);opacity:1"></rect>`, width)

	for pos, m := range mora {
		b.WriteString(moraText(marginLR+pos*stepWidth-11, m))
	}

	var circles, paths strings.Builder
	prevX, prevY := 0, 0
	for pos, s := range symbols {
		x := marginLR + pos*stepWidth
		y := lowY
		if isHigh(s) {
			y = highY
		}
		circles.WriteString(circle(x, y, pos >= len(mora)))
		if pos > 0 {
			paths.WriteString(connector(prevX, prevY, y))
		}
		prevX, prevY = x, y
	}

	b.WriteString(paths.String())
	b.WriteString(circles.String())
	b.WriteString("</svg>")
	return b.String()
}

func circle(x, y int, hollow bool) string {
	s := fmt.Sprintf(`<circle r="5" cx="%d" cy="%d" style="opacity:1;fill:#000;" />`, x, y)
	if hollow {
		s += fmt.Sprintf(`<circle r="3.25" cx="%d" cy="%d" style="opacity:1;fill:#fff;"/>`, x, y)
	}
	return s
}

// connector joins the marker at (x, fromY) to the next one.
func connector(x, fromY, toY int) string {
	var delta string
	switch {
	case fromY == toY:
		delta = fmt.Sprintf("%d,0", stepWidth)
	case fromY < toY:
		delta = fmt.Sprintf("%d,25", stepWidth)
	default:
		delta = fmt.Sprintf("%d,-25", stepWidth)
	}
	return fmt.Sprintf(`<path d="m %d,%d %s" style="fill:none;stroke:#000;stroke-width:1.5;" />`, x, fromY, delta)
}

// moraText positions letters for Noto Sans CJK JP.
func moraText(x int, mora string) string {
	runes := []rune(mora)
	if len(runes) == 1 {
		return fmt.Sprintf(`<text x="%d" y="67.5" style="font-size:20px;font-family:sans-serif;fill:#000;">%s</text>`, x, mora)
	}
	return fmt.Sprintf(`<text x="%d" y="67.5" style="font-size:20px;font-family:sans-serif;fill:#000;">%s</text>`+
		`<text x="%d" y="67.5" style="font-size:14px;font-family:sans-serif;fill:#000;">%s</text>`,
		x-5, string(runes[0]), x+12, string(runes[1:]))
}
