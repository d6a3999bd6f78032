package pitch

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestToMora(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"しゅんかしゅうとう", []string{"しゅ", "ん", "か", "しゅ", "う", "と", "う"}},
		{"きょう", []string{"きょ", "う"}},
		{"ファイル", []string{"ファ", "イ", "ル"}},
		{"はし", []string{"は", "し"}},
		{"", []string{}},
		{"ゃ", []string{"ゃ"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, ToMora(tt.in))
		})
	}
}

func TestToMoraPreservesRunes(t *testing.T) {
	for _, s := range []string{"しゅんかしゅうとう", "ぎゅうにゅう", "チョコレート", "ぁぁぁ", "きゃきゅきょ"} {
		total := 0
		for _, m := range ToMora(s) {
			total += utf8.RuneCountInString(m)
		}
		require.Equal(t, utf8.RuneCountInString(s), total, s)
	}
}

func TestPositionToPattern(t *testing.T) {
	tests := []struct {
		mora, position int
		want           string
	}{
		{3, 0, "LHHH"},
		{3, 1, "HLLL"},
		{3, 4, "LHHL"},
		{3, 2, "LHLL"},
		{3, 3, "LHHL"},
		{1, 0, "LH"},
		{1, 1, "HL"},
		{1, 2, "LL"},
		{0, 0, "L"},
	}
	for _, tt := range tests {
		got, err := PositionToPattern(tt.mora, tt.position)
		require.NoError(t, err)
		require.Equal(t, tt.want, got, "PositionToPattern(%d, %d)", tt.mora, tt.position)
	}
}

func TestPositionToPatternLength(t *testing.T) {
	for n := 0; n <= 8; n++ {
		for p := 0; p <= n+1; p++ {
			got, err := PositionToPattern(n, p)
			require.NoError(t, err)
			require.Len(t, got, n+1)
		}
	}
}

func TestPositionToPatternRejectsInvalid(t *testing.T) {
	_, err := PositionToPattern(3, -1)
	require.ErrorIs(t, err, ErrInvalidPosition)
	_, err = PositionToPattern(3, 5)
	require.ErrorIs(t, err, ErrInvalidPosition)
}

func TestReadingOf(t *testing.T) {
	tests := map[string]string{
		"食[た]べる":       "たべる",
		"日本[にほん]語[ご]": "にほんご",
		"お茶[ちゃ]":       "おちゃ",
		"ひらがな":         "ひらがな",
		"橋[はし]":        "はし",
	}
	for in, want := range tests {
		require.Equal(t, want, ReadingOf(in), in)
	}
}

func TestRender(t *testing.T) {
	svg := Render("はし", "LHL")
	require.True(t, strings.HasPrefix(svg, `<svg class="pitch" width="102px"`))
	require.True(t, strings.HasSuffix(svg, "</svg>"))
	require.Equal(t, 4, strings.Count(svg, "<circle"), "three markers, one hollow")
	require.Equal(t, 2, strings.Count(svg, "<path"))
	require.Contains(t, svg, `<path d="m 16,30 35,-25"`, "rising connector")
	require.Contains(t, svg, `<path d="m 51,5 35,25"`, "falling connector")
	require.Contains(t, svg, ">は</text>")
}

func TestRenderTwoRuneMora(t *testing.T) {
	svg := Render("きょう", "LHH")
	require.Contains(t, svg, `font-size:14px;font-family:sans-serif;fill:#000;">ょ</text>`)
	require.Contains(t, svg, `<path d="m 51,5 35,0"`, "straight connector")
}

func TestRenderMismatchUsesLongerCount(t *testing.T) {
	svg := Render("はし", "LHLLL")
	// five markers -> (5-1)*35 + 32
	require.Contains(t, svg, `width="172px"`)
}

func TestRenderDeterministic(t *testing.T) {
	require.Equal(t, Render("しゅんかしゅうとう", "LHHHHHHH"), Render("しゅんかしゅうとう", "LHHHHHHH"))
}

type mapDict map[string]map[string]int

func (m mapDict) Lookup(expression, reading string) (int, bool) {
	p, ok := m[expression][reading]
	return p, ok
}

func TestDerive(t *testing.T) {
	dict := mapDict{
		"橋":   {"はし": 2},
		"ひらがな": {"ひらがな": 0},
	}

	d, err := Derive("橋", "橋[はし]", dict)
	require.NoError(t, err)
	require.NotNil(t, d)
	require.Equal(t, []string{"は", "し"}, d.Mora)
	require.Equal(t, "LHL", d.Pattern)
	require.Equal(t, len(d.Mora)+1, len(d.Pattern))
	require.NotEmpty(t, d.SVG)

	d, err = Derive("ひらがな", "ひらがな", dict)
	require.NoError(t, err)
	require.Equal(t, "LHHHH", d.Pattern)
}

func TestDeriveMissIsNotAnError(t *testing.T) {
	dict := mapDict{"橋": {"はし": 2}}

	d, err := Derive("箸", "箸[はし]", dict)
	require.NoError(t, err)
	require.Nil(t, d)

	d, err = Derive("橋", "きょう", dict)
	require.NoError(t, err)
	require.Nil(t, d)

	d, err = Derive("橋", "はし", nil)
	require.NoError(t, err)
	require.Nil(t, d)
}

func TestDeriveInvalidPosition(t *testing.T) {
	_, err := Derive("橋", "はし", mapDict{"橋": {"はし": 9}})
	require.ErrorIs(t, err, ErrInvalidPosition)
}
