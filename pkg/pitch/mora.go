// Package pitch turns pitch accent positions into mora-aligned patterns and
// SVG diagrams.
package pitch

import (
	"strings"
	"unicode"
)

// smallKana are the modifiers that fuse with the preceding kana into one mora.
var smallKana = map[rune]bool{
	'ゃ': true, 'ゅ': true, 'ょ': true,
	'ぁ': true, 'ぃ': true, 'ぅ': true, 'ぇ': true, 'ぉ': true,
	'ャ': true, 'ュ': true, 'ョ': true,
	'ァ': true, 'ィ': true, 'ゥ': true, 'ェ': true, 'ォ': true,
}

// ToMora splits kana text into mora, e.g. しゅんかしゅうとう ->
// [しゅ ん か しゅ う と う].
func ToMora(text string) []string {
	runes := []rune(text)
	mora := make([]string, 0, len(runes))
	for i := 0; i < len(runes); i++ {
		if i+1 < len(runes) && smallKana[runes[i+1]] {
			mora = append(mora, string(runes[i:i+2]))
			i++
			continue
		}
		mora = append(mora, string(runes[i]))
	}
	return mora
}

// ReadingOf removes furigana annotations from a spelling: each bracketed
// segment replaces the run of non-kana characters right before it.
// 食[た]べる -> たべる, 日本[にほん]語[ご] -> にほんご.
func ReadingOf(spelling string) string {
	var out []rune
	runes := []rune(spelling)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '[' {
			out = append(out, runes[i])
			continue
		}
		end := i + 1
		for end < len(runes) && runes[end] != ']' {
			end++
		}
		for len(out) > 0 && !isKana(out[len(out)-1]) {
			out = out[:len(out)-1]
		}
		out = append(out, runes[i+1:end]...)
		i = end
	}
	return strings.TrimSpace(string(out))
}

func isKana(r rune) bool {
	return unicode.In(r, unicode.Hiragana, unicode.Katakana) || r == 'ー'
}
