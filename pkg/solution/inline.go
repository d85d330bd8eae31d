package solution

import (
	"regexp"
	"strings"
)

// inlineMarkup matches the wrappers models use for emphasis or math:
// [x], /x/, \x\, *x* and {x}.
var inlineMarkup = regexp.MustCompile(`(\[[\s\S]*?\]|/(?:[^/]+)/|\\(?:[^\\]+)\\|\*[\s\S]*?\*|\{[\s\S]*?\})`)

// scripts matches ^token and _token where token is digits or one letter.
var scripts = regexp.MustCompile(`\^(?:\d+|[a-zA-Z])|_(?:\d+|[a-zA-Z])`)

// StripInlineMarkup replaces each wrapped span with its inner text. Matches
// are found leftmost first and non-overlapping; the result is not rescanned.
func StripInlineMarkup(s string) string {
	return inlineMarkup.ReplaceAllStringFunc(s, func(m string) string {
		return m[1 : len(m)-1]
	})
}

// InlineKind is the presentation of an Inline run.
type InlineKind int

const (
	Text InlineKind = iota
	Superscript
	Subscript
)

// Inline is a run of prose with one presentation.
type Inline struct {
	Kind InlineKind
	Text string // Without the ^ or _ marker.
}

// Inlines strips inline markup from s and splits it into text, superscript
// and subscript runs.
func Inlines(s string) []Inline {
	s = StripInlineMarkup(s)

	var out []Inline
	last := 0
	for _, loc := range scripts.FindAllStringIndex(s, -1) {
		if loc[0] > last {
			out = append(out, Inline{Kind: Text, Text: s[last:loc[0]]})
		}
		kind := Superscript
		if s[loc[0]] == '_' {
			kind = Subscript
		}
		out = append(out, Inline{Kind: kind, Text: s[loc[0]+1 : loc[1]]})
		last = loc[1]
	}
	if last < len(s) {
		out = append(out, Inline{Kind: Text, Text: s[last:]})
	}
	return out
}

var superscripts = map[rune]rune{
	'0': '⁰', '1': '¹', '2': '²', '3': '³', '4': '⁴',
	'5': '⁵', '6': '⁶', '7': '⁷', '8': '⁸', '9': '⁹',
	'n': 'ⁿ', 'i': 'ⁱ', 'x': 'ˣ', 'y': 'ʸ',
}

var subscripts = map[rune]rune{
	'0': '₀', '1': '₁', '2': '₂', '3': '₃', '4': '₄',
	'5': '₅', '6': '₆', '7': '₇', '8': '₈', '9': '₉',
	'a': 'ₐ', 'e': 'ₑ', 'i': 'ᵢ', 'n': 'ₙ', 'x': 'ₓ',
}

// PlainText renders inlines as terminal text. Scripts use Unicode
// super/subscript characters when every rune has one, else keep the marker.
func PlainText(inlines []Inline) string {
	var b strings.Builder
	for _, in := range inlines {
		switch in.Kind {
		case Superscript:
			b.WriteString(mapScript(in.Text, superscripts, "^"))
		case Subscript:
			b.WriteString(mapScript(in.Text, subscripts, "_"))
		default:
			b.WriteString(in.Text)
		}
	}
	return b.String()
}

func mapScript(s string, table map[rune]rune, marker string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		m, ok := table[r]
		if !ok {
			return marker + s
		}
		out = append(out, m)
	}
	return string(out)
}
