package solution

import (
	"iter"
	"strings"
)

// DefaultLanguage is assumed for fences without a language tag.
const DefaultLanguage = "python"

const fence = "```"

// Kind distinguishes prose from code.
type Kind int

const (
	Plain Kind = iota
	Code
)

func (k Kind) String() string {
	if k == Code {
		return "code"
	}
	return "plain"
}

// Segment is a run of prose or one fenced code block.
type Segment struct {
	Kind     Kind
	Text     string // Prose, or the verbatim code body.
	Language string // Code only.
}

// Segments splits text into plain and code segments in one lazy pass. A fence
// opens with "```", an optional word tag and a newline, and closes at the next
// "```". Fences that never close stay part of the prose. Empty plain runs are
// not yielded.
func Segments(text string) iter.Seq[Segment] {
	return func(yield func(Segment) bool) {
		last := 0
		for from := 0; from < len(text); {
			open, lang, bodyStart, ok := nextFence(text, from)
			if !ok {
				break
			}

			end := strings.Index(text[bodyStart:], fence)
			if end < 0 {
				break
			}
			end += bodyStart

			if open > last {
				if !yield(Segment{Kind: Plain, Text: text[last:open]}) {
					return
				}
			}
			if lang == "" {
				lang = DefaultLanguage
			}
			if !yield(Segment{Kind: Code, Text: text[bodyStart:end], Language: lang}) {
				return
			}

			last = end + len(fence)
			from = last
		}

		if last < len(text) {
			yield(Segment{Kind: Plain, Text: text[last:]})
		}
	}
}

// nextFence finds the first opening fence at or after from: "```", an
// optional tag of word characters, then "\n".
func nextFence(text string, from int) (open int, lang string, bodyStart int, ok bool) {
	for from < len(text) {
		i := strings.Index(text[from:], fence)
		if i < 0 {
			return 0, "", 0, false
		}
		open = from + i

		j := open + len(fence)
		for j < len(text) && isWordByte(text[j]) {
			j++
		}
		if j < len(text) && text[j] == '\n' {
			return open, text[open+len(fence) : j], j + 1, true
		}
		from = open + 1
	}
	return 0, "", 0, false
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// CodeBlocks returns the code segments of text in order.
func CodeBlocks(text string) []Segment {
	var out []Segment
	for seg := range Segments(text) {
		if seg.Kind == Code {
			out = append(out, seg)
		}
	}
	return out
}
