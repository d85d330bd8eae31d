package solution

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Formatter names accepted by Highlight.
const (
	FormatTerminal = "terminal256"
	FormatHTML     = "html"
	FormatNone     = "noop"
)

// HighlightStyle is the chroma style used for code blocks.
var HighlightStyle = "monokai"

// Highlight colors code for the given language with the named chroma
// formatter. Unknown languages are detected from the content; any failure
// returns the code unchanged.
func Highlight(code, language, format string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(HighlightStyle)
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.Get(format)
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var b strings.Builder
	if err := formatter.Format(&b, style, iterator); err != nil {
		return code
	}
	return b.String()
}
