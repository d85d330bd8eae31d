package solution

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// Options controls Render.
type Options struct {
	Width    int  // Wrap width; 0 means 100.
	Color    bool // Highlight code and style the frame.
	Markdown bool // Render prose through glamour instead of plain inlines.
}

var (
	codeFrame = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	langBadge = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Bold(true)
)

// Render writes text to w for a terminal: prose with inline markup resolved,
// code blocks framed with their language label.
func Render(w io.Writer, text string, opts Options) error {
	if opts.Width <= 0 {
		opts.Width = 100
	}

	var md *glamour.TermRenderer
	if opts.Markdown {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(opts.Width),
		)
		if err != nil {
			return fmt.Errorf("solution: markdown renderer: %w", err)
		}
		md = r
	}

	for seg := range Segments(text) {
		var out string
		switch seg.Kind {
		case Code:
			out = renderCode(seg, opts)
		default:
			out = renderProse(seg.Text, md)
		}
		if _, err := io.WriteString(w, out); err != nil {
			return err
		}
	}
	return nil
}

func renderProse(text string, md *glamour.TermRenderer) string {
	if md != nil {
		if out, err := md.Render(text); err == nil {
			return out
		}
	}
	return PlainText(Inlines(text))
}

func renderCode(seg Segment, opts Options) string {
	body := strings.TrimRight(seg.Text, "\n")
	if !opts.Color {
		return "[" + seg.Language + "]\n" + body + "\n"
	}

	body = strings.TrimRight(Highlight(body, seg.Language, FormatTerminal), "\n")
	frame := codeFrame.MaxWidth(opts.Width)
	return frame.Render(langBadge.Render(seg.Language)+"\n"+body) + "\n"
}
