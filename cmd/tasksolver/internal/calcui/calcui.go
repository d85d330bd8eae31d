// Package calcui is the interactive terminal calculator.
package calcui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/germanamz/tasksolver/pkg/calculator"
	"github.com/mattn/go-runewidth"
)

// DisplayWidth is the number of cells of the display area.
const DisplayWidth = 28

var (
	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
	exprStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	displayStyle = lipgloss.NewStyle().Bold(true)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	modeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
)

type keyMap struct {
	Digits    key.Binding
	Operators key.Binding
	Equals    key.Binding
	Clear     key.Binding
	Sign      key.Binding
	Percent   key.Binding
	Parens    key.Binding
	Pi        key.Binding
	Sci       key.Binding
	Funcs     key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Digits:    key.NewBinding(key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "."), key.WithHelp("0-9 .", "enter number")),
		Operators: key.NewBinding(key.WithKeys("+", "-", "*", "/", "x"), key.WithHelp("+ - * /", "operator")),
		Equals:    key.NewBinding(key.WithKeys("enter", "="), key.WithHelp("enter", "evaluate")),
		Clear:     key.NewBinding(key.WithKeys("esc", "delete", "backspace"), key.WithHelp("esc", "clear")),
		Sign:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "±")),
		Percent:   key.NewBinding(key.WithKeys("%"), key.WithHelp("%", "percent")),
		Parens:    key.NewBinding(key.WithKeys("(", ")"), key.WithHelp("( )", "group")),
		Pi:        key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "π")),
		Sci:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "scientific")),
		Funcs: key.NewBinding(key.WithKeys("s", "c", "t", "l", "L", "r", "^"),
			key.WithHelp("s c t l L r ^", "sin cos tan log ln √ power"), key.WithDisabled()),
		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Equals, k.Clear, k.Sci, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Digits, k.Operators, k.Equals, k.Clear},
		{k.Sign, k.Percent, k.Parens, k.Pi},
		{k.Sci, k.Funcs, k.Help, k.Quit},
	}
}

// scientificKeys maps keys that only work in scientific mode to keypad labels.
var scientificKeys = map[string]string{
	"s": "sin",
	"c": "cos",
	"t": "tan",
	"l": "log",
	"L": "ln",
	"r": "sqrt",
	"^": "^",
}

// Model is the bubbletea model of the calculator.
type Model struct {
	state *calculator.State
	keys  keyMap
	help  help.Model
}

// New returns a calculator in its initial state.
func New() Model {
	return Model{
		state: calculator.NewState(),
		keys:  newKeyMap(),
		help:  help.New(),
	}
}

// State exposes the underlying calculator.
func (m Model) State() *calculator.State { return m.state }

func (m Model) Init() tea.Cmd { return nil }

// Label maps a key press to a calculator keypad label. It returns false for
// keys the calculator does not handle.
func (m Model) Label(msg tea.KeyMsg) (string, bool) {
	k := msg.String()
	switch {
	case key.Matches(msg, m.keys.Equals):
		return "=", true
	case key.Matches(msg, m.keys.Clear):
		return "C", true
	case key.Matches(msg, m.keys.Sign):
		return "±", true
	case key.Matches(msg, m.keys.Pi):
		return "π", true
	case key.Matches(msg, m.keys.Sci):
		return "sci", true
	case key.Matches(msg, m.keys.Operators):
		if k == "x" {
			return "×", true
		}
		return k, true
	case key.Matches(msg, m.keys.Digits, m.keys.Percent, m.keys.Parens):
		return k, true
	}
	if m.state.ScientificMode {
		if label, ok := scientificKeys[k]; ok {
			return label, true
		}
	}
	return "", false
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if label, ok := m.Label(keyMsg); ok {
		// Failures already show as the error sentinel.
		_ = m.state.Press(label)
		m.keys.Funcs.SetEnabled(m.state.ScientificMode)
	}
	return m, nil
}

func (m Model) View() string {
	display := displayStyle
	if m.state.Display == calculator.ErrorSentinel {
		display = errorStyle
	}

	var b strings.Builder
	b.WriteString(exprStyle.Render(RightAlign(m.state.Expression, DisplayWidth)))
	b.WriteString("\n")
	b.WriteString(display.Render(RightAlign(m.state.Display, DisplayWidth)))

	mode := "   "
	if m.state.ScientificMode {
		mode = "SCI"
	}

	return frameStyle.Render(b.String()) + "\n" +
		modeStyle.Render(mode) + "\n" +
		m.help.View(m.keys) + "\n"
}

// RightAlign pads s on the left to w terminal cells. Longer strings keep
// their tail behind an ellipsis.
func RightAlign(s string, w int) string {
	if sw := runewidth.StringWidth(s); sw > w {
		s = runewidth.TruncateLeft(s, sw-w+1, "…")
	}
	return runewidth.FillLeft(s, w)
}
