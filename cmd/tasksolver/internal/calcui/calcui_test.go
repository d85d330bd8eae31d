package calcui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msgs ...tea.KeyMsg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func TestUpdate_Arithmetic(t *testing.T) {
	m := press(t, New(), runes("7"), runes("x"), runes("6"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "42", m.State().Display)
}

func TestUpdate_ClearAndSign(t *testing.T) {
	m := press(t, New(), runes("5"), runes("n"))
	assert.Equal(t, "-5", m.State().Display)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, "0", m.State().Display)
	assert.Empty(t, m.State().Expression)
}

func TestUpdate_ScientificKeysNeedMode(t *testing.T) {
	m := press(t, New(), runes("s"))
	assert.Equal(t, "0", m.State().Display)
	assert.Empty(t, m.State().Expression)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.True(t, m.State().ScientificMode)
	assert.True(t, m.keys.Funcs.Enabled())

	m = press(t, m, runes("r"), runes("9"), runes(")"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "3", m.State().Display)
}

func TestUpdate_ErrorDisplay(t *testing.T) {
	m := press(t, New(), runes("("), runes("1"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "Error", m.State().Display)
	assert.Contains(t, m.View(), "Error")
}

func TestUpdate_Quit(t *testing.T) {
	_, cmd := New().Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestUpdate_IgnoresUnknownKeys(t *testing.T) {
	m := press(t, New(), runes("z"), runes("4"))
	assert.Equal(t, "4", m.State().Display)
}

func TestLabel(t *testing.T) {
	m := New()
	tests := []struct {
		msg  tea.KeyMsg
		want string
		ok   bool
	}{
		{runes("3"), "3", true},
		{runes("."), ".", true},
		{runes("x"), "×", true},
		{runes("/"), "/", true},
		{runes("%"), "%", true},
		{runes("p"), "π", true},
		{tea.KeyMsg{Type: tea.KeyEnter}, "=", true},
		{tea.KeyMsg{Type: tea.KeyBackspace}, "C", true},
		{runes("l"), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.msg.String(), func(t *testing.T) {
			got, ok := m.Label(tt.msg)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRightAlign(t *testing.T) {
	assert.Equal(t, "    42", RightAlign("42", 6))
	assert.Equal(t, 6, runewidth.StringWidth(RightAlign("√(π", 6)))
	assert.True(t, strings.HasSuffix(RightAlign("√(π", 6), "√(π"))

	long := RightAlign("123456789", 5)
	assert.Equal(t, 5, runewidth.StringWidth(long))
	assert.True(t, strings.HasPrefix(long, "…"))
	assert.True(t, strings.HasSuffix(long, "6789"))
}

func TestView_ShowsMode(t *testing.T) {
	m := press(t, New(), tea.KeyMsg{Type: tea.KeyTab})
	assert.Contains(t, m.View(), "SCI")
}
