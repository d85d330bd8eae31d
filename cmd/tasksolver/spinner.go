package main

import (
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type waitDoneMsg struct{}

// waitModel shows a spinner on stderr until the work finishes.
type waitModel struct {
	spinner spinner.Model
	label   string
	done    bool
}

func newWaitModel(label string) waitModel {
	return waitModel{
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinStyle)),
		label:   label,
	}
}

func (m waitModel) Init() tea.Cmd { return m.spinner.Tick }

func (m waitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(waitDoneMsg); ok {
		m.done = true
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m waitModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + dimStyle.Render(m.label)
}

// withSpinner runs fn while a spinner animates on stderr. Without a terminal
// fn runs silently.
func withSpinner[T any](label string, fn func() (T, error)) (T, error) {
	if !isTerminal(os.Stderr) {
		return fn()
	}

	type result struct {
		val T
		err error
	}
	p := tea.NewProgram(newWaitModel(label), tea.WithOutput(os.Stderr), tea.WithInput(nil))
	done := make(chan result, 1)
	go func() {
		v, err := fn()
		done <- result{v, err}
		p.Send(waitDoneMsg{})
	}()

	// The program exits on waitDoneMsg or an interrupt; either way fn is
	// awaited so its result is never dropped.
	_, _ = p.Run()
	r := <-done
	return r.val, r.err
}
