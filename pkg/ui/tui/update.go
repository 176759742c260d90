package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Message types for the TUI

// PhaseMsg updates the current phase label
type PhaseMsg string

// LogLineMsg appends one progress line to the log pane
type LogLineMsg string

// DoneMsg marks the session finished
type DoneMsg struct {
	Summary string
	Failed  bool
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q", "esc", "enter":
			if m.done {
				return m, tea.Quit
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case PhaseMsg:
		m.phase = string(msg)
		return m, nil

	case LogLineMsg:
		m.appendLine(string(msg))
		return m, nil

	case DoneMsg:
		m.done = true
		m.summary = msg.Summary
		m.failed = msg.Failed
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}
