package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// maxLogLines caps the scrollback kept in memory.
const maxLogLines = 500

// Model represents the TUI model for one ingest session
type Model struct {
	spinner  spinner.Model
	username string
	phase    string
	lines    []string
	summary  string
	failed   bool
	done     bool
	width    int
	height   int
}

// NewModel creates a new TUI model for a username
func NewModel(username string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(accent)

	return Model{
		spinner:  s,
		username: username,
		phase:    "starting",
		lines:    make([]string, 0, 64),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// appendLine adds a log line, trimming old scrollback
func (m *Model) appendLine(line string) {
	m.lines = append(m.lines, line)
	if len(m.lines) > maxLogLines {
		m.lines = m.lines[len(m.lines)-maxLogLines:]
	}
}

// visibleLines returns the tail of the log that fits the viewport
func (m Model) visibleLines(max int) []string {
	if max <= 0 || len(m.lines) <= max {
		return m.lines
	}
	return m.lines[len(m.lines)-max:]
}

// Done reports whether the session has finished
func (m Model) Done() bool {
	return m.done
}
