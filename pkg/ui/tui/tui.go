package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// TUI wraps the bubbletea program for one ingest session.
type TUI struct {
	program *tea.Program
}

// New creates a TUI for a username.
func New(username string) *TUI {
	model := NewModel(username)
	return &TUI{
		program: tea.NewProgram(model, tea.WithAltScreen()),
	}
}

// Start runs the TUI until the user exits. It blocks the calling
// goroutine; the ingest work runs elsewhere and feeds messages in.
func (t *TUI) Start() error {
	_, err := t.program.Run()
	return err
}

// Stop stops the TUI.
func (t *TUI) Stop() {
	t.program.Quit()
}

// Line implements the progress reporter contract: one log line per file
// decision.
func (t *TUI) Line(text string) {
	t.program.Send(LogLineMsg(text))
}

// SetPhase updates the phase label shown next to the spinner.
func (t *TUI) SetPhase(phase string) {
	t.program.Send(PhaseMsg(phase))
}

// Finish marks the session done with a summary line.
func (t *TUI) Finish(summary string, failed bool) {
	t.program.Send(DoneMsg{Summary: summary, Failed: failed})
}
