package tui

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestModelUpdate(t *testing.T) {
	model := NewModel("alice")

	// Phase updates
	next, _ := model.Update(PhaseMsg("scraping"))
	model = next.(Model)
	if model.phase != "scraping" {
		t.Errorf("Expected phase scraping, got %s", model.phase)
	}

	// Log lines accumulate
	next, _ = model.Update(LogLineMsg("Inserted: photo1.jpg"))
	model = next.(Model)
	next, _ = model.Update(LogLineMsg("Skipping existing: photo2.jpg"))
	model = next.(Model)
	if len(model.lines) != 2 {
		t.Errorf("Expected 2 log lines, got %d", len(model.lines))
	}

	// Done marks the session finished
	next, _ = model.Update(DoneMsg{Summary: "Done: 1 inserted, 1 skipped.", Failed: false})
	model = next.(Model)
	if !model.Done() {
		t.Error("Expected model to be done")
	}

	// q quits once done
	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Error("Expected quit command after q on a finished session")
	}
}

func TestModelQuitIgnoredWhileRunning(t *testing.T) {
	model := NewModel("alice")

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd != nil {
		t.Error("q should be ignored while the session is running")
	}
}

func TestModelScrollbackCap(t *testing.T) {
	model := NewModel("alice")

	for i := 0; i < maxLogLines+50; i++ {
		next, _ := model.Update(LogLineMsg(fmt.Sprintf("line %d", i)))
		model = next.(Model)
	}

	if len(model.lines) != maxLogLines {
		t.Errorf("Expected scrollback capped at %d, got %d", maxLogLines, len(model.lines))
	}
	if model.lines[len(model.lines)-1] != fmt.Sprintf("line %d", maxLogLines+49) {
		t.Error("Expected newest line to be kept")
	}
}

func TestView(t *testing.T) {
	model := NewModel("alice")
	next, _ := model.Update(PhaseMsg("reconciling"))
	model = next.(Model)
	next, _ = model.Update(LogLineMsg("Inserted: clip.mp4"))
	model = next.(Model)

	view := model.View()
	if !strings.Contains(view, "@alice") {
		t.Error("Expected view to contain the username")
	}
	if !strings.Contains(view, "Inserted: clip.mp4") {
		t.Error("Expected view to contain log lines")
	}
}
