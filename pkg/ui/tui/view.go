package tui

import (
	"fmt"
	"strings"
)

// View implements tea.Model
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("stogramctl @%s", m.username)))
	b.WriteString("\n")

	if m.done {
		if m.failed {
			b.WriteString(summaryErrStyle.Render(m.summary))
		} else {
			b.WriteString(summaryOKStyle.Render(m.summary))
		}
	} else {
		b.WriteString(phaseStyle.Render(fmt.Sprintf("%s %s", m.spinner.View(), m.phase)))
	}
	b.WriteString("\n")

	// Log pane takes whatever vertical space remains.
	paneHeight := m.height - 6
	if paneHeight < 3 {
		paneHeight = 10
	}

	var log strings.Builder
	for _, line := range m.visibleLines(paneHeight) {
		log.WriteString(logLineStyle.Render(line))
		log.WriteString("\n")
	}
	pane := logPanelStyle
	if m.width > 4 {
		pane = pane.Width(m.width - 4)
	}
	b.WriteString(pane.Render(strings.TrimRight(log.String(), "\n")))
	b.WriteString("\n")

	if m.done {
		b.WriteString(helpStyle.Render("press q to exit"))
	} else {
		b.WriteString(helpStyle.Render("ctrl+c to abort"))
	}
	b.WriteString("\n")

	return b.String()
}
