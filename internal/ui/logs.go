package ui

import (
	"strings"

	"github.com/five82/bodyscale/internal/logtail"
)

// updateLogViewport re-renders the log tail, keeping the view pinned to the
// newest line when it already was.
func (m *Model) updateLogViewport() {
	if !m.ready {
		return
	}
	atBottom := m.logViewport.AtBottom()
	m.logViewport.SetContent(m.renderLogs())
	if atBottom {
		m.logViewport.GotoBottom()
	}
}

func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	if m.logErr != nil {
		return styles.DangerText.Render(" Failed to read log: " + m.logErr.Error())
	}
	if len(m.logLines) == 0 {
		return styles.MutedText.Render(" No log entries")
	}

	out := make([]string, 0, len(m.logLines))
	for _, line := range m.logLines {
		entry, ok := logtail.Parse(line)
		if !ok {
			out = append(out, styles.FaintText.Render(line))
			continue
		}
		out = append(out, styles.LevelStyle(entry.Level).Render(entry.String()))
	}
	return strings.Join(out, "\n")
}
