package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the logo, user and connection status.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	snap := m.snapshot

	parts := []string{styles.Logo.Render("bodyscale")}
	if snap.HasUser {
		parts = append(parts, styles.Text.Render(snap.User.Name()))
	}

	switch {
	case snap.IsOffline():
		parts = append(parts, styles.DangerText.Render(fmt.Sprintf("offline (%d failures)", snap.ConsecutiveFailures)))
	case snap.LastError != nil:
		parts = append(parts, styles.WarningText.Render("last poll failed"))
	case snap.LastUpdated.IsZero():
		parts = append(parts, styles.MutedText.Render("waiting for withings…"))
	default:
		parts = append(parts, styles.SuccessText.Render("online"))
	}

	if !snap.LastUpdated.IsZero() {
		parts = append(parts, styles.FaintText.Render("updated "+snap.LastUpdated.Format(time.TimeOnly)))
	}
	parts = append(parts, styles.FaintText.Render(fmt.Sprintf("%d groups", len(snap.Groups))))

	line := strings.Join(parts, styles.FaintText.Render(" · "))
	return styles.Header.Width(max(m.width, lipgloss.Width(line))).Render(line)
}

// renderCommandBar renders the key hints.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles()

	views := []struct {
		key   string
		label string
		view  View
	}{
		{"m", "Measures", ViewMeasures},
		{"u", "User", ViewUser},
		{"l", "Logs", ViewLogs},
	}

	var items []string
	for _, v := range views {
		label := "[" + v.key + "] " + v.label
		if v.view == m.currentView {
			items = append(items, styles.AccentText.Bold(true).Render(label))
		} else {
			items = append(items, styles.MutedText.Render(label))
		}
	}
	items = append(items,
		styles.MutedText.Render("[U] "+m.weightUnit),
		styles.MutedText.Render("[T] "+m.theme.Name),
		styles.MutedText.Render("[h] Help"),
		styles.MutedText.Render("[e] Exit"),
	)
	return " " + strings.Join(items, "  ")
}
