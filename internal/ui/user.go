package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/bodyscale/internal/withings"
)

// updateUserViewport re-renders the user detail view.
func (m *Model) updateUserViewport() {
	if !m.ready {
		return
	}
	m.userViewport.SetContent(m.renderUser())
}

func (m Model) renderUser() string {
	styles := m.theme.Styles()
	snap := m.snapshot

	label := func(s string) string { return styles.MutedText.Render(padRight(s, 14)) }
	var lines []string
	add := func(k, v string) { lines = append(lines, " "+label(k)+styles.Text.Render(v)) }

	if !snap.HasUser {
		lines = append(lines, styles.MutedText.Render(" User info not loaded yet"))
	} else {
		u := snap.User
		lines = append(lines, " "+styles.AccentText.Bold(true).Render(u.Name()), "")
		add("User id", fmt.Sprint(u.ID))
		if u.ShortName != "" {
			add("Short name", u.ShortName)
		}
		if g := u.GenderLabel(); g != "" {
			add("Gender", g)
		}
		if b := u.Birthday(); !b.IsZero() {
			add("Birthday", b.Format(time.DateOnly))
		}
		add("Public", fmt.Sprint(u.IsPublic != 0))
	}

	lines = append(lines, "")
	if latest, ok := snap.Latest(); ok {
		if v, ok := latest.Value(withings.TypeWeight); ok {
			add("Latest weight", formatWeight(v, m.weightUnit)+"  "+latest.Time().Local().Format("2006-01-02 15:04"))
		}
		if v, ok := latest.Value(withings.TypeFatRatio); ok {
			add("Latest fat", formatPercent(v))
		}
	}
	add("Groups", fmt.Sprint(len(snap.Groups)))
	if lo, hi, ok := weightRange(snap.Groups); ok {
		add("Weight range", formatWeight(lo, m.weightUnit)+" - "+formatWeight(hi, m.weightUnit))
	}
	if !snap.ServerUpdated.IsZero() {
		add("Server update", snap.ServerUpdated.Local().Format(time.DateTime))
	}
	if snap.LastError != nil {
		lines = append(lines, "", " "+styles.DangerText.Render("Last error: "+snap.LastError.Error()))
	}

	return lipgloss.NewStyle().Width(m.width).Render(strings.Join(lines, "\n"))
}

// weightRange returns the lightest and heaviest recorded weight.
func weightRange(groups []withings.MeasureGroup) (lo, hi float64, ok bool) {
	for _, g := range groups {
		if g.Category != withings.CategoryMeasures {
			continue
		}
		v, found := g.Value(withings.TypeWeight)
		if !found {
			continue
		}
		if !ok || v < lo {
			lo = v
		}
		if !ok || v > hi {
			hi = v
		}
		ok = true
	}
	return lo, hi, ok
}
