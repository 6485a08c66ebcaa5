package ui

import (
	"strings"

	"github.com/five82/bodyscale/internal/withings"
)

type column struct {
	title string
	width int
	wide  bool // hidden below LayoutCompactWidth
}

var measureColumns = []column{
	{title: "Date", width: 17},
	{title: "Weight", width: 10},
	{title: "Fat", width: 7},
	{title: "Fat mass", width: 10, wide: true},
	{title: "Lean mass", width: 10, wide: true},
	{title: "Kind", width: 10},
}

// tableRows returns how many group rows fit below the table header.
func (m Model) tableRows() int {
	return max(m.height-chromeHeight-1, 1)
}

// visibleColumns drops the composition columns on narrow terminals.
func (m Model) visibleColumns() []column {
	if m.width >= LayoutCompactWidth {
		return measureColumns
	}
	var cols []column
	for _, c := range measureColumns {
		if !c.wide {
			cols = append(cols, c)
		}
	}
	return cols
}

// renderMeasures renders the measurement group table.
func (m Model) renderMeasures() string {
	styles := m.theme.Styles()
	groups := m.snapshot.Groups
	cols := m.visibleColumns()

	var b strings.Builder
	var header []string
	for _, c := range cols {
		header = append(header, padRight(c.title, c.width))
	}
	b.WriteString(styles.AccentText.Bold(true).Render(" " + strings.Join(header, " ")))

	if len(groups) == 0 {
		b.WriteString("\n")
		b.WriteString(styles.MutedText.Render(" No measurements yet"))
		return b.String()
	}

	rows := m.tableRows()
	start := 0
	if m.selectedRow >= rows {
		start = m.selectedRow - rows + 1
	}
	end := min(start+rows, len(groups))

	for i := start; i < end; i++ {
		cells := m.groupCells(groups[i])
		var line []string
		for _, c := range cols {
			line = append(line, padRight(cells[c.title], c.width))
		}
		text := " " + strings.Join(line, " ")
		b.WriteString("\n")
		if i == m.selectedRow {
			b.WriteString(styles.Selected.Width(max(m.width, len(text))).Render(text))
			continue
		}
		if groups[i].Category == withings.CategoryObjective {
			b.WriteString(styles.InfoText.Render(text))
			continue
		}
		b.WriteString(styles.Text.Render(text))
	}
	return b.String()
}

// groupCells formats one measure group keyed by column title.
func (m Model) groupCells(g withings.MeasureGroup) map[string]string {
	cells := map[string]string{
		"Date": g.Time().Local().Format("2006-01-02 15:04"),
		"Kind": g.Category.String(),
	}
	if v, ok := g.Value(withings.TypeWeight); ok {
		cells["Weight"] = formatWeight(v, m.weightUnit)
	}
	if v, ok := g.Value(withings.TypeFatRatio); ok {
		cells["Fat"] = formatPercent(v)
	}
	if v, ok := g.Value(withings.TypeFatMassWeight); ok {
		cells["Fat mass"] = formatWeight(v, m.weightUnit)
	}
	if v, ok := g.Value(withings.TypeFatFreeMass); ok {
		cells["Lean mass"] = formatWeight(v, m.weightUnit)
	}
	if g.Attrib == withings.AttribAmbiguous {
		cells["Kind"] += "?"
	}
	return cells
}
