package ui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/bodyscale/internal/prefs"
	"github.com/five82/bodyscale/internal/state"
	"github.com/five82/bodyscale/internal/withings"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(runeKey(k))
		m = next.(Model)
	}
	return m
}

func sampleSnapshot() state.Snapshot {
	return state.Snapshot{
		User:    withings.User{ID: 29, FirstName: "John", LastName: "Doe", Birthdate: 332704800},
		HasUser: true,
		Groups: []withings.MeasureGroup{
			{GroupID: 3, Date: 1700200000, Category: withings.CategoryMeasures, Measures: []withings.Measure{
				{Value: 79300, Type: withings.TypeWeight, Unit: -3},
				{Value: 182, Type: withings.TypeFatRatio, Unit: -1},
			}},
			{GroupID: 2, Date: 1700100000, Category: withings.CategoryMeasures, Measures: []withings.Measure{
				{Value: 80100, Type: withings.TypeWeight, Unit: -3},
			}},
			{GroupID: 1, Date: 1700000000, Category: withings.CategoryObjective, Measures: []withings.Measure{
				{Value: 75000, Type: withings.TypeWeight, Unit: -3},
			}},
		},
	}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	m := New(Options{PrefsPath: filepath.Join(t.TempDir(), "prefs.toml")})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	next, _ = next.Update(snapshotMsg(sampleSnapshot()))
	return next.(Model)
}

func TestViewSwitching(t *testing.T) {
	m := newTestModel(t)
	if m.currentView != ViewMeasures {
		t.Fatalf("initial view = %v, want measures", m.currentView)
	}

	cases := []struct {
		key  string
		want View
	}{
		{"u", ViewUser},
		{"l", ViewLogs},
		{"m", ViewMeasures},
	}
	for _, tc := range cases {
		m = press(t, m, tc.key)
		if m.currentView != tc.want {
			t.Fatalf("after %q view = %v, want %v", tc.key, m.currentView, tc.want)
		}
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(Model)
	if m.currentView != ViewUser {
		t.Fatalf("tab from measures = %v, want user", m.currentView)
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	if m.currentView != ViewMeasures {
		t.Fatalf("esc = %v, want measures", m.currentView)
	}
}

func TestSelectionClamps(t *testing.T) {
	m := newTestModel(t)

	m = press(t, m, "k")
	if m.selectedRow != 0 {
		t.Fatalf("k at top = %d, want 0", m.selectedRow)
	}
	m = press(t, m, "j", "j", "j", "j")
	if m.selectedRow != 2 {
		t.Fatalf("j past bottom = %d, want 2", m.selectedRow)
	}
	m = press(t, m, "g")
	if m.selectedRow != 0 {
		t.Fatalf("g = %d, want 0", m.selectedRow)
	}
	m = press(t, m, "G")
	if m.selectedRow != 2 {
		t.Fatalf("G = %d, want 2", m.selectedRow)
	}

	// A smaller snapshot pulls the selection back into range.
	snap := sampleSnapshot()
	snap.Groups = snap.Groups[:1]
	next, _ := m.Update(snapshotMsg(snap))
	m = next.(Model)
	if m.selectedRow != 0 {
		t.Fatalf("selection after shrink = %d, want 0", m.selectedRow)
	}
}

func TestToggleUnitPersists(t *testing.T) {
	m := newTestModel(t)
	if !strings.Contains(m.View(), "79.3 kg") {
		t.Fatalf("view missing kilograms:\n%s", m.View())
	}

	m = press(t, m, "U")
	if m.weightUnit != prefs.UnitPounds {
		t.Fatalf("unit = %q, want lb", m.weightUnit)
	}
	if !strings.Contains(m.View(), "174.8 lb") {
		t.Fatalf("view missing pounds:\n%s", m.View())
	}
	if got := prefs.Load(m.prefsPath).WeightUnit; got != prefs.UnitPounds {
		t.Fatalf("saved unit = %q, want lb", got)
	}

	m = press(t, m, "U")
	if m.weightUnit != prefs.UnitKilograms {
		t.Fatalf("unit after second toggle = %q, want kg", m.weightUnit)
	}
}

func TestCycleThemePersists(t *testing.T) {
	m := newTestModel(t)
	start := m.theme.Name

	m = press(t, m, "T")
	if m.theme.Name != NextTheme(start) {
		t.Fatalf("theme = %q, want %q", m.theme.Name, NextTheme(start))
	}
	if got := prefs.Load(m.prefsPath).Theme; got != m.theme.Name {
		t.Fatalf("saved theme = %q, want %q", got, m.theme.Name)
	}
}

func TestHelpToggle(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "?")
	if !m.showHelp {
		t.Fatal("help not shown")
	}
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatal("help view missing title")
	}
	m = press(t, m, "x")
	if m.showHelp {
		t.Fatal("help still shown after key")
	}
}

func TestQuitKey(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(runeKey("e"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("e did not quit")
	}
}

func TestRenderMeasures(t *testing.T) {
	m := newTestModel(t)
	out := m.View()

	for _, want := range []string{"bodyscale", "John Doe", "Weight", "Fat mass", "18.2%", "80.1 kg", "objective"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q:\n%s", want, out)
		}
	}

	next, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	narrow := next.(Model).View()
	if strings.Contains(narrow, "Fat mass") {
		t.Fatalf("narrow view shows composition columns:\n%s", narrow)
	}
}

func TestRenderEmptyAndOffline(t *testing.T) {
	m := New(Options{PrefsPath: filepath.Join(t.TempDir(), "prefs.toml")})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	m = next.(Model)
	if !strings.Contains(m.View(), "No measurements yet") {
		t.Fatalf("empty view:\n%s", m.View())
	}

	next, _ = m.Update(snapshotMsg(state.Snapshot{LastError: errors.New("boom"), ConsecutiveFailures: 3}))
	if out := next.(Model).View(); !strings.Contains(out, "offline") {
		t.Fatalf("offline view:\n%s", out)
	}
}

func TestUserView(t *testing.T) {
	m := press(t, newTestModel(t), "u")
	out := m.View()
	for _, want := range []string{"John Doe", "Latest weight", "79.3 kg", "79.3 kg - 80.1 kg"} {
		if !strings.Contains(out, want) {
			t.Fatalf("user view missing %q:\n%s", want, out)
		}
	}
}

func TestLogsView(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bodyscale.log")
	content := `{"time":"2026-01-02T03:04:05Z","level":"INFO","msg":"poll complete","app":"bodyscale","groups":3}` + "\nplain line\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	m := New(Options{LogPath: path, PrefsPath: filepath.Join(t.TempDir(), "prefs.toml")})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	next, cmd := next.Update(runeKey("l"))
	if cmd == nil {
		t.Fatal("expected log refresh command")
	}
	next, _ = next.Update(cmd())
	out := next.(Model).View()

	for _, want := range []string{"poll complete", "groups=3", "plain line"} {
		if !strings.Contains(out, want) {
			t.Fatalf("log view missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "app=") {
		t.Fatalf("log view shows app attr:\n%s", out)
	}
}

func TestFormatWeight(t *testing.T) {
	cases := []struct {
		kg   float64
		unit string
		want string
	}{
		{79.3, prefs.UnitKilograms, "79.3 kg"},
		{79.3, prefs.UnitPounds, "174.8 lb"},
		{0, "", "0.0 kg"},
	}
	for _, tc := range cases {
		if got := formatWeight(tc.kg, tc.unit); got != tc.want {
			t.Fatalf("formatWeight(%v, %q) = %q, want %q", tc.kg, tc.unit, got, tc.want)
		}
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 4); got != "ab  " {
		t.Fatalf("padRight = %q", got)
	}
	if got := padRight("abcd", 4); got != "abcd" {
		t.Fatalf("padRight exact = %q", got)
	}
	if got := padRight("", 3); got != "   " {
		t.Fatalf("padRight empty = %q", got)
	}
	if got := padRight("abcdef", 4); got != "abc…" {
		t.Fatalf("padRight truncate = %q", got)
	}
}

func TestThemes(t *testing.T) {
	names := ThemeNames()
	if len(names) != 3 {
		t.Fatalf("ThemeNames() = %v, want 3 names", names)
	}
	for i, name := range names {
		if got := NextTheme(name); got != names[(i+1)%len(names)] {
			t.Fatalf("NextTheme(%q) = %q", name, got)
		}
		if GetTheme(name).Name != name {
			t.Fatalf("GetTheme(%q) mismatch", name)
		}
	}
	if got := NextTheme("unknown"); got != names[0] {
		t.Fatalf("NextTheme(unknown) = %q, want %q", got, names[0])
	}
	if GetTheme("unknown").Name != "Nightfox" {
		t.Fatal("GetTheme fallback not Nightfox")
	}
}
