package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/fpdrill/fpdrill/internal/mastery"
)

func key(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

func TestMenuSkipsDisabled(t *testing.T) {
	ran := ""
	m := NewMenu([]MenuItem{
		{Label: "off", Disabled: true},
		{Label: "random", Action: func() tea.Cmd { ran = "random"; return nil }},
		{Label: "also off", Disabled: true},
		{Label: "stats", Action: func() tea.Cmd { ran = "stats"; return nil }},
	})
	if m.Selected != 1 {
		t.Fatalf("initial selection = %d, want 1", m.Selected)
	}

	m, _ = m.Update(key("down"))
	if m.Selected != 3 {
		t.Fatalf("after down = %d, want 3", m.Selected)
	}
	m, _ = m.Update(key("down"))
	if m.Selected != 3 {
		t.Errorf("cursor moved past the end: %d", m.Selected)
	}
	m, _ = m.Update(key("enter"))
	if ran != "stats" {
		t.Errorf("ran %q, want stats", ran)
	}

	m, _ = m.Update(key("up"))
	if m.Selected != 1 {
		t.Errorf("after up = %d, want 1", m.Selected)
	}
}

func TestMultiChoiceKeys(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want int
	}{
		{"enter picks cursor", []string{"down", "enter"}, 1},
		{"number picks directly", []string{"3"}, 2},
		{"number out of range", []string{"9"}, -1},
		{"navigation only", []string{"down", "down", "up"}, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMultiChoice([]string{"a", "b", "c"})
			got := -1
			for _, k := range tt.keys {
				m, got = m.Update(key(k))
			}
			if got != tt.want {
				t.Errorf("chosen = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMultiChoiceReveal(t *testing.T) {
	m := NewMultiChoice([]string{"a", "b", "c"})
	m.Reveal(0, 2)
	if !m.Revealed() {
		t.Fatal("expected revealed")
	}
	if _, got := m.Update(key("1")); got != -1 {
		t.Errorf("revealed picker accepted a choice: %d", got)
	}

	view := m.View(40)
	if !strings.Contains(view, "3) c ○") || !strings.Contains(view, "1) a ×") {
		t.Errorf("feedback marks missing:\n%s", view)
	}
}

func TestProgressBarClamps(t *testing.T) {
	for _, pct := range []float64{-1, 0, 0.5, 2} {
		if v := NewProgressBar("goal", pct, true, 30).View(); v == "" {
			t.Errorf("empty bar for %v", pct)
		}
	}
}

func TestLevelLabel(t *testing.T) {
	if got := LevelLabel(mastery.LevelComplete); got != "完璧" {
		t.Errorf("LevelLabel(complete) = %q", got)
	}
	if got := LevelLabel(mastery.LevelUnseen); got != "未学習" {
		t.Errorf("LevelLabel(unseen) = %q", got)
	}
}
