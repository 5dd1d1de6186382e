// Package picker lets the learner choose a category or exam year before a
// session starts.
package picker

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/fpdrill/fpdrill/internal/corpus"
	"github.com/fpdrill/fpdrill/internal/engine"
	"github.com/fpdrill/fpdrill/internal/router"
	"github.com/fpdrill/fpdrill/internal/screen"
	"github.com/fpdrill/fpdrill/internal/screens/study"
	"github.com/fpdrill/fpdrill/internal/selection"
	"github.com/fpdrill/fpdrill/internal/ui/components"
	"github.com/fpdrill/fpdrill/internal/ui/layout"
	"github.com/fpdrill/fpdrill/internal/ui/theme"
)

// PickerScreen is a titled menu whose items start a study session.
type PickerScreen struct {
	title  string
	prompt string
	menu   components.Menu
}

var _ screen.Screen = (*PickerScreen)(nil)

// Categories lists the six exam categories with their question counts.
// Categories with no questions are disabled.
func Categories(eng *engine.Engine, counts map[string]int, count int) *PickerScreen {
	var items []components.MenuItem
	for _, c := range corpus.Categories() {
		req := selection.Request{Strategy: selection.StrategyCategory, Category: c.ID, Count: count}
		items = append(items, components.MenuItem{
			Label:    c.Name,
			Detail:   fmt.Sprintf("%d問", counts[c.ID]),
			Disabled: counts[c.ID] == 0,
			Action:   startStudy(eng, req),
		})
	}
	return &PickerScreen{title: "分野別", prompt: "分野を選んでください", menu: components.NewMenu(items)}
}

// Years lists the exam years present in the corpus, newest first.
func Years(eng *engine.Engine, years []int, count int) *PickerScreen {
	var items []components.MenuItem
	for _, y := range years {
		req := selection.Request{Strategy: selection.StrategyYear, Year: y, Count: count}
		items = append(items, components.MenuItem{
			Label:  fmt.Sprintf("%d年度", y),
			Action: startStudy(eng, req),
		})
	}
	return &PickerScreen{title: "年度別", prompt: "年度を選んでください", menu: components.NewMenu(items)}
}

func startStudy(eng *engine.Engine, req selection.Request) func() tea.Cmd {
	return func() tea.Cmd {
		s := study.New(eng, req)
		return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
	}
}

func (p *PickerScreen) Init() tea.Cmd { return nil }

func (p *PickerScreen) Title() string { return p.title }

func (p *PickerScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "選択"},
		{Key: "Enter", Description: "開始"},
		{Key: "Esc", Description: "戻る"},
	}
}

func (p *PickerScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if k, ok := msg.(tea.KeyPressMsg); ok && (k.String() == "esc" || k.String() == "q") {
		return p, func() tea.Msg { return router.PopScreenMsg{} }
	}
	var cmd tea.Cmd
	p.menu, cmd = p.menu.Update(msg)
	return p, cmd
}

func (p *PickerScreen) View(width, height int) string {
	body := theme.Heading(p.prompt, 40) + "\n\n"
	if len(p.menu.Items) == 0 {
		body += theme.Centered("選べる項目がありません", 40, theme.TextDim)
	} else {
		body += p.menu.View()
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}
