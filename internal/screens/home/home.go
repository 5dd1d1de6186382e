package home

import (
	"context"
	"fmt"
	"slices"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/fpdrill/fpdrill/internal/engine"
	"github.com/fpdrill/fpdrill/internal/mastery"
	"github.com/fpdrill/fpdrill/internal/router"
	"github.com/fpdrill/fpdrill/internal/screen"
	"github.com/fpdrill/fpdrill/internal/screens/picker"
	"github.com/fpdrill/fpdrill/internal/screens/stats"
	"github.com/fpdrill/fpdrill/internal/screens/study"
	"github.com/fpdrill/fpdrill/internal/selection"
	"github.com/fpdrill/fpdrill/internal/settings"
	statsvc "github.com/fpdrill/fpdrill/internal/stats"
	"github.com/fpdrill/fpdrill/internal/store"
	"github.com/fpdrill/fpdrill/internal/ui/components"
	"github.com/fpdrill/fpdrill/internal/ui/layout"
)

// dashboard is everything the home screen shows besides the menu.
type dashboard struct {
	Settings     store.Settings
	Today        statsvc.Today
	Overall      statsvc.Overall
	Distribution mastery.Distribution
	Bookmarks    int
	Years        []int
	CategoryQs   map[string]int
	DaysToExam   int
	HasExamDate  bool
}

type dashboardMsg struct {
	Data dashboard
	Err  error
}

// HomeScreen is the main menu with today's progress.
type HomeScreen struct {
	eng   *engine.Engine
	count int

	menu   components.Menu
	data   dashboard
	loaded bool
	errMsg string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.Resumer = (*HomeScreen)(nil)

// New creates the home screen. count is the batch size of each session.
func New(eng *engine.Engine, count int) *HomeScreen {
	h := &HomeScreen{eng: eng, count: count}
	h.menu = components.NewMenu(h.menuItems())
	return h
}

func (h *HomeScreen) Init() tea.Cmd { return h.load() }

// Resume reloads the dashboard when returning from another screen.
func (h *HomeScreen) Resume() tea.Cmd { return h.load() }

func (h *HomeScreen) Title() string { return "ホーム" }

func (h *HomeScreen) load() tea.Cmd {
	eng := h.eng
	return func() tea.Msg {
		d, err := loadDashboard(context.Background(), eng, time.Now())
		return dashboardMsg{Data: d, Err: err}
	}
}

func loadDashboard(ctx context.Context, eng *engine.Engine, now time.Time) (dashboard, error) {
	var d dashboard
	var err error

	if d.Settings, err = eng.Settings.Load(ctx); err != nil {
		return d, err
	}
	if d.Today, err = eng.Stats.Today(ctx, d.Settings.DailyGoal); err != nil {
		return d, err
	}
	if d.Overall, err = eng.Stats.OverallStats(ctx); err != nil {
		return d, err
	}
	if d.Distribution, err = eng.Mastery.MasteryDistribution(ctx); err != nil {
		return d, err
	}

	on := true
	marks, err := eng.Store.Progress().Query(ctx, store.ProgressFilter{Bookmarked: &on})
	if err != nil {
		return d, err
	}
	d.Bookmarks = len(marks)

	qs, err := eng.Store.Questions().Query(ctx, store.QuestionFilter{Grade: d.Settings.TargetGrade})
	if err != nil {
		return d, err
	}
	d.CategoryQs = make(map[string]int)
	for _, q := range qs {
		d.CategoryQs[q.Category]++
		if !slices.Contains(d.Years, q.Year) {
			d.Years = append(d.Years, q.Year)
		}
	}
	slices.SortFunc(d.Years, func(a, b int) int { return b - a })

	d.DaysToExam, d.HasExamDate = settings.DaysUntilExam(d.Settings, now)
	return d, nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardMsg:
		h.loaded = true
		if msg.Err != nil {
			h.errMsg = msg.Err.Error()
			return h, nil
		}
		h.errMsg = ""
		h.data = msg.Data
		selected := h.menu.Selected
		h.menu = components.NewMenu(h.menuItems())
		if selected < len(h.menu.Items) && !h.menu.Items[selected].Disabled {
			h.menu.Selected = selected
		}
		status := screen.StatusMsg{Status: layout.Status{
			Streak:    msg.Data.Overall.CurrentStreak,
			Solved:    msg.Data.Today.QuestionsSolved,
			DailyGoal: msg.Data.Settings.DailyGoal,
		}}
		return h, func() tea.Msg { return status }
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) menuItems() []components.MenuItem {
	start := func(req selection.Request) func() tea.Cmd {
		return func() tea.Cmd {
			if !req.Strategy.WholeSet() {
				req.Count = h.count
			}
			return push(study.New(h.eng, req))
		}
	}
	empty := h.loaded && h.data.Distribution.Total == 0

	return []components.MenuItem{
		{Label: "ランダム出題", Detail: fmt.Sprintf("%d問", h.count), Disabled: empty,
			Action: start(selection.Request{Strategy: selection.StrategyRandom})},
		{Label: "分野別", Disabled: empty, Action: func() tea.Cmd {
			return push(picker.Categories(h.eng, h.data.CategoryQs, h.count))
		}},
		{Label: "年度別", Disabled: empty, Action: func() tea.Cmd {
			return push(picker.Years(h.eng, h.data.Years, h.count))
		}},
		{Label: "苦手克服", Disabled: empty,
			Action: start(selection.Request{Strategy: selection.StrategyWeakness})},
		{Label: "ブックマーク", Detail: fmt.Sprintf("%d問", h.data.Bookmarks), Disabled: empty || h.data.Bookmarks == 0,
			Action: start(selection.Request{Strategy: selection.StrategyBookmarked})},
		{Label: "今日の間違い", Disabled: empty,
			Action: start(selection.Request{Strategy: selection.StrategyIncorrectToday})},
		{Label: "学習統計", Action: func() tea.Cmd {
			return push(stats.New(h.eng))
		}},
		{Label: "終了", Action: func() tea.Cmd { return tea.Quit }},
	}
}

func push(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}

