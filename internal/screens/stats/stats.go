// Package stats shows the learner's history: accuracy per category,
// mastery levels and the last seven days.
package stats

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/fpdrill/fpdrill/internal/corpus"
	"github.com/fpdrill/fpdrill/internal/engine"
	"github.com/fpdrill/fpdrill/internal/mastery"
	"github.com/fpdrill/fpdrill/internal/router"
	"github.com/fpdrill/fpdrill/internal/screen"
	statsvc "github.com/fpdrill/fpdrill/internal/stats"
	"github.com/fpdrill/fpdrill/internal/store"
	"github.com/fpdrill/fpdrill/internal/ui/components"
	"github.com/fpdrill/fpdrill/internal/ui/layout"
	"github.com/fpdrill/fpdrill/internal/ui/theme"
)

type tab int

const (
	tabCategories tab = iota
	tabLevels
	tabWeekly
	tabCount
)

var tabNames = [tabCount]string{"分野別", "習熟度", "週間"}

type statsLoadedMsg struct {
	Overall    statsvc.Overall
	Categories []statsvc.CategoryStat
	Levels     [mastery.MaxLevel + 1]int
	Weekly     []store.DailyStat
	WeekStart  time.Time
	Err        error
}

// StatsScreen displays learning statistics in three tabs.
type StatsScreen struct {
	eng    *engine.Engine
	tab    tab
	data   statsLoadedMsg
	loaded bool
}

var _ screen.Screen = (*StatsScreen)(nil)
var _ screen.KeyHintProvider = (*StatsScreen)(nil)

// New creates the stats screen.
func New(eng *engine.Engine) *StatsScreen {
	return &StatsScreen{eng: eng}
}

func (s *StatsScreen) Init() tea.Cmd {
	eng := s.eng
	return func() tea.Msg {
		return load(context.Background(), eng, time.Now())
	}
}

func load(ctx context.Context, eng *engine.Engine, now time.Time) statsLoadedMsg {
	var msg statsLoadedMsg
	var err error
	if msg.Overall, err = eng.Stats.OverallStats(ctx); err != nil {
		return statsLoadedMsg{Err: err}
	}
	if msg.Categories, err = eng.Stats.CategoryStats(ctx); err != nil {
		return statsLoadedMsg{Err: err}
	}
	if msg.Levels, err = eng.Mastery.LevelCounts(ctx); err != nil {
		return statsLoadedMsg{Err: err}
	}
	msg.WeekStart = now.AddDate(0, 0, -6)
	if msg.Weekly, err = eng.Stats.Weekly(ctx, msg.WeekStart); err != nil {
		return statsLoadedMsg{Err: err}
	}
	return msg
}

func (s *StatsScreen) Title() string { return "学習統計" }

func (s *StatsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←→ Tab", Description: "切替"},
		{Key: "Esc", Description: "戻る"},
	}
}

func (s *StatsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		s.data = msg
		s.loaded = true
	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "right", "l", "tab":
			s.tab = (s.tab + 1) % tabCount
		case "left", "h", "shift+tab":
			s.tab = (s.tab + tabCount - 1) % tabCount
		}
	}
	return s, nil
}

func (s *StatsScreen) View(width, height int) string {
	if !s.loaded {
		return theme.Centered("\n\n読み込み中...", width, theme.TextDim)
	}
	if s.data.Err != nil {
		return theme.Centered("\n\nエラー: "+s.data.Err.Error(), width, theme.Error)
	}

	cw := min(width-4, 70)
	var b strings.Builder
	b.WriteString(renderOverall(s.data.Overall, cw))
	b.WriteString("\n\n")
	b.WriteString(renderTabs(s.tab))
	b.WriteString("\n\n")

	switch s.tab {
	case tabCategories:
		b.WriteString(renderCategories(s.data.Categories, cw))
	case tabLevels:
		b.WriteString(renderLevels(s.data.Levels, cw))
	case tabWeekly:
		b.WriteString(renderWeekly(s.data.Weekly, s.data.WeekStart, cw))
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, "\n"+b.String())
}

func renderOverall(o statsvc.Overall, cw int) string {
	accent := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	cell := func(label, value string) string {
		return dim.Render(label) + " " + accent.Render(value)
	}
	line := strings.Join([]string{
		cell("解答数", fmt.Sprintf("%d", o.TotalQuestionsSolved)),
		cell("正答率", fmt.Sprintf("%d%%", o.OverallAccuracy)),
		cell("学習時間", fmt.Sprintf("%d分", o.TotalStudyTimeMinutes)),
		cell("連続", fmt.Sprintf("%d日", o.CurrentStreak)),
		cell("最長", fmt.Sprintf("%d日", o.LongestStreak)),
	}, "  ")
	return theme.Card(line, cw)
}

func renderTabs(active tab) string {
	var parts []string
	for i, name := range tabNames {
		style := lipgloss.NewStyle().Foreground(theme.TextDim).Padding(0, 1)
		if tab(i) == active {
			style = style.Foreground(theme.Primary).Bold(true).Underline(true)
		}
		parts = append(parts, style.Render(name))
	}
	return strings.Join(parts, " ")
}

func renderCategories(cats []statsvc.CategoryStat, cw int) string {
	var b strings.Builder
	for _, c := range cats {
		label := c.Category
		if meta, ok := corpus.LookupCategory(c.CategoryID); ok {
			label = meta.ShortName
		}
		name := lipgloss.NewStyle().Foreground(theme.Category(c.CategoryID)).Bold(true).
			Width(20).Render(label)
		counts := lipgloss.NewStyle().Foreground(theme.TextDim).
			Render(fmt.Sprintf("%d/%d問", c.AnsweredQuestions, c.TotalQuestions))
		bar := components.NewProgressBar("", float64(c.Accuracy)/100, true, max(cw-36, 10))
		bar.Fill = theme.Category(c.CategoryID)
		b.WriteString(name + " " + bar.View() + "  " + counts + "\n")
	}
	return b.String()
}

func renderLevels(levels [mastery.MaxLevel + 1]int, cw int) string {
	total := 0
	for _, n := range levels {
		total += n
	}
	var b strings.Builder
	for l := mastery.MaxLevel; l >= mastery.LevelUnseen; l-- {
		pct := 0.0
		if total > 0 {
			pct = float64(levels[l]) / float64(total)
		}
		label := lipgloss.NewStyle().Foreground(theme.Text).Width(8).Render(components.LevelLabel(l))
		bar := components.NewProgressBar("", pct, false, max(cw-20, 10))
		b.WriteString(fmt.Sprintf("%s %s %5d\n", label, bar.View(), levels[l]))
	}
	return b.String()
}

// renderWeekly prints one row per day, including days without activity.
func renderWeekly(days []store.DailyStat, start time.Time, cw int) string {
	byDate := make(map[string]store.DailyStat, len(days))
	peak := 1
	for _, d := range days {
		byDate[d.Date] = d
		peak = max(peak, d.QuestionsSolved)
	}

	var b strings.Builder
	for i := range 7 {
		day := start.AddDate(0, 0, i)
		d := byDate[statsvc.DayKey(day)]
		label := lipgloss.NewStyle().Foreground(theme.TextDim).Width(12).
			Render(day.Format("01/02") + " " + weekday(day))
		bar := components.NewProgressBar("", float64(d.QuestionsSolved)/float64(peak), false, max(cw-34, 10))
		detail := fmt.Sprintf("%3d問 %3d%% %3d分", d.QuestionsSolved,
			statsvc.Accuracy(d.CorrectAnswers, d.QuestionsSolved), d.StudyTimeMinutes)
		b.WriteString(label + bar.View() + "  " + lipgloss.NewStyle().Foreground(theme.Text).Render(detail) + "\n")
	}
	return b.String()
}

func weekday(t time.Time) string {
	return [...]string{"日", "月", "火", "水", "木", "金", "土"}[t.Weekday()]
}
