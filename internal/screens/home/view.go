package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/fpdrill/fpdrill/internal/mastery"
	"github.com/fpdrill/fpdrill/internal/ui/components"
	"github.com/fpdrill/fpdrill/internal/ui/layout"
	"github.com/fpdrill/fpdrill/internal/ui/theme"
)

// contentWidth returns the inner width shared by every section so boxes align.
func contentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 64)
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "選択"},
		{Key: "Enter", Description: "決定"},
		{Key: "Ctrl+C", Description: "終了"},
	}
}

func (h *HomeScreen) View(width, height int) string {
	cw := contentWidth(width)
	compact := height < 28

	var sections []string
	if !compact {
		sections = append(sections, theme.Heading("F P  D R I L L", cw), "")
	}

	switch {
	case !h.loaded:
		sections = append(sections, theme.Centered("読み込み中...", cw, theme.TextDim))
	case h.errMsg != "":
		sections = append(sections, theme.Centered("データを読み込めません: "+h.errMsg, cw, theme.Error))
	case h.data.Distribution.Total == 0:
		sections = append(sections, theme.Centered("問題がありません。fpdrill import で問題を取り込んでください。", cw, theme.Accent))
	default:
		sections = append(sections, renderDashboard(h.data, cw, compact))
	}

	sections = append(sections, "", lipgloss.NewStyle().Width(cw).Render(h.menu.View()))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func renderDashboard(d dashboard, cw int, compact bool) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	accent := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)

	var lines []string

	goal := float64(0)
	if d.Today.DailyGoal > 0 {
		goal = float64(d.Today.QuestionsSolved) / float64(d.Today.DailyGoal)
	}
	bar := components.NewProgressBar(
		fmt.Sprintf("今日 %d/%d問", d.Today.QuestionsSolved, d.Today.DailyGoal), goal, true, cw-4)
	if d.Today.GoalMet {
		bar.Fill = theme.Success
	}
	lines = append(lines, bar.View())

	info := []string{
		accent.Render(fmt.Sprintf("連続 %d日", d.Overall.CurrentStreak)),
		dim.Render(fmt.Sprintf("正答率 %d%%", d.Overall.OverallAccuracy)),
	}
	if d.HasExamDate {
		switch {
		case d.DaysToExam > 0:
			info = append(info, accent.Render(fmt.Sprintf("試験まで %d日", d.DaysToExam)))
		case d.DaysToExam == 0:
			info = append(info, accent.Render("試験当日"))
		}
	}
	lines = append(lines, strings.Join(info, "  "))

	if !compact {
		lines = append(lines, "", renderDistribution(d.Distribution, cw-4))
	}

	return theme.Card(strings.Join(lines, "\n"), cw)
}

// renderDistribution draws the mastery buckets as one stacked bar.
func renderDistribution(dist mastery.Distribution, width int) string {
	if dist.Total == 0 {
		return ""
	}
	buckets := []struct {
		label string
		n     int
		color lipgloss.Style
	}{
		{"習得", dist.Mastered, lipgloss.NewStyle().Background(theme.Success)},
		{"理解", dist.Familiar, lipgloss.NewStyle().Background(theme.Secondary)},
		{"学習中", dist.Learning, lipgloss.NewStyle().Background(theme.Accent)},
		{"未学習", dist.New, lipgloss.NewStyle().Background(theme.Border)},
	}

	var bar, legend strings.Builder
	used := 0
	for i, b := range buckets {
		w := b.n * width / dist.Total
		if i == len(buckets)-1 {
			w = width - used
		}
		used += w
		bar.WriteString(b.color.Render(strings.Repeat(" ", w)))
		if i > 0 {
			legend.WriteString("  ")
		}
		legend.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("%s %d", b.label, b.n)))
	}
	return bar.String() + "\n" + legend.String()
}
