package study

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/fpdrill/fpdrill/internal/corpus"
	"github.com/fpdrill/fpdrill/internal/mastery"
	"github.com/fpdrill/fpdrill/internal/selection"
	"github.com/fpdrill/fpdrill/internal/ui/components"
	"github.com/fpdrill/fpdrill/internal/ui/theme"
)

// strategyTitle names a selection for the header.
func strategyTitle(req selection.Request) string {
	switch req.Strategy {
	case selection.StrategyCategory:
		if c, ok := corpus.LookupCategory(req.Category); ok {
			return c.ShortName
		}
		return "分野別"
	case selection.StrategyYear:
		return fmt.Sprintf("%d年度", req.Year)
	case selection.StrategyWeakness:
		return "苦手克服"
	case selection.StrategyBookmarked:
		return "ブックマーク"
	case selection.StrategyIncorrectToday:
		return "今日の間違い"
	default:
		return "ランダム"
	}
}

func (s *StudyScreen) View(width, height int) string {
	switch s.mode {
	case modeLoading:
		return theme.Centered("\n\n\n問題を準備しています...", width, theme.TextDim)
	case modeEmpty:
		return theme.Centered("\n\n\n条件に合う問題がありません。\n\n何かキーを押すと戻ります。", width, theme.TextDim)
	case modeError:
		return theme.Centered(fmt.Sprintf("\n\n\nエラー: %s\n\n何かキーを押すと戻ります。", s.errMsg), width, theme.Error)
	case modeQuitConfirm:
		return renderQuitConfirm(width, s.sess.Summary().Answered)
	}
	return s.renderQuestion(width)
}

func (s *StudyScreen) renderQuestion(width int) string {
	q, _ := s.sess.Current()
	inner := min(width-4, 90)

	var b strings.Builder

	// Info line: category, source, position, level.
	cat := q.Category
	if c, ok := corpus.LookupCategory(q.Category); ok {
		cat = c.ShortName
	}
	left := lipgloss.NewStyle().Foreground(theme.Category(q.Category)).Bold(true).Render("■ "+cat) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("  %d年%s  %s級", q.Year, q.Session, q.Grade))
	bookmark := ""
	if s.progress.IsBookmarked {
		bookmark = lipgloss.NewStyle().Foreground(theme.Accent).Render("★ ")
	}
	right := bookmark + lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("%d/%d  %s",
		s.sess.Index()+1, s.sess.Len(), components.LevelLabel(mastery.Level(s.progress.MasteryLevel))))
	gap := max(inner-lipgloss.Width(left)-lipgloss.Width(right), 1)
	b.WriteString(left + strings.Repeat(" ", gap) + right + "\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", inner)) + "\n\n")

	b.WriteString(lipgloss.NewStyle().Width(inner).Foreground(theme.Text).Bold(true).Render(q.QuestionText))
	b.WriteString("\n\n")
	b.WriteString(s.choice.View(inner))

	if s.mode == modeFeedback || s.mode == modeNotes {
		b.WriteString("\n")
		b.WriteString(s.renderFeedback(inner))
	}
	if s.mode == modeNotes {
		b.WriteString("\n\n" + s.notes.View())
	}
	if s.flash != "" {
		b.WriteString("\n\n" + lipgloss.NewStyle().Foreground(theme.Accent).Render(s.flash))
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}

func (s *StudyScreen) renderFeedback(width int) string {
	r := s.result
	if r == nil {
		return ""
	}
	var b strings.Builder
	if r.Correct() {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Success).Bold(true).Render("○ 正解!"))
	} else {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Bold(true).
			Render(fmt.Sprintf("× 不正解  正解は %d", r.CorrectAnswer+1)))
	}

	if tr := r.Transition; tr.Changed() {
		arrow := "↑"
		color := theme.Success
		if !tr.Promoted() {
			arrow, color = "↓", theme.Error
		}
		b.WriteString(lipgloss.NewStyle().Foreground(color).Render(
			fmt.Sprintf("   %s %s → %s", arrow, components.LevelLabel(tr.From), components.LevelLabel(tr.To))))
	}
	b.WriteString("\n\n")

	if r.Explanation != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("解説") + "\n")
		b.WriteString(lipgloss.NewStyle().Width(width).Foreground(theme.Text).Render(r.Explanation))
	}
	if s.progress.Notes != "" && s.mode != modeNotes {
		b.WriteString("\n\n" + lipgloss.NewStyle().Foreground(theme.Accent).Render("メモ: ") +
			lipgloss.NewStyle().Foreground(theme.Text).Render(s.progress.Notes))
	}
	return b.String()
}

func renderQuitConfirm(width, answered int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(theme.Heading("学習を終了しますか?", width))
	b.WriteString("\n")
	b.WriteString(theme.Centered(fmt.Sprintf("ここまでの %d 問の結果は記録されます。", answered), width, theme.TextDim))
	b.WriteString("\n\n")
	b.WriteString(theme.Centered("[Y] 終了する", width, theme.Success))
	b.WriteString("\n")
	b.WriteString(theme.Centered("[N] 続ける", width, theme.Primary))
	return b.String()
}
