package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/fpdrill/fpdrill/internal/router"
	"github.com/fpdrill/fpdrill/internal/screen"
	"github.com/fpdrill/fpdrill/internal/session"
	"github.com/fpdrill/fpdrill/internal/store"
	"github.com/fpdrill/fpdrill/internal/ui/components"
	"github.com/fpdrill/fpdrill/internal/ui/layout"
	"github.com/fpdrill/fpdrill/internal/ui/theme"
)

// maxMissedShown caps the list of missed questions.
const maxMissedShown = 8

// SummaryScreen shows the result of a finished session.
type SummaryScreen struct {
	summary session.Summary
	today   store.DailyStat
	goal    int
	missed  []store.Question
	notice  string
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a SummaryScreen. Results and questions identify the missed
// questions.
func New(sum session.Summary, today store.DailyStat, goal int, results []session.Result, questions []store.Question) *SummaryScreen {
	byID := make(map[string]store.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	var missed []store.Question
	for _, r := range results {
		if !r.Correct() {
			missed = append(missed, byID[r.Event.QuestionID])
		}
	}
	return &SummaryScreen{summary: sum, today: today, goal: goal, missed: missed}
}

// WithNotice sets a warning shown under the results, such as a failed read
// of today's goal.
func (s *SummaryScreen) WithNotice(text string) *SummaryScreen {
	s.notice = text
	return s
}

func (s *SummaryScreen) Init() tea.Cmd { return nil }

func (s *SummaryScreen) Title() string { return "結果" }

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "ホームへ"},
		{Key: "Esc", Description: "ホームへ"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "enter", "esc", "q":
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(theme.Heading("学習おつかれさまでした!", width))
	b.WriteString("\n\n")

	b.WriteString(theme.Centered(fmt.Sprintf("%d分  ·  %d/%d問回答", sum.Minutes, sum.Answered, sum.Questions),
		width, theme.TextDim))
	b.WriteString("\n\n")

	accColor := theme.Error
	switch {
	case sum.Accuracy >= 80:
		accColor = theme.Success
	case sum.Accuracy >= 60:
		accColor = theme.Accent
	}
	b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(accColor).Bold(true).
		Render(fmt.Sprintf("正答率 %d%%  (%d/%d)", sum.Accuracy, sum.Correct, sum.Answered)))
	b.WriteString("\n")

	if sum.Promoted > 0 || sum.Demoted > 0 {
		b.WriteString(theme.Centered(fmt.Sprintf("習熟度 ↑%d  ↓%d", sum.Promoted, sum.Demoted), width, theme.Secondary))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if s.notice != "" {
		b.WriteString(theme.Centered(s.notice, width, theme.Error))
		b.WriteString("\n\n")
	}

	if s.goal > 0 {
		bar := components.NewProgressBar("今日の目標", float64(s.today.QuestionsSolved)/float64(s.goal), true, min(width-8, 56))
		if s.today.QuestionsSolved >= s.goal {
			bar.Fill = theme.Success
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
		b.WriteString("\n")
		b.WriteString(theme.Centered(fmt.Sprintf("%d/%d問", s.today.QuestionsSolved, s.goal), width, theme.TextDim))
		b.WriteString("\n\n")
	}

	if len(s.missed) > 0 {
		divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", min(width-8, 60)))
		b.WriteString(theme.Centered("間違えた問題", width, theme.TextDim))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
		b.WriteString("\n")
		lineWidth := min(width-8, 60)
		for i, q := range s.missed {
			if i == maxMissedShown {
				b.WriteString(theme.Centered(fmt.Sprintf("ほか %d問", len(s.missed)-maxMissedShown), width, theme.TextDim))
				b.WriteString("\n")
				break
			}
			line := lipgloss.NewStyle().Foreground(theme.Category(q.Category)).Render("■ ") +
				lipgloss.NewStyle().Foreground(theme.Text).MaxWidth(lineWidth-2).Render(firstLine(q.QuestionText))
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, line))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
