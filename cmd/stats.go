package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/fpdrill/fpdrill/internal/corpus"
	"github.com/fpdrill/fpdrill/internal/mastery"
	"github.com/fpdrill/fpdrill/internal/stats"
	"github.com/fpdrill/fpdrill/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		ctx := cmd.Context()
		eng := env.Engine
		st, err := eng.Settings.Load(ctx)
		if err != nil {
			return err
		}
		today, err := eng.Stats.Today(ctx, st.DailyGoal)
		if err != nil {
			return err
		}
		overall, err := eng.Stats.OverallStats(ctx)
		if err != nil {
			return err
		}
		cats, err := eng.Stats.CategoryStats(ctx)
		if err != nil {
			return err
		}
		dist, err := eng.Mastery.MasteryDistribution(ctx)
		if err != nil {
			return err
		}
		week, err := eng.Stats.Weekly(ctx, time.Now().AddDate(0, 0, -6))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		printStats(out, today, overall, dist, cats, week)
		return nil
	},
}

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	valueStyle   = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

// printStats writes the report; lipgloss drops the colors when w is not a
// terminal.
func printStats(w io.Writer, today stats.Today, o stats.Overall, dist mastery.Distribution,
	cats []stats.CategoryStat, week []store.DailyStat) {
	lipgloss.Fprintln(w, headingStyle.Render("Today"))
	lipgloss.Fprintf(w, "  solved %s / goal %d (%d%%)  accuracy %s  sessions %d\n\n",
		valueStyle.Render(fmt.Sprint(today.QuestionsSolved)), today.DailyGoal, today.GoalProgress,
		valueStyle.Render(fmt.Sprintf("%d%%", today.Accuracy)), today.SessionsCount)

	lipgloss.Fprintln(w, headingStyle.Render("Overall"))
	lipgloss.Fprintf(w, "  answers %s  accuracy %s  study time %d min  streak %d (longest %d)\n\n",
		valueStyle.Render(fmt.Sprint(o.TotalQuestionsSolved)),
		valueStyle.Render(fmt.Sprintf("%d%%", o.OverallAccuracy)),
		o.TotalStudyTimeMinutes, o.CurrentStreak, o.LongestStreak)

	lipgloss.Fprintln(w, headingStyle.Render("Mastery"))
	lipgloss.Fprintf(w, "  mastered %d  familiar %d  learning %d  new %d  %s\n\n",
		dist.Mastered, dist.Familiar, dist.Learning, dist.New,
		dimStyle.Render(fmt.Sprintf("(%d questions)", dist.Total)))

	lipgloss.Fprintln(w, headingStyle.Render("Categories"))
	for _, c := range cats {
		name := c.Category
		if meta, ok := corpus.LookupCategory(c.CategoryID); ok {
			name = meta.ShortName
		}
		label := lipgloss.NewStyle().Foreground(lipgloss.Color(colorOf(c.CategoryID))).Width(20).Render(name)
		lipgloss.Fprintf(w, "  %s %s %4d%%  %s\n", label, bar(c.Accuracy, 20), c.Accuracy,
			dimStyle.Render(fmt.Sprintf("%d/%d answered", c.AnsweredQuestions, c.TotalQuestions)))
	}
	lipgloss.Fprintln(w)

	lipgloss.Fprintln(w, headingStyle.Render("Last 7 days"))
	if len(week) == 0 {
		lipgloss.Fprintln(w, dimStyle.Render("  no activity"))
	}
	for _, d := range week {
		lipgloss.Fprintf(w, "  %s  %3d solved  %3d%%  %3d min\n", d.Date, d.QuestionsSolved,
			stats.Accuracy(d.CorrectAnswers, d.QuestionsSolved), d.StudyTimeMinutes)
	}
}

func colorOf(categoryID string) string {
	if c, ok := corpus.LookupCategory(categoryID); ok {
		return c.Color
	}
	return "#888888"
}

// bar draws pct (0..100) as a block bar of width cells.
func bar(pct, width int) string {
	filled := min(max(pct*width/100, 0), width)
	return strings.Repeat("█", filled) + dimStyle.Render(strings.Repeat("░", width-filled))
}
