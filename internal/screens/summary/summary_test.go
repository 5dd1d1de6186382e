package summary

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/fpdrill/fpdrill/internal/router"
	"github.com/fpdrill/fpdrill/internal/session"
	"github.com/fpdrill/fpdrill/internal/store"
)

func testSummary() *SummaryScreen {
	questions := []store.Question{
		{ID: "q1", Category: "tax-planning", QuestionText: "所得税の問題"},
		{ID: "q2", Category: "real-estate", QuestionText: "不動産の問題"},
	}
	results := []session.Result{
		{Event: store.AnswerEvent{QuestionID: "q1", IsCorrect: true}},
		{Event: store.AnswerEvent{QuestionID: "q2", IsCorrect: false}},
	}
	sum := session.Summary{Questions: 2, Answered: 2, Correct: 1, Accuracy: 50, Minutes: 3}
	today := store.DailyStat{Date: "2024-07-01", QuestionsSolved: 12}
	return New(sum, today, 20, results, questions)
}

func TestSummaryMissedQuestions(t *testing.T) {
	s := testSummary()
	if len(s.missed) != 1 || s.missed[0].ID != "q2" {
		t.Fatalf("missed = %+v, want only q2", s.missed)
	}

	view := s.View(80, 24)
	for _, want := range []string{"50%", "不動産の問題", "12/20"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(view, "所得税の問題") {
		t.Error("correct question listed as missed")
	}
}

func TestSummaryReturnsHome(t *testing.T) {
	for _, k := range []tea.KeyPressMsg{
		{Code: tea.KeyEnter},
		{Code: tea.KeyEscape},
	} {
		_, cmd := testSummary().Update(k)
		if cmd == nil {
			t.Fatalf("no command for %s", k.String())
		}
		if _, ok := cmd().(router.PopToRootMsg); !ok {
			t.Errorf("%s: expected PopToRootMsg", k.String())
		}
	}
}

func TestSummaryNotice(t *testing.T) {
	view := testSummary().WithNotice("目標を読み込めませんでした").View(80, 30)
	if !strings.Contains(view, "目標を読み込めませんでした") {
		t.Error("notice not shown")
	}
	if strings.Contains(testSummary().View(80, 30), "読み込めません") {
		t.Error("notice shown without one being set")
	}
}

func TestSummaryTitle(t *testing.T) {
	if got := testSummary().Title(); got != "結果" {
		t.Errorf("Title = %q", got)
	}
}
