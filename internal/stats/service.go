// Package stats aggregates study activity: daily totals, accuracy by
// category and overall, and study-day streaks.
package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/fpdrill/fpdrill/internal/corpus"
	"github.com/fpdrill/fpdrill/internal/store"
)

// CategoryStat summarises one exam category. Accuracy is cumulative correct
// answers over distinct answered questions, as a percentage.
type CategoryStat struct {
	CategoryID        string `json:"categoryId"`
	Category          string `json:"category"`
	TotalQuestions    int    `json:"totalQuestions"`
	AnsweredQuestions int    `json:"answeredQuestions"`
	CorrectAnswers    int    `json:"correctAnswers"`
	Accuracy          int    `json:"accuracy"`
}

// Overall summarises the whole answer history.
type Overall struct {
	TotalQuestionsSolved  int `json:"totalQuestionsSolved"`
	OverallAccuracy       int `json:"overallAccuracy"`
	TotalStudyTimeMinutes int `json:"totalStudyTimeMinutes"`
	CurrentStreak         int `json:"currentStreak"`
	LongestStreak         int `json:"longestStreak"`
}

// Today is the current day's activity measured against the daily goal.
type Today struct {
	store.DailyStat
	Accuracy     int  `json:"accuracy"`
	DailyGoal    int  `json:"dailyGoal"`
	GoalProgress int  `json:"goalProgress"` // percent, capped at 100
	GoalMet      bool `json:"goalMet"`
}

// Service computes statistics from the store.
type Service struct {
	days      store.DailyStatRepo
	answers   store.AnswerRepo
	questions store.QuestionRepo
	now       func() time.Time
}

// NewService creates a statistics service.
func NewService(days store.DailyStatRepo, answers store.AnswerRepo, questions store.QuestionRepo) *Service {
	return &Service{days: days, answers: answers, questions: questions, now: time.Now}
}

// RecordSession adds a finished session to today's row, creating it if
// needed. Counters only ever grow; the session count goes up by one.
func (s *Service) RecordSession(ctx context.Context, solved, correct, minutes int) (store.DailyStat, error) {
	today := DayKey(s.now())
	d, found, err := s.days.Get(ctx, today)
	if err != nil {
		return store.DailyStat{}, err
	}
	if !found {
		d = store.DailyStat{Date: today}
	}
	d.QuestionsSolved += max(solved, 0)
	d.CorrectAnswers += max(correct, 0)
	d.StudyTimeMinutes += max(minutes, 0)
	d.SessionsCount++

	if err := s.days.Put(ctx, d); err != nil {
		return store.DailyStat{}, fmt.Errorf("record session: %w", err)
	}
	return d, nil
}

// CategoryStats returns one entry per known category, in exam order.
func (s *Service) CategoryStats(ctx context.Context) ([]CategoryStat, error) {
	questions, err := s.questions.Query(ctx, store.QuestionFilter{})
	if err != nil {
		return nil, err
	}
	answers, err := s.answers.Query(ctx, store.AnswerFilter{})
	if err != nil {
		return nil, err
	}

	cats := corpus.Categories()
	out := make([]CategoryStat, len(cats))
	index := make(map[string]int, len(cats))
	for i, c := range cats {
		out[i] = CategoryStat{CategoryID: c.ID, Category: c.Name}
		index[c.ID] = i
	}

	categoryOf := make(map[string]int, len(questions))
	for _, q := range questions {
		i, ok := index[q.Category]
		if !ok {
			continue
		}
		categoryOf[q.ID] = i
		out[i].TotalQuestions++
	}

	answered := make(map[string]bool)
	for _, a := range answers {
		i, ok := categoryOf[a.QuestionID]
		if !ok {
			continue
		}
		if !answered[a.QuestionID] {
			answered[a.QuestionID] = true
			out[i].AnsweredQuestions++
		}
		if a.IsCorrect {
			out[i].CorrectAnswers++
		}
	}

	for i := range out {
		out[i].Accuracy = Accuracy(out[i].CorrectAnswers, out[i].AnsweredQuestions)
	}
	return out, nil
}

// OverallStats summarises every answer and every study day.
func (s *Service) OverallStats(ctx context.Context) (Overall, error) {
	total, err := s.answers.Count(ctx, store.AnswerFilter{})
	if err != nil {
		return Overall{}, err
	}
	right := true
	correct, err := s.answers.Count(ctx, store.AnswerFilter{Correct: &right})
	if err != nil {
		return Overall{}, err
	}
	days, err := s.days.Range(ctx, "", "")
	if err != nil {
		return Overall{}, err
	}

	o := Overall{
		TotalQuestionsSolved: total,
		OverallAccuracy:      Accuracy(correct, total),
	}
	for _, d := range days {
		o.TotalStudyTimeMinutes += d.StudyTimeMinutes
	}
	o.CurrentStreak, o.LongestStreak = Streaks(days, DayKey(s.now()))
	return o, nil
}

// Today returns today's row (zero when nothing was studied yet) measured
// against goal questions.
func (s *Service) Today(ctx context.Context, goal int) (Today, error) {
	key := DayKey(s.now())
	d, found, err := s.days.Get(ctx, key)
	if err != nil {
		return Today{}, err
	}
	if !found {
		d = store.DailyStat{Date: key}
	}

	t := Today{
		DailyStat: d,
		Accuracy:  Accuracy(d.CorrectAnswers, d.QuestionsSolved),
		DailyGoal: goal,
	}
	if goal > 0 {
		t.GoalProgress = min(Accuracy(d.QuestionsSolved, goal), 100)
		t.GoalMet = d.QuestionsSolved >= goal
	}
	return t, nil
}

// Weekly returns the rows for the seven days starting at start, ascending.
// Days without activity are absent.
func (s *Service) Weekly(ctx context.Context, start time.Time) ([]store.DailyStat, error) {
	return s.days.Range(ctx, DayKey(start), DayKey(start.AddDate(0, 0, 7)))
}
