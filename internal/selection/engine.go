package selection

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/fpdrill/fpdrill/internal/mastery"
	"github.com/fpdrill/fpdrill/internal/store"
)

// Weakness thresholds.
const (
	weakLevel    = mastery.LevelUnderstood
	weakAccuracy = 0.60
)

// Engine draws question batches. Every result is de-duplicated, shuffled and
// capped at the requested count. An empty result is a normal outcome.
type Engine struct {
	questions store.QuestionRepo
	progress  store.ProgressRepo
	answers   store.AnswerRepo

	mu  sync.Mutex // guards rng
	rng *rand.Rand
	now func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the random source, e.g. a seeded one for reproducible order.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithClock sets the clock that decides what "today" is.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates a selection engine over the given repositories.
func NewEngine(questions store.QuestionRepo, progress store.ProgressRepo, answers store.AnswerRepo, opts ...Option) *Engine {
	e := &Engine{
		questions: questions,
		progress:  progress,
		answers:   answers,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Select runs the requested strategy.
func (e *Engine) Select(ctx context.Context, req Request) ([]store.Question, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var (
		pool []store.Question
		err  error
	)
	switch req.Strategy {
	case StrategyRandom:
		pool, err = e.questions.Query(ctx, store.QuestionFilter{Grade: req.Grade})
	case StrategyCategory:
		pool, err = e.questions.Query(ctx, store.QuestionFilter{Grade: req.Grade, Category: req.Category})
	case StrategyYear:
		pool, err = e.questions.Query(ctx, store.QuestionFilter{Grade: req.Grade, Year: req.Year})
	case StrategyWeakness:
		pool, err = e.weak(ctx, req)
		if err == nil && len(exclude(pool, req.Exclude)) == 0 {
			return e.Select(ctx, Request{Strategy: StrategyRandom, Count: req.Count, Grade: req.Grade, Exclude: req.Exclude})
		}
	case StrategyBookmarked:
		pool, err = e.bookmarked(ctx, req)
	case StrategyIncorrectToday:
		pool, err = e.incorrectToday(ctx, req)
	}
	if err != nil {
		return nil, err
	}

	pool = exclude(pool, req.Exclude)
	return take(e.shuffle(pool), req.Count), nil
}

// IsWeak reports whether an attempted question is below the understood level
// or under 60% accuracy. Unattempted questions are never weak.
func IsWeak(p store.Progress) bool {
	if p.TotalAttempts == 0 {
		return false
	}
	return mastery.Level(p.MasteryLevel) < weakLevel || p.Accuracy() < weakAccuracy
}

// weak returns the grade-filtered weak questions ordered weakest first.
func (e *Engine) weak(ctx context.Context, req Request) ([]store.Question, error) {
	rows, err := e.progress.Query(ctx, store.ProgressFilter{Attempted: true})
	if err != nil {
		return nil, err
	}
	byID := make(map[string]store.Progress)
	ids := []string{}
	for _, p := range rows {
		if IsWeak(p) {
			byID[p.QuestionID] = p
			ids = append(ids, p.QuestionID)
		}
	}

	qs, err := e.questions.Query(ctx, store.QuestionFilter{IDs: ids, Grade: req.Grade})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(qs, func(i, j int) bool {
		a, b := byID[qs[i].ID], byID[qs[j].ID]
		if a.MasteryLevel != b.MasteryLevel {
			return a.MasteryLevel < b.MasteryLevel
		}
		return a.Accuracy() < b.Accuracy()
	})
	return qs, nil
}

func (e *Engine) bookmarked(ctx context.Context, req Request) ([]store.Question, error) {
	marked := true
	rows, err := e.progress.Query(ctx, store.ProgressFilter{Bookmarked: &marked})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, p := range rows {
		ids = append(ids, p.QuestionID)
	}
	return e.questions.Query(ctx, store.QuestionFilter{IDs: ids, Grade: req.Grade})
}

// incorrectToday returns each question answered wrongly since local midnight
// exactly once.
func (e *Engine) incorrectToday(ctx context.Context, req Request) ([]store.Question, error) {
	now := e.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	wrong := false
	events, err := e.answers.Query(ctx, store.AnswerFilter{
		From:    midnight,
		To:      midnight.AddDate(0, 0, 1),
		Correct: &wrong,
	})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(events))
	ids := []string{}
	for _, ev := range events {
		if !seen[ev.QuestionID] {
			seen[ev.QuestionID] = true
			ids = append(ids, ev.QuestionID)
		}
	}
	return e.questions.Query(ctx, store.QuestionFilter{IDs: ids, Grade: req.Grade})
}

func (e *Engine) shuffle(qs []store.Question) []store.Question {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Shuffle(e.rng, qs)
}

// exclude drops excluded IDs and any repeated question.
func exclude(qs []store.Question, ids []string) []store.Question {
	skip := make(map[string]bool, len(ids)+len(qs))
	for _, id := range ids {
		skip[id] = true
	}
	out := make([]store.Question, 0, len(qs))
	for _, q := range qs {
		if skip[q.ID] {
			continue
		}
		skip[q.ID] = true
		out = append(out, q)
	}
	return out
}
