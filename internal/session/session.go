package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fpdrill/fpdrill/internal/mastery"
	"github.com/fpdrill/fpdrill/internal/stats"
	"github.com/fpdrill/fpdrill/internal/store"
)

// Transactor runs fn with answer and progress repositories bound to one
// transaction. *store.Store implements it.
type Transactor interface {
	InTx(ctx context.Context, fn func(store.TxRepos) error) error
}

// Services are the engine pieces a session writes through.
type Services struct {
	Tx      Transactor
	Mastery *mastery.Service
	Stats   *stats.Service
}

// Session is one pass over a batch of questions.
type Session struct {
	ID        string
	Mode      store.StudyMode
	StartedAt time.Time

	svc       Services
	questions []store.Question
	index     int
	shownAt   time.Time
	results   []Result
	answered  map[int]bool
	phase     Phase

	finishedAt time.Time
	now        func() time.Time
}

// New starts a session over questions. The questions are served in the
// given order.
func New(svc Services, mode store.StudyMode, questions []store.Question) *Session {
	return newAt(svc, mode, questions, time.Now)
}

func newAt(svc Services, mode store.StudyMode, questions []store.Question, now func() time.Time) *Session {
	start := now()
	return &Session{
		ID:        uuid.New().String(),
		Mode:      mode,
		StartedAt: start,
		svc:       svc,
		questions: questions,
		shownAt:   start,
		answered:  make(map[int]bool),
		now:       now,
	}
}

// Phase returns the lifecycle phase.
func (s *Session) Phase() Phase { return s.phase }

// Len returns the number of questions in the session.
func (s *Session) Len() int { return len(s.questions) }

// Index returns the zero-based position of the current question.
func (s *Session) Index() int { return s.index }

// Questions returns the batch in serving order.
func (s *Session) Questions() []store.Question { return s.questions }

// Results returns the answers recorded so far.
func (s *Session) Results() []Result { return s.results }

// Current returns the question being served, or false for an empty session.
func (s *Session) Current() (store.Question, bool) {
	if s.index < 0 || s.index >= len(s.questions) {
		return store.Question{}, false
	}
	return s.questions[s.index], true
}

// Answered reports whether the current question has an answer.
func (s *Session) Answered() bool { return s.answered[s.index] }

// IsLast reports whether the current question is the final one.
func (s *Session) IsLast() bool {
	return len(s.questions) > 0 && s.index == len(s.questions)-1
}

// Answer submits choice for the current question. The answer event and the
// question's mastery update commit together; on error neither is kept and the
// question can be answered again.
func (s *Session) Answer(ctx context.Context, choice int) (Result, error) {
	if s.phase == PhaseFinished {
		return Result{}, ErrFinished
	}
	q, ok := s.Current()
	if !ok {
		return Result{}, fmt.Errorf("%w: no current question", ErrOutOfRange)
	}
	if choice < 0 || choice >= len(q.Options) {
		return Result{}, fmt.Errorf("%w: option %d of %d", ErrOutOfRange, choice, len(q.Options))
	}
	if s.answered[s.index] {
		return Result{}, ErrAlreadyAnswered
	}

	now := s.now()
	ev := store.AnswerEvent{
		QuestionID:    q.ID,
		UserAnswer:    choice,
		IsCorrect:     choice == q.CorrectAnswer,
		TimeSpentSecs: int(now.Sub(s.shownAt) / time.Second),
		AnsweredAt:    now,
		Mode:          s.Mode,
	}
	var (
		p  store.Progress
		tr mastery.Transition
	)
	err := s.svc.Tx.InTx(ctx, func(tx store.TxRepos) error {
		var err error
		if ev, err = tx.Answers.Append(ctx, ev); err != nil {
			return fmt.Errorf("save answer: %w", err)
		}
		p, tr, err = s.svc.Mastery.With(tx.Progress).RecordAnswer(ctx, q.ID, ev.IsCorrect)
		return err
	})
	if err != nil {
		return Result{}, err
	}

	r := Result{
		Event:         ev,
		Progress:      p,
		Transition:    tr,
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
	}
	s.answered[s.index] = true
	s.results = append(s.results, r)
	return r, nil
}

// Next moves to the following question. It returns false on the last one.
func (s *Session) Next() bool {
	if s.phase == PhaseFinished || s.index >= len(s.questions)-1 {
		return false
	}
	s.index++
	s.shownAt = s.now()
	return true
}

// Skip leaves the current question unanswered and moves on.
func (s *Session) Skip() bool { return s.Next() }

// Finish rolls the session into today's statistics and closes it. Study
// time is the elapsed wall time rounded up to whole minutes. A session with
// no answers still counts as a session.
func (s *Session) Finish(ctx context.Context) (Summary, store.DailyStat, error) {
	if s.phase == PhaseFinished {
		return Summary{}, store.DailyStat{}, ErrFinished
	}

	s.finishedAt = s.now()
	sum := s.Summary()
	day, err := s.svc.Stats.RecordSession(ctx, sum.Answered, sum.Correct, sum.Minutes)
	if err != nil {
		s.finishedAt = time.Time{}
		return Summary{}, store.DailyStat{}, err
	}
	s.phase = PhaseFinished
	return sum, day, nil
}
