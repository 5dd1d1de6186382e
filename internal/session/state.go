// Package session runs one study session: a fixed batch of questions
// answered in order, finalized into the daily statistics.
//
// A Session is owned by its caller and is not safe for concurrent use.
package session

import (
	"errors"
	"time"

	"github.com/fpdrill/fpdrill/internal/mastery"
	"github.com/fpdrill/fpdrill/internal/store"
)

var (
	// ErrFinished is returned by any mutating call after Finish.
	ErrFinished = errors.New("session already finished")

	// ErrOutOfRange is returned when there is no current question or the
	// chosen option does not exist.
	ErrOutOfRange = errors.New("answer out of range")

	// ErrAlreadyAnswered is returned when the current question was already
	// answered in this session.
	ErrAlreadyAnswered = errors.New("question already answered")
)

// Phase is the session lifecycle position.
type Phase int

const (
	PhaseActive   Phase = iota // serving questions
	PhaseFinished              // rolled into statistics; discard
)

func (p Phase) String() string {
	if p == PhaseFinished {
		return "finished"
	}
	return "active"
}

// Result is the outcome of one answer, kept for feedback and the summary.
type Result struct {
	Event         store.AnswerEvent  `json:"answer"`
	Progress      store.Progress     `json:"progress"`
	Transition    mastery.Transition `json:"-"`
	CorrectAnswer int                `json:"correctAnswer"`
	Explanation   string             `json:"explanation"`
}

// Correct reports whether the answer was right.
func (r Result) Correct() bool { return r.Event.IsCorrect }

// Summary describes a session for the end screen.
type Summary struct {
	ID        string        `json:"id"`
	Mode      string        `json:"mode"`
	Questions int           `json:"questions"`
	Answered  int           `json:"answered"`
	Correct   int           `json:"correct"`
	Accuracy  int           `json:"accuracy"`
	Duration  time.Duration `json:"duration"`
	Minutes   int           `json:"minutes"`
	Promoted  int           `json:"promoted"`
	Demoted   int           `json:"demoted"`
}
