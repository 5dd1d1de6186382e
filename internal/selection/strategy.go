// Package selection picks batches of questions for a study session.
package selection

import (
	"errors"
	"fmt"

	"github.com/fpdrill/fpdrill/internal/store"
)

// Strategy names a way of drawing questions from the corpus.
type Strategy string

const (
	StrategyRandom         Strategy = "random"
	StrategyCategory       Strategy = "category"
	StrategyYear           Strategy = "year"
	StrategyWeakness       Strategy = "weakness"
	StrategyBookmarked     Strategy = "bookmarked"
	StrategyIncorrectToday Strategy = "incorrect-today"
)

// Strategies lists every supported strategy.
var Strategies = []Strategy{
	StrategyRandom, StrategyCategory, StrategyYear,
	StrategyWeakness, StrategyBookmarked, StrategyIncorrectToday,
}

var (
	ErrUnknownStrategy = errors.New("unknown selection strategy")
	ErrMissingCategory = errors.New("category strategy requires a category")
	ErrMissingYear     = errors.New("year strategy requires a year")
)

// ParseStrategy converts a name into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	for _, st := range Strategies {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// Mode is the study mode recorded on answers to questions drawn by s.
func (s Strategy) Mode() store.StudyMode {
	switch s {
	case StrategyCategory:
		return store.ModeCategory
	case StrategyYear:
		return store.ModeYear
	case StrategyWeakness:
		return store.ModeWeakness
	case StrategyBookmarked, StrategyIncorrectToday:
		return store.ModeReview
	default:
		return store.ModeRandom
	}
}

// WholeSet reports whether s serves every matching question when the caller
// gives no count, rather than the default batch size.
func (s Strategy) WholeSet() bool {
	return s == StrategyBookmarked
}

// Request describes one selection. Count <= 0 means no cap. Grade, when set,
// restricts every strategy to that exam grade. Exclude drops questions by ID.
type Request struct {
	Strategy Strategy `json:"strategy"`
	Count    int      `json:"count"`
	Grade    string   `json:"grade,omitempty"`
	Category string   `json:"category,omitempty"`
	Year     int      `json:"year,omitempty"`
	Exclude  []string `json:"exclude,omitempty"`
}

// Validate checks the parameters the strategy needs.
func (r Request) Validate() error {
	switch r.Strategy {
	case StrategyCategory:
		if r.Category == "" {
			return ErrMissingCategory
		}
	case StrategyYear:
		if r.Year == 0 {
			return ErrMissingYear
		}
	case StrategyRandom, StrategyWeakness, StrategyBookmarked, StrategyIncorrectToday:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStrategy, r.Strategy)
	}
	return nil
}
