// Package mastery tracks per-question learning state: the six-step mastery
// ladder, bookmarks and notes.
package mastery

import "fmt"

// Level is a question's position on the mastery ladder, 0 through 5.
type Level int

const (
	LevelUnseen     Level = iota // never answered
	LevelAttempted               // answered at least once
	LevelLearning                // 2+ attempts, accuracy >= 40%
	LevelUnderstood              // 2+ correct, accuracy >= 60%
	LevelAcquired                // 3+ correct, accuracy >= 80%
	LevelComplete                // 5+ correct, accuracy >= 90%
)

// MaxLevel is the top of the ladder.
const MaxLevel = LevelComplete

func (l Level) String() string {
	switch l {
	case LevelUnseen:
		return "unseen"
	case LevelAttempted:
		return "attempted"
	case LevelLearning:
		return "learning"
	case LevelUnderstood:
		return "understood"
	case LevelAcquired:
		return "acquired"
	case LevelComplete:
		return "complete"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// LevelFor computes the level from cumulative counts. Rungs are checked from
// the top down and the first match wins.
func LevelFor(correct, attempts int) Level {
	if attempts <= 0 {
		return LevelUnseen
	}
	accuracy := float64(correct) / float64(attempts)
	switch {
	case correct >= 5 && accuracy >= 0.90:
		return LevelComplete
	case correct >= 3 && accuracy >= 0.80:
		return LevelAcquired
	case correct >= 2 && accuracy >= 0.60:
		return LevelUnderstood
	case attempts >= 2 && accuracy >= 0.40:
		return LevelLearning
	default:
		return LevelAttempted
	}
}

// Transition records the level change caused by one answer.
type Transition struct {
	QuestionID string
	From       Level
	To         Level
}

// Changed reports whether the answer moved the question on the ladder.
func (t Transition) Changed() bool { return t.From != t.To }

// Promoted reports whether the question moved up.
func (t Transition) Promoted() bool { return t.To > t.From }
