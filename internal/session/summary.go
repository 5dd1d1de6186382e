package session

import (
	"time"

	"github.com/fpdrill/fpdrill/internal/stats"
)

// StudyMinutes rounds an elapsed duration up to whole minutes.
func StudyMinutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Minute - 1) / time.Minute)
}

// Summary returns the session totals so far.
func (s *Session) Summary() Summary {
	sum := Summary{
		ID:        s.ID,
		Mode:      string(s.Mode),
		Questions: len(s.questions),
		Answered:  len(s.results),
	}
	for _, r := range s.results {
		if r.Correct() {
			sum.Correct++
		}
		switch {
		case r.Transition.Promoted():
			sum.Promoted++
		case r.Transition.Changed():
			sum.Demoted++
		}
	}
	sum.Accuracy = stats.Accuracy(sum.Correct, sum.Answered)

	end := s.finishedAt
	if end.IsZero() {
		end = s.now()
	}
	sum.Duration = end.Sub(s.StartedAt)
	sum.Minutes = StudyMinutes(sum.Duration)
	return sum
}
