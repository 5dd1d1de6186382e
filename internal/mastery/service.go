package mastery

import (
	"context"
	"fmt"
	"time"

	"github.com/fpdrill/fpdrill/internal/store"
)

// Service owns progress records. It holds no state between calls; every
// operation reads and writes through the store.
type Service struct {
	progress  store.ProgressRepo
	questions store.QuestionRepo
	now       func() time.Time
}

// NewService creates a mastery service over the given repositories.
func NewService(progress store.ProgressRepo, questions store.QuestionRepo) *Service {
	return &Service{progress: progress, questions: questions, now: time.Now}
}

// With returns a copy of the service that reads and writes progress through
// repo, typically one bound to a transaction.
func (s *Service) With(repo store.ProgressRepo) *Service {
	c := *s
	c.progress = repo
	return &c
}

// Get returns the progress record for a question, or a zero-stat record if
// the question has never been touched.
func (s *Service) Get(ctx context.Context, questionID string) (store.Progress, error) {
	p, found, err := s.progress.Get(ctx, questionID)
	if err != nil {
		return store.Progress{}, err
	}
	if !found {
		return store.Progress{QuestionID: questionID}, nil
	}
	return p, nil
}

// RecordAnswer applies one answer to the question's progress and recomputes
// its level from the new totals. The record is created on first answer and
// written back exactly once.
func (s *Service) RecordAnswer(ctx context.Context, questionID string, correct bool) (store.Progress, Transition, error) {
	p, err := s.Get(ctx, questionID)
	if err != nil {
		return store.Progress{}, Transition{}, err
	}

	from := Level(p.MasteryLevel)
	p.TotalAttempts++
	if correct {
		p.CorrectCount++
	}
	to := LevelFor(p.CorrectCount, p.TotalAttempts)
	p.MasteryLevel = int(to)
	now := s.now()
	p.LastAnsweredAt = &now

	if err := s.progress.Put(ctx, p); err != nil {
		return store.Progress{}, Transition{}, fmt.Errorf("record answer for %s: %w", questionID, err)
	}
	return p, Transition{QuestionID: questionID, From: from, To: to}, nil
}

// ToggleBookmark flips the bookmark flag and returns its new value. Mastery
// is not affected.
func (s *Service) ToggleBookmark(ctx context.Context, questionID string) (bool, error) {
	p, err := s.Get(ctx, questionID)
	if err != nil {
		return false, err
	}
	p.IsBookmarked = !p.IsBookmarked
	if err := s.progress.Put(ctx, p); err != nil {
		return false, fmt.Errorf("toggle bookmark for %s: %w", questionID, err)
	}
	return p.IsBookmarked, nil
}

// SetNotes replaces the note on a question. An empty text clears it.
func (s *Service) SetNotes(ctx context.Context, questionID, text string) error {
	p, err := s.Get(ctx, questionID)
	if err != nil {
		return err
	}
	p.Notes = text
	if err := s.progress.Put(ctx, p); err != nil {
		return fmt.Errorf("set notes for %s: %w", questionID, err)
	}
	return nil
}

// MasteryDistribution buckets the corpus by level. Only progress rows whose
// question is still in the corpus are counted.
func (s *Service) MasteryDistribution(ctx context.Context) (Distribution, error) {
	counts, total, err := s.levelCounts(ctx)
	if err != nil {
		return Distribution{}, err
	}

	var d Distribution
	for l := LevelAttempted; l <= MaxLevel; l++ {
		switch BucketFor(l) {
		case BucketMastered:
			d.Mastered += counts[l]
		case BucketFamiliar:
			d.Familiar += counts[l]
		case BucketLearning:
			d.Learning += counts[l]
		}
	}
	d.Total = total
	d.New = max(total-(d.Mastered+d.Familiar+d.Learning), 0)
	return d, nil
}

// LevelCounts returns the number of corpus questions at each level. Level 0
// holds every question without a higher level, touched or not.
func (s *Service) LevelCounts(ctx context.Context) ([MaxLevel + 1]int, error) {
	counts, total, err := s.levelCounts(ctx)
	if err != nil {
		return counts, err
	}
	studied := 0
	for l := LevelAttempted; l <= MaxLevel; l++ {
		studied += counts[l]
	}
	counts[LevelUnseen] = max(total-studied, 0)
	return counts, nil
}

// levelCounts counts corpus questions at levels 1..5 and returns the corpus
// size. Index 0 is left empty.
func (s *Service) levelCounts(ctx context.Context) ([MaxLevel + 1]int, int, error) {
	var counts [MaxLevel + 1]int

	total, err := s.questions.Count(ctx, store.QuestionFilter{})
	if err != nil {
		return counts, 0, err
	}

	rows, err := s.progress.Query(ctx, store.ProgressFilter{Attempted: true})
	if err != nil {
		return counts, 0, err
	}
	byLevel := make(map[Level][]string)
	for _, p := range rows {
		l := Level(p.MasteryLevel)
		if l < LevelAttempted || l > MaxLevel {
			continue
		}
		byLevel[l] = append(byLevel[l], p.QuestionID)
	}

	for l, ids := range byLevel {
		n, err := s.questions.Count(ctx, store.QuestionFilter{IDs: ids})
		if err != nil {
			return counts, 0, err
		}
		counts[l] = n
	}
	return counts, total, nil
}
