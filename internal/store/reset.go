package store

import (
	"context"
	"fmt"
	"time"
)

// SnapshotVersion is the schema version of SnapshotData.
const SnapshotVersion = 1

// snapshotsKept is how many snapshots survive a prune.
const snapshotsKept = 5

// ResetHistory erases answer events, progress records and daily stats, and
// the question corpus too when full is set. Settings are left untouched.
//
// A snapshot of the learner state is saved first, so the wipe can be audited.
// The deletes run in one transaction.
func (s *Store) ResetHistory(ctx context.Context, full bool) error {
	if err := s.snapshot(ctx, resetReason(full)); err != nil {
		return err
	}

	tables := []string{tableAnswerEvents, tableProgress, tableDailyStats}
	if full {
		tables = append(tables, tableQuestions)
	}

	tx, err := s.drv.Tx(ctx)
	if err != nil {
		return unavailable("begin reset", err)
	}
	for _, t := range tables {
		if err := execStmt(ctx, tx, sqlite.Delete(t)); err != nil {
			tx.Rollback()
			return unavailable("clear "+t, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return unavailable("commit reset", err)
	}
	return nil
}

// snapshot captures progress, daily stats and the answer count, then prunes
// old snapshots.
func (s *Store) snapshot(ctx context.Context, reason string) error {
	progress, err := s.Progress().Query(ctx, ProgressFilter{})
	if err != nil {
		return err
	}
	days, err := s.DailyStats().Range(ctx, "", "")
	if err != nil {
		return err
	}
	answers, err := s.Answers().Count(ctx, AnswerFilter{})
	if err != nil {
		return err
	}
	seq, err := s.seq.Current(ctx)
	if err != nil {
		return unavailable("read sequence", err)
	}

	repo := s.SnapshotRepo()
	err = repo.Save(ctx, &Snapshot{
		Sequence:  seq,
		Timestamp: time.Now(),
		Reason:    reason,
		Data: SnapshotData{
			Version:    SnapshotVersion,
			Progress:   progress,
			DailyStats: days,
			Answers:    answers,
		},
	})
	if err != nil {
		return fmt.Errorf("snapshot before reset: %w", err)
	}
	return repo.Prune(ctx, snapshotsKept)
}

func resetReason(full bool) string {
	if full {
		return "full-reset"
	}
	return "reset"
}
