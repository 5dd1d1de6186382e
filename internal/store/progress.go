package store

import (
	"context"
	"database/sql"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

var progressColumns = []string{
	"question_id", "mastery_level", "correct_count", "total_attempts",
	"last_answered_at", "is_bookmarked", "notes",
}

// progressRepo implements ProgressRepo on the ent SQL driver or an open
// transaction.
type progressRepo struct {
	eq dialect.ExecQuerier
}

func (r *progressRepo) Put(ctx context.Context, p Progress) error {
	var lastAnswered any
	if p.LastAnsweredAt != nil {
		lastAnswered = p.LastAnsweredAt.UTC()
	}
	var notes any
	if p.Notes != "" {
		notes = p.Notes
	}

	ins := sqlite.Insert(tableProgress).
		Columns(progressColumns...).
		Values(p.QuestionID, p.MasteryLevel, p.CorrectCount, p.TotalAttempts,
			lastAnswered, p.IsBookmarked, notes).
		OnConflict(
			entsql.ConflictColumns("question_id"),
			entsql.ResolveWithNewValues(),
		)
	if err := execStmt(ctx, r.eq, ins); err != nil {
		return unavailable("put progress", err)
	}
	return nil
}

func (r *progressRepo) Get(ctx context.Context, questionID string) (Progress, bool, error) {
	ps, err := r.Query(ctx, ProgressFilter{QuestionIDs: []string{questionID}})
	if err != nil {
		return Progress{}, false, err
	}
	if len(ps) == 0 {
		return Progress{}, false, nil
	}
	return ps[0], true, nil
}

func (r *progressRepo) Query(ctx context.Context, f ProgressFilter) ([]Progress, error) {
	if f.QuestionIDs != nil && len(f.QuestionIDs) == 0 {
		return nil, nil
	}

	var base []*entsql.Predicate
	if f.Bookmarked != nil {
		base = append(base, entsql.EQ("is_bookmarked", *f.Bookmarked))
	}
	if f.Attempted {
		base = append(base, entsql.GT("total_attempts", 0))
	}

	sets := [][]*entsql.Predicate{base}
	if len(f.QuestionIDs) > 0 {
		sets = nil
		for _, batch := range inBatches(f.QuestionIDs) {
			sets = append(sets, append([]*entsql.Predicate{entsql.In("question_id", anySlice(batch)...)}, base...))
		}
	}

	var out []Progress
	for _, ps := range sets {
		sel := where(sqlite.Select(progressColumns...).From(entsql.Table(tableProgress)), ps).
			OrderBy("question_id")
		err := queryRows(ctx, r.eq, sel, func(rows *entsql.Rows) error {
			p, err := scanProgress(rows)
			if err != nil {
				return err
			}
			out = append(out, p)
			return nil
		})
		if err != nil {
			return nil, unavailable("query progress", err)
		}
	}
	return out, nil
}

func (r *progressRepo) Clear(ctx context.Context) error {
	if err := execStmt(ctx, r.eq, sqlite.Delete(tableProgress)); err != nil {
		return unavailable("clear progress", err)
	}
	return nil
}

func scanProgress(rows *entsql.Rows) (Progress, error) {
	var (
		p            Progress
		lastAnswered sql.NullTime
		notes        sql.NullString
	)
	err := rows.Scan(&p.QuestionID, &p.MasteryLevel, &p.CorrectCount, &p.TotalAttempts,
		&lastAnswered, &p.IsBookmarked, &notes)
	if err != nil {
		return Progress{}, err
	}
	if lastAnswered.Valid {
		t := lastAnswered.Time.In(time.Local)
		p.LastAnsweredAt = &t
	}
	p.Notes = notes.String
	return p, nil
}
