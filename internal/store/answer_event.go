package store

import (
	"context"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

var answerColumns = []string{
	"id", "sequence", "question_id", "user_answer", "is_correct",
	"time_spent_secs", "answered_at", "mode",
}

// answerRepo implements AnswerRepo backed by the ent SQL driver and the
// global sequence counter. eq is the driver or an open transaction.
type answerRepo struct {
	eq  dialect.ExecQuerier
	seq *sequenceCounter
}

func (r *answerRepo) Append(ctx context.Context, a AnswerEvent) (AnswerEvent, error) {
	seqNum, err := r.seq.Next(ctx, r.eq)
	if err != nil {
		return AnswerEvent{}, unavailable("append answer", err)
	}

	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.AnsweredAt.IsZero() {
		a.AnsweredAt = time.Now()
	}
	a.Sequence = seqNum

	ins := sqlite.Insert(tableAnswerEvents).
		Columns(answerColumns...).
		Values(a.ID, a.Sequence, a.QuestionID, a.UserAnswer, a.IsCorrect,
			a.TimeSpentSecs, a.AnsweredAt.UTC(), string(a.Mode))
	if err := execStmt(ctx, r.eq, ins); err != nil {
		return AnswerEvent{}, unavailable("save answer event", err)
	}
	return a, nil
}

func (r *answerRepo) Query(ctx context.Context, f AnswerFilter) ([]AnswerEvent, error) {
	sel := where(sqlite.Select(answerColumns...).From(entsql.Table(tableAnswerEvents)), f.predicates()).
		OrderBy("answered_at", "sequence")

	var out []AnswerEvent
	err := queryRows(ctx, r.eq, sel, func(rows *entsql.Rows) error {
		var (
			a    AnswerEvent
			mode string
		)
		if err := rows.Scan(&a.ID, &a.Sequence, &a.QuestionID, &a.UserAnswer, &a.IsCorrect,
			&a.TimeSpentSecs, &a.AnsweredAt, &mode); err != nil {
			return err
		}
		a.Mode = StudyMode(mode)
		out = append(out, a)
		return nil
	})
	if err != nil {
		return nil, unavailable("query answer events", err)
	}
	return out, nil
}

func (r *answerRepo) Count(ctx context.Context, f AnswerFilter) (int, error) {
	sel := where(sqlite.Select(entsql.Count("*")).From(entsql.Table(tableAnswerEvents)), f.predicates())
	n, err := countRows(ctx, r.eq, sel)
	if err != nil {
		return 0, unavailable("count answer events", err)
	}
	return n, nil
}

func (r *answerRepo) Clear(ctx context.Context) error {
	if err := execStmt(ctx, r.eq, sqlite.Delete(tableAnswerEvents)); err != nil {
		return unavailable("clear answer events", err)
	}
	return nil
}

// predicates translates the filter. Times are stored in UTC, so bounds are
// converted before comparison.
func (f AnswerFilter) predicates() []*entsql.Predicate {
	var ps []*entsql.Predicate
	if f.QuestionID != "" {
		ps = append(ps, entsql.EQ("question_id", f.QuestionID))
	}
	if !f.From.IsZero() {
		ps = append(ps, entsql.GTE("answered_at", f.From.UTC()))
	}
	if !f.To.IsZero() {
		ps = append(ps, entsql.LT("answered_at", f.To.UTC()))
	}
	if f.Correct != nil {
		ps = append(ps, entsql.EQ("is_correct", *f.Correct))
	}
	return ps
}
