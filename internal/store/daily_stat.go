package store

import (
	"context"

	entsql "entgo.io/ent/dialect/sql"
)

var dailyStatColumns = []string{
	"date", "questions_solved", "correct_answers", "study_time_minutes", "sessions_count",
}

// dailyStatRepo implements DailyStatRepo on the ent SQL driver.
type dailyStatRepo struct {
	drv *entsql.Driver
}

func (r *dailyStatRepo) Put(ctx context.Context, d DailyStat) error {
	ins := sqlite.Insert(tableDailyStats).
		Columns(dailyStatColumns...).
		Values(d.Date, d.QuestionsSolved, d.CorrectAnswers, d.StudyTimeMinutes, d.SessionsCount).
		OnConflict(
			entsql.ConflictColumns("date"),
			entsql.ResolveWithNewValues(),
		)
	if err := execStmt(ctx, r.drv, ins); err != nil {
		return unavailable("put daily stat", err)
	}
	return nil
}

func (r *dailyStatRepo) Get(ctx context.Context, date string) (DailyStat, bool, error) {
	sel := sqlite.Select(dailyStatColumns...).
		From(entsql.Table(tableDailyStats)).
		Where(entsql.EQ("date", date))
	rows, err := r.scan(ctx, sel)
	if err != nil {
		return DailyStat{}, false, unavailable("get daily stat", err)
	}
	if len(rows) == 0 {
		return DailyStat{}, false, nil
	}
	return rows[0], true, nil
}

func (r *dailyStatRepo) Range(ctx context.Context, from, to string) ([]DailyStat, error) {
	var ps []*entsql.Predicate
	if from != "" {
		ps = append(ps, entsql.GTE("date", from))
	}
	if to != "" {
		ps = append(ps, entsql.LT("date", to))
	}
	sel := where(sqlite.Select(dailyStatColumns...).From(entsql.Table(tableDailyStats)), ps).
		OrderBy("date")
	rows, err := r.scan(ctx, sel)
	if err != nil {
		return nil, unavailable("range daily stats", err)
	}
	return rows, nil
}

func (r *dailyStatRepo) Clear(ctx context.Context) error {
	if err := execStmt(ctx, r.drv, sqlite.Delete(tableDailyStats)); err != nil {
		return unavailable("clear daily stats", err)
	}
	return nil
}

func (r *dailyStatRepo) scan(ctx context.Context, sel *entsql.Selector) ([]DailyStat, error) {
	var out []DailyStat
	err := queryRows(ctx, r.drv, sel, func(rows *entsql.Rows) error {
		var d DailyStat
		if err := rows.Scan(&d.Date, &d.QuestionsSolved, &d.CorrectAnswers,
			&d.StudyTimeMinutes, &d.SessionsCount); err != nil {
			return err
		}
		out = append(out, d)
		return nil
	})
	return out, err
}
