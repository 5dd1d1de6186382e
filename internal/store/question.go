package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	entsql "entgo.io/ent/dialect/sql"
)

var questionColumns = []string{
	"id", "grade", "year", "session", "category", "subcategory",
	"question_type", "question_text", "options", "correct_answer",
	"explanation", "difficulty", "tags", "created_at", "updated_at",
}

// questionRepo implements QuestionRepo on the ent SQL driver.
type questionRepo struct {
	drv *entsql.Driver
}

func (r *questionRepo) Put(ctx context.Context, q Question) error {
	ins, err := questionInsert([]Question{q})
	if err != nil {
		return err
	}
	if err := execStmt(ctx, r.drv, ins); err != nil {
		return unavailable("put question", err)
	}
	return nil
}

func (r *questionRepo) BulkPut(ctx context.Context, qs []Question) error {
	if len(qs) == 0 {
		return nil
	}

	// Encode every batch up front so a marshal failure never leaves a
	// transaction half applied.
	var stmts []*entsql.InsertBuilder
	for start := 0; start < len(qs); start += maxBatch {
		end := min(start+maxBatch, len(qs))
		ins, err := questionInsert(qs[start:end])
		if err != nil {
			return err
		}
		stmts = append(stmts, ins)
	}

	tx, err := r.drv.Tx(ctx)
	if err != nil {
		return unavailable("begin bulk put", err)
	}
	for _, ins := range stmts {
		if err := execStmt(ctx, tx, ins); err != nil {
			tx.Rollback()
			return unavailable("bulk put questions", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return unavailable("commit bulk put", err)
	}
	return nil
}

func (r *questionRepo) Get(ctx context.Context, id string) (Question, bool, error) {
	qs, err := r.Query(ctx, QuestionFilter{IDs: []string{id}})
	if err != nil {
		return Question{}, false, err
	}
	if len(qs) == 0 {
		return Question{}, false, nil
	}
	return qs[0], true, nil
}

func (r *questionRepo) Query(ctx context.Context, f QuestionFilter) ([]Question, error) {
	if f.IDs != nil && len(f.IDs) == 0 {
		return nil, nil
	}

	var out []Question
	for _, ps := range f.predicateSets() {
		sel := where(sqlite.Select(questionColumns...).From(entsql.Table(tableQuestions)), ps).
			OrderBy("id")
		err := queryRows(ctx, r.drv, sel, func(rows *entsql.Rows) error {
			q, err := scanQuestion(rows)
			if err != nil {
				return err
			}
			out = append(out, q)
			return nil
		})
		if err != nil {
			return nil, unavailable("query questions", err)
		}
	}

	// Multiple ID batches each come back sorted; merge to one order.
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *questionRepo) Count(ctx context.Context, f QuestionFilter) (int, error) {
	if f.IDs != nil && len(f.IDs) == 0 {
		return 0, nil
	}

	total := 0
	for _, ps := range f.predicateSets() {
		sel := where(sqlite.Select(entsql.Count("*")).From(entsql.Table(tableQuestions)), ps)
		n, err := countRows(ctx, r.drv, sel)
		if err != nil {
			return 0, unavailable("count questions", err)
		}
		total += n
	}
	return total, nil
}

func (r *questionRepo) Clear(ctx context.Context) error {
	if err := execStmt(ctx, r.drv, sqlite.Delete(tableQuestions)); err != nil {
		return unavailable("clear questions", err)
	}
	return nil
}

// predicateSets returns one predicate list per ID batch (or a single list
// when no IDs are given).
func (f QuestionFilter) predicateSets() [][]*entsql.Predicate {
	var base []*entsql.Predicate
	if f.Grade != "" {
		base = append(base, entsql.EQ("grade", f.Grade))
	}
	if f.Category != "" {
		base = append(base, entsql.EQ("category", f.Category))
	}
	if f.Year != 0 {
		base = append(base, entsql.EQ("year", f.Year))
	}
	if len(f.IDs) == 0 {
		return [][]*entsql.Predicate{base}
	}

	var sets [][]*entsql.Predicate
	for _, batch := range inBatches(f.IDs) {
		ps := append([]*entsql.Predicate{entsql.In("id", anySlice(batch)...)}, base...)
		sets = append(sets, ps)
	}
	return sets
}

func questionInsert(qs []Question) (*entsql.InsertBuilder, error) {
	ins := sqlite.Insert(tableQuestions).Columns(questionColumns...)
	for _, q := range qs {
		options, err := json.Marshal(nonNil(q.Options))
		if err != nil {
			return nil, fmt.Errorf("marshal options for %s: %w", q.ID, err)
		}
		tags, err := json.Marshal(nonNil(q.Tags))
		if err != nil {
			return nil, fmt.Errorf("marshal tags for %s: %w", q.ID, err)
		}
		ins.Values(
			q.ID, q.Grade, q.Year, q.Session, q.Category, q.Subcategory,
			q.QuestionType, q.QuestionText, string(options), q.CorrectAnswer,
			q.Explanation, q.Difficulty, string(tags),
			q.CreatedAt.UTC(), q.UpdatedAt.UTC(),
		)
	}
	ins.OnConflict(
		entsql.ConflictColumns("id"),
		entsql.ResolveWithNewValues(),
	)
	return ins, nil
}

func scanQuestion(rows *entsql.Rows) (Question, error) {
	var (
		q       Question
		options []byte
		tags    []byte
	)
	err := rows.Scan(
		&q.ID, &q.Grade, &q.Year, &q.Session, &q.Category, &q.Subcategory,
		&q.QuestionType, &q.QuestionText, &options, &q.CorrectAnswer,
		&q.Explanation, &q.Difficulty, &tags, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		return Question{}, err
	}
	if err := json.Unmarshal(options, &q.Options); err != nil {
		return Question{}, fmt.Errorf("decode options for %s: %w", q.ID, err)
	}
	if err := json.Unmarshal(tags, &q.Tags); err != nil {
		return Question{}, fmt.Errorf("decode tags for %s: %w", q.ID, err)
	}
	return q, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
