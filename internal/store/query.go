package store

import (
	"context"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// sqlite builds dialect-aware statements for every repository.
var sqlite = entsql.Dialect(dialect.SQLite)

// maxBatch bounds rows per INSERT and IDs per IN clause, keeping statements
// well under SQLite's bound-variable limit.
const maxBatch = 500

// queryRows runs a SELECT and calls scan once per row. The rows are fully
// drained and closed before returning.
func queryRows(ctx context.Context, eq dialect.ExecQuerier, q entsql.Querier, scan func(*entsql.Rows) error) error {
	query, args := q.Query()
	rows := &entsql.Rows{}
	if err := eq.Query(ctx, query, args, rows); err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// execStmt runs a statement that returns no rows.
func execStmt(ctx context.Context, eq dialect.ExecQuerier, q entsql.Querier) error {
	query, args := q.Query()
	return eq.Exec(ctx, query, args, nil)
}

// countRows runs a COUNT(*) selector and returns the single value.
func countRows(ctx context.Context, eq dialect.ExecQuerier, sel *entsql.Selector) (int, error) {
	var n int
	err := queryRows(ctx, eq, sel, func(rows *entsql.Rows) error {
		return rows.Scan(&n)
	})
	return n, err
}

// inBatches splits ids into chunks of at most maxBatch.
func inBatches(ids []string) [][]string {
	var out [][]string
	for len(ids) > maxBatch {
		out = append(out, ids[:maxBatch])
		ids = ids[maxBatch:]
	}
	if len(ids) > 0 {
		out = append(out, ids)
	}
	return out
}

func anySlice(ids []string) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}

// where applies the predicates joined by AND; no predicates means no filter.
func where(sel *entsql.Selector, ps []*entsql.Predicate) *entsql.Selector {
	switch len(ps) {
	case 0:
		return sel
	case 1:
		return sel.Where(ps[0])
	default:
		return sel.Where(entsql.And(ps...))
	}
}
