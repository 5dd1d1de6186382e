package store

import (
	"context"
	"encoding/json"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

var snapshotColumns = []string{"id", "sequence", "timestamp", "reason", "data"}

// snapshotRepo implements SnapshotRepo on the ent SQL driver.
type snapshotRepo struct {
	drv *entsql.Driver
}

func (r *snapshotRepo) Save(ctx context.Context, snap *Snapshot) error {
	data, err := json.Marshal(snap.Data)
	if err != nil {
		return fmt.Errorf("marshal snapshot data: %w", err)
	}

	ins := sqlite.Insert(tableSnapshots).
		Columns("sequence", "timestamp", "reason", "data").
		Values(snap.Sequence, snap.Timestamp.UTC(), snap.Reason, string(data))
	if err := execStmt(ctx, r.drv, ins); err != nil {
		return unavailable("save snapshot", err)
	}
	return nil
}

func (r *snapshotRepo) Latest(ctx context.Context) (*Snapshot, error) {
	sel := sqlite.Select(snapshotColumns...).
		From(entsql.Table(tableSnapshots)).
		OrderBy(entsql.Desc("id")).
		Limit(1)

	var (
		snap *Snapshot
		raw  []byte
	)
	err := queryRows(ctx, r.drv, sel, func(rows *entsql.Rows) error {
		s := &Snapshot{}
		if err := rows.Scan(&s.ID, &s.Sequence, &s.Timestamp, &s.Reason, &raw); err != nil {
			return err
		}
		snap = s
		return nil
	})
	if err != nil {
		return nil, unavailable("query latest snapshot", err)
	}
	if snap == nil {
		return nil, nil
	}
	if err := json.Unmarshal(raw, &snap.Data); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot data: %w", err)
	}
	return snap, nil
}

func (r *snapshotRepo) Prune(ctx context.Context, keep int) error {
	// Find the newest snapshot that falls outside the retention window.
	sel := sqlite.Select("id").
		From(entsql.Table(tableSnapshots)).
		OrderBy(entsql.Desc("id")).
		Limit(1).
		Offset(keep)

	threshold := 0
	err := queryRows(ctx, r.drv, sel, func(rows *entsql.Rows) error {
		return rows.Scan(&threshold)
	})
	if err != nil {
		return unavailable("query snapshots for prune", err)
	}
	if threshold == 0 {
		return nil // fewer than keep snapshots exist
	}

	del := sqlite.Delete(tableSnapshots).Where(entsql.LTE("id", threshold))
	if err := execStmt(ctx, r.drv, del); err != nil {
		return unavailable("prune snapshots", err)
	}
	return nil
}
