package store

import (
	"context"
	"database/sql"

	entsql "entgo.io/ent/dialect/sql"
)

// settingsRowID is the primary key of the only settings row.
const settingsRowID = 1

var settingsColumns = []string{
	"id", "target_grade", "exam_date", "daily_goal", "reminder_enabled",
	"reminder_time", "theme", "created_at", "updated_at",
}

// settingsRepo implements SettingsRepo on the ent SQL driver.
type settingsRepo struct {
	drv *entsql.Driver
}

func (r *settingsRepo) Get(ctx context.Context) (Settings, bool, error) {
	sel := sqlite.Select(settingsColumns...).
		From(entsql.Table(tableSettings)).
		Where(entsql.EQ("id", settingsRowID))

	var (
		s     Settings
		found bool
	)
	err := queryRows(ctx, r.drv, sel, func(rows *entsql.Rows) error {
		var (
			id           int
			examDate     sql.NullString
			reminderTime sql.NullString
		)
		if err := rows.Scan(&id, &s.TargetGrade, &examDate, &s.DailyGoal, &s.ReminderEnabled,
			&reminderTime, &s.Theme, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return err
		}
		s.ExamDate = examDate.String
		s.ReminderTime = reminderTime.String
		found = true
		return nil
	})
	if err != nil {
		return Settings{}, false, unavailable("get settings", err)
	}
	return s, found, nil
}

func (r *settingsRepo) Put(ctx context.Context, s Settings) error {
	var examDate any
	if s.ExamDate != "" {
		examDate = s.ExamDate
	}
	var reminderTime any
	if s.ReminderTime != "" {
		reminderTime = s.ReminderTime
	}

	ins := sqlite.Insert(tableSettings).
		Columns(settingsColumns...).
		Values(settingsRowID, s.TargetGrade, examDate, s.DailyGoal, s.ReminderEnabled,
			reminderTime, s.Theme, s.CreatedAt.UTC(), s.UpdatedAt.UTC()).
		OnConflict(
			entsql.ConflictColumns("id"),
			entsql.ResolveWithNewValues(),
		)
	if err := execStmt(ctx, r.drv, ins); err != nil {
		return unavailable("put settings", err)
	}
	return nil
}
