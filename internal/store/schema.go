package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table names.
const (
	tableQuestions    = "questions"
	tableAnswerEvents = "answer_events"
	tableProgress     = "progress"
	tableDailyStats   = "daily_stats"
	tableSettings     = "settings"
	tableSnapshots    = "snapshots"
)

// textSize makes string columns TEXT rather than VARCHAR(255).
const textSize = 2147483647

var (
	// QuestionsColumns holds the columns for the "questions" table.
	QuestionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Unique: true},
		{Name: "grade", Type: field.TypeString},
		{Name: "year", Type: field.TypeInt},
		{Name: "session", Type: field.TypeString},
		{Name: "category", Type: field.TypeString},
		{Name: "subcategory", Type: field.TypeString, Default: ""},
		{Name: "question_type", Type: field.TypeString},
		{Name: "question_text", Type: field.TypeString, Size: textSize},
		{Name: "options", Type: field.TypeJSON},
		{Name: "correct_answer", Type: field.TypeInt},
		{Name: "explanation", Type: field.TypeString, Size: textSize, Default: ""},
		{Name: "difficulty", Type: field.TypeString},
		{Name: "tags", Type: field.TypeJSON},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// QuestionsTable holds the schema information for the "questions" table.
	QuestionsTable = &schema.Table{
		Name:       tableQuestions,
		Columns:    QuestionsColumns,
		PrimaryKey: []*schema.Column{QuestionsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "question_grade", Columns: []*schema.Column{QuestionsColumns[1]}},
			{Name: "question_year", Columns: []*schema.Column{QuestionsColumns[2]}},
			{Name: "question_category", Columns: []*schema.Column{QuestionsColumns[4]}},
			{Name: "question_difficulty", Columns: []*schema.Column{QuestionsColumns[11]}},
		},
	}

	// AnswerEventsColumns holds the columns for the "answer_events" table.
	AnswerEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Unique: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "question_id", Type: field.TypeString},
		{Name: "user_answer", Type: field.TypeInt},
		{Name: "is_correct", Type: field.TypeBool},
		{Name: "time_spent_secs", Type: field.TypeInt, Default: 0},
		{Name: "answered_at", Type: field.TypeTime},
		{Name: "mode", Type: field.TypeString},
	}
	// AnswerEventsTable holds the schema information for the "answer_events" table.
	AnswerEventsTable = &schema.Table{
		Name:       tableAnswerEvents,
		Columns:    AnswerEventsColumns,
		PrimaryKey: []*schema.Column{AnswerEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "answerevent_question_id", Columns: []*schema.Column{AnswerEventsColumns[2]}},
			{Name: "answerevent_is_correct", Columns: []*schema.Column{AnswerEventsColumns[4]}},
			{Name: "answerevent_answered_at", Columns: []*schema.Column{AnswerEventsColumns[6]}},
		},
	}

	// ProgressColumns holds the columns for the "progress" table.
	ProgressColumns = []*schema.Column{
		{Name: "question_id", Type: field.TypeString, Unique: true},
		{Name: "mastery_level", Type: field.TypeInt, Default: 0},
		{Name: "correct_count", Type: field.TypeInt, Default: 0},
		{Name: "total_attempts", Type: field.TypeInt, Default: 0},
		{Name: "last_answered_at", Type: field.TypeTime, Nullable: true},
		{Name: "is_bookmarked", Type: field.TypeBool, Default: false},
		{Name: "notes", Type: field.TypeString, Size: textSize, Nullable: true},
	}
	// ProgressTable holds the schema information for the "progress" table.
	ProgressTable = &schema.Table{
		Name:       tableProgress,
		Columns:    ProgressColumns,
		PrimaryKey: []*schema.Column{ProgressColumns[0]},
		Indexes: []*schema.Index{
			{Name: "progress_mastery_level", Columns: []*schema.Column{ProgressColumns[1]}},
			{Name: "progress_is_bookmarked", Columns: []*schema.Column{ProgressColumns[5]}},
			{Name: "progress_last_answered_at", Columns: []*schema.Column{ProgressColumns[4]}},
		},
	}

	// DailyStatsColumns holds the columns for the "daily_stats" table.
	DailyStatsColumns = []*schema.Column{
		{Name: "date", Type: field.TypeString, Unique: true},
		{Name: "questions_solved", Type: field.TypeInt, Default: 0},
		{Name: "correct_answers", Type: field.TypeInt, Default: 0},
		{Name: "study_time_minutes", Type: field.TypeInt, Default: 0},
		{Name: "sessions_count", Type: field.TypeInt, Default: 0},
	}
	// DailyStatsTable holds the schema information for the "daily_stats" table.
	DailyStatsTable = &schema.Table{
		Name:       tableDailyStats,
		Columns:    DailyStatsColumns,
		PrimaryKey: []*schema.Column{DailyStatsColumns[0]},
	}

	// SettingsColumns holds the columns for the "settings" table.
	SettingsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "target_grade", Type: field.TypeString},
		{Name: "exam_date", Type: field.TypeString, Nullable: true},
		{Name: "daily_goal", Type: field.TypeInt},
		{Name: "reminder_enabled", Type: field.TypeBool, Default: false},
		{Name: "reminder_time", Type: field.TypeString, Nullable: true},
		{Name: "theme", Type: field.TypeString},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// SettingsTable holds the schema information for the "settings" table.
	SettingsTable = &schema.Table{
		Name:       tableSettings,
		Columns:    SettingsColumns,
		PrimaryKey: []*schema.Column{SettingsColumns[0]},
	}

	// SnapshotsColumns holds the columns for the "snapshots" table.
	SnapshotsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "reason", Type: field.TypeString, Default: ""},
		{Name: "data", Type: field.TypeJSON},
	}
	// SnapshotsTable holds the schema information for the "snapshots" table.
	SnapshotsTable = &schema.Table{
		Name:       tableSnapshots,
		Columns:    SnapshotsColumns,
		PrimaryKey: []*schema.Column{SnapshotsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "snapshot_timestamp", Columns: []*schema.Column{SnapshotsColumns[2]}},
			{Name: "snapshot_sequence", Columns: []*schema.Column{SnapshotsColumns[1]}},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		QuestionsTable,
		AnswerEventsTable,
		ProgressTable,
		DailyStatsTable,
		SettingsTable,
		SnapshotsTable,
	}
)

// migrate creates or updates all tables. Columns and indexes are only ever
// added; existing data is never dropped.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	return m.Create(ctx, Tables...)
}
