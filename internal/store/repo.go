package store

import (
	"context"
	"time"
)

// StudyMode tags an answer with the strategy that served the question.
type StudyMode string

const (
	ModeRandom   StudyMode = "random"
	ModeCategory StudyMode = "category"
	ModeYear     StudyMode = "year"
	ModeWeakness StudyMode = "weakness"
	ModeReview   StudyMode = "review"
)

// Valid reports whether m is one of the known study modes.
func (m StudyMode) Valid() bool {
	switch m {
	case ModeRandom, ModeCategory, ModeYear, ModeWeakness, ModeReview:
		return true
	}
	return false
}

// Question is an immutable corpus record. It is only replaced by re-import.
type Question struct {
	ID            string    `json:"id"`
	Grade         string    `json:"grade"`
	Year          int       `json:"year"`
	Session       string    `json:"session"`
	Category      string    `json:"category"`
	Subcategory   string    `json:"subcategory"`
	QuestionType  string    `json:"questionType"`
	QuestionText  string    `json:"questionText"`
	Options       []string  `json:"options"`
	CorrectAnswer int       `json:"correctAnswer"`
	Explanation   string    `json:"explanation"`
	Difficulty    string    `json:"difficulty"`
	Tags          []string  `json:"tags"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// AnswerEvent is an append-only record of one submitted answer.
type AnswerEvent struct {
	ID            string    `json:"id"`
	Sequence      int64     `json:"sequence"`
	QuestionID    string    `json:"questionId"`
	UserAnswer    int       `json:"userAnswer"`
	IsCorrect     bool      `json:"isCorrect"`
	TimeSpentSecs int       `json:"timeSpent,omitempty"`
	AnsweredAt    time.Time `json:"answeredAt"`
	Mode          StudyMode `json:"mode"`
}

// Progress is the per-question learning state, keyed by question ID.
type Progress struct {
	QuestionID     string     `json:"questionId"`
	MasteryLevel   int        `json:"masteryLevel"`
	CorrectCount   int        `json:"correctCount"`
	TotalAttempts  int        `json:"totalAttempts"`
	LastAnsweredAt *time.Time `json:"lastAnsweredAt,omitempty"`
	IsBookmarked   bool       `json:"isBookmarked"`
	Notes          string     `json:"userNotes,omitempty"`
}

// Accuracy returns the correct ratio, or 0 when unattempted.
func (p *Progress) Accuracy() float64 {
	if p.TotalAttempts == 0 {
		return 0.0
	}
	return float64(p.CorrectCount) / float64(p.TotalAttempts)
}

// DailyStat aggregates study activity for one local calendar day.
type DailyStat struct {
	Date             string `json:"date"` // YYYY-MM-DD
	QuestionsSolved  int    `json:"questionsSolved"`
	CorrectAnswers   int    `json:"correctAnswers"`
	StudyTimeMinutes int    `json:"studyTimeMinutes"`
	SessionsCount    int    `json:"sessionsCount"`
}

// Settings is the singleton user settings row.
type Settings struct {
	TargetGrade     string     `json:"targetGrade"`
	ExamDate        string     `json:"examDate,omitempty"` // YYYY-MM-DD, empty when unset
	DailyGoal       int        `json:"dailyGoal"`
	ReminderEnabled bool       `json:"reminderEnabled"`
	ReminderTime    string     `json:"reminderTime,omitempty"`
	Theme           string     `json:"theme"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// QuestionFilter narrows a question query. Zero fields are ignored.
type QuestionFilter struct {
	IDs      []string
	Grade    string
	Category string
	Year     int
}

// AnswerFilter narrows an answer query. Zero fields are ignored.
type AnswerFilter struct {
	QuestionID string
	From       time.Time // answered_at >= From
	To         time.Time // answered_at < To
	Correct    *bool
}

// ProgressFilter narrows a progress query. Zero fields are ignored.
type ProgressFilter struct {
	QuestionIDs []string
	Bookmarked  *bool
	Attempted   bool // total_attempts > 0
}

// QuestionRepo stores the question corpus.
type QuestionRepo interface {
	// Put inserts or replaces a question by ID.
	Put(ctx context.Context, q Question) error

	// BulkPut upserts all questions in a single transaction.
	BulkPut(ctx context.Context, qs []Question) error

	// Get returns the question, or found=false if it does not exist.
	Get(ctx context.Context, id string) (Question, bool, error)

	// Query returns matching questions ordered by ID.
	Query(ctx context.Context, f QuestionFilter) ([]Question, error)

	// Count returns the number of matching questions.
	Count(ctx context.Context, f QuestionFilter) (int, error)

	// Clear deletes every question.
	Clear(ctx context.Context) error
}

// AnswerRepo stores the append-only answer history.
type AnswerRepo interface {
	// Append records an answer, assigning its ID (if empty) and sequence.
	Append(ctx context.Context, a AnswerEvent) (AnswerEvent, error)

	// Query returns matching answers in ascending answered_at order.
	Query(ctx context.Context, f AnswerFilter) ([]AnswerEvent, error)

	// Count returns the number of matching answers.
	Count(ctx context.Context, f AnswerFilter) (int, error)

	// Clear deletes every answer event.
	Clear(ctx context.Context) error
}

// ProgressRepo stores per-question progress records.
type ProgressRepo interface {
	Put(ctx context.Context, p Progress) error
	Get(ctx context.Context, questionID string) (Progress, bool, error)
	Query(ctx context.Context, f ProgressFilter) ([]Progress, error)
	Clear(ctx context.Context) error
}

// DailyStatRepo stores one aggregate row per calendar day.
type DailyStatRepo interface {
	Put(ctx context.Context, d DailyStat) error
	Get(ctx context.Context, date string) (DailyStat, bool, error)

	// Range returns rows with from <= date < to in ascending date order.
	// An empty bound is open.
	Range(ctx context.Context, from, to string) ([]DailyStat, error)

	Clear(ctx context.Context) error
}

// SettingsRepo stores the singleton settings row.
type SettingsRepo interface {
	// Get returns the settings, or found=false when none were saved yet.
	Get(ctx context.Context) (Settings, bool, error)
	Put(ctx context.Context, s Settings) error
}

// SnapshotData captures progress and daily history at a point in time.
type SnapshotData struct {
	Version    int         `json:"version"`
	Progress   []Progress  `json:"progress,omitempty"`
	DailyStats []DailyStat `json:"daily_stats,omitempty"`
	Answers    int         `json:"answers"`
}

// Snapshot represents a point-in-time capture of learner state.
type Snapshot struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	Reason    string
	Data      SnapshotData
}

// SnapshotRepo manages learner state snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the most recent snapshot, or nil if none exist.
	Latest(ctx context.Context) (*Snapshot, error)

	// Prune deletes all but the N most recent snapshots.
	Prune(ctx context.Context, keep int) error
}
