// Package settings manages the singleton user settings row.
package settings

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/fpdrill/fpdrill/internal/corpus"
	"github.com/fpdrill/fpdrill/internal/store"
)

// Defaults for a fresh install.
const (
	DefaultGrade     = "3"
	DefaultDailyGoal = 20
	DefaultTheme     = "light"

	maxDailyGoal = 1000
)

// Themes are the accepted theme names.
var Themes = []string{"light", "dark", "auto"}

// ErrInvalid marks a rejected settings change.
var ErrInvalid = errors.New("invalid settings")

// Defaults returns the settings used when none were saved.
func Defaults(now time.Time) store.Settings {
	return store.Settings{
		TargetGrade: DefaultGrade,
		DailyGoal:   DefaultDailyGoal,
		Theme:       DefaultTheme,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Patch is a partial update. Nil fields are left unchanged. ExamDate uses
// YYYY-MM-DD; an empty string clears it, as does an empty ReminderTime.
type Patch struct {
	TargetGrade     *string `json:"targetGrade,omitempty"`
	ExamDate        *string `json:"examDate,omitempty"`
	DailyGoal       *int    `json:"dailyGoal,omitempty"`
	ReminderEnabled *bool   `json:"reminderEnabled,omitempty"`
	ReminderTime    *string `json:"reminderTime,omitempty"`
	Theme           *string `json:"theme,omitempty"`
}

// Service loads and updates settings.
type Service struct {
	repo store.SettingsRepo
	now  func() time.Time
}

// NewService creates a settings service.
func NewService(repo store.SettingsRepo) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Load returns the saved settings, or the defaults when none exist.
func (s *Service) Load(ctx context.Context) (store.Settings, error) {
	st, found, err := s.repo.Get(ctx)
	if err != nil {
		return store.Settings{}, err
	}
	if !found {
		return Defaults(s.now()), nil
	}
	return st, nil
}

// Update applies p on top of the current settings and saves the result.
func (s *Service) Update(ctx context.Context, p Patch) (store.Settings, error) {
	st, err := s.Load(ctx)
	if err != nil {
		return store.Settings{}, err
	}
	apply(&st, p)
	if err := Validate(st); err != nil {
		return store.Settings{}, err
	}
	st.UpdatedAt = s.now()
	if err := s.repo.Put(ctx, st); err != nil {
		return store.Settings{}, fmt.Errorf("save settings: %w", err)
	}
	return st, nil
}

func apply(st *store.Settings, p Patch) {
	if p.TargetGrade != nil {
		st.TargetGrade = *p.TargetGrade
	}
	if p.ExamDate != nil {
		st.ExamDate = *p.ExamDate
	}
	if p.DailyGoal != nil {
		st.DailyGoal = *p.DailyGoal
	}
	if p.ReminderEnabled != nil {
		st.ReminderEnabled = *p.ReminderEnabled
	}
	if p.ReminderTime != nil {
		st.ReminderTime = *p.ReminderTime
	}
	if p.Theme != nil {
		st.Theme = *p.Theme
	}
}

// Validate checks every field of st.
func Validate(st store.Settings) error {
	if !slices.Contains(corpus.Grades, st.TargetGrade) {
		return fmt.Errorf("%w: grade %q", ErrInvalid, st.TargetGrade)
	}
	if st.DailyGoal < 1 || st.DailyGoal > maxDailyGoal {
		return fmt.Errorf("%w: daily goal %d out of range 1..%d", ErrInvalid, st.DailyGoal, maxDailyGoal)
	}
	if !slices.Contains(Themes, st.Theme) {
		return fmt.Errorf("%w: theme %q", ErrInvalid, st.Theme)
	}
	if st.ExamDate != "" {
		if _, err := time.Parse(time.DateOnly, st.ExamDate); err != nil {
			return fmt.Errorf("%w: exam date %q: want YYYY-MM-DD", ErrInvalid, st.ExamDate)
		}
	}
	if st.ReminderTime != "" {
		if _, err := time.Parse("15:04", st.ReminderTime); err != nil {
			return fmt.Errorf("%w: reminder time %q: want HH:MM", ErrInvalid, st.ReminderTime)
		}
	}
	return nil
}

// DaysUntilExam returns whole days from now until the exam date, or false
// when no date is set.
func DaysUntilExam(st store.Settings, now time.Time) (int, bool) {
	if st.ExamDate == "" {
		return 0, false
	}
	exam, err := time.Parse(time.DateOnly, st.ExamDate)
	if err != nil {
		return 0, false
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return int(exam.Sub(today).Hours() / 24), true
}
