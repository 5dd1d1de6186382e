// Package engine wires the study services over one store.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fpdrill/fpdrill/internal/mastery"
	"github.com/fpdrill/fpdrill/internal/selection"
	"github.com/fpdrill/fpdrill/internal/session"
	"github.com/fpdrill/fpdrill/internal/settings"
	"github.com/fpdrill/fpdrill/internal/stats"
	"github.com/fpdrill/fpdrill/internal/store"
)

// Engine bundles the services built on a store. It is not safe for
// concurrent use; callers that share it across goroutines serialize access.
type Engine struct {
	Store     *store.Store
	Selection *selection.Engine
	Mastery   *mastery.Service
	Stats     *stats.Service
	Settings  *settings.Service

	logger *slog.Logger
}

// New builds an Engine over st.
func New(st *store.Store, logger *slog.Logger, opts ...selection.Option) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		Store:     st,
		Selection: selection.NewEngine(st.Questions(), st.Progress(), st.Answers(), opts...),
		Mastery:   mastery.NewService(st.Progress(), st.Questions()),
		Stats:     stats.NewService(st.DailyStats(), st.Answers(), st.Questions()),
		Settings:  settings.NewService(st.Settings()),
		logger:    logger,
	}
}

// Services returns the pieces a session writes through.
func (e *Engine) Services() session.Services {
	return session.Services{
		Tx:      e.Store,
		Mastery: e.Mastery,
		Stats:   e.Stats,
	}
}

// StartSession selects a batch for req and opens a session over it. A
// request without a grade uses the target grade from settings.
func (e *Engine) StartSession(ctx context.Context, req selection.Request) (*session.Session, error) {
	if req.Grade == "" {
		st, err := e.Settings.Load(ctx)
		if err != nil {
			return nil, err
		}
		req.Grade = st.TargetGrade
	}
	qs, err := e.Selection.Select(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("select questions: %w", err)
	}
	sess := session.New(e.Services(), req.Strategy.Mode(), qs)
	e.logger.Debug("session started",
		"session", sess.ID,
		"strategy", req.Strategy,
		"grade", req.Grade,
		"questions", len(qs))
	return sess, nil
}

// Reset clears study history. A full reset also removes the corpus.
func (e *Engine) Reset(ctx context.Context, full bool) error {
	if err := e.Store.ResetHistory(ctx, full); err != nil {
		return err
	}
	e.logger.Info("history reset", "full", full)
	return nil
}
