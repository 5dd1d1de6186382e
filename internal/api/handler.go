// Package api serves the study engine over HTTP for a browser front end.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/fpdrill/fpdrill/internal/corpus"
	"github.com/fpdrill/fpdrill/internal/engine"
	"github.com/fpdrill/fpdrill/internal/selection"
	"github.com/fpdrill/fpdrill/internal/session"
	"github.com/fpdrill/fpdrill/internal/settings"
	"github.com/fpdrill/fpdrill/internal/store"
)

// maxBody caps request bodies. Corpus imports are the largest payload.
var maxBody int64 = 32 << 20

// Handler holds the dependencies of every HTTP handler. All engine access
// goes through mu: the store runs on a single connection and sessions are
// not safe for concurrent use.
type Handler struct {
	mu       sync.Mutex
	engine   *engine.Engine
	sessions map[string]*openSession
	logger   *slog.Logger
	now      func() time.Time

	defaultCount int
}

// NewHandler creates a Handler over eng. defaultCount is the batch size for
// session requests that give none.
func NewHandler(eng *engine.Engine, defaultCount int, logger *slog.Logger) *Handler {
	return &Handler{
		engine:       eng,
		sessions:     make(map[string]*openSession),
		logger:       logger,
		now:          time.Now,
		defaultCount: defaultCount,
	}
}

type errorResponse struct {
	Error  string         `json:"error"`
	Issues []corpus.Issue `json:"issues,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if tooLarge(err) {
			respondError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// handleError maps engine errors to status codes. It returns true if err
// was written and the caller should return.
func (h *Handler) handleError(w http.ResponseWriter, err error, op string) bool {
	if err == nil {
		return false
	}

	var verr *corpus.ValidationError
	switch {
	case tooLarge(err):
		respondError(w, http.StatusRequestEntityTooLarge, "request body too large")
	case errors.As(err, &verr):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Error(), Issues: verr.Issues})
	case errors.Is(err, store.ErrStorageUnavailable):
		h.logger.Error("storage unavailable", "op", op, "error", err)
		respondError(w, http.StatusServiceUnavailable, "storage unavailable")
	case errors.Is(err, selection.ErrUnknownStrategy),
		errors.Is(err, selection.ErrMissingCategory),
		errors.Is(err, selection.ErrMissingYear),
		errors.Is(err, settings.ErrInvalid),
		errors.Is(err, session.ErrOutOfRange):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrFinished),
		errors.Is(err, session.ErrAlreadyAnswered):
		respondError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("request failed", "op", op, "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
	return true
}

func tooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}
