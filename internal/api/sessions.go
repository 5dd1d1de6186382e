package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/fpdrill/fpdrill/internal/selection"
	"github.com/fpdrill/fpdrill/internal/session"
	"github.com/fpdrill/fpdrill/internal/store"
)

type sessionView struct {
	ID       string        `json:"id"`
	Mode     string        `json:"mode"`
	Phase    string        `json:"phase"`
	Index    int           `json:"index"`
	Total    int           `json:"total"`
	Answered int           `json:"answered"`
	Current  *questionView `json:"current,omitempty"`
}

func viewOfSession(s *session.Session) sessionView {
	v := sessionView{
		ID:       s.ID,
		Mode:     string(s.Mode),
		Phase:    s.Phase().String(),
		Index:    s.Index(),
		Total:    s.Len(),
		Answered: len(s.Results()),
	}
	if q, ok := s.Current(); ok && s.Phase() == session.PhaseActive {
		qv := viewOf(q)
		v.Current = &qv
	}
	return v
}

// answerRequest answers the current question. A nil Choice skips it.
type answerRequest struct {
	Choice *int `json:"choice"`
}

type answerResponse struct {
	Result  *session.Result `json:"result,omitempty"`
	Session sessionView     `json:"session"`
	Done    bool            `json:"done"`
}

type finishResponse struct {
	Summary session.Summary `json:"summary"`
	Today   store.DailyStat `json:"today"`
}

// Open sessions idle for longer than sessionIdle are dropped without being
// recorded, like an abandoned session. At most maxOpenSessions are kept; the
// least recently used one makes room for a new session.
var (
	sessionIdle     = 2 * time.Hour
	maxOpenSessions = 64
)

type openSession struct {
	sess     *session.Session
	lastUsed time.Time
}

// sweep drops idle sessions. The caller holds h.mu.
func (h *Handler) sweep() {
	now := h.now()
	for id, o := range h.sessions {
		if now.Sub(o.lastUsed) > sessionIdle {
			delete(h.sessions, id)
			h.logger.Info("session expired", "session", id)
		}
	}
}

// register adds s to the registry, evicting the least recently used session
// when full. The caller holds h.mu.
func (h *Handler) register(s *session.Session) {
	h.sweep()
	for len(h.sessions) >= maxOpenSessions {
		var oldest string
		for id, o := range h.sessions {
			if oldest == "" || o.lastUsed.Before(h.sessions[oldest].lastUsed) {
				oldest = id
			}
		}
		delete(h.sessions, oldest)
		h.logger.Info("session evicted", "session", oldest)
	}
	h.sessions[s.ID] = &openSession{sess: s, lastUsed: h.now()}
}

// lookup returns the session named in the path or writes 404. The caller
// holds h.mu.
func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	h.sweep()
	o, ok := h.sessions[mux.Vars(r)["id"]]
	if !ok {
		respondError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	o.lastUsed = h.now()
	return o.sess, true
}

func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	var req selection.Request
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Count <= 0 && !req.Strategy.WholeSet() {
		req.Count = h.defaultCount
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	s, err := h.engine.StartSession(r.Context(), req)
	if h.handleError(w, err, "start session") {
		return
	}
	h.register(s)
	respondJSON(w, http.StatusCreated, viewOfSession(s))
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, viewOfSession(s))
}

func (h *Handler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var resp answerResponse
	if req.Choice != nil {
		res, err := s.Answer(r.Context(), *req.Choice)
		if h.handleError(w, err, "submit answer") {
			return
		}
		resp.Result = &res
	} else if s.Phase() == session.PhaseFinished {
		h.handleError(w, session.ErrFinished, "skip question")
		return
	}
	resp.Done = !s.Next()
	resp.Session = viewOfSession(s)
	respondJSON(w, http.StatusOK, resp)
}

func (h *Handler) finishSession(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	sum, day, err := s.Finish(r.Context())
	if h.handleError(w, err, "finish session") {
		return
	}
	delete(h.sessions, s.ID)
	h.logger.Info("session finished",
		"session", s.ID,
		"answered", sum.Answered,
		"correct", sum.Correct,
		"minutes", sum.Minutes)
	respondJSON(w, http.StatusOK, finishResponse{Summary: sum, Today: day})
}

// abandonSession drops a session without rolling it into statistics.
// Answers already submitted stay recorded.
func (h *Handler) abandonSession(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	delete(h.sessions, s.ID)
	w.WriteHeader(http.StatusNoContent)
}
