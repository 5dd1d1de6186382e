package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/fpdrill/fpdrill/internal/mastery"
	"github.com/fpdrill/fpdrill/internal/settings"
	"github.com/fpdrill/fpdrill/internal/stats"
	"github.com/fpdrill/fpdrill/internal/store"
)

type progressView struct {
	store.Progress
	Level string `json:"level"`
}

type notesRequest struct {
	Notes string `json:"notes"`
}

// knownQuestion writes 404 unless the path names a corpus question. The
// caller holds h.mu.
func (h *Handler) knownQuestion(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := mux.Vars(r)["questionID"]
	_, found, err := h.engine.Store.Questions().Get(r.Context(), id)
	if h.handleError(w, err, "get question") {
		return "", false
	}
	if !found {
		respondError(w, http.StatusNotFound, "question not found")
		return "", false
	}
	return id, true
}

func (h *Handler) getProgress(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id, ok := h.knownQuestion(w, r)
	if !ok {
		return
	}
	p, err := h.engine.Mastery.Get(r.Context(), id)
	if h.handleError(w, err, "get progress") {
		return
	}
	respondJSON(w, http.StatusOK, progressView{Progress: p, Level: mastery.Level(p.MasteryLevel).String()})
}

func (h *Handler) toggleBookmark(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id, ok := h.knownQuestion(w, r)
	if !ok {
		return
	}
	on, err := h.engine.Mastery.ToggleBookmark(r.Context(), id)
	if h.handleError(w, err, "toggle bookmark") {
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"isBookmarked": on})
}

func (h *Handler) setNotes(w http.ResponseWriter, r *http.Request) {
	var req notesRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	id, ok := h.knownQuestion(w, r)
	if !ok {
		return
	}
	if h.handleError(w, h.engine.Mastery.SetNotes(r.Context(), id, req.Notes), "set notes") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) distribution(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	d, err := h.engine.Mastery.MasteryDistribution(r.Context())
	h.mu.Unlock()
	if h.handleError(w, err, "mastery distribution") {
		return
	}
	respondJSON(w, http.StatusOK, d)
}

func (h *Handler) categoryStats(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	cs, err := h.engine.Stats.CategoryStats(r.Context())
	h.mu.Unlock()
	if h.handleError(w, err, "category stats") {
		return
	}
	respondJSON(w, http.StatusOK, cs)
}

func (h *Handler) overallStats(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	o, err := h.engine.Stats.OverallStats(r.Context())
	h.mu.Unlock()
	if h.handleError(w, err, "overall stats") {
		return
	}
	respondJSON(w, http.StatusOK, o)
}

func (h *Handler) todayStats(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	st, err := h.engine.Settings.Load(r.Context())
	if h.handleError(w, err, "load settings") {
		return
	}
	t, err := h.engine.Stats.Today(r.Context(), st.DailyGoal)
	if h.handleError(w, err, "today stats") {
		return
	}
	respondJSON(w, http.StatusOK, t)
}

// weeklyStats serves seven days from ?start=YYYY-MM-DD, defaulting to the
// week ending today.
func (h *Handler) weeklyStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now().AddDate(0, 0, -6)
	if v := r.URL.Query().Get("start"); v != "" {
		t, err := time.ParseInLocation(stats.DateLayout, v, time.Local)
		if err != nil {
			respondError(w, http.StatusBadRequest, "start must be YYYY-MM-DD")
			return
		}
		start = t
	}

	h.mu.Lock()
	days, err := h.engine.Stats.Weekly(r.Context(), start)
	h.mu.Unlock()
	if h.handleError(w, err, "weekly stats") {
		return
	}
	if days == nil {
		days = []store.DailyStat{}
	}
	respondJSON(w, http.StatusOK, days)
}

func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	st, err := h.engine.Settings.Load(r.Context())
	h.mu.Unlock()
	if h.handleError(w, err, "load settings") {
		return
	}
	respondJSON(w, http.StatusOK, st)
}

func (h *Handler) updateSettings(w http.ResponseWriter, r *http.Request) {
	var patch settings.Patch
	if !decodeJSON(w, r, &patch) {
		return
	}

	h.mu.Lock()
	st, err := h.engine.Settings.Update(r.Context(), patch)
	h.mu.Unlock()
	if h.handleError(w, err, "update settings") {
		return
	}
	respondJSON(w, http.StatusOK, st)
}

// reset clears study history; ?full=true also removes the corpus. Open
// sessions are dropped.
func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	full := r.URL.Query().Get("full") == "true"

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.handleError(w, h.engine.Reset(r.Context(), full), "reset") {
		return
	}
	clear(h.sessions)
	w.WriteHeader(http.StatusNoContent)
}
