package api

import (
	"net/http"
	"strconv"

	"github.com/fpdrill/fpdrill/internal/corpus"
	"github.com/fpdrill/fpdrill/internal/selection"
	"github.com/fpdrill/fpdrill/internal/store"
)

// questionView is a question as served to the learner, without the answer.
type questionView struct {
	ID           string   `json:"id"`
	Grade        string   `json:"grade"`
	Year         int      `json:"year"`
	Session      string   `json:"session"`
	Category     string   `json:"category"`
	Subcategory  string   `json:"subcategory"`
	QuestionType string   `json:"questionType"`
	QuestionText string   `json:"questionText"`
	Options      []string `json:"options"`
	Difficulty   string   `json:"difficulty"`
	Tags         []string `json:"tags"`
}

func viewOf(q store.Question) questionView {
	return questionView{
		ID:           q.ID,
		Grade:        q.Grade,
		Year:         q.Year,
		Session:      q.Session,
		Category:     q.Category,
		Subcategory:  q.Subcategory,
		QuestionType: q.QuestionType,
		QuestionText: q.QuestionText,
		Options:      q.Options,
		Difficulty:   q.Difficulty,
		Tags:         q.Tags,
	}
}

func viewsOf(qs []store.Question) []questionView {
	out := make([]questionView, len(qs))
	for i, q := range qs {
		out[i] = viewOf(q)
	}
	return out
}

func (h *Handler) importQuestions(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)

	h.mu.Lock()
	n, err := corpus.Import(r.Context(), h.engine.Store.Questions(), r.Body)
	h.mu.Unlock()
	if h.handleError(w, err, "import questions") {
		return
	}
	h.logger.Info("corpus imported", "questions", n)
	respondJSON(w, http.StatusOK, map[string]int{"imported": n})
}

func (h *Handler) countQuestions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := store.QuestionFilter{
		Grade:    q.Get("grade"),
		Category: q.Get("category"),
	}
	if v := q.Get("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid year")
			return
		}
		f.Year = year
	}

	h.mu.Lock()
	n, err := h.engine.Store.Questions().Count(r.Context(), f)
	h.mu.Unlock()
	if h.handleError(w, err, "count questions") {
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"count": n})
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, corpus.Categories())
}

func (h *Handler) selectQuestions(w http.ResponseWriter, r *http.Request) {
	var req selection.Request
	if !decodeJSON(w, r, &req) {
		return
	}

	h.mu.Lock()
	qs, err := h.engine.Selection.Select(r.Context(), req)
	h.mu.Unlock()
	if h.handleError(w, err, "select questions") {
		return
	}
	respondJSON(w, http.StatusOK, viewsOf(qs))
}
