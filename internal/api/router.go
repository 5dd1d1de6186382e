package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter registers every route on a fresh router and wraps it in the
// Logging and CORS middleware.
func NewRouter(h *Handler, origins []string, logger *slog.Logger) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	// Corpus
	api.HandleFunc("/questions/import", h.importQuestions).Methods(http.MethodPost)
	api.HandleFunc("/questions/count", h.countQuestions).Methods(http.MethodGet)
	api.HandleFunc("/categories", h.listCategories).Methods(http.MethodGet)

	// Selection and sessions
	api.HandleFunc("/selection", h.selectQuestions).Methods(http.MethodPost)
	api.HandleFunc("/sessions", h.createSession).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}", h.getSession).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}", h.abandonSession).Methods(http.MethodDelete)
	api.HandleFunc("/sessions/{id}/answers", h.submitAnswer).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/finish", h.finishSession).Methods(http.MethodPost)

	// Progress. The distribution route is registered before the ID route.
	api.HandleFunc("/progress/distribution", h.distribution).Methods(http.MethodGet)
	api.HandleFunc("/progress/{questionID}", h.getProgress).Methods(http.MethodGet)
	api.HandleFunc("/progress/{questionID}/bookmark", h.toggleBookmark).Methods(http.MethodPost)
	api.HandleFunc("/progress/{questionID}/notes", h.setNotes).Methods(http.MethodPut)

	// Statistics
	api.HandleFunc("/stats/categories", h.categoryStats).Methods(http.MethodGet)
	api.HandleFunc("/stats/overall", h.overallStats).Methods(http.MethodGet)
	api.HandleFunc("/stats/today", h.todayStats).Methods(http.MethodGet)
	api.HandleFunc("/stats/weekly", h.weeklyStats).Methods(http.MethodGet)

	// Settings and maintenance
	api.HandleFunc("/settings", h.getSettings).Methods(http.MethodGet)
	api.HandleFunc("/settings", h.updateSettings).Methods(http.MethodPut)
	api.HandleFunc("/reset", h.reset).Methods(http.MethodPost)

	return Logging(logger)(CORS(origins)(r))
}

func health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
