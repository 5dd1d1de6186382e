package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fpdrill/fpdrill/internal/engine"
	"github.com/fpdrill/fpdrill/internal/store"
)

type testServer struct {
	srv   *httptest.Server
	store *store.Store
	h     *Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	st, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(engine.New(st, logger), 10, logger)
	srv := httptest.NewServer(NewRouter(h, []string{"http://ui.test"}, logger))
	t.Cleanup(srv.Close)
	return &testServer{srv: srv, store: st, h: h}
}

// setClock fixes the handler's clock at now.
func (ts *testServer) setClock(now time.Time) {
	ts.h.mu.Lock()
	defer ts.h.mu.Unlock()
	ts.h.now = func() time.Time { return now }
}

func (ts *testServer) do(t *testing.T, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.srv.URL+path, rd)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func corpusJSON(ids ...string) string {
	recs := make([]string, len(ids))
	for i, id := range ids {
		recs[i] = fmt.Sprintf(`{"id":%q,"grade":"3","year":2024,"session":"5月","category":"tax-planning",`+
			`"subcategory":"所得税","questionType":"multiple-choice","questionText":"問題",`+
			`"options":["a","b","c"],"correctAnswer":1,"explanation":"解説","difficulty":"easy","tags":[]}`, id)
	}
	return "[" + strings.Join(recs, ",") + "]"
}

func (ts *testServer) importCorpus(t *testing.T, ids ...string) {
	t.Helper()
	resp, body := ts.do(t, http.MethodPost, "/api/questions/import", corpusJSON(ids...))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, body := ts.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestImportAndCount(t *testing.T) {
	ts := newTestServer(t)

	resp, body := ts.do(t, http.MethodPost, "/api/questions/import", corpusJSON("q1", "q2", "q3"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"imported":3}`, string(body))

	resp, body = ts.do(t, http.MethodGet, "/api/questions/count?grade=3", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"count":3}`, string(body))

	resp, body = ts.do(t, http.MethodGet, "/api/questions/count?grade=2", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"count":0}`, string(body))

	resp, _ = ts.do(t, http.MethodGet, "/api/questions/count?year=soon", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestImportRejectsInvalidBatch(t *testing.T) {
	ts := newTestServer(t)

	bad := strings.Replace(corpusJSON("q1", "q2"), `"correctAnswer":1`, `"correctAnswer":7`, 1)
	resp, body := ts.do(t, http.MethodPost, "/api/questions/import", bad)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var e errorResponse
	require.NoError(t, json.Unmarshal(body, &e))
	require.Len(t, e.Issues, 1)
	assert.Equal(t, 0, e.Issues[0].Index)

	resp, body = ts.do(t, http.MethodGet, "/api/questions/count", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"count":0}`, string(body))
}

func TestOversizedBodyIs413(t *testing.T) {
	prev := maxBody
	maxBody = 64
	t.Cleanup(func() { maxBody = prev })
	ts := newTestServer(t)

	resp, _ := ts.do(t, http.MethodPost, "/api/questions/import", corpusJSON("q1", "q2"))
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodPost, "/api/selection",
		`{"strategy":"random","exclude":["`+strings.Repeat("x", 100)+`"]}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestSelectionValidation(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"unknown strategy", `{"strategy":"lucky"}`, http.StatusBadRequest},
		{"category missing", `{"strategy":"category"}`, http.StatusBadRequest},
		{"year missing", `{"strategy":"year"}`, http.StatusBadRequest},
		{"malformed", `{"strategy":`, http.StatusBadRequest},
		{"random on empty corpus", `{"strategy":"random","count":5}`, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := ts.do(t, http.MethodPost, "/api/selection", tt.body)
			assert.Equal(t, tt.want, resp.StatusCode, string(body))
		})
	}
}

func TestSelectionHidesAnswers(t *testing.T) {
	ts := newTestServer(t)
	ts.importCorpus(t, "q1", "q2")

	resp, body := ts.do(t, http.MethodPost, "/api/selection", `{"strategy":"random","count":1}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var qs []map[string]any
	require.NoError(t, json.Unmarshal(body, &qs))
	require.Len(t, qs, 1)
	assert.NotContains(t, qs[0], "correctAnswer")
	assert.NotContains(t, qs[0], "explanation")
}

func TestSessionFlow(t *testing.T) {
	ts := newTestServer(t)
	ts.importCorpus(t, "q1", "q2")

	resp, body := ts.do(t, http.MethodPost, "/api/sessions", `{"strategy":"random"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var sv sessionView
	require.NoError(t, json.Unmarshal(body, &sv))
	assert.Equal(t, 2, sv.Total)
	assert.Equal(t, "random", sv.Mode)
	require.NotNil(t, sv.Current)

	path := "/api/sessions/" + sv.ID

	resp, body = ts.do(t, http.MethodPost, path+"/answers", `{"choice":1}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var ar answerResponse
	require.NoError(t, json.Unmarshal(body, &ar))
	require.NotNil(t, ar.Result)
	assert.True(t, ar.Result.Event.IsCorrect)
	assert.Equal(t, "解説", ar.Result.Explanation)
	assert.False(t, ar.Done)
	assert.Equal(t, 1, ar.Session.Index)

	resp, body = ts.do(t, http.MethodPost, path+"/answers", `{"choice":9}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(body))

	resp, body = ts.do(t, http.MethodPost, path+"/answers", `{"choice":0}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.NoError(t, json.Unmarshal(body, &ar))
	assert.False(t, ar.Result.Event.IsCorrect)
	assert.True(t, ar.Done)

	resp, body = ts.do(t, http.MethodPost, path+"/finish", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var fr finishResponse
	require.NoError(t, json.Unmarshal(body, &fr))
	assert.Equal(t, 2, fr.Summary.Answered)
	assert.Equal(t, 1, fr.Summary.Correct)
	assert.Equal(t, 50, fr.Summary.Accuracy)
	assert.Equal(t, 1, fr.Today.SessionsCount)

	// Finished sessions are forgotten.
	resp, _ = ts.do(t, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = ts.do(t, http.MethodGet, "/api/stats/overall", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var o map[string]int
	require.NoError(t, json.Unmarshal(body, &o))
	assert.Equal(t, 2, o["totalQuestionsSolved"])
	assert.Equal(t, 50, o["overallAccuracy"])
	assert.Equal(t, 1, o["currentStreak"])
}

func TestSessionSkipAndAbandon(t *testing.T) {
	ts := newTestServer(t)
	ts.importCorpus(t, "q1", "q2")

	_, body := ts.do(t, http.MethodPost, "/api/sessions", `{"strategy":"random"}`)
	var sv sessionView
	require.NoError(t, json.Unmarshal(body, &sv))
	path := "/api/sessions/" + sv.ID

	resp, body := ts.do(t, http.MethodPost, path+"/answers", `{}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var ar answerResponse
	require.NoError(t, json.Unmarshal(body, &ar))
	assert.Nil(t, ar.Result)
	assert.Equal(t, 1, ar.Session.Index)

	resp, _ = ts.do(t, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = ts.do(t, http.MethodPost, path+"/finish", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = ts.do(t, http.MethodGet, "/api/stats/today", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var today map[string]any
	require.NoError(t, json.Unmarshal(body, &today))
	assert.EqualValues(t, 0, today["sessionsCount"])
	assert.EqualValues(t, 20, today["dailyGoal"])
}

func TestIdleSessionsExpire(t *testing.T) {
	ts := newTestServer(t)
	ts.importCorpus(t, "q1", "q2")
	clock := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)
	ts.setClock(clock)

	open := func() string {
		resp, body := ts.do(t, http.MethodPost, "/api/sessions", `{"strategy":"random"}`)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var sv sessionView
		require.NoError(t, json.Unmarshal(body, &sv))
		return "/api/sessions/" + sv.ID
	}

	busy, idle := open(), open()
	ts.setClock(clock.Add(sessionIdle / 2))
	resp, _ := ts.do(t, http.MethodGet, busy, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	ts.setClock(clock.Add(sessionIdle + time.Minute))
	resp, _ = ts.do(t, http.MethodGet, idle, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = ts.do(t, http.MethodGet, busy, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode, "use keeps a session alive")
}

func TestSessionRegistryIsCapped(t *testing.T) {
	prev := maxOpenSessions
	maxOpenSessions = 2
	t.Cleanup(func() { maxOpenSessions = prev })

	ts := newTestServer(t)
	ts.importCorpus(t, "q1")
	clock := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)

	var paths []string
	for i := range 3 {
		ts.setClock(clock.Add(time.Duration(i) * time.Second))
		_, body := ts.do(t, http.MethodPost, "/api/sessions", `{"strategy":"random"}`)
		var sv sessionView
		require.NoError(t, json.Unmarshal(body, &sv))
		paths = append(paths, "/api/sessions/"+sv.ID)
	}
	resp, _ := ts.do(t, http.MethodGet, paths[0], "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "oldest session evicted")
	resp, _ = ts.do(t, http.MethodGet, paths[2], "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUnknownSession(t *testing.T) {
	ts := newTestServer(t)
	for _, tc := range []struct{ method, path, body string }{
		{http.MethodGet, "/api/sessions/nope", ""},
		{http.MethodPost, "/api/sessions/nope/answers", `{"choice":0}`},
		{http.MethodPost, "/api/sessions/nope/finish", ""},
		{http.MethodDelete, "/api/sessions/nope", ""},
	} {
		resp, _ := ts.do(t, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, tc.method+" "+tc.path)
	}
}

func TestProgressEndpoints(t *testing.T) {
	ts := newTestServer(t)
	ts.importCorpus(t, "q1", "q2")

	resp, body := ts.do(t, http.MethodPost, "/api/progress/q1/bookmark", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"isBookmarked":true}`, string(body))

	resp, _ = ts.do(t, http.MethodPut, "/api/progress/q1/notes", `{"notes":"復習する"}`)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = ts.do(t, http.MethodGet, "/api/progress/q1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pv progressView
	require.NoError(t, json.Unmarshal(body, &pv))
	assert.True(t, pv.IsBookmarked)
	assert.Equal(t, "復習する", pv.Notes)
	assert.Equal(t, 0, pv.MasteryLevel)

	resp, _ = ts.do(t, http.MethodGet, "/api/progress/missing", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = ts.do(t, http.MethodPost, "/api/progress/missing/bookmark", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = ts.do(t, http.MethodGet, "/api/progress/distribution", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"mastered":0,"familiar":0,"learning":0,"new":2,"total":2}`, string(body))
}

func TestStatsEndpoints(t *testing.T) {
	ts := newTestServer(t)
	ts.importCorpus(t, "q1")

	resp, body := ts.do(t, http.MethodGet, "/api/stats/categories", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cs []map[string]any
	require.NoError(t, json.Unmarshal(body, &cs))
	assert.Len(t, cs, 6)

	resp, body = ts.do(t, http.MethodGet, "/api/stats/weekly?start=2024-01-01", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))

	resp, _ = ts.do(t, http.MethodGet, "/api/stats/weekly?start=yesterday", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSettingsEndpoints(t *testing.T) {
	ts := newTestServer(t)

	resp, body := ts.do(t, http.MethodGet, "/api/settings", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var st store.Settings
	require.NoError(t, json.Unmarshal(body, &st))
	assert.Equal(t, "3", st.TargetGrade)

	resp, body = ts.do(t, http.MethodPut, "/api/settings", `{"dailyGoal":40,"theme":"dark"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.NoError(t, json.Unmarshal(body, &st))
	assert.Equal(t, 40, st.DailyGoal)
	assert.Equal(t, "dark", st.Theme)

	resp, _ = ts.do(t, http.MethodPut, "/api/settings", `{"theme":"neon"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestResetEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.importCorpus(t, "q1")
	ts.do(t, http.MethodPost, "/api/progress/q1/bookmark", "")

	resp, _ := ts.do(t, http.MethodPost, "/api/reset", "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	_, body := ts.do(t, http.MethodGet, "/api/questions/count", "")
	assert.JSONEq(t, `{"count":1}`, string(body))
	_, body = ts.do(t, http.MethodGet, "/api/progress/q1", "")
	assert.Contains(t, string(body), `"isBookmarked":false`)

	resp, _ = ts.do(t, http.MethodPost, "/api/reset?full=true", "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	_, body = ts.do(t, http.MethodGet, "/api/questions/count", "")
	assert.JSONEq(t, `{"count":0}`, string(body))
}

func TestStorageFailureIs503(t *testing.T) {
	ts := newTestServer(t)
	require.NoError(t, ts.store.Close())

	resp, body := ts.do(t, http.MethodGet, "/api/stats/overall", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, string(body), "storage unavailable")
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, ts.srv.URL+"/api/settings", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://ui.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "http://ui.test", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/brew", nil))
	assert.Contains(t, buf.String(), "status=418")
	assert.Contains(t, buf.String(), "path=/brew")
}
