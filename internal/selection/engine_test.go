package selection

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fpdrill/fpdrill/internal/store"
)

var testNow = time.Date(2024, 6, 1, 15, 0, 0, 0, time.Local)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestEngine(t *testing.T, s *store.Store) *Engine {
	t.Helper()
	return NewEngine(s.Questions(), s.Progress(), s.Answers(),
		WithRand(rand.New(rand.NewSource(42))),
		WithClock(func() time.Time { return testNow }),
	)
}

type qspec struct {
	id, grade, category string
	year                int
}

func seed(t *testing.T, s *store.Store, specs ...qspec) {
	t.Helper()
	var qs []store.Question
	for _, sp := range specs {
		qs = append(qs, store.Question{
			ID: sp.id, Grade: sp.grade, Year: sp.year, Session: "9月", Category: sp.category,
			QuestionType: "multiple-choice", QuestionText: sp.id, Options: []string{"a", "b", "c"},
			Difficulty: "medium", CreatedAt: testNow, UpdatedAt: testNow,
		})
	}
	require.NoError(t, s.Questions().BulkPut(context.Background(), qs))
}

func ids(qs []store.Question) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	sort.Strings(out)
	return out
}

func standardCorpus(t *testing.T, s *store.Store) {
	seed(t, s,
		qspec{"a", "3", "tax-planning", 2023},
		qspec{"b", "3", "tax-planning", 2024},
		qspec{"c", "3", "real-estate", 2024},
		qspec{"d", "2", "tax-planning", 2024},
		qspec{"e", "2", "inheritance", 2023},
	)
}

func TestSelectFilters(t *testing.T) {
	s := openTestStore(t)
	standardCorpus(t, s)
	e := newTestEngine(t, s)
	ctx := context.Background()

	tests := []struct {
		name string
		req  Request
		want []string
	}{
		{"random all", Request{Strategy: StrategyRandom}, []string{"a", "b", "c", "d", "e"}},
		{"random grade", Request{Strategy: StrategyRandom, Grade: "2"}, []string{"d", "e"}},
		{"random exclude", Request{Strategy: StrategyRandom, Exclude: []string{"a", "e"}}, []string{"b", "c", "d"}},
		{"category", Request{Strategy: StrategyCategory, Category: "tax-planning"}, []string{"a", "b", "d"}},
		{"category grade", Request{Strategy: StrategyCategory, Category: "tax-planning", Grade: "3"}, []string{"a", "b"}},
		{"year", Request{Strategy: StrategyYear, Year: 2023}, []string{"a", "e"}},
		{"year grade", Request{Strategy: StrategyYear, Year: 2024, Grade: "2"}, []string{"d"}},
		{"unknown category", Request{Strategy: StrategyCategory, Category: "astrology"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Select(ctx, tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestSelectCapsCount(t *testing.T) {
	s := openTestStore(t)
	standardCorpus(t, s)
	e := newTestEngine(t, s)

	got, err := e.Select(context.Background(), Request{Strategy: StrategyRandom, Count: 2})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = e.Select(context.Background(), Request{Strategy: StrategyRandom, Count: 50})
	require.NoError(t, err)
	assert.Len(t, got, 5)
}

func TestSelectIsSeedable(t *testing.T) {
	s := openTestStore(t)
	standardCorpus(t, s)
	ctx := context.Background()

	run := func() []string {
		e := newTestEngine(t, s)
		got, err := e.Select(ctx, Request{Strategy: StrategyRandom})
		require.NoError(t, err)
		out := make([]string, len(got))
		for i, q := range got {
			out[i] = q.ID
		}
		return out
	}
	assert.Equal(t, run(), run())
}

func TestSelectValidation(t *testing.T) {
	s := openTestStore(t)
	e := newTestEngine(t, s)
	ctx := context.Background()

	_, err := e.Select(ctx, Request{Strategy: "spaced"})
	assert.True(t, errors.Is(err, ErrUnknownStrategy))

	_, err = e.Select(ctx, Request{Strategy: StrategyCategory})
	assert.True(t, errors.Is(err, ErrMissingCategory))

	_, err = e.Select(ctx, Request{Strategy: StrategyYear})
	assert.True(t, errors.Is(err, ErrMissingYear))
}

func TestSelectEmptyCorpusIsNotAnError(t *testing.T) {
	s := openTestStore(t)
	e := newTestEngine(t, s)

	for _, st := range Strategies {
		req := Request{Strategy: st, Category: "tax-planning", Year: 2024}
		got, err := e.Select(context.Background(), req)
		require.NoError(t, err, st)
		assert.Empty(t, got, st)
	}
}

func TestWeaknessSelection(t *testing.T) {
	s := openTestStore(t)
	seed(t, s,
		qspec{"q1", "3", "tax-planning", 2024},
		qspec{"q2", "3", "tax-planning", 2024},
		qspec{"q3", "3", "tax-planning", 2024},
	)
	ctx := context.Background()
	for _, p := range []store.Progress{
		{QuestionID: "q1", MasteryLevel: 2, CorrectCount: 1, TotalAttempts: 2},
		{QuestionID: "q2", MasteryLevel: 4, CorrectCount: 9, TotalAttempts: 10},
		{QuestionID: "q3", MasteryLevel: 0, IsBookmarked: true},
	} {
		require.NoError(t, s.Progress().Put(ctx, p))
	}

	e := newTestEngine(t, s)
	got, err := e.Select(ctx, Request{Strategy: StrategyWeakness, Count: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"q1"}, ids(got))
}

func TestWeaknessLowAccuracyQualifies(t *testing.T) {
	s := openTestStore(t)
	seed(t, s, qspec{"q1", "3", "tax-planning", 2024}, qspec{"q2", "3", "tax-planning", 2024})
	ctx := context.Background()
	// Level 3 but accuracy 0.5: stale level still counts as weak by accuracy.
	require.NoError(t, s.Progress().Put(ctx, store.Progress{QuestionID: "q1", MasteryLevel: 3, CorrectCount: 2, TotalAttempts: 4}))
	require.NoError(t, s.Progress().Put(ctx, store.Progress{QuestionID: "q2", MasteryLevel: 3, CorrectCount: 2, TotalAttempts: 3}))

	got, err := newTestEngine(t, s).Select(ctx, Request{Strategy: StrategyWeakness})
	require.NoError(t, err)
	assert.Equal(t, []string{"q1"}, ids(got))
}

func TestWeaknessFallsBackToRandom(t *testing.T) {
	s := openTestStore(t)
	standardCorpus(t, s)
	ctx := context.Background()
	require.NoError(t, s.Progress().Put(ctx, store.Progress{QuestionID: "a", MasteryLevel: 5, CorrectCount: 5, TotalAttempts: 5}))

	got, err := newTestEngine(t, s).Select(ctx, Request{Strategy: StrategyWeakness, Count: 3, Grade: "3"})
	require.NoError(t, err)
	assert.Len(t, got, 3)
	for _, q := range got {
		assert.Equal(t, "3", q.Grade)
	}
}

func TestBookmarkedSelection(t *testing.T) {
	s := openTestStore(t)
	standardCorpus(t, s)
	ctx := context.Background()
	for _, id := range []string{"a", "c", "d"} {
		require.NoError(t, s.Progress().Put(ctx, store.Progress{QuestionID: id, IsBookmarked: true}))
	}
	require.NoError(t, s.Progress().Put(ctx, store.Progress{QuestionID: "b", TotalAttempts: 1, MasteryLevel: 1}))
	e := newTestEngine(t, s)

	got, err := e.Select(ctx, Request{Strategy: StrategyBookmarked})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "d"}, ids(got))

	got, err = e.Select(ctx, Request{Strategy: StrategyBookmarked, Grade: "3"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, ids(got))

	got, err = e.Select(ctx, Request{Strategy: StrategyBookmarked, Count: 1})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestIncorrectTodaySelection(t *testing.T) {
	s := openTestStore(t)
	standardCorpus(t, s)
	ctx := context.Background()

	midnight := time.Date(testNow.Year(), testNow.Month(), testNow.Day(), 0, 0, 0, 0, time.Local)
	answers := []store.AnswerEvent{
		{QuestionID: "a", IsCorrect: false, AnsweredAt: midnight.Add(9 * time.Hour)},
		{QuestionID: "a", IsCorrect: false, AnsweredAt: midnight.Add(10 * time.Hour)},
		{QuestionID: "b", IsCorrect: true, AnsweredAt: midnight.Add(11 * time.Hour)},
		{QuestionID: "c", IsCorrect: false, AnsweredAt: midnight.Add(-time.Minute)},
		{QuestionID: "e", IsCorrect: false, AnsweredAt: midnight.Add(12 * time.Hour)},
	}
	for _, a := range answers {
		a.Mode = store.ModeRandom
		_, err := s.Answers().Append(ctx, a)
		require.NoError(t, err)
	}
	e := newTestEngine(t, s)

	got, err := e.Select(ctx, Request{Strategy: StrategyIncorrectToday})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "e"}, ids(got))

	got, err = e.Select(ctx, Request{Strategy: StrategyIncorrectToday, Grade: "3"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(got))
}

func TestIncorrectTodayEmpty(t *testing.T) {
	s := openTestStore(t)
	standardCorpus(t, s)

	got, err := newTestEngine(t, s).Select(context.Background(), Request{Strategy: StrategyIncorrectToday})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStrategyMode(t *testing.T) {
	tests := map[Strategy]store.StudyMode{
		StrategyRandom:         store.ModeRandom,
		StrategyCategory:       store.ModeCategory,
		StrategyYear:           store.ModeYear,
		StrategyWeakness:       store.ModeWeakness,
		StrategyBookmarked:     store.ModeReview,
		StrategyIncorrectToday: store.ModeReview,
	}
	for st, want := range tests {
		assert.Equal(t, want, st.Mode(), st)
	}
}

func TestStrategyWholeSet(t *testing.T) {
	for _, st := range Strategies {
		assert.Equal(t, st == StrategyBookmarked, st.WholeSet(), st)
	}
}

func TestParseStrategy(t *testing.T) {
	st, err := ParseStrategy("incorrect-today")
	require.NoError(t, err)
	assert.Equal(t, StrategyIncorrectToday, st)

	_, err = ParseStrategy("nope")
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestShuffleIsUniform(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	in := []int{1, 2, 3}
	counts := map[string]int{}
	const trials = 60000
	for i := 0; i < trials; i++ {
		counts[fmt.Sprint(Shuffle(r, in))]++
	}
	assert.Equal(t, []int{1, 2, 3}, in, "input must not be modified")
	require.Len(t, counts, 6)
	for perm, n := range counts {
		assert.InDelta(t, trials/6, n, trials/60, perm)
	}
}
