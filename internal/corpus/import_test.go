package corpus

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fpdrill/fpdrill/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func record(id string, overrides ...string) string {
	fields := map[string]string{
		"id":            fmt.Sprintf("%q", id),
		"grade":         `"3"`,
		"year":          "2024",
		"session":       `"5月"`,
		"category":      `"tax-planning"`,
		"subcategory":   `"所得税"`,
		"questionType":  `"multiple-choice"`,
		"questionText":  `"次のうち正しいものはどれか。"`,
		"options":       `["a","b","c"]`,
		"correctAnswer": "2",
		"explanation":   `"解説"`,
		"difficulty":    `"medium"`,
		"tags":          `["所得税"]`,
	}
	for i := 0; i+1 < len(overrides); i += 2 {
		if overrides[i+1] == "" {
			delete(fields, overrides[i])
			continue
		}
		fields[overrides[i]] = overrides[i+1]
	}
	var parts []string
	for k, v := range fields {
		parts = append(parts, fmt.Sprintf("%q:%s", k, v))
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func TestParseShapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"array", "[" + record("a") + "," + record("b") + "]", 2},
		{"wrapped", `{"questions":[` + record("a") + `]}`, 1},
		{"empty array", "[]", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qs, err := Parse(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Len(t, qs, tt.want)
		})
	}
}

func TestParseDecodesFields(t *testing.T) {
	qs, err := Parse(strings.NewReader("[" + record("fp3-1", "createdAt", `"2024-05-26T10:00:00Z"`) + "]"))
	require.NoError(t, err)
	require.Len(t, qs, 1)

	q := qs[0]
	assert.Equal(t, "fp3-1", q.ID)
	assert.Equal(t, 2024, q.Year)
	assert.Equal(t, "5月", q.Session)
	assert.Equal(t, []string{"a", "b", "c"}, q.Options)
	assert.Equal(t, 2, q.CorrectAnswer)
	assert.Equal(t, 2024, q.CreatedAt.Year())
}

func TestParseRejectsBatch(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantIndex int
	}{
		{"not json", "{{", -1},
		{"scalar", "42", -1},
		{"object without questions", `{"items":[]}`, -1},
		{"unknown category", "[" + record("a") + "," + record("b", "category", `"astrology"`) + "]", 1},
		{"bad grade", "[" + record("a", "grade", `"1"`) + "]", 0},
		{"missing text", "[" + record("a", "questionText", "") + "]", 0},
		{"answer out of range", "[" + record("a", "correctAnswer", "3") + "]", 0},
		{"negative answer", "[" + record("a", "correctAnswer", "-1") + "]", 0},
		{"too few options", "[" + record("a", "options", `["only"]`) + "]", 0},
		{"duplicate id", "[" + record("a") + "," + record("a") + "]", 1},
		{"bad timestamp", "[" + record("a", "createdAt", `"yesterday"`) + "]", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qs, err := Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Nil(t, qs)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected *ValidationError, got %T", err)
			require.NotEmpty(t, verr.Issues)
			assert.Equal(t, tt.wantIndex, verr.Issues[0].Index)
			assert.NotEmpty(t, verr.Issues[0].Reason)
		})
	}
}

func TestImportIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	file := "[" + record("a") + "," + record("b") + "," + record("c", "grade", `"2"`) + "]"

	n, err := Import(ctx, s.Questions(), strings.NewReader(file))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	first, err := s.Questions().Query(ctx, store.QuestionFilter{})
	require.NoError(t, err)

	n, err = Import(ctx, s.Questions(), strings.NewReader(file))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	second, err := s.Questions().Query(ctx, store.QuestionFilter{})
	require.NoError(t, err)
	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].QuestionText, second[i].QuestionText)
		assert.Equal(t, first[i].Options, second[i].Options)
	}
}

func TestImportInvalidWritesNothing(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	file := "[" + record("a") + "," + record("b", "difficulty", `"extreme"`) + "]"

	n, err := Import(ctx, s.Questions(), strings.NewReader(file))
	require.Error(t, err)
	assert.Zero(t, n)

	count, err := s.Questions().Count(ctx, store.QuestionFilter{})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestImportDefaultsTimestamps(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := Import(ctx, s.Questions(), strings.NewReader("["+record("a")+"]"))
	require.NoError(t, err)

	q, found, err := s.Questions().Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, found)
	assert.False(t, q.CreatedAt.IsZero())
	assert.True(t, q.UpdatedAt.Equal(q.CreatedAt))
}

func TestCategoryCatalogue(t *testing.T) {
	ids := CategoryIDs()
	assert.Len(t, ids, 6)
	assert.Equal(t, "life-planning", ids[0])

	c, ok := LookupCategory("inheritance")
	require.True(t, ok)
	assert.Equal(t, "相続", c.ShortName)

	_, ok = LookupCategory("astrology")
	assert.False(t, ok)

	cs := Categories()
	cs[0].Name = "mutated"
	assert.NotEqual(t, "mutated", Categories()[0].Name)
}
