package mastery

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fpdrill/fpdrill/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	s := openTestStore(t)
	svc := NewService(s.Progress(), s.Questions())
	fixed := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	return svc, s
}

func seedQuestions(t *testing.T, s *store.Store, ids ...string) {
	t.Helper()
	var qs []store.Question
	for _, id := range ids {
		qs = append(qs, store.Question{
			ID: id, Grade: "3", Year: 2024, Session: "5月", Category: "tax-planning",
			QuestionType: "multiple-choice", QuestionText: id, Options: []string{"a", "b"},
			Difficulty: "easy", CreatedAt: time.Now(), UpdatedAt: time.Now(),
		})
	}
	require.NoError(t, s.Questions().BulkPut(context.Background(), qs))
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		correct, attempts int
		want              Level
	}{
		{0, 0, LevelUnseen},
		{0, 1, LevelAttempted},
		{1, 1, LevelAttempted},
		{0, 2, LevelAttempted},
		{1, 2, LevelLearning},   // 50%
		{1, 3, LevelAttempted},  // 33%
		{2, 5, LevelLearning},   // 40%
		{2, 2, LevelUnderstood}, // 100% but only 2 correct
		{3, 5, LevelUnderstood}, // 60%
		{3, 4, LevelUnderstood}, // 75%
		{3, 3, LevelAcquired},
		{4, 5, LevelAcquired}, // 80%
		{5, 5, LevelComplete},
		{9, 10, LevelComplete}, // 90%
		{8, 10, LevelAcquired}, // 80%
		{5, 6, LevelAcquired},  // 83%
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_of_%d", tt.correct, tt.attempts), func(t *testing.T) {
			assert.Equal(t, tt.want, LevelFor(tt.correct, tt.attempts))
		})
	}
}

func TestBucketFor(t *testing.T) {
	want := map[Level]Bucket{
		LevelUnseen:     BucketNew,
		LevelAttempted:  BucketLearning,
		LevelLearning:   BucketLearning,
		LevelUnderstood: BucketFamiliar,
		LevelAcquired:   BucketMastered,
		LevelComplete:   BucketMastered,
	}
	for l, b := range want {
		assert.Equal(t, b, BucketFor(l), "level %s", l)
	}
}

func TestRecordAnswerIsOrderIndependent(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 25; trial++ {
		svc, _ := newTestService(t)
		n := 1 + rng.Intn(12)
		answers := make([]bool, n)
		for i := range answers {
			answers[i] = rng.Intn(3) > 0
		}

		var last store.Progress
		for _, correct := range answers {
			p, _, err := svc.RecordAnswer(ctx, "q1", correct)
			require.NoError(t, err)
			require.LessOrEqual(t, p.CorrectCount, p.TotalAttempts)
			last = p
		}

		// Replaying the same answers in another order lands on the same level.
		shuffled := append([]bool(nil), answers...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		var replay store.Progress
		for _, correct := range shuffled {
			p, _, err := svc.RecordAnswer(ctx, "q2", correct)
			require.NoError(t, err)
			replay = p
		}

		assert.Equal(t, last.MasteryLevel, replay.MasteryLevel, "answers %v", answers)
		assert.Equal(t, int(LevelFor(last.CorrectCount, last.TotalAttempts)), last.MasteryLevel)
		assert.Equal(t, n, last.TotalAttempts)
	}
}

func TestRecordAnswerCanDemote(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, _, err := svc.RecordAnswer(ctx, "q1", true)
		require.NoError(t, err)
	}
	p, err := svc.Get(ctx, "q1")
	require.NoError(t, err)
	assert.Equal(t, int(LevelAcquired), p.MasteryLevel)

	p, tr, err := svc.RecordAnswer(ctx, "q1", false)
	require.NoError(t, err)
	assert.Equal(t, int(LevelUnderstood), p.MasteryLevel) // 3/4 = 75%
	assert.True(t, tr.Changed())
	assert.False(t, tr.Promoted())
	assert.Equal(t, LevelAcquired, tr.From)
}

func TestRecordAnswerFirstAttempt(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p, tr, err := svc.RecordAnswer(ctx, "q1", false)
	require.NoError(t, err)
	assert.Equal(t, 1, p.TotalAttempts)
	assert.Equal(t, 0, p.CorrectCount)
	assert.Equal(t, int(LevelAttempted), p.MasteryLevel)
	require.NotNil(t, p.LastAnsweredAt)
	assert.True(t, tr.Promoted())
	assert.Equal(t, LevelUnseen, tr.From)
}

func TestToggleBookmark(t *testing.T) {
	svc, s := newTestService(t)
	ctx := context.Background()

	on, err := svc.ToggleBookmark(ctx, "q1")
	require.NoError(t, err)
	assert.True(t, on)

	p, found, err := s.Progress().Get(ctx, "q1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Zero(t, p.TotalAttempts)
	assert.Zero(t, p.MasteryLevel)
	assert.Nil(t, p.LastAnsweredAt)

	_, _, err = svc.RecordAnswer(ctx, "q1", true)
	require.NoError(t, err)

	on, err = svc.ToggleBookmark(ctx, "q1")
	require.NoError(t, err)
	assert.False(t, on)

	p, err = svc.Get(ctx, "q1")
	require.NoError(t, err)
	assert.Equal(t, 1, p.CorrectCount, "bookmark toggle must not touch stats")
}

func TestSetNotes(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.SetNotes(ctx, "q1", "相続税の基礎控除"))
	p, err := svc.Get(ctx, "q1")
	require.NoError(t, err)
	assert.Equal(t, "相続税の基礎控除", p.Notes)
	assert.Zero(t, p.TotalAttempts)

	_, _, err = svc.RecordAnswer(ctx, "q1", true)
	require.NoError(t, err)
	require.NoError(t, svc.SetNotes(ctx, "q1", "updated"))

	p, err = svc.Get(ctx, "q1")
	require.NoError(t, err)
	assert.Equal(t, "updated", p.Notes)
	assert.Equal(t, 1, p.TotalAttempts)
}

func TestMasteryDistributionSumsToTotal(t *testing.T) {
	svc, s := newTestService(t)
	ctx := context.Background()
	seedQuestions(t, s, "q1", "q2", "q3", "q4", "q5", "q6")

	// q1: mastered, q2: familiar, q3: learning, q4: bookmark only.
	for i := 0; i < 3; i++ {
		_, _, err := svc.RecordAnswer(ctx, "q1", true)
		require.NoError(t, err)
	}
	for _, c := range []bool{true, true, false} {
		_, _, err := svc.RecordAnswer(ctx, "q2", c)
		require.NoError(t, err)
	}
	_, _, err := svc.RecordAnswer(ctx, "q3", false)
	require.NoError(t, err)
	_, err = svc.ToggleBookmark(ctx, "q4")
	require.NoError(t, err)

	// Progress for a question that is no longer in the corpus.
	_, _, err = svc.RecordAnswer(ctx, "gone", true)
	require.NoError(t, err)

	d, err := svc.MasteryDistribution(ctx)
	require.NoError(t, err)
	assert.Equal(t, Distribution{Mastered: 1, Familiar: 1, Learning: 1, New: 3, Total: 6}, d)
	assert.Equal(t, d.Total, d.Mastered+d.Familiar+d.Learning+d.New)

	counts, err := svc.LevelCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, [6]int{3, 1, 0, 1, 1, 0}, counts)
}

func TestMasteryDistributionEmpty(t *testing.T) {
	svc, _ := newTestService(t)
	d, err := svc.MasteryDistribution(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Distribution{}, d)
}
