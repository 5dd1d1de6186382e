package stats

import (
	"math"
	"sort"
	"time"

	"github.com/fpdrill/fpdrill/internal/store"
)

// DateLayout is the key format of daily stat rows.
const DateLayout = "2006-01-02"

// DayKey returns the calendar-day key of t in t's own location.
func DayKey(t time.Time) string {
	return t.Format(DateLayout)
}

// Accuracy returns correct/total as a whole percentage, rounded half up.
// It is 0 when total is 0.
func Accuracy(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Floor(float64(correct)*100/float64(total) + 0.5))
}

// Streaks computes the current and longest run of consecutive studied days.
// Only days with at least one solved question count. The current streak is
// the run ending at the last studied day, provided that day is today or
// yesterday relative to today; otherwise it is 0.
func Streaks(days []store.DailyStat, today string) (current, longest int) {
	var studied []string
	for _, d := range days {
		if d.QuestionsSolved > 0 {
			studied = append(studied, d.Date)
		}
	}
	if len(studied) == 0 {
		return 0, 0
	}
	sort.Strings(studied)

	run := 0
	for i, date := range studied {
		if i > 0 && daysBetween(studied[i-1], date) == 1 {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
	}

	if daysBetween(studied[len(studied)-1], today) <= 1 {
		current = run
	}
	return current, longest
}

// daysBetween returns the whole calendar days from a to b. Unparseable keys
// are treated as far apart.
func daysBetween(a, b string) int {
	ta, err := time.Parse(DateLayout, a)
	if err != nil {
		return math.MaxInt32
	}
	tb, err := time.Parse(DateLayout, b)
	if err != nil {
		return math.MaxInt32
	}
	return int(tb.Sub(ta).Hours() / 24)
}
