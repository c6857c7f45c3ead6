package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewWindowMidWeek(t *testing.T) {
	w := NewWindow(refNow)

	assert.Equal(t, time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC), w.DayStart)
	assert.Equal(t, time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), w.DayEnd)
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), w.WeekStart)
	assert.Equal(t, time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC), w.WeekEnd)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), w.MonthStart)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), w.MonthEnd)
	assert.Equal(t, 2, w.TodayIndex())
}

func TestNewWindowSundayBelongsToPrecedingMonday(t *testing.T) {
	sunday := time.Date(2024, 3, 17, 23, 59, 0, 0, time.UTC)
	w := NewWindow(sunday)

	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), w.WeekStart)
	assert.Equal(t, 6, w.TodayIndex())
	assert.True(t, w.ThisWeek(sunday))
	assert.False(t, w.ThisWeek(time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC)))
}

func TestNewWindowLeapDayAndMonthEnd(t *testing.T) {
	leap := time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC)
	w := NewWindow(leap)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), w.MonthEnd)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), w.DayEnd)

	newYear := NewWindow(time.Date(2024, 12, 31, 8, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), newYear.MonthEnd)
	assert.Equal(t, time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC), newYear.WeekStart)
}

func TestWeekdayIndexStartsOnMonday(t *testing.T) {
	assert.Equal(t, 0, WeekdayIndex(time.Monday))
	assert.Equal(t, 5, WeekdayIndex(time.Saturday))
	assert.Equal(t, 6, WeekdayIndex(time.Sunday))
}

func TestWeekOfMonthLastBucketAbsorbsRemainder(t *testing.T) {
	cases := map[int]int{1: 0, 7: 0, 8: 1, 14: 1, 15: 2, 21: 2, 22: 3, 28: 3, 29: 3, 31: 3}
	for dayOfMonth, want := range cases {
		got := WeekOfMonth(time.Date(2024, 1, dayOfMonth, 0, 0, 0, 0, time.UTC))
		assert.Equal(t, want, got, "day %d", dayOfMonth)
	}
}

func TestSundayWeek(t *testing.T) {
	start, end := SundayWeek(refNow)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC), end)

	start, _ = SundayWeek(time.Date(2024, 3, 17, 6, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC), start)
}
