package analytics

import (
	"time"

	"github.com/noah-isme/studio-console-api/internal/models"
)

// Series is one chart of participant counts. Placeholder marks illustrative data substituted
// because no real activity was found.
type Series struct {
	Labels            []string `json:"labels"`
	Values            []int    `json:"values"`
	Total             int      `json:"total"`
	Placeholder       bool     `json:"placeholder"`
	FallbackWeeksBack int      `json:"fallback_weeks_back,omitempty"`
}

// AttendanceReport bundles the three attendance charts.
type AttendanceReport struct {
	Daily   Series `json:"daily"`
	Weekly  Series `json:"weekly"`
	Monthly Series `json:"monthly"`
}

// Index of the daily bucket for unparsed start times.
const otherTimeSlot = 6

// maxFallbackWeeks bounds how far back the weekly chart looks for activity.
const maxFallbackWeeks = 4

var (
	dailyLabels   = []string{"00-04", "04-08", "08-12", "12-16", "16-20", "20-24", "Other"}
	weekdayLabels = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	monthLabels   = []string{"Week 1", "Week 2", "Week 3", "Week 4"}

	// weeklyBaseline is shown, flagged as placeholder, when neither this week nor the four
	// before it had any booked participants.
	weeklyBaseline = []int{12, 15, 18, 14, 20, 10, 8}
)

// Attendance computes all three charts for the calendar window around now.
func Attendance(lessons []models.LessonRecord, now time.Time) AttendanceReport {
	return AttendanceReport{
		Daily:   DailyAttendance(lessons, now),
		Weekly:  WeeklyAttendance(lessons, now),
		Monthly: MonthlyAttendance(lessons, now),
	}
}

// IsToday reports whether a lesson takes place on the window's day. A fixed date wins over a
// recurring weekday.
func IsToday(lesson models.LessonRecord, w Window) bool {
	if lesson.Excluded() {
		return false
	}
	if lesson.HasFixedDate() {
		return w.Today(*lesson.ScheduledDate)
	}
	return lesson.IsRecurring() && lesson.Weekday == w.TodayIndex()
}

// TodaysLessons filters the lessons that take place today.
func TodaysLessons(lessons []models.LessonRecord, now time.Time) []models.LessonRecord {
	w := NewWindow(now)
	out := make([]models.LessonRecord, 0)
	for _, lesson := range lessons {
		if IsToday(lesson, w) {
			out = append(out, lesson)
		}
	}
	return out
}

// DailyAttendance buckets today's participants into four-hour slots by start time.
func DailyAttendance(lessons []models.LessonRecord, now time.Time) Series {
	values := make([]int, len(dailyLabels))
	for _, lesson := range TodaysLessons(lessons, now) {
		slot := otherTimeSlot
		if hour, ok := ParseStartHour(lesson.StartTime); ok {
			slot = hour / 4
		}
		values[slot] += lesson.ParticipantCount()
	}
	return newSeries(dailyLabels, values)
}

// WeeklyAttendance sums participants per weekday (Monday first) for the current week. An empty
// week falls back to the most recent of the four prior weeks with fixed-date activity, then to
// a placeholder baseline.
func WeeklyAttendance(lessons []models.LessonRecord, now time.Time) Series {
	w := NewWindow(now)
	values := make([]int, len(weekdayLabels))
	for _, lesson := range lessons {
		if lesson.Excluded() {
			continue
		}
		switch {
		case lesson.HasFixedDate():
			if w.ThisWeek(*lesson.ScheduledDate) {
				values[dayIndexIn(*lesson.ScheduledDate, now.Location())] += lesson.ParticipantCount()
			}
		case lesson.IsRecurring():
			values[lesson.Weekday] += lesson.ParticipantCount()
		}
	}
	if sum(values) > 0 {
		return newSeries(weekdayLabels, values)
	}

	for back := 1; back <= maxFallbackWeeks; back++ {
		start := w.WeekStart.AddDate(0, 0, -7*back)
		end := start.AddDate(0, 0, 7)
		prior := make([]int, len(weekdayLabels))
		for _, lesson := range lessons {
			if lesson.Excluded() || !lesson.HasFixedDate() || !inRange(*lesson.ScheduledDate, start, end) {
				continue
			}
			prior[dayIndexIn(*lesson.ScheduledDate, now.Location())] += lesson.ParticipantCount()
		}
		if sum(prior) > 0 {
			for i := range values {
				values[i] += prior[i]
			}
			series := newSeries(weekdayLabels, values)
			series.FallbackWeeksBack = back
			return series
		}
	}

	series := newSeries(weekdayLabels, append([]int(nil), weeklyBaseline...))
	series.Placeholder = true
	return series
}

// MonthlyAttendance sums participants into four week-of-month buckets. Each recurring lesson is
// added once to every bucket regardless of how often its weekday occurs in it.
func MonthlyAttendance(lessons []models.LessonRecord, now time.Time) Series {
	w := NewWindow(now)
	values := make([]int, len(monthLabels))
	recurring := 0
	for _, lesson := range lessons {
		if lesson.Excluded() {
			continue
		}
		switch {
		case lesson.HasFixedDate():
			if w.ThisMonth(*lesson.ScheduledDate) {
				values[WeekOfMonth(lesson.ScheduledDate.In(now.Location()))] += lesson.ParticipantCount()
			}
		case lesson.IsRecurring():
			recurring += lesson.ParticipantCount()
		}
	}
	for i := range values {
		values[i] += recurring
	}
	return newSeries(monthLabels, values)
}

func newSeries(labels []string, values []int) Series {
	return Series{
		Labels: append([]string(nil), labels...),
		Values: values,
		Total:  sum(values),
	}
}

func dayIndexIn(t time.Time, loc *time.Location) int {
	return WeekdayIndex(t.In(loc).Weekday())
}

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}
