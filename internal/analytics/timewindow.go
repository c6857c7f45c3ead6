package analytics

import "time"

// Window holds half-open [start, end) ranges for the day, Monday-start week and month that
// contain a reference instant, expressed in that instant's location.
type Window struct {
	Now        time.Time `json:"now"`
	DayStart   time.Time `json:"day_start"`
	DayEnd     time.Time `json:"day_end"`
	WeekStart  time.Time `json:"week_start"`
	WeekEnd    time.Time `json:"week_end"`
	MonthStart time.Time `json:"month_start"`
	MonthEnd   time.Time `json:"month_end"`
}

// NewWindow computes the calendar window around now.
func NewWindow(now time.Time) Window {
	day := StartOfDay(now)
	week := day.AddDate(0, 0, -WeekdayIndex(day.Weekday()))
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return Window{
		Now:        now,
		DayStart:   day,
		DayEnd:     day.AddDate(0, 0, 1),
		WeekStart:  week,
		WeekEnd:    week.AddDate(0, 0, 7),
		MonthStart: month,
		MonthEnd:   month.AddDate(0, 1, 0),
	}
}

// Today reports whether t falls on the window's day.
func (w Window) Today(t time.Time) bool {
	return inRange(t, w.DayStart, w.DayEnd)
}

// ThisWeek reports whether t falls in the window's Monday-start week.
func (w Window) ThisWeek(t time.Time) bool {
	return inRange(t, w.WeekStart, w.WeekEnd)
}

// ThisMonth reports whether t falls in the window's month.
func (w Window) ThisMonth(t time.Time) bool {
	return inRange(t, w.MonthStart, w.MonthEnd)
}

// TodayIndex is today's Monday=0 weekday index.
func (w Window) TodayIndex() int {
	return WeekdayIndex(w.DayStart.Weekday())
}

// SundayWeek returns the Sunday-start week containing now. Only the trainer view uses it.
func SundayWeek(now time.Time) (time.Time, time.Time) {
	day := StartOfDay(now)
	start := day.AddDate(0, 0, -int(day.Weekday()))
	return start, start.AddDate(0, 0, 7)
}

// StartOfDay truncates t to local midnight. AddDate keeps it DST-safe.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WeekdayIndex maps Go's Sunday=0 numbering to Monday=0 .. Sunday=6.
func WeekdayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// WeekOfMonth places a day of the month into one of four buckets; days 22 onwards all land in
// the last one.
func WeekOfMonth(t time.Time) int {
	idx := (t.Day() - 1) / 7
	if idx > 3 {
		return 3
	}
	return idx
}

func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}
