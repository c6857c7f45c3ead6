package analytics

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/noah-isme/studio-console-api/internal/models"
)

// Activity levels derived from the monthly lesson count.
const (
	ActivityHigh     = "High"
	ActivityMedium   = "Medium"
	ActivityLow      = "Low"
	ActivityInactive = "Inactive"
)

// Score weights.
const (
	lessonWeight     = 10
	attendanceWeight = 5
	uniqueWeight     = 2
)

// TrainerWindowStats is a trainer's activity within one time window.
type TrainerWindowStats struct {
	Lessons        int     `json:"lessons"`
	Attendance     int     `json:"attendance"`
	UniqueStudents int     `json:"unique_students"`
	AvgAttendance  float64 `json:"avg_attendance"`
}

// TrainerPerformance is the rollup for one staff member.
type TrainerPerformance struct {
	TrainerID        string             `json:"trainer_id"`
	Name             string             `json:"name"`
	Email            string             `json:"email,omitempty"`
	Role             models.Role        `json:"role"`
	Today            TrainerWindowStats `json:"today"`
	Week             TrainerWindowStats `json:"week"`
	Month            TrainerWindowStats `json:"month"`
	PerformanceScore int                `json:"performance_score"`
	ActivityLevel    string             `json:"activity_level"`
}

// LessonMatcher decides whether a lesson belongs to a trainer.
type LessonMatcher func(trainer models.UserRecord, lesson models.LessonRecord) bool

// TrainerMatchers are tried in order, strongest signal first. The first-name substring rule is
// a weak heuristic and may attribute lessons to the wrong trainer.
var TrainerMatchers = []LessonMatcher{
	matchTrainerID,
	matchTrainerName(func(u models.UserRecord) string { return u.Email }),
	matchTrainerName(func(u models.UserRecord) string { return u.DisplayName }),
	matchTrainerName(func(u models.UserRecord) string { return u.Name }),
	matchFirstName,
}

// LessonBelongsTo runs the matcher chain.
func LessonBelongsTo(trainer models.UserRecord, lesson models.LessonRecord) bool {
	for _, match := range TrainerMatchers {
		if match(trainer, lesson) {
			return true
		}
	}
	return false
}

// EligibleTrainer reports whether a user is staff with an active or unset status.
func EligibleTrainer(u models.UserRecord) bool {
	return u.Role.IsStaff() && (u.Status == "" || u.Status == "active")
}

// TrainerPerformanceReport rolls up fixed-date lessons per eligible trainer for today, the
// Sunday-start week and the month around now, sorted by score descending.
func TrainerPerformanceReport(users []models.UserRecord, lessons []models.LessonRecord, now time.Time) []TrainerPerformance {
	w := NewWindow(now)
	weekStart, weekEnd := SundayWeek(now)

	out := make([]TrainerPerformance, 0)
	for _, trainer := range users {
		if !EligibleTrainer(trainer) {
			continue
		}
		var today, week, month windowAccumulator
		for _, lesson := range lessons {
			if lesson.Excluded() || !lesson.HasFixedDate() || !LessonBelongsTo(trainer, lesson) {
				continue
			}
			at := *lesson.ScheduledDate
			if w.Today(at) {
				today.add(lesson)
			}
			if inRange(at, weekStart, weekEnd) {
				week.add(lesson)
			}
			if w.ThisMonth(at) {
				month.add(lesson)
			}
		}

		perf := TrainerPerformance{
			TrainerID: trainer.ID,
			Name:      trainer.FullName(),
			Email:     trainer.Email,
			Role:      trainer.Role,
			Today:     today.stats(),
			Week:      week.stats(),
			Month:     month.stats(),
		}
		perf.PerformanceScore = perf.Month.Lessons*lessonWeight +
			perf.Month.Attendance*attendanceWeight +
			perf.Month.UniqueStudents*uniqueWeight
		perf.ActivityLevel = ActivityLevel(perf.Month.Lessons)
		out = append(out, perf)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PerformanceScore != out[j].PerformanceScore {
			return out[i].PerformanceScore > out[j].PerformanceScore
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].TrainerID < out[j].TrainerID
	})
	return out
}

// ActivityLevel labels a monthly lesson count.
func ActivityLevel(monthlyLessons int) string {
	switch {
	case monthlyLessons >= 10:
		return ActivityHigh
	case monthlyLessons >= 5:
		return ActivityMedium
	case monthlyLessons > 0:
		return ActivityLow
	default:
		return ActivityInactive
	}
}

type windowAccumulator struct {
	lessons    int
	attendance int
	students   map[string]struct{}
}

func (a *windowAccumulator) add(lesson models.LessonRecord) {
	a.lessons++
	a.attendance += lesson.ParticipantCount()
	if a.students == nil {
		a.students = map[string]struct{}{}
	}
	for _, id := range lesson.Participants {
		a.students[id] = struct{}{}
	}
	for _, id := range lesson.Attendees {
		a.students[id] = struct{}{}
	}
}

func (a windowAccumulator) stats() TrainerWindowStats {
	s := TrainerWindowStats{
		Lessons:        a.lessons,
		Attendance:     a.attendance,
		UniqueStudents: len(a.students),
	}
	if a.lessons > 0 {
		s.AvgAttendance = math.Round(float64(a.attendance)/float64(a.lessons)*10) / 10
	}
	return s
}

func matchTrainerID(trainer models.UserRecord, lesson models.LessonRecord) bool {
	return lesson.TrainerID != "" && lesson.TrainerID == trainer.ID
}

func matchTrainerName(field func(models.UserRecord) string) LessonMatcher {
	return func(trainer models.UserRecord, lesson models.LessonRecord) bool {
		name := lessonTrainerName(lesson)
		want := field(trainer)
		return name != "" && want != "" && name == want
	}
}

func matchFirstName(trainer models.UserRecord, lesson models.LessonRecord) bool {
	name := lessonTrainerName(lesson)
	first := strings.TrimSpace(trainer.FirstName)
	if name == "" || first == "" {
		return false
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(first))
}

func lessonTrainerName(lesson models.LessonRecord) string {
	if lesson.TrainerName == UnspecifiedTrainer {
		return ""
	}
	return strings.TrimSpace(lesson.TrainerName)
}
