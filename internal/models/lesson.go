package models

import "time"

// LessonStatus is the normalised lifecycle state of a lesson.
type LessonStatus string

const (
	LessonActive    LessonStatus = "active"
	LessonCancelled LessonStatus = "cancelled"
	LessonDeleted   LessonStatus = "deleted"
)

// NoWeekday marks a lesson without a recurring weekday.
const NoWeekday = -1

// LessonRecord is a lesson normalised from the lessons collection. A lesson may carry a fixed
// date, a recurring weekday (Monday=0), both, or neither.
type LessonRecord struct {
	ID            string       `json:"id"`
	ScheduledDate *time.Time   `json:"scheduled_date,omitempty"`
	Weekday       int          `json:"weekday"`
	StartTime     string       `json:"start_time,omitempty"`
	TrainerID     string       `json:"trainer_id,omitempty"`
	TrainerName   string       `json:"trainer_name"`
	Title         string       `json:"title"`
	Participants  []string     `json:"participants"`
	Attendees     []string     `json:"attendees,omitempty"`
	Capacity      int          `json:"capacity"`
	Status        LessonStatus `json:"status"`
	Raw           Document     `json:"-"`
}

// HasFixedDate reports whether the lesson is pinned to a calendar date.
func (l LessonRecord) HasFixedDate() bool {
	return l.ScheduledDate != nil
}

// IsRecurring reports whether the lesson repeats weekly without a fixed date.
func (l LessonRecord) IsRecurring() bool {
	return l.ScheduledDate == nil && l.Weekday >= 0 && l.Weekday <= 6
}

// ParticipantCount is the number of booked participants.
func (l LessonRecord) ParticipantCount() int {
	return len(l.Participants)
}

// Excluded reports whether the lesson is cancelled or deleted.
func (l LessonRecord) Excluded() bool {
	return l.Status == LessonCancelled || l.Status == LessonDeleted
}
