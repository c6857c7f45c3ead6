package analytics

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/studio-console-api/internal/models"
)

// refNow is Wednesday 13 March 2024, 10:30 UTC.
var refNow = time.Date(2024, 3, 13, 10, 30, 0, 0, time.UTC)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 9, 0, 0, 0, time.UTC)
	return &t
}

func datedLesson(id string, date *time.Time, start string, participants ...string) models.LessonRecord {
	return models.LessonRecord{
		ID:            id,
		ScheduledDate: date,
		Weekday:       models.NoWeekday,
		StartTime:     start,
		TrainerName:   UnspecifiedTrainer,
		Participants:  participants,
		Status:        models.LessonActive,
	}
}

func recurringLesson(id string, weekday int, start string, participants ...string) models.LessonRecord {
	return models.LessonRecord{
		ID:           id,
		Weekday:      weekday,
		StartTime:    start,
		TrainerName:  UnspecifiedTrainer,
		Participants: participants,
		Status:       models.LessonActive,
	}
}

func doc(id string, fields map[string]interface{}) models.Document {
	return models.NewDocument(id, fields)
}

func randomLessons(r *rand.Rand, n int) []models.LessonRecord {
	starts := []string{"06:00", "09:15", "12:00", "7 pm", "23:59", "", "later", "13.30"}
	statuses := []models.LessonStatus{models.LessonActive, models.LessonActive, models.LessonActive, models.LessonCancelled, models.LessonDeleted}
	out := make([]models.LessonRecord, 0, n)
	for i := 0; i < n; i++ {
		participants := make([]string, r.Intn(6))
		for j := range participants {
			participants[j] = fmt.Sprintf("m%d", r.Intn(20))
		}
		lesson := models.LessonRecord{
			ID:           fmt.Sprintf("l%d", i),
			Weekday:      models.NoWeekday,
			StartTime:    starts[r.Intn(len(starts))],
			TrainerName:  UnspecifiedTrainer,
			Participants: participants,
			Status:       statuses[r.Intn(len(statuses))],
		}
		switch r.Intn(3) {
		case 0:
			at := refNow.Add(time.Duration(r.Intn(80*24)-40*24) * time.Hour)
			lesson.ScheduledDate = &at
		case 1:
			lesson.Weekday = r.Intn(7)
		default:
			at := refNow.Add(time.Duration(r.Intn(48)-24) * time.Hour)
			lesson.ScheduledDate = &at
			lesson.Weekday = r.Intn(7)
		}
		out = append(out, lesson)
	}
	return out
}

func randomTransactions(r *rand.Rand, n int) []models.TransactionRecord {
	types := []models.TransactionType{models.TransactionIncome, models.TransactionExpense, models.TransactionUnknown}
	categories := []string{"Membership", "Rent", "", "Equipment"}
	out := make([]models.TransactionRecord, 0, n)
	for i := 0; i < n; i++ {
		tx := models.TransactionRecord{
			ID:       fmt.Sprintf("t%d", i),
			Type:     types[r.Intn(len(types))],
			Amount:   decimal.New(int64(r.Intn(100000)), -2),
			Category: Category(categories[r.Intn(len(categories))]),
		}
		if r.Intn(5) > 0 {
			at := refNow.Add(time.Duration(r.Intn(120*24)-60*24) * time.Hour)
			tx.Date = &at
		}
		if r.Intn(4) == 0 {
			tx.Status = "pending"
		}
		out = append(out, tx)
	}
	return out
}

func randomMembers(r *rand.Rand, n int) []models.UserRecord {
	roles := []models.Role{models.RoleCustomer, models.RoleUnlabeled, models.RoleUnknown, models.RoleInstructor}
	types := []string{"basic", "premium", "unlimited", ""}
	statuses := []string{"", "active", "frozen", "inactive"}
	out := make([]models.UserRecord, 0, n)
	for i := 0; i < n; i++ {
		u := models.UserRecord{
			ID:               fmt.Sprintf("u%d", i),
			Role:             roles[r.Intn(len(roles))],
			MembershipType:   types[r.Intn(len(types))],
			Status:           statuses[r.Intn(len(statuses))],
			RemainingClasses: r.Intn(4),
		}
		if r.Intn(6) > 0 {
			at := refNow.Add(time.Duration(r.Intn(40*24)-20*24) * time.Hour)
			u.PackageExpiry = &at
		}
		out = append(out, u)
	}
	return out
}

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
