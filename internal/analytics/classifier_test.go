package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/studio-console-api/internal/models"
)

func TestTrainerNamePriority(t *testing.T) {
	cases := []struct {
		name   string
		fields map[string]interface{}
		want   string
	}{
		{name: "trainerName wins", fields: map[string]interface{}{"trainerName": "Maya", "trainer": "Deniz", "instructorName": "Kerem"}, want: "Maya"},
		{name: "trainer before instructorName", fields: map[string]interface{}{"trainer": "Deniz", "instructorName": "Kerem", "teacherName": "Ece"}, want: "Deniz"},
		{name: "blank values are skipped", fields: map[string]interface{}{"trainerName": "   ", "teacherName": "Ece"}, want: "Ece"},
		{name: "object trainer is skipped", fields: map[string]interface{}{"trainer": map[string]interface{}{"id": "x"}, "instructorName": "Kerem"}, want: "Kerem"},
		{name: "sentinel", fields: map[string]interface{}{}, want: UnspecifiedTrainer},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TrainerName(doc("l", tc.fields)))
		})
	}
}

func TestLessonTitlePrefersLessonType(t *testing.T) {
	assert.Equal(t, "Reformer", LessonTitle(doc("l", map[string]interface{}{"name": "Morning", "lessonType": "Reformer"})))
	assert.Equal(t, "Mat", LessonTitle(doc("l", map[string]interface{}{"title": "Evening", "type": "Mat"})))
	assert.Equal(t, "Evening", LessonTitle(doc("l", map[string]interface{}{"title": "Evening"})))
	assert.Equal(t, DefaultLessonTitle, LessonTitle(doc("l", nil)))
}

func TestChainLookupSkipsFallback(t *testing.T) {
	_, ok := TrainerNameChain.Lookup(doc("l", nil))
	assert.False(t, ok)
	assert.Equal(t, "unspecified", TrainerName(doc("l", nil)))

	custom := NewChain("none", func(models.Document) string { return "" }, Field("a"))
	assert.Equal(t, "x", custom.Resolve(doc("l", map[string]interface{}{"a": "x"})))
	assert.Equal(t, "none", custom.Resolve(doc("l", nil)))
}

func TestClassifyRoleAndStatus(t *testing.T) {
	assert.Equal(t, models.RoleInstructor, ClassifyRole(doc("u", map[string]interface{}{"role": " Instructor "})))
	assert.Equal(t, models.RoleCustomer, ClassifyRole(doc("u", map[string]interface{}{"role": "customer"})))
	assert.Equal(t, models.RoleUnknown, ClassifyRole(doc("u", map[string]interface{}{"role": 3})))
	assert.Equal(t, models.RoleUnknown, ClassifyRole(doc("u", map[string]interface{}{"role": "Receptionist"})))
	assert.Equal(t, models.RoleUnlabeled, ClassifyRole(doc("u", map[string]interface{}{"role": "  "})))
	assert.Equal(t, models.RoleUnlabeled, ClassifyRole(doc("u", nil)))

	assert.Equal(t, models.LessonCancelled, ClassifyLessonStatus(doc("l", map[string]interface{}{"status": "Canceled"})))
	assert.Equal(t, models.LessonDeleted, ClassifyLessonStatus(doc("l", map[string]interface{}{"isDeleted": true})))
	assert.Equal(t, models.LessonActive, ClassifyLessonStatus(doc("l", map[string]interface{}{"status": "scheduled"})))

	assert.Equal(t, models.TransactionExpense, ClassifyTransactionType(doc("t", map[string]interface{}{"type": "EXPENSE"})))
	assert.Equal(t, models.TransactionUnknown, ClassifyTransactionType(doc("t", map[string]interface{}{"type": "refund"})))
	assert.Equal(t, OtherCategory, Category("  "))
}

func TestParseStartHour(t *testing.T) {
	valid := map[string]int{"09:15": 9, "9.30": 9, "7 pm": 19, "12am": 0, "12:00 PM": 12, "23:59": 23, "0": 0, "18h00": 18}
	for raw, want := range valid {
		got, ok := ParseStartHour(raw)
		require.True(t, ok, raw)
		assert.Equal(t, want, got, raw)
	}
	for _, raw := range []string{"", "morning", "24:00", "13 pm", "123", "9-10"} {
		_, ok := ParseStartHour(raw)
		assert.False(t, ok, raw)
	}
}

func TestDecodeLessonNormalisesWeekday(t *testing.T) {
	cases := map[string]struct {
		raw  interface{}
		want int
	}{
		"sunday zero":     {raw: float64(0), want: 6},
		"monday one":      {raw: float64(1), want: 0},
		"iso sunday":      {raw: 7, want: 6},
		"numeric string":  {raw: "3", want: 2},
		"english name":    {raw: "Friday", want: 4},
		"short name":      {raw: "sat", want: 5},
		"out of range":    {raw: 9, want: models.NoWeekday},
		"unknown weekday": {raw: "someday", want: models.NoWeekday},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			lesson := DecodeLesson(doc("l", map[string]interface{}{"dayOfWeek": tc.raw}), time.UTC)
			assert.Equal(t, tc.want, lesson.Weekday)
		})
	}
}

func TestDecodeLessonFields(t *testing.T) {
	lesson := DecodeLesson(doc("l1", map[string]interface{}{
		"scheduledDate":   "2024-03-13",
		"recurringDay":    2,
		"time":            "09:15",
		"instructorId":    "t1",
		"teacherName":     "Maya",
		"className":       "Pilates",
		"participants":    []interface{}{"a", "b"},
		"attendees":       []interface{}{map[string]interface{}{"id": "c"}},
		"maxParticipants": float64(12),
		"status":          "cancelled",
	}), time.UTC)

	require.NotNil(t, lesson.ScheduledDate)
	assert.Equal(t, time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC), *lesson.ScheduledDate)
	assert.Equal(t, 1, lesson.Weekday)
	assert.False(t, lesson.IsRecurring())
	assert.Equal(t, "09:15", lesson.StartTime)
	assert.Equal(t, "t1", lesson.TrainerID)
	assert.Equal(t, "Maya", lesson.TrainerName)
	assert.Equal(t, "Pilates", lesson.Title)
	assert.Equal(t, []string{"a", "b"}, lesson.Participants)
	assert.Equal(t, []string{"c"}, lesson.Attendees)
	assert.Equal(t, 12, lesson.Capacity)
	assert.True(t, lesson.Excluded())
}

func TestDecodeTransactionCoercesAmounts(t *testing.T) {
	bad := DecodeTransaction(doc("t1", map[string]interface{}{"type": "income", "amount": "n/a"}), time.UTC)
	assert.True(t, bad.Amount.IsZero())
	assert.Equal(t, OtherCategory, bad.Category)
	assert.Nil(t, bad.Date)

	negative := DecodeTransaction(doc("t2", map[string]interface{}{
		"type":            "expense",
		"amount":          float64(-49.5),
		"transactionDate": map[string]interface{}{"_seconds": float64(1710000000)},
		"userId":          "m1",
		"status":          "Pending",
	}), time.UTC)
	assert.Equal(t, "49.5", negative.Amount.String())
	require.NotNil(t, negative.Date)
	assert.Equal(t, int64(1710000000), negative.Date.Unix())
	assert.Equal(t, "m1", negative.MemberID)
	assert.True(t, negative.IsPending())
}

func TestDecodeUserDerivesFirstName(t *testing.T) {
	u := DecodeUser(doc("u1", map[string]interface{}{
		"role":              "trainer",
		"displayName":       "Maya Demir",
		"remainingClasses":  "-2",
		"isActive":          false,
		"packageExpiryDate": "2024-03-01T00:00:00Z",
	}), time.UTC)

	assert.Equal(t, models.RoleTrainer, u.Role)
	assert.Equal(t, "Maya", u.FirstName)
	assert.Equal(t, 0, u.RemainingClasses)
	require.NotNil(t, u.IsActive)
	assert.False(t, *u.IsActive)
	require.NotNil(t, u.PackageExpiry)
	assert.Equal(t, "Maya Demir", u.FullName())
}

func TestUnknownRoleIsNeitherMemberNorStaff(t *testing.T) {
	receptionist := DecodeUser(doc("r1", map[string]interface{}{
		"role":              "receptionist",
		"remainingClasses":  3,
		"packageExpiryDate": refNow.AddDate(0, 0, -10).Format(time.RFC3339),
	}), time.UTC)

	assert.Equal(t, models.RoleUnknown, receptionist.Role)
	assert.False(t, receptionist.IsMember())
	assert.False(t, receptionist.Role.IsStaff())

	report := ClassifyPackages([]models.UserRecord{receptionist}, refNow)
	assert.Empty(t, report.ExpiredWithCredits)
	assert.Equal(t, 0, Overview(Snapshot{Users: []models.UserRecord{receptionist}}, refNow).TotalMembers)
}
