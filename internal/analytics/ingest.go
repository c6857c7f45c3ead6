package analytics

import (
	"strconv"
	"strings"
	"time"

	"github.com/noah-isme/studio-console-api/internal/models"
)

var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday, "tues": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday, "thurs": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

// DecodeLesson normalises a lesson document. All instants are expressed in loc.
func DecodeLesson(doc models.Document, loc *time.Location) models.LessonRecord {
	lesson := models.LessonRecord{
		ID:           doc.ID,
		Weekday:      models.NoWeekday,
		StartTime:    StartTimeChain.Resolve(doc),
		TrainerID:    TrainerIDChain.Resolve(doc),
		TrainerName:  TrainerName(doc),
		Title:        LessonTitle(doc),
		Participants: doc.StringList("participants"),
		Attendees:    doc.StringList("attendees"),
		Status:       ClassifyLessonStatus(doc),
		Raw:          doc,
	}
	lesson.ScheduledDate = firstDate(doc, loc, "scheduledDate", "date")
	for _, key := range []string{"dayOfWeek", "recurringDay", "weekday"} {
		if idx, ok := parseWeekday(doc, key); ok {
			lesson.Weekday = idx
			break
		}
	}
	for _, key := range []string{"capacity", "maxParticipants"} {
		if n, ok := doc.Int(key); ok && n >= 0 {
			lesson.Capacity = n
			break
		}
	}
	return lesson
}

// DecodeTransaction normalises a transaction document. Negative amounts are stored as their
// magnitude; unparsable amounts are zero.
func DecodeTransaction(doc models.Document, loc *time.Location) models.TransactionRecord {
	return models.TransactionRecord{
		ID:       doc.ID,
		Type:     ClassifyTransactionType(doc),
		Amount:   doc.Decimal("amount").Abs(),
		Category: Category(doc.String("category")),
		Date:     firstDate(doc, loc, "date", "transactionDate", "createdAt"),
		MemberID: firstString(doc, "memberId", "userId"),
		Status:   doc.LowerString("status"),
		Raw:      doc,
	}
}

// DecodeUser normalises a user document.
func DecodeUser(doc models.Document, loc *time.Location) models.UserRecord {
	user := models.UserRecord{
		ID:             doc.ID,
		Role:           ClassifyRole(doc),
		Status:         doc.LowerString("status"),
		MembershipType: doc.LowerString("membershipType"),
		PackageExpiry:  firstDate(doc, loc, "packageExpiryDate", "packageExpiry", "expiryDate"),
		Email:          doc.String("email"),
		DisplayName:    doc.String("displayName"),
		Name:           doc.String("name"),
		FirstName:      doc.String("firstName"),
		FCMToken:       firstString(doc, "fcmToken", "pushToken"),
		CreatedAt:      firstDate(doc, loc, "createdAt"),
		Raw:            doc,
	}
	if n, ok := doc.Int("remainingClasses"); ok && n > 0 {
		user.RemainingClasses = n
	}
	if active, ok := doc.Bool("isActive"); ok {
		user.IsActive = &active
	}
	if user.FirstName == "" {
		user.FirstName = firstWord(user.DisplayName)
		if user.FirstName == "" {
			user.FirstName = firstWord(user.Name)
		}
	}
	return user
}

// DecodeEquipment normalises an equipment document.
func DecodeEquipment(doc models.Document) models.EquipmentRecord {
	item := models.EquipmentRecord{
		ID:       doc.ID,
		Name:     doc.String("name"),
		Category: doc.String("category"),
		Status:   doc.LowerString("status"),
		Quantity: 1,
		Raw:      doc,
	}
	if n, ok := doc.Int("quantity"); ok && n >= 0 {
		item.Quantity = n
	}
	return item
}

// DecodeLessons decodes every document in order.
func DecodeLessons(docs []models.Document, loc *time.Location) []models.LessonRecord {
	out := make([]models.LessonRecord, 0, len(docs))
	for _, doc := range docs {
		out = append(out, DecodeLesson(doc, loc))
	}
	return out
}

// DecodeTransactions decodes every document in order.
func DecodeTransactions(docs []models.Document, loc *time.Location) []models.TransactionRecord {
	out := make([]models.TransactionRecord, 0, len(docs))
	for _, doc := range docs {
		out = append(out, DecodeTransaction(doc, loc))
	}
	return out
}

// DecodeUsers decodes every document in order.
func DecodeUsers(docs []models.Document, loc *time.Location) []models.UserRecord {
	out := make([]models.UserRecord, 0, len(docs))
	for _, doc := range docs {
		out = append(out, DecodeUser(doc, loc))
	}
	return out
}

// DecodeEquipmentList decodes every document in order.
func DecodeEquipmentList(docs []models.Document) []models.EquipmentRecord {
	out := make([]models.EquipmentRecord, 0, len(docs))
	for _, doc := range docs {
		out = append(out, DecodeEquipment(doc))
	}
	return out
}

// ParseStartHour reads the hour from free-text start times such as "09:15", "9.30", "7 pm" or
// "19". It reports false when no hour in 0-23 can be found.
func ParseStartHour(raw string) (int, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return 0, false
	}
	meridiem := ""
	switch {
	case strings.HasSuffix(s, "am"):
		meridiem, s = "am", strings.TrimSpace(strings.TrimSuffix(s, "am"))
	case strings.HasSuffix(s, "pm"):
		meridiem, s = "pm", strings.TrimSpace(strings.TrimSuffix(s, "pm"))
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 || end > 2 {
		return 0, false
	}
	if end < len(s) && s[end] != ':' && s[end] != '.' && s[end] != 'h' {
		return 0, false
	}
	hour, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	switch meridiem {
	case "am":
		if hour < 1 || hour > 12 {
			return 0, false
		}
		if hour == 12 {
			hour = 0
		}
	case "pm":
		if hour < 1 || hour > 12 {
			return 0, false
		}
		if hour != 12 {
			hour += 12
		}
	}
	if hour > 23 {
		return 0, false
	}
	return hour, true
}

// parseWeekday accepts Sunday=0 numbering (7 is also Sunday), numeric strings and English names,
// and returns the Monday=0 index.
func parseWeekday(doc models.Document, key string) (int, bool) {
	if n, ok := doc.Int(key); ok {
		if n < 0 || n > 7 {
			return 0, false
		}
		return WeekdayIndex(time.Weekday(n % 7)), true
	}
	name := doc.LowerString(key)
	if name == "" {
		return 0, false
	}
	if d, ok := weekdayNames[name]; ok {
		return WeekdayIndex(d), true
	}
	return 0, false
}

func firstDate(doc models.Document, loc *time.Location, keys ...string) *time.Time {
	if loc == nil {
		loc = time.Local
	}
	for _, key := range keys {
		if t, ok := doc.Date(key).Time(loc); ok {
			local := t.In(loc)
			return &local
		}
	}
	return nil
}

func firstString(doc models.Document, keys ...string) string {
	for _, key := range keys {
		if v := doc.String(key); v != "" {
			return v
		}
	}
	return ""
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
