package analytics

import (
	"strings"

	"github.com/noah-isme/studio-console-api/internal/models"
)

// Sentinel labels returned when no field in a chain is populated.
const (
	UnspecifiedTrainer = "unspecified"
	DefaultLessonTitle = "Lesson"
	OtherCategory      = "Other"
)

// Extractor pulls one candidate value out of a raw document.
type Extractor func(models.Document) string

// Field extracts a trimmed scalar field.
func Field(key string) Extractor {
	return func(doc models.Document) string {
		return doc.String(key)
	}
}

// Chain tries extractors in order; the first non-empty value wins.
type Chain struct {
	extractors []Extractor
	fallback   string
}

// NewChain builds a chain that resolves to fallback when every extractor comes back empty.
func NewChain(fallback string, extractors ...Extractor) Chain {
	return Chain{extractors: extractors, fallback: fallback}
}

// FieldChain is NewChain over plain field names.
func FieldChain(fallback string, keys ...string) Chain {
	extractors := make([]Extractor, 0, len(keys))
	for _, key := range keys {
		extractors = append(extractors, Field(key))
	}
	return NewChain(fallback, extractors...)
}

// Lookup returns the first populated value without applying the fallback.
func (c Chain) Lookup(doc models.Document) (string, bool) {
	for _, extract := range c.extractors {
		if v := strings.TrimSpace(extract(doc)); v != "" {
			return v, true
		}
	}
	return "", false
}

// Resolve returns the first populated value or the fallback.
func (c Chain) Resolve(doc models.Document) string {
	if v, ok := c.Lookup(doc); ok {
		return v
	}
	return c.fallback
}

// Field priority below decides which label wins when several historical fields are populated.
var (
	TrainerNameChain = FieldChain(UnspecifiedTrainer, "trainerName", "trainer", "instructorName", "teacherName")
	TrainerIDChain   = FieldChain("", "trainerId", "instructorId")
	LessonTitleChain = FieldChain(DefaultLessonTitle, "lessonType", "type", "className", "name", "title")
	StartTimeChain   = FieldChain("", "startTime", "time")
)

// TrainerName resolves the trainer label of a lesson document.
func TrainerName(doc models.Document) string {
	return TrainerNameChain.Resolve(doc)
}

// LessonTitle resolves the display title of a lesson document.
func LessonTitle(doc models.Document) string {
	return LessonTitleChain.Resolve(doc)
}

// ClassifyRole normalises the role field. A missing or blank role is unlabeled; any other
// unrecognised label is unknown.
func ClassifyRole(doc models.Document) models.Role {
	switch doc.LowerString("role") {
	case "":
		return models.RoleUnlabeled
	case "customer":
		return models.RoleCustomer
	case "instructor":
		return models.RoleInstructor
	case "admin":
		return models.RoleAdmin
	case "trainer":
		return models.RoleTrainer
	}
	return models.RoleUnknown
}

// ClassifyLessonStatus normalises the lesson lifecycle status.
func ClassifyLessonStatus(doc models.Document) models.LessonStatus {
	switch doc.LowerString("status") {
	case "cancelled", "canceled":
		return models.LessonCancelled
	case "deleted":
		return models.LessonDeleted
	}
	if deleted, ok := doc.Bool("isDeleted"); ok && deleted {
		return models.LessonDeleted
	}
	return models.LessonActive
}

// ClassifyTransactionType normalises the transaction direction.
func ClassifyTransactionType(doc models.Document) models.TransactionType {
	switch doc.LowerString("type") {
	case "income":
		return models.TransactionIncome
	case "expense":
		return models.TransactionExpense
	}
	return models.TransactionUnknown
}

// Category returns the trimmed category or the "Other" bucket.
func Category(raw string) string {
	if c := strings.TrimSpace(raw); c != "" {
		return c
	}
	return OtherCategory
}
