package models

import (
	"strings"
	"time"
)

// NotificationRecord is a push request queued in the notifications collection.
type NotificationRecord struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Body          string            `json:"body"`
	Topic         string            `json:"topic,omitempty"`
	Tokens        []string          `json:"-"`
	TargetUserIDs []string          `json:"target_user_ids,omitempty"`
	Data          map[string]string `json:"data,omitempty"`
	Processed     bool              `json:"processed"`
	CreatedAt     *time.Time        `json:"created_at,omitempty"`
}

// NotificationOutcome is written back onto a notification once delivery has been attempted.
type NotificationOutcome struct {
	SuccessCount  int
	FailureCount  int
	FailureReason string
	ProcessedAt   time.Time
}

// Fields renders the outcome as a document patch.
func (o NotificationOutcome) Fields() map[string]interface{} {
	fields := map[string]interface{}{
		"processed":    true,
		"processedAt":  o.ProcessedAt,
		"successCount": o.SuccessCount,
		"failureCount": o.FailureCount,
	}
	if o.FailureReason != "" {
		fields["failureReason"] = o.FailureReason
	}
	return fields
}

// DecodeNotification normalises a notification document. Message text may live at the top level
// or under a nested "notification" object.
func DecodeNotification(doc Document, loc *time.Location) NotificationRecord {
	n := NotificationRecord{
		ID:    doc.ID,
		Title: doc.String("title"),
		Body:  firstNonEmpty(doc.String("body"), doc.String("message")),
		Topic: doc.String("topic"),
		Data:  doc.StringMap("data"),
	}
	if nested, ok := doc.Value("notification"); ok {
		if m, isMap := nested.(map[string]interface{}); isMap {
			inner := NewDocument(doc.ID, m)
			n.Title = firstNonEmpty(n.Title, inner.String("title"))
			n.Body = firstNonEmpty(n.Body, inner.String("body"))
		}
	}

	if token := doc.String("token"); token != "" {
		n.Tokens = append(n.Tokens, token)
	}
	n.Tokens = append(n.Tokens, doc.StringList("tokens")...)

	n.TargetUserIDs = doc.StringList("targetUserIds")
	if uid := firstNonEmpty(doc.String("userId"), doc.String("targetUserId")); uid != "" {
		n.TargetUserIDs = append(n.TargetUserIDs, uid)
	}

	n.Processed, _ = doc.Bool("processed")
	n.CreatedAt = doc.Date("createdAt").TimePtr(loc)
	return n
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
