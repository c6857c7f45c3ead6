package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateValueVariants(t *testing.T) {
	loc := time.FixedZone("WIB", 7*3600)
	instant := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		raw  interface{}
		kind DateKind
		want time.Time
	}{
		{name: "instant", raw: instant, kind: DateInstant, want: instant},
		{name: "rfc3339", raw: "2024-03-05T10:00:00Z", kind: DateISOString, want: instant},
		{name: "date only in studio zone", raw: "2024-03-05", kind: DateISOString, want: time.Date(2024, 3, 5, 0, 0, 0, 0, loc)},
		{name: "legacy seconds", raw: map[string]interface{}{"seconds": float64(instant.Unix()), "nanoseconds": float64(0)}, kind: DateLegacyTimestamp, want: instant},
		{name: "legacy underscored", raw: map[string]interface{}{"_seconds": instant.Unix()}, kind: DateLegacyTimestamp, want: instant},
		{name: "epoch millis", raw: float64(instant.UnixMilli()), kind: DateInstant, want: instant},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := ParseDateValue(tc.raw)
			assert.Equal(t, tc.kind, v.Kind)
			got, ok := v.Time(loc)
			require.True(t, ok)
			assert.True(t, tc.want.Equal(got), "want %s got %s", tc.want, got)
		})
	}
}

func TestParseDateValueTreatsGarbageAsAbsent(t *testing.T) {
	for _, raw := range []interface{}{nil, "", "next tuesday", "2024-13-45", true, []interface{}{"x"}, map[string]interface{}{"foo": 1}} {
		v := ParseDateValue(raw)
		assert.True(t, v.IsZero(), "raw %#v", raw)
		_, ok := v.Time(time.UTC)
		assert.False(t, ok)
		assert.Nil(t, v.TimePtr(time.UTC))
	}
}

func TestDocumentCoercion(t *testing.T) {
	doc := NewDocument("d1", map[string]interface{}{
		"name":         "  Ayşe ",
		"count":        "12",
		"float":        float64(3.9),
		"amount":       "abc",
		"price":        "150.50",
		"active":       "false",
		"participants": []interface{}{"a", map[string]interface{}{"uid": "b"}, "", 7.0},
		"data":         map[string]interface{}{"lessonId": "l1", "n": 2.0},
	})

	assert.Equal(t, "Ayşe", doc.String("name"))
	assert.Equal(t, "", doc.String("missing"))

	n, ok := doc.Int("count")
	require.True(t, ok)
	assert.Equal(t, 12, n)
	n, ok = doc.Int("float")
	require.True(t, ok)
	assert.Equal(t, 3, n)
	_, ok = doc.Int("name")
	assert.False(t, ok)

	assert.True(t, doc.Decimal("amount").IsZero())
	assert.Equal(t, "150.5", doc.Decimal("price").String())

	b, ok := doc.Bool("active")
	require.True(t, ok)
	assert.False(t, b)

	assert.Equal(t, []string{"a", "b", "7"}, doc.StringList("participants"))
	assert.Equal(t, map[string]string{"lessonId": "l1", "n": "2"}, doc.StringMap("data"))
}

func TestDecodeNotificationTargets(t *testing.T) {
	doc := NewDocument("n1", map[string]interface{}{
		"notification":  map[string]interface{}{"title": "Class moved", "body": "Yoga is at 10:00"},
		"token":         "tok-1",
		"tokens":        []interface{}{"tok-2"},
		"targetUserIds": []interface{}{"u1"},
		"processed":     false,
	})

	n := DecodeNotification(doc, time.UTC)
	assert.Equal(t, "Class moved", n.Title)
	assert.Equal(t, "Yoga is at 10:00", n.Body)
	assert.Equal(t, []string{"tok-1", "tok-2"}, n.Tokens)
	assert.Equal(t, []string{"u1"}, n.TargetUserIDs)
	assert.False(t, n.Processed)

	fields := NotificationOutcome{SuccessCount: 1, FailureReason: "no_target"}.Fields()
	assert.Equal(t, true, fields["processed"])
	assert.Equal(t, "no_target", fields["failureReason"])
}
