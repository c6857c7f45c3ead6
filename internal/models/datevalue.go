package models

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// DateKind tags which representation a stored date arrived in.
type DateKind int

const (
	DateAbsent DateKind = iota
	DateInstant
	DateISOString
	DateLegacyTimestamp
)

func (k DateKind) String() string {
	switch k {
	case DateInstant:
		return "instant"
	case DateISOString:
		return "iso_string"
	case DateLegacyTimestamp:
		return "legacy_timestamp"
	default:
		return "absent"
	}
}

// DateValue is the single representation of any date-like field at the ingestion boundary.
// Exactly one of the payload fields is meaningful for a given Kind.
type DateValue struct {
	Kind    DateKind
	Instant time.Time
	ISO     string
	Seconds int64
	Nanos   int64
}

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDateValue classifies a raw field value. Strings that match no known layout and values of
// any other shape are absent.
func ParseDateValue(raw interface{}) DateValue {
	switch v := raw.(type) {
	case nil:
		return DateValue{}
	case time.Time:
		if v.IsZero() {
			return DateValue{}
		}
		return DateValue{Kind: DateInstant, Instant: v}
	case *time.Time:
		if v == nil || v.IsZero() {
			return DateValue{}
		}
		return DateValue{Kind: DateInstant, Instant: *v}
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return DateValue{}
		}
		for _, layout := range isoLayouts {
			if _, err := time.Parse(layout, s); err == nil {
				return DateValue{Kind: DateISOString, ISO: s}
			}
		}
		return DateValue{}
	case map[string]interface{}:
		secs, ok := numberField(v, "seconds", "_seconds")
		if !ok {
			return DateValue{}
		}
		nanos, _ := numberField(v, "nanoseconds", "_nanoseconds")
		return DateValue{Kind: DateLegacyTimestamp, Seconds: secs, Nanos: nanos}
	case int64:
		return DateValue{Kind: DateInstant, Instant: time.UnixMilli(v)}
	case int:
		return DateValue{Kind: DateInstant, Instant: time.UnixMilli(int64(v))}
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return DateValue{}
		}
		return DateValue{Kind: DateInstant, Instant: time.UnixMilli(int64(v))}
	}
	return DateValue{}
}

// IsZero reports whether the value is absent.
func (d DateValue) IsZero() bool {
	return d.Kind == DateAbsent
}

// Time normalises the value to an instant. Zone-less ISO strings are read in loc.
func (d DateValue) Time(loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	switch d.Kind {
	case DateInstant:
		return d.Instant, true
	case DateLegacyTimestamp:
		return time.Unix(d.Seconds, d.Nanos), true
	case DateISOString:
		for _, layout := range isoLayouts {
			if t, err := time.ParseInLocation(layout, d.ISO, loc); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// TimePtr is Time returning nil for absent values.
func (d DateValue) TimePtr(loc *time.Location) *time.Time {
	t, ok := d.Time(loc)
	if !ok {
		return nil
	}
	return &t
}

func numberField(m map[string]interface{}, keys ...string) (int64, bool) {
	for _, key := range keys {
		raw, ok := m[key]
		if !ok || raw == nil {
			continue
		}
		switch n := raw.(type) {
		case int64:
			return n, true
		case int:
			return int64(n), true
		case int32:
			return int64(n), true
		case float64:
			return int64(n), true
		case string:
			if parsed, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64); err == nil {
				return parsed, true
			}
		}
	}
	return 0, false
}
