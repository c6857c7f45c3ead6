package models

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Document is a raw record as read from the document store. Field presence and types vary
// with the age of the record, so every accessor coerces and never fails.
type Document struct {
	ID     string                 `json:"id"`
	Fields map[string]interface{} `json:"fields"`
}

// NewDocument builds a document, copying nothing: the caller hands over the map.
func NewDocument(id string, fields map[string]interface{}) Document {
	if fields == nil {
		fields = map[string]interface{}{}
	}
	return Document{ID: id, Fields: fields}
}

// Value returns the raw value stored under key.
func (d Document) Value(key string) (interface{}, bool) {
	if d.Fields == nil {
		return nil, false
	}
	v, ok := d.Fields[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// String returns the trimmed string form of a scalar field, or "".
func (d Document) String(key string) string {
	v, ok := d.Value(key)
	if !ok {
		return ""
	}
	return scalarString(v)
}

// LowerString is String folded to lower case.
func (d Document) LowerString(key string) string {
	return strings.ToLower(d.String(key))
}

// Int returns an integer field. Floats are truncated and numeric strings parsed.
func (d Document) Int(key string) (int, bool) {
	v, ok := d.Value(key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	case float32:
		return int(n), true
	case string:
		s := strings.TrimSpace(n)
		if i, err := strconv.Atoi(s); err == nil {
			return i, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return int(f), true
		}
	}
	return 0, false
}

// Decimal returns a monetary field; anything unparsable is zero.
func (d Document) Decimal(key string) decimal.Decimal {
	v, ok := d.Value(key)
	if !ok {
		return decimal.Zero
	}
	switch n := v.(type) {
	case int:
		return decimal.NewFromInt(int64(n))
	case int64:
		return decimal.NewFromInt(n)
	case int32:
		return decimal.NewFromInt(int64(n))
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(n)
	case float32:
		return decimal.NewFromFloat32(n)
	case string:
		parsed, err := decimal.NewFromString(strings.TrimSpace(n))
		if err != nil {
			return decimal.Zero
		}
		return parsed
	}
	return decimal.Zero
}

// Bool returns a boolean field. Only real booleans and "true"/"false" strings count.
func (d Document) Bool(key string) (bool, bool) {
	v, ok := d.Value(key)
	if !ok {
		return false, false
	}
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}

// StringList returns a list field as non-empty trimmed strings. Object entries contribute
// their "id", "uid" or "userId" key.
func (d Document) StringList(key string) []string {
	v, ok := d.Value(key)
	if !ok {
		return nil
	}
	var items []interface{}
	switch list := v.(type) {
	case []interface{}:
		items = list
	case []string:
		out := make([]string, 0, len(list))
		for _, s := range list {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if m, isMap := item.(map[string]interface{}); isMap {
			for _, k := range []string{"id", "uid", "userId"} {
				if raw, found := m[k]; found && raw != nil {
					if s = scalarString(raw); s != "" {
						break
					}
				}
			}
		} else {
			s = scalarString(item)
		}
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// StringMap returns an object field with scalar values rendered as strings.
func (d Document) StringMap(key string) map[string]string {
	v, ok := d.Value(key)
	if !ok {
		return nil
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, raw := range m {
		if s := scalarString(raw); s != "" {
			out[k] = s
		}
	}
	return out
}

// Date returns the tagged date value of a field.
func (d Document) Date(key string) DateValue {
	v, ok := d.Value(key)
	if !ok {
		return DateValue{}
	}
	return ParseDateValue(v)
}

func scalarString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case float64:
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return ""
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	case time.Time:
		return s.Format(time.RFC3339)
	}
	return ""
}
