package document

import (
	"encoding/json"
	"errors"
	"time"
)

var ErrNotDocument = errors.New("body is not a JSON document")

// Value wraps one node of a decoded JSON document. Accessors return zero
// values on type mismatch or absent keys so callers can walk deeply nested
// optional structures without error plumbing.
type Value struct {
	raw any
}

func Wrap(raw any) Value {
	return Value{raw: raw}
}

// ParseObject decodes bytes that must form a non-empty JSON object.
func ParseObject(data []byte) (Value, error) {
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return Value{}, ErrNotDocument
	}
	if len(decoded) == 0 {
		return Value{}, ErrNotDocument
	}

	return Value{raw: decoded}, nil
}

// ParseList decodes bytes that must form a JSON array. An empty array is a
// valid, empty document.
func ParseList(data []byte) ([]Value, error) {
	var decoded []any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, ErrNotDocument
	}

	values := make([]Value, len(decoded))
	for i, item := range decoded {
		values[i] = Value{raw: item}
	}

	return values, nil
}

func (v Value) Get(key string) Value {
	object, ok := v.raw.(map[string]any)
	if !ok {
		return Value{}
	}

	return Value{raw: object[key]}
}

func (v Value) Has(key string) bool {
	object, ok := v.raw.(map[string]any)
	if !ok {
		return false
	}
	_, present := object[key]

	return present
}

func (v Value) Map() map[string]any {
	object, _ := v.raw.(map[string]any)

	return object
}

func (v Value) List() []Value {
	list, ok := v.raw.([]any)
	if !ok {
		return nil
	}

	values := make([]Value, len(list))
	for i, item := range list {
		values[i] = Value{raw: item}
	}

	return values
}

func (v Value) String() string {
	s, _ := v.raw.(string)

	return s
}

func (v Value) Float() float64 {
	f, _ := v.raw.(float64)

	return f
}

func (v Value) Int() int {
	return int(v.Float())
}

func (v Value) Bool() bool {
	b, _ := v.raw.(bool)

	return b
}

// Time parses an ISO-8601 timestamp field. The zero time is returned for
// absent or malformed values.
func (v Value) Time() time.Time {
	return v.TimeIn(time.UTC)
}

// TimeIn parses an ISO-8601 timestamp field, interpreting timestamps without
// an explicit offset in the given location.
func (v Value) TimeIn(loc *time.Location) time.Time {
	s, ok := v.raw.(string)
	if !ok {
		return time.Time{}
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", s, loc); err == nil {
		return t
	}

	return time.Time{}
}

// IsEmpty reports whether the value is absent, or an empty object, list or
// string.
func (v Value) IsEmpty() bool {
	switch raw := v.raw.(type) {
	case nil:
		return true
	case map[string]any:
		return len(raw) == 0
	case []any:
		return len(raw) == 0
	case string:
		return raw == ""
	default:
		return false
	}
}
