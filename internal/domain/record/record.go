package record

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/kailas-cloud/fantom/internal/domain"
)

// Kind tags the JSON shape of a record's top-level value.
type Kind string

// Record kinds.
const (
	KindNull   Kind = "null"
	KindObject Kind = "object"
	KindArray  Kind = "array"
	KindString Kind = "string"
	KindNumber Kind = "number"
	KindBool   Kind = "bool"
)

// Record is a schema-less decoded store value. Its shape is never validated.
type Record struct {
	kind  Kind
	value any
}

// DecodeError reports a stored value that is not valid JSON.
type DecodeError struct {
	Key string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Key, e.Err)
}

// Unwrap exposes both the sentinel and the parser error.
func (e *DecodeError) Unwrap() []error { return []error{domain.ErrDecode, e.Err} }

// Decode parses raw as JSON. key is only used for error context.
func Decode(key string, raw []byte) (Record, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return Record{}, &DecodeError{Key: key, Err: err}
	}
	return FromValue(v), nil
}

// FromValue wraps an already decoded JSON value.
func FromValue(v any) Record {
	return Record{kind: kindOf(v), value: v}
}

func kindOf(v any) Kind {
	switch v.(type) {
	case map[string]any:
		return KindObject
	case []any:
		return KindArray
	case string:
		return KindString
	case float64, json.Number:
		return KindNumber
	case bool:
		return KindBool
	default:
		return KindNull
	}
}

// Kind returns the top-level JSON kind.
func (r Record) Kind() Kind {
	if r.kind == "" {
		return KindNull
	}
	return r.kind
}

// Value returns the decoded value (map[string]any, []any, string, float64, bool or nil).
func (r Record) Value() any { return r.value }

// Field returns a top-level object field.
func (r Record) Field(name string) (any, bool) {
	m, ok := r.value.(map[string]any)
	if !ok {
		return nil, false
	}
	v, ok := m[name]
	return v, ok
}

// Text joins every string leaf of the record with spaces.
// Object keys are visited in sorted order so the output is deterministic.
func (r Record) Text() string {
	var parts []string
	collectStrings(r.value, &parts)
	return strings.Join(parts, " ")
}

func collectStrings(v any, out *[]string) {
	switch t := v.(type) {
	case string:
		if t != "" {
			*out = append(*out, t)
		}
	case []any:
		for _, item := range t {
			collectStrings(item, out)
		}
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			collectStrings(t[k], out)
		}
	}
}

// MarshalJSON encodes the underlying value unchanged.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.value)
}
