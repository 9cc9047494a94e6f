package matchers

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

type Matcher interface {
	Match(actual any) error
	String() string
}

// AbsenceMatcher is implemented by matchers that can also judge a path that
// does not exist in the response. Matchers without it fail on absence.
type AbsenceMatcher interface {
	Matcher
	MatchMissing() error
}

// Validator is implemented by matchers whose arguments can be malformed,
// such as a regular expression or a JSON schema.
type Validator interface {
	Validate() error
}

// Matches is the boolean form of m.Match.
func Matches(m Matcher, actual any) bool {
	return m.Match(actual) == nil
}

// TypeMismatchError reports that a matcher could not be applied to the
// actual value's type.
type TypeMismatchError struct {
	Matcher string
	Actual  any
	Want    string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: %s needs %s, got %s (%s)", e.Matcher, e.Want, format(e.Actual), typeName(e.Actual))
}

func mismatch(m Matcher, actual any, want string) error {
	return &TypeMismatchError{Matcher: m.String(), Actual: actual, Want: want}
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case int16:
		return float64(n), true
	case int8:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint8:
		return float64(n), true
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f, true
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func isNumber(v any) bool {
	if _, ok := v.(string); ok {
		return false
	}
	_, ok := toFloat64(v)
	return ok
}

// toString returns the string form string matchers compare against.
// Objects, arrays and null have none.
func toString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case bool:
		return strconv.FormatBool(s), true
	case json.Number:
		return s.String(), true
	}
	if f, ok := toFloat64(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64), true
	}
	return "", false
}

// normalize maps Go values onto the shapes encoding/json decodes into, so a
// []string expectation can equal a decoded []any.
func normalize(v any) any {
	switch v.(type) {
	case nil, string, bool, float64:
		return v
	}
	if f, ok := toFloat64(v); ok {
		return f
	}
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return v
	}
	return out
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	if isNumber(v) {
		return "number"
	}
	return reflect.TypeOf(v).String()
}

func format(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(val)
	case fmt.Stringer:
		return val.String()
	}
	if s, ok := toString(v); ok {
		return s
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

// compressWhitespace collapses runs of whitespace to one space and trims
// both ends.
func compressWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
