package matchers

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xeipuuv/gojsonschema"
)

type hasLength struct{ n int }

// HasLength matches strings with n characters, arrays with n elements and
// objects with n keys.
func HasLength(n int) Matcher { return hasLength{n: n} }

func (m hasLength) Validate() error {
	if m.n < 0 {
		return fmt.Errorf("length must not be negative: %d", m.n)
	}
	return nil
}

func (m hasLength) Match(actual any) error {
	var got int
	switch v := normalize(actual).(type) {
	case string:
		got = utf8.RuneCountInString(v)
	case []any:
		got = len(v)
	case map[string]any:
		got = len(v)
	default:
		return mismatch(m, actual, "a string, array or object")
	}
	if got != m.n {
		return fmt.Errorf("expected length %d, got %d", m.n, got)
	}
	return nil
}

func (m hasLength) String() string { return fmt.Sprintf("with length %d", m.n) }

var jsonTypes = []string{"string", "number", "boolean", "array", "object", "null"}

type isType struct{ name string }

// IsType matches values of the named JSON type: string, number, boolean,
// array, object or null.
func IsType(name string) Matcher { return isType{name: strings.ToLower(name)} }

func (m isType) Validate() error {
	for _, t := range jsonTypes {
		if t == m.name {
			return nil
		}
	}
	return fmt.Errorf("unknown type %q (want one of %s)", m.name, strings.Join(jsonTypes, ", "))
}

func (m isType) Match(actual any) error {
	got := typeName(normalize(actual))
	if got != m.name {
		return fmt.Errorf("expected %s, got %s", m.name, got)
	}
	return nil
}

func (m isType) String() string { return "of type " + m.name }

type schemaMatcher struct{ schema string }

// MatchesSchema validates the actual value against a JSON Schema document.
func MatchesSchema(schema string) Matcher { return schemaMatcher{schema: schema} }

func (m schemaMatcher) Validate() error {
	_, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(m.schema))
	if err != nil {
		return fmt.Errorf("invalid JSON schema: %w", err)
	}
	return nil
}

func (m schemaMatcher) Match(actual any) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(m.schema),
		gojsonschema.NewGoLoader(actual),
	)
	if err != nil {
		return fmt.Errorf("schema validation error: %v", err)
	}
	if result.Valid() {
		return nil
	}
	errs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		errs = append(errs, e.String())
	}
	return fmt.Errorf("schema validation failed: %s", strings.Join(errs, "; "))
}

func (m schemaMatcher) String() string { return "matching JSON schema" }
