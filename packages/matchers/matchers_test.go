package matchers

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchers(t *testing.T) {
	tests := []struct {
		name    string
		matcher Matcher
		actual  any
		passed  bool
	}{
		{name: "equals number", matcher: Equals(2), actual: float64(2), passed: true},
		{name: "equals int vs uint", matcher: Equals(uint8(7)), actual: 7, passed: true},
		{name: "equals json number", matcher: Equals(12), actual: json.Number("12"), passed: true},
		{name: "equals string", matcher: Equals("Michael"), actual: "Michael", passed: true},
		{name: "equals is strict about strings", matcher: Equals(2), actual: "2", passed: false},
		{name: "equals null", matcher: Equals(nil), actual: nil, passed: true},
		{name: "equals slice", matcher: Equals([]string{"a", "b"}), actual: []any{"a", "b"}, passed: true},
		{name: "equals map", matcher: Equals(map[string]int{"id": 4}), actual: map[string]any{"id": float64(4)}, passed: true},
		{name: "not equals", matcher: NotEquals(200), actual: float64(204), passed: true},
		{name: "not equals same", matcher: NotEquals(200), actual: float64(200), passed: false},

		{name: "ignore case", matcher: EqualsIgnoreCase("MICHael"), actual: "Michael", passed: true},
		{name: "ignore case differs", matcher: EqualsIgnoreCase("Michaela"), actual: "Michael", passed: false},
		{name: "compress whitespace", matcher: EqualsCompressingWhitespace("Lindsay"), actual: "    Lindsay ", passed: true},
		{name: "compress inner runs", matcher: EqualsCompressingWhitespace("Lindsay Ferguson"), actual: "Lindsay \t\n Ferguson", passed: true},
		{name: "compress whitespace differs", matcher: EqualsCompressingWhitespace("Lindsay"), actual: "Lindsayx", passed: false},
		{name: "contains", matcher: Contains("@reqres"), actual: "michael.lawson@reqres.in", passed: true},
		{name: "contains on number", matcher: Contains("2"), actual: float64(12), passed: true},
		{name: "starts with", matcher: StartsWith("https://"), actual: "https://reqres.in/img/faces/7-image.jpg", passed: true},
		{name: "ends with", matcher: EndsWith(".jpg"), actual: "7-image.png", passed: false},
		{name: "regex", matcher: MatchesRegex("/^[A-Z][a-z]+$/"), actual: "Lindsay", passed: true},
		{name: "regex no match", matcher: MatchesRegex(`^\d+$`), actual: "QpwL5tke4Pnpja7X4", passed: false},

		{name: "greater than", matcher: GreaterThan(4), actual: float64(6), passed: true},
		{name: "greater than equal bound", matcher: GreaterThan(6), actual: float64(6), passed: false},
		{name: "greater or equal", matcher: GreaterOrEqual(6), actual: float64(6), passed: true},
		{name: "less than", matcher: LessThan(4), actual: float64(6), passed: false},
		{name: "less or equal", matcher: LessOrEqual(12), actual: 12, passed: true},
		{name: "numeric string", matcher: GreaterThan(1), actual: "2", passed: true},
		{name: "between", matcher: Between(1, 12), actual: float64(7), passed: true},
		{name: "between outside", matcher: Between(1, 6), actual: float64(7), passed: false},

		{name: "not null", matcher: NotNull(), actual: "QpwL5tke4Pnpja7X4", passed: true},
		{name: "not null on null", matcher: NotNull(), actual: nil, passed: false},
		{name: "is null", matcher: IsNull(), actual: nil, passed: true},
		{name: "is null on value", matcher: IsNull(), actual: float64(0), passed: false},
		{name: "missing on present null", matcher: Missing(), actual: nil, passed: false},

		{name: "length of string", matcher: HasLength(7), actual: "Michael", passed: true},
		{name: "length of array", matcher: HasLength(6), actual: []any{1, 2, 3, 4, 5, 6}, passed: true},
		{name: "length of object", matcher: HasLength(1), actual: map[string]any{"a": 1, "b": 2}, passed: false},
		{name: "type number", matcher: IsType("number"), actual: 4, passed: true},
		{name: "type object", matcher: IsType("Object"), actual: map[string]any{}, passed: true},
		{name: "type null", matcher: IsType("null"), actual: nil, passed: true},
		{name: "type wrong", matcher: IsType("string"), actual: true, passed: false},
		{name: "one of", matcher: OneOf(200, 201), actual: float64(201), passed: true},
		{name: "one of none", matcher: OneOf("a", "b"), actual: "c", passed: false},

		{name: "not", matcher: Not(Contains("x")), actual: "Lindsay", passed: true},
		{name: "all of", matcher: AllOf(NotNull(), StartsWith("Q"), HasLength(17)), actual: "QpwL5tke4Pnpja7X4", passed: true},
		{name: "all of one fails", matcher: AllOf(NotNull(), StartsWith("X")), actual: "QpwL5tke4Pnpja7X4", passed: false},
		{name: "any of", matcher: AnyOf(Equals(1), Equals(2)), actual: float64(2), passed: true},
		{name: "any of empty", matcher: AnyOf(), actual: float64(2), passed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.matcher.Match(tt.actual)
			if tt.passed {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
			assert.Equal(t, tt.passed, Matches(tt.matcher, tt.actual))
		})
	}
}

func TestMatchers_TypeMismatch(t *testing.T) {
	tests := []struct {
		name    string
		matcher Matcher
		actual  any
	}{
		{name: "greater than on word", matcher: GreaterThan(4), actual: "six"},
		{name: "less than on bool", matcher: LessThan(4), actual: true},
		{name: "greater or equal on null", matcher: GreaterOrEqual(1), actual: nil},
		{name: "between on object", matcher: Between(1, 2), actual: map[string]any{}},
		{name: "contains on null", matcher: Contains("a"), actual: nil},
		{name: "ignore case on array", matcher: EqualsIgnoreCase("a"), actual: []any{"a"}},
		{name: "regex on object", matcher: MatchesRegex("a"), actual: map[string]any{"a": 1}},
		{name: "length of number", matcher: HasLength(1), actual: float64(1)},
		{name: "not passes mismatch through", matcher: Not(GreaterThan(4)), actual: "six"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.matcher.Match(tt.actual)
			require.Error(t, err)

			var tm *TypeMismatchError
			require.True(t, errors.As(err, &tm), "got %v", err)
			assert.Contains(t, err.Error(), "type mismatch")
		})
	}
}

func TestTypeMismatchError_Message(t *testing.T) {
	err := GreaterThan(4).Match("six")
	assert.EqualError(t, err, `type mismatch: greater than 4 needs a number, got "six" (string)`)
}

func TestMatchMissing(t *testing.T) {
	tests := []struct {
		name    string
		matcher Matcher
		passed  bool
	}{
		{name: "missing", matcher: Missing(), passed: true},
		{name: "exists", matcher: Exists(), passed: false},
		{name: "not missing", matcher: Not(Missing()), passed: false},
		{name: "not of plain matcher", matcher: Not(Equals(1)), passed: false},
		{name: "all of absences", matcher: AllOf(Missing(), Not(Exists())), passed: true},
		{name: "all of with plain", matcher: AllOf(Missing(), Equals(1)), passed: false},
		{name: "any of", matcher: AnyOf(Equals(1), Missing()), passed: true},
		{name: "any of without absence", matcher: AnyOf(Equals(1), IsNull()), passed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			am, ok := tt.matcher.(AbsenceMatcher)
			require.True(t, ok)
			if tt.passed {
				assert.NoError(t, am.MatchMissing())
			} else {
				assert.Error(t, am.MatchMissing())
			}
		})
	}

	_, ok := IsNull().(AbsenceMatcher)
	assert.False(t, ok, "IsNull must not accept a missing path")
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(Equals(1)))
	assert.NoError(t, Validate(MatchesRegex(`^\w+$`)))
	assert.Error(t, Validate(MatchesRegex(`([`)))
	assert.Error(t, Validate(HasLength(-1)))
	assert.Error(t, Validate(IsType("integer")))
	assert.Error(t, Validate(Between(5, 1)))
	assert.Error(t, Validate(MatchesSchema(`{"type": 12}`)))
	assert.Error(t, Validate(Not(MatchesRegex(`(`))))
	assert.Error(t, Validate(AllOf(Equals(1), nil)))
	assert.Error(t, Validate(nil))
}

func TestMatchesSchema(t *testing.T) {
	schema := `{
		"type": "object",
		"required": ["id", "token"],
		"properties": {
			"id": {"type": "integer"},
			"token": {"type": "string", "minLength": 1}
		}
	}`
	m := MatchesSchema(schema)
	require.NoError(t, Validate(m))

	assert.NoError(t, m.Match(map[string]any{"id": float64(4), "token": "QpwL5tke4Pnpja7X4"}))

	err := m.Match(map[string]any{"error": "Missing password"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema validation failed")
}

func TestMatcher_String(t *testing.T) {
	tests := []struct {
		matcher Matcher
		want    string
	}{
		{Equals(2), "equal to 2"},
		{Equals("Lindsay"), `equal to "Lindsay"`},
		{GreaterThan(4), "greater than 4"},
		{LessOrEqual(2.5), "less than or equal to 2.5"},
		{EqualsIgnoreCase("MICHael"), `equal ignoring case to "MICHael"`},
		{NotNull(), "not null"},
		{Not(Equals(200)), "not equal to 200"},
		{AllOf(NotNull(), HasLength(2)), "all of (not null, with length 2)"},
		{OneOf(1, "a"), `one of [1, "a"]`},
		{MatchesRegex("/^L/"), "matching /^L/"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.matcher.String())
	}
}

func TestCompressWhitespace(t *testing.T) {
	assert.Equal(t, "a b", compressWhitespace("  a \t\n b  "))
	assert.Equal(t, "", compressWhitespace("   "))
}
