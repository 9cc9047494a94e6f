package matchers

import (
	"fmt"
	"reflect"
	"strings"
)

type equals struct{ want any }

// Equals matches values equal to want. Numbers compare by value regardless
// of Go type; other values compare structurally after JSON normalization.
func Equals(want any) Matcher { return equals{want: want} }

func (m equals) Match(actual any) error {
	if valuesEqual(actual, m.want) {
		return nil
	}
	return fmt.Errorf("expected %s, got %s", format(m.want), format(actual))
}

func (m equals) String() string { return "equal to " + format(m.want) }

func valuesEqual(actual, want any) bool {
	if isNumber(actual) && isNumber(want) {
		a, _ := toFloat64(actual)
		w, _ := toFloat64(want)
		return a == w
	}
	return reflect.DeepEqual(normalize(actual), normalize(want))
}

// NotEquals matches any value not equal to want.
func NotEquals(want any) Matcher { return Not(Equals(want)) }

type oneOf struct{ values []any }

// OneOf matches a value equal to any of values.
func OneOf(values ...any) Matcher { return oneOf{values: values} }

func (m oneOf) Match(actual any) error {
	for _, v := range m.values {
		if valuesEqual(actual, v) {
			return nil
		}
	}
	return fmt.Errorf("expected %s, got %s", m, format(actual))
}

func (m oneOf) String() string {
	parts := make([]string, len(m.values))
	for i, v := range m.values {
		parts[i] = format(v)
	}
	return "one of [" + strings.Join(parts, ", ") + "]"
}
