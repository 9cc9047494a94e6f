package matchers

import (
	"fmt"
	"strconv"
)

type numericMatcher struct {
	bound float64
	op    string
	test  func(actual, bound float64) bool
}

func (m numericMatcher) Match(actual any) error {
	n, ok := toFloat64(actual)
	if !ok {
		return mismatch(m, actual, "a number")
	}
	if m.test(n, m.bound) {
		return nil
	}
	return fmt.Errorf("expected a value %s, got %s", m, format(actual))
}

func (m numericMatcher) String() string {
	return m.op + " " + strconv.FormatFloat(m.bound, 'f', -1, 64)
}

// GreaterThan matches numbers strictly above bound. Numeric strings are
// parsed; any other non-number is a type mismatch.
func GreaterThan(bound float64) Matcher {
	return numericMatcher{bound: bound, op: "greater than", test: func(a, b float64) bool { return a > b }}
}

func GreaterOrEqual(bound float64) Matcher {
	return numericMatcher{bound: bound, op: "greater than or equal to", test: func(a, b float64) bool { return a >= b }}
}

func LessThan(bound float64) Matcher {
	return numericMatcher{bound: bound, op: "less than", test: func(a, b float64) bool { return a < b }}
}

func LessOrEqual(bound float64) Matcher {
	return numericMatcher{bound: bound, op: "less than or equal to", test: func(a, b float64) bool { return a <= b }}
}

type between struct{ min, max float64 }

// Between matches numbers in the closed range [min, max].
func Between(min, max float64) Matcher { return between{min: min, max: max} }

func (m between) Validate() error {
	if m.min > m.max {
		return fmt.Errorf("between: min %v exceeds max %v", m.min, m.max)
	}
	return nil
}

func (m between) Match(actual any) error {
	if err := GreaterOrEqual(m.min).Match(actual); err != nil {
		if _, ok := err.(*TypeMismatchError); ok {
			return mismatch(m, actual, "a number")
		}
		return fmt.Errorf("expected a value %s, got %s", m, format(actual))
	}
	if err := LessOrEqual(m.max).Match(actual); err != nil {
		return fmt.Errorf("expected a value %s, got %s", m, format(actual))
	}
	return nil
}

func (m between) String() string {
	return fmt.Sprintf("between %s and %s",
		strconv.FormatFloat(m.min, 'f', -1, 64), strconv.FormatFloat(m.max, 'f', -1, 64))
}
