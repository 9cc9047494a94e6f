package matchers

import (
	"errors"
	"fmt"
	"strings"
)

var errPathMissing = errors.New("path not found in response")

type not struct{ inner Matcher }

// Not inverts m. A type mismatch reported by m is passed through rather than
// inverted, so Not(GreaterThan(4)) still rejects a string.
func Not(m Matcher) Matcher { return not{inner: m} }

func (m not) Match(actual any) error {
	err := m.inner.Match(actual)
	if err == nil {
		return fmt.Errorf("expected a value %s, got %s", m, format(actual))
	}
	var tm *TypeMismatchError
	if errors.As(err, &tm) {
		return err
	}
	return nil
}

func (m not) MatchMissing() error {
	am, ok := m.inner.(AbsenceMatcher)
	if !ok {
		return errPathMissing
	}
	if am.MatchMissing() == nil {
		return fmt.Errorf("expected path to be present")
	}
	return nil
}

func (m not) Validate() error { return validate(m.inner) }

func (m not) String() string { return "not " + m.inner.String() }

type allOf struct{ matchers []Matcher }

// AllOf matches when every matcher matches. The first failure is reported.
func AllOf(ms ...Matcher) Matcher { return allOf{matchers: ms} }

func (m allOf) Match(actual any) error {
	for _, inner := range m.matchers {
		if err := inner.Match(actual); err != nil {
			return err
		}
	}
	return nil
}

func (m allOf) MatchMissing() error {
	for _, inner := range m.matchers {
		am, ok := inner.(AbsenceMatcher)
		if !ok {
			return errPathMissing
		}
		if err := am.MatchMissing(); err != nil {
			return err
		}
	}
	return nil
}

func (m allOf) Validate() error { return validate(m.matchers...) }

func (m allOf) String() string { return join("all of", m.matchers) }

type anyOf struct{ matchers []Matcher }

// AnyOf matches when at least one matcher matches. With no matchers it never
// matches.
func AnyOf(ms ...Matcher) Matcher { return anyOf{matchers: ms} }

func (m anyOf) Match(actual any) error {
	for _, inner := range m.matchers {
		if inner.Match(actual) == nil {
			return nil
		}
	}
	return fmt.Errorf("expected %s, got %s", m, format(actual))
}

func (m anyOf) MatchMissing() error {
	for _, inner := range m.matchers {
		if am, ok := inner.(AbsenceMatcher); ok && am.MatchMissing() == nil {
			return nil
		}
	}
	return errPathMissing
}

func (m anyOf) Validate() error { return validate(m.matchers...) }

func (m anyOf) String() string { return join("any of", m.matchers) }

// Validate checks the arguments of m and of any matchers it wraps.
func Validate(m Matcher) error {
	if m == nil {
		return errors.New("matcher is nil")
	}
	return validate(m)
}

func validate(ms ...Matcher) error {
	for _, m := range ms {
		if m == nil {
			return errors.New("matcher is nil")
		}
		if v, ok := m.(Validator); ok {
			if err := v.Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}

func join(label string, ms []Matcher) string {
	parts := make([]string, len(ms))
	for i, m := range ms {
		parts[i] = m.String()
	}
	return label + " (" + strings.Join(parts, ", ") + ")"
}
