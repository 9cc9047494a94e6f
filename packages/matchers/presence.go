package matchers

import "fmt"

type notNull struct{}

// NotNull matches any present value other than JSON null.
func NotNull() Matcher { return notNull{} }

func (notNull) Match(actual any) error {
	if actual == nil {
		return fmt.Errorf("expected a non-null value, got null")
	}
	return nil
}

func (notNull) String() string { return "not null" }

type isNull struct{}

// IsNull matches an explicit JSON null. A path that does not exist fails;
// use Missing for that.
func IsNull() Matcher { return isNull{} }

func (isNull) Match(actual any) error {
	if actual != nil {
		return fmt.Errorf("expected null, got %s", format(actual))
	}
	return nil
}

func (isNull) String() string { return "null" }

type missing struct{}

// Missing matches only when the path does not exist in the response.
func Missing() Matcher { return missing{} }

func (missing) Match(actual any) error {
	return fmt.Errorf("expected path to be absent, got %s", format(actual))
}

func (missing) MatchMissing() error { return nil }

func (missing) String() string { return "absent" }

// Exists matches any present value, including null.
func Exists() Matcher { return Not(Missing()) }
