package assertions

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/restcheck/packages/jsonpath"
)

// ExpectationFailure describes one unmet expectation.
type ExpectationFailure struct {
	Path         string
	Matcher      string
	Expected     string
	Actual       any
	Message      string
	TypeMismatch bool
}

func (f ExpectationFailure) Error() string {
	path := displayPath(f.Path)
	if f.Message != "" {
		return fmt.Sprintf("%s: %s", path, f.Message)
	}
	return fmt.Sprintf("%s: expected a value %s, got %s", path, f.Matcher, formatActual(f.Actual))
}

// Missing reports whether the failure was caused by an unresolved path.
func (f ExpectationFailure) Missing() bool {
	return jsonpath.IsMissing(f.Actual)
}

// Failures aggregates every unmet expectation of one evaluation.
type Failures []ExpectationFailure

func (fs Failures) Error() string {
	if len(fs) == 1 {
		return "expectation failed: " + fs[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d expectations failed:", len(fs))
	for _, f := range fs {
		b.WriteString("\n  - ")
		b.WriteString(f.Error())
	}
	return b.String()
}

// AsFailures extracts the Failures from err, if any.
func AsFailures(err error) (Failures, bool) {
	var fs Failures
	if errors.As(err, &fs) {
		return fs, true
	}
	return nil, false
}

func formatActual(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q", val)
	}
	return fmt.Sprintf("%v", v)
}
