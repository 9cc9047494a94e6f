package suite

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
)

// ErrInvalidTest is returned by Register for a test that cannot run.
var ErrInvalidTest = errors.New("invalid test")

type Severity int

const (
	SeverityNormal Severity = iota
	SeverityTrivial
	SeverityMinor
	SeverityCritical
	SeverityBlocker
)

var severityNames = map[Severity]string{
	SeverityTrivial:  "trivial",
	SeverityMinor:    "minor",
	SeverityNormal:   "normal",
	SeverityCritical: "critical",
	SeverityBlocker:  "blocker",
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// Severities lists every severity from least to most severe.
func Severities() []Severity {
	return []Severity{SeverityTrivial, SeverityMinor, SeverityNormal, SeverityCritical, SeverityBlocker}
}

// ParseSeverity accepts the names printed by Severity.String, in any case.
func ParseSeverity(name string) (Severity, error) {
	for s, n := range severityNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return s, nil
		}
	}
	return SeverityNormal, fmt.Errorf("unknown severity %q", name)
}

// TestFunc runs one case. Returning assertions.Failures marks the case
// failed; a transport or spec error marks it errored.
type TestFunc func(t *T, args ...any) error

// Test describes one registered test.
type Test struct {
	Name        string
	Description string
	Epic        string
	Feature     string
	Story       string
	Severity    Severity
	Tags        []string

	// Params lists the argument tuples the test runs with, one case per
	// tuple. DataProvider is consulted when Params is nil. A test with
	// neither runs once with no arguments.
	Params       [][]any
	DataProvider func() [][]any

	Run TestFunc
}

// parameterized reports whether cases are named by tuple index.
func (t *Test) parameterized() bool {
	return t.Params != nil || t.DataProvider != nil
}

// tuples returns the argument tuples. A panicking DataProvider is returned
// as a *panicError.
func (t *Test) tuples() (tuples [][]any, err error) {
	switch {
	case t.Params != nil:
		return t.Params, nil
	case t.DataProvider != nil:
		defer func() {
			if v := recover(); v != nil {
				err = &panicError{value: v, stack: debug.Stack()}
			}
		}()
		return t.DataProvider(), nil
	default:
		return [][]any{nil}, nil
	}
}

// Registry holds tests in registration order.
type Registry struct {
	mu     sync.RWMutex
	tests  []*Test
	byName map[string]*Test
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Test)}
}

// Register adds t. Names must be non-empty and unique.
func (r *Registry) Register(t Test) error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidTest)
	}
	if t.Run == nil {
		return fmt.Errorf("%w: %s has no run function", ErrInvalidTest, t.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[t.Name]; exists {
		return fmt.Errorf("%w: duplicate test name %q", ErrInvalidTest, t.Name)
	}
	test := t
	test.Tags = append([]string(nil), t.Tags...)
	r.tests = append(r.tests, &test)
	r.byName[t.Name] = &test
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(tests ...Test) {
	for _, t := range tests {
		if err := r.Register(t); err != nil {
			panic(err)
		}
	}
}

// Tests returns the registered tests in registration order.
func (r *Registry) Tests() []Test {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Test, len(r.tests))
	for i, t := range r.tests {
		out[i] = *t
	}
	return out
}

func (r *Registry) Lookup(name string) (Test, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byName[name]
	if !ok {
		return Test{}, false
	}
	return *t, true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tests)
}
