package suite

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/abdul-hamid-achik/restcheck/packages/assertions"
	"github.com/abdul-hamid-achik/restcheck/packages/http"
)

type Status int

const (
	StatusPassed Status = iota
	StatusFailed
	StatusErrored
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusPassed:
		return "passed"
	case StatusFailed:
		return "failed"
	case StatusErrored:
		return "errored"
	case StatusSkipped:
		return "skipped"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Timing is passed to every AfterTestHook. MethodName is the registered
// test name; Case adds the tuple index for parameterized tests.
type Timing struct {
	MethodName string
	Case       string
	Start      time.Time
	End        time.Time
}

func (t Timing) Elapsed() time.Duration {
	return t.End.Sub(t.Start)
}

type AfterTestHook func(Timing)

type Config struct {
	Client       *http.Client
	RequestSpec  *http.RequestSpec
	ResponseSpec *assertions.ResponseSpec
	Logger       logrus.FieldLogger

	NameFilter string // exact name, or a pattern with a leading and/or trailing *
	TagsFilter []string
	Severities []Severity
	Bail       bool
}

// CaseResult is the outcome of one test case.
type CaseResult struct {
	Test       string
	Name       string
	Args       []any
	Severity   Severity
	Tags       []string
	Status     Status
	Err        error
	Failures   assertions.Failures
	SkipReason string
	Start      time.Time
	End        time.Time
	Duration   time.Duration
}

func (c *CaseResult) Passed() bool {
	return c.Status == StatusPassed
}

type RunResult struct {
	ID       string
	Start    time.Time
	Duration time.Duration
	Cases    []*CaseResult
	Passed   int
	Failed   int
	Errored  int
	Skipped  int
}

// OK reports whether no case failed or errored.
func (r *RunResult) OK() bool {
	return r.Failed == 0 && r.Errored == 0
}

func (r *RunResult) add(c *CaseResult) {
	r.Cases = append(r.Cases, c)
	switch c.Status {
	case StatusPassed:
		r.Passed++
	case StatusFailed:
		r.Failed++
	case StatusErrored:
		r.Errored++
	case StatusSkipped:
		r.Skipped++
	}
}

type Runner struct {
	config *Config
	hooks  []AfterTestHook
}

func NewRunner(cfg *Config) *Runner {
	if cfg == nil {
		cfg = &Config{}
	}
	c := *cfg
	if c.Client == nil {
		c.Client = http.NewClient()
	}
	if c.Logger == nil {
		c.Logger = logrus.StandardLogger()
	}
	return &Runner{config: &c}
}

// AfterTest registers a hook called after every executed case, in
// registration order.
func (r *Runner) AfterTest(h AfterTestHook) {
	r.hooks = append(r.hooks, h)
}

// Run executes every selected test of reg sequentially. Filtered and
// canceled cases are recorded as skipped, and a panicking data provider as a
// single errored case. Only Bail stops the run early.
func (r *Runner) Run(ctx context.Context, reg *Registry) *RunResult {
	result := &RunResult{
		ID:    uuid.NewString(),
		Start: time.Now(),
	}
	log := r.config.Logger.WithField("run", result.ID)

	tests := reg.Tests()
	log.WithField("tests", len(tests)).Debug("starting run")

outer:
	for i := range tests {
		test := &tests[i]

		if !r.shouldRun(test) {
			result.add(skipped(test, test.Name, "filtered out"))
			continue
		}

		tuples, err := test.tuples()
		if err != nil {
			c := errored(test, err)
			result.add(c)
			log.WithField("test", test.Name).Errorf("data provider: %v", err)
			if r.config.Bail {
				break
			}
			continue
		}
		if len(tuples) == 0 {
			result.add(skipped(test, test.Name, "data provider returned no arguments"))
			continue
		}

		for j, args := range tuples {
			name := test.Name
			if test.parameterized() {
				name = fmt.Sprintf("%s[%d]", test.Name, j)
			}

			if err := ctx.Err(); err != nil {
				result.add(skipped(test, name, err.Error()))
				continue
			}

			c := r.runCase(ctx, test, name, args)
			result.add(c)

			log.WithFields(logrus.Fields{
				"case":     name,
				"status":   c.Status.String(),
				"duration": c.Duration.String(),
			}).Debug("case finished")

			if r.config.Bail && (c.Status == StatusFailed || c.Status == StatusErrored) {
				break outer
			}
		}
	}

	result.Duration = time.Since(result.Start)
	return result
}

func (r *Runner) runCase(ctx context.Context, test *Test, name string, args []any) *CaseResult {
	c := &CaseResult{
		Test:     test.Name,
		Name:     name,
		Args:     args,
		Severity: test.Severity,
		Tags:     test.Tags,
	}

	t := &T{
		ctx:          ctx,
		name:         name,
		Client:       r.config.Client,
		RequestSpec:  r.config.RequestSpec,
		ResponseSpec: r.config.ResponseSpec,
		Logger:       r.config.Logger,
	}

	c.Start = time.Now()
	err := invoke(test.Run, t, args)
	c.End = time.Now()
	c.Duration = c.End.Sub(c.Start)

	classify(c, err)

	var pe *panicError
	if errors.As(err, &pe) {
		r.config.Logger.WithField("case", name).Errorf("%v\n%s", pe, pe.stack)
	}

	timing := Timing{MethodName: test.Name, Case: name, Start: c.Start, End: c.End}
	for _, h := range r.hooks {
		h(timing)
	}
	return c
}

type panicError struct {
	value any
	stack []byte
}

func (p *panicError) Error() string {
	return fmt.Sprintf("panic: %v", p.value)
}

func invoke(fn TestFunc, t *T, args []any) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = &panicError{value: v, stack: debug.Stack()}
		}
	}()
	return fn(t, args...)
}

func classify(c *CaseResult, err error) {
	c.Err = err
	if err == nil {
		c.Status = StatusPassed
		return
	}
	if fs, ok := assertions.AsFailures(err); ok {
		c.Status = StatusFailed
		c.Failures = fs
		return
	}
	var pe *panicError
	switch {
	case errors.Is(err, http.ErrTransport), errors.Is(err, http.ErrInvalidSpec), errors.As(err, &pe):
		c.Status = StatusErrored
	default:
		c.Status = StatusFailed
	}
}

func errored(test *Test, err error) *CaseResult {
	now := time.Now()
	return &CaseResult{
		Test:     test.Name,
		Name:     test.Name,
		Severity: test.Severity,
		Tags:     test.Tags,
		Status:   StatusErrored,
		Err:      err,
		Start:    now,
		End:      now,
	}
}

func skipped(test *Test, name, reason string) *CaseResult {
	return &CaseResult{
		Test:       test.Name,
		Name:       name,
		Severity:   test.Severity,
		Tags:       test.Tags,
		Status:     StatusSkipped,
		SkipReason: reason,
	}
}

func (r *Runner) shouldRun(test *Test) bool {
	if r.config.NameFilter != "" && !matchesPattern(test.Name, r.config.NameFilter) {
		return false
	}

	if len(r.config.TagsFilter) > 0 && !hasAnyTag(test.Tags, r.config.TagsFilter) {
		return false
	}

	if len(r.config.Severities) > 0 {
		found := false
		for _, s := range r.config.Severities {
			if s == test.Severity {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

func matchesPattern(name, pattern string) bool {
	if pattern == "" {
		return true
	}

	if len(pattern) > 1 && pattern[0] == '*' && pattern[len(pattern)-1] == '*' {
		return strings.Contains(name, pattern[1:len(pattern)-1])
	}

	if pattern[0] == '*' {
		return strings.HasSuffix(name, pattern[1:])
	}

	if pattern[len(pattern)-1] == '*' {
		return strings.HasPrefix(name, pattern[:len(pattern)-1])
	}

	return name == pattern
}

func hasAnyTag(tags []string, filters []string) bool {
	for _, filter := range filters {
		for _, tag := range tags {
			if tag == filter {
				return true
			}
		}
	}
	return false
}
