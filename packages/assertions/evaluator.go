package assertions

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/abdul-hamid-achik/restcheck/packages/http"
	"github.com/abdul-hamid-achik/restcheck/packages/jsonpath"
	"github.com/abdul-hamid-achik/restcheck/packages/matchers"
)

// Result is the outcome of one expectation.
type Result struct {
	Passed       bool
	Kind         Kind
	Path         string
	Matcher      string
	Expected     string
	Actual       any
	Message      string
	TypeMismatch bool
}

// Failure converts a failed result into an ExpectationFailure.
func (r Result) Failure() ExpectationFailure {
	return ExpectationFailure{
		Path:         r.Path,
		Matcher:      r.Matcher,
		Expected:     r.Expected,
		Actual:       r.Actual,
		Message:      r.Message,
		TypeMismatch: r.TypeMismatch,
	}
}

type Evaluator struct {
	response *http.Response
}

func NewEvaluator(resp *http.Response) *Evaluator {
	return &Evaluator{response: resp}
}

// Status checks the response status code against want.
func (e *Evaluator) Status(want int) Result {
	got := e.response.StatusCode
	r := Result{
		Path:     StatusPath,
		Matcher:  "equal to " + strconv.Itoa(want),
		Expected: strconv.Itoa(want),
		Actual:   got,
		Passed:   got == want,
	}
	if !r.Passed {
		r.Message = fmt.Sprintf("expected status %d, got %d", want, got)
	}
	return r
}

// Evaluate applies one expectation. It never panics on a missing path or a
// value of the wrong type; both become a failed Result.
func (e *Evaluator) Evaluate(exp Expectation) Result {
	r := Result{
		Kind:     exp.Kind,
		Path:     exp.Path,
		Matcher:  describe(exp.Matcher),
		Expected: describe(exp.Matcher),
	}
	if exp.Kind == KindHeader {
		r.Path = "header " + exp.Path
	}
	if exp.Matcher == nil {
		r.Message = "no matcher"
		return r
	}

	actual, ok := e.resolve(exp)
	if !ok {
		r.Actual = jsonpath.Missing
		if am, isAbsence := exp.Matcher.(matchers.AbsenceMatcher); isAbsence {
			if err := am.MatchMissing(); err != nil {
				r.Message = err.Error()
				return r
			}
			r.Passed = true
			return r
		}
		r.Message = fmt.Sprintf("path not found in response, expected a value %s", r.Matcher)
		return r
	}

	r.Actual = actual
	if err := exp.Matcher.Match(actual); err != nil {
		var tm *matchers.TypeMismatchError
		r.TypeMismatch = errors.As(err, &tm)
		r.Message = err.Error()
		return r
	}
	r.Passed = true
	return r
}

func (e *Evaluator) resolve(exp Expectation) (any, bool) {
	if exp.Kind == KindHeader {
		for k, v := range e.response.Headers {
			if strings.EqualFold(k, exp.Path) {
				return v, true
			}
		}
		return nil, false
	}

	body := e.response.JSON()
	if !body.Exists() {
		if exp.Path == "" {
			return e.response.BodyString(), true
		}
		return nil, false
	}
	return jsonpath.Resolve(body, exp.Path)
}

// EvaluateAll runs the status check (if any) and then every expectation of
// spec in order, returning one Result each.
func EvaluateAll(resp *http.Response, spec *ResponseSpec) []Result {
	e := NewEvaluator(resp)
	var results []Result
	if want, ok := spec.ExpectedStatus(); ok {
		results = append(results, e.Status(want))
	}
	for _, exp := range spec.Expectations() {
		results = append(results, e.Evaluate(exp))
	}
	return results
}

// Evaluate checks resp against spec and returns nil or a Failures value
// holding every mismatch.
func Evaluate(resp *http.Response, spec *ResponseSpec) error {
	if resp == nil {
		return errors.New("assertions: no response to evaluate")
	}
	var failures Failures
	for _, r := range EvaluateAll(resp, spec) {
		if !r.Passed {
			failures = append(failures, r.Failure())
		}
	}
	if len(failures) == 0 {
		return nil
	}
	return failures
}
