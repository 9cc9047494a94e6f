package assertions

import (
	"fmt"

	"github.com/abdul-hamid-achik/restcheck/packages/http"
	"github.com/abdul-hamid-achik/restcheck/packages/jsonpath"
	"github.com/abdul-hamid-achik/restcheck/packages/matchers"
)

// ErrInvalidSpec is matched by every ResponseSpec construction error. It is
// the same sentinel the request side uses.
var ErrInvalidSpec = http.ErrInvalidSpec

// StatusPath is the path reported for status code expectations.
const StatusPath = "statusCode"

type Kind int

const (
	KindBody Kind = iota
	KindHeader
)

func (k Kind) String() string {
	if k == KindHeader {
		return "header"
	}
	return "body"
}

// Expectation asserts that the value at Path satisfies Matcher. For body
// expectations Path is a JSON path; for header expectations it is the
// header name, compared case-insensitively.
type Expectation struct {
	Kind    Kind
	Path    string
	Matcher matchers.Matcher
}

func (e Expectation) String() string {
	if e.Kind == KindHeader {
		return fmt.Sprintf("header %s %s", e.Path, describe(e.Matcher))
	}
	return fmt.Sprintf("%s %s", displayPath(e.Path), describe(e.Matcher))
}

// ResponseSpec is an immutable set of response expectations.
type ResponseSpec struct {
	status       int
	expectations []Expectation
}

type Option func(*ResponseSpec)

func ExpectStatus(code int) Option {
	return func(s *ResponseSpec) {
		s.status = code
	}
}

// ExpectBody appends an expectation on the JSON body.
func ExpectBody(path string, m matchers.Matcher) Option {
	return func(s *ResponseSpec) {
		s.expectations = append(s.expectations, Expectation{Kind: KindBody, Path: path, Matcher: m})
	}
}

func ExpectHeader(name string, m matchers.Matcher) Option {
	return func(s *ResponseSpec) {
		s.expectations = append(s.expectations, Expectation{Kind: KindHeader, Path: name, Matcher: m})
	}
}

// NewResponseSpec builds a ResponseSpec. It fails with an error matching
// ErrInvalidSpec when a status code is out of range, a path is malformed, or
// a matcher is nil or has invalid arguments.
func NewResponseSpec(opts ...Option) (*ResponseSpec, error) {
	s := &ResponseSpec{}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// MustResponseSpec is like NewResponseSpec but panics on error. It is meant
// for package-level suite defaults.
func MustResponseSpec(opts ...Option) *ResponseSpec {
	s, err := NewResponseSpec(opts...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *ResponseSpec) validate() error {
	if s.status != 0 && (s.status < 100 || s.status > 599) {
		return &http.InvalidSpecError{Field: "status", Reason: fmt.Sprintf("%d is not a valid HTTP status code", s.status)}
	}
	for i, exp := range s.expectations {
		field := fmt.Sprintf("expectations[%d]", i)
		if exp.Matcher == nil {
			return &http.InvalidSpecError{Field: field, Reason: "matcher is nil"}
		}
		if err := matchers.Validate(exp.Matcher); err != nil {
			return &http.InvalidSpecError{Field: field, Reason: err.Error()}
		}
		switch exp.Kind {
		case KindHeader:
			if exp.Path == "" {
				return &http.InvalidSpecError{Field: field, Reason: "header name is empty"}
			}
		default:
			if err := jsonpath.Valid(exp.Path); err != nil {
				return &http.InvalidSpecError{Field: field, Reason: err.Error()}
			}
		}
	}
	return nil
}

// With returns a copy of s with opts applied on top.
func (s *ResponseSpec) With(opts ...Option) (*ResponseSpec, error) {
	return NewResponseSpec(append(s.options(), opts...)...)
}

func (s *ResponseSpec) options() []Option {
	if s == nil {
		return nil
	}
	status, exps := s.status, s.Expectations()
	return []Option{func(c *ResponseSpec) {
		if status != 0 {
			c.status = status
		}
		c.expectations = append(c.expectations, exps...)
	}}
}

// ExpectedStatus returns the expected status code and whether one is set.
func (s *ResponseSpec) ExpectedStatus() (int, bool) {
	if s == nil || s.status == 0 {
		return 0, false
	}
	return s.status, true
}

func (s *ResponseSpec) Expectations() []Expectation {
	if s == nil {
		return nil
	}
	out := make([]Expectation, len(s.expectations))
	copy(out, s.expectations)
	return out
}

// Merge combines base and override. The override's status wins when set and
// its expectations run after the base's. Either side may be nil.
func Merge(base, override *ResponseSpec) *ResponseSpec {
	switch {
	case override == nil:
		return base
	case base == nil:
		return override
	}
	merged := &ResponseSpec{status: base.status}
	if override.status != 0 {
		merged.status = override.status
	}
	merged.expectations = append(base.Expectations(), override.expectations...)
	return merged
}

func describe(m matchers.Matcher) string {
	if m == nil {
		return "<nil matcher>"
	}
	return m.String()
}

func displayPath(path string) string {
	if path == "" {
		return "body"
	}
	return path
}
