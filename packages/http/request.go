package http

import (
	"fmt"
	"maps"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ContentType selects how a request body is encoded.
type ContentType int

const (
	ContentTypeNone ContentType = iota
	ContentTypeJSON
	ContentTypeForm
	ContentTypeText
)

func (c ContentType) String() string {
	switch c {
	case ContentTypeJSON:
		return "json"
	case ContentTypeForm:
		return "form"
	case ContentTypeText:
		return "text"
	default:
		return "none"
	}
}

// MIME returns the Content-Type header value, or "" for ContentTypeNone.
func (c ContentType) MIME() string {
	switch c {
	case ContentTypeJSON:
		return "application/json"
	case ContentTypeForm:
		return "application/x-www-form-urlencoded"
	case ContentTypeText:
		return "text/plain; charset=utf-8"
	default:
		return ""
	}
}

// RequestSpec is an immutable bundle of request defaults. Build one with
// NewRequestSpec (suite setup) or Override (per-call), and combine them with
// Merge. All accessors return copies.
type RequestSpec struct {
	baseURI     string
	queryParams map[string]string
	headers     map[string]string
	filters     []Filter
	contentType ContentType
	timeout     time.Duration
}

type SpecOption func(*RequestSpec)

func WithQueryParam(key string, value any) SpecOption {
	return func(s *RequestSpec) {
		s.queryParams[key] = formatParam(value)
	}
}

func WithQueryParams(params map[string]any) SpecOption {
	return func(s *RequestSpec) {
		for k, v := range params {
			s.queryParams[k] = formatParam(v)
		}
	}
}

// formatParam renders a query value. Floats never use exponent notation, so
// a JSON-decoded 1700000000 stays 1700000000.
func formatParam(v any) string {
	switch n := v.(type) {
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32)
	default:
		return fmt.Sprint(v)
	}
}

func WithHeader(key, value string) SpecOption {
	return func(s *RequestSpec) {
		s.headers[key] = value
	}
}

func WithHeaders(headers map[string]string) SpecOption {
	return func(s *RequestSpec) {
		for k, v := range headers {
			s.headers[k] = v
		}
	}
}

// WithFilter appends a filter. Filters run in the order they were added.
func WithFilter(f Filter) SpecOption {
	return func(s *RequestSpec) {
		if f != nil {
			s.filters = append(s.filters, f)
		}
	}
}

func WithContentType(ct ContentType) SpecOption {
	return func(s *RequestSpec) {
		s.contentType = ct
	}
}

// WithSpecTimeout bounds every call made with the spec, overriding the
// client's timeout.
func WithSpecTimeout(d time.Duration) SpecOption {
	return func(s *RequestSpec) {
		s.timeout = d
	}
}

func newSpec(baseURI string, opts []SpecOption) *RequestSpec {
	s := &RequestSpec{
		baseURI:     baseURI,
		queryParams: make(map[string]string),
		headers:     make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewRequestSpec builds a spec rooted at baseURI, which must be an absolute
// http or https URL.
func NewRequestSpec(baseURI string, opts ...SpecOption) (*RequestSpec, error) {
	baseURI = strings.TrimSpace(baseURI)
	if baseURI == "" {
		return nil, &InvalidSpecError{Field: "baseURI", Reason: "must not be empty"}
	}
	if err := ValidateURL(baseURI); err != nil {
		return nil, &InvalidSpecError{Field: "baseURI", Reason: err.Error()}
	}
	s := newSpec(baseURI, opts)
	if s.timeout < 0 {
		return nil, &InvalidSpecError{Field: "timeout", Reason: "must not be negative"}
	}
	return s, nil
}

// Override builds a per-call spec. It may leave the base URI empty, in which
// case the base spec's URI is kept when merging.
func Override(opts ...SpecOption) *RequestSpec {
	return newSpec("", opts)
}

// Merge combines base with override. Set fields of override win; query
// params and headers are unioned with override keys replacing base keys;
// filters of base run before those of override. Neither input is modified.
func Merge(base, override *RequestSpec) *RequestSpec {
	if base == nil {
		base = Override()
	}
	if override == nil {
		return base
	}

	result := &RequestSpec{
		baseURI:     base.baseURI,
		queryParams: maps.Clone(base.queryParams),
		headers:     maps.Clone(base.headers),
		filters:     append(append([]Filter{}, base.filters...), override.filters...),
		contentType: base.contentType,
		timeout:     base.timeout,
	}
	if result.queryParams == nil {
		result.queryParams = make(map[string]string)
	}
	if result.headers == nil {
		result.headers = make(map[string]string)
	}

	if override.baseURI != "" {
		result.baseURI = override.baseURI
	}
	maps.Copy(result.queryParams, override.queryParams)
	maps.Copy(result.headers, override.headers)
	if override.contentType != ContentTypeNone {
		result.contentType = override.contentType
	}
	if override.timeout > 0 {
		result.timeout = override.timeout
	}
	return result
}

// With returns s merged with a per-call override built from opts.
func (s *RequestSpec) With(opts ...SpecOption) *RequestSpec {
	return Merge(s, Override(opts...))
}

func (s *RequestSpec) BaseURI() string {
	return s.baseURI
}

func (s *RequestSpec) QueryParams() map[string]string {
	return maps.Clone(s.queryParams)
}

func (s *RequestSpec) Headers() map[string]string {
	return maps.Clone(s.headers)
}

func (s *RequestSpec) Filters() []Filter {
	return append([]Filter(nil), s.filters...)
}

func (s *RequestSpec) ContentType() ContentType {
	return s.contentType
}

func (s *RequestSpec) Timeout() time.Duration {
	return s.timeout
}

// ResolveURL builds the request URL for path. An absolute URL replaces the
// base, a path starting with "/" is resolved against the base host, any other
// path is appended to the base path. Query parameters are applied in order:
// the base URI's own query, the spec's params, then the query on path.
func (s *RequestSpec) ResolveURL(path string) (string, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return "", &InvalidSpecError{Field: "path", Reason: fmt.Sprintf("is not a valid URL reference: %v", err)}
	}

	q := url.Values{}
	var target *url.URL
	if ref.IsAbs() {
		target = ref
	} else {
		if s.baseURI == "" {
			return "", &InvalidSpecError{Field: "baseURI", Reason: "must not be empty"}
		}
		base, err := url.Parse(s.baseURI)
		if err != nil {
			return "", &InvalidSpecError{Field: "baseURI", Reason: err.Error()}
		}
		q = base.Query()
		switch {
		case ref.Path == "":
			target = base
		case strings.HasPrefix(ref.Path, "/"):
			target = base.ResolveReference(&url.URL{Path: ref.Path})
		default:
			target = base
			target.Path = strings.TrimSuffix(base.Path, "/") + "/" + ref.Path
			target.RawPath = ""
		}
	}

	for k, v := range s.queryParams {
		q.Set(k, v)
	}
	for k, vs := range ref.Query() {
		q[k] = vs
	}
	target.RawQuery = q.Encode()
	return target.String(), nil
}
