package http

import (
	"bytes"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"
)

// Filter observes a call. BeforeRequest runs after the request is fully
// built and before it is sent; AfterResponse runs once the body has been
// read. Filters of a spec run in registration order.
type Filter interface {
	BeforeRequest(req *http.Request)
	AfterResponse(resp *Response)
}

// FilterFuncs adapts plain functions to Filter. Nil fields are skipped.
type FilterFuncs struct {
	Before func(req *http.Request)
	After  func(resp *Response)
}

func (f FilterFuncs) BeforeRequest(req *http.Request) {
	if f.Before != nil {
		f.Before(req)
	}
}

func (f FilterFuncs) AfterResponse(resp *Response) {
	if f.After != nil {
		f.After(resp)
	}
}

// RequestLoggingFilter logs the outgoing method, URL, headers and body.
type RequestLoggingFilter struct {
	logger logrus.FieldLogger
}

func NewRequestLoggingFilter(logger logrus.FieldLogger) *RequestLoggingFilter {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &RequestLoggingFilter{logger: logger}
}

func (f *RequestLoggingFilter) BeforeRequest(req *http.Request) {
	fields := logrus.Fields{
		"method":  req.Method,
		"url":     req.URL.String(),
		"headers": flattenHeader(req.Header),
	}
	if body := peekBody(req); body != "" {
		fields["body"] = body
	}
	f.logger.WithFields(fields).Info("request")
}

func (f *RequestLoggingFilter) AfterResponse(*Response) {}

// ResponseLoggingFilter logs the status line, headers and body of the
// response.
type ResponseLoggingFilter struct {
	logger logrus.FieldLogger
}

func NewResponseLoggingFilter(logger logrus.FieldLogger) *ResponseLoggingFilter {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ResponseLoggingFilter{logger: logger}
}

func (f *ResponseLoggingFilter) BeforeRequest(*http.Request) {}

func (f *ResponseLoggingFilter) AfterResponse(resp *Response) {
	fields := logrus.Fields{
		"status":   resp.Status,
		"url":      resp.URL,
		"headers":  resp.Headers,
		"duration": resp.Duration.String(),
	}
	if len(resp.Body) > 0 {
		fields["body"] = resp.BodyString()
	}
	f.logger.WithFields(fields).Info("response")
}

// peekBody reads the body through GetBody so the request stays sendable.
func peekBody(req *http.Request) string {
	if req.GetBody == nil {
		return ""
	}
	rc, err := req.GetBody()
	if err != nil {
		return ""
	}
	defer rc.Close()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rc); err != nil {
		return ""
	}
	return buf.String()
}

func flattenHeader(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k := range h {
		out[k] = h.Get(k)
	}
	return out
}
