package http

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"
)

// Response is the captured result of one call. It is owned by the caller
// that executed the request and is not shared between requests.
type Response struct {
	Method     string
	URL        string
	StatusCode int
	Status     string
	Headers    map[string]string
	Body       []byte
	Start      time.Time
	End        time.Time
	Duration   time.Duration

	parseOnce sync.Once
	parsed    gjson.Result
}

func (r *Response) BodyString() string {
	return string(r.Body)
}

// JSON returns the parsed body. The body is parsed on first use; a body that
// is not valid JSON yields a Result for which Exists reports false.
func (r *Response) JSON() gjson.Result {
	r.parseOnce.Do(func() {
		if len(r.Body) > 0 && gjson.ValidBytes(r.Body) {
			r.parsed = gjson.ParseBytes(r.Body)
		}
	})
	return r.parsed
}

// Decode unmarshals the body into v.
func (r *Response) Decode(v any) error {
	return json.Unmarshal(r.Body, v)
}

func (r *Response) Header(key string) string {
	for k, v := range r.Headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

func (r *Response) ContentType() string {
	return r.Header("Content-Type")
}

func (r *Response) IsJSON() bool {
	ct := r.ContentType()
	return strings.Contains(ct, "application/json")
}

func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (r *Response) IsRedirect() bool {
	return r.StatusCode >= 300 && r.StatusCode < 400
}

func (r *Response) IsClientError() bool {
	return r.StatusCode >= 400 && r.StatusCode < 500
}

func (r *Response) IsServerError() bool {
	return r.StatusCode >= 500
}

func (r *Response) DurationMs() int64 {
	return r.Duration.Milliseconds()
}
