package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/restcheck/packages/core/suite"
)

// JSONOutput represents the complete JSON output structure
type JSONOutput struct {
	RunID    string      `json:"runId"`
	Summary  JSONSummary `json:"summary"`
	Tests    []JSONTest  `json:"tests"`
	Duration float64     `json:"duration"`
	Time     string      `json:"time"`
}

// JSONSummary represents the test summary
type JSONSummary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Errored int `json:"errored"`
	Skipped int `json:"skipped"`
}

// JSONTest represents a single case result
type JSONTest struct {
	Name       string        `json:"name"`
	Test       string        `json:"test"`
	Status     string        `json:"status"`
	Severity   string        `json:"severity"`
	Tags       []string      `json:"tags,omitempty"`
	Args       []any         `json:"args,omitempty"`
	SkipReason string        `json:"skipReason,omitempty"`
	Duration   float64       `json:"duration"`
	Error      string        `json:"error,omitempty"`
	Failures   []JSONFailure `json:"failures,omitempty"`
}

// JSONFailure represents one unmet expectation
type JSONFailure struct {
	Path         string `json:"path"`
	Matcher      string `json:"matcher"`
	Actual       any    `json:"actual"`
	Message      string `json:"message,omitempty"`
	TypeMismatch bool   `json:"typeMismatch,omitempty"`
	Missing      bool   `json:"missing,omitempty"`
}

// JSONFormatter formats test results as JSON
type JSONFormatter struct {
	writer  io.Writer
	runID   string
	summary JSONSummary
	results []JSONTest
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer:  os.Stdout,
		results: make([]JSONTest, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) FormatResult(result *suite.RunResult) {
	f.runID = result.ID
	f.summary.Passed += result.Passed
	f.summary.Failed += result.Failed
	f.summary.Errored += result.Errored
	f.summary.Skipped += result.Skipped

	for _, c := range result.Cases {
		test := JSONTest{
			Name:       c.Name,
			Test:       c.Test,
			Status:     c.Status.String(),
			Severity:   c.Severity.String(),
			Tags:       c.Tags,
			Args:       c.Args,
			SkipReason: c.SkipReason,
			Duration:   float64(c.Duration.Milliseconds()),
		}

		if c.Err != nil && len(c.Failures) == 0 {
			test.Error = c.Err.Error()
		}

		for _, fl := range c.Failures {
			actual := fl.Actual
			if fl.Missing() {
				actual = nil
			}
			test.Failures = append(test.Failures, JSONFailure{
				Path:         fl.Path,
				Matcher:      fl.Matcher,
				Actual:       actual,
				Message:      fl.Message,
				TypeMismatch: fl.TypeMismatch,
				Missing:      fl.Missing(),
			})
		}

		f.results = append(f.results, test)
	}
}

func (f *JSONFormatter) FormatError(err error) {
	// Errors are included in individual test results
}

func (f *JSONFormatter) FormatHeader(version string) {
	// No header needed for JSON output
}

// Flush writes the accumulated JSON output
func (f *JSONFormatter) Flush(totalDuration time.Duration) error {
	summary := f.summary
	summary.Total = len(f.results)

	output := JSONOutput{
		RunID:    f.runID,
		Summary:  summary,
		Tests:    f.results,
		Duration: float64(totalDuration.Milliseconds()),
		Time:     time.Now().Format(time.RFC3339),
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
