package output

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/restcheck/packages/core/suite"
)

// JUnit XML structures

// JUnitTestSuites is the root element
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Name       string           `xml:"name,attr,omitempty"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Skipped    int              `xml:"skipped,attr"`
	Time       float64          `xml:"time,attr"`
	Timestamp  string           `xml:"timestamp,attr,omitempty"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite represents one run of the registry
type JUnitTestSuite struct {
	XMLName    xml.Name        `xml:"testsuite"`
	Name       string          `xml:"name,attr"`
	ID         string          `xml:"id,attr,omitempty"`
	Tests      int             `xml:"tests,attr"`
	Failures   int             `xml:"failures,attr"`
	Errors     int             `xml:"errors,attr"`
	Skipped    int             `xml:"skipped,attr"`
	Time       float64         `xml:"time,attr"`
	Timestamp  string          `xml:"timestamp,attr,omitempty"`
	Properties []JUnitProperty `xml:"properties>property,omitempty"`
	TestCases  []JUnitTestCase `xml:"testcase"`
}

type JUnitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// JUnitTestCase represents a single test case
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Error     *JUnitError   `xml:"error,omitempty"`
	Skipped   *JUnitSkipped `xml:"skipped,omitempty"`
}

// JUnitFailure represents a test failure
type JUnitFailure struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

// JUnitError represents a test error
type JUnitError struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

// JUnitSkipped represents a skipped test
type JUnitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// JUnitFormatter formats test results as JUnit XML
type JUnitFormatter struct {
	writer     io.Writer
	suiteName  string
	testSuites []JUnitTestSuite
}

type JUnitOption func(*JUnitFormatter)

func NewJUnitFormatter(opts ...JUnitOption) *JUnitFormatter {
	f := &JUnitFormatter{
		writer:     os.Stdout,
		suiteName:  "restcheck",
		testSuites: make([]JUnitTestSuite, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JUnitWithWriter(w io.Writer) JUnitOption {
	return func(f *JUnitFormatter) {
		f.writer = w
	}
}

func JUnitWithSuiteName(name string) JUnitOption {
	return func(f *JUnitFormatter) {
		f.suiteName = name
	}
}

func (f *JUnitFormatter) FormatResult(result *suite.RunResult) {
	ts := JUnitTestSuite{
		Name:       f.suiteName,
		ID:         result.ID,
		Tests:      len(result.Cases),
		Failures:   result.Failed,
		Errors:     result.Errored,
		Skipped:    result.Skipped,
		Time:       result.Duration.Seconds(),
		Timestamp:  result.Start.Format(time.RFC3339),
		Properties: []JUnitProperty{{Name: "run.id", Value: result.ID}},
		TestCases:  make([]JUnitTestCase, 0, len(result.Cases)),
	}

	for _, c := range result.Cases {
		tc := JUnitTestCase{
			Name:      c.Name,
			ClassName: f.suiteName + "." + c.Test,
			Time:      c.Duration.Seconds(),
		}

		switch c.Status {
		case suite.StatusSkipped:
			tc.Skipped = &JUnitSkipped{
				Message: c.SkipReason,
			}
		case suite.StatusErrored:
			tc.Error = &JUnitError{
				Message: c.Err.Error(),
				Type:    fmt.Sprintf("%T", c.Err),
			}
		case suite.StatusFailed:
			var failureMsg strings.Builder
			for _, fl := range c.Failures {
				fmt.Fprintf(&failureMsg, "%s\n", fl.Error())
			}
			if len(c.Failures) == 0 && c.Err != nil {
				failureMsg.WriteString(c.Err.Error())
			}
			tc.Failure = &JUnitFailure{
				Message: fmt.Sprintf("%d expectation(s) failed", max(len(c.Failures), 1)),
				Type:    "ExpectationFailure",
				Content: failureMsg.String(),
			}
		}

		ts.TestCases = append(ts.TestCases, tc)
	}

	f.testSuites = append(f.testSuites, ts)
}

func (f *JUnitFormatter) FormatError(err error) {
	// Errors are included in individual test cases
}

func (f *JUnitFormatter) FormatHeader(version string) {
	// No header needed for JUnit XML
}

// Flush writes the accumulated JUnit XML output
func (f *JUnitFormatter) Flush(totalDuration time.Duration) error {
	var totalTests, totalFailures, totalErrors, totalSkipped int
	for _, s := range f.testSuites {
		totalTests += s.Tests
		totalFailures += s.Failures
		totalErrors += s.Errors
		totalSkipped += s.Skipped
	}

	suites := JUnitTestSuites{
		Name:       f.suiteName,
		Tests:      totalTests,
		Failures:   totalFailures,
		Errors:     totalErrors,
		Skipped:    totalSkipped,
		Time:       totalDuration.Seconds(),
		Timestamp:  time.Now().Format(time.RFC3339),
		TestSuites: f.testSuites,
	}

	fmt.Fprintf(f.writer, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	encoder := xml.NewEncoder(f.writer)
	encoder.Indent("", "  ")
	return encoder.Encode(suites)
}
