package output

import (
	"fmt"
	"io"
	"time"

	"github.com/abdul-hamid-achik/restcheck/packages/core/suite"
)

// Formatter interface for all output formatters
type Formatter interface {
	FormatResult(result *suite.RunResult)
	FormatError(err error)
	FormatHeader(version string)
}

// Flushable interface for formatters that need to flush output
type Flushable interface {
	Flush(totalDuration time.Duration) error
}

// Options shared by every format.
type Options struct {
	Writer    io.Writer
	Verbose   bool
	NoColor   bool
	SuiteName string
}

// New returns the formatter registered under name: console, json or junit.
func New(name string, opts Options) (Formatter, error) {
	switch name {
	case "", "console":
		consoleOpts := []ConsoleOption{WithVerbose(opts.Verbose), WithNoColor(opts.NoColor)}
		if opts.Writer != nil {
			consoleOpts = append(consoleOpts, WithWriter(opts.Writer))
		}
		return NewConsoleFormatter(consoleOpts...), nil
	case "json":
		var jsonOpts []JSONOption
		if opts.Writer != nil {
			jsonOpts = append(jsonOpts, JSONWithWriter(opts.Writer))
		}
		return NewJSONFormatter(jsonOpts...), nil
	case "junit":
		var junitOpts []JUnitOption
		if opts.Writer != nil {
			junitOpts = append(junitOpts, JUnitWithWriter(opts.Writer))
		}
		if opts.SuiteName != "" {
			junitOpts = append(junitOpts, JUnitWithSuiteName(opts.SuiteName))
		}
		return NewJUnitFormatter(junitOpts...), nil
	}
	return nil, fmt.Errorf("unknown output format %q", name)
}

// formatValue formats a value for display, truncating or summarizing large values
func formatValue(v any, maxLen int) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case []any:
		return fmt.Sprintf("[array with %d items]", len(val))
	case map[string]any:
		return fmt.Sprintf("{object with %d keys}", len(val))
	case string:
		v = fmt.Sprintf("%q", val)
	}
	str := fmt.Sprintf("%v", v)
	if len(str) > maxLen {
		return str[:maxLen] + "..."
	}
	return str
}
