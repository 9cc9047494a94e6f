package output

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/abdul-hamid-achik/restcheck/packages/core/suite"
)

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) FormatResult(result *suite.RunResult) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	magenta := color.New(color.FgMagenta).SprintFunc()

	fmt.Fprintf(f.writer, "\n")

	for _, c := range result.Cases {
		switch c.Status {
		case suite.StatusSkipped:
			if c.SkipReason == "filtered out" && !f.verbose {
				continue
			}
			fmt.Fprintf(f.writer, "  %s %s", yellow("-"), c.Name)
			if c.SkipReason != "" {
				fmt.Fprintf(f.writer, " (%s)", c.SkipReason)
			}
			fmt.Fprintf(f.writer, "\n")
			continue

		case suite.StatusErrored:
			fmt.Fprintf(f.writer, "  %s %s %s\n", magenta("!"), c.Name, red(fmt.Sprintf("(%v)", c.Err)))
			continue

		case suite.StatusPassed:
			fmt.Fprintf(f.writer, "  %s %s %s\n", green("✓"), c.Name, cyan(fmt.Sprintf("(%dms)", c.Duration.Milliseconds())))

		case suite.StatusFailed:
			fmt.Fprintf(f.writer, "  %s %s %s\n", red("✗"), c.Name, cyan(fmt.Sprintf("(%dms)", c.Duration.Milliseconds())))
			if len(c.Failures) == 0 && c.Err != nil {
				fmt.Fprintf(f.writer, "    %s %v\n", red("→"), c.Err)
			}
			for _, fl := range c.Failures {
				fmt.Fprintf(f.writer, "    %s %s\n", red("→"), displayPath(fl.Path))
				fmt.Fprintf(f.writer, "      Expected: %s\n", fl.Matcher)
				fmt.Fprintf(f.writer, "      Actual:   %s\n", formatValue(fl.Actual, 100))
				if fl.Message != "" {
					fmt.Fprintf(f.writer, "      %s\n", fl.Message)
				}
			}
		}

		if f.verbose && len(c.Args) > 0 {
			fmt.Fprintf(f.writer, "    Args: %v\n", c.Args)
		}
	}

	fmt.Fprintf(f.writer, "\n")
	fmt.Fprintf(f.writer, "Tests: ")
	if result.Passed > 0 {
		fmt.Fprintf(f.writer, "%s, ", green(humanize.Comma(int64(result.Passed))+" passed"))
	}
	if result.Failed > 0 {
		fmt.Fprintf(f.writer, "%s, ", red(humanize.Comma(int64(result.Failed))+" failed"))
	}
	if result.Errored > 0 {
		fmt.Fprintf(f.writer, "%s, ", magenta(humanize.Comma(int64(result.Errored))+" errored"))
	}
	if result.Skipped > 0 {
		fmt.Fprintf(f.writer, "%s, ", yellow(humanize.Comma(int64(result.Skipped))+" skipped"))
	}
	fmt.Fprintf(f.writer, "%s total\n", humanize.Comma(int64(len(result.Cases))))
	fmt.Fprintf(f.writer, "Time:  %dms\n", result.Duration.Milliseconds())
	if f.verbose {
		fmt.Fprintf(f.writer, "Run:   %s\n", result.ID)
	}
	fmt.Fprintf(f.writer, "\n")
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("restcheck"), version)
}

func displayPath(path string) string {
	if path == "" {
		return "body"
	}
	return path
}
