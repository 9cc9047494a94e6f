// Package output provides formatters for displaying test results.
//
// Supported output formats:
//   - Console: Human-readable colored terminal output
//   - JSON: Machine-readable JSON output
//   - JUnit: JUnit XML format for CI integration
//
// Each formatter implements the Formatter interface and can optionally
// implement Flushable for formats that accumulate results before output.
// TimingRecorder collects per-case execution times through the suite's
// after-test hook and summarizes them as percentiles.
package output
