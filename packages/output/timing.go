package output

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/abdul-hamid-achik/restcheck/packages/core/suite"
)

const (
	minTrackable = 1          // 1µs
	maxTrackable = 60_000_000 // 60s in µs
)

// ExecutionTimeHook prints "Execution time for <name>: <n>ms" for every
// finished case.
func ExecutionTimeHook(w io.Writer) suite.AfterTestHook {
	return func(t suite.Timing) {
		fmt.Fprintf(w, "Execution time for %s: %dms\n", t.MethodName, t.Elapsed().Milliseconds())
	}
}

// TimingStats summarizes case execution times.
type TimingStats struct {
	Count int64
	Min   time.Duration
	Max   time.Duration
	Mean  time.Duration
	P50   time.Duration
	P95   time.Duration
	P99   time.Duration
}

// TimingRecorder aggregates case durations in a latency histogram. It is
// safe for concurrent use.
type TimingRecorder struct {
	mu        sync.Mutex
	histogram *hdrhistogram.Histogram
}

func NewTimingRecorder() *TimingRecorder {
	return &TimingRecorder{
		// 1us to 60s range, 3 significant digits
		histogram: hdrhistogram.New(minTrackable, maxTrackable, 3),
	}
}

// Hook returns an AfterTestHook feeding r.
func (r *TimingRecorder) Hook() suite.AfterTestHook {
	return func(t suite.Timing) {
		r.Record(t.Elapsed())
	}
}

func (r *TimingRecorder) Record(d time.Duration) {
	us := d.Microseconds()
	if us < minTrackable {
		us = minTrackable
	}
	if us > maxTrackable {
		us = maxTrackable
	}

	r.mu.Lock()
	_ = r.histogram.RecordValue(us)
	r.mu.Unlock()
}

func (r *TimingRecorder) Stats() TimingStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	h := r.histogram
	if h.TotalCount() == 0 {
		return TimingStats{}
	}
	us := func(v int64) time.Duration { return time.Duration(v) * time.Microsecond }
	return TimingStats{
		Count: h.TotalCount(),
		Min:   us(h.Min()),
		Max:   us(h.Max()),
		Mean:  us(int64(h.Mean())),
		P50:   us(h.ValueAtQuantile(50)),
		P95:   us(h.ValueAtQuantile(95)),
		P99:   us(h.ValueAtQuantile(99)),
	}
}

// WriteSummary prints the percentile line shown after a run. Nothing is
// written when no case was timed.
func (r *TimingRecorder) WriteSummary(w io.Writer) {
	s := r.Stats()
	if s.Count == 0 {
		return
	}
	fmt.Fprintf(w, "Timing: p50=%dms p95=%dms p99=%dms max=%dms (%d cases)\n",
		s.P50.Milliseconds(), s.P95.Milliseconds(), s.P99.Milliseconds(), s.Max.Milliseconds(), s.Count)
}
