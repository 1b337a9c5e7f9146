// Package telemetry tracks client-side observability: poll round-trip
// statistics over a rolling window and CSV export of the chart series.
package telemetry

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Task names for the three polling cadences.
const (
	TaskStatus = "status"
	TaskState  = "state"
	TaskStats  = "stats"
)

// PollCollector tracks round-trip durations per task over a rolling window.
type PollCollector struct {
	mu         sync.Mutex
	windowSize int
	byTask     map[string]*taskWindow
}

// taskWindow is a circular buffer of round-trip samples for one task.
type taskWindow struct {
	samples  []time.Duration
	writeIdx int
	count    int
	failures int
	total    int
}

// NewPollCollector creates a collector averaging over windowSize samples
// per task.
func NewPollCollector(windowSize int) *PollCollector {
	if windowSize < 1 {
		windowSize = 64
	}
	return &PollCollector{
		windowSize: windowSize,
		byTask:     make(map[string]*taskWindow),
	}
}

// Record adds one round-trip sample. Failed polls count toward the failure
// tally but not toward the duration window.
func (p *PollCollector) Record(task string, roundTrip time.Duration, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	w := p.byTask[task]
	if w == nil {
		w = &taskWindow{samples: make([]time.Duration, p.windowSize)}
		p.byTask[task] = w
	}

	w.total++
	if !ok {
		w.failures++
		return
	}

	w.samples[w.writeIdx] = roundTrip
	w.writeIdx = (w.writeIdx + 1) % p.windowSize
	if w.count < p.windowSize {
		w.count++
	}
}

// PollStats holds aggregated round-trip statistics for one task.
type PollStats struct {
	Task     string
	Total    int
	Failures int
	Mean     time.Duration
	StdDev   time.Duration
	P50      time.Duration
	P90      time.Duration
}

// Stats computes aggregates over the current window for one task.
func (p *PollCollector) Stats(task string) PollStats {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := PollStats{Task: task}
	w := p.byTask[task]
	if w == nil {
		return s
	}
	s.Total = w.total
	s.Failures = w.failures
	if w.count == 0 {
		return s
	}

	values := make([]float64, w.count)
	for i := 0; i < w.count; i++ {
		values[i] = float64(w.samples[i])
	}

	mean, std := stat.MeanStdDev(values, nil)
	s.Mean = time.Duration(mean)
	if w.count > 1 {
		s.StdDev = time.Duration(std)
	}

	sort.Float64s(values)
	s.P50 = time.Duration(Percentile(values, 0.50))
	s.P90 = time.Duration(Percentile(values, 0.90))
	return s
}

// Tasks returns the task names seen so far, sorted.
func (p *PollCollector) Tasks() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	names := make([]string, 0, len(p.byTask))
	for name := range p.byTask {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LogStats logs round-trip stats for every task using slog.
func (p *PollCollector) LogStats() {
	for _, task := range p.Tasks() {
		s := p.Stats(task)
		slog.Info("poll",
			"task", s.Task,
			"total", s.Total,
			"failures", s.Failures,
			"mean_us", s.Mean.Microseconds(),
			"p50_us", s.P50.Microseconds(),
			"p90_us", s.P90.Microseconds(),
		)
	}
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
