package telemetry

import (
	"math"
	"testing"
	"time"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestPollCollectorStats(t *testing.T) {
	p := NewPollCollector(8)

	for _, ms := range []int{10, 20, 30, 40} {
		p.Record(TaskState, time.Duration(ms)*time.Millisecond, true)
	}

	s := p.Stats(TaskState)
	if s.Total != 4 || s.Failures != 0 {
		t.Errorf("total/failures = %d/%d, want 4/0", s.Total, s.Failures)
	}
	if s.Mean != 25*time.Millisecond {
		t.Errorf("mean = %v, want 25ms", s.Mean)
	}
	if s.P50 != 25*time.Millisecond {
		t.Errorf("p50 = %v, want 25ms", s.P50)
	}
}

func TestPollCollectorFailuresExcludedFromWindow(t *testing.T) {
	p := NewPollCollector(8)
	p.Record(TaskStatus, 10*time.Millisecond, true)
	p.Record(TaskStatus, 99*time.Hour, false) // failure duration must not pollute stats

	s := p.Stats(TaskStatus)
	if s.Total != 2 {
		t.Errorf("total = %d, want 2", s.Total)
	}
	if s.Failures != 1 {
		t.Errorf("failures = %d, want 1", s.Failures)
	}
	if s.Mean != 10*time.Millisecond {
		t.Errorf("mean = %v, want 10ms (failure excluded)", s.Mean)
	}
}

func TestPollCollectorWindowEviction(t *testing.T) {
	p := NewPollCollector(2)
	p.Record(TaskStats, 100*time.Millisecond, true)
	p.Record(TaskStats, 10*time.Millisecond, true)
	p.Record(TaskStats, 20*time.Millisecond, true) // evicts the 100ms sample

	s := p.Stats(TaskStats)
	if s.Mean != 15*time.Millisecond {
		t.Errorf("mean = %v, want 15ms over the surviving window", s.Mean)
	}
	if s.Total != 3 {
		t.Errorf("total = %d, want 3 (lifetime counter)", s.Total)
	}
}

func TestPollCollectorUnknownTask(t *testing.T) {
	p := NewPollCollector(4)
	s := p.Stats("never-recorded")
	if s.Total != 0 || s.Mean != 0 || s.P90 != 0 {
		t.Errorf("unknown task stats = %+v, want zeros", s)
	}
}

func TestPollCollectorTasksSorted(t *testing.T) {
	p := NewPollCollector(4)
	p.Record(TaskStats, time.Millisecond, true)
	p.Record(TaskState, time.Millisecond, true)
	p.Record(TaskStatus, time.Millisecond, true)

	tasks := p.Tasks()
	want := []string{TaskState, TaskStats, TaskStatus}
	if len(tasks) != len(want) {
		t.Fatalf("tasks = %v, want %v", tasks, want)
	}
	for i := range want {
		if tasks[i] != want[i] {
			t.Errorf("tasks[%d] = %s, want %s", i, tasks[i], want[i])
		}
	}
}
