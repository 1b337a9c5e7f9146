// Package poll schedules the repeating fetch tasks that keep the local view
// of the remote simulation fresh.
//
// Three cadences exist: a status check that runs for the lifetime of the
// client, and a fast state fetch plus a slower stats fetch that are only
// active while the simulation is understood to be running. The status task
// doubles as a supervisor: its callback is expected to resynchronize the
// run-state and restart or stop the fast tasks when local and remote
// diverged (page-reload-while-running, missed commands, another client).
package poll

import (
	"sync"
	"time"
)

// Callbacks are the fetch operations invoked on each cadence. A callback
// runs to completion before the next tick of the same task fires; different
// tasks interleave freely.
type Callbacks struct {
	Status func()
	State  func()
	Stats  func()
}

// Intervals holds the three task periods.
type Intervals struct {
	Status time.Duration
	State  time.Duration
	Stats  time.Duration
}

// Scheduler owns up to three repeating tasks.
type Scheduler struct {
	clock     Clock
	intervals Intervals
	cb        Callbacks

	mu     sync.Mutex
	status *task
	state  *task
	stats  *task
}

// NewScheduler creates a scheduler. Nothing starts until
// StartStatusPolling or StartPolling is called.
func NewScheduler(clock Clock, intervals Intervals, cb Callbacks) *Scheduler {
	return &Scheduler{clock: clock, intervals: intervals, cb: cb}
}

// task is one repeating invocation loop.
type task struct {
	ticker Ticker
	done   chan struct{}
}

func startTask(clock Clock, interval time.Duration, fn func()) *task {
	t := &task{
		ticker: clock.NewTicker(interval),
		done:   make(chan struct{}),
	}
	go func() {
		for {
			select {
			case <-t.done:
				return
			case <-t.ticker.C():
				fn()
			}
		}
	}()
	return t
}

func (t *task) stop() {
	t.ticker.Stop()
	close(t.done)
}

// StartStatusPolling begins the lifetime status task. Calling it again while
// the task is active is a no-op; run-state transitions never stop it.
func (s *Scheduler) StartStatusPolling() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != nil {
		return
	}
	s.status = startTask(s.clock, s.intervals.Status, s.cb.Status)
}

// StartPolling starts the fast state task and the stats task. Any existing
// pair is fully stopped first, so repeated calls never leak tickers.
func (s *Scheduler) StartPolling() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopStateLocked()
	s.stopStatsLocked()
	s.state = startTask(s.clock, s.intervals.State, s.cb.State)
	s.stats = startTask(s.clock, s.intervals.Stats, s.cb.Stats)
}

// StopPolling stops both the state and stats tasks. Idempotent.
func (s *Scheduler) StopPolling() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopStateLocked()
	s.stopStatsLocked()
}

// StopStatePolling stops only the fast state task. Idempotent.
func (s *Scheduler) StopStatePolling() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopStateLocked()
}

// StopStatsPolling stops only the stats task. Idempotent.
func (s *Scheduler) StopStatsPolling() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopStatsLocked()
}

// Close stops every task including the status supervisor.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopStateLocked()
	s.stopStatsLocked()
	if s.status != nil {
		s.status.stop()
		s.status = nil
	}
}

// StatePollingActive reports whether the fast state task is running.
func (s *Scheduler) StatePollingActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state != nil
}

// StatsPollingActive reports whether the stats task is running.
func (s *Scheduler) StatsPollingActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats != nil
}

func (s *Scheduler) stopStateLocked() {
	if s.state != nil {
		s.state.stop()
		s.state = nil
	}
}

func (s *Scheduler) stopStatsLocked() {
	if s.stats != nil {
		s.stats.stop()
		s.stats = nil
	}
}
