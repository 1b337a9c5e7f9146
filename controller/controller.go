// Package controller wires the remote client, the polling scheduler, the
// state cache, the chart buffers, and the view into one composition root.
package controller

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/petrilab/petriscope/api"
	"github.com/petrilab/petriscope/chart"
	"github.com/petrilab/petriscope/poll"
	"github.com/petrilab/petriscope/state"
	"github.com/petrilab/petriscope/telemetry"
)

// Deps holds everything the controller is composed from.
type Deps struct {
	Client     *api.Client
	Cache      *state.Cache
	Fitness    *chart.Buffer
	Population *chart.Buffer
	View       View
	Clock      poll.Clock
	Intervals  poll.Intervals

	// Optional observability; both are nil-safe.
	Poll   *telemetry.PollCollector
	Export *telemetry.Exporter
}

// Controller owns the observed run-state and issues control commands.
type Controller struct {
	client     *api.Client
	cache      *state.Cache
	fitness    *chart.Buffer
	population *chart.Buffer
	view       View
	sched      *poll.Scheduler
	pollStats  *telemetry.PollCollector
	export     *telemetry.Exporter

	mu         sync.Mutex
	runState   RunState
	generation int
}

// New creates the controller and its scheduler. Nothing polls until
// StartStatusPolling is called.
func New(d Deps) *Controller {
	c := &Controller{
		client:     d.Client,
		cache:      d.Cache,
		fitness:    d.Fitness,
		population: d.Population,
		view:       d.View,
		pollStats:  d.Poll,
		export:     d.Export,
	}
	c.sched = poll.NewScheduler(d.Clock, d.Intervals, poll.Callbacks{
		Status: c.checkStatus,
		State:  c.fetchAndUpdateState,
		Stats:  c.fetchAndUpdateStats,
	})
	return c
}

// StartStatusPolling begins the lifetime status supervisor task.
func (c *Controller) StartStatusPolling() {
	c.sched.StartStatusPolling()
}

// Close stops all polling tasks.
func (c *Controller) Close() {
	c.sched.Close()
}

// RunState returns the observed run-state.
func (c *Controller) RunState() RunState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runState
}

// Generation returns the last displayed generation.
func (c *Controller) Generation() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// Scheduler exposes task activity for reconciliation tests.
func (c *Controller) Scheduler() *poll.Scheduler {
	return c.sched
}

// ===== control commands =====
// Local run-state mutates only after a success response; a failed command
// leaves state untouched and surfaces a notification.

// Start begins a new simulation run, optionally with parameter overrides.
func (c *Controller) Start(ctx context.Context, params map[string]any) error {
	if _, err := c.client.Start(ctx, params); err != nil {
		c.notifyCommandError("start", err)
		return err
	}

	c.setRunState(Running)
	c.sched.StartPolling()
	c.view.Notify(LevelSuccess, "simulation started")
	return nil
}

// Stop halts the simulation and all run-gated polling.
func (c *Controller) Stop(ctx context.Context) error {
	if _, err := c.client.Stop(ctx); err != nil {
		c.notifyCommandError("stop", err)
		return err
	}

	c.setRunState(Stopped)
	c.sched.StopPolling()
	c.view.Notify(LevelSuccess, "simulation stopped")
	return nil
}

// Pause freezes the generation counter. Only fast state polling stops;
// stats and status polling continue because run-time/FPS aggregates stay
// meaningful while paused.
func (c *Controller) Pause(ctx context.Context) error {
	if _, err := c.client.Pause(ctx); err != nil {
		c.notifyCommandError("pause", err)
		return err
	}

	c.setRunState(Paused)
	c.sched.StopStatePolling()
	c.view.Notify(LevelInfo, "simulation paused")
	return nil
}

// Resume continues a paused run and restarts fast polling.
func (c *Controller) Resume(ctx context.Context) error {
	if _, err := c.client.Resume(ctx); err != nil {
		c.notifyCommandError("resume", err)
		return err
	}

	c.setRunState(Running)
	c.sched.StartPolling()
	c.view.Notify(LevelSuccess, "simulation resumed")
	return nil
}

// Reset restores the remote simulation and clears the local cache and both
// chart buffers.
func (c *Controller) Reset(ctx context.Context) error {
	if _, err := c.client.Reset(ctx); err != nil {
		c.notifyCommandError("reset", err)
		return err
	}

	c.sched.StopPolling()
	c.cache.Clear()
	c.fitness.Clear()
	c.population.Clear()

	c.mu.Lock()
	c.runState = Stopped
	c.generation = 0
	c.mu.Unlock()

	c.view.ShowRunState(Stopped)
	c.view.ShowGeneration(0)
	c.view.ShowSnapshot(nil)
	c.view.Notify(LevelSuccess, "simulation reset")
	return nil
}

// Step advances one generation and fetches the resulting state immediately
// so a single step is visible without waiting for the next poll tick.
func (c *Controller) Step(ctx context.Context) error {
	resp, err := c.client.Step(ctx)
	if err != nil {
		c.notifyCommandError("step", err)
		return err
	}

	c.mu.Lock()
	c.generation = resp.Generation
	c.mu.Unlock()
	c.view.ShowGeneration(resp.Generation)

	c.fetchAndUpdateState()
	return nil
}

// Parameters fetches the current parameter set for the form.
func (c *Controller) Parameters(ctx context.Context) (map[string]any, error) {
	params, err := c.client.Parameters(ctx)
	if err != nil {
		c.notifyCommandError("get parameters", err)
		return nil, err
	}
	return params, nil
}

// ApplyParameters pushes edited parameters and returns the authoritative
// set echoed by the service.
func (c *Controller) ApplyParameters(ctx context.Context, params map[string]any) (map[string]any, error) {
	resp, err := c.client.SetParameters(ctx, params)
	if err != nil {
		c.notifyCommandError("update parameters", err)
		return nil, err
	}
	c.view.Notify(LevelSuccess, "parameters updated")
	return resp.Parameters, nil
}

// ===== poll callbacks =====
// Poll failures are logged, never surfaced: they self-heal on the next tick.

// checkStatus resynchronizes local run-state with the remote service. It is
// the self-healing supervisor for the fast tasks: a page-reload or missed
// command cannot leave polling permanently out of step with the remote run.
func (c *Controller) checkStatus() {
	start := time.Now()
	st, err := c.client.Status(context.Background())
	c.record(telemetry.TaskStatus, time.Since(start), err == nil)
	if err != nil {
		slog.Warn("status poll failed", "error", err)
		return
	}

	pollingActive := c.sched.StatePollingActive() || c.sched.StatsPollingActive()
	switch {
	case st.IsRunning && !pollingActive:
		slog.Info("remote running without local polling, resyncing")
		c.setRunState(Running)
		c.sched.StartPolling()
	case !st.IsRunning && pollingActive:
		slog.Info("remote stopped while polling active, resyncing")
		c.setRunState(Stopped)
		c.sched.StopPolling()
	}

	c.mu.Lock()
	c.generation = st.Generation()
	c.mu.Unlock()
	c.view.ShowGeneration(st.Generation())
}

// fetchAndUpdateState performs the differential fetch against the cache
// watermark. On an accepted update the snapshot fans out to the generation
// readout, the chart buffers, and the scene, in that order.
func (c *Controller) fetchAndUpdateState() {
	since := c.cache.LastPolledGeneration()

	start := time.Now()
	upd, err := c.client.Updates(context.Background(), since, true, false)
	c.record(telemetry.TaskState, time.Since(start), err == nil)
	if err != nil {
		slog.Debug("state poll failed", "since", since, "error", err)
		return
	}

	if !upd.HasUpdates || upd.State == nil {
		return
	}

	snap := upd.State
	if !c.cache.Accept(snap, upd.CurrentGeneration) {
		// Expected under out-of-order completion, not an error.
		slog.Debug("stale snapshot dropped",
			"generation", snap.Generation, "watermark", c.cache.LastPolledGeneration())
		return
	}

	c.mu.Lock()
	c.generation = upd.CurrentGeneration
	c.mu.Unlock()

	c.view.ShowGeneration(upd.CurrentGeneration)
	c.fitness.Append(snap.Generation,
		snap.Stats.Fitness.Bacteria.Avg, snap.Stats.Fitness.Phagocytes.Avg)
	c.population.Append(snap.Generation,
		float64(snap.Stats.Populations.Bacteria), float64(snap.Stats.Populations.Phagocytes))

	if err := c.export.WriteSeries(telemetry.SeriesRow{
		Generation:       snap.Generation,
		BacteriaFitness:  snap.Stats.Fitness.Bacteria.Avg,
		PhagocyteFitness: snap.Stats.Fitness.Phagocytes.Avg,
		Bacteria:         snap.Stats.Populations.Bacteria,
		Phagocytes:       snap.Stats.Populations.Phagocytes,
		Captures:         snap.Stats.Captures,
		Reproductions:    snap.Stats.Reproductions,
	}); err != nil {
		slog.Warn("series export failed", "error", err)
	}

	c.view.ShowSnapshot(snap)
}

// fetchAndUpdateStats refreshes the stats display. It never touches the
// generation watermark or the rendered scene. Stats carry no ordering guard
// (last-completed-wins), preserved as designed.
func (c *Controller) fetchAndUpdateStats() {
	start := time.Now()
	st, err := c.client.Stats(context.Background())
	c.record(telemetry.TaskStats, time.Since(start), err == nil)
	if err != nil {
		slog.Debug("stats poll failed", "error", err)
		return
	}

	c.cache.SetStats(st)
	c.view.ShowStats(st)
}

// ===== helpers =====

func (c *Controller) setRunState(rs RunState) {
	c.mu.Lock()
	c.runState = rs
	c.mu.Unlock()
	c.view.ShowRunState(rs)
}

func (c *Controller) record(task string, rt time.Duration, ok bool) {
	if c.pollStats != nil {
		c.pollStats.Record(task, rt, ok)
	}
}

func (c *Controller) notifyCommandError(cmd string, err error) {
	msg := err.Error()
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		msg = apiErr.Message
	}
	slog.Error("command failed", "command", cmd, "error", err)
	c.view.Notify(LevelError, cmd+" failed: "+msg)
}
