package controller

import "github.com/petrilab/petriscope/state"

// RunState is the locally observed run-state. The authoritative state lives
// on the remote service; this value only changes after a successful command
// response or a status-poll reconciliation.
type RunState int

const (
	Stopped RunState = iota
	Running
	Paused
)

func (s RunState) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// Level classifies user-facing notifications.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

// View is the display capability set injected into the controller. It
// decouples the synchronization logic from any concrete UI toolkit; the
// graphical app implements it with raylib, tests with a recorder.
//
// Calls may arrive from poll goroutines; implementations must be safe for
// concurrent use.
type View interface {
	// ShowSnapshot is called for every accepted snapshot, after the stat
	// readout and chart buffers were updated. nil means the scene was
	// cleared by a reset.
	ShowSnapshot(s *state.Snapshot)
	// ShowStats is called on every stats poll completion.
	ShowStats(st *state.Stats)
	ShowRunState(rs RunState)
	ShowGeneration(gen int)
	// Notify surfaces a transient message for a user-initiated command.
	Notify(level Level, msg string)
}
