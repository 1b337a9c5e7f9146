package poll

import "time"

// Ticker delivers repeated time signals until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Clock creates tickers. Tests inject a manual clock so scheduler behavior
// can be driven without real wall-clock waits.
type Clock interface {
	NewTicker(d time.Duration) Ticker
}

// WallClock is the production Clock backed by the runtime timer wheel.
type WallClock struct{}

// NewTicker returns a ticker firing every d.
func (WallClock) NewTicker(d time.Duration) Ticker {
	return &wallTicker{t: time.NewTicker(d)}
}

type wallTicker struct {
	t *time.Ticker
}

func (w *wallTicker) C() <-chan time.Time { return w.t.C }
func (w *wallTicker) Stop()               { w.t.Stop() }
