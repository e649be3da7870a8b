// Package playback advances the playhead while a session is playing and
// resolves which clip is under the playhead. The driver is the single source
// of truth for "now": anything rendering media seeks itself to match the
// playhead, never the reverse.
package playback

import (
	"log/slog"
	"sync"
	"time"
)

const (
	// TickInterval is the playback cadence; TickStep is how far the playhead
	// advances per tick. 0.1s per 100ms gives real-time playback.
	TickInterval = 100 * time.Millisecond
	TickStep     = 0.1
)

// Driver runs the playback tick. It never touches timeline state directly:
// the advance callback supplied by the owner reads the live playhead and
// moves it, under whatever locking the owner uses. The driver only guarantees
// the cadence and that no tick fires after Stop returns.
type Driver struct {
	advance  func(step float64)
	interval time.Duration
	step     float64
	logger   *slog.Logger

	mu      sync.Mutex
	playing bool
	stop    chan struct{}
	done    chan struct{}
}

// NewDriver creates a stopped driver. advance is called once per tick with
// the fixed time step.
func NewDriver(advance func(step float64), logger *slog.Logger) *Driver {
	return &Driver{
		advance:  advance,
		interval: TickInterval,
		step:     TickStep,
		logger:   logger,
	}
}

// Play starts the tick loop. Calling Play while already playing is a no-op;
// there is never more than one loop.
func (d *Driver) Play() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.playing {
		return
	}
	d.playing = true
	d.stop = make(chan struct{})
	d.done = make(chan struct{})

	go d.run(d.stop, d.done)

	if d.logger != nil {
		d.logger.Debug("playback started")
	}
}

// Stop halts playback and returns only after the tick goroutine has exited,
// so no tick can land after the caller observes the stopped state. Stopping
// a stopped driver is a no-op.
func (d *Driver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.playing {
		return
	}
	close(d.stop)
	<-d.done
	d.playing = false

	if d.logger != nil {
		d.logger.Debug("playback stopped")
	}
}

// IsPlaying reports whether the tick loop is running.
func (d *Driver) IsPlaying() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.playing
}

func (d *Driver) run(stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			d.advance(d.step)
		}
	}
}
