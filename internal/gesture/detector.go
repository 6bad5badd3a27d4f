// Package gesture detects the double-press capture gesture on the designated
// modifier key.
package gesture

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Detector tracks modifier-key timing and fires on a qualifying double-press.
// Its callbacks are driven by the platform key hook and may run on any
// goroutine; all state sits behind one mutex.
type Detector struct {
	mu      sync.Mutex
	presses []time.Time
	held    bool

	enabled func() bool
	window  func() time.Duration
	onFire  func()
	logger  *zap.Logger

	// now is a seam for tests.
	now func() time.Time
}

// New creates a detector. enabled and window are read per press so config
// changes apply live; onFire runs synchronously inside KeyDown and must
// return promptly (the monitor dispatches the actual capture elsewhere).
func New(enabled func() bool, window func() time.Duration, onFire func(), logger *zap.Logger) *Detector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Detector{
		enabled: enabled,
		window:  window,
		onFire:  onFire,
		logger:  logger.With(zap.String("component", "gesture")),
		now:     time.Now,
	}
}

// KeyDown records one press. Auto-repeat is ignored: a press only counts if
// the key has been released since the last one. Two presses inside the
// window fire the gesture and clear the list, so a third press cannot pair
// with the second.
func (d *Detector) KeyDown() {
	if !d.enabled() {
		return
	}

	d.mu.Lock()
	if d.held {
		d.mu.Unlock()
		return
	}
	d.held = true

	now := d.now()
	window := d.window()

	kept := d.presses[:0]
	for _, t := range d.presses {
		if now.Sub(t) < window {
			kept = append(kept, t)
		}
	}
	d.presses = append(kept, now)

	fire := len(d.presses) >= 2
	if fire {
		d.presses = d.presses[:0]
	}
	d.mu.Unlock()

	if fire {
		d.logger.Debug("double-press detected")
		d.onFire()
	}
}

// KeyUp clears the held flag so the next press counts again.
func (d *Detector) KeyUp() {
	d.mu.Lock()
	d.held = false
	d.mu.Unlock()
}
