package gesture

import (
	"testing"
	"time"
)

type harness struct {
	d     *Detector
	clock time.Time
	fired int
}

func newHarness(enabled bool, window time.Duration) *harness {
	h := &harness{clock: time.Unix(1000, 0)}
	h.d = New(
		func() bool { return enabled },
		func() time.Duration { return window },
		func() { h.fired++ },
		nil,
	)
	h.d.now = func() time.Time { return h.clock }
	return h
}

// press simulates a full down-up transition at the given offset.
func (h *harness) press(at time.Duration) {
	h.clock = time.Unix(1000, 0).Add(at)
	h.d.KeyDown()
	h.d.KeyUp()
}

func TestDoublePress_Fires(t *testing.T) {
	h := newHarness(true, 300*time.Millisecond)

	h.press(0)
	if h.fired != 0 {
		t.Fatal("fired on a single press")
	}
	h.press(250 * time.Millisecond)
	if h.fired != 1 {
		t.Fatalf("fired %d times after double-press, want 1", h.fired)
	}
}

func TestDoublePress_ClearsState(t *testing.T) {
	h := newHarness(true, 300*time.Millisecond)

	// Presses at t=0 and t=0.25s fire once; a press at t=0.5s must not pair
	// with the t=0.25s press.
	h.press(0)
	h.press(250 * time.Millisecond)
	h.press(500 * time.Millisecond)
	if h.fired != 1 {
		t.Errorf("fired %d times, want exactly 1", h.fired)
	}

	// A fourth press 200ms later pairs with the third and fires again.
	h.press(700 * time.Millisecond)
	if h.fired != 2 {
		t.Errorf("fired %d times after new pair, want 2", h.fired)
	}
}

func TestSlowPresses_DoNotFire(t *testing.T) {
	h := newHarness(true, 300*time.Millisecond)

	h.press(0)
	h.press(400 * time.Millisecond)
	h.press(800 * time.Millisecond)
	if h.fired != 0 {
		t.Errorf("fired %d times on presses outside the window", h.fired)
	}
}

func TestHeldKey_DoesNotRepeat(t *testing.T) {
	h := newHarness(true, 300*time.Millisecond)

	// Auto-repeat delivers KeyDown without an intervening KeyUp.
	h.d.KeyDown()
	h.clock = h.clock.Add(50 * time.Millisecond)
	h.d.KeyDown()
	h.clock = h.clock.Add(50 * time.Millisecond)
	h.d.KeyDown()

	if h.fired != 0 {
		t.Errorf("auto-repeat fired the gesture %d times", h.fired)
	}

	// Releasing and pressing again completes a real double-press.
	h.d.KeyUp()
	h.clock = h.clock.Add(50 * time.Millisecond)
	h.d.KeyDown()
	if h.fired != 1 {
		t.Errorf("fired %d times, want 1", h.fired)
	}
}

func TestDisabled_IgnoresPresses(t *testing.T) {
	h := newHarness(false, 300*time.Millisecond)

	h.press(0)
	h.press(100 * time.Millisecond)
	if h.fired != 0 {
		t.Errorf("disabled detector fired %d times", h.fired)
	}
}

func TestWindowReadLive(t *testing.T) {
	window := 300 * time.Millisecond
	h := &harness{clock: time.Unix(1000, 0)}
	h.d = New(
		func() bool { return true },
		func() time.Duration { return window },
		func() { h.fired++ },
		nil,
	)
	h.d.now = func() time.Time { return h.clock }

	// 400ms apart misses the 300ms window.
	h.press(0)
	h.press(400 * time.Millisecond)
	if h.fired != 0 {
		t.Fatal("fired outside window")
	}

	// Widening the window via config applies to the next press pair.
	window = 600 * time.Millisecond
	h.press(800 * time.Millisecond)
	if h.fired != 1 {
		t.Errorf("fired %d times with widened window, want 1", h.fired)
	}
}
