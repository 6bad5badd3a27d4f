//go:build linux
// +build linux

package platform

import (
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xinput"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgb/xtest"
	"go.uber.org/zap"

	"github.com/snapwatch/snapwatch-daemon/internal/types"
)

// X keysyms for the modifiers the hook understands. Left and right variants
// both count as the designated key.
var modifierKeysyms = map[string][]uint32{
	"shift": {0xffe1, 0xffe2},
	"ctrl":  {0xffe3, 0xffe4},
	"alt":   {0xffe9, 0xffea},
}

// X11KeyHook observes the designated modifier through XInput2 raw key events
// selected on the root window. Raw events are delivered in addition to normal
// input processing, never instead of it, so the watched key still reaches the
// focused application.
type X11KeyHook struct {
	conn   *xgb.Conn
	root   xproto.Window
	logger *zap.Logger

	mu       sync.Mutex
	watched  map[xproto.Keycode]bool
	released bool
	xtestOK  bool
}

// NewX11KeyHook connects to the X server. Registration happens in Register;
// a connection failure here surfaces as a hook registration failure there.
func NewX11KeyHook(logger *zap.Logger) (*X11KeyHook, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrHookRegistration, err)
	}
	h := &X11KeyHook{
		conn:   conn,
		root:   xproto.Setup(conn).DefaultScreen(conn).Root,
		logger: logger.With(zap.String("component", "x11-hook")),
	}
	if err := xtest.Init(conn); err != nil {
		// Without XTEST the defensive modifier release becomes a no-op.
		h.logger.Warn("xtest extension unavailable, stuck-key release disabled", zap.Error(err))
	} else {
		h.xtestOK = true
	}
	return h, nil
}

// Register selects raw key events for the named modifier's keycodes and
// starts the event loop. Callbacks run on the loop goroutine and must return
// promptly.
func (h *X11KeyHook) Register(key string, onDown, onUp func()) error {
	keysyms, ok := modifierKeysyms[key]
	if !ok {
		return fmt.Errorf("%w: unknown modifier %q", types.ErrHookRegistration, key)
	}

	keycodes, err := h.keycodesFor(keysyms)
	if err != nil {
		return err
	}
	if len(keycodes) == 0 {
		return fmt.Errorf("%w: no keycode mapped to %q", types.ErrHookRegistration, key)
	}

	if err := xinput.Init(h.conn); err != nil {
		return fmt.Errorf("%w: xinput extension: %v", types.ErrHookRegistration, err)
	}
	if _, err := xinput.XIQueryVersion(h.conn, 2, 0).Reply(); err != nil {
		return fmt.Errorf("%w: xinput2 unsupported: %v", types.ErrHookRegistration, err)
	}

	mask := uint32(xinput.XIEventMaskRawKeyPress | xinput.XIEventMaskRawKeyRelease)
	err = xinput.XISelectEventsChecked(h.conn, h.root, 1, []xinput.EventMask{{
		Deviceid: xinput.DeviceAllMaster,
		MaskLen:  1,
		Mask:     []uint32{mask},
	}}).Check()
	if err != nil {
		return fmt.Errorf("%w: select raw key events: %v", types.ErrHookRegistration, err)
	}

	watched := make(map[xproto.Keycode]bool, len(keycodes))
	for _, kc := range keycodes {
		watched[kc] = true
	}
	h.mu.Lock()
	h.watched = watched
	h.mu.Unlock()

	go h.eventLoop(onDown, onUp)
	h.logger.Info("key hook registered",
		zap.String("key", key), zap.Int("keycodes", len(keycodes)))
	return nil
}

func (h *X11KeyHook) keycodesFor(keysyms []uint32) ([]xproto.Keycode, error) {
	setup := xproto.Setup(h.conn)
	first := setup.MinKeycode
	count := byte(setup.MaxKeycode - setup.MinKeycode + 1)

	mapping, err := xproto.GetKeyboardMapping(h.conn, first, count).Reply()
	if err != nil {
		return nil, fmt.Errorf("%w: keyboard mapping: %v", types.ErrHookRegistration, err)
	}

	wanted := make(map[xproto.Keysym]bool, len(keysyms))
	for _, ks := range keysyms {
		wanted[xproto.Keysym(ks)] = true
	}

	per := int(mapping.KeysymsPerKeycode)
	var keycodes []xproto.Keycode
	for i := 0; i < int(count); i++ {
		for j := 0; j < per; j++ {
			if wanted[mapping.Keysyms[i*per+j]] {
				keycodes = append(keycodes, first+xproto.Keycode(i))
				break
			}
		}
	}
	return keycodes, nil
}

func (h *X11KeyHook) eventLoop(onDown, onUp func()) {
	for {
		ev, xerr := h.conn.WaitForEvent()
		if ev == nil && xerr == nil {
			// Connection closed; UnregisterAll was called.
			return
		}
		if xerr != nil {
			h.logger.Debug("x11 event error", zap.String("error", xerr.Error()))
			continue
		}
		h.dispatch(ev, onDown, onUp)
	}
}

// dispatch routes one event to the key callbacks. Raw events carry the
// keycode in Detail; keycodes other than the watched modifier are ignored.
func (h *X11KeyHook) dispatch(ev xgb.Event, onDown, onUp func()) {
	switch e := ev.(type) {
	case xinput.RawKeyPressEvent:
		if h.watches(xproto.Keycode(e.Detail)) {
			onDown()
		}
	case xinput.RawKeyReleaseEvent:
		if h.watches(xproto.Keycode(e.Detail)) {
			onUp()
		}
	}
}

func (h *X11KeyHook) watches(kc xproto.Keycode) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.watched[kc]
}

// ReleaseModifiers injects release events for the watched keycodes plus the
// other common modifiers, so a fired gesture cannot leave a key held down.
// The injected releases surface as raw events themselves and read as an
// ordinary key-up.
func (h *X11KeyHook) ReleaseModifiers() {
	if !h.xtestOK {
		return
	}
	seen := make(map[xproto.Keycode]bool)
	h.mu.Lock()
	for kc := range h.watched {
		seen[kc] = true
	}
	h.mu.Unlock()

	var all []uint32
	for _, syms := range modifierKeysyms {
		all = append(all, syms...)
	}
	if extra, err := h.keycodesFor(all); err == nil {
		for _, kc := range extra {
			seen[kc] = true
		}
	}

	for kc := range seen {
		xtest.FakeInput(h.conn, xproto.KeyRelease, byte(kc),
			xproto.TimeCurrentTime, h.root, 0, 0, 0)
	}
}

// UnregisterAll closes the connection, which drops the raw-event selection
// and ends the event loop.
func (h *X11KeyHook) UnregisterAll() error {
	h.mu.Lock()
	if h.released {
		h.mu.Unlock()
		return nil
	}
	h.released = true
	h.watched = nil
	h.mu.Unlock()

	h.conn.Close()
	return nil
}
