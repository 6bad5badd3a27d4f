// Package platform isolates everything OS-specific behind small capability
// interfaces: clipboard access, global key hooks and screen capture. The
// concrete set is selected at composition time by the per-OS init files; an
// unsupported platform gets no-op implementations and the pipeline keeps
// running with whatever capabilities remain.
package platform

import (
	"image"
)

// Clipboard reads the OS clipboard. Implementations return raw payloads;
// classification happens in one place downstream.
type Clipboard interface {
	// ReadImage returns the clipboard's raster payload, or nil when the
	// clipboard holds no image. A non-nil error means the clipboard itself
	// was unreadable this tick.
	ReadImage() ([]byte, error)

	// ReadText returns the clipboard's text payload, or "" when it holds
	// no text.
	ReadText() (string, error)

	Name() string
}

// KeyHook registers global key-transition callbacks for one designated
// modifier. Callbacks run on the hook's dispatch context and must return
// promptly.
type KeyHook interface {
	// Register installs onDown/onUp handlers for the named modifier
	// ("shift", "ctrl", "alt"). A registration error disables the gesture
	// path only.
	Register(key string, onDown, onUp func()) error

	// UnregisterAll removes every installed hook. Failure is non-fatal.
	UnregisterAll() error

	// ReleaseModifiers synthesises key-release events for the designated
	// modifier and commonly co-held ones, so firing a gesture never leaves
	// a stuck key in the input system.
	ReleaseModifiers()
}

// Screen is one capture backend plus the geometry queries it needs.
type Screen interface {
	Name() string

	// IsAvailable reports whether the backend can currently be used.
	IsAvailable() bool

	// VirtualBounds returns the union bounding box of all monitors. Queried
	// fresh on every capture since layouts can change.
	VirtualBounds() (image.Rectangle, error)

	// CursorPosition returns the pointer location in virtual-screen
	// coordinates.
	CursorPosition() (image.Point, error)

	// CaptureRegion grabs the pixels inside r.
	CaptureRegion(r image.Rectangle) (*image.RGBA, error)

	Close() error
}
