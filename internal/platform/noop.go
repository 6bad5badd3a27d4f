package platform

import (
	"fmt"
	"image"

	"github.com/snapwatch/snapwatch-daemon/internal/types"
)

// NoopClipboard is the clipboard stand-in for unsupported platforms.
type NoopClipboard struct{}

func (NoopClipboard) ReadImage() ([]byte, error) { return nil, nil }
func (NoopClipboard) ReadText() (string, error)  { return "", nil }
func (NoopClipboard) Name() string               { return "noop" }

// NoopKeyHook refuses registration, which disables the gesture path without
// touching the rest of the pipeline.
type NoopKeyHook struct{}

func (NoopKeyHook) Register(string, func(), func()) error {
	return fmt.Errorf("%w: no key hook backend on this platform", types.ErrHookRegistration)
}
func (NoopKeyHook) UnregisterAll() error { return nil }
func (NoopKeyHook) ReleaseModifiers()    {}

// NoopScreen reports itself unavailable so the capture router skips it.
type NoopScreen struct{}

func (NoopScreen) Name() string      { return "noop" }
func (NoopScreen) IsAvailable() bool { return false }
func (NoopScreen) VirtualBounds() (image.Rectangle, error) {
	return image.Rectangle{}, fmt.Errorf("%w: no screen backend on this platform", types.ErrCaptureFailure)
}
func (NoopScreen) CursorPosition() (image.Point, error) {
	return image.Point{}, fmt.Errorf("%w: no screen backend on this platform", types.ErrCaptureFailure)
}
func (NoopScreen) CaptureRegion(image.Rectangle) (*image.RGBA, error) {
	return nil, fmt.Errorf("%w: no screen backend on this platform", types.ErrCaptureFailure)
}
func (NoopScreen) Close() error { return nil }
