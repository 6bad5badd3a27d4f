package types

import "errors"

// Failure kinds surfaced by the pipeline. Every one of these is caught at
// the boundary of the component that produced it; callers observe the
// absence of an event plus a logged diagnostic, never a panic.
var (
	// ErrClipboardUnavailable means the OS clipboard could not be read this
	// tick (typically locked by another process). The next tick retries.
	ErrClipboardUnavailable = errors.New("clipboard unavailable")

	// ErrDecodeFailure means payload bytes were not a decodable image.
	ErrDecodeFailure = errors.New("image decode failure")

	// ErrFetchFailure means a remote image could not be downloaded or decoded.
	ErrFetchFailure = errors.New("remote fetch failure")

	// ErrCaptureFailure means both screen-capture backends failed.
	ErrCaptureFailure = errors.New("screen capture failure")

	// ErrHookRegistration means the OS denied global key-hook registration.
	// The gesture path stays disabled; the rest of the pipeline is unaffected.
	ErrHookRegistration = errors.New("key hook registration failure")
)
