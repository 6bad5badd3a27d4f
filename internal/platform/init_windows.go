//go:build windows
// +build windows

package platform

import (
	"go.uber.org/zap"
)

func NewClipboard(logger *zap.Logger) Clipboard {
	clip, err := NewDesignClipboard()
	if err != nil {
		logger.Warn("primary clipboard backend unavailable, falling back to text-only",
			zap.Error(err))
		return NewAtottoClipboard()
	}
	return clip
}

// NewKeyHook returns a stub on Windows: a low-level keyboard hook needs a
// message pump this daemon does not run yet, so the gesture path registers
// as disabled and the rest of the pipeline is unaffected.
func NewKeyHook(logger *zap.Logger) KeyHook {
	logger.Warn("global key hook not implemented on windows, gesture capture disabled")
	return NoopKeyHook{}
}

func NewScreenBackends(logger *zap.Logger) (primary, fallback Screen) {
	return NewGDIScreen(), NoopScreen{}
}
