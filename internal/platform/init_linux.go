//go:build linux
// +build linux

package platform

import (
	"go.uber.org/zap"
)

// NewClipboard returns the primary clipboard backend, falling back to the
// text-only one when the display server is unreachable.
func NewClipboard(logger *zap.Logger) Clipboard {
	clip, err := NewDesignClipboard()
	if err != nil {
		logger.Warn("primary clipboard backend unavailable, falling back to text-only",
			zap.Error(err))
		return NewAtottoClipboard()
	}
	return clip
}

// NewKeyHook returns the platform key-hook capability.
func NewKeyHook(logger *zap.Logger) KeyHook {
	hook, err := NewX11KeyHook(logger)
	if err != nil {
		logger.Warn("x11 key hook unavailable", zap.Error(err))
		return NoopKeyHook{}
	}
	return hook
}

// NewScreenBackends returns the capture backends in fallback order.
func NewScreenBackends(logger *zap.Logger) (primary, fallback Screen) {
	x11, err := NewX11Screen()
	if err != nil {
		logger.Warn("persistent x11 screen backend unavailable", zap.Error(err))
		return NoopScreen{}, NewX11FreshScreen()
	}
	return x11, NewX11FreshScreen()
}
