//go:build !linux && !windows
// +build !linux,!windows

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

func NewKeyHook(logger *zap.Logger) KeyHook {
	logger.Warn("no key hook backend on this platform, gesture capture disabled")
	return NoopKeyHook{}
}

func NewScreenBackends(logger *zap.Logger) (primary, fallback Screen) {
	logger.Warn("no screen capture backend on this platform")
	return NoopScreen{}, NoopScreen{}
}
