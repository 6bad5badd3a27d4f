// Package dedup gates the pipeline's two producers: an image only reaches the
// bus when its fingerprint differs from the last one accepted on the same
// channel. This is the sole state the clipboard poll loop and the gesture
// worker share, so one mutex here is the only cross-producer contention.
package dedup

import (
	"sync"

	"go.uber.org/zap"

	"github.com/snapwatch/snapwatch-daemon/internal/fingerprint"
	"github.com/snapwatch/snapwatch-daemon/internal/types"
)

// Persister receives accepted fingerprints so they survive a restart.
type Persister interface {
	SaveFingerprint(channel types.Channel, fp string)
}

// Gate keeps one last-fingerprint value per channel.
type Gate struct {
	mu      sync.Mutex
	last    map[types.Channel]string
	persist Persister
	logger  *zap.Logger
}

// New creates a gate. persist may be nil when seeds should not outlive the
// process.
func New(persist Persister, logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{
		last:    make(map[types.Channel]string),
		persist: persist,
		logger:  logger.With(zap.String("component", "dedup")),
	}
}

// Seed primes a channel's stored fingerprint, typically from the seed store
// at startup. An empty fingerprint is ignored.
func (g *Gate) Seed(channel types.Channel, fp string) {
	if fp == "" {
		return
	}
	g.mu.Lock()
	g.last[channel] = fp
	g.mu.Unlock()
}

// Accept decides whether content is new on its channel. Byte-identical input
// always fingerprints equally, so it can never re-emit; a hash collision at
// worst suppresses one genuinely new frame.
func (g *Gate) Accept(content *types.ImageContent) bool {
	fp := fingerprint.Image(content.Pixels)
	if fp == "" {
		return false
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.last[content.Channel] == fp {
		g.logger.Debug("duplicate content rejected",
			zap.String("channel", string(content.Channel)),
			zap.String("fingerprint", fp))
		return false
	}
	g.last[content.Channel] = fp
	if g.persist != nil {
		g.persist.SaveFingerprint(content.Channel, fp)
	}
	return true
}

// Last returns the stored fingerprint for a channel, for introspection.
func (g *Gate) Last(channel types.Channel) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last[channel]
}
