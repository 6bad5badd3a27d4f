// Package bus delivers accepted images to subscribers. The two event kinds
// are independent streams: downstream policy for gesture captures can differ
// from clipboard mirroring, so a subscriber picks the kind it cares about.
package bus

import (
	"sync"

	"go.uber.org/zap"

	"github.com/snapwatch/snapwatch-daemon/internal/types"
)

// subscriberBuffer absorbs short bursts without blocking a producer.
const subscriberBuffer = 8

// Bus fans accepted images out to per-kind subscriber channels.
type Bus struct {
	mu     sync.RWMutex
	subs   map[types.EventKind][]chan *types.ImageContent
	closed bool
	logger *zap.Logger
}

// New creates an event bus.
func New(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		subs:   make(map[types.EventKind][]chan *types.ImageContent),
		logger: logger.With(zap.String("component", "bus")),
	}
}

// Subscribe registers a new subscriber for one event kind. The returned
// channel is closed when the bus shuts down.
func (b *Bus) Subscribe(kind types.EventKind) <-chan *types.ImageContent {
	ch := make(chan *types.ImageContent, subscriberBuffer)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	b.subs[kind] = append(b.subs[kind], ch)
	return ch
}

// Publish delivers content to every subscriber of kind. A subscriber that has
// fallen behind its buffer loses the event; producers never block here, since
// one stalled consumer must not stall the poll loop or the gesture worker.
func (b *Bus) Publish(kind types.EventKind, content *types.ImageContent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs[kind] {
		select {
		case ch <- content:
		default:
			b.logger.Warn("subscriber lagging, dropping event",
				zap.String("kind", string(kind)),
				zap.String("content_id", content.ID))
		}
	}
}

// Close shuts the bus down and closes all subscriber channels.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, chans := range b.subs {
		for _, ch := range chans {
			close(ch)
		}
	}
	b.subs = nil
}
