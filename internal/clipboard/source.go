// Package clipboard polls the OS clipboard, classifies what it finds and
// produces at most one candidate image per tick.
package clipboard

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/snapwatch/snapwatch-daemon/internal/bus"
	"github.com/snapwatch/snapwatch-daemon/internal/dedup"
	"github.com/snapwatch/snapwatch-daemon/internal/fetch"
	"github.com/snapwatch/snapwatch-daemon/internal/imaging"
	"github.com/snapwatch/snapwatch-daemon/internal/platform"
	"github.com/snapwatch/snapwatch-daemon/internal/types"
)

// URLPersister receives each resolved remote URL so the suppression state
// survives a restart.
type URLPersister interface {
	SaveLastURL(url string)
}

// Source is the clipboard-origin producer.
type Source struct {
	clip     platform.Clipboard
	fetcher  *fetch.Fetcher
	gate     *dedup.Gate
	events   *bus.Bus
	interval func() time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	lastURL string

	persist URLPersister
	onEmit  func()
	onError func(error)
	newID   func() string
}

// NewSource wires the clipboard producer. interval is read every tick so the
// poll rate follows the live config; persist, onEmit and onError may be nil.
// onEmit runs once per emitted image, before the event is published.
func NewSource(clip platform.Clipboard, fetcher *fetch.Fetcher, gate *dedup.Gate,
	events *bus.Bus, interval func() time.Duration, persist URLPersister,
	onEmit func(), onError func(error), logger *zap.Logger) *Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{
		clip:     clip,
		fetcher:  fetcher,
		gate:     gate,
		events:   events,
		interval: interval,
		persist:  persist,
		onEmit:   onEmit,
		onError:  onError,
		logger:   logger.With(zap.String("component", "clipboard")),
		newID:    func() string { return uuid.New().String() },
	}
}

// SeedLastURL primes the duplicate-URL suppression, typically from the seed
// store at startup.
func (s *Source) SeedLastURL(url string) {
	s.mu.Lock()
	s.lastURL = url
	s.mu.Unlock()
}

// Run polls until ctx is cancelled, with one immediate tick at startup. The
// loop sleeps between ticks and does no other waiting, so a stop request
// takes effect within one interval.
func (s *Source) Run(ctx context.Context) {
	s.logger.Info("clipboard polling started",
		zap.Duration("interval", s.interval()),
		zap.String("backend", s.clip.Name()))

	s.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("clipboard polling stopped")
			return
		case <-time.After(s.interval()):
			s.tick(ctx)
		}
	}
}

// tick performs one classification pass. Every failure is absorbed here:
// the loop never dies, the next tick retries.
func (s *Source) tick(ctx context.Context) {
	imageData, err := s.clip.ReadImage()
	if err != nil {
		s.report(err)
		return
	}
	text, err := s.clip.ReadText()
	if err != nil {
		s.report(err)
		return
	}

	snap := Classify(imageData, text)
	switch snap.Kind {
	case types.SnapshotImage:
		s.handleImage(snap.Image)
	case types.SnapshotFilePaths:
		s.handleFilePaths(snap.Paths)
	case types.SnapshotHTML:
		if ref := FirstImageRef(snap.HTML, s.currentLastURL()); ref != "" {
			s.resolveRemote(ctx, ref)
		}
	case types.SnapshotText:
		if IsImageURL(snap.Text) && snap.Text != s.currentLastURL() {
			s.resolveRemote(ctx, snap.Text)
		}
	}
}

func (s *Source) handleImage(data []byte) {
	content, err := imaging.Decode(data)
	if err != nil {
		s.report(err)
		return
	}
	s.emit(content)
}

// handleFilePaths scans the copied list and stops at the first path that
// decodes to a changed image.
func (s *Source) handleFilePaths(paths []string) {
	for _, path := range paths {
		if !imaging.IsImagePath(path) {
			continue
		}
		content, err := imaging.DecodeFile(path)
		if err != nil {
			s.report(err)
			continue
		}
		if s.emit(content) {
			return
		}
	}
}

func (s *Source) resolveRemote(ctx context.Context, url string) {
	content, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		s.report(err)
		return
	}
	s.mu.Lock()
	s.lastURL = url
	s.mu.Unlock()
	if s.persist != nil {
		s.persist.SaveLastURL(url)
	}
	s.emit(content)
}

// emit pushes content through the dedup gate onto the new-image stream.
func (s *Source) emit(content *types.ImageContent) bool {
	content.Channel = types.ChannelClipboard
	content.ID = s.newID()
	if !s.gate.Accept(content) {
		return false
	}
	if s.onEmit != nil {
		s.onEmit()
	}
	s.logger.Info("new clipboard image",
		zap.String("content_id", content.ID),
		zap.String("format", content.Format),
		zap.Int("width", content.Width),
		zap.Int("height", content.Height),
		zap.Bool("animated", content.Animated()))
	s.events.Publish(types.EventNewImage, content)
	return true
}

func (s *Source) currentLastURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastURL
}

func (s *Source) report(err error) {
	s.logger.Warn("clipboard tick skipped", zap.Error(err))
	if s.onError != nil {
		s.onError(err)
	}
}
