// Package monitor assembles the acquisition pipeline: the clipboard poll
// loop and the gesture capture path, converging on the dedup gate and the
// event bus.
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/snapwatch/snapwatch-daemon/internal/bus"
	"github.com/snapwatch/snapwatch-daemon/internal/capture"
	"github.com/snapwatch/snapwatch-daemon/internal/clipboard"
	"github.com/snapwatch/snapwatch-daemon/internal/config"
	"github.com/snapwatch/snapwatch-daemon/internal/dedup"
	"github.com/snapwatch/snapwatch-daemon/internal/fetch"
	"github.com/snapwatch/snapwatch-daemon/internal/gesture"
	"github.com/snapwatch/snapwatch-daemon/internal/platform"
	"github.com/snapwatch/snapwatch-daemon/internal/storage"
	"github.com/snapwatch/snapwatch-daemon/internal/types"
)

// Capability constructors, overridable in tests.
var (
	newClipboard      = platform.NewClipboard
	newScreenBackends = platform.NewScreenBackends
	newKeyHook        = platform.NewKeyHook
)

// Monitor owns the pipeline's lifecycle.
type Monitor struct {
	cfg    *config.Watcher
	logger *zap.Logger

	events   *bus.Bus
	gate     *dedup.Gate
	source   *clipboard.Source
	capturer *capture.Capturer
	detector *gesture.Detector
	hook     platform.KeyHook
	store    *storage.SeedStore

	captureReq chan struct{}
	cancel     context.CancelFunc
	wg         sync.WaitGroup

	mu           sync.Mutex
	running      bool
	gestureArmed bool
	lastActivity time.Time
	errorCount   int
	lastError    string
}

// New wires a Monitor from the platform capabilities selected for this OS.
// store may be nil; dedup state then starts empty every run.
func New(cfg *config.Watcher, store *storage.SeedStore, logger *zap.Logger) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Monitor{
		cfg:        cfg,
		logger:     logger.With(zap.String("component", "monitor")),
		events:     bus.New(logger),
		store:      store,
		captureReq: make(chan struct{}, 1),
	}

	var persist dedup.Persister
	var urlPersist clipboard.URLPersister
	if store != nil {
		persist = store
		urlPersist = store
	}
	m.gate = dedup.New(persist, logger)

	fetcher := fetch.New(func() time.Duration { return cfg.Current().FetchTimeout() }, logger)
	m.source = clipboard.NewSource(
		newClipboard(logger),
		fetcher,
		m.gate,
		m.events,
		func() time.Duration { return cfg.Current().PollingInterval() },
		urlPersist,
		m.touch,
		m.recordError,
		logger,
	)

	primary, fallback := newScreenBackends(logger)
	m.capturer = capture.New(primary, fallback, logger)

	m.hook = newKeyHook(logger)
	m.detector = gesture.New(
		func() bool { return cfg.Current().Gesture.Enabled },
		func() time.Duration { return cfg.Current().GestureWindow() },
		m.onGestureFire,
		logger,
	)

	return m
}

// Events returns the bus subscribers attach to.
func (m *Monitor) Events() *bus.Bus { return m.events }

// Start seeds dedup state, registers the key hook and launches both
// producers. A hook registration failure disables the gesture path only.
func (m *Monitor) Start() error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return nil
	}
	m.running = true
	m.lastActivity = time.Now()
	m.mu.Unlock()

	if m.store != nil {
		m.gate.Seed(types.ChannelClipboard, m.store.LoadFingerprint(types.ChannelClipboard))
		m.gate.Seed(types.ChannelGesture, m.store.LoadFingerprint(types.ChannelGesture))
		m.source.SeedLastURL(m.store.LoadLastURL())
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	key := m.cfg.Current().Gesture.Key
	if err := m.hook.Register(key, m.detector.KeyDown, m.detector.KeyUp); err != nil {
		// Reported, not fatal: the clipboard path is unaffected.
		m.logger.Warn("gesture detection disabled", zap.Error(err))
		m.recordError(err)
	} else {
		m.mu.Lock()
		m.gestureArmed = true
		m.mu.Unlock()
	}

	m.wg.Add(2)
	go func() {
		defer m.wg.Done()
		m.source.Run(ctx)
	}()
	go func() {
		defer m.wg.Done()
		m.captureWorker(ctx)
	}()

	m.logger.Info("monitor started",
		zap.Bool("gesture_armed", m.GestureArmed()),
		zap.String("gesture_key", key))
	return nil
}

// Stop terminates both producers, deregisters the key hooks and closes the
// bus. Hook deregistration failure is logged and never blocks shutdown.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	m.mu.Unlock()

	m.cancel()
	if err := m.hook.UnregisterAll(); err != nil {
		m.logger.Warn("failed to deregister key hooks", zap.Error(err))
	}
	m.wg.Wait()
	m.events.Close()
	m.logger.Info("monitor stopped")
}

// onGestureFire runs on the hook's dispatch context. It only releases the
// modifiers and schedules the capture; the worker does the blocking part so
// the callback returns immediately.
func (m *Monitor) onGestureFire() {
	m.hook.ReleaseModifiers()
	select {
	case m.captureReq <- struct{}{}:
	default:
		// A capture is already pending; coalesce.
	}
}

func (m *Monitor) captureWorker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.captureReq:
			m.handleCapture()
		}
	}
}

func (m *Monitor) handleCapture() {
	pt, err := m.capturer.Cursor()
	if err != nil {
		m.logger.Warn("gesture capture skipped, cursor unavailable", zap.Error(err))
		m.recordError(err)
		return
	}

	cfg := m.cfg.Current()
	content, err := m.capturer.Capture(pt, cfg.Capture.Width, cfg.Capture.Height)
	if err != nil {
		// The detector stays armed for the next double-press.
		m.logger.Warn("gesture capture failed", zap.Error(err))
		m.recordError(err)
		return
	}

	content.ID = uuid.New().String()
	if !m.gate.Accept(content) {
		m.logger.Debug("gesture capture unchanged, not emitted",
			zap.String("content_id", content.ID))
		return
	}

	m.touch()
	m.logger.Info("screen captured",
		zap.String("content_id", content.ID),
		zap.Int("width", content.Width),
		zap.Int("height", content.Height))
	m.events.Publish(types.EventCaptured, content)
}

// Status reports the pipeline state for CLI introspection.
func (m *Monitor) Status() types.MonitoringStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return types.MonitoringStatus{
		IsRunning:    m.running,
		GestureArmed: m.gestureArmed,
		LastActivity: m.lastActivity,
		ErrorCount:   m.errorCount,
		LastError:    m.lastError,
	}
}

// GestureArmed reports whether the key hook registered successfully.
func (m *Monitor) GestureArmed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gestureArmed
}

func (m *Monitor) touch() {
	m.mu.Lock()
	m.lastActivity = time.Now()
	m.mu.Unlock()
}

func (m *Monitor) recordError(err error) {
	m.mu.Lock()
	m.errorCount++
	m.lastError = err.Error()
	m.mu.Unlock()
}
