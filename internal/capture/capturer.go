// Package capture produces pixel buffers for gesture requests. A primary
// backend is tried first and a fallback covers it; a failure of both is
// reported as a value, never a panic, so the gesture path stays armed.
package capture

import (
	"fmt"
	"image"
	"time"

	"go.uber.org/zap"

	"github.com/snapwatch/snapwatch-daemon/internal/platform"
	"github.com/snapwatch/snapwatch-daemon/internal/types"
)

// Capturer routes region captures across its backends.
type Capturer struct {
	primary  platform.Screen
	fallback platform.Screen
	logger   *zap.Logger
}

// New creates a Capturer over the given backends.
func New(primary, fallback platform.Screen, logger *zap.Logger) *Capturer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Capturer{
		primary:  primary,
		fallback: fallback,
		logger:   logger.With(zap.String("component", "capture")),
	}
}

// Cursor returns the pointer position, preferring the primary backend.
func (c *Capturer) Cursor() (image.Point, error) {
	if c.primary.IsAvailable() {
		if pt, err := c.primary.CursorPosition(); err == nil {
			return pt, nil
		}
	}
	return c.fallback.CursorPosition()
}

// Capture grabs a region of the given size centered on p, clamped to the
// virtual screen. Bounds are queried fresh per call since monitor layouts
// can change while the daemon runs.
func (c *Capturer) Capture(p image.Point, width, height int) (*types.ImageContent, error) {
	bounds, err := c.bounds()
	if err != nil {
		return nil, err
	}
	region := RegionAround(p, width, height, bounds)

	img, err := c.grab(c.primary, region)
	if err != nil {
		c.logger.Warn("primary capture backend failed, trying fallback",
			zap.String("backend", c.primary.Name()), zap.Error(err))
		img, err = c.grab(c.fallback, region)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: all backends failed: %v", types.ErrCaptureFailure, err)
	}

	return &types.ImageContent{
		Pixels:    img,
		Width:     img.Bounds().Dx(),
		Height:    img.Bounds().Dy(),
		ColorMode: "rgba",
		Format:    types.FormatRaster,
		Channel:   types.ChannelGesture,
		Created:   time.Now(),
	}, nil
}

func (c *Capturer) bounds() (image.Rectangle, error) {
	if c.primary.IsAvailable() {
		if b, err := c.primary.VirtualBounds(); err == nil {
			return b, nil
		}
	}
	b, err := c.fallback.VirtualBounds()
	if err != nil {
		return image.Rectangle{}, fmt.Errorf("%w: no backend could report screen bounds: %v",
			types.ErrCaptureFailure, err)
	}
	return b, nil
}

// grab shields the pipeline from a misbehaving backend: a panic inside the
// backend converts to an error here.
func (c *Capturer) grab(backend platform.Screen, region image.Rectangle) (img *image.RGBA, err error) {
	if !backend.IsAvailable() {
		return nil, fmt.Errorf("backend %s unavailable", backend.Name())
	}
	defer func() {
		if r := recover(); r != nil {
			img = nil
			err = fmt.Errorf("backend %s panicked: %v", backend.Name(), r)
		}
	}()
	img, err = backend.CaptureRegion(region)
	if err == nil && (img == nil || len(img.Pix) == 0) {
		return nil, fmt.Errorf("backend %s returned no data", backend.Name())
	}
	return img, err
}
