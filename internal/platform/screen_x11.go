//go:build linux
// +build linux

package platform

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/snapwatch/snapwatch-daemon/internal/types"
)

// X11Screen captures regions of the root window over one persistent X
// connection. The root window spans the whole virtual screen, so its
// geometry is the union of all monitors.
type X11Screen struct {
	conn   *xgb.Conn
	root   xproto.Window
	screen *xproto.ScreenInfo
	mu     sync.Mutex
}

// NewX11Screen connects to the X server.
func NewX11Screen() (*X11Screen, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}
	screen := xproto.Setup(conn).DefaultScreen(conn)
	return &X11Screen{
		conn:   conn,
		root:   screen.Root,
		screen: screen,
	}, nil
}

func (s *X11Screen) Name() string { return "x11" }

func (s *X11Screen) IsAvailable() bool { return s.conn != nil }

// VirtualBounds queries the root window geometry fresh on every call;
// monitor layouts can change while the daemon runs.
func (s *X11Screen) VirtualBounds() (image.Rectangle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	geom, err := xproto.GetGeometry(s.conn, xproto.Drawable(s.root)).Reply()
	if err != nil {
		return image.Rectangle{}, fmt.Errorf("%w: root geometry: %v", types.ErrCaptureFailure, err)
	}
	return image.Rect(int(geom.X), int(geom.Y),
		int(geom.X)+int(geom.Width), int(geom.Y)+int(geom.Height)), nil
}

func (s *X11Screen) CursorPosition() (image.Point, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ptr, err := xproto.QueryPointer(s.conn, s.root).Reply()
	if err != nil {
		return image.Point{}, fmt.Errorf("%w: query pointer: %v", types.ErrCaptureFailure, err)
	}
	return image.Pt(int(ptr.RootX), int(ptr.RootY)), nil
}

func (s *X11Screen) CaptureRegion(r image.Rectangle) (*image.RGBA, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reply, err := xproto.GetImage(
		s.conn,
		xproto.ImageFormatZPixmap,
		xproto.Drawable(s.root),
		int16(r.Min.X), int16(r.Min.Y),
		uint16(r.Dx()), uint16(r.Dy()),
		0xffffffff,
	).Reply()
	if err != nil {
		return nil, fmt.Errorf("%w: get image: %v", types.ErrCaptureFailure, err)
	}
	if len(reply.Data) == 0 {
		return nil, fmt.Errorf("%w: empty image reply", types.ErrCaptureFailure)
	}
	return convertZPixmap(reply.Data, r.Dx(), r.Dy(), int(s.screen.RootDepth))
}

func (s *X11Screen) Close() error {
	s.conn.Close()
	return nil
}

// convertZPixmap turns the server's 24/32-bit BGRx data into RGBA. Other
// root depths are refused so the capture router moves on to the fallback
// instead of emitting a blank frame.
func convertZPixmap(data []byte, width, height, depth int) (*image.RGBA, error) {
	if depth != 24 && depth != 32 {
		return nil, fmt.Errorf("%w: unsupported root depth %d", types.ErrCaptureFailure, depth)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := (y*width + x) * 4
			if i+3 < len(data) {
				img.Set(x, y, color.RGBA{
					R: data[i+2],
					G: data[i+1],
					B: data[i],
					A: 255,
				})
			}
		}
	}
	return img, nil
}

// X11FreshScreen is the fallback backend: it opens a new connection per
// call. A stale persistent connection (display restart, dropped socket)
// takes the primary backend down; a fresh connection still succeeds.
type X11FreshScreen struct{}

func NewX11FreshScreen() *X11FreshScreen { return &X11FreshScreen{} }

func (s *X11FreshScreen) Name() string { return "x11-fresh" }

func (s *X11FreshScreen) IsAvailable() bool { return true }

func (s *X11FreshScreen) withConn(fn func(*X11Screen) error) error {
	conn, err := NewX11Screen()
	if err != nil {
		return err
	}
	defer conn.Close()
	return fn(conn)
}

func (s *X11FreshScreen) VirtualBounds() (image.Rectangle, error) {
	var bounds image.Rectangle
	err := s.withConn(func(c *X11Screen) error {
		var err error
		bounds, err = c.VirtualBounds()
		return err
	})
	return bounds, err
}

func (s *X11FreshScreen) CursorPosition() (image.Point, error) {
	var pt image.Point
	err := s.withConn(func(c *X11Screen) error {
		var err error
		pt, err = c.CursorPosition()
		return err
	})
	return pt, err
}

func (s *X11FreshScreen) CaptureRegion(r image.Rectangle) (*image.RGBA, error) {
	var img *image.RGBA
	err := s.withConn(func(c *X11Screen) error {
		var err error
		img, err = c.CaptureRegion(r)
		return err
	})
	return img, err
}

func (s *X11FreshScreen) Close() error { return nil }
