//go:build windows
// +build windows

package platform

import (
	"fmt"
	"image"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/snapwatch/snapwatch-daemon/internal/types"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")
	gdi32  = windows.NewLazySystemDLL("gdi32.dll")

	procGetSystemMetrics = user32.NewProc("GetSystemMetrics")
	procGetCursorPos     = user32.NewProc("GetCursorPos")
	procGetDC            = user32.NewProc("GetDC")
	procReleaseDC        = user32.NewProc("ReleaseDC")

	procCreateCompatibleDC     = gdi32.NewProc("CreateCompatibleDC")
	procCreateCompatibleBitmap = gdi32.NewProc("CreateCompatibleBitmap")
	procSelectObject           = gdi32.NewProc("SelectObject")
	procBitBlt                 = gdi32.NewProc("BitBlt")
	procGetDIBits              = gdi32.NewProc("GetDIBits")
	procDeleteObject           = gdi32.NewProc("DeleteObject")
	procDeleteDC               = gdi32.NewProc("DeleteDC")
)

const (
	smXVirtualScreen  = 76
	smYVirtualScreen  = 77
	smCXVirtualScreen = 78
	smCYVirtualScreen = 79

	srccopy     = 0x00CC0020
	captureBlt  = 0x40000000
	dibRGBColor = 0
	biRGB       = 0
)

type bitmapInfoHeader struct {
	Size          uint32
	Width         int32
	Height        int32
	Planes        uint16
	BitCount      uint16
	Compression   uint32
	SizeImage     uint32
	XPelsPerMeter int32
	YPelsPerMeter int32
	ClrUsed       uint32
	ClrImportant  uint32
}

type point struct {
	X int32
	Y int32
}

// GDIScreen captures through the classic GDI BitBlt path.
type GDIScreen struct {
	mu sync.Mutex
}

func NewGDIScreen() *GDIScreen { return &GDIScreen{} }

func (s *GDIScreen) Name() string { return "gdi" }

func (s *GDIScreen) IsAvailable() bool { return true }

func (s *GDIScreen) VirtualBounds() (image.Rectangle, error) {
	x, _, _ := procGetSystemMetrics.Call(smXVirtualScreen)
	y, _, _ := procGetSystemMetrics.Call(smYVirtualScreen)
	w, _, _ := procGetSystemMetrics.Call(smCXVirtualScreen)
	h, _, _ := procGetSystemMetrics.Call(smCYVirtualScreen)
	if w == 0 || h == 0 {
		return image.Rectangle{}, fmt.Errorf("%w: empty virtual screen", types.ErrCaptureFailure)
	}
	left, top := int(int32(x)), int(int32(y))
	return image.Rect(left, top, left+int(int32(w)), top+int(int32(h))), nil
}

func (s *GDIScreen) CursorPosition() (image.Point, error) {
	var pt point
	ret, _, _ := procGetCursorPos.Call(uintptr(unsafe.Pointer(&pt)))
	if ret == 0 {
		return image.Point{}, fmt.Errorf("%w: GetCursorPos failed", types.ErrCaptureFailure)
	}
	return image.Pt(int(pt.X), int(pt.Y)), nil
}

func (s *GDIScreen) CaptureRegion(r image.Rectangle) (*image.RGBA, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	width, height := r.Dx(), r.Dy()

	screenDC, _, _ := procGetDC.Call(0)
	if screenDC == 0 {
		return nil, fmt.Errorf("%w: GetDC failed", types.ErrCaptureFailure)
	}
	defer procReleaseDC.Call(0, screenDC)

	memDC, _, _ := procCreateCompatibleDC.Call(screenDC)
	if memDC == 0 {
		return nil, fmt.Errorf("%w: CreateCompatibleDC failed", types.ErrCaptureFailure)
	}
	defer procDeleteDC.Call(memDC)

	bitmap, _, _ := procCreateCompatibleBitmap.Call(screenDC, uintptr(width), uintptr(height))
	if bitmap == 0 {
		return nil, fmt.Errorf("%w: CreateCompatibleBitmap failed", types.ErrCaptureFailure)
	}
	defer procDeleteObject.Call(bitmap)

	old, _, _ := procSelectObject.Call(memDC, bitmap)
	defer procSelectObject.Call(memDC, old)

	ret, _, _ := procBitBlt.Call(memDC, 0, 0, uintptr(width), uintptr(height),
		screenDC, uintptr(r.Min.X), uintptr(r.Min.Y), srccopy|captureBlt)
	if ret == 0 {
		return nil, fmt.Errorf("%w: BitBlt failed", types.ErrCaptureFailure)
	}

	hdr := bitmapInfoHeader{
		Size:        uint32(unsafe.Sizeof(bitmapInfoHeader{})),
		Width:       int32(width),
		Height:      -int32(height), // top-down rows
		Planes:      1,
		BitCount:    32,
		Compression: biRGB,
	}
	buf := make([]byte, width*height*4)
	ret, _, _ = procGetDIBits.Call(memDC, bitmap, 0, uintptr(height),
		uintptr(unsafe.Pointer(&buf[0])), uintptr(unsafe.Pointer(&hdr)), dibRGBColor)
	if ret == 0 {
		return nil, fmt.Errorf("%w: GetDIBits failed", types.ErrCaptureFailure)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 0; i+3 < len(buf); i += 4 {
		// BGRA to RGBA
		img.Pix[i] = buf[i+2]
		img.Pix[i+1] = buf[i+1]
		img.Pix[i+2] = buf[i]
		img.Pix[i+3] = 255
	}
	return img, nil
}

func (s *GDIScreen) Close() error { return nil }
