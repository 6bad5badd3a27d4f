package capture

import (
	"image"
	"testing"
)

func TestRegionAround(t *testing.T) {
	screen := image.Rect(0, 0, 1920, 1080)

	tests := []struct {
		name   string
		cursor image.Point
		w, h   int
		want   image.Rectangle
	}{
		{
			name:   "cursor at origin clamps to top-left",
			cursor: image.Pt(0, 0),
			w:      500, h: 400,
			want: image.Rect(0, 0, 500, 400),
		},
		{
			name:   "centered fits without shifting",
			cursor: image.Pt(960, 540),
			w:      720, h: 480,
			want: image.Rect(600, 300, 1320, 780),
		},
		{
			name:   "bottom-right corner shifts inward, size preserved",
			cursor: image.Pt(1920, 1080),
			w:      720, h: 480,
			want: image.Rect(1200, 600, 1920, 1080),
		},
		{
			name:   "left edge shifts on x only",
			cursor: image.Pt(10, 540),
			w:      720, h: 480,
			want: image.Rect(0, 300, 720, 780),
		},
		{
			name:   "request wider than screen clamps to screen",
			cursor: image.Pt(960, 540),
			w:      4000, h: 480,
			want: image.Rect(0, 300, 1920, 780),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RegionAround(tt.cursor, tt.w, tt.h, screen)
			if got != tt.want {
				t.Errorf("RegionAround() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRegionAround_ContainmentProperty(t *testing.T) {
	screen := image.Rect(0, 0, 1920, 1080)
	cursors := []image.Point{
		{X: -50, Y: -50}, {X: 0, Y: 0}, {X: 1, Y: 1079}, {X: 960, Y: 540},
		{X: 1919, Y: 0}, {X: 1920, Y: 1080}, {X: 5000, Y: 5000},
	}
	sizes := [][2]int{{1, 1}, {100, 100}, {720, 480}, {1920, 1080}}

	for _, cur := range cursors {
		for _, size := range sizes {
			r := RegionAround(cur, size[0], size[1], screen)
			if r.Min.X < 0 || r.Min.Y < 0 || r.Max.X > 1920 || r.Max.Y > 1080 {
				t.Errorf("cursor %v size %v: region %v escapes screen", cur, size, r)
			}
			if r.Dx() != size[0] || r.Dy() != size[1] {
				t.Errorf("cursor %v size %v: region %v lost the requested size", cur, size, r)
			}
		}
	}
}

func TestRegionAround_NegativeOriginBounds(t *testing.T) {
	// A multi-monitor virtual screen whose union origin sits left of zero.
	screen := image.Rect(-1920, 0, 1920, 1080)
	r := RegionAround(image.Pt(-1920, 0), 500, 400, screen)
	if r != image.Rect(-1920, 0, -1420, 400) {
		t.Errorf("region %v not clamped to virtual-screen origin", r)
	}
}
