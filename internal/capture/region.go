package capture

import "image"

// RegionAround computes the capture rectangle centered on p. When centering
// would push an edge past the virtual-screen bounds, the region shifts inward
// along that axis instead of shrinking, so the requested size is preserved
// whenever the screen can contain it. A request larger than the screen clamps
// to the screen.
func RegionAround(p image.Point, width, height int, bounds image.Rectangle) image.Rectangle {
	if width > bounds.Dx() {
		width = bounds.Dx()
	}
	if height > bounds.Dy() {
		height = bounds.Dy()
	}

	left := p.X - width/2
	top := p.Y - height/2

	if left < bounds.Min.X {
		left = bounds.Min.X
	}
	if top < bounds.Min.Y {
		top = bounds.Min.Y
	}
	if left+width > bounds.Max.X {
		left = bounds.Max.X - width
	}
	if top+height > bounds.Max.Y {
		top = bounds.Max.Y - height
	}

	return image.Rect(left, top, left+width, top+height)
}
