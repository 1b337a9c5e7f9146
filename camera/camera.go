// Package camera provides the pan/zoom viewport over the rendered scene.
package camera

// Camera selects the visible region of the scene. Zoom 1.0 shows the whole
// scene; the view never extends past the scene bounds, so panning clamps at
// the edges instead of wrapping.
type Camera struct {
	// View center in scene coordinates
	X, Y float32

	// Zoom level (1.0 = whole scene visible)
	Zoom float32

	// Scene dimensions
	SceneW, SceneH float32

	MaxZoom float32
}

// New creates a camera showing the whole scene.
func New(sceneW, sceneH float32) *Camera {
	return &Camera{
		X:       sceneW / 2,
		Y:       sceneH / 2,
		Zoom:    1.0,
		SceneW:  sceneW,
		SceneH:  sceneH,
		MaxZoom: 8.0,
	}
}

// SetScene updates the scene dimensions. A size change recenters the view;
// the remote environment changing size invalidates any zoomed-in region.
func (c *Camera) SetScene(w, h float32) {
	if w == c.SceneW && h == c.SceneH {
		return
	}
	c.SceneW = w
	c.SceneH = h
	c.Reset()
}

// ViewRect returns the visible scene region as top-left position and size.
func (c *Camera) ViewRect() (x, y, w, h float32) {
	w = c.SceneW / c.Zoom
	h = c.SceneH / c.Zoom
	x = c.X - w/2
	y = c.Y - h/2
	return x, y, w, h
}

// Pan moves the view center by a delta in scene units, clamped to bounds.
func (c *Camera) Pan(dx, dy float32) {
	c.X += dx
	c.Y += dy
	c.clampCenter()
}

// ZoomAt changes zoom by factor while keeping the scene point at fractional
// view position (u, v) fixed on screen. u and v are in [0, 1]: (0.5, 0.5)
// zooms on the view center, (0, 0) on the top-left corner.
func (c *Camera) ZoomAt(factor, u, v float32) {
	x, y, w, h := c.ViewRect()
	px := x + u*w
	py := y + v*h

	c.Zoom = clamp(c.Zoom*factor, 1.0, c.MaxZoom)

	nw := c.SceneW / c.Zoom
	nh := c.SceneH / c.Zoom
	c.X = px - u*nw + nw/2
	c.Y = py - v*nh + nh/2
	c.clampCenter()
}

// Reset returns to the full-scene view.
func (c *Camera) Reset() {
	c.X = c.SceneW / 2
	c.Y = c.SceneH / 2
	c.Zoom = 1.0
}

// Zoomed reports whether the camera shows less than the whole scene.
func (c *Camera) Zoomed() bool {
	return c.Zoom > 1.0
}

// clampCenter keeps the view inside the scene. The view is never larger
// than the scene because zoom is clamped at 1.0.
func (c *Camera) clampCenter() {
	halfW := c.SceneW / (2 * c.Zoom)
	halfH := c.SceneH / (2 * c.Zoom)
	c.X = clamp(c.X, halfW, c.SceneW-halfW)
	c.Y = clamp(c.Y, halfH, c.SceneH-halfH)
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
