package camera

import (
	"math"
	"testing"
)

func almostEqual(a, b float32) bool {
	return math.Abs(float64(a-b)) < 0.001
}

func TestNewShowsWholeScene(t *testing.T) {
	c := New(800, 600)

	x, y, w, h := c.ViewRect()
	if x != 0 || y != 0 || w != 800 || h != 600 {
		t.Errorf("ViewRect() = (%v, %v, %v, %v), want (0, 0, 800, 600)", x, y, w, h)
	}
	if c.Zoomed() {
		t.Error("fresh camera should not report zoomed")
	}
}

func TestZoomClampedToBounds(t *testing.T) {
	c := New(800, 600)

	c.ZoomAt(0.5, 0.5, 0.5) // zooming out below 1.0 clamps
	if c.Zoom != 1.0 {
		t.Errorf("Zoom = %v, want clamped to 1.0", c.Zoom)
	}

	c.ZoomAt(100, 0.5, 0.5)
	if c.Zoom != c.MaxZoom {
		t.Errorf("Zoom = %v, want clamped to %v", c.Zoom, c.MaxZoom)
	}
}

func TestZoomAtKeepsPointFixed(t *testing.T) {
	c := New(800, 600)

	// Scene point at view fraction (0.25, 0.75) before zooming.
	x, y, w, h := c.ViewRect()
	px := x + 0.25*w
	py := y + 0.75*h

	c.ZoomAt(2.0, 0.25, 0.75)

	x, y, w, h = c.ViewRect()
	if !almostEqual(x+0.25*w, px) || !almostEqual(y+0.75*h, py) {
		t.Errorf("anchor moved: (%v, %v), want (%v, %v)", x+0.25*w, y+0.75*h, px, py)
	}
}

func TestPanClampsAtEdges(t *testing.T) {
	c := New(800, 600)
	c.ZoomAt(2.0, 0.5, 0.5)

	c.Pan(-10000, -10000)
	x, y, _, _ := c.ViewRect()
	if x != 0 || y != 0 {
		t.Errorf("view origin = (%v, %v), want clamped to (0, 0)", x, y)
	}

	c.Pan(10000, 10000)
	x, y, w, h := c.ViewRect()
	if !almostEqual(x+w, 800) || !almostEqual(y+h, 600) {
		t.Errorf("view extent = (%v, %v), want clamped to (800, 600)", x+w, y+h)
	}
}

func TestPanIsNoOpAtFullView(t *testing.T) {
	c := New(800, 600)
	c.Pan(100, 100)

	x, y, _, _ := c.ViewRect()
	if x != 0 || y != 0 {
		t.Errorf("full view panned to (%v, %v), want pinned at origin", x, y)
	}
}

func TestReset(t *testing.T) {
	c := New(800, 600)
	c.ZoomAt(4.0, 0.1, 0.1)
	c.Pan(50, 50)
	c.Reset()

	if c.Zoom != 1.0 || c.X != 400 || c.Y != 300 {
		t.Errorf("after Reset: zoom %v center (%v, %v), want 1.0 (400, 300)", c.Zoom, c.X, c.Y)
	}
}

func TestSetSceneRecentersOnChange(t *testing.T) {
	c := New(800, 600)
	c.ZoomAt(2.0, 0.1, 0.1)

	c.SetScene(800, 600) // unchanged size keeps the view
	if c.Zoom != 2.0 {
		t.Error("SetScene with same size reset the view")
	}

	c.SetScene(1024, 768)
	if c.Zoom != 1.0 || c.X != 512 || c.Y != 384 {
		t.Errorf("after scene change: zoom %v center (%v, %v), want full recentered view", c.Zoom, c.X, c.Y)
	}
}
