// Package scene maps a simulation snapshot onto 2D draw calls. The renderer
// is deterministic: the only state it keeps between frames is the current
// surface size and whether the decorative glucose sprite loaded.
package scene

import rl "github.com/gen2brain/raylib-go/raylib"

// Surface is the drawing capability set injected into the renderer. The
// production implementation is raylib-backed; tests use a recorder to verify
// draw-call order without a window.
type Surface interface {
	// Size returns the current logical surface dimensions.
	Size() (w, h float32)
	// Resize changes the logical surface dimensions. Called only when the
	// snapshot's environment size differs from the current surface size.
	Resize(w, h float32)

	BeginFrame()
	EndFrame()

	Clear(c rl.Color)
	FillCircle(x, y, r float32, c rl.Color)
	StrokeCircle(x, y, r float32, c rl.Color)
	Ring(x, y, inner, outer float32, c rl.Color)
	// FillRectRot fills a rectangle centered at (cx, cy), rotated by
	// angleDeg around its center.
	FillRectRot(cx, cy, w, h, angleDeg float32, c rl.Color)
	GradientCircle(x, y, r float32, inner, outer rl.Color)
	Text(s string, x, y float32, size int32, c rl.Color)

	// HasGlucoseSprite reports whether the decorative glucose image loaded.
	HasGlucoseSprite() bool
	// GlucoseSprite draws the glucose image centered at (x, y) scaled to
	// size, tinted white with the given alpha.
	GlucoseSprite(x, y, size float32, alpha uint8)
}
