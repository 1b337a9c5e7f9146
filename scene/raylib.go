package scene

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// RaylibSurface draws the scene into an offscreen render texture at the
// snapshot's logical size. The app blits it to the window at a fixed aspect
// ratio, so window resizes repaint from the cached snapshot with no refetch.
type RaylibSurface struct {
	target    rl.RenderTexture2D
	w, h      float32
	glucose   rl.Texture2D
	glucoseOK bool
}

// NewRaylibSurface creates the surface and attempts to load the decorative
// glucose sprite. A missing or broken image degrades to the procedural
// fallback path, never fails.
func NewRaylibSurface(glucoseImagePath string) *RaylibSurface {
	s := &RaylibSurface{}
	if glucoseImagePath != "" {
		s.glucose = rl.LoadTexture(glucoseImagePath)
		s.glucoseOK = s.glucose.ID != 0
		if !s.glucoseOK {
			slog.Warn("glucose sprite failed to load, using procedural fallback",
				"path", glucoseImagePath)
		}
	}
	return s
}

// Size returns the logical surface dimensions.
func (s *RaylibSurface) Size() (float32, float32) {
	return s.w, s.h
}

// Resize recreates the render target at the new logical size.
func (s *RaylibSurface) Resize(w, h float32) {
	if s.target.ID != 0 {
		rl.UnloadRenderTexture(s.target)
	}
	s.target = rl.LoadRenderTexture(int32(w), int32(h))
	s.w = w
	s.h = h
}

// BeginFrame enters texture mode on the render target.
func (s *RaylibSurface) BeginFrame() {
	rl.BeginTextureMode(s.target)
}

// EndFrame leaves texture mode.
func (s *RaylibSurface) EndFrame() {
	rl.EndTextureMode()
}

// Clear fills the whole surface.
func (s *RaylibSurface) Clear(c rl.Color) {
	rl.ClearBackground(c)
}

// FillCircle draws a filled circle.
func (s *RaylibSurface) FillCircle(x, y, r float32, c rl.Color) {
	rl.DrawCircleV(rl.Vector2{X: x, Y: y}, r, c)
}

// StrokeCircle draws a circle outline.
func (s *RaylibSurface) StrokeCircle(x, y, r float32, c rl.Color) {
	rl.DrawCircleLines(int32(x), int32(y), r, c)
}

// Ring draws an annulus.
func (s *RaylibSurface) Ring(x, y, inner, outer float32, c rl.Color) {
	rl.DrawRing(rl.Vector2{X: x, Y: y}, inner, outer, 0, 360, 36, c)
}

// FillRectRot fills a rectangle rotated around its center.
func (s *RaylibSurface) FillRectRot(cx, cy, w, h, angleDeg float32, c rl.Color) {
	rl.DrawRectanglePro(
		rl.Rectangle{X: cx, Y: cy, Width: w, Height: h},
		rl.Vector2{X: w / 2, Y: h / 2},
		angleDeg,
		c,
	)
}

// GradientCircle draws a radial gradient circle.
func (s *RaylibSurface) GradientCircle(x, y, r float32, inner, outer rl.Color) {
	rl.DrawCircleGradient(int32(x), int32(y), r, inner, outer)
}

// Text draws a text label.
func (s *RaylibSurface) Text(str string, x, y float32, size int32, c rl.Color) {
	rl.DrawText(str, int32(x), int32(y), size, c)
}

// HasGlucoseSprite reports whether the sprite texture loaded.
func (s *RaylibSurface) HasGlucoseSprite() bool {
	return s.glucoseOK
}

// GlucoseSprite draws the sprite centered at (x, y) scaled to size.
func (s *RaylibSurface) GlucoseSprite(x, y, size float32, alpha uint8) {
	src := rl.Rectangle{Width: float32(s.glucose.Width), Height: float32(s.glucose.Height)}
	dst := rl.Rectangle{X: x - size/2, Y: y - size/2, Width: size, Height: size}
	rl.DrawTexturePro(s.glucose, src, dst, rl.Vector2{}, 0, rl.Color{R: 255, G: 255, B: 255, A: alpha})
}

// Blit draws the view region of the rendered scene into dst on the current
// drawing target. view is in logical scene coordinates (top-left origin);
// render textures are y-flipped, hence the source remapping.
func (s *RaylibSurface) Blit(view, dst rl.Rectangle) {
	if s.target.ID == 0 {
		return
	}
	src := rl.Rectangle{
		X:      view.X,
		Y:      s.h - view.Y - view.Height,
		Width:  view.Width,
		Height: -view.Height,
	}
	rl.DrawTexturePro(s.target.Texture, src, dst, rl.Vector2{}, 0, rl.White)
}

// Unload releases GPU resources.
func (s *RaylibSurface) Unload() {
	if s.target.ID != 0 {
		rl.UnloadRenderTexture(s.target)
	}
	if s.glucoseOK {
		rl.UnloadTexture(s.glucose)
	}
}
