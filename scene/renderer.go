package scene

import (
	"math"
	"strconv"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/petrilab/petriscope/state"
)

// Capsule geometry constants. Gene values scale the base dimensions.
const (
	capsuleBaseLength = 12.0
	capsuleBaseWidth  = 4.5
	phagocyteRadius   = 8.0
	pulsePeriod       = 2 * time.Second
)

// outline is the fixed dark stroke around bacterium bodies.
var outline = rl.Color{R: 25, G: 30, B: 35, A: 255}

// Renderer draws snapshots onto a Surface.
type Renderer struct {
	width  float32
	height float32
}

// NewRenderer creates a renderer with no surface size yet; the first Draw
// resizes the surface to the snapshot's environment.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Draw renders one snapshot. Draw order is load-bearing: glucose first, then
// bacteria, then phagocytes, so later agents occlude earlier ones.
func (r *Renderer) Draw(s Surface, snap *state.Snapshot, now time.Time) {
	w := float32(snap.Environment.Width)
	h := float32(snap.Environment.Height)
	if w != r.width || h != r.height {
		s.Resize(w, h)
		r.width = w
		r.height = h
	}

	s.BeginFrame()
	defer s.EndFrame()

	s.Clear(tint(snap.Environment.BackgroundColor, 255))

	for i := range snap.Agents.Glucose {
		r.drawGlucose(s, &snap.Agents.Glucose[i])
	}
	for i := range snap.Agents.Bacteria {
		r.drawBacterium(s, &snap.Agents.Bacteria[i], now)
	}
	for i := range snap.Agents.Phagocytes {
		r.drawPhagocyte(s, &snap.Agents.Phagocytes[i])
	}
}

func (r *Renderer) drawGlucose(s Surface, g *state.Glucose) {
	if g.Size <= 0 || g.Consumed {
		return
	}

	x := float32(g.X)
	y := float32(g.Y)
	size := float32(g.Size)

	if s.HasGlucoseSprite() {
		// Soft halo under the sprite
		s.FillCircle(x, y, size*1.6, rl.Color{R: 255, G: 250, B: 200, A: 36})

		opacity := 0.3 + g.Energy/100*0.7
		if opacity > 1 {
			opacity = 1
		}
		s.GlucoseSprite(x, y, size*2.5, uint8(opacity*255))
		return
	}

	// Procedural fallback: hue follows the energy density.
	hue := float32(math.Mod(g.Energy/(g.Size*5)*60, 360))
	if hue < 0 {
		hue += 360
	}
	inner := rl.ColorFromHSV(hue, 0.75, 0.95)
	outer := rl.ColorFromHSV(hue, 0.85, 0.55)
	outer.A = 0
	s.GradientCircle(x, y, size*1.4, inner, outer)
}

func (r *Renderer) drawBacterium(s Surface, b *state.Bacterium, now time.Time) {
	x := float32(b.X)
	y := float32(b.Y)
	length := float32(capsuleBaseLength * (0.8 + 0.4*b.Genes.Length))
	width := float32(capsuleBaseWidth * (0.7 + 0.6*b.Genes.Width))
	angleDeg := float32(b.Heading * 180 / math.Pi)
	body := tint(b.Color, 255)

	// Reproduction cue renders under the body so it reads as a halo.
	if b.CanReproduce {
		phase := float64(now.UnixNano()%int64(pulsePeriod)) / float64(pulsePeriod)
		pulse := float32(math.Sin(phase * 2 * math.Pi))
		ringR := length*0.8 + 3*pulse
		alpha := uint8(90 + 60*pulse)
		s.Ring(x, y, ringR, ringR+2, rl.Color{R: 120, G: 255, B: 140, A: alpha})
	}

	r.drawCapsule(s, x, y, length+2, width+2, angleDeg, outline)
	r.drawCapsule(s, x, y, length, width, angleDeg, body)

	if b.OffspringCount > 0 {
		badgeY := y - length/2 - 7
		s.FillCircle(x, badgeY, 5, rl.Color{R: 250, G: 200, B: 60, A: 230})
		s.Text(strconv.Itoa(b.OffspringCount), x-2, badgeY-4, 8, rl.Color{R: 30, G: 30, B: 30, A: 255})
	}
}

// drawCapsule draws a rounded rectangle: a rotated body rectangle plus two
// cap circles of radius width/2 centered at each end of the long axis.
func (r *Renderer) drawCapsule(s Surface, cx, cy, length, width, angleDeg float32, c rl.Color) {
	s.FillRectRot(cx, cy, length, width, angleDeg, c)

	rad := float64(angleDeg) * math.Pi / 180
	dx := float32(math.Cos(rad)) * length / 2
	dy := float32(math.Sin(rad)) * length / 2
	s.FillCircle(cx-dx, cy-dy, width/2, c)
	s.FillCircle(cx+dx, cy+dy, width/2, c)
}

// drawPhagocyte draws the fixed-radius ringed circle. Phagocyte size never
// depends on gene values.
func (r *Renderer) drawPhagocyte(s Surface, p *state.Phagocyte) {
	x := float32(p.X)
	y := float32(p.Y)

	s.StrokeCircle(x, y, phagocyteRadius, tint(p.Color, 255))
	s.FillCircle(x, y, phagocyteRadius-2, rl.Color{R: 30, G: 35, B: 45, A: 255})
	s.FillCircle(x, y, 2, rl.Color{R: 230, G: 240, B: 255, A: 255})
}

func tint(c state.RGB, a uint8) rl.Color {
	return rl.Color{R: c[0], G: c[1], B: c[2], A: a}
}
