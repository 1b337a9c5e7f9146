package scene

import (
	"math"
	"testing"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/petrilab/petriscope/state"
)

// call is one recorded draw operation.
type call struct {
	op   string
	args []float32
	text string
}

// recorder captures draw calls in order.
type recorder struct {
	w, h    float32
	resizes int
	sprite  bool
	calls   []call
}

func (r *recorder) Size() (float32, float32) { return r.w, r.h }

func (r *recorder) Resize(w, h float32) {
	r.w, r.h = w, h
	r.resizes++
	r.record("resize", w, h)
}

func (r *recorder) BeginFrame() { r.record("begin") }
func (r *recorder) EndFrame()   { r.record("end") }

func (r *recorder) Clear(rl.Color) { r.record("clear") }

func (r *recorder) FillCircle(x, y, rad float32, _ rl.Color) {
	r.record("fillCircle", x, y, rad)
}

func (r *recorder) StrokeCircle(x, y, rad float32, _ rl.Color) {
	r.record("strokeCircle", x, y, rad)
}

func (r *recorder) Ring(x, y, inner, outer float32, _ rl.Color) {
	r.record("ring", x, y, inner, outer)
}

func (r *recorder) FillRectRot(cx, cy, w, h, angleDeg float32, _ rl.Color) {
	r.record("rectRot", cx, cy, w, h, angleDeg)
}

func (r *recorder) GradientCircle(x, y, rad float32, _, _ rl.Color) {
	r.record("gradientCircle", x, y, rad)
}

func (r *recorder) Text(s string, x, y float32, _ int32, _ rl.Color) {
	r.calls = append(r.calls, call{op: "text", args: []float32{x, y}, text: s})
}

func (r *recorder) HasGlucoseSprite() bool { return r.sprite }

func (r *recorder) GlucoseSprite(x, y, size float32, alpha uint8) {
	r.record("sprite", x, y, size, float32(alpha))
}

func (r *recorder) record(op string, args ...float32) {
	r.calls = append(r.calls, call{op: op, args: args})
}

func (r *recorder) ops() []string {
	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.op
	}
	return out
}

func (r *recorder) count(op string) int {
	n := 0
	for _, c := range r.calls {
		if c.op == op {
			n++
		}
	}
	return n
}

func (r *recorder) indexOf(op string) int {
	for i, c := range r.calls {
		if c.op == op {
			return i
		}
	}
	return -1
}

func testSnapshot() *state.Snapshot {
	s := &state.Snapshot{
		Generation:  1,
		Environment: state.Environment{Width: 800, Height: 600},
		Agents: state.Agents{
			Glucose: []state.Glucose{
				{X: 10, Y: 10, Size: 3, Energy: 50},
			},
			Bacteria: []state.Bacterium{
				{ID: "b1", X: 100, Y: 100, Color: state.RGB{0, 255, 0}},
			},
			Phagocytes: []state.Phagocyte{
				{ID: "p1", X: 200, Y: 200, Color: state.RGB{0, 0, 255}},
			},
		},
	}
	s.Normalize()
	return s
}

func TestDrawOrderGlucoseBacteriaPhagocytes(t *testing.T) {
	rec := &recorder{}
	r := NewRenderer()
	r.Draw(rec, testSnapshot(), time.Now())

	glucose := rec.indexOf("gradientCircle")
	bacterium := rec.indexOf("rectRot")
	phagocyte := rec.indexOf("strokeCircle")

	if glucose < 0 || bacterium < 0 || phagocyte < 0 {
		t.Fatalf("missing agent draw calls: %v", rec.ops())
	}
	if !(glucose < bacterium && bacterium < phagocyte) {
		t.Errorf("draw order glucose(%d) bacteria(%d) phagocytes(%d) violated", glucose, bacterium, phagocyte)
	}

	if rec.calls[0].op != "begin" {
		t.Errorf("first call = %s, want begin", rec.calls[0].op)
	}
	if rec.indexOf("clear") > glucose {
		t.Error("clear must precede agent drawing")
	}
	if rec.calls[len(rec.calls)-1].op != "end" {
		t.Errorf("last call = %s, want end", rec.calls[len(rec.calls)-1].op)
	}
}

func TestResizeOnlyWhenEnvironmentChanges(t *testing.T) {
	rec := &recorder{}
	r := NewRenderer()
	snap := testSnapshot()

	r.Draw(rec, snap, time.Now())
	r.Draw(rec, snap, time.Now())
	if rec.resizes != 1 {
		t.Errorf("resizes = %d after two same-size draws, want 1", rec.resizes)
	}

	snap.Environment.Width = 1024
	r.Draw(rec, snap, time.Now())
	if rec.resizes != 2 {
		t.Errorf("resizes = %d after size change, want 2", rec.resizes)
	}
	if rec.w != 1024 || rec.h != 600 {
		t.Errorf("surface size = %vx%v, want 1024x600", rec.w, rec.h)
	}
}

func TestGlucoseSkipRules(t *testing.T) {
	tests := []struct {
		name string
		g    state.Glucose
		want bool // drawn
	}{
		{"normal", state.Glucose{X: 1, Y: 1, Size: 2, Energy: 10}, true},
		{"zero size", state.Glucose{X: 1, Y: 1, Size: 0, Energy: 10}, false},
		{"negative size", state.Glucose{X: 1, Y: 1, Size: -1, Energy: 10}, false},
		{"consumed", state.Glucose{X: 1, Y: 1, Size: 2, Energy: 10, Consumed: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			r := NewRenderer()
			snap := &state.Snapshot{
				Environment: state.Environment{Width: 100, Height: 100},
				Agents:      state.Agents{Glucose: []state.Glucose{tt.g}},
			}
			r.Draw(rec, snap, time.Now())

			drawn := rec.count("gradientCircle") > 0
			if drawn != tt.want {
				t.Errorf("drawn = %v, want %v", drawn, tt.want)
			}
		})
	}
}

func TestGlucoseSpriteOpacityClamped(t *testing.T) {
	rec := &recorder{sprite: true}
	r := NewRenderer()
	snap := &state.Snapshot{
		Environment: state.Environment{Width: 100, Height: 100},
		Agents: state.Agents{Glucose: []state.Glucose{
			{X: 1, Y: 1, Size: 4, Energy: 500}, // energy far above 100
		}},
	}
	r.Draw(rec, snap, time.Now())

	idx := rec.indexOf("sprite")
	if idx < 0 {
		t.Fatalf("sprite not drawn: %v", rec.ops())
	}
	c := rec.calls[idx]
	if c.args[2] != 4*2.5 {
		t.Errorf("sprite size = %v, want %v", c.args[2], 4*2.5)
	}
	if c.args[3] != 255 {
		t.Errorf("sprite alpha = %v, want clamped to 255", c.args[3])
	}
}

func TestBacteriumCapsuleGeometry(t *testing.T) {
	lg, wg := 1.0, 0.0
	rec := &recorder{}
	r := NewRenderer()
	snap := &state.Snapshot{
		Environment: state.Environment{Width: 100, Height: 100},
		Agents: state.Agents{Bacteria: []state.Bacterium{{
			X: 50, Y: 50,
			LengthGene: &lg, WidthGene: &wg,
		}}},
	}
	snap.Normalize()
	r.Draw(rec, snap, time.Now())

	// Outline capsule first, body capsule second.
	var rects []call
	for _, c := range rec.calls {
		if c.op == "rectRot" {
			rects = append(rects, c)
		}
	}
	if len(rects) != 2 {
		t.Fatalf("rectRot calls = %d, want 2 (outline + body)", len(rects))
	}

	wantLen := float32(12.0 * (0.8 + 0.4*lg))
	wantWid := float32(4.5 * (0.7 + 0.6*wg))
	body := rects[1]
	if math.Abs(float64(body.args[2]-wantLen)) > 1e-5 {
		t.Errorf("body length = %v, want %v", body.args[2], wantLen)
	}
	if math.Abs(float64(body.args[3]-wantWid)) > 1e-5 {
		t.Errorf("body width = %v, want %v", body.args[3], wantWid)
	}
	outline := rects[0]
	if outline.args[2] != body.args[2]+2 || outline.args[3] != body.args[3]+2 {
		t.Errorf("outline = %vx%v, want body+2", outline.args[2], outline.args[3])
	}

	// Each capsule contributes two end caps of radius width/2.
	caps := 0
	for _, c := range rec.calls {
		if c.op == "fillCircle" && math.Abs(float64(c.args[2]-wantWid/2)) < 1e-5 {
			caps++
		}
	}
	if caps != 2 {
		t.Errorf("body end caps = %d, want 2", caps)
	}
}

func TestReproductionRingDrawsBeforeBody(t *testing.T) {
	rec := &recorder{}
	r := NewRenderer()
	snap := &state.Snapshot{
		Environment: state.Environment{Width: 100, Height: 100},
		Agents: state.Agents{Bacteria: []state.Bacterium{{
			X: 50, Y: 50, CanReproduce: true,
		}}},
	}
	snap.Normalize()
	r.Draw(rec, snap, time.Now())

	ring := rec.indexOf("ring")
	body := rec.indexOf("rectRot")
	if ring < 0 {
		t.Fatal("reproduction ring not drawn")
	}
	if ring > body {
		t.Errorf("ring(%d) drawn after body(%d); cue must render underneath", ring, body)
	}
}

func TestOffspringBadgeDrawsAfterBody(t *testing.T) {
	rec := &recorder{}
	r := NewRenderer()
	snap := &state.Snapshot{
		Environment: state.Environment{Width: 100, Height: 100},
		Agents: state.Agents{Bacteria: []state.Bacterium{{
			X: 50, Y: 50, OffspringCount: 3,
		}}},
	}
	snap.Normalize()
	r.Draw(rec, snap, time.Now())

	text := rec.indexOf("text")
	body := rec.indexOf("rectRot")
	if text < 0 {
		t.Fatal("offspring badge not drawn")
	}
	if text < body {
		t.Error("badge drawn before body")
	}
	if rec.calls[text].text != "3" {
		t.Errorf("badge text = %q, want \"3\"", rec.calls[text].text)
	}
}

func TestPhagocyteFixedRadius(t *testing.T) {
	rec := &recorder{}
	r := NewRenderer()
	snap := &state.Snapshot{
		Environment: state.Environment{Width: 100, Height: 100},
		Agents: state.Agents{Phagocytes: []state.Phagocyte{
			{X: 10, Y: 20, Genome: map[string]float64{"size_gene": 5.0}},
		}},
	}
	r.Draw(rec, snap, time.Now())

	idx := rec.indexOf("strokeCircle")
	if idx < 0 {
		t.Fatal("phagocyte outline not drawn")
	}
	if got := rec.calls[idx].args[2]; got != 8 {
		t.Errorf("phagocyte radius = %v, want fixed 8 regardless of genome", got)
	}
}
