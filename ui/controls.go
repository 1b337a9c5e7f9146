package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Action identifies the control command a button press requests.
type Action int

const (
	ActionNone Action = iota
	ActionStart
	ActionStop
	ActionPause
	ActionResume
	ActionReset
	ActionStep
	ActionApplyParams
)

// ControlsPanel renders the control buttons and the parameter form.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32

	// Parameter form state, seeded from the remote parameter set.
	mutationRate     float32
	crossoverRate    float32
	mutationStrength float32
	seeded           bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SeedParameters fills the form from the remote parameter map. Unknown or
// missing keys leave the corresponding slider untouched.
func (c *ControlsPanel) SeedParameters(params map[string]any) {
	if v, ok := numeric(params["mutation_rate"]); ok {
		c.mutationRate = v
	}
	if v, ok := numeric(params["crossover_rate"]); ok {
		c.crossoverRate = v
	}
	if v, ok := numeric(params["mutation_strength"]); ok {
		c.mutationStrength = v
	}
	c.seeded = true
}

// Seeded reports whether the form was initialized from the remote service.
func (c *ControlsPanel) Seeded() bool {
	return c.seeded
}

// ParameterValues returns the edited form as a parameter map for POST.
func (c *ControlsPanel) ParameterValues() map[string]any {
	return map[string]any{
		"mutation_rate":     float64(c.mutationRate),
		"crossover_rate":    float64(c.crossoverRate),
		"mutation_strength": float64(c.mutationStrength),
	}
}

// Draw renders the panel and returns the action requested this frame, if
// any. Which buttons appear depends on the observed run-state.
func (c *ControlsPanel) Draw(runState string) Action {
	r := c.renderer
	padding := r.Theme.Padding

	const btnH = 26
	panelHeight := int32(btnH*3 + 14*2 + 180)
	r.DrawPanel(c.x, c.y, c.width, panelHeight)

	x := float32(c.x + padding)
	y := float32(c.y + padding)
	bw := float32(c.width-padding*3) / 2

	action := ActionNone

	switch runState {
	case "running":
		if gui.Button(rl.Rectangle{X: x, Y: y, Width: bw, Height: btnH}, "Pause") {
			action = ActionPause
		}
		if gui.Button(rl.Rectangle{X: x + bw + float32(padding), Y: y, Width: bw, Height: btnH}, "Stop") {
			action = ActionStop
		}
	case "paused":
		if gui.Button(rl.Rectangle{X: x, Y: y, Width: bw, Height: btnH}, "Resume") {
			action = ActionResume
		}
		if gui.Button(rl.Rectangle{X: x + bw + float32(padding), Y: y, Width: bw, Height: btnH}, "Stop") {
			action = ActionStop
		}
	default:
		if gui.Button(rl.Rectangle{X: x, Y: y, Width: bw, Height: btnH}, "Start") {
			action = ActionStart
		}
	}
	y += btnH + 8

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: bw, Height: btnH}, "Step") {
		action = ActionStep
	}
	if gui.Button(rl.Rectangle{X: x + bw + float32(padding), Y: y, Width: bw, Height: btnH}, "Reset") {
		action = ActionReset
	}
	y += btnH + 14

	rl.DrawText("Parameters", int32(x), int32(y), r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	y += float32(r.Theme.LineHeight) + 4

	sliderW := float32(c.width - padding*2 - 40)

	y = c.drawSlider(x, y, sliderW, "Mutation rate", &c.mutationRate, 0, 1)
	y = c.drawSlider(x, y, sliderW, "Crossover rate", &c.crossoverRate, 0, 1)
	y = c.drawSlider(x, y, sliderW, "Mutation strength", &c.mutationStrength, 0, 1)

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: bw, Height: btnH}, "Apply") {
		action = ActionApplyParams
	}

	return action
}

func (c *ControlsPanel) drawSlider(x, y, width float32, label string, value *float32, min, max float32) float32 {
	r := c.renderer
	rl.DrawText(label, int32(x), int32(y), r.Theme.FontSize, r.Theme.LabelColor)
	y += float32(r.Theme.LineHeight)

	*value = gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: width, Height: 16},
		"", "",
		*value, min, max,
	)
	rl.DrawText(fmt.Sprintf("%.2f", *value), int32(x+width+6), int32(y+2), r.Theme.FontSize, r.Theme.ValueColor)

	return y + 24
}

// numeric coerces the loosely-typed JSON parameter values.
func numeric(v any) (float32, bool) {
	switch n := v.(type) {
	case float64:
		return float32(n), true
	case float32:
		return n, true
	case int:
		return float32(n), true
	}
	return 0, false
}
