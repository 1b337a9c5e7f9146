package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/petrilab/petriscope/state"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title      string
	RunState   string
	Generation int
	Snapshot   *state.Snapshot
	Stats      *state.Stats
	LastUpdate time.Time
	ClientFPS  int32
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewHUD creates a new HUD renderer.
func NewHUD(x, y, width int32) *HUD {
	return &HUD{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Draw renders the HUD panel.
func (h *HUD) Draw(data HUDData) int32 {
	r := h.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	lines := int32(11)
	if data.Snapshot != nil && data.Snapshot.Stats.Reproduction != nil {
		lines += 3
	}
	panelHeight := lines*lineHeight + padding*2 + 24

	r.DrawPanel(h.x, h.y, h.width, panelHeight)

	x := h.x + padding
	y := h.y + padding

	rl.DrawText(data.Title, x, y, 18, rl.White)
	y += 24

	stateColor := rl.Gray
	switch data.RunState {
	case "running":
		stateColor = rl.Green
	case "paused":
		stateColor = rl.Yellow
	}
	rl.DrawText(data.RunState, x+h.width-padding*2-rl.MeasureText(data.RunState, 14), h.y+padding, 14, stateColor)

	y = r.DrawLabelValue(x, y, "Generation", fmt.Sprintf("%d", data.Generation))

	if snap := data.Snapshot; snap != nil {
		y = r.DrawLabelValue(x, y, "Bacteria", fmt.Sprintf("%d", snap.Stats.Populations.Bacteria))
		y = r.DrawLabelValue(x, y, "Phagocytes", fmt.Sprintf("%d", snap.Stats.Populations.Phagocytes))
		y = r.DrawLabelValue(x, y, "Captures", fmt.Sprintf("%d", snap.Stats.Captures))
		y = r.DrawLabelValue(x, y, "Reproductions", fmt.Sprintf("%d", snap.Stats.Reproductions))

		if rep := snap.Stats.Reproduction; rep != nil {
			y = r.DrawLabelValue(x, y, "Asexual total", fmt.Sprintf("%d", rep.TotalAsexual))
			y = r.DrawLabelValue(x, y, "Ready now", fmt.Sprintf("%d", rep.CanReproduceNow))
			y = r.DrawLabelValue(x, y, "Avg offspring", fmt.Sprintf("%.2f", rep.AverageOffspring))
		}
	} else {
		y = r.DrawLabelValue(x, y, "Bacteria", "-")
		y = r.DrawLabelValue(x, y, "Phagocytes", "-")
		y = r.DrawLabelValue(x, y, "Captures", "-")
		y = r.DrawLabelValue(x, y, "Reproductions", "-")
	}

	if st := data.Stats; st != nil {
		y = r.DrawLabelValue(x, y, "Run time", formatRunTime(st.Summary.RunTime))
		if perf := st.Performance; perf != nil {
			y = r.DrawLabelValue(x, y, "Sim FPS", fmt.Sprintf("%.1f", perf.FPS))
			y = r.DrawLabelValue(x, y, "Gen time", fmt.Sprintf("%.1f ms", perf.AvgGenerationTime*1000))
		}
	} else {
		y = r.DrawLabelValue(x, y, "Run time", "-")
	}

	y = r.DrawLabelValue(x, y, "Client FPS", fmt.Sprintf("%d", data.ClientFPS))

	if !data.LastUpdate.IsZero() {
		age := time.Since(data.LastUpdate)
		y = r.DrawLabelValue(x, y, "Last update", fmt.Sprintf("%.1fs ago", age.Seconds()))
	} else {
		y = r.DrawLabelValue(x, y, "Last update", "-")
	}

	return h.y + panelHeight
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

func formatRunTime(sec float64) string {
	d := time.Duration(sec * float64(time.Second))
	if d >= time.Hour {
		return fmt.Sprintf("%dh%02dm%02ds", int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60)
	}
	if d >= time.Minute {
		return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
