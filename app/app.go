// Package app is the graphical shell: it owns the window, implements the
// controller's view, and composes the scene surface with the HUD panels.
package app

import (
	"context"
	"math"
	"sync"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/petrilab/petriscope/camera"
	"github.com/petrilab/petriscope/chart"
	"github.com/petrilab/petriscope/config"
	"github.com/petrilab/petriscope/controller"
	"github.com/petrilab/petriscope/scene"
	"github.com/petrilab/petriscope/state"
	"github.com/petrilab/petriscope/ui"
)

const sidebarWidth = 320

// App drives the frame loop. It implements controller.View; the view methods
// may be called from poll goroutines, so observed state lives behind a mutex
// and drawing only ever happens on the render thread inside Frame.
type App struct {
	ctrl       *controller.Controller
	cache      *state.Cache
	fitness    *chart.Buffer
	population *chart.Buffer

	surface  *scene.RaylibSurface
	scene    *scene.Renderer
	cam      *camera.Camera
	hud      *ui.HUD
	controls *ui.ControlsPanel
	fitChart *ui.ChartPanel
	popChart *ui.ChartPanel
	toasts   *ui.Notifications

	mu         sync.Mutex
	runState   controller.RunState
	generation int
	seedParams map[string]any
}

// New builds the app shell. Bind must be called with the controller before
// the first Frame.
func New(cache *state.Cache, fitness, population *chart.Buffer) *App {
	cfg := config.Cfg()
	w := int32(cfg.Screen.Width)

	hudX := w - sidebarWidth - 10

	return &App{
		cache:      cache,
		fitness:    fitness,
		population: population,
		surface:    scene.NewRaylibSurface(cfg.Scene.GlucoseImage),
		scene:      scene.NewRenderer(),
		cam:        camera.New(0, 0),
		hud:        ui.NewHUD(hudX, 10, sidebarWidth),
		controls:   ui.NewControlsPanel(hudX, 280, sidebarWidth),
		fitChart:   ui.NewChartPanel("Fitness", hudX, 576, sidebarWidth, 100),
		popChart:   ui.NewChartPanel("Population", hudX, 686, sidebarWidth, 100),
		toasts:     ui.NewNotifications(),
	}
}

// Bind attaches the controller the UI dispatches commands to.
func (a *App) Bind(ctrl *controller.Controller) {
	a.ctrl = ctrl
}

// ===== controller.View =====

// ShowSnapshot is a no-op: the frame loop repaints from the cache every
// frame, so an accepted snapshot is picked up on the next Frame.
func (a *App) ShowSnapshot(_ *state.Snapshot) {}

// ShowStats is a no-op for the same reason.
func (a *App) ShowStats(_ *state.Stats) {}

// ShowRunState records the observed run-state for the HUD.
func (a *App) ShowRunState(rs controller.RunState) {
	a.mu.Lock()
	a.runState = rs
	a.mu.Unlock()
}

// ShowGeneration records the generation readout.
func (a *App) ShowGeneration(gen int) {
	a.mu.Lock()
	a.generation = gen
	a.mu.Unlock()
}

// Notify surfaces a transient toast.
func (a *App) Notify(level controller.Level, msg string) {
	a.toasts.Push(msg, toastLevel(level))
}

func toastLevel(level controller.Level) ui.NotificationLevel {
	switch level {
	case controller.LevelSuccess:
		return ui.NotifySuccess
	case controller.LevelError:
		return ui.NotifyError
	default:
		return ui.NotifyInfo
	}
}

// ===== frame loop =====

// Frame renders one frame and dispatches any UI action.
func (a *App) Frame() {
	a.mu.Lock()
	rs := a.runState
	gen := a.generation
	pending := a.seedParams
	a.seedParams = nil
	a.mu.Unlock()

	if pending != nil {
		a.controls.SeedParameters(pending)
	}

	snap := a.cache.Snapshot()

	// The scene renders into an offscreen texture before the window frame
	// opens; texture mode cannot nest inside BeginDrawing.
	if snap != nil {
		a.scene.Draw(a.surface, snap, time.Now())
	}

	screenW := int32(rl.GetScreenWidth())
	screenH := int32(rl.GetScreenHeight())
	dst := sceneRect(screenW, screenH)

	if snap != nil {
		a.cam.SetScene(float32(snap.Environment.Width), float32(snap.Environment.Height))
		a.handleSceneInput(dst)
	}

	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 12, G: 14, B: 18, A: 255})

	if snap != nil {
		vx, vy, vw, vh := a.cam.ViewRect()
		a.surface.Blit(rl.Rectangle{X: vx, Y: vy, Width: vw, Height: vh}, dst)
	} else {
		rl.DrawText("no simulation data", screenW/3, screenH/2, 20, rl.Gray)
	}

	a.hud.Draw(ui.HUDData{
		Title:      "Petriscope",
		RunState:   rs.String(),
		Generation: gen,
		Snapshot:   snap,
		Stats:      a.cache.Stats(),
		LastUpdate: a.cache.LastUpdate(),
		ClientFPS:  rl.GetFPS(),
	})

	action := a.controls.Draw(rs.String())
	a.fitChart.Draw(a.fitness)
	a.popChart.Draw(a.population)
	a.toasts.Draw(screenW, screenH)
	a.hud.DrawControls(screenW, screenH, "space: start/pause   s: step   r: reset   wheel/drag: zoom/pan   f: fit")

	rl.EndDrawing()

	if action == ui.ActionNone {
		action = keyboardAction(rs)
	}
	a.dispatch(action)
}

// handleSceneInput applies wheel zoom and drag pan while the cursor is over
// the scene viewport.
func (a *App) handleSceneInput(dst rl.Rectangle) {
	mouse := rl.GetMousePosition()
	inside := mouse.X >= dst.X && mouse.X < dst.X+dst.Width &&
		mouse.Y >= dst.Y && mouse.Y < dst.Y+dst.Height

	if inside {
		if wheel := rl.GetMouseWheelMove(); wheel != 0 {
			u := (mouse.X - dst.X) / dst.Width
			v := (mouse.Y - dst.Y) / dst.Height
			factor := float32(math.Pow(1.2, float64(wheel)))
			a.cam.ZoomAt(factor, u, v)
		}

		if rl.IsMouseButtonDown(rl.MouseButtonLeft) && a.cam.Zoomed() {
			delta := rl.GetMouseDelta()
			_, _, vw, _ := a.cam.ViewRect()
			scale := vw / dst.Width // scene units per screen pixel
			a.cam.Pan(-delta.X*scale, -delta.Y*scale)
		}
	}

	if rl.IsKeyPressed(rl.KeyF) {
		a.cam.Reset()
	}
}

// sceneRect letterboxes the scene into the area left of the sidebar at the
// configured aspect ratio.
func sceneRect(screenW, screenH int32) rl.Rectangle {
	cfg := config.Cfg()
	areaW := float32(screenW - sidebarWidth - 30)
	areaH := float32(screenH - 20)

	aspect := float32(cfg.Scene.AspectW) / float32(cfg.Scene.AspectH)
	w := areaW
	h := w / aspect
	if h > areaH {
		h = areaH
		w = h * aspect
	}

	return rl.Rectangle{
		X:      10 + (areaW-w)/2,
		Y:      10 + (areaH-h)/2,
		Width:  w,
		Height: h,
	}
}

func keyboardAction(rs controller.RunState) ui.Action {
	switch {
	case rl.IsKeyPressed(rl.KeySpace):
		switch rs {
		case controller.Running:
			return ui.ActionPause
		case controller.Paused:
			return ui.ActionResume
		default:
			return ui.ActionStart
		}
	case rl.IsKeyPressed(rl.KeyS):
		return ui.ActionStep
	case rl.IsKeyPressed(rl.KeyR):
		return ui.ActionReset
	}
	return ui.ActionNone
}

// dispatch runs the requested command off the render thread. Commands block
// on the network; a frame must never wait on them.
func (a *App) dispatch(action ui.Action) {
	if action == ui.ActionNone || a.ctrl == nil {
		return
	}

	switch action {
	case ui.ActionStart:
		var params map[string]any
		if a.controls.Seeded() {
			params = a.controls.ParameterValues()
		}
		go a.ctrl.Start(context.Background(), params)
	case ui.ActionStop:
		go a.ctrl.Stop(context.Background())
	case ui.ActionPause:
		go a.ctrl.Pause(context.Background())
	case ui.ActionResume:
		go a.ctrl.Resume(context.Background())
	case ui.ActionReset:
		go a.ctrl.Reset(context.Background())
	case ui.ActionStep:
		go a.ctrl.Step(context.Background())
	case ui.ActionApplyParams:
		params := a.controls.ParameterValues()
		go func() {
			if echoed, err := a.ctrl.ApplyParameters(context.Background(), params); err == nil && echoed != nil {
				a.queueSeed(echoed)
			}
		}()
	}
}

// FetchParameters seeds the form from the remote parameter set. Runs in the
// background so startup does not block on the network.
func (a *App) FetchParameters() {
	go func() {
		if params, err := a.ctrl.Parameters(context.Background()); err == nil {
			a.queueSeed(params)
		}
	}()
}

// queueSeed hands a parameter map to the render thread; SeedParameters runs
// inside Frame only.
func (a *App) queueSeed(params map[string]any) {
	a.mu.Lock()
	a.seedParams = params
	a.mu.Unlock()
}

// Unload releases GPU resources.
func (a *App) Unload() {
	a.surface.Unload()
}
