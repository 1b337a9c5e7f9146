package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/petrilab/petriscope/api"
	"github.com/petrilab/petriscope/app"
	"github.com/petrilab/petriscope/chart"
	"github.com/petrilab/petriscope/config"
	"github.com/petrilab/petriscope/controller"
	"github.com/petrilab/petriscope/poll"
	"github.com/petrilab/petriscope/state"
	"github.com/petrilab/petriscope/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	server := flag.String("server", "", "Simulation service base URL (overrides config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs")
	logStats := flag.Bool("log-stats", false, "Periodically log poll round-trip stats via slog")
	glucoseImage := flag.String("glucose-image", "", "Path to glucose sprite image (overrides config)")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *server != "" {
		cfg.Server.BaseURL = *server
	}
	if *glucoseImage != "" {
		cfg.Scene.GlucoseImage = *glucoseImage
	}

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	client := api.NewClient(cfg.Server.BaseURL, cfg.Derived.ServerTimeout)

	// Health probe: log reachability but start regardless, the status
	// supervisor resyncs once the service comes up.
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Derived.ServerTimeout)
	if h, err := client.Health(ctx); err != nil {
		slog.Warn("simulation service unreachable", "url", cfg.Server.BaseURL, "error", err)
	} else {
		slog.Info("connected to simulation service",
			"url", cfg.Server.BaseURL,
			"service", h.Service,
			"version", h.Version,
			"running", h.SimulationRunning,
		)
	}
	cancel()

	exporter, err := telemetry.NewExporter(*outputDir)
	if err != nil {
		slog.Error("failed to initialize output directory", "error", err)
		os.Exit(1)
	}
	defer exporter.Close()

	// Snapshot the effective config next to the CSVs for reproducibility.
	if dir := exporter.Dir(); dir != "" {
		if err := cfg.WriteYAML(filepath.Join(dir, "config.yaml")); err != nil {
			slog.Warn("failed to write config snapshot", "error", err)
		}
	}

	cache := state.NewCache()
	fitness := chart.NewBuffer(cfg.Charts.Window, "bacteria", "phagocytes")
	population := chart.NewBuffer(cfg.Charts.Window, "bacteria", "phagocytes")
	pollStats := telemetry.NewPollCollector(cfg.Telemetry.PollWindow)

	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Petriscope")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	a := app.New(cache, fitness, population)
	defer a.Unload()

	ctrl := controller.New(controller.Deps{
		Client:     client,
		Cache:      cache,
		Fitness:    fitness,
		Population: population,
		View:       a,
		Clock:      poll.WallClock{},
		Intervals: poll.Intervals{
			Status: cfg.Derived.StatusInterval,
			State:  cfg.Derived.StateInterval,
			Stats:  cfg.Derived.StatsInterval,
		},
		Poll:   pollStats,
		Export: exporter,
	})
	defer ctrl.Close()

	a.Bind(ctrl)
	a.FetchParameters()
	ctrl.StartStatusPolling()

	var statsTicker *time.Ticker
	if *logStats {
		statsTicker = time.NewTicker(10 * time.Second)
		defer statsTicker.Stop()
	}

	for !rl.WindowShouldClose() {
		a.Frame()

		if statsTicker != nil {
			select {
			case <-statsTicker.C:
				pollStats.LogStats()
				if err := exporter.WritePollStats(collectPollStats(pollStats)); err != nil {
					slog.Warn("poll stats export failed", "error", err)
				}
			default:
			}
		}
	}
}

func collectPollStats(p *telemetry.PollCollector) []telemetry.PollStats {
	tasks := p.Tasks()
	out := make([]telemetry.PollStats, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, p.Stats(task))
	}
	return out
}
