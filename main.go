package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"
	"strings"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pasture/app"
	"github.com/pthm-cable/pasture/config"
	"github.com/pthm-cable/pasture/input"
	"github.com/pthm-cable/pasture/renderer"
	"github.com/pthm-cable/pasture/snapshot"
	"github.com/pthm-cable/pasture/telemetry"
	"github.com/pthm-cable/pasture/ui"
	"github.com/pthm-cable/pasture/world"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = config, then time-based)")
	maxSteps := flag.Int("max-steps", 0, "Stop after N steps (0 = unlimited)")
	overlay := flag.String("overlay", "", "Initial index overlay: off, leaves, tree, active")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	logFormat := flag.String("log-format", "json", "Log format: json or text")

	flag.Parse()

	setupLogging(*logLevel, *logFormat)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *overlay != "" {
		if err := cfg.SetOverlay(*overlay); err != nil {
			slog.Error("invalid overlay", "error", err)
			os.Exit(1)
		}
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = cfg.World.Seed
	}
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	defer output.Close()
	if dir := output.Dir(); dir != "" {
		slog.Info("writing telemetry", "dir", dir)
	}
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	w := world.NewSim(app.WorldParamsFor(cfg), rngSeed)
	a, err := app.New(cfg, w, app.Options{LogStats: *logStats, Output: output})
	if err != nil {
		slog.Error("failed to start viewer", "error", err)
		os.Exit(1)
	}

	if *headless {
		slog.Info("starting headless run",
			"seed", rngSeed,
			"max_steps", *maxSteps,
		)
		if err := runHeadless(a, w, cfg.World.DT, *maxSteps); err != nil {
			os.Exit(1)
		}
		return
	}

	slog.Info("starting viewer", "seed", rngSeed)
	runWindow(cfg, a, *maxSteps)
}

func setupLogging(level, format string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var h slog.Handler
	if strings.EqualFold(format, "text") {
		h = slog.NewTextHandler(os.Stdout, opts)
	} else {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}

// runHeadless steps at the configured rate without a window until the app
// halts or maxSteps is reached.
func runHeadless(a *app.App, w *world.Sim, dt float64, maxSteps int) error {
	defer func() {
		c := w.Counts()
		slog.Info("headless run finished",
			"world_steps", w.Steps(),
			"predators", c[world.CodePredator],
			"prey", c[world.CodePrey],
			"forage", c[world.CodeForage],
		)
	}()
	for {
		if err := a.Frame(dt, nil); err != nil {
			if errors.Is(err, app.ErrHalted) {
				slog.Info("headless run halted", "step", a.Step())
			}
			return err
		}
		if maxSteps > 0 && a.Step() >= uint64(maxSteps) {
			slog.Info("max steps reached", "step", a.Step())
			return nil
		}
	}
}

func runWindow(cfg *config.Config, a *app.App, maxSteps int) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
	// Escape releases the tracked agent instead of closing the window
	rl.SetExitKey(0)

	var terrain *renderer.TerrainRenderer
	if cfg.Debug.Terrain {
		terrain = renderer.NewTerrainRenderer(cfg.Debug.TerrainResolution, float32(cfg.Debug.TerrainHeight))
	}
	sc := renderer.NewScene(terrain)
	sc.Init(a)
	defer sc.Unload()

	overlays := ui.NewOverlayRegistry()
	poller := ui.NewPoller(overlays)
	hud := ui.NewHUD()
	controls := ui.NewControlsPanel(10, 160, 300, overlays)
	inspector := ui.NewInspector(0, 10, 260)
	perfPanel := ui.NewPerfPanel(0, 0)
	plot := ui.NewStatsPlot(rl.Rectangle{})

	q := &input.Queue{}
	for !rl.WindowShouldClose() {
		sw, sh := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
		inspector.SetPosition(sw-inspector.Width()-10, 10)
		perfPanel.SetPosition(sw-inspector.Width()-10, sh-180)
		plot.SetBounds(rl.Rectangle{X: 10, Y: float32(sh) - 170, Width: 360, Height: 130})

		insp, showInspector := inspectorData(a)
		panels := []rl.Rectangle{controls.Bounds(), plot.Bounds()}
		if showInspector {
			panels = append(panels, inspector.Bounds(insp))
		}
		poller.Poll(q, panels...)
		plot.HandleClick()

		if err := a.Frame(float64(rl.GetFrameTime()), q.Drain()); err != nil {
			slog.Warn("presenting last frame", "error", err)
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.Color{R: 18, G: 22, B: 28, A: 255})
		sc.Draw(a)

		var counts [snapshot.NumKinds]int
		for _, k := range snapshot.Kinds {
			counts[k] = a.Snapshot().Count(k)
		}
		sel := a.Selection()
		var latest *telemetry.Bookmark
		if bms := a.Bookmarks(); len(bms) > 0 {
			latest = &bms[len(bms)-1]
		}
		hud.Draw(ui.HUDData{
			Title:   cfg.Screen.Title,
			Counts:  counts,
			Step:    a.Step(),
			FPS:     rl.GetFPS(),
			Mode:    a.CameraMode(),
			Zoom:    a.Zoom(),
			Hovered: sel.Hovered,
			Tracked: sel.Tracked,
			Paused:  a.Paused(),
			Halted:  a.Halted(),
			Latest:  latest,
			Index:   a.Overlay().Summary(),
		})
		controls.Draw(ui.ControlsData{
			Paused:  a.Paused(),
			Halted:  a.Halted() != nil,
			Mode:    a.CameraMode(),
			Overlay: a.Overlay().Mode,
		}, q)

		// Recomputed after the frame so the panel shows the current agent
		if insp, ok := inspectorData(a); ok {
			inspector.Draw(insp)
		}
		var series [snapshot.NumKinds]*telemetry.Series
		for _, k := range snapshot.Kinds {
			series[k] = a.Stats(k)
		}
		plot.Draw(series)
		perfPanel.Draw(a.Perf().Stats())
		hud.DrawControls(sh, overlays.Legend())
		rl.EndDrawing()

		a.Perf().RecordPresent()

		if maxSteps > 0 && a.Step() >= uint64(maxSteps) {
			break
		}
	}
}

// inspectorData picks the tracked agent, falling back to the hovered one.
func inspectorData(a *app.App) (ui.InspectorData, bool) {
	sel := a.Selection()
	if agent, ok := a.Snapshot().Lookup(sel.Tracked); sel.Tracked != "" && ok {
		return ui.InspectorData{Agent: agent, Tracked: true}, true
	}
	if agent, ok := a.Snapshot().Lookup(sel.Hovered); sel.Hovered != "" && ok {
		return ui.InspectorData{Agent: agent}, true
	}
	return ui.InspectorData{}, false
}
