package main

import (
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lifegrid/components"
	"github.com/pthm-cable/lifegrid/config"
	"github.com/pthm-cable/lifegrid/renderer"
	"github.com/pthm-cable/lifegrid/systems"
	"github.com/pthm-cable/lifegrid/telemetry"
	"github.com/pthm-cable/lifegrid/world"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	statsWindow := flag.Int("stats-window", 0, "Stats window size in ticks (0 = use config)")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for snapshot files")
	snapshotEvery := flag.Int("snapshot-every", 0, "Save a snapshot every N ticks (0 = disabled)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster headless runs)")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Use config stats window if not overridden by CLI
	windowTicks := cfg.Telemetry.StatsWindow
	if *statsWindow > 0 {
		windowTicks = *statsWindow
	}

	rng := rand.New(rand.NewSource(rngSeed))
	w := world.New(cfg.Grid.Width, cfg.Grid.Height, world.SettingsFromConfig(cfg), rng)
	if cfg.Walls.Enabled {
		w.GenerateWalls(systems.WallParams{
			Scale:     cfg.Walls.Scale,
			Threshold: cfg.Walls.Threshold,
		}, rngSeed)
	}
	w.OriginOfLife()

	collector := telemetry.NewCollector(windowTicks)
	w.AttachCollector(collector)
	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	w.AttachPerf(perf)

	om, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output manager", "error", err)
		os.Exit(1)
	}
	defer om.Close()
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	d := &driver{
		w:             w,
		collector:     collector,
		perf:          perf,
		om:            om,
		seed:          rngSeed,
		logStats:      *logStats,
		snapshotDir:   *snapshotDir,
		snapshotEvery: *snapshotEvery,
		maxTicks:      *maxTicks,
	}

	slog.Info("starting simulation",
		"seed", rngSeed,
		"grid", cfg.Grid.Width*cfg.Grid.Height,
		"headless", *headless,
		"max_ticks", *maxTicks,
	)

	if *headless {
		d.runHeadless(*stepsPerUpdate)
	} else {
		d.runGraphical(cfg)
	}
}

// driver owns the tick loop and its side channels: stats windows, CSV
// output, and periodic snapshots.
type driver struct {
	w         *world.World
	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	om        *telemetry.OutputManager

	seed          int64
	logStats      bool
	snapshotDir   string
	snapshotEvery int
	maxTicks      int
}

// step advances the world one tick and services windows and snapshots.
func (d *driver) step() {
	d.w.Step()
	tick := d.w.Tick()

	if d.collector.ShouldEmit(tick) {
		stats := d.collector.EndWindow(tick, d.w.SamplePopulation())
		if d.logStats {
			stats.Log()
		}
		if err := d.om.WriteTelemetry(stats); err != nil {
			slog.Error("telemetry write failed", "error", err)
		}
		if err := d.om.WritePerf(d.perf.Stats(), tick); err != nil {
			slog.Error("perf write failed", "error", err)
		}
	}

	if d.snapshotEvery > 0 && d.snapshotDir != "" && tick%d.snapshotEvery == 0 {
		path, err := telemetry.SaveSnapshot(d.w.BuildSnapshot(d.seed), d.snapshotDir)
		if err != nil {
			slog.Error("snapshot save failed", "error", err)
		} else {
			slog.Info("snapshot saved", "path", path, "tick", tick)
		}
	}
}

func (d *driver) done() bool {
	return d.maxTicks > 0 && d.w.Tick() >= d.maxTicks
}

func (d *driver) runHeadless(stepsPerUpdate int) {
	if stepsPerUpdate < 1 {
		stepsPerUpdate = 1
	}
	for {
		for i := 0; i < stepsPerUpdate; i++ {
			d.step()
			if d.done() {
				slog.Info("max ticks reached", "tick", d.w.Tick(), "organisms", d.w.OrganismCount())
				return
			}
		}
	}
}

func (d *driver) runGraphical(cfg *config.Config) {
	rl.InitWindow(cfg.Derived.WindowW, cfg.Derived.WindowH, "LifeGrid")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	r := renderer.New(cfg.Screen.PixelSize, cfg.Screen.PanelW)
	state := renderer.PanelState{Speed: 1}

	for !rl.WindowShouldClose() {
		d.handleInput(r, &state)

		if !state.Paused {
			for i := 0; i < state.Speed; i++ {
				d.step()
			}
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)
		r.DrawGrid(d.w)
		r.DrawPanel(d.w, &state, d.perf)
		rl.EndDrawing()

		if d.done() {
			slog.Info("max ticks reached", "tick", d.w.Tick(), "organisms", d.w.OrganismCount())
			return
		}
	}
}

// handleInput services keyboard shortcuts and mouse painting.
func (d *driver) handleInput(r *renderer.Renderer, state *renderer.PanelState) {
	if rl.IsKeyPressed(rl.KeySpace) {
		state.Paused = !state.Paused
	}
	if rl.IsKeyPressed(rl.KeyN) && state.Paused {
		d.step()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		d.w.Reset(rl.IsKeyDown(rl.KeyLeftShift))
	}
	if rl.IsKeyPressed(rl.KeyO) {
		d.w.OriginOfLife()
	}

	mouse := rl.GetMousePosition()
	x, y, ok := r.TileAt(d.w, int32(mouse.X), int32(mouse.Y))
	if !ok {
		return
	}

	switch {
	case rl.IsMouseButtonDown(rl.MouseLeftButton):
		d.w.SetCell(x, y, components.StateWall)
	case rl.IsMouseButtonDown(rl.MouseMiddleButton):
		d.w.SetCell(x, y, components.StateFood)
	case rl.IsMouseButtonPressed(rl.MouseRightButton):
		d.w.CreateBasicOrganism(x, y)
	}
}
