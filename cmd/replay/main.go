// Command replay loads a snapshot and runs it headless, emitting window
// stats. Useful for reproducing interesting runs from saved state.
package main

import (
	"flag"
	"log/slog"
	"math/rand"
	"os"

	"github.com/pthm-cable/lifegrid/telemetry"
	"github.com/pthm-cable/lifegrid/world"
)

func main() {
	snapshotPath := flag.String("snapshot", "", "Path to snapshot JSON (required)")
	ticks := flag.Int("ticks", 1000, "Number of ticks to run")
	seed := flag.Int64("seed", 0, "RNG seed override (0 = use snapshot seed)")
	statsWindow := flag.Int("stats-window", 100, "Stats window size in ticks")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs")

	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if *snapshotPath == "" {
		slog.Error("missing -snapshot")
		os.Exit(1)
	}

	snapshot, err := telemetry.LoadSnapshot(*snapshotPath)
	if err != nil {
		slog.Error("failed to load snapshot", "error", err)
		os.Exit(1)
	}

	rngSeed := snapshot.RNGSeed
	if *seed != 0 {
		rngSeed = *seed
	}
	w, err := world.FromSnapshot(snapshot, rand.New(rand.NewSource(rngSeed)))
	if err != nil {
		slog.Error("failed to restore snapshot", "error", err)
		os.Exit(1)
	}

	collector := telemetry.NewCollector(*statsWindow)
	w.AttachCollector(collector)
	perf := telemetry.NewPerfCollector(*statsWindow)
	w.AttachPerf(perf)

	om, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output manager", "error", err)
		os.Exit(1)
	}
	defer om.Close()

	slog.Info("replaying snapshot",
		"path", *snapshotPath,
		"from_tick", snapshot.Tick,
		"ticks", *ticks,
		"seed", rngSeed,
		"organisms", w.OrganismCount(),
	)

	end := w.Tick() + *ticks
	for w.Tick() < end {
		w.Step()
		if collector.ShouldEmit(w.Tick()) {
			stats := collector.EndWindow(w.Tick(), w.SamplePopulation())
			stats.Log()
			if err := om.WriteTelemetry(stats); err != nil {
				slog.Error("telemetry write failed", "error", err)
			}
			if err := om.WritePerf(perf.Stats(), w.Tick()); err != nil {
				slog.Error("perf write failed", "error", err)
			}
		}
	}

	slog.Info("replay finished", "tick", w.Tick(), "organisms", w.OrganismCount())
}
