package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}

	if cfg.Grid.Width != 100 || cfg.Grid.Height != 100 {
		t.Errorf("grid = %dx%d, want 100x100", cfg.Grid.Width, cfg.Grid.Height)
	}
	if cfg.Sim.FoodProductionProb != 0.005 {
		t.Errorf("food production prob = %v, want 0.005", cfg.Sim.FoodProductionProb)
	}
	if cfg.Sim.MaxOrganisms != 1000 {
		t.Errorf("max organisms = %d, want 1000", cfg.Sim.MaxOrganisms)
	}
	if cfg.Sim.LifespanMultiplier != 100 {
		t.Errorf("lifespan multiplier = %d, want 100", cfg.Sim.LifespanMultiplier)
	}
	if cfg.Sim.InstaKill {
		t.Error("insta kill defaults on")
	}
	if !cfg.Sim.FoodBlocksReproduction {
		t.Error("food blocks reproduction defaults off")
	}
	if cfg.Mutation.AddProb != 0.33 {
		t.Errorf("mutation add prob = %v, want 0.33", cfg.Mutation.AddProb)
	}
	if cfg.Telemetry.StatsWindow != 100 {
		t.Errorf("stats window = %d, want 100", cfg.Telemetry.StatsWindow)
	}
}

func TestLoadDerived(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}

	wantW := int32(cfg.Grid.Width*cfg.Screen.PixelSize + cfg.Screen.PanelW)
	if cfg.Derived.WindowW != wantW {
		t.Errorf("window width = %d, want %d", cfg.Derived.WindowW, wantW)
	}
	wantH := int32(cfg.Grid.Height * cfg.Screen.PixelSize)
	if cfg.Derived.WindowH != wantH {
		t.Errorf("window height = %d, want %d", cfg.Derived.WindowH, wantH)
	}
}

func TestLoadMergesUserFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	user := []byte("grid:\n  width: 50\nsim:\n  insta_kill: true\n")
	if err := os.WriteFile(path, user, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("loading: %v", err)
	}

	if cfg.Grid.Width != 50 {
		t.Errorf("width = %d, want 50 from user file", cfg.Grid.Width)
	}
	if cfg.Grid.Height != 100 {
		t.Errorf("height = %d, want default 100", cfg.Grid.Height)
	}
	if !cfg.Sim.InstaKill {
		t.Error("insta kill override lost")
	}
	if cfg.Sim.MaxOrganisms != 1000 {
		t.Errorf("max organisms = %d, want default 1000", cfg.Sim.MaxOrganisms)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("missing file accepted")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	cfg.Grid.Width = 64
	cfg.Sim.MaxOrganisms = 123

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("writing: %v", err)
	}

	again, err := Load(path)
	if err != nil {
		t.Fatalf("reloading: %v", err)
	}
	if again.Grid.Width != 64 || again.Sim.MaxOrganisms != 123 {
		t.Errorf("round trip lost values: %+v", again.Grid)
	}
}

func TestInitAndCfg(t *testing.T) {
	if err := Init(""); err != nil {
		t.Fatalf("init: %v", err)
	}
	if Cfg() == nil {
		t.Fatal("Cfg returned nil after Init")
	}
}
