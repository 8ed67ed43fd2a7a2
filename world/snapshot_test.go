package world

import (
	"math/rand"
	"reflect"
	"sort"
	"testing"

	"github.com/pthm-cable/lifegrid/components"
	"github.com/pthm-cable/lifegrid/telemetry"
)

func TestSnapshotRoundTrip(t *testing.T) {
	s := testSettings()
	s.FoodProductionProb = 0.01
	s.MaxOrganisms = 500
	s.InstaKill = true
	w := newTestWorld(12, 10, s, 1)

	w.SetCell(0, 0, components.StateWall)
	w.SetCell(11, 9, components.StateWall)
	w.SetCell(5, 5, components.StateFood)

	if !w.CreatePresetOrganism(3, 3, PresetHunter) {
		t.Fatal("hunter placement failed")
	}
	fed := singleMouth(8, 2)
	fed.FoodCollected = 7
	fed.Rotation = components.DirLeft
	if !w.AddOrganism(fed) {
		t.Fatal("placement failed")
	}
	for i := 0; i < 3; i++ {
		w.Step()
	}

	snapshot := w.BuildSnapshot(42)
	path, err := telemetry.SaveSnapshot(snapshot, t.TempDir())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := telemetry.LoadSnapshot(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.RNGSeed != 42 {
		t.Errorf("seed = %d, want 42", loaded.RNGSeed)
	}

	restored, err := FromSnapshot(loaded, rand.New(rand.NewSource(loaded.RNGSeed)))
	if err != nil {
		t.Fatalf("restore: %v", err)
	}

	if restored.Width() != w.Width() || restored.Height() != w.Height() {
		t.Fatalf("dims = %dx%d, want %dx%d", restored.Width(), restored.Height(), w.Width(), w.Height())
	}
	if restored.Tick() != w.Tick() {
		t.Errorf("tick = %d, want %d", restored.Tick(), w.Tick())
	}
	if restored.Settings() != w.Settings() {
		t.Errorf("settings = %+v, want %+v", restored.Settings(), w.Settings())
	}

	for y := 0; y < w.Height(); y++ {
		for x := 0; x < w.Width(); x++ {
			want, _ := w.GetCell(x, y)
			got, _ := restored.GetCell(x, y)
			if got != want {
				t.Fatalf("tile (%d,%d) = %+v, want %+v", x, y, got, want)
			}
			if restored.GetPixel(x, y) != w.GetPixel(x, y) {
				t.Fatalf("pixel (%d,%d) differs", x, y)
			}
		}
	}

	wantOrgs := sortedByID(w.Organisms())
	gotOrgs := sortedByID(restored.Organisms())
	if !reflect.DeepEqual(gotOrgs, wantOrgs) {
		t.Errorf("organisms differ\ngot  %+v\nwant %+v", gotOrgs, wantOrgs)
	}
}

func sortedByID(orgs []Organism) []Organism {
	sort.Slice(orgs, func(i, j int) bool { return orgs[i].ID < orgs[j].ID })
	return orgs
}

func TestSnapshotPreservesIDCounter(t *testing.T) {
	w := newTestWorld(20, 20, testSettings(), 1)
	w.AddOrganism(singleMouth(5, 5))
	w.AddOrganism(singleMouth(10, 10))

	restored, err := FromSnapshot(w.BuildSnapshot(1), rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("restore: %v", err)
	}

	if !restored.AddOrganism(singleMouth(15, 15)) {
		t.Fatal("placement in restored world failed")
	}
	if _, ok := restored.Organism(3); !ok {
		t.Error("restored world reused an existing id")
	}
}

func TestFromSnapshotRejectsBadData(t *testing.T) {
	base := func() *telemetry.Snapshot {
		return &telemetry.Snapshot{Version: telemetry.SnapshotVersion, Width: 5, Height: 5}
	}

	s := base()
	s.Walls = []int{99}
	if _, err := FromSnapshot(s, rand.New(rand.NewSource(1))); err == nil {
		t.Error("wall index out of range accepted")
	}

	s = base()
	s.Food = []int{-1}
	if _, err := FromSnapshot(s, rand.New(rand.NewSource(1))); err == nil {
		t.Error("food index out of range accepted")
	}

	s = base()
	s.Organisms = []telemetry.OrganismState{{ID: 0}}
	if _, err := FromSnapshot(s, rand.New(rand.NewSource(1))); err == nil {
		t.Error("malformed organism accepted")
	}

	s = base()
	s.Width = -1
	if _, err := FromSnapshot(s, rand.New(rand.NewSource(1))); err == nil {
		t.Error("negative dimensions accepted")
	}
}

func TestLoadSnapshotRejectsWrongVersion(t *testing.T) {
	w := newTestWorld(5, 5, testSettings(), 1)
	snapshot := w.BuildSnapshot(1)
	snapshot.Version = 99

	path, err := telemetry.SaveSnapshot(snapshot, t.TempDir())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := telemetry.LoadSnapshot(path); err == nil {
		t.Error("wrong snapshot version accepted")
	}
}
