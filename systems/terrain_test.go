package systems

import "testing"

func TestGenerateWallsDimensions(t *testing.T) {
	walls := GenerateWalls(30, 20, WallParams{Scale: 0.08, Threshold: 0.7}, 42)
	if len(walls) != 600 {
		t.Fatalf("mask length = %d, want 600", len(walls))
	}
}

func TestGenerateWallsDeterministic(t *testing.T) {
	p := WallParams{Scale: 0.08, Threshold: 0.7}
	a := GenerateWalls(40, 40, p, 1234)
	b := GenerateWalls(40, 40, p, 1234)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("masks differ at %d for the same seed", i)
		}
	}
}

func TestGenerateWallsThresholdDisables(t *testing.T) {
	walls := GenerateWalls(40, 40, WallParams{Scale: 0.08, Threshold: 1.0}, 42)
	for i, w := range walls {
		if w {
			t.Fatalf("wall at %d with threshold 1.0", i)
		}
	}
}

func TestGenerateWallsProducesSome(t *testing.T) {
	// A low threshold on a decent-sized grid should carve at least one wall.
	walls := GenerateWalls(60, 60, WallParams{Scale: 0.08, Threshold: 0.6}, 42)
	count := 0
	for _, w := range walls {
		if w {
			count++
		}
	}
	if count == 0 {
		t.Error("no walls carved at threshold 0.6")
	}
	if count == len(walls) {
		t.Error("every tile is a wall at threshold 0.6")
	}
}

func TestGenerateWallsEmptyGrid(t *testing.T) {
	if got := GenerateWalls(0, 10, WallParams{Scale: 0.08, Threshold: 0.5}, 1); len(got) != 0 {
		t.Errorf("zero-width mask length = %d", len(got))
	}
}
