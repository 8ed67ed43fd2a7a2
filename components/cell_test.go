package components

import (
	"math/rand"
	"testing"
)

func TestStateColors(t *testing.T) {
	tests := []struct {
		state CellState
		want  uint32
	}{
		{StateEmpty, 0x0E1318},
		{StateFood, 0x2F7AB7},
		{StateWall, 0x808080},
		{StateMouth, 0xDEB14D},
		{StateProducer, 0x15DE59},
		{StateMover, 0x60D4FF},
		{StateKiller, 0xF82380},
		{StateArmor, 0x7230DB},
		{StateEye, 0xB6C1EA},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			if got := tt.state.Color(); got != tt.want {
				t.Errorf("Color() = %#06x, want %#06x", got, tt.want)
			}
		})
	}
}

func TestDirectionDeltas(t *testing.T) {
	tests := []struct {
		dir    Direction
		dx, dy int
	}{
		{DirUp, 0, -1},
		{DirRight, 1, 0},
		{DirDown, 0, 1},
		{DirLeft, -1, 0},
	}

	for _, tt := range tests {
		dx, dy := tt.dir.Delta()
		if dx != tt.dx || dy != tt.dy {
			t.Errorf("Delta(%d) = (%d,%d), want (%d,%d)", tt.dir, dx, dy, tt.dx, tt.dy)
		}
		if got := tt.dir.Opposite().Opposite(); got != tt.dir {
			t.Errorf("double Opposite(%d) = %d", tt.dir, got)
		}
		odx, ody := tt.dir.Opposite().Delta()
		if odx != -tt.dx || ody != -tt.dy {
			t.Errorf("Opposite(%d).Delta() = (%d,%d), want (%d,%d)", tt.dir, odx, ody, -tt.dx, -tt.dy)
		}
	}
}

func TestIsBodyState(t *testing.T) {
	for s := StateEmpty; s < NumCellStates; s++ {
		want := s >= StateMouth
		if got := s.IsBodyState(); got != want {
			t.Errorf("IsBodyState(%v) = %v, want %v", s, got, want)
		}
	}
}

func TestRandomBodyState(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	seen := make(map[CellState]bool)
	for i := 0; i < 1000; i++ {
		s := RandomBodyState(rng)
		if !s.IsBodyState() {
			t.Fatalf("RandomBodyState returned environment state %v", s)
		}
		seen[s] = true
	}
	if len(seen) != 6 {
		t.Errorf("expected all 6 body states over 1000 draws, saw %d", len(seen))
	}
}
