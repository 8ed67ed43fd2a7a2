package world

import (
	"fmt"
	"math/rand"

	"github.com/pthm-cable/lifegrid/components"
	"github.com/pthm-cable/lifegrid/systems"
	"github.com/pthm-cable/lifegrid/telemetry"
)

// BuildSnapshot captures the complete world state for replay. The seed is
// recorded as provided by the caller; the rng's internal position is not
// recoverable.
func (w *World) BuildSnapshot(seed int64) *telemetry.Snapshot {
	s := &telemetry.Snapshot{
		Version: telemetry.SnapshotVersion,
		RNGSeed: seed,
		Width:   w.width,
		Height:  w.height,
		Tick:    w.tick,
		NextID:  w.nextID,
		Settings: telemetry.SettingsState{
			FoodProductionProb:     w.settings.FoodProductionProb,
			MaxOrganisms:           w.settings.MaxOrganisms,
			LifespanMultiplier:     w.settings.LifespanMultiplier,
			InstaKill:              w.settings.InstaKill,
			FoodBlocksReproduction: w.settings.FoodBlocksReproduction,
			MutationAddProb:        w.settings.Mutation.AddProb,
			MutationChangeProb:     w.settings.Mutation.ChangeProb,
			MutationRemoveProb:     w.settings.Mutation.RemoveProb,
		},
	}

	for i := range w.cells {
		switch w.cells[i].State {
		case components.StateWall:
			s.Walls = append(s.Walls, i)
		case components.StateFood:
			s.Food = append(s.Food, i)
		}
	}

	for _, o := range w.Organisms() {
		s.Organisms = append(s.Organisms, telemetry.OrganismState{
			ID:            o.ID,
			X:             o.X,
			Y:             o.Y,
			Rotation:      o.Rotation,
			MoveDirection: o.MoveDirection,
			MoveRange:     o.MoveRange,
			MoveCounter:   o.MoveCounter,
			FoodCollected: o.FoodCollected,
			Health:        o.Health,
			Lifetime:      o.Lifetime,
			Mutability:    o.Mutability,
			Cells:         o.Cells,
		})
	}
	return s
}

// FromSnapshot reconstructs a world from a snapshot. Tiles and organisms are
// restored verbatim, bypassing placement validation; a snapshot from a
// consistent world stays consistent.
func FromSnapshot(s *telemetry.Snapshot, rng *rand.Rand) (*World, error) {
	if s.Width < 0 || s.Height < 0 {
		return nil, fmt.Errorf("invalid snapshot dimensions %dx%d", s.Width, s.Height)
	}

	settings := Settings{
		FoodProductionProb:     s.Settings.FoodProductionProb,
		MaxOrganisms:           s.Settings.MaxOrganisms,
		LifespanMultiplier:     s.Settings.LifespanMultiplier,
		InstaKill:              s.Settings.InstaKill,
		FoodBlocksReproduction: s.Settings.FoodBlocksReproduction,
		Mutation: systems.MutationParams{
			AddProb:    s.Settings.MutationAddProb,
			ChangeProb: s.Settings.MutationChangeProb,
			RemoveProb: s.Settings.MutationRemoveProb,
		},
	}

	w := New(s.Width, s.Height, settings, rng)
	w.tick = s.Tick

	for _, i := range s.Walls {
		if i < 0 || i >= len(w.cells) {
			return nil, fmt.Errorf("wall index %d out of range", i)
		}
		w.cells[i] = components.Cell{State: components.StateWall}
	}
	for _, i := range s.Food {
		if i < 0 || i >= len(w.cells) {
			return nil, fmt.Errorf("food index %d out of range", i)
		}
		w.cells[i] = components.Cell{State: components.StateFood}
	}

	for _, o := range s.Organisms {
		if o.ID == 0 || len(o.Cells) == 0 {
			return nil, fmt.Errorf("malformed organism state (id %d)", o.ID)
		}
		w.place(Organism{
			ID:            o.ID,
			X:             o.X,
			Y:             o.Y,
			Rotation:      o.Rotation,
			MoveDirection: o.MoveDirection,
			MoveRange:     o.MoveRange,
			MoveCounter:   o.MoveCounter,
			Cells:         o.Cells,
			FoodCollected: o.FoodCollected,
			Health:        o.Health,
			Lifetime:      o.Lifetime,
			Mutability:    o.Mutability,
		})
	}
	if s.NextID > w.nextID {
		w.nextID = s.NextID
	}

	w.syncPixels()
	return w, nil
}
