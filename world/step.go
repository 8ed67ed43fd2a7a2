package world

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/lifegrid/components"
	"github.com/pthm-cable/lifegrid/systems"
	"github.com/pthm-cable/lifegrid/telemetry"
)

// Step runs the full pipeline once: eating, combat, organism update,
// reproduction, cleanup, food growth, pixel sync. Synchronous and
// single-threaded; the world must not be read or written mid-tick.
func (w *World) Step() {
	w.tick++
	if w.perf != nil {
		w.perf.StartTick()
	}

	w.startPhase(telemetry.PhaseEating)
	w.stepEating()
	w.startPhase(telemetry.PhaseCombat)
	w.stepCombat()
	w.startPhase(telemetry.PhaseUpdate)
	w.stepOrganisms()
	w.startPhase(telemetry.PhaseReproduction)
	w.stepReproduction()
	w.startPhase(telemetry.PhaseCleanup)
	w.stepCleanup()
	w.startPhase(telemetry.PhaseFoodGrowth)
	w.stepFoodGrowth()
	w.startPhase(telemetry.PhasePixelSync)
	w.syncPixels()

	if w.perf != nil {
		w.perf.EndTick()
	}
}

func (w *World) startPhase(name string) {
	if w.perf != nil {
		w.perf.StartPhase(name)
	}
}

// stepEating scans every mouth's 4-neighborhood for food. All credits are
// recorded before any tile is cleared, so two mouths in range of the same
// food tile in one tick both collect from it.
func (w *World) stepEating() {
	type credit struct {
		entity ecs.Entity
		tile   int
	}
	var credits []credit

	query := w.filter.Query()
	for query.Next() {
		pos, org, body := query.Get()
		if !org.Alive {
			continue
		}
		for i := range body.Cells {
			if body.Cells[i].State != components.StateMouth {
				continue
			}
			dx, dy := body.Cells[i].Rotated(org.Rotation)
			cx, cy := pos.X+dx, pos.Y+dy
			for _, d := range components.Cardinal {
				ddx, ddy := d.Delta()
				fx, fy := cx+ddx, cy+ddy
				if w.HasFoodAt(fx, fy) {
					credits = append(credits, credit{entity: query.Entity(), tile: w.idx(fx, fy)})
				}
			}
		}
	}

	eaten := make(map[int]struct{})
	for _, c := range credits {
		w.orgMap.Get(c.entity).FoodCollected++
		eaten[c.tile] = struct{}{}
	}
	for tile := range eaten {
		w.cells[tile] = components.Cell{}
		w.pixels[tile] = components.StateEmpty.Color()
	}
	if w.collector != nil && len(eaten) > 0 {
		w.collector.RecordFoodEaten(len(eaten))
	}
}

// stepCombat accumulates killer damage per target, excluding self-hits and
// armored tiles, then applies it all at once.
func (w *World) stepCombat() {
	damage := make(map[uint32]int)

	query := w.filter.Query()
	for query.Next() {
		pos, org, body := query.Get()
		if !org.Alive {
			continue
		}
		for i := range body.Cells {
			if body.Cells[i].State != components.StateKiller {
				continue
			}
			dx, dy := body.Cells[i].Rotated(org.Rotation)
			cx, cy := pos.X+dx, pos.Y+dy
			for _, d := range components.Cardinal {
				ddx, ddy := d.Delta()
				tile, ok := w.GetCell(cx+ddx, cy+ddy)
				if !ok || tile.Owner == 0 || tile.Owner == org.ID {
					continue
				}
				if tile.State == components.StateArmor {
					continue
				}
				damage[tile.Owner]++
			}
		}
	}

	for id, points := range damage {
		entity, ok := w.entities[id]
		if !ok {
			continue
		}
		org := w.orgMap.Get(entity)
		if !org.Alive {
			continue
		}
		if w.settings.InstaKill {
			org.Alive = false
		} else {
			for i := 0; i < points && org.Alive; i++ {
				org.Harm()
			}
		}
		if !org.Alive && w.collector != nil {
			w.collector.RecordKill()
		}
	}
}

// stepOrganisms is the update phase. The tile matrix is frozen first, then
// all alive footprints are cleared and each organism ages, feeds, and moves
// or rotates against the frozen snapshot before being re-stamped into the
// live buffer. Clearance reads come from the pre-clear snapshot so a cleared
// but not-yet-re-stamped neighbor still blocks; the live owner check below
// rejects tiles already claimed by an earlier-moving organism.
func (w *World) stepOrganisms() {
	frozen := make([]components.Cell, len(w.cells))
	copy(frozen, w.cells)

	query := w.filter.Query()
	for query.Next() {
		pos, org, body := query.Get()
		if org.Alive {
			w.clearFootprint(pos, org, body)
		}
	}

	query = w.filter.Query()
	for query.Next() {
		pos, org, body := query.Get()
		if !org.Alive {
			continue
		}

		org.Lifetime++
		if org.Lifetime >= len(body.Cells)*w.settings.LifespanMultiplier {
			org.Alive = false
			if w.collector != nil {
				w.collector.RecordDeathAge()
			}
			continue
		}

		// Passive feeding off the pre-move snapshot. Credits only; the
		// eating phase owns food removal.
		for i := range body.Cells {
			if body.Cells[i].State != components.StateMouth {
				continue
			}
			dx, dy := body.Cells[i].Rotated(org.Rotation)
			cx, cy := pos.X+dx, pos.Y+dy
			for _, d := range components.Cardinal {
				ddx, ddy := d.Delta()
				fx, fy := cx+ddx, cy+ddy
				if w.InBounds(fx, fy) && frozen[w.idx(fx, fy)].State == components.StateFood {
					org.FoodCollected++
				}
			}
		}

		if body.HasState(components.StateMover) {
			clear := func(x, y int) bool {
				if !w.InBounds(x, y) {
					return false
				}
				i := w.idx(x, y)
				f := frozen[i]
				passable := f.State == components.StateEmpty ||
					f.State == components.StateFood ||
					f.Owner == org.ID
				if !passable {
					return false
				}
				owner := w.cells[i].Owner
				return owner == 0 || owner == org.ID
			}
			if !systems.TryMove(pos, org, body, clear, w.rng) {
				systems.TryRotate(pos, org, body, clear, w.rng)
			}
		}

		w.stampFootprint(pos, org, body)
	}
}

// stepCleanup removes dead organisms and converts their footprints to food.
// Tiles another organism has since claimed are left alone.
func (w *World) stepCleanup() {
	type dead struct {
		entity ecs.Entity
		id     uint32
		x, y   int
		rot    components.Direction
		cells  []components.OrganismCell
	}
	var toRemove []dead

	query := w.filter.Query()
	for query.Next() {
		pos, org, body := query.Get()
		if org.Alive {
			continue
		}
		toRemove = append(toRemove, dead{
			entity: query.Entity(),
			id:     org.ID,
			x:      pos.X,
			y:      pos.Y,
			rot:    org.Rotation,
			cells:  body.Cells,
		})
	}

	for _, d := range toRemove {
		for i := range d.cells {
			dx, dy := d.cells[i].Rotated(d.rot)
			x, y := d.x+dx, d.y+dy
			if !w.InBounds(x, y) {
				continue
			}
			tile := w.cells[w.idx(x, y)]
			if tile.Owner == d.id || (tile.Owner == 0 && tile.State == components.StateEmpty) {
				w.setTile(x, y, components.StateFood, 0)
			}
		}
		w.mapper.Remove(d.entity)
		delete(w.entities, d.id)
		w.count--
		if w.collector != nil {
			w.collector.RecordDeath()
		}
	}
}

// stepFoodGrowth grows food on empty tiles spontaneously and around
// producer cells.
func (w *World) stepFoodGrowth() {
	spawned := 0
	p := w.settings.FoodProductionProb
	if p > 0 {
		for i := range w.cells {
			if w.cells[i].State == components.StateEmpty && w.rng.Float64() < p {
				w.cells[i] = components.Cell{State: components.StateFood}
				spawned++
			}
		}
	}

	query := w.filter.Query()
	for query.Next() {
		pos, org, body := query.Get()
		if !org.Alive {
			continue
		}
		for i := range body.Cells {
			if body.Cells[i].State != components.StateProducer {
				continue
			}
			dx, dy := body.Cells[i].Rotated(org.Rotation)
			cx, cy := pos.X+dx, pos.Y+dy
			for _, d := range components.Cardinal {
				ddx, ddy := d.Delta()
				fx, fy := cx+ddx, cy+ddy
				if !w.InBounds(fx, fy) {
					continue
				}
				tile := w.idx(fx, fy)
				if w.cells[tile].State == components.StateEmpty && w.rng.Float64() < producerFoodProb {
					w.cells[tile] = components.Cell{State: components.StateFood}
					spawned++
				}
			}
		}
	}

	if w.collector != nil && spawned > 0 {
		w.collector.RecordFoodSpawned(spawned)
	}
}
