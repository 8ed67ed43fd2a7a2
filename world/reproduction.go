package world

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/lifegrid/components"
	"github.com/pthm-cable/lifegrid/systems"
)

// Extra tiles between a parent's body extent and its offspring's anchor.
const birthBuffer = 2

// The eight compass directions offspring can be placed in.
var birthDirections = [8][2]int{
	{0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
}

// stepReproduction gives every organism holding enough food one chance to
// spawn a mutated offspring. Candidates are collected first and placed after
// the scan, so later placements see earlier offspring and the population cap
// holds.
func (w *World) stepReproduction() {
	type parent struct {
		entity ecs.Entity
		x, y   int
		extent int
		cost   int

		moveRange  int
		mutability uint8
		cells      []components.OrganismCell
	}
	var parents []parent

	query := w.filter.Query()
	for query.Next() {
		pos, org, body := query.Get()
		if !org.Alive {
			continue
		}
		cost := body.FoodNeededToReproduce()
		if org.FoodCollected < cost {
			continue
		}
		cells := make([]components.OrganismCell, len(body.Cells))
		copy(cells, body.Cells)
		parents = append(parents, parent{
			entity:     query.Entity(),
			x:          pos.X,
			y:          pos.Y,
			extent:     body.MaxExtent(),
			cost:       cost,
			moveRange:  org.MoveRange,
			mutability: org.Mutability,
			cells:      cells,
		})
	}

	for _, p := range parents {
		buf := components.CellBuffer{Cells: p.cells}
		childCells, childMoveRange, childMutability := systems.Offspring(
			&buf, p.moveRange, p.mutability, w.settings.Mutation, w.rng)

		distance := p.extent + birthBuffer + w.rng.Intn(3)

		order := w.rng.Perm(len(birthDirections))
		placed := false
		for _, di := range order {
			d := birthDirections[di]
			childX := p.x + d[0]*distance
			childY := p.y + d[1]*distance

			if !w.birthPathClear(p.x, p.y, childX, childY, w.orgMap.Get(p.entity).ID) {
				continue
			}

			child := Organism{
				X:             childX,
				Y:             childY,
				Rotation:      components.RandomDirection(w.rng),
				MoveDirection: components.RandomDirection(w.rng),
				MoveRange:     childMoveRange,
				Mutability:    childMutability,
				Cells:         childCells,
			}
			if w.AddOrganism(child) {
				w.orgMap.Get(p.entity).FoodCollected -= p.cost
				if w.collector != nil {
					w.collector.RecordBirth()
				}
				placed = true
				break
			}
		}
		if !placed && w.collector != nil {
			w.collector.RecordReproFailed()
		}
	}
}

// birthPathClear rasterizes the line between parent and child anchors and
// checks every intermediate tile is empty, food, or the parent's own body.
// Endpoints are excluded; the child anchor is validated by AddOrganism.
func (w *World) birthPathClear(x0, y0, x1, y1 int, parentID uint32) bool {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	x, y := x0, y0
	for {
		if x == x1 && y == y1 {
			return true
		}
		if !(x == x0 && y == y0) {
			if !w.InBounds(x, y) {
				return false
			}
			tile := w.cells[w.idx(x, y)]
			switch {
			case tile.State == components.StateEmpty || tile.State == components.StateFood:
			case tile.Owner == parentID && parentID != 0:
			default:
				return false
			}
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
