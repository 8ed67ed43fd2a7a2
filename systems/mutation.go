package systems

import (
	"math/rand"

	"github.com/pthm-cable/lifegrid/components"
)

// MutationParams holds the independent per-kind mutation probabilities.
type MutationParams struct {
	AddProb    float64
	ChangeProb float64
	RemoveProb float64
}

// Chance a mutating offspring also perturbs move range or mutability.
const metaMutationChance = 10 // percent

var orthogonal = [4][2]int{{0, 1}, {1, 0}, {0, -1}, {-1, 0}}

// Mutate applies up to one add, one change, and one remove to the body
// plan, each rolled independently. The anchor cell at (0,0) is never
// changed or removed.
func Mutate(body *components.CellBuffer, p MutationParams, rng *rand.Rand) {
	if rng.Float64() < p.AddProb {
		addCell(body, rng)
	}
	if rng.Float64() < p.ChangeProb {
		changeCell(body, rng)
	}
	if rng.Float64() < p.RemoveProb {
		removeCell(body, rng)
	}
}

// addCell grows the body by one cell orthogonally adjacent to a random
// existing cell, at a free relative offset.
func addCell(body *components.CellBuffer, rng *rand.Rand) {
	if len(body.Cells) == 0 {
		return
	}
	attach := body.Cells[rng.Intn(len(body.Cells))]

	var free [][2]int
	for _, d := range orthogonal {
		dx, dy := attach.DX+d[0], attach.DY+d[1]
		if !body.Occupied(dx, dy) {
			free = append(free, [2]int{dx, dy})
		}
	}
	if len(free) == 0 {
		return
	}

	at := free[rng.Intn(len(free))]
	state := components.RandomBodyState(rng)
	body.Cells = append(body.Cells, components.NewOrganismCell(state, at[0], at[1], rng))
}

// changeCell retypes one non-anchor cell to a different random body state.
func changeCell(body *components.CellBuffer, rng *rand.Rand) {
	if len(body.Cells) < 2 {
		return
	}
	idx := 1 + rng.Intn(len(body.Cells)-1)
	cell := &body.Cells[idx]

	newState := components.RandomBodyState(rng)
	for newState == cell.State {
		newState = components.RandomBodyState(rng)
	}
	cell.State = newState
	if newState == components.StateEye {
		cell.Facing = components.RandomDirection(rng)
	} else {
		cell.Facing = components.DirUp
	}
}

// removeCell drops one non-anchor cell.
func removeCell(body *components.CellBuffer, rng *rand.Rand) {
	if len(body.Cells) < 2 {
		return
	}
	idx := 1 + rng.Intn(len(body.Cells)-1)
	body.Cells = append(body.Cells[:idx], body.Cells[idx+1:]...)
}

// Offspring derives a child body plan and heritable traits from a parent.
// The body mutates with probability mutability%; a mutating child may also
// perturb its move range and its own mutability.
func Offspring(parent *components.CellBuffer, moveRange int, mutability uint8, p MutationParams, rng *rand.Rand) (cells []components.OrganismCell, childMoveRange int, childMutability uint8) {
	cells = make([]components.OrganismCell, len(parent.Cells))
	copy(cells, parent.Cells)
	childMoveRange = moveRange
	childMutability = mutability

	if rng.Intn(100) >= int(mutability) {
		return cells, childMoveRange, childMutability
	}

	buf := components.CellBuffer{Cells: cells}
	Mutate(&buf, p, rng)
	cells = buf.Cells

	if rng.Intn(100) < metaMutationChance {
		childMoveRange += rng.Intn(5) - 2
		if childMoveRange < 1 {
			childMoveRange = 1
		}
	}
	if rng.Intn(100) < metaMutationChance {
		m := int(childMutability) + rng.Intn(3) - 1
		if m < 1 {
			m = 1
		}
		if m > 100 {
			m = 100
		}
		childMutability = uint8(m)
	}
	return cells, childMoveRange, childMutability
}
