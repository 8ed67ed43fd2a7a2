package components

import "math/rand"

// OrganismCell is one body-plan slot: a state and its offset from the anchor.
// Facing is only meaningful for eyes and rotates with the organism.
type OrganismCell struct {
	State  CellState `json:"state"`
	DX     int       `json:"dx"`
	DY     int       `json:"dy"`
	Facing Direction `json:"facing,omitempty"`
}

// NewOrganismCell builds a body cell, randomizing facing for eyes.
func NewOrganismCell(state CellState, dx, dy int, rng *rand.Rand) OrganismCell {
	c := OrganismCell{State: state, DX: dx, DY: dy}
	if state == StateEye {
		c.Facing = RandomDirection(rng)
	}
	return c
}

// Rotated returns the cell's offset under the given organism rotation.
func (c OrganismCell) Rotated(rotation Direction) (int, int) {
	switch rotation {
	case DirRight:
		return c.DY, -c.DX
	case DirDown:
		return -c.DX, -c.DY
	case DirLeft:
		return -c.DY, c.DX
	default:
		return c.DX, c.DY
	}
}

// AbsoluteFacing returns the eye's world-space facing under the organism
// rotation. Only meaningful when State is StateEye.
func (c OrganismCell) AbsoluteFacing(rotation Direction) Direction {
	return c.Facing.Plus(rotation)
}

// Organism holds an entity's vitals and motion state. The body plan lives in
// the CellBuffer component; the anchor position in Position.
type Organism struct {
	ID            uint32
	Rotation      Direction
	MoveDirection Direction
	MoveRange     int
	MoveCounter   int
	FoodCollected int
	Health        int
	Lifetime      int
	Mutability    uint8
	Alive         bool
}

// Harm applies one point of combat damage. Health never goes below zero;
// an organism at zero health is dead.
func (o *Organism) Harm() {
	if o.Health > 0 {
		o.Health--
	}
	if o.Health == 0 {
		o.Alive = false
	}
}

// CellBuffer is an organism's ordered body plan. The first cell is the
// anchor at offset (0,0) and is never mutated away.
type CellBuffer struct {
	Cells []OrganismCell
}

// HasState reports whether any body cell has the given state.
func (b *CellBuffer) HasState(state CellState) bool {
	for i := range b.Cells {
		if b.Cells[i].State == state {
			return true
		}
	}
	return false
}

// Occupied reports whether a body cell already sits at relative (dx, dy).
func (b *CellBuffer) Occupied(dx, dy int) bool {
	for i := range b.Cells {
		if b.Cells[i].DX == dx && b.Cells[i].DY == dy {
			return true
		}
	}
	return false
}

// MaxExtent returns the largest Chebyshev offset any cell reaches from the
// anchor, over all four rotations. Used to pick a safe birth distance.
func (b *CellBuffer) MaxExtent() int {
	extent := 0
	for i := range b.Cells {
		if d := abs(b.Cells[i].DX); d > extent {
			extent = d
		}
		if d := abs(b.Cells[i].DY); d > extent {
			extent = d
		}
	}
	return extent
}

// FoodNeededToReproduce is the reproduction cost: one food per body cell,
// plus one if the organism can move.
func (b *CellBuffer) FoodNeededToReproduce() int {
	cost := len(b.Cells)
	if b.HasState(StateMover) {
		cost++
	}
	return cost
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
