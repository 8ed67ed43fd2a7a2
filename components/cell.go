// Package components defines the shared cell, direction, and organism types
// stored in the ECS world and stamped onto the grid.
package components

import "math/rand"

// CellState identifies what occupies a single grid tile or body slot.
type CellState uint8

const (
	StateEmpty CellState = iota
	StateFood
	StateWall
	StateMouth
	StateProducer
	StateMover
	StateKiller
	StateArmor
	StateEye

	NumCellStates
)

// Environment states live on the grid only; body states make up organisms.
const (
	firstBodyState = StateMouth
	numBodyStates  = int(NumCellStates - firstBodyState)
)

var stateNames = [NumCellStates]string{
	"empty", "food", "wall", "mouth", "producer", "mover", "killer", "armor", "eye",
}

func (s CellState) String() string {
	if s < NumCellStates {
		return stateNames[s]
	}
	return "unknown"
}

// IsBodyState reports whether the state can appear in an organism's body plan.
func (s CellState) IsBodyState() bool {
	return s >= firstBodyState && s < NumCellStates
}

// Packed 0xRRGGBB display colors. Fixed contract with the renderers.
var stateColors = [NumCellStates]uint32{
	StateEmpty:    0x0E1318,
	StateFood:     0x2F7AB7,
	StateWall:     0x808080,
	StateMouth:    0xDEB14D,
	StateProducer: 0x15DE59,
	StateMover:    0x60D4FF,
	StateKiller:   0xF82380,
	StateArmor:    0x7230DB,
	StateEye:      0xB6C1EA,
}

// Color returns the packed 0xRRGGBB display color for the state.
func (s CellState) Color() uint32 {
	if s < NumCellStates {
		return stateColors[s]
	}
	return 0x000000
}

// RandomBodyState picks a uniform random non-environment state.
func RandomBodyState(rng *rand.Rand) CellState {
	return firstBodyState + CellState(rng.Intn(numBodyStates))
}

// Direction is one of the four cardinal orientations.
type Direction uint8

const (
	DirUp Direction = iota
	DirRight
	DirDown
	DirLeft

	NumDirections
)

// Cardinal enumerates the four directions in fixed scan order.
var Cardinal = [NumDirections]Direction{DirUp, DirRight, DirDown, DirLeft}

var dirDeltas = [NumDirections][2]int{
	DirUp:    {0, -1},
	DirRight: {1, 0},
	DirDown:  {0, 1},
	DirLeft:  {-1, 0},
}

// Delta returns the unit step (dx, dy) for the direction.
func (d Direction) Delta() (int, int) {
	dd := dirDeltas[d%NumDirections]
	return dd[0], dd[1]
}

// Opposite returns the reversed direction.
func (d Direction) Opposite() Direction {
	return (d + 2) % NumDirections
}

// Plus composes two rotations.
func (d Direction) Plus(other Direction) Direction {
	return (d + other) % NumDirections
}

// RandomDirection picks a uniform random cardinal direction.
func RandomDirection(rng *rand.Rand) Direction {
	return Direction(rng.Intn(int(NumDirections)))
}

// Position is an organism's anchor position on the grid.
type Position struct {
	X, Y int
}

// Cell is one grid tile: its state and, for organism body tiles, the id of
// the owning organism. Owner 0 means unowned.
type Cell struct {
	State CellState
	Owner uint32
}
