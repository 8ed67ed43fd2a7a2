// Package systems holds the stateless organism behaviors: movement,
// rotation, mutation, and terrain generation. Each operates on component
// data with grid access injected as callbacks, so they stay testable
// without a World.
package systems

import (
	"math/rand"

	"github.com/pthm-cable/lifegrid/components"
)

// ClearFunc reports whether a grid tile can be entered by a moving organism.
type ClearFunc func(x, y int) bool

// TryMove steps the organism one tile in its movement direction. The move
// commits only if every body cell's destination is either a tile the
// organism already occupies or clear per the callback. On a blocked move
// the direction rerolls with 50% probability.
func TryMove(pos *components.Position, org *components.Organism, body *components.CellBuffer, clear ClearFunc, rng *rand.Rand) bool {
	dx, dy := org.MoveDirection.Delta()
	newX, newY := pos.X+dx, pos.Y+dy

	if footprintFits(newX, newY, org.Rotation, pos, org, body, clear) {
		pos.X, pos.Y = newX, newY
		org.MoveCounter++
		if org.MoveCounter >= org.MoveRange {
			org.MoveDirection = components.RandomDirection(rng)
			org.MoveCounter = 0
		}
		return true
	}

	if rng.Intn(2) == 0 {
		org.MoveDirection = components.RandomDirection(rng)
		org.MoveCounter = 0
	}
	return false
}

// TryRotate samples a new orientation and commits it if every body cell's
// re-rotated position is occupied by this organism or clear.
func TryRotate(pos *components.Position, org *components.Organism, body *components.CellBuffer, clear ClearFunc, rng *rand.Rand) bool {
	newRotation := components.RandomDirection(rng)
	if !footprintFits(pos.X, pos.Y, newRotation, pos, org, body, clear) {
		return false
	}
	org.Rotation = newRotation
	return true
}

// footprintFits checks that the body plan, anchored at (anchorX, anchorY)
// with the given rotation, lands only on tiles the organism already holds
// or tiles the callback reports clear.
func footprintFits(anchorX, anchorY int, rotation components.Direction, pos *components.Position, org *components.Organism, body *components.CellBuffer, clear ClearFunc) bool {
	for i := range body.Cells {
		dx, dy := body.Cells[i].Rotated(rotation)
		x, y := anchorX+dx, anchorY+dy
		if ownsTile(x, y, pos, org, body) {
			continue
		}
		if !clear(x, y) {
			return false
		}
	}
	return true
}

// ownsTile reports whether (x, y) is part of the organism's current footprint.
func ownsTile(x, y int, pos *components.Position, org *components.Organism, body *components.CellBuffer) bool {
	for i := range body.Cells {
		dx, dy := body.Cells[i].Rotated(org.Rotation)
		if pos.X+dx == x && pos.Y+dy == y {
			return true
		}
	}
	return false
}
