package systems

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/lifegrid/components"
)

func TestMutateKeepsAnchor(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	always := MutationParams{AddProb: 1, ChangeProb: 1, RemoveProb: 1}

	body := &components.CellBuffer{Cells: []components.OrganismCell{
		{State: components.StateMouth},
		{State: components.StateProducer, DY: 1},
	}}

	for i := 0; i < 500; i++ {
		Mutate(body, always, rng)

		if len(body.Cells) == 0 {
			t.Fatal("body emptied out")
		}
		anchor := body.Cells[0]
		if anchor.DX != 0 || anchor.DY != 0 {
			t.Fatalf("anchor drifted to (%d,%d)", anchor.DX, anchor.DY)
		}
		if anchor.State != components.StateMouth {
			t.Fatalf("anchor state changed to %v", anchor.State)
		}
		for _, c := range body.Cells {
			if !c.State.IsBodyState() {
				t.Fatalf("non-body state %v in body plan", c.State)
			}
		}
	}
}

func TestAddCellAdjacency(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	addOnly := MutationParams{AddProb: 1}

	body := &components.CellBuffer{Cells: []components.OrganismCell{
		{State: components.StateMouth},
	}}

	for i := 0; i < 50; i++ {
		before := len(body.Cells)
		Mutate(body, addOnly, rng)
		if len(body.Cells) == before {
			continue // all neighbors of the chosen cell were taken
		}

		added := body.Cells[len(body.Cells)-1]
		adjacent := false
		for _, c := range body.Cells[:len(body.Cells)-1] {
			if abs(added.DX-c.DX)+abs(added.DY-c.DY) == 1 {
				adjacent = true
				break
			}
		}
		if !adjacent {
			t.Fatalf("added cell (%d,%d) not orthogonally adjacent to body", added.DX, added.DY)
		}
		if seenTwice(body) {
			t.Fatalf("duplicate offset after add: %+v", body.Cells)
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func seenTwice(body *components.CellBuffer) bool {
	seen := make(map[[2]int]bool)
	for _, c := range body.Cells {
		key := [2]int{c.DX, c.DY}
		if seen[key] {
			return true
		}
		seen[key] = true
	}
	return false
}

func TestChangeCellPicksDifferentState(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	changeOnly := MutationParams{ChangeProb: 1}

	for i := 0; i < 200; i++ {
		body := &components.CellBuffer{Cells: []components.OrganismCell{
			{State: components.StateMouth},
			{State: components.StateProducer, DY: 1},
		}}
		Mutate(body, changeOnly, rng)
		if body.Cells[1].State == components.StateProducer {
			t.Fatal("change mutation kept the same state")
		}
		if body.Cells[1].State != components.StateEye && body.Cells[1].Facing != components.DirUp {
			t.Fatalf("non-eye cell kept facing %v", body.Cells[1].Facing)
		}
	}
}

func TestRemoveCellNeverEmpties(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	removeOnly := MutationParams{RemoveProb: 1}

	body := &components.CellBuffer{Cells: []components.OrganismCell{
		{State: components.StateMouth},
		{State: components.StateProducer, DY: 1},
		{State: components.StateArmor, DY: -1},
	}}

	for i := 0; i < 20; i++ {
		Mutate(body, removeOnly, rng)
	}
	if len(body.Cells) != 1 {
		t.Fatalf("body has %d cells, want the anchor alone", len(body.Cells))
	}
	if body.Cells[0].State != components.StateMouth {
		t.Fatalf("anchor state = %v", body.Cells[0].State)
	}
}

func TestOffspringZeroMutabilityIsClone(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	parent := &components.CellBuffer{Cells: []components.OrganismCell{
		{State: components.StateMouth},
		{State: components.StateMover, DX: 1},
	}}
	always := MutationParams{AddProb: 1, ChangeProb: 1, RemoveProb: 1}

	for i := 0; i < 100; i++ {
		cells, moveRange, mutability := Offspring(parent, 4, 0, always, rng)
		if len(cells) != 2 || cells[1].State != components.StateMover {
			t.Fatalf("clone mutated: %+v", cells)
		}
		if moveRange != 4 || mutability != 0 {
			t.Fatalf("traits changed: moveRange=%d mutability=%d", moveRange, mutability)
		}
	}
}

func TestOffspringDoesNotAliasParent(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	parent := &components.CellBuffer{Cells: []components.OrganismCell{
		{State: components.StateMouth},
		{State: components.StateProducer, DY: 1},
	}}
	always := MutationParams{AddProb: 1, ChangeProb: 1, RemoveProb: 1}

	for i := 0; i < 100; i++ {
		Offspring(parent, 4, 100, always, rng)
		if len(parent.Cells) != 2 ||
			parent.Cells[0].State != components.StateMouth ||
			parent.Cells[1].State != components.StateProducer {
			t.Fatalf("parent body modified: %+v", parent.Cells)
		}
	}
}

func TestOffspringTraitClamps(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	parent := &components.CellBuffer{Cells: []components.OrganismCell{
		{State: components.StateMouth},
	}}
	p := MutationParams{}

	for i := 0; i < 2000; i++ {
		_, moveRange, mutability := Offspring(parent, 1, 100, p, rng)
		if moveRange < 1 {
			t.Fatalf("move range clamped wrong: %d", moveRange)
		}
		if mutability < 1 || mutability > 100 {
			t.Fatalf("mutability out of range: %d", mutability)
		}
	}
}
