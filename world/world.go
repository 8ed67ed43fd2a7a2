// Package world owns the simulation state machine: the tile matrix, the
// derived color buffer, the organism registry, and the per-tick step
// pipeline. A driver calls Step once per tick and reads pixels afterwards.
package world

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/lifegrid/components"
	"github.com/pthm-cable/lifegrid/config"
	"github.com/pthm-cable/lifegrid/systems"
	"github.com/pthm-cable/lifegrid/telemetry"
)

// Default heritable traits for seeded organisms.
const (
	DefaultMoveRange  = 4
	DefaultMutability = 5
)

// Chance a producer cell offers food to each empty 4-neighbor per tick.
const producerFoodProb = 0.05

// Settings bundles the simulation-wide tunables. The world holds one value
// and reads it during Step; setters swap the value between ticks.
type Settings struct {
	FoodProductionProb     float64
	MaxOrganisms           int
	LifespanMultiplier     int
	InstaKill              bool
	FoodBlocksReproduction bool
	Mutation               systems.MutationParams
}

// SettingsFromConfig builds Settings from the loaded configuration.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		FoodProductionProb:     cfg.Sim.FoodProductionProb,
		MaxOrganisms:           cfg.Sim.MaxOrganisms,
		LifespanMultiplier:     cfg.Sim.LifespanMultiplier,
		InstaKill:              cfg.Sim.InstaKill,
		FoodBlocksReproduction: cfg.Sim.FoodBlocksReproduction,
		Mutation: systems.MutationParams{
			AddProb:    cfg.Mutation.AddProb,
			ChangeProb: cfg.Mutation.ChangeProb,
			RemoveProb: cfg.Mutation.RemoveProb,
		},
	}
}

// Organism is the registry-facing view of one organism: anchor, orientation,
// body plan, and vitals. AddOrganism consumes one; Organism/Organisms return
// copies of the stored state.
type Organism struct {
	ID            uint32
	X, Y          int
	Rotation      components.Direction
	MoveDirection components.Direction
	MoveRange     int
	MoveCounter   int
	Cells         []components.OrganismCell
	FoodCollected int
	Health        int
	Lifetime      int
	Mutability    uint8
}

// World is the grid state machine.
type World struct {
	width, height int
	cells         []components.Cell
	pixels        []uint32

	reg    *ecs.World
	mapper *ecs.Map3[components.Position, components.Organism, components.CellBuffer]
	filter *ecs.Filter3[components.Position, components.Organism, components.CellBuffer]
	orgMap *ecs.Map1[components.Organism]

	entities map[uint32]ecs.Entity
	count    int
	nextID   uint32

	settings Settings
	rng      *rand.Rand
	tick     int

	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
}

// New creates a world with the given dimensions. Degenerate dimensions are
// clamped to zero; such a world never places an organism but never fails.
func New(width, height int, settings Settings, rng *rand.Rand) *World {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	reg := ecs.NewWorld()

	w := &World{
		width:    width,
		height:   height,
		cells:    make([]components.Cell, width*height),
		pixels:   make([]uint32, width*height),
		reg:      reg,
		mapper:   ecs.NewMap3[components.Position, components.Organism, components.CellBuffer](reg),
		filter:   ecs.NewFilter3[components.Position, components.Organism, components.CellBuffer](reg),
		orgMap:   ecs.NewMap1[components.Organism](reg),
		entities: make(map[uint32]ecs.Entity),
		nextID:   1,
		settings: settings,
		rng:      rng,
	}
	w.syncPixels()
	return w
}

// AttachCollector wires an event collector into the pipeline. Pass nil to
// detach.
func (w *World) AttachCollector(c *telemetry.Collector) { w.collector = c }

// AttachPerf wires a perf collector that times the pipeline phases.
func (w *World) AttachPerf(p *telemetry.PerfCollector) { w.perf = p }

// Width returns the grid width in tiles.
func (w *World) Width() int { return w.width }

// Height returns the grid height in tiles.
func (w *World) Height() int { return w.height }

// Tick returns the number of completed steps.
func (w *World) Tick() int { return w.tick }

// OrganismCount returns the number of registered organisms.
func (w *World) OrganismCount() int { return w.count }

// Settings returns the current tunables.
func (w *World) Settings() Settings { return w.settings }

// SetFoodProductionProb updates the spontaneous food growth probability.
func (w *World) SetFoodProductionProb(p float64) { w.settings.FoodProductionProb = p }

// SetMaxOrganisms updates the population cap. Zero disables the cap.
func (w *World) SetMaxOrganisms(max int) { w.settings.MaxOrganisms = max }

// SetLifespanMultiplier updates the per-cell lifespan factor.
func (w *World) SetLifespanMultiplier(m int) { w.settings.LifespanMultiplier = m }

// SetInstaKill updates whether any combat damage is immediately lethal.
func (w *World) SetInstaKill(v bool) { w.settings.InstaKill = v }

// SetFoodBlocksReproduction updates whether food tiles block placement.
func (w *World) SetFoodBlocksReproduction(v bool) { w.settings.FoodBlocksReproduction = v }

// InBounds reports whether (x, y) is a valid tile coordinate.
func (w *World) InBounds(x, y int) bool {
	return x >= 0 && x < w.width && y >= 0 && y < w.height
}

func (w *World) idx(x, y int) int { return y*w.width + x }

// GetCell returns the tile at (x, y). The second return is false out of
// bounds.
func (w *World) GetCell(x, y int) (components.Cell, bool) {
	if !w.InBounds(x, y) {
		return components.Cell{}, false
	}
	return w.cells[w.idx(x, y)], true
}

// GetPixel returns the packed 0xRRGGBB color at (x, y), or 0 out of bounds.
func (w *World) GetPixel(x, y int) uint32 {
	if !w.InBounds(x, y) {
		return 0
	}
	return w.pixels[w.idx(x, y)]
}

// IsPositionClear reports whether a tile can be entered: in bounds and
// either empty or food. Food never blocks movement; whether it blocks
// placement is governed by FoodBlocksReproduction in AddOrganism.
func (w *World) IsPositionClear(x, y int) bool {
	if !w.InBounds(x, y) {
		return false
	}
	s := w.cells[w.idx(x, y)].State
	return s == components.StateEmpty || s == components.StateFood
}

// HasFoodAt reports whether the tile at (x, y) holds food.
func (w *World) HasFoodAt(x, y int) bool {
	if !w.InBounds(x, y) {
		return false
	}
	return w.cells[w.idx(x, y)].State == components.StateFood
}

// SetCell writes a tile state (unowned) and its derived color. Out-of-bounds
// writes are ignored.
func (w *World) SetCell(x, y int, state components.CellState) {
	w.setTile(x, y, state, 0)
}

// setTile writes state, owner, and pixel for one tile.
func (w *World) setTile(x, y int, state components.CellState, owner uint32) {
	if !w.InBounds(x, y) {
		return
	}
	i := w.idx(x, y)
	w.cells[i] = components.Cell{State: state, Owner: owner}
	w.pixels[i] = state.Color()
}

// AddOrganism validates and places an organism. Placement is atomic: either
// every body cell is stamped and the organism registered, or nothing is
// written and false is returned. An organism with ID 0 is assigned the next
// id.
func (w *World) AddOrganism(o Organism) bool {
	if len(o.Cells) == 0 {
		return false
	}
	if w.settings.MaxOrganisms > 0 && w.count >= w.settings.MaxOrganisms {
		return false
	}
	for i := range o.Cells {
		dx, dy := o.Cells[i].Rotated(o.Rotation)
		x, y := o.X+dx, o.Y+dy
		if !w.InBounds(x, y) {
			return false
		}
		switch w.cells[w.idx(x, y)].State {
		case components.StateEmpty:
		case components.StateFood:
			if w.settings.FoodBlocksReproduction {
				return false
			}
		default:
			return false
		}
	}
	w.place(o)
	return true
}

// place registers and stamps an organism without validation. Callers must
// have validated the footprint (AddOrganism) or be restoring a snapshot.
func (w *World) place(o Organism) {
	if o.ID == 0 {
		o.ID = w.nextID
		w.nextID++
	} else if o.ID >= w.nextID {
		w.nextID = o.ID + 1
	}
	if o.Health <= 0 || o.Health > len(o.Cells) {
		o.Health = len(o.Cells)
	}
	if o.MoveRange == 0 {
		o.MoveRange = DefaultMoveRange
	}

	pos := components.Position{X: o.X, Y: o.Y}
	org := components.Organism{
		ID:            o.ID,
		Rotation:      o.Rotation,
		MoveDirection: o.MoveDirection,
		MoveRange:     o.MoveRange,
		MoveCounter:   o.MoveCounter,
		FoodCollected: o.FoodCollected,
		Health:        o.Health,
		Lifetime:      o.Lifetime,
		Mutability:    o.Mutability,
		Alive:         true,
	}
	cells := make([]components.OrganismCell, len(o.Cells))
	copy(cells, o.Cells)
	body := components.CellBuffer{Cells: cells}

	entity := w.mapper.NewEntity(&pos, &org, &body)
	w.entities[o.ID] = entity
	w.count++

	w.stampFootprint(&pos, &org, &body)
}

// stampFootprint writes the organism's body cells onto the grid with owner
// back-references.
func (w *World) stampFootprint(pos *components.Position, org *components.Organism, body *components.CellBuffer) {
	for i := range body.Cells {
		dx, dy := body.Cells[i].Rotated(org.Rotation)
		w.setTile(pos.X+dx, pos.Y+dy, body.Cells[i].State, org.ID)
	}
}

// clearFootprint erases the organism's body cells from the grid, touching
// only tiles still owned by it.
func (w *World) clearFootprint(pos *components.Position, org *components.Organism, body *components.CellBuffer) {
	for i := range body.Cells {
		dx, dy := body.Cells[i].Rotated(org.Rotation)
		x, y := pos.X+dx, pos.Y+dy
		if !w.InBounds(x, y) {
			continue
		}
		if w.cells[w.idx(x, y)].Owner == org.ID {
			w.setTile(x, y, components.StateEmpty, 0)
		}
	}
}

// Organism returns a copy of the organism with the given id.
func (w *World) Organism(id uint32) (Organism, bool) {
	entity, ok := w.entities[id]
	if !ok {
		return Organism{}, false
	}
	pos, org, body := w.mapper.Get(entity)
	return makeView(pos, org, body), true
}

// Organisms returns copies of every registered organism.
func (w *World) Organisms() []Organism {
	out := make([]Organism, 0, w.count)
	query := w.filter.Query()
	for query.Next() {
		pos, org, body := query.Get()
		out = append(out, makeView(pos, org, body))
	}
	return out
}

func makeView(pos *components.Position, org *components.Organism, body *components.CellBuffer) Organism {
	cells := make([]components.OrganismCell, len(body.Cells))
	copy(cells, body.Cells)
	return Organism{
		ID:            org.ID,
		X:             pos.X,
		Y:             pos.Y,
		Rotation:      org.Rotation,
		MoveDirection: org.MoveDirection,
		MoveRange:     org.MoveRange,
		MoveCounter:   org.MoveCounter,
		Cells:         cells,
		FoodCollected: org.FoodCollected,
		Health:        org.Health,
		Lifetime:      org.Lifetime,
		Mutability:    org.Mutability,
	}
}

// Reset clears all tiles to empty, preserving walls unless clearWalls is
// set, removes every organism, and resets the id counter.
func (w *World) Reset(clearWalls bool) {
	var toRemove []ecs.Entity
	query := w.filter.Query()
	for query.Next() {
		toRemove = append(toRemove, query.Entity())
	}
	for _, e := range toRemove {
		w.mapper.Remove(e)
	}
	w.entities = make(map[uint32]ecs.Entity)
	w.count = 0
	w.nextID = 1
	w.tick = 0

	for i := range w.cells {
		if w.cells[i].State == components.StateWall && !clearWalls {
			w.cells[i].Owner = 0
			continue
		}
		w.cells[i] = components.Cell{}
	}
	w.syncPixels()
}

// GenerateWalls stamps procedural walls onto empty tiles.
func (w *World) GenerateWalls(params systems.WallParams, seed int64) {
	mask := systems.GenerateWalls(w.width, w.height, params, seed)
	for i, wall := range mask {
		if wall && w.cells[i].State == components.StateEmpty {
			w.cells[i] = components.Cell{State: components.StateWall}
			w.pixels[i] = components.StateWall.Color()
		}
	}
}

// CreateBasicOrganism seeds the starter body at (x, y): a mouth anchor with
// a producer above and below.
func (w *World) CreateBasicOrganism(x, y int) bool {
	return w.AddOrganism(Organism{
		X:             x,
		Y:             y,
		MoveDirection: components.RandomDirection(w.rng),
		MoveRange:     DefaultMoveRange,
		Mutability:    DefaultMutability,
		Cells: []components.OrganismCell{
			components.NewOrganismCell(components.StateMouth, 0, 0, w.rng),
			components.NewOrganismCell(components.StateProducer, 0, -1, w.rng),
			components.NewOrganismCell(components.StateProducer, 0, 1, w.rng),
		},
	})
}

// OriginOfLife seeds one basic organism at the grid center.
func (w *World) OriginOfLife() bool {
	return w.CreateBasicOrganism(w.width/2, w.height/2)
}

// Preset selects one of the hand-built organism bodies.
type Preset uint8

const (
	PresetProducer Preset = iota // mouth ringed by producers
	PresetHunter                 // mobile killer with an eye
	PresetArmored                // producer with armor plating
)

// CreatePresetOrganism seeds one of the preset bodies at (x, y).
func (w *World) CreatePresetOrganism(x, y int, preset Preset) bool {
	var cells []components.OrganismCell
	add := func(state components.CellState, dx, dy int) {
		cells = append(cells, components.NewOrganismCell(state, dx, dy, w.rng))
	}

	add(components.StateMouth, 0, 0)
	switch preset {
	case PresetHunter:
		add(components.StateMover, 1, 0)
		add(components.StateKiller, 0, 1)
		add(components.StateEye, -1, 0)
	case PresetArmored:
		add(components.StateProducer, 1, 0)
		add(components.StateProducer, -1, 0)
		add(components.StateArmor, 0, 1)
		add(components.StateArmor, 0, -1)
	default:
		add(components.StateProducer, 1, 0)
		add(components.StateProducer, -1, 0)
		add(components.StateProducer, 0, 1)
		add(components.StateProducer, 0, -1)
	}

	return w.AddOrganism(Organism{
		X:             x,
		Y:             y,
		MoveDirection: components.RandomDirection(w.rng),
		MoveRange:     DefaultMoveRange,
		Mutability:    DefaultMutability,
		Cells:         cells,
	})
}

// SamplePopulation gathers the distribution sample telemetry aggregates at
// window boundaries.
func (w *World) SamplePopulation() telemetry.PopulationSample {
	sample := telemetry.PopulationSample{Organisms: w.count}
	query := w.filter.Query()
	for query.Next() {
		_, org, body := query.Get()
		sample.BodySizes = append(sample.BodySizes, float64(len(body.Cells)))
		sample.Mutabilities = append(sample.Mutabilities, float64(org.Mutability))
	}
	for i := range w.cells {
		if w.cells[i].State == components.StateFood {
			sample.FoodTiles++
		}
	}
	return sample
}

// syncPixels recomputes the derived color buffer from tile state.
func (w *World) syncPixels() {
	for i := range w.cells {
		w.pixels[i] = w.cells[i].State.Color()
	}
}
