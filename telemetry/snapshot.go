package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pthm-cable/lifegrid/components"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the complete simulation state for replay.
type Snapshot struct {
	Version int   `json:"version"`
	RNGSeed int64 `json:"rng_seed"`

	Width  int `json:"width"`
	Height int `json:"height"`
	Tick   int `json:"tick"`
	NextID uint32 `json:"next_id"`

	Settings SettingsState `json:"settings"`

	// Environment tiles as row-major indices
	Walls []int `json:"walls,omitempty"`
	Food  []int `json:"food,omitempty"`

	Organisms []OrganismState `json:"organisms"`
}

// SettingsState mirrors the world tunables in serializable form.
type SettingsState struct {
	FoodProductionProb     float64 `json:"food_production_prob"`
	MaxOrganisms           int     `json:"max_organisms"`
	LifespanMultiplier     int     `json:"lifespan_multiplier"`
	InstaKill              bool    `json:"insta_kill"`
	FoodBlocksReproduction bool    `json:"food_blocks_reproduction"`
	MutationAddProb        float64 `json:"mutation_add_prob"`
	MutationChangeProb     float64 `json:"mutation_change_prob"`
	MutationRemoveProb     float64 `json:"mutation_remove_prob"`
}

// OrganismState holds one organism's complete state.
type OrganismState struct {
	ID            uint32                    `json:"id"`
	X             int                       `json:"x"`
	Y             int                       `json:"y"`
	Rotation      components.Direction      `json:"rotation"`
	MoveDirection components.Direction      `json:"move_direction"`
	MoveRange     int                       `json:"move_range"`
	MoveCounter   int                       `json:"move_counter"`
	FoodCollected int                       `json:"food_collected"`
	Health        int                       `json:"health"`
	Lifetime      int                       `json:"lifetime"`
	Mutability    uint8                     `json:"mutability"`
	Cells         []components.OrganismCell `json:"cells"`
}

// SaveSnapshot writes the snapshot as indented JSON into dir and returns the
// file path.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating snapshot directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("snapshot_%09d.json", snapshot.Tick))
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing snapshot: %w", err)
	}
	return path, nil
}

// LoadSnapshot reads a snapshot from path.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", snapshot.Version)
	}
	return &snapshot, nil
}
