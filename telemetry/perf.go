package telemetry

import (
	"time"
)

// Phase names for the simulation step pipeline.
const (
	PhaseEating       = "eating"
	PhaseCombat       = "combat"
	PhaseUpdate       = "update"
	PhaseReproduction = "reproduction"
	PhaseCleanup      = "cleanup"
	PhaseFoodGrowth   = "food_growth"
	PhasePixelSync    = "pixel_sync"
)

// PerfSample holds timing data for a single tick.
type PerfSample struct {
	TickDuration time.Duration
	Phases       map[string]time.Duration
}

// PerfCollector tracks per-phase timings over a rolling window of ticks.
type PerfCollector struct {
	windowSize  int
	samples     []PerfSample
	writeIndex  int
	sampleCount int

	currentPhases map[string]time.Duration
	tickStart     time.Time
	phaseStart    time.Time
	lastPhase     string
}

// NewPerfCollector creates a perf collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing a phase, closing out the previous one.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndTick closes the open phase and records the sample.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
		p.lastPhase = ""
	}

	p.samples[p.writeIndex] = PerfSample{
		TickDuration: now.Sub(p.tickStart),
		Phases:       p.currentPhases,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// PerfStats holds averaged timings over the window.
type PerfStats struct {
	AvgTick time.Duration
	Phases  map[string]time.Duration
}

// Stats averages the recorded samples.
func (p *PerfCollector) Stats() PerfStats {
	stats := PerfStats{Phases: make(map[string]time.Duration)}
	if p.sampleCount == 0 {
		return stats
	}

	var totalTick time.Duration
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		totalTick += s.TickDuration
		for phase, d := range s.Phases {
			stats.Phases[phase] += d
		}
	}

	n := time.Duration(p.sampleCount)
	stats.AvgTick = totalTick / n
	for phase := range stats.Phases {
		stats.Phases[phase] /= n
	}
	return stats
}

// PerfStatsCSV is the flattened CSV form of PerfStats.
type PerfStatsCSV struct {
	WindowEnd      int     `csv:"window_end"`
	AvgTickMs      float64 `csv:"avg_tick_ms"`
	EatingMs       float64 `csv:"eating_ms"`
	CombatMs       float64 `csv:"combat_ms"`
	UpdateMs       float64 `csv:"update_ms"`
	ReproductionMs float64 `csv:"reproduction_ms"`
	CleanupMs      float64 `csv:"cleanup_ms"`
	FoodGrowthMs   float64 `csv:"food_growth_ms"`
	PixelSyncMs    float64 `csv:"pixel_sync_ms"`
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// ToCSV flattens the stats for gocsv.
func (s PerfStats) ToCSV(windowEnd int) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:      windowEnd,
		AvgTickMs:      ms(s.AvgTick),
		EatingMs:       ms(s.Phases[PhaseEating]),
		CombatMs:       ms(s.Phases[PhaseCombat]),
		UpdateMs:       ms(s.Phases[PhaseUpdate]),
		ReproductionMs: ms(s.Phases[PhaseReproduction]),
		CleanupMs:      ms(s.Phases[PhaseCleanup]),
		FoodGrowthMs:   ms(s.Phases[PhaseFoodGrowth]),
		PixelSyncMs:    ms(s.Phases[PhasePixelSync]),
	}
}
