// Package telemetry gathers per-window simulation statistics, writes CSV
// logs, and serializes full-state snapshots for replay.
package telemetry

// Collector accumulates events within tick windows and produces WindowStats.
type Collector struct {
	windowTicks     int
	windowStartTick int

	births      int
	deaths      int
	deathsAge   int
	kills       int
	foodEaten   int
	foodSpawned int
	reproFailed int
}

// NewCollector creates a collector emitting one WindowStats per windowTicks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: windowTicks}
}

// RecordBirth records a successful reproduction.
func (c *Collector) RecordBirth() { c.births++ }

// RecordDeath records an organism removal at cleanup, any cause.
func (c *Collector) RecordDeath() { c.deaths++ }

// RecordDeathAge records an old-age death.
func (c *Collector) RecordDeathAge() { c.deathsAge++ }

// RecordKill records a combat death.
func (c *Collector) RecordKill() { c.kills++ }

// RecordFoodEaten records food tiles consumed by mouths.
func (c *Collector) RecordFoodEaten(n int) { c.foodEaten += n }

// RecordFoodSpawned records food tiles grown this tick.
func (c *Collector) RecordFoodSpawned(n int) { c.foodSpawned += n }

// RecordReproFailed records a reproduction attempt with no viable placement.
func (c *Collector) RecordReproFailed() { c.reproFailed++ }

// ShouldEmit reports whether the window ending at tick is complete.
func (c *Collector) ShouldEmit(tick int) bool {
	return tick-c.windowStartTick >= c.windowTicks
}

// EndWindow folds the window's counters and the population sample into a
// WindowStats record and starts the next window.
func (c *Collector) EndWindow(tick int, sample PopulationSample) WindowStats {
	stats := WindowStats{
		WindowEndTick: tick,
		Organisms:     sample.Organisms,
		FoodTiles:     sample.FoodTiles,
		Births:        c.births,
		Deaths:        c.deaths,
		DeathsAge:     c.deathsAge,
		Kills:         c.kills,
		FoodEaten:     c.foodEaten,
		FoodSpawned:   c.foodSpawned,
		ReproFailed:   c.reproFailed,
	}
	stats.fillDistributions(sample)

	c.windowStartTick = tick
	c.births = 0
	c.deaths = 0
	c.deathsAge = 0
	c.kills = 0
	c.foodEaten = 0
	c.foodSpawned = 0
	c.reproFailed = 0

	return stats
}
