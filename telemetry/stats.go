package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// PopulationSample is a point-in-time sample of the living population,
// gathered by the world at window boundaries.
type PopulationSample struct {
	Organisms    int
	FoodTiles    int
	BodySizes    []float64
	Mutabilities []float64
}

// WindowStats holds aggregated statistics for one tick window.
type WindowStats struct {
	WindowEndTick int `csv:"window_end"`

	// Population state at window end
	Organisms int `csv:"organisms"`
	FoodTiles int `csv:"food_tiles"`

	// Events during window
	Births      int `csv:"births"`
	Deaths      int `csv:"deaths"`
	DeathsAge   int `csv:"deaths_age"`
	Kills       int `csv:"kills"`
	FoodEaten   int `csv:"food_eaten"`
	FoodSpawned int `csv:"food_spawned"`
	ReproFailed int `csv:"repro_failed"`

	// Body size distribution (cells per organism)
	BodyMean float64 `csv:"body_mean"`
	BodyStd  float64 `csv:"body_std"`
	BodyP10  float64 `csv:"body_p10"`
	BodyP50  float64 `csv:"body_p50"`
	BodyP90  float64 `csv:"body_p90"`

	// Mutability distribution
	MutabilityMean float64 `csv:"mutability_mean"`
}

// fillDistributions computes the distribution fields from a sample.
func (s *WindowStats) fillDistributions(sample PopulationSample) {
	s.BodyMean, s.BodyStd, s.BodyP10, s.BodyP50, s.BodyP90 = Distribution(sample.BodySizes)
	if len(sample.Mutabilities) > 0 {
		s.MutabilityMean = stat.Mean(sample.Mutabilities, nil)
	}
}

// Distribution returns mean, stddev, and the 10/50/90 percentiles of the
// values. All zeros for an empty slice; stddev is zero for a single value.
func Distribution(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)
	if n > 1 {
		std = stat.StdDev(values, nil)
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	return mean, std, p10, p50, p90
}

// Log emits the window stats as a structured slog event.
func (s WindowStats) Log() {
	slog.Info("window stats",
		"window_end", s.WindowEndTick,
		"organisms", s.Organisms,
		"food_tiles", s.FoodTiles,
		"births", s.Births,
		"deaths", s.Deaths,
		"deaths_age", s.DeathsAge,
		"kills", s.Kills,
		"food_eaten", s.FoodEaten,
		"food_spawned", s.FoodSpawned,
		"repro_failed", s.ReproFailed,
		"body_mean", s.BodyMean,
		"mutability_mean", s.MutabilityMean,
	)
}
