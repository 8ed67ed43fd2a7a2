package systems

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// WallParams tunes procedural wall generation.
type WallParams struct {
	Scale     float64 // noise frequency in grid units
	Threshold float64 // normalized noise above this becomes wall
}

// GenerateWalls returns a width*height row-major mask of wall tiles carved
// from seeded opensimplex noise. Threshold 1.0 or above yields no walls.
func GenerateWalls(width, height int, params WallParams, seed int64) []bool {
	walls := make([]bool, width*height)
	if params.Threshold >= 1.0 || width <= 0 || height <= 0 {
		return walls
	}
	scale := params.Scale
	if scale <= 0 {
		scale = 0.1
	}

	noise := opensimplex.NewNormalized(seed)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := noise.Eval2(float64(x)*scale, float64(y)*scale)
			if v > params.Threshold {
				walls[y*width+x] = true
			}
		}
	}
	return walls
}
