// Package renderer draws the grid and the control panel in graphical mode.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lifegrid/world"
)

// Renderer draws the simulation grid as scaled tiles.
type Renderer struct {
	pixelSize int32
	panelW    int32
}

// New creates a renderer drawing each grid tile as a pixelSize square, with
// a panelW-wide control panel on the right.
func New(pixelSize, panelW int) *Renderer {
	if pixelSize < 1 {
		pixelSize = 1
	}
	return &Renderer{pixelSize: int32(pixelSize), panelW: int32(panelW)}
}

// PixelSize returns the screen pixels per grid tile.
func (r *Renderer) PixelSize() int32 { return r.pixelSize }

// DrawGrid renders the world's color buffer.
func (r *Renderer) DrawGrid(w *world.World) {
	ps := r.pixelSize
	for y := 0; y < w.Height(); y++ {
		for x := 0; x < w.Width(); x++ {
			rl.DrawRectangle(int32(x)*ps, int32(y)*ps, ps, ps, unpack(w.GetPixel(x, y)))
		}
	}
}

// TileAt maps a screen position to a grid coordinate. The second return is
// false outside the grid area.
func (r *Renderer) TileAt(w *world.World, screenX, screenY int32) (int, int, bool) {
	x := int(screenX / r.pixelSize)
	y := int(screenY / r.pixelSize)
	if !w.InBounds(x, y) {
		return 0, 0, false
	}
	return x, y, true
}

// unpack converts a packed 0xRRGGBB color to raylib's color type.
func unpack(c uint32) rl.Color {
	return rl.Color{
		R: uint8((c >> 16) & 0xFF),
		G: uint8((c >> 8) & 0xFF),
		B: uint8(c & 0xFF),
		A: 255,
	}
}
