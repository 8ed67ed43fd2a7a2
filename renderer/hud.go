package renderer

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lifegrid/telemetry"
	"github.com/pthm-cable/lifegrid/world"
)

// PanelState carries the driver-side values the control panel edits.
type PanelState struct {
	Paused bool
	Speed  int // simulation steps per frame, 1-10
}

// DrawPanel renders the control panel and applies any edits to the world
// and driver state.
func (r *Renderer) DrawPanel(w *world.World, state *PanelState, perf *telemetry.PerfCollector) {
	panelX := float32(w.Width()) * float32(r.pixelSize)
	panelY := float32(10)
	panelW := float32(r.panelW)

	rl.DrawRectangle(int32(panelX), 0, r.panelW, int32(w.Height())*r.pixelSize, rl.Color{R: 24, G: 28, B: 34, A: 255})
	px := panelX + 10
	sliderW := panelW - 60

	rl.DrawText("lifegrid", int32(px), int32(panelY), 20, rl.White)
	panelY += 30

	rl.DrawText(fmt.Sprintf("Tick: %d  Organisms: %d", w.Tick(), w.OrganismCount()), int32(px), int32(panelY), 14, rl.LightGray)
	panelY += 20
	if perf != nil {
		stats := perf.Stats()
		rl.DrawText(fmt.Sprintf("FPS: %d  Tick: %.2fms", rl.GetFPS(), float64(stats.AvgTick.Microseconds())/1000.0), int32(px), int32(panelY), 14, rl.LightGray)
	} else {
		rl.DrawText(fmt.Sprintf("FPS: %d", rl.GetFPS()), int32(px), int32(panelY), 14, rl.LightGray)
	}
	panelY += 28

	settings := w.Settings()

	rl.DrawText("Food production", int32(px), int32(panelY), 14, rl.Gray)
	panelY += 18
	newFood := gui.SliderBar(
		rl.Rectangle{X: px, Y: panelY, Width: sliderW, Height: 20},
		"0", "0.05",
		float32(settings.FoodProductionProb), 0, 0.05,
	)
	rl.DrawText(fmt.Sprintf("%.3f", settings.FoodProductionProb), int32(px+sliderW+6), int32(panelY+2), 14, rl.LightGray)
	if float64(newFood) != settings.FoodProductionProb {
		w.SetFoodProductionProb(float64(newFood))
	}
	panelY += 30

	rl.DrawText("Lifespan multiplier", int32(px), int32(panelY), 14, rl.Gray)
	panelY += 18
	newLifespan := gui.SliderBar(
		rl.Rectangle{X: px, Y: panelY, Width: sliderW, Height: 20},
		"1", "300",
		float32(settings.LifespanMultiplier), 1, 300,
	)
	rl.DrawText(fmt.Sprintf("%d", settings.LifespanMultiplier), int32(px+sliderW+6), int32(panelY+2), 14, rl.LightGray)
	if int(newLifespan) != settings.LifespanMultiplier {
		w.SetLifespanMultiplier(int(newLifespan))
	}
	panelY += 30

	rl.DrawText("Speed", int32(px), int32(panelY), 14, rl.Gray)
	panelY += 18
	newSpeed := gui.SliderBar(
		rl.Rectangle{X: px, Y: panelY, Width: sliderW, Height: 20},
		"1", "10",
		float32(state.Speed), 1, 10,
	)
	rl.DrawText(fmt.Sprintf("%dx", state.Speed), int32(px+sliderW+6), int32(panelY+2), 14, rl.LightGray)
	if int(newSpeed) != state.Speed && int(newSpeed) >= 1 {
		state.Speed = int(newSpeed)
	}
	panelY += 34

	if gui.Button(rl.Rectangle{X: px, Y: panelY, Width: 90, Height: 26}, toggleText(state.Paused, "Resume", "Pause")) {
		state.Paused = !state.Paused
	}
	if gui.Button(rl.Rectangle{X: px + 100, Y: panelY, Width: 90, Height: 26}, "Reset") {
		w.Reset(false)
	}
	panelY += 32

	if gui.Button(rl.Rectangle{X: px, Y: panelY, Width: 90, Height: 26}, "Seed life") {
		w.OriginOfLife()
	}
	if gui.Button(rl.Rectangle{X: px + 100, Y: panelY, Width: 90, Height: 26}, toggleText(settings.InstaKill, "Kill: insta", "Kill: harm")) {
		w.SetInstaKill(!settings.InstaKill)
	}
	panelY += 40

	rl.DrawText("LMB wall  RMB organism", int32(px), int32(panelY), 12, rl.Gray)
	panelY += 16
	rl.DrawText("MMB food  Space pause", int32(px), int32(panelY), 12, rl.Gray)
}

func toggleText(cond bool, whenTrue, whenFalse string) string {
	if cond {
		return whenTrue
	}
	return whenFalse
}
