package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/aviary/genetic"
	"github.com/pthm-cable/aviary/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Generation       int
	Age              int
	GenerationLength int
	Tick             int32
	Birds            int
	Foods            int
	Satiation        int
	Speed            int
	FPS              int32
	Paused           bool
	Last             *genetic.Statistics // nil before the first generation ends
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(fmt.Sprintf("Generation %d", data.Generation), 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Age: %d/%d | Tick: %d | Speed: %dx | FPS: %d",
			data.Age, data.GenerationLength, data.Tick, data.Speed, data.FPS),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Birds: %d | Food: %d | Eaten: %d", data.Birds, data.Foods, data.Satiation),
		10, 55, 16, rl.LightGray,
	)

	y := int32(75)
	if data.Last != nil {
		rl.DrawText(
			fmt.Sprintf("Last gen fitness min %.0f  max %.0f  mean %.2f  std %.2f",
				data.Last.Min, data.Last.Max, data.Last.Mean, data.Last.StdDev),
			10, y, 16, rl.LightGray,
		)
		y += 20
	}

	if data.Paused {
		rl.DrawText("PAUSED", 10, y, 16, rl.Yellow)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the per-phase tick timing.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x, y := p.x, p.y

	rl.DrawText("Tick Performance", x, y, 16, rl.White)
	y += 20
	rl.DrawText(fmt.Sprintf("Avg: %s  TPS: %.0f", stats.AvgTickDuration.Round(time.Microsecond), stats.TicksPerSecond), x, y, 14, rl.Yellow)
	y += 16

	for phase := telemetry.Phase(0); phase < telemetry.NumPhases; phase++ {
		pct := stats.PhasePct[phase]
		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}
		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", phase, stats.PhaseAvg[phase].Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
