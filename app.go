package main

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/aviary/camera"
	"github.com/pthm-cable/aviary/components"
	"github.com/pthm-cable/aviary/game"
	"github.com/pthm-cable/aviary/genetic"
	"github.com/pthm-cable/aviary/renderer"
	"github.com/pthm-cable/aviary/systems"
	"github.com/pthm-cable/aviary/ui"
)

// pickRadius is how far from a bird, in arena units, a click still selects it.
const pickRadius float32 = 0.02

// app drives the graphical front end around a game.
type app struct {
	game *game.Game

	cam      *camera.Camera
	arena    *renderer.ArenaRenderer
	hud      *ui.HUD
	controls *ui.ControlsPanel
	perf     *ui.PerfPanel
	panel    *ui.BirdPanel

	selected int64 // bird ID, -1 for none
	last     *genetic.Statistics

	foods  []components.Position
	vision []float32
}

func newApp(g *game.Game) *app {
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	cam := camera.New(w, h)
	a := &app{
		game:     g,
		cam:      cam,
		arena:    renderer.NewArenaRenderer(cam),
		hud:      ui.NewHUD(),
		controls: ui.NewControlsPanel(0, 10, 220),
		perf:     ui.NewPerfPanel(0, 130),
		panel:    ui.NewBirdPanel(10, 110, 220),
		selected: -1,
	}
	a.layout(int32(w))
	return a
}

func (a *app) layout(width int32) {
	a.controls.SetPosition(width-230, 10)
	a.perf.SetPosition(width-230, 130)
}

// Update handles input and advances the simulation.
func (a *app) Update() {
	if rl.IsWindowResized() {
		w, h := rl.GetScreenWidth(), rl.GetScreenHeight()
		a.cam.Resize(float32(w), float32(h))
		a.layout(int32(w))
	}

	ui.HandleCameraInput(a.cam)
	a.apply(ui.HandleKeys(a.game.StepsPerUpdate(), game.MaxStepsPerUpdate))

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		m := rl.GetMousePosition()
		if !a.overPanels(m) {
			a.pick(m)
		}
	}

	a.game.Update()
	if h := a.game.History(); len(h) > 0 {
		a.last = &h[len(h)-1]
	}
}

func (a *app) apply(act ui.Actions) {
	if act.TogglePause {
		a.game.TogglePause()
	}
	if act.SetSpeed != 0 {
		a.game.SetStepsPerUpdate(act.SetSpeed)
	}
	if act.Train {
		a.game.Train()
	}
}

func (a *app) overPanels(m rl.Vector2) bool {
	return m.X >= float32(rl.GetScreenWidth()-240)
}

func (a *app) pick(m rl.Vector2) {
	wx, wy := a.cam.ScreenToWorld(m.X, m.Y)
	w := a.game.World()
	i, ok := w.NearestBird(wx, wy, pickRadius/a.cam.Zoom)
	if !ok {
		a.selected = -1
		return
	}
	a.selected = int64(w.Bird(i).Bird.ID)
}

// Draw renders one frame.
func (a *app) Draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()

	w := a.game.World()
	birds := w.Birds()
	a.foods = w.FoodPositions(a.foods)

	a.arena.DrawBackground()

	sel := -1
	for i, b := range birds {
		if int64(b.ID) == a.selected {
			sel = i
			break
		}
	}
	if sel < 0 {
		a.selected = -1 // the bird did not survive into this generation
	} else {
		b := birds[sel]
		a.vision = systems.VisionInto(a.vision, b.Eye, b.Position, b.Heading, a.foods)
		a.arena.DrawEye(b, a.vision)
	}

	a.arena.DrawFood(a.foods)
	a.arena.DrawBirds(birds, a.selected)

	a.hud.Draw(ui.HUDData{
		Generation:       a.game.Generation(),
		Age:              a.game.Age(),
		GenerationLength: a.game.Config().Evolution.GenerationLength,
		Tick:             a.game.Tick(),
		Birds:            w.NumBirds(),
		Foods:            w.NumFoods(),
		Satiation:        w.TotalSatiation(),
		Speed:            a.game.StepsPerUpdate(),
		FPS:              rl.GetFPS(),
		Paused:           a.game.Paused(),
		Last:             a.last,
	})
	a.hud.DrawControls(int32(rl.GetScreenHeight()), ui.ControlsHelp)

	if sel >= 0 {
		a.panel.Draw(birds[sel], a.vision)
	}

	a.apply(a.controls.Draw(a.game.Paused(), a.game.StepsPerUpdate(), game.MaxStepsPerUpdate))
	a.perf.Draw(a.game.PerfStats())
}
