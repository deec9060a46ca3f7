package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/aviary/camera"
)

// ControlsHelp is the key legend shown at the bottom of the screen.
const ControlsHelp = "Space: pause | T: train generation | ,/.: speed | Arrows/wheel: camera | Home: reset view | Click: inspect"

// Actions are the user requests gathered during one frame.
type Actions struct {
	TogglePause bool
	Train       bool
	SetSpeed    int // 0 = unchanged
}

// ControlsPanel renders the raygui button panel.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// Draw renders the panel and returns the buttons pressed this frame.
// speed is the current steps-per-update, maxSpeed its upper bound.
func (c *ControlsPanel) Draw(paused bool, speed, maxSpeed int) Actions {
	var a Actions
	r := c.renderer
	pad := r.Theme.Padding
	height := int32(110)

	r.DrawPanel(c.x, c.y, c.width, height)
	y := r.DrawSectionHeader(c.x+pad, c.y+pad, "Simulation")

	bx := float32(c.x + pad)
	by := float32(y + 4)
	bw := float32(c.width-3*pad) / 2

	pauseLabel := "Pause"
	if paused {
		pauseLabel = "Resume"
	}
	if gui.Button(rl.Rectangle{X: bx, Y: by, Width: bw, Height: 24}, pauseLabel) {
		a.TogglePause = true
	}
	if gui.Button(rl.Rectangle{X: bx + bw + float32(pad), Y: by, Width: bw, Height: 24}, "Train") {
		a.Train = true
	}

	by += 34
	rl.DrawText("Speed", c.x+pad, int32(by)+4, r.Theme.FontSize, r.Theme.LabelColor)
	newSpeed := gui.SliderBar(
		rl.Rectangle{X: bx + 45, Y: by, Width: float32(c.width-2*pad) - 85, Height: 20},
		"", "",
		float32(speed), 1, float32(maxSpeed),
	)
	rl.DrawText(fmt.Sprintf("%dx", speed), c.x+c.width-pad-30, int32(by)+4, r.Theme.FontSize, r.Theme.ValueColor)
	if int(newSpeed) != speed {
		a.SetSpeed = int(newSpeed)
	}

	return a
}

// HandleKeys reads keyboard shortcuts for the simulation.
func HandleKeys(speed, maxSpeed int) Actions {
	var a Actions
	if rl.IsKeyPressed(rl.KeySpace) {
		a.TogglePause = true
	}
	if rl.IsKeyPressed(rl.KeyT) {
		a.Train = true
	}
	if rl.IsKeyPressed(rl.KeyComma) && speed > 1 {
		a.SetSpeed = speed - 1
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && speed < maxSpeed {
		a.SetSpeed = speed + 1
	}
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	return a
}

// HandleCameraInput processes camera pan and zoom controls.
func HandleCameraInput(cam *camera.Camera) {
	// Pan speed in pixels per frame
	const panSpeed = float32(8)

	if rl.IsKeyDown(rl.KeyRight) {
		cam.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		cam.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		cam.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		cam.Pan(0, -panSpeed)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		cam.ZoomBy(1 + wheel*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		cam.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		cam.ZoomBy(0.8)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		cam.Reset()
	}
}
