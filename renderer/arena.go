// Package renderer draws the arena with raylib.
package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/aviary/camera"
	"github.com/pthm-cable/aviary/components"
	"github.com/pthm-cable/aviary/systems"
	"github.com/pthm-cable/aviary/world"
)

// Sizes in arena units.
const (
	birdRadius float32 = 0.008
	foodRadius float32 = 0.004
)

var (
	backgroundColor = rl.Color{R: 12, G: 16, B: 24, A: 255}
	borderColor     = rl.Color{R: 60, G: 70, B: 80, A: 255}
	birdColor       = rl.Color{R: 230, G: 230, B: 230, A: 255}
	selectedColor   = rl.Color{R: 255, G: 200, B: 60, A: 255}
	foodColor       = rl.Color{R: 80, G: 200, B: 110, A: 255}
	coneColor       = rl.Color{R: 255, G: 200, B: 60, A: 40}
)

// ArenaRenderer draws birds, food and eye cones through a camera.
type ArenaRenderer struct {
	cam *camera.Camera
}

// NewArenaRenderer creates a renderer that draws through cam.
func NewArenaRenderer(cam *camera.Camera) *ArenaRenderer {
	return &ArenaRenderer{cam: cam}
}

// DrawBackground clears the screen and outlines the arena seam.
func (r *ArenaRenderer) DrawBackground() {
	rl.ClearBackground(backgroundColor)
	x, y := r.cam.WorldToScreen(0, 0)
	size := r.cam.Length(1)
	// The seam may wrap; outline each copy of the origin corner that is on screen.
	for _, dx := range []float32{-size, 0, size} {
		for _, dy := range []float32{-size, 0, size} {
			rl.DrawRectangleLines(int32(x+dx), int32(y+dy), int32(size), int32(size), borderColor)
		}
	}
}

// DrawFood draws every food item.
func (r *ArenaRenderer) DrawFood(foods []components.Position) {
	radius := r.cam.Length(foodRadius)
	for _, f := range foods {
		if !r.cam.IsVisible(f.X, f.Y, foodRadius) {
			continue
		}
		sx, sy := r.cam.WorldToScreen(f.X, f.Y)
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, radius, foodColor)
		for _, g := range r.cam.Ghosts(f.X, f.Y, foodRadius) {
			rl.DrawCircleV(rl.Vector2{X: g.X, Y: g.Y}, radius, foodColor)
		}
	}
}

// DrawBirds draws every bird as a triangle pointing along its heading.
// The bird with ID selected is highlighted; pass a negative value for none.
func (r *ArenaRenderer) DrawBirds(birds []world.BirdView, selected int64) {
	radius := r.cam.Length(birdRadius)
	for _, b := range birds {
		if !r.cam.IsVisible(b.Position.X, b.Position.Y, birdRadius) {
			continue
		}
		color := birdColor
		if int64(b.ID) == selected {
			color = selectedColor
		}
		sx, sy := r.cam.WorldToScreen(b.Position.X, b.Position.Y)
		drawOrientedTriangle(sx, sy, b.Heading, radius, color)
		for _, g := range r.cam.Ghosts(b.Position.X, b.Position.Y, birdRadius) {
			drawOrientedTriangle(g.X, g.Y, b.Heading, radius, color)
		}
	}
}

// DrawEye draws a bird's field of view split into its cells, shading each
// cell by the activation in vision.
func (r *ArenaRenderer) DrawEye(b world.BirdView, vision []float32) {
	sx, sy := r.cam.WorldToScreen(b.Position.X, b.Position.Y)
	center := rl.Vector2{X: sx, Y: sy}
	radius := r.cam.Length(b.Eye.FOVRange())

	// Cells of eyes wider than a full turn overlap, as they do when binning.
	for i := 0; i < b.Eye.Cells(); i++ {
		lo, hi := systems.CellBounds(b.Eye, i)
		from := float64(b.Heading) + float64(lo)
		to := float64(b.Heading) + float64(hi)
		color := coneColor
		if i < len(vision) {
			color.A = cellAlpha(vision[i])
		}
		rl.DrawCircleSector(center, radius, float32(from*rad2deg), float32(to*rad2deg), 8, color)
		rl.DrawCircleSectorLines(center, radius, float32(from*rad2deg), float32(to*rad2deg), 8, borderColor)
	}
}

const rad2deg = 180 / math.Pi

// cellAlpha maps a cell activation to a fill alpha.
func cellAlpha(v float32) uint8 {
	a := 30 + v*120
	if a > 200 {
		a = 200
	}
	return uint8(a)
}

// drawOrientedTriangle draws a triangle pointing in the heading direction.
func drawOrientedTriangle(x, y, heading, radius float32, color rl.Color) {
	sin, cos := math.Sincos(float64(heading))

	// Front point
	frontX := x + float32(cos)*radius*1.5
	frontY := y + float32(sin)*radius*1.5

	// Back corners
	bls, blc := math.Sincos(float64(heading) + math.Pi*0.8)
	brs, brc := math.Sincos(float64(heading) - math.Pi*0.8)

	v1 := rl.Vector2{X: frontX, Y: frontY}
	v2 := rl.Vector2{X: x + float32(blc)*radius, Y: y + float32(bls)*radius}
	v3 := rl.Vector2{X: x + float32(brc)*radius, Y: y + float32(brs)*radius}

	// DrawTriangle requires counter-clockwise winding (v1, v3, v2)
	rl.DrawTriangle(v1, v3, v2, color)
	rl.DrawTriangleLines(v1, v2, v3, rl.White)
}
