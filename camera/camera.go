// Package camera maps the unit toroidal arena onto the screen.
package camera

import "math"

// Zoom limits.
const (
	MinZoom float32 = 1
	MaxZoom float32 = 8
)

// Camera controls the viewport into the arena.
// Supports pan and zoom with toroidal wrapping.
type Camera struct {
	// Position is the camera center in arena coordinates, in [0, 1).
	X, Y float32

	// Zoom level. At 1 the arena exactly fills the shorter viewport side.
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32
}

// New creates a camera centered on the arena at zoom 1.
func New(viewportW, viewportH float32) *Camera {
	return &Camera{
		X:         0.5,
		Y:         0.5,
		Zoom:      1,
		ViewportW: viewportW,
		ViewportH: viewportH,
	}
}

// Scale returns the number of pixels per arena unit.
func (c *Camera) Scale() float32 {
	return min(c.ViewportW, c.ViewportH) * c.Zoom
}

// WorldToScreen converts arena coordinates to screen coordinates, taking
// the copy of the point nearest the camera center.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	s := c.Scale()
	sx = c.ViewportW/2 + toroidalDelta(wx, c.X)*s
	sy = c.ViewportH/2 + toroidalDelta(wy, c.Y)*s
	return sx, sy
}

// ScreenToWorld converts screen coordinates to arena coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	s := c.Scale()
	wx = wrap(c.X + (sx-c.ViewportW/2)/s)
	wy = wrap(c.Y + (sy-c.ViewportH/2)/s)
	return wx, wy
}

// Length converts an arena distance to pixels.
func (c *Camera) Length(d float32) float32 {
	return d * c.Scale()
}

// IsVisible returns true if a circle at (wx, wy) with the given arena
// radius could be on screen.
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	s := c.Scale()
	halfW := c.ViewportW/(2*s) + radius
	halfH := c.ViewportH/(2*s) + radius
	return absf(toroidalDelta(wx, c.X)) <= halfW && absf(toroidalDelta(wy, c.Y)) <= halfH
}

// Point is a screen position.
type Point struct{ X, Y float32 }

// Ghosts returns the extra screen positions at which a circle near the
// wrap seam must also be drawn so that it shows on both sides.
// The primary position from WorldToScreen is not included.
func (c *Camera) Ghosts(wx, wy, radius float32) []Point {
	s := c.Scale()
	dx := toroidalDelta(wx, c.X)
	dy := toroidalDelta(wy, c.Y)

	var shiftX, shiftY float32
	if dx > 0.5-radius {
		shiftX = -1
	} else if dx < -0.5+radius {
		shiftX = 1
	}
	if dy > 0.5-radius {
		shiftY = -1
	} else if dy < -0.5+radius {
		shiftY = 1
	}

	sx := c.ViewportW/2 + dx*s
	sy := c.ViewportH/2 + dy*s
	gx := c.ViewportW/2 + (dx+shiftX)*s
	gy := c.ViewportH/2 + (dy+shiftY)*s

	var ghosts []Point
	if shiftX != 0 {
		ghosts = append(ghosts, Point{gx, sy})
	}
	if shiftY != 0 {
		ghosts = append(ghosts, Point{sx, gy})
	}
	if shiftX != 0 && shiftY != 0 {
		ghosts = append(ghosts, Point{gx, gy})
	}
	return ghosts
}

// Resize updates the viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Pan moves the camera by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float32) {
	s := c.Scale()
	c.X = wrap(c.X + dx/s)
	c.Y = wrap(c.Y + dy/s)
}

// SetZoom sets the zoom level, clamped to [MinZoom, MaxZoom].
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, MinZoom, MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the arena center at zoom 1.
func (c *Camera) Reset() {
	c.X, c.Y, c.Zoom = 0.5, 0.5, 1
}

// toroidalDelta computes the shortest signed offset from 'from' to 'to'
// on the unit torus.
func toroidalDelta(to, from float32) float32 {
	d := to - from
	if d > 0.5 {
		d--
	} else if d < -0.5 {
		d++
	}
	return d
}

// wrap maps x into [0, 1).
func wrap(x float32) float32 {
	r := float32(math.Mod(float64(x), 1))
	if r < 0 {
		r++
	}
	if r >= 1 {
		return 0
	}
	return r
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
