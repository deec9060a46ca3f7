package systems

import "math"

const twoPi = 2 * math.Pi

// Angle normalization functions

// wrapAngle wraps an angle into (-Pi, Pi]. Works for any finite input,
// not just angles a single turn away from the range.
func wrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, twoPi)
	if a <= 0 {
		a += twoPi
	}
	return a - math.Pi
}

// NormalizeAngle wraps a float32 angle into (-Pi, Pi].
func NormalizeAngle(a float32) float32 {
	return float32(wrapAngle(float64(a)))
}

// Vector/angle conversions

// bearing returns the angle between the +X axis and (dx, dy).
// A zero-length vector has no direction; it is reported as 0 rather than
// relying on atan2's handling of signed zeros.
func bearing(dx, dy float64) float64 {
	if dx == 0 && dy == 0 {
		return 0
	}
	return math.Atan2(dy, dx)
}

// RelativeBearing returns the direction of (dx, dy) as seen from a body
// facing heading, wrapped into (-Pi, Pi]. Negative is clockwise of the heading.
func RelativeBearing(dx, dy, heading float32) float32 {
	return float32(relativeBearing(float64(dx), float64(dy), float64(heading)))
}

func relativeBearing(dx, dy, heading float64) float64 {
	return wrapAngle(bearing(dx, dy) - wrapAngle(heading))
}

// HeadingVector returns the unit vector pointing along heading.
func HeadingVector(heading float32) (x, y float32) {
	s, c := math.Sincos(float64(heading))
	return float32(c), float32(s)
}

// ToPolar converts a Cartesian offset into (distance, relative bearing)
// for a body facing heading.
func ToPolar(dx, dy, heading float32) (dist, angle float32) {
	return distance(0, 0, dx, dy), RelativeBearing(dx, dy, heading)
}

// FromPolar converts a (distance, relative bearing) pair back into a
// Cartesian offset for a body facing heading.
func FromPolar(dist, angle, heading float32) (dx, dy float32) {
	s, c := math.Sincos(float64(heading) + float64(angle))
	return float32(c * float64(dist)), float32(s * float64(dist))
}

// Toroidal helpers

// WrapUnit wraps v into [0, 1) with a positive modulo. An object leaving
// one edge reappears at the opposite edge with its overshoot preserved.
func WrapUnit(v float32) float32 {
	r := math.Mod(float64(v), 1)
	if r < 0 {
		r++
	}
	w := float32(r)
	// Rounding a value just below 1 to float32 can land exactly on 1.
	if w >= 1 {
		return 0
	}
	return w
}

// Clamp functions

// clampFloat clamps a float32 value between min and max.
func clampFloat(v, minVal, maxVal float32) float32 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// Distance functions

// distance returns the Euclidean distance between two points.
func distance(x1, y1, x2, y2 float32) float32 {
	return float32(math.Hypot(float64(x2)-float64(x1), float64(y2)-float64(y1)))
}
