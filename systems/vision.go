package systems

import (
	"math"

	"github.com/pthm-cable/aviary/components"
)

// ProcessVision converts the food around a bird into a sensory vector
// with one entry per eye cell.
//
// Cell i covers the i-th angular slice of the field of view, starting at
// relative bearing -fovAngle/2. Each food in range adds
// (fovRange - dist) / fovRange to the cell it falls in; contributions
// accumulate without an upper bound.
//
// The arena wraps for movement but not for vision: a food just across the
// wrap boundary is seen at its full, unwrapped distance.
func ProcessVision(eye components.Eye, pos components.Position, heading float32, foods []components.Position) []float32 {
	return VisionInto(nil, eye, pos, heading, foods)
}

// CellBounds returns the relative bearings bounding eye cell i. Every cell
// is FOVAngle/Cells wide, so the cells of an eye wider than a full turn
// overlap.
func CellBounds(eye components.Eye, i int) (from, to float32) {
	width := eye.FOVAngle() / float32(eye.Cells())
	from = -eye.FOVAngle()/2 + float32(i)*width
	return from, from + width
}

// VisionInto is ProcessVision writing into dst, which is grown if needed
// and zeroed. Reuse dst across calls to avoid allocations.
func VisionInto(dst []float32, eye components.Eye, pos components.Position, heading float32, foods []components.Position) []float32 {
	cells := eye.Cells()
	if cap(dst) < cells {
		dst = make([]float32, cells)
	} else {
		dst = dst[:cells]
		clear(dst)
	}

	fovRange := float64(eye.FOVRange())
	fovAngle := float64(eye.FOVAngle())
	halfFOV := fovAngle / 2
	h := wrapAngle(float64(heading))

	for _, food := range foods {
		dx := float64(food.X) - float64(pos.X)
		dy := float64(food.Y) - float64(pos.Y)
		dist := math.Hypot(dx, dy)

		if dist >= fovRange {
			continue
		}

		angle := wrapAngle(bearing(dx, dy) - h)
		if angle < -halfFOV || angle > halfFOV {
			continue
		}

		// Shift from [-fov/2, fov/2] to [0, fov]: 0 is the left edge of the
		// field of view, fovAngle the right edge.
		shifted := angle + halfFOV

		cell := int(shifted / fovAngle * float64(cells))
		// shifted == fovAngle lands one past the last cell.
		if cell >= cells {
			cell = cells - 1
		} else if cell < 0 {
			cell = 0
		}

		dst[cell] += float32((fovRange - dist) / fovRange)
	}

	return dst
}
