package components

import (
	"errors"
	"fmt"
	"math"
)

// Default eye parameters.
const (
	// DefaultFOVRange is how far the eye sees, as a fraction of the arena.
	DefaultFOVRange float32 = 0.25
	// DefaultFOVAngle is the total angular width of the eye (225 degrees).
	DefaultFOVAngle float32 = math.Pi + math.Pi/4
	// DefaultCells is the number of photoreceptors. Values between 3 and 11
	// evolve well; above ~20 evolution slows down noticeably.
	DefaultCells = 9
)

// ErrInvalidEye is returned (wrapped) when an eye parameter is not strictly positive.
var ErrInvalidEye = errors.New("invalid eye")

// Eye is a bird's field-of-view sensor configuration.
// The zero value is not usable; construct with NewEye.
type Eye struct {
	fovRange float32
	fovAngle float32
	cells    int
}

// NewEye validates and returns an eye. fovAngle may exceed 2*Pi, which
// means the eye sees all around.
func NewEye(fovRange, fovAngle float32, cells int) (Eye, error) {
	if !(fovRange > 0) {
		return Eye{}, fmt.Errorf("%w: fov range must be > 0, got %v", ErrInvalidEye, fovRange)
	}
	if !(fovAngle > 0) {
		return Eye{}, fmt.Errorf("%w: fov angle must be > 0, got %v", ErrInvalidEye, fovAngle)
	}
	if cells <= 0 {
		return Eye{}, fmt.Errorf("%w: cell count must be > 0, got %d", ErrInvalidEye, cells)
	}
	return Eye{fovRange: fovRange, fovAngle: fovAngle, cells: cells}, nil
}

// MustEye is like NewEye but panics on invalid parameters.
func MustEye(fovRange, fovAngle float32, cells int) Eye {
	eye, err := NewEye(fovRange, fovAngle, cells)
	if err != nil {
		panic(err)
	}
	return eye
}

// DefaultEye returns the eye every bird is born with unless configured otherwise.
func DefaultEye() Eye {
	return MustEye(DefaultFOVRange, DefaultFOVAngle, DefaultCells)
}

// FOVRange returns the maximum sensing distance.
func (e Eye) FOVRange() float32 { return e.fovRange }

// FOVAngle returns the total angular sensing width.
func (e Eye) FOVAngle() float32 { return e.fovAngle }

// Cells returns the number of sensory buckets.
func (e Eye) Cells() int { return e.cells }
