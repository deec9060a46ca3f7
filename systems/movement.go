package systems

import (
	"math"

	"github.com/pthm-cable/aviary/components"
)

// Steer applies a controller command to a bird: the speed delta is added
// and clamped to [speedMin, speedMax], the heading delta is added and the
// result wrapped into (-Pi, Pi].
func Steer(bird *components.Bird, rot *components.Rotation, cmd components.Command, speedMin, speedMax float32) {
	bird.Speed = clampFloat(bird.Speed+cmd.Speed, speedMin, speedMax)
	rot.Heading = NormalizeAngle(rot.Heading + cmd.Rotation)
}

// Advance moves pos by speed along heading and wraps both coordinates
// into [0, 1).
func Advance(pos *components.Position, heading, speed float32) {
	s, c := math.Sincos(float64(heading))
	pos.X = WrapUnit(pos.X + float32(c*float64(speed)))
	pos.Y = WrapUnit(pos.Y + float32(s*float64(speed)))
}
