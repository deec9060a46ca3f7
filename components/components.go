// Package components defines ECS components for the simulation.
package components

// Bird holds per-bird kinematic and lifecycle state.
type Bird struct {
	ID    uint32
	Speed float32 // distance per tick along the heading

	// Satiation counts the food this bird has eaten in the current
	// generation. Only the collision phase increments it; it is reset at
	// generation boundaries.
	Satiation int
}

// Food tags an entity as a food item. Its only state is its Position.
type Food struct{}

// Command is a movement request produced by a controller.
// Both fields are signed deltas applied before displacement.
type Command struct {
	Speed    float32 // added to Bird.Speed (then clamped by the tick rules)
	Rotation float32 // added to Rotation.Heading
}

// Controller maps a bird's vision vector to a movement command.
type Controller interface {
	Decide(vision []float32) Command
}

// ControllerFunc adapts a plain function to the Controller interface.
type ControllerFunc func(vision []float32) Command

// Decide calls f(vision).
func (f ControllerFunc) Decide(vision []float32) Command {
	return f(vision)
}

// Brain holds a bird's opaque controller state.
// A nil Controller means the bird keeps its speed and heading.
type Brain struct {
	Controller Controller
}
