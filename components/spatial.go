package components

// Position represents an entity's location in the unit arena.
// Both coordinates lie in [0, 1) after every tick.
type Position struct {
	X, Y float32
}

// Rotation represents an entity's heading.
type Rotation struct {
	Heading float32 // radians, unrestricted; normalized before angle math
}
