package systems

import (
	"math/rand"

	"github.com/pthm-cable/aviary/components"
	"github.com/pthm-cable/aviary/config"
	"github.com/pthm-cable/aviary/world"
)

// Rules holds the per-tick physical constants.
type Rules struct {
	SpeedMin  float32
	SpeedMax  float32
	EatRadius float32
}

// DefaultRules returns the standard speed limits and eat radius.
func DefaultRules() Rules {
	return Rules{
		SpeedMin:  0.001,
		SpeedMax:  0.005,
		EatRadius: DefaultEatRadius,
	}
}

// RulesFromConfig reads the rules from a loaded configuration.
func RulesFromConfig(cfg *config.Config) Rules {
	return Rules{
		SpeedMin:  cfg.Derived.SpeedMin32,
		SpeedMax:  cfg.Derived.SpeedMax32,
		EatRadius: cfg.Derived.EatRadius32,
	}
}

// StepStats summarizes one tick.
type StepStats struct {
	Eaten int
}

// Ticker advances a world one tick at a time. It owns scratch buffers so
// steady-state ticks do not allocate. A Ticker is not safe for concurrent use.
type Ticker struct {
	Rules Rules

	collider collider
	foods    []components.Position
	vision   []float32
}

// NewTicker creates a ticker with the given rules.
func NewTicker(rules Rules) *Ticker {
	return &Ticker{Rules: rules}
}

// Step runs one tick: collisions, then brains, then movement.
//
// Every bird's vision is computed from the food positions after collisions
// and before any bird has moved. Each bird's controller sees only its own
// vision vector. Birds without a controller keep their speed and heading.
func (t *Ticker) Step(w *world.World, rng *rand.Rand) StepStats {
	eaten := t.Collide(w, rng)
	t.ApplyBrains(w)
	Move(w)
	return StepStats{Eaten: eaten}
}

// Collide runs the collision phase, reusing the ticker's buffers, and
// returns the number of bird/food contacts credited.
func (t *Ticker) Collide(w *world.World, rng *rand.Rand) int {
	return t.collider.resolve(w, t.Rules.EatRadius, rng)
}

// ApplyBrains feeds each bird's vision to its controller and applies the
// resulting command. Positions are not touched.
func (t *Ticker) ApplyBrains(w *world.World) {
	t.foods = w.FoodPositions(t.foods)
	for i := 0; i < w.NumBirds(); i++ {
		b := w.Bird(i)
		if b.Brain.Controller == nil {
			continue
		}
		t.vision = VisionInto(t.vision, *b.Eye, *b.Pos, b.Rot.Heading, t.foods)
		cmd := b.Brain.Controller.Decide(t.vision)
		Steer(b.Bird, b.Rot, cmd, t.Rules.SpeedMin, t.Rules.SpeedMax)
	}
}

// Move advances every bird along its heading by its speed.
func Move(w *world.World) {
	for i := 0; i < w.NumBirds(); i++ {
		b := w.Bird(i)
		Advance(b.Pos, b.Rot.Heading, b.Bird.Speed)
	}
}

// Step runs one tick with a throwaway Ticker.
func Step(w *world.World, rules Rules, rng *rand.Rand) StepStats {
	return NewTicker(rules).Step(w, rng)
}
