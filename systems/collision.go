package systems

import (
	"math/rand"

	"github.com/pthm-cable/aviary/components"
	"github.com/pthm-cable/aviary/world"
)

// DefaultEatRadius is the distance at which a bird eats a food item.
const DefaultEatRadius float32 = 0.01

// collider holds the scratch buffers for the collision phase.
type collider struct {
	snapshot []components.Position
	moved    []bool
}

// resolve lets every bird eat every food item within eatRadius. Eaten food
// is moved to a new uniform random position drawn from rng and the bird's
// satiation goes up by one. Collision ignores heading and the eye.
//
// Birds are tested against the food positions as they were when
// the phase started. Every bird in range of a food is credited, and that
// food is respawned once, on its first claim. Birds and foods are visited
// in insertion order, so respawn draws are deterministic. Returns the
// number of bird/food contacts credited.
func (c *collider) resolve(w *world.World, eatRadius float32, rng *rand.Rand) int {
	c.snapshot = w.FoodPositions(c.snapshot)
	if cap(c.moved) < len(c.snapshot) {
		c.moved = make([]bool, len(c.snapshot))
	}
	c.moved = c.moved[:len(c.snapshot)]
	clear(c.moved)

	eaten := 0
	for i := 0; i < w.NumBirds(); i++ {
		b := w.Bird(i)
		for j, food := range c.snapshot {
			if distance(b.Pos.X, b.Pos.Y, food.X, food.Y) > eatRadius {
				continue
			}
			if !c.moved[j] {
				respawn(w.Food(j), rng)
				c.moved[j] = true
			}
			b.Bird.Satiation++
			eaten++
		}
	}
	return eaten
}

// respawn teleports a food item. Food is never destroyed.
func respawn(food *components.Position, rng *rand.Rand) {
	food.X = rng.Float32()
	food.Y = rng.Float32()
}
