// Package world stores the birds and food of the arena.
//
// World is a plain container backed by an ECS world. It keeps entities in
// insertion order so that the tick visits them deterministically; it does
// no simulation of its own.
package world

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/aviary/components"
)

// BirdSpec describes a bird to add to the world.
type BirdSpec struct {
	X, Y       float32
	Heading    float32
	Speed      float32
	Eye        components.Eye
	Controller components.Controller
}

// BirdRef gives mutable access to one bird's components.
// Pointers are valid until the next structural change (AddBird, AddFood,
// ReplaceBirds).
type BirdRef struct {
	Pos   *components.Position
	Rot   *components.Rotation
	Bird  *components.Bird
	Eye   *components.Eye
	Brain *components.Brain
}

// BirdView is a read-only copy of one bird's state.
type BirdView struct {
	ID         uint32
	Position   components.Position
	Heading    float32
	Speed      float32
	Satiation  int
	Eye        components.Eye
	Controller components.Controller
}

// World owns every bird and food item.
type World struct {
	ecs *ecs.World

	birdMapper *ecs.Map5[
		components.Position,
		components.Rotation,
		components.Bird,
		components.Eye,
		components.Brain,
	]
	birdFilter *ecs.Filter5[
		components.Position,
		components.Rotation,
		components.Bird,
		components.Eye,
		components.Brain,
	]
	foodMapper *ecs.Map2[components.Position, components.Food]
	foodFilter *ecs.Filter2[components.Position, components.Food]
	posMap     *ecs.Map1[components.Position]

	// Entities in insertion order.
	birds []ecs.Entity
	foods []ecs.Entity

	nextID uint32
}

// New creates an empty world.
func New() *World {
	w := ecs.NewWorld()
	return &World{
		ecs: w,
		birdMapper: ecs.NewMap5[
			components.Position,
			components.Rotation,
			components.Bird,
			components.Eye,
			components.Brain,
		](w),
		birdFilter: ecs.NewFilter5[
			components.Position,
			components.Rotation,
			components.Bird,
			components.Eye,
			components.Brain,
		](w),
		foodMapper: ecs.NewMap2[components.Position, components.Food](w),
		foodFilter: ecs.NewFilter2[components.Position, components.Food](w),
		posMap:     ecs.NewMap1[components.Position](w),
	}
}

// AddBird adds a bird and returns its ID. IDs are never reused.
func (w *World) AddBird(spec BirdSpec) uint32 {
	id := w.nextID
	w.nextID++

	pos := components.Position{X: spec.X, Y: spec.Y}
	rot := components.Rotation{Heading: spec.Heading}
	bird := components.Bird{ID: id, Speed: spec.Speed}
	eye := spec.Eye
	brain := components.Brain{Controller: spec.Controller}

	e := w.birdMapper.NewEntity(&pos, &rot, &bird, &eye, &brain)
	w.birds = append(w.birds, e)
	return id
}

// AddFood adds a food item at (x, y).
func (w *World) AddFood(x, y float32) {
	pos := components.Position{X: x, Y: y}
	e := w.foodMapper.NewEntity(&pos, &components.Food{})
	w.foods = append(w.foods, e)
}

// NumBirds returns the number of birds.
func (w *World) NumBirds() int { return len(w.birds) }

// NumFoods returns the number of food items.
func (w *World) NumFoods() int { return len(w.foods) }

// Bird returns mutable access to the i-th bird in insertion order.
func (w *World) Bird(i int) BirdRef {
	pos, rot, bird, eye, brain := w.birdMapper.Get(w.birds[i])
	return BirdRef{Pos: pos, Rot: rot, Bird: bird, Eye: eye, Brain: brain}
}

// Food returns the position of the i-th food item in insertion order.
// The returned pointer may be written to relocate the food.
func (w *World) Food(i int) *components.Position {
	return w.posMap.Get(w.foods[i])
}

// Birds returns a snapshot of every bird in insertion order.
func (w *World) Birds() []BirdView {
	views := make([]BirdView, len(w.birds))
	for i := range w.birds {
		b := w.Bird(i)
		views[i] = BirdView{
			ID:         b.Bird.ID,
			Position:   *b.Pos,
			Heading:    b.Rot.Heading,
			Speed:      b.Bird.Speed,
			Satiation:  b.Bird.Satiation,
			Eye:        *b.Eye,
			Controller: b.Brain.Controller,
		}
	}
	return views
}

// Foods returns a snapshot of every food position in insertion order.
func (w *World) Foods() []components.Position {
	return w.FoodPositions(nil)
}

// FoodPositions appends every food position to dst[:0] and returns it.
// Reuse dst across ticks to avoid allocations.
func (w *World) FoodPositions(dst []components.Position) []components.Position {
	dst = dst[:0]
	for _, e := range w.foods {
		dst = append(dst, *w.posMap.Get(e))
	}
	return dst
}

// NearestBird returns the index of the bird closest to (x, y) on the
// torus, if one lies within maxDist.
func (w *World) NearestBird(x, y, maxDist float32) (int, bool) {
	best, bestDist := -1, float64(maxDist)
	for i, e := range w.birds {
		pos := w.posMap.Get(e)
		dx := torusDelta(float64(pos.X) - float64(x))
		dy := torusDelta(float64(pos.Y) - float64(y))
		if d := math.Hypot(dx, dy); d <= bestDist {
			best, bestDist = i, d
		}
	}
	return best, best >= 0
}

// torusDelta folds an offset on the unit torus into [-0.5, 0.5].
func torusDelta(d float64) float64 {
	return d - math.Round(d)
}

// TotalSatiation returns the food eaten by all birds this generation.
func (w *World) TotalSatiation() int {
	total := 0
	query := w.birdFilter.Query()
	for query.Next() {
		_, _, bird, _, _ := query.Get()
		total += bird.Satiation
	}
	return total
}

// ResetSatiation zeroes every bird's satiation. Called at generation boundaries.
func (w *World) ResetSatiation() {
	query := w.birdFilter.Query()
	for query.Next() {
		_, _, bird, _, _ := query.Get()
		bird.Satiation = 0
	}
}

// ScatterFood moves every food item to a fresh uniform random position,
// in insertion order.
func (w *World) ScatterFood(rng *rand.Rand) {
	for _, e := range w.foods {
		pos := w.posMap.Get(e)
		pos.X = rng.Float32()
		pos.Y = rng.Float32()
	}
}

// ReplaceBirds removes every bird and adds the given ones in order.
// Used to install a new generation.
func (w *World) ReplaceBirds(specs []BirdSpec) {
	for _, e := range w.birds {
		w.ecs.RemoveEntity(e)
	}
	w.birds = w.birds[:0]
	for _, spec := range specs {
		w.AddBird(spec)
	}
}

// Population describes how to fill a random world.
type Population struct {
	Birds int
	Foods int
	Speed float32
	Eye   components.Eye

	// NewController builds a bird's controller. It is called before the
	// bird's position and heading are drawn. Nil leaves birds without one.
	NewController func(rng *rand.Rand) components.Controller
}

// RandomBird draws a bird's position and heading from rng.
func RandomBird(rng *rand.Rand, speed float32, eye components.Eye, ctl components.Controller) BirdSpec {
	return BirdSpec{
		X:          rng.Float32(),
		Y:          rng.Float32(),
		Heading:    rng.Float32() * 2 * math.Pi,
		Speed:      speed,
		Eye:        eye,
		Controller: ctl,
	}
}

// Random creates a world with birds and food at uniform random positions.
func Random(rng *rand.Rand, p Population) *World {
	w := New()
	for i := 0; i < p.Birds; i++ {
		var ctl components.Controller
		if p.NewController != nil {
			ctl = p.NewController(rng)
		}
		w.AddBird(RandomBird(rng, p.Speed, p.Eye, ctl))
	}
	for i := 0; i < p.Foods; i++ {
		w.AddFood(rng.Float32(), rng.Float32())
	}
	return w
}
