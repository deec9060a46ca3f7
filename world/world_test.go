package world

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/aviary/components"
)

func TestAddBirdAndFood(t *testing.T) {
	w := New()
	eye := components.MustEye(0.3, 2, 5)

	id0 := w.AddBird(BirdSpec{X: 0.1, Y: 0.2, Heading: 1, Speed: 0.002, Eye: eye})
	id1 := w.AddBird(BirdSpec{X: 0.3, Y: 0.4, Heading: -1, Speed: 0.003, Eye: eye})
	w.AddFood(0.5, 0.6)

	assert.Equal(t, uint32(0), id0)
	assert.Equal(t, uint32(1), id1)
	require.Equal(t, 2, w.NumBirds())
	require.Equal(t, 1, w.NumFoods())

	birds := w.Birds()
	assert.Equal(t, components.Position{X: 0.1, Y: 0.2}, birds[0].Position)
	assert.Equal(t, float32(-1), birds[1].Heading)
	assert.Equal(t, float32(0.003), birds[1].Speed)
	assert.Equal(t, 5, birds[1].Eye.Cells())
	assert.Zero(t, birds[0].Satiation)

	assert.Equal(t, []components.Position{{X: 0.5, Y: 0.6}}, w.Foods())
}

func TestBirdRefMutates(t *testing.T) {
	w := New()
	w.AddBird(BirdSpec{X: 0.1, Y: 0.1, Eye: components.DefaultEye()})

	ref := w.Bird(0)
	ref.Pos.X = 0.9
	ref.Bird.Satiation = 4

	view := w.Birds()[0]
	assert.Equal(t, float32(0.9), view.Position.X)
	assert.Equal(t, 4, view.Satiation)
	assert.Equal(t, 4, w.TotalSatiation())
}

func TestFoodPointerRelocates(t *testing.T) {
	w := New()
	w.AddFood(0.1, 0.1)
	w.AddFood(0.2, 0.2)

	f := w.Food(1)
	f.X, f.Y = 0.7, 0.8

	assert.Equal(t, []components.Position{{X: 0.1, Y: 0.1}, {X: 0.7, Y: 0.8}}, w.Foods())
}

func TestFoodPositionsReusesBuffer(t *testing.T) {
	w := New()
	w.AddFood(0.1, 0.1)

	buf := make([]components.Position, 0, 4)
	out := w.FoodPositions(buf)
	require.Len(t, out, 1)
	assert.Same(t, &buf[:1][0], &out[0])
}

func TestResetSatiation(t *testing.T) {
	w := New()
	for i := 0; i < 3; i++ {
		w.AddBird(BirdSpec{Eye: components.DefaultEye()})
		w.Bird(i).Bird.Satiation = i + 1
	}
	require.Equal(t, 6, w.TotalSatiation())

	w.ResetSatiation()
	assert.Zero(t, w.TotalSatiation())
	for _, b := range w.Birds() {
		assert.Zero(t, b.Satiation)
	}
}

func TestScatterFoodDeterministic(t *testing.T) {
	a, b := New(), New()
	for i := 0; i < 5; i++ {
		a.AddFood(0, 0)
		b.AddFood(0, 0)
	}

	a.ScatterFood(rand.New(rand.NewSource(11)))
	b.ScatterFood(rand.New(rand.NewSource(11)))

	assert.Equal(t, a.Foods(), b.Foods())
	assert.NotEqual(t, components.Position{}, a.Foods()[0])
}

func TestReplaceBirds(t *testing.T) {
	w := New()
	w.AddBird(BirdSpec{X: 0.1, Eye: components.DefaultEye()})
	w.AddBird(BirdSpec{X: 0.2, Eye: components.DefaultEye()})
	w.AddFood(0.5, 0.5)

	w.ReplaceBirds([]BirdSpec{
		{X: 0.7, Eye: components.DefaultEye()},
		{X: 0.8, Eye: components.DefaultEye()},
		{X: 0.9, Eye: components.DefaultEye()},
	})

	birds := w.Birds()
	require.Len(t, birds, 3)
	assert.Equal(t, float32(0.7), birds[0].Position.X)
	assert.Equal(t, float32(0.9), birds[2].Position.X)
	// IDs keep counting up.
	assert.Equal(t, uint32(2), birds[0].ID)
	assert.Equal(t, 1, w.NumFoods())
}

func TestRandomPopulation(t *testing.T) {
	calls := 0
	p := Population{
		Birds: 10,
		Foods: 15,
		Speed: 0.002,
		Eye:   components.DefaultEye(),
		NewController: func(*rand.Rand) components.Controller {
			calls++
			return components.ControllerFunc(func([]float32) components.Command {
				return components.Command{}
			})
		},
	}

	w := Random(rand.New(rand.NewSource(3)), p)
	require.Equal(t, 10, w.NumBirds())
	require.Equal(t, 15, w.NumFoods())
	assert.Equal(t, 10, calls)

	for _, b := range w.Birds() {
		assert.GreaterOrEqual(t, b.Position.X, float32(0))
		assert.Less(t, b.Position.X, float32(1))
		assert.GreaterOrEqual(t, b.Heading, float32(0))
		assert.LessOrEqual(t, b.Heading, float32(2*math.Pi))
		assert.Equal(t, float32(0.002), b.Speed)
		assert.NotNil(t, b.Controller)
	}

	again := Random(rand.New(rand.NewSource(3)), p)
	assert.Equal(t, w.Foods(), again.Foods())
}

func TestEmptyWorld(t *testing.T) {
	w := New()
	assert.Zero(t, w.NumBirds())
	assert.Zero(t, w.NumFoods())
	assert.Empty(t, w.Birds())
	assert.Empty(t, w.Foods())
	assert.Zero(t, w.TotalSatiation())
}

func TestNearestBird(t *testing.T) {
	w := New()
	eye := components.DefaultEye()
	w.AddBird(BirdSpec{X: 0.5, Y: 0.5, Eye: eye})
	w.AddBird(BirdSpec{X: 0.98, Y: 0.5, Eye: eye})

	i, ok := w.NearestBird(0.52, 0.5, 0.05)
	require.True(t, ok)
	assert.Equal(t, 0, i)

	// Across the seam.
	i, ok = w.NearestBird(0.01, 0.5, 0.05)
	require.True(t, ok)
	assert.Equal(t, 1, i)

	_, ok = w.NearestBird(0.25, 0.25, 0.05)
	assert.False(t, ok)

	_, ok = New().NearestBird(0.5, 0.5, 1)
	assert.False(t, ok)
}
