package genetic

import (
	"fmt"
	"math/rand"
)

// Selector picks a parent from a scored population.
type Selector interface {
	Name() string
	Select(rng *rand.Rand, population []Individual) (*Individual, error)
}

// RouletteSelector picks with probability proportional to fitness.
// Negative fitness counts as zero; when every fitness is zero the pick is
// uniform.
type RouletteSelector struct{}

func (RouletteSelector) Name() string {
	return "roulette"
}

func (RouletteSelector) Select(rng *rand.Rand, population []Individual) (*Individual, error) {
	if len(population) == 0 {
		return nil, ErrEmptyPopulation
	}

	var total float64
	for i := range population {
		if f := population[i].Fitness; f > 0 {
			total += float64(f)
		}
	}
	if total == 0 {
		return &population[rng.Intn(len(population))], nil
	}

	r := rng.Float64() * total
	for i := range population {
		f := population[i].Fitness
		if f <= 0 {
			continue
		}
		r -= float64(f)
		if r < 0 {
			return &population[i], nil
		}
	}

	// Rounding left r at or just above 0: fall back to the last positive.
	for i := len(population) - 1; i >= 0; i-- {
		if population[i].Fitness > 0 {
			return &population[i], nil
		}
	}
	return &population[len(population)-1], nil
}

// TournamentSelector samples Size individuals uniformly with replacement
// and keeps the fittest.
type TournamentSelector struct {
	Size int
}

func (TournamentSelector) Name() string {
	return "tournament"
}

func (s TournamentSelector) Select(rng *rand.Rand, population []Individual) (*Individual, error) {
	if len(population) == 0 {
		return nil, ErrEmptyPopulation
	}

	size := s.Size
	if size <= 0 {
		size = 3
	}

	best := &population[rng.Intn(len(population))]
	for i := 1; i < size; i++ {
		candidate := &population[rng.Intn(len(population))]
		if candidate.Fitness > best.Fitness {
			best = candidate
		}
	}
	return best, nil
}

// NewSelector returns the selector registered under name.
func NewSelector(name string, tournamentSize int) (Selector, error) {
	switch name {
	case "roulette", "":
		return RouletteSelector{}, nil
	case "tournament":
		return TournamentSelector{Size: tournamentSize}, nil
	default:
		return nil, fmt.Errorf("unknown selection method %q", name)
	}
}
