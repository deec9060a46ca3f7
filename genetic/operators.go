package genetic

import (
	"fmt"
	"math/rand"
)

// Crossover combines two parents into a child.
type Crossover interface {
	Cross(rng *rand.Rand, a, b Chromosome) (Chromosome, error)
}

// UniformCrossover takes each gene from either parent with equal probability.
type UniformCrossover struct{}

func (UniformCrossover) Cross(rng *rand.Rand, a, b Chromosome) (Chromosome, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(a), len(b))
	}
	child := make(Chromosome, len(a))
	for i := range child {
		if rng.Intn(2) == 0 {
			child[i] = a[i]
		} else {
			child[i] = b[i]
		}
	}
	return child, nil
}

// Mutation perturbs a chromosome in place.
type Mutation interface {
	Mutate(rng *rand.Rand, child Chromosome)
}

// GaussianMutation adds N(0, Coeff²) noise to each gene with probability Chance.
type GaussianMutation struct {
	Chance float64
	Coeff  float64
}

// NewGaussianMutation validates the mutation parameters.
func NewGaussianMutation(chance, coeff float64) (GaussianMutation, error) {
	if chance < 0 || chance > 1 {
		return GaussianMutation{}, fmt.Errorf("mutation chance must be in [0, 1], got %v", chance)
	}
	if coeff < 0 {
		return GaussianMutation{}, fmt.Errorf("mutation coeff must be >= 0, got %v", coeff)
	}
	return GaussianMutation{Chance: chance, Coeff: coeff}, nil
}

func (m GaussianMutation) Mutate(rng *rand.Rand, child Chromosome) {
	for i := range child {
		if rng.Float64() < m.Chance {
			child[i] += float32(rng.NormFloat64() * m.Coeff)
		}
	}
}
