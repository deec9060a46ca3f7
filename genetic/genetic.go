// Package genetic evolves populations of flat float chromosomes.
package genetic

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/aviary/config"
)

var (
	ErrEmptyPopulation = errors.New("empty population")
	ErrLengthMismatch  = errors.New("chromosome length mismatch")
)

// Chromosome is a flat gene vector.
type Chromosome []float32


// Individual is a scored chromosome.
type Individual struct {
	Chromosome Chromosome
	Fitness    float32
}

// Evolver maps a scored generation to the next one.
type Evolver interface {
	Evolve(rng *rand.Rand, population []Individual) ([]Individual, Statistics, error)
}

// Statistics summarizes the fitness of a generation.
type Statistics struct {
	Min    float32
	Max    float32
	Mean   float32
	StdDev float32
}

// NewStatistics computes fitness statistics for a population.
func NewStatistics(population []Individual) Statistics {
	if len(population) == 0 {
		return Statistics{}
	}
	fitness := make([]float64, len(population))
	for i, ind := range population {
		fitness[i] = float64(ind.Fitness)
	}
	mean, std := stat.MeanStdDev(fitness, nil)
	if len(fitness) < 2 {
		std = 0
	}
	return Statistics{
		Min:    float32(floats.Min(fitness)),
		Max:    float32(floats.Max(fitness)),
		Mean:   float32(mean),
		StdDev: float32(std),
	}
}

// LogValue implements slog.LogValuer.
func (s Statistics) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("min", float64(s.Min)),
		slog.Float64("max", float64(s.Max)),
		slog.Float64("mean", float64(s.Mean)),
		slog.Float64("std", float64(s.StdDev)),
	)
}

// GeneticAlgorithm breeds a new population of the same size: for each
// child it selects two parents, crosses them over and mutates the result.
// Children carry zero fitness.
type GeneticAlgorithm struct {
	Selection Selector
	Crossover Crossover
	Mutation  Mutation
}

var _ Evolver = (*GeneticAlgorithm)(nil)

// New creates a genetic algorithm from its three operators.
func New(selection Selector, crossover Crossover, mutation Mutation) *GeneticAlgorithm {
	return &GeneticAlgorithm{Selection: selection, Crossover: crossover, Mutation: mutation}
}

// Evolve implements Evolver.
func (ga *GeneticAlgorithm) Evolve(rng *rand.Rand, population []Individual) ([]Individual, Statistics, error) {
	if len(population) == 0 {
		return nil, Statistics{}, ErrEmptyPopulation
	}

	next := make([]Individual, len(population))
	for i := range next {
		a, err := ga.Selection.Select(rng, population)
		if err != nil {
			return nil, Statistics{}, fmt.Errorf("select first parent: %w", err)
		}
		b, err := ga.Selection.Select(rng, population)
		if err != nil {
			return nil, Statistics{}, fmt.Errorf("select second parent: %w", err)
		}

		child, err := ga.Crossover.Cross(rng, a.Chromosome, b.Chromosome)
		if err != nil {
			return nil, Statistics{}, fmt.Errorf("crossover: %w", err)
		}
		ga.Mutation.Mutate(rng, child)

		next[i] = Individual{Chromosome: child}
	}

	return next, NewStatistics(population), nil
}

// FromConfig builds the genetic algorithm described by the evolution
// section of the configuration.
func FromConfig(cfg *config.Config) (*GeneticAlgorithm, error) {
	sel, err := NewSelector(cfg.Evolution.Selection, cfg.Evolution.TournamentSize)
	if err != nil {
		return nil, err
	}
	mut, err := NewGaussianMutation(cfg.Evolution.MutationChance, cfg.Evolution.MutationCoeff)
	if err != nil {
		return nil, err
	}
	return New(sel, UniformCrossover{}, mut), nil
}
