package main

import (
	"context"
	"log/slog"
	"math"
	"slices"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/aviary/config"
	"github.com/pthm-cable/aviary/game"
	"github.com/pthm-cable/aviary/storage"
)

// tailGenerations is how many final generations the fitness averages over.
const tailGenerations = 5

// FitnessEvaluator runs headless training runs and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	generations int
	seeds       []int64
	baseConfig  *config.Config

	// Best run tracking
	mu           sync.Mutex
	bestFitness  float64
	bestChampion *storage.Champion
	lastSlope    float64 // learning slope from the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, generations int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		generations: generations,
		seeds:       seeds,
		baseConfig:  baseCfg,
		bestFitness: math.Inf(1),
	}
}

// BestChampion returns the fittest bird of the best evaluation.
func (fe *FitnessEvaluator) BestChampion() *storage.Champion {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestChampion
}

// LastSlope returns the learning slope from the most recent evaluation.
func (fe *FitnessEvaluator) LastSlope() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastSlope
}

// runResult holds the results from a single training run.
type runResult struct {
	means    []float64 // mean fitness per generation
	champion *storage.Champion
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is the negated mean satiation over the last generations of each
// run, averaged across seeds.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(x, s)
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalSlope float64
	bestSeedFitness := math.Inf(1)
	var bestSeedChampion *storage.Champion

	for _, r := range results {
		f := computeFitness(r.means)
		totalFitness += f
		totalSlope += learningSlope(r.means)
		if f < bestSeedFitness {
			bestSeedFitness = f
			bestSeedChampion = r.champion
		}
	}

	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
		fe.bestChampion = bestSeedChampion
	}
	fe.lastSlope = totalSlope / n
	fe.mu.Unlock()

	return avgFitness
}

// runSimulation trains one population for the configured number of generations.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) runResult {
	cfg := copyConfig(fe.baseConfig)
	fe.params.ApplyToConfig(cfg, x)

	g, err := game.NewGameWithOptions(game.Options{
		Seed:   seed,
		Config: cfg,
		Store:  storage.NewMemoryStore(),
	})
	if err != nil {
		// Out-of-range parameters are clamped, so this means a broken base config.
		slog.Error("failed to create game", "seed", seed, "error", err)
		return runResult{}
	}
	defer g.Unload()

	var result runResult
	for i := 0; i < fe.generations; i++ {
		stats := g.Train()
		result.means = append(result.means, float64(stats.Mean))
	}

	champ, ok, err := g.Store().GetChampion(context.Background(), g.RunID())
	if err == nil && ok {
		result.champion = &champ
	}
	return result
}

// copyConfig creates a deep copy of cfg.
func copyConfig(cfg *config.Config) *config.Config {
	c := *cfg
	c.Brain.HiddenLayers = slices.Clone(cfg.Brain.HiddenLayers)
	c.ComputeDerived()
	return &c
}

// computeFitness calculates the scalar fitness (lower = better) from the
// per-generation mean satiation of one run.
func computeFitness(means []float64) float64 {
	if len(means) == 0 {
		return 0
	}
	tail := means[max(0, len(means)-tailGenerations):]
	return -stat.Mean(tail, nil)
}

// learningSlope returns the least-squares slope of mean satiation per
// generation, a measure of how fast the population improves.
func learningSlope(means []float64) float64 {
	if len(means) < 2 {
		return 0
	}
	xs := make([]float64, len(means))
	for i := range xs {
		xs[i] = float64(i)
	}
	_, beta := stat.LinearRegression(xs, means, nil, false)
	return beta
}
