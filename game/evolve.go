package game

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/pthm-cable/aviary/genetic"
	"github.com/pthm-cable/aviary/neural"
	"github.com/pthm-cable/aviary/world"
)

var errNoBrain = errors.New("bird has no neural brain")

// evolve ends the current generation. Every bird is scored by its
// satiation and the finished generation is recorded before the evolver
// breeds the next one, whose birds replace the old at random positions.
// On every path, failures included, the generation advances, satiation is
// reset and food is scattered. Statistics are nil only when the birds
// could not be scored.
func (g *Game) evolve() (*genetic.Statistics, error) {
	finished := g.generation
	eaten := g.genFoodEaten
	g.age = 0
	g.generation++
	g.genFoodEaten = 0
	defer func() {
		g.world.ResetSatiation()
		g.world.ScatterFood(g.rng)
	}()

	population, err := g.population()
	if err != nil {
		return nil, err
	}
	if len(population) == 0 {
		return nil, genetic.ErrEmptyPopulation
	}

	stats := genetic.NewStatistics(population)
	g.history = append(g.history, stats)
	g.recordGeneration(finished, eaten, stats, bestIndividual(population))

	next, _, err := g.evolver.Evolve(g.rng, population)
	if err != nil {
		return &stats, fmt.Errorf("evolving generation %d: %w", finished, err)
	}

	specs := make([]world.BirdSpec, len(next))
	for i, ind := range next {
		brain, err := neural.BrainFromChromosome(g.brainCfg, ind.Chromosome)
		if err != nil {
			return &stats, fmt.Errorf("restoring bird %d: %w", i, err)
		}
		specs[i] = world.RandomBird(g.rng, g.speed, g.eye, brain)
	}
	g.world.ReplaceBirds(specs)

	return &stats, nil
}

// population converts the current birds into scored individuals.
func (g *Game) population() ([]genetic.Individual, error) {
	birds := g.world.Birds()
	population := make([]genetic.Individual, len(birds))
	for i, b := range birds {
		brain, ok := b.Controller.(*neural.Brain)
		if !ok {
			return nil, fmt.Errorf("bird %d: %w", b.ID, errNoBrain)
		}
		population[i] = genetic.Individual{
			Chromosome: brain.Chromosome(),
			Fitness:    float32(b.Satiation),
		}
	}
	return population, nil
}

// bestIndividual returns the fittest individual, the first one on ties.
func bestIndividual(population []genetic.Individual) genetic.Individual {
	best := population[0]
	for _, ind := range population[1:] {
		if ind.Fitness > best.Fitness {
			best = ind
		}
	}
	return best
}

// logGeneration reports a finished generation.
func logGeneration(gen genetic.Statistics, generation, eaten int) {
	slog.Info("generation",
		"generation", generation,
		"food_eaten", eaten,
		"fitness", gen,
	)
}
