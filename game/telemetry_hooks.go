package game

import (
	"log/slog"

	"github.com/pthm-cable/aviary/genetic"
	"github.com/pthm-cable/aviary/storage"
	"github.com/pthm-cable/aviary/telemetry"
)

// flushTelemetry closes the current stats window and writes it out.
func (g *Game) flushTelemetry() {
	birds := g.world.Birds()
	satiation := make([]float64, len(birds))
	speeds := make([]float64, len(birds))
	for i, b := range birds {
		satiation[i] = float64(b.Satiation)
		speeds[i] = float64(b.Speed)
	}

	stats := g.collector.Flush(g.tick, telemetry.Sample{
		Generation: g.generation,
		Age:        g.age,
		Foods:      g.world.NumFoods(),
		Satiation:  satiation,
		Speeds:     speeds,
	})

	if g.logStats {
		stats.LogStats()
		g.perf.Stats().LogStats()
	}

	if err := g.output.WriteWindow(stats); err != nil {
		slog.Error("failed to write window stats", "error", err)
	}
	if err := g.output.WritePerf(g.perf.Stats(), g.tick); err != nil {
		slog.Error("failed to write perf stats", "error", err)
	}
}

// recordGeneration logs and persists a finished generation.
func (g *Game) recordGeneration(generation, eaten int, stats genetic.Statistics, champion genetic.Individual) {
	logGeneration(stats, generation, eaten)

	row := telemetry.GenerationStats{
		Generation: generation,
		EndTick:    g.tick,
		Ticks:      g.cfg.Evolution.GenerationLength,
		FoodEaten:  eaten,
		Min:        float64(stats.Min),
		Max:        float64(stats.Max),
		Mean:       float64(stats.Mean),
		StdDev:     float64(stats.StdDev),
	}
	if err := g.output.WriteGeneration(row); err != nil {
		slog.Error("failed to write generation stats", "error", err)
	}

	rec := storage.GenerationRecord{
		Generation: generation,
		FoodEaten:  eaten,
		Min:        row.Min,
		Max:        row.Max,
		Mean:       row.Mean,
		StdDev:     row.StdDev,
	}
	if err := g.store.AppendGeneration(g.ctx, g.runID, rec); err != nil {
		slog.Error("failed to store generation", "generation", generation, "error", err)
	}

	if champion.Fitness <= g.bestFitness {
		return
	}
	g.bestFitness = champion.Fitness
	champ := storage.Champion{
		Generation: generation,
		Fitness:    champion.Fitness,
		Chromosome: champion.Chromosome,
	}
	if err := g.store.SaveChampion(g.ctx, g.runID, champ); err != nil {
		slog.Error("failed to store champion", "generation", generation, "error", err)
	}
}
