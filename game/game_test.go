package game

import (
	"context"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/aviary/components"
	"github.com/pthm-cable/aviary/config"
	"github.com/pthm-cable/aviary/genetic"
	"github.com/pthm-cable/aviary/neural"
	"github.com/pthm-cable/aviary/storage"
	"github.com/pthm-cable/aviary/telemetry"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.World.Birds = 10
	cfg.World.Foods = 20
	cfg.Evolution.GenerationLength = 50
	cfg.Telemetry.LogEvery = 25
	cfg.ComputeDerived()
	return cfg
}

func newTestGame(t *testing.T, seed int64) *Game {
	t.Helper()
	g, err := NewGameWithOptions(Options{Seed: seed, Config: testConfig()})
	require.NoError(t, err)
	t.Cleanup(g.Unload)
	return g
}

type failingEvolver struct{}

func (failingEvolver) Evolve(*rand.Rand, []genetic.Individual) ([]genetic.Individual, genetic.Statistics, error) {
	return nil, genetic.Statistics{}, errors.New("boom")
}

func TestNewGamePopulation(t *testing.T) {
	g := newTestGame(t, 1)
	assert.Equal(t, 10, g.World().NumBirds())
	assert.Equal(t, 20, g.World().NumFoods())
	assert.Equal(t, 0, g.Generation())
	assert.NotEmpty(t, g.RunID())

	for _, b := range g.World().Birds() {
		assert.NotNil(t, b.Controller)
	}
}

func TestNewGameRejectsBadEye(t *testing.T) {
	cfg := testConfig()
	cfg.Eye.Cells = 0
	_, err := NewGameWithOptions(Options{Config: cfg})
	assert.ErrorIs(t, err, components.ErrInvalidEye)
}

func TestStepReportsGenerationBoundary(t *testing.T) {
	g := newTestGame(t, 2)
	for i := 1; i < 50; i++ {
		_, ok := g.Step()
		require.False(t, ok, "tick %d should not end the generation", i)
	}
	stats, ok := g.Step()
	require.True(t, ok)
	require.NotNil(t, stats)
	assert.Equal(t, 1, g.Generation())
	assert.Equal(t, 0, g.Age())
	assert.Equal(t, int32(50), g.Tick())
	assert.Equal(t, 0, g.World().TotalSatiation(), "new generation starts hungry")
	assert.Equal(t, 10, g.World().NumBirds())
}

func TestTrainAdvancesGeneration(t *testing.T) {
	g := newTestGame(t, 3)
	stats := g.Train()
	assert.Equal(t, 1, g.Generation())
	assert.GreaterOrEqual(t, stats.Max, stats.Mean)
	assert.GreaterOrEqual(t, stats.Mean, stats.Min)
	assert.GreaterOrEqual(t, stats.Min, float32(0))

	g.Train()
	require.Len(t, g.History(), 2)
	assert.Equal(t, stats, g.History()[0])
}

func TestGameDeterministic(t *testing.T) {
	run := func() *Game {
		g := newTestGame(t, 42)
		g.Train()
		for i := 0; i < 17; i++ {
			g.Step()
		}
		return g
	}
	a, b := run(), run()

	assert.Equal(t, a.History(), b.History())
	birdsA, birdsB := a.World().Birds(), b.World().Birds()
	require.Len(t, birdsB, len(birdsA))
	for i := range birdsA {
		assert.Equal(t, birdsA[i].Position, birdsB[i].Position, "bird %d position", i)
		assert.Equal(t, birdsA[i].Heading, birdsB[i].Heading, "bird %d heading", i)
		assert.Equal(t, birdsA[i].Speed, birdsB[i].Speed, "bird %d speed", i)
		assert.Equal(t, birdsA[i].Satiation, birdsB[i].Satiation, "bird %d satiation", i)
	}
	assert.Equal(t, a.World().Foods(), b.World().Foods())
}

func TestGenerationsStored(t *testing.T) {
	g := newTestGame(t, 4)
	g.Train()
	g.Train()

	ctx := context.Background()
	run, ok, err := g.Store().GetRun(ctx, g.RunID())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(4), run.Seed)

	gens, err := g.Store().Generations(ctx, g.RunID())
	require.NoError(t, err)
	require.Len(t, gens, 2)
	assert.Equal(t, 0, gens[0].Generation)
	assert.Equal(t, 1, gens[1].Generation)
	assert.InDelta(t, float64(g.History()[1].Mean), gens[1].Mean, 1e-6)

	champ, ok, err := g.Store().GetChampion(ctx, g.RunID())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, champ.Chromosome, neural.NumWeights(g.brainCfg.Topology()))
	assert.GreaterOrEqual(t, champ.Fitness, g.History()[0].Max)
}

func TestOutputWritten(t *testing.T) {
	dir := t.TempDir()
	g, err := NewGameWithOptions(Options{Seed: 5, Config: testConfig(), OutputDir: dir})
	require.NoError(t, err)
	g.Train()
	g.Unload()

	for _, name := range []string{"config.yaml", "windows.csv", "generations.csv", "perf.csv"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
	data, err := os.ReadFile(filepath.Join(dir, "generations.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "fitness_mean")
}

// shortGenomeEvolver breeds chromosomes no brain can be restored from.
type shortGenomeEvolver struct{}

func (shortGenomeEvolver) Evolve(_ *rand.Rand, population []genetic.Individual) ([]genetic.Individual, genetic.Statistics, error) {
	next := make([]genetic.Individual, len(population))
	for i := range next {
		next[i] = genetic.Individual{Chromosome: genetic.Chromosome{0, 0, 0}}
	}
	return next, genetic.NewStatistics(population), nil
}

func TestBreedFailureStillEndsGeneration(t *testing.T) {
	tests := []struct {
		name    string
		evolver genetic.Evolver
	}{
		{"evolver error", failingEvolver{}},
		{"unrestorable chromosome", shortGenomeEvolver{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGameWithOptions(Options{Seed: 6, Config: testConfig(), Evolver: tt.evolver})
			require.NoError(t, err)
			defer g.Unload()

			for i := 1; i < 50; i++ {
				g.Step()
			}
			g.World().Bird(0).Bird.Satiation += 7
			foods := g.World().Foods()

			stats, ok := g.Step()
			require.True(t, ok, "the generation ends even when breeding fails")
			assert.Equal(t, 1, g.Generation())
			assert.Equal(t, 0, g.Age())
			assert.Equal(t, 0, g.World().TotalSatiation(), "satiation carried into the next generation")
			assert.NotEqual(t, foods, g.World().Foods(), "food not scattered")
			assert.Equal(t, 10, g.World().NumBirds())
			assert.GreaterOrEqual(t, stats.Max, float32(7))

			require.Len(t, g.History(), 1)
			gens, err := g.Store().Generations(context.Background(), g.RunID())
			require.NoError(t, err)
			assert.Len(t, gens, 1)
		})
	}
}

func TestBoundaryWindowSamplesFinishedGeneration(t *testing.T) {
	dir := t.TempDir()
	g, err := NewGameWithOptions(Options{Seed: 9, Config: testConfig(), OutputDir: dir})
	require.NoError(t, err)

	for i := 1; i < 50; i++ {
		g.Step()
	}
	g.World().Bird(0).Bird.Satiation += 5
	total := g.World().TotalSatiation()
	g.Step()
	g.Unload()

	f, err := os.Open(filepath.Join(dir, "windows.csv"))
	require.NoError(t, err)
	defer f.Close()

	var rows []telemetry.WindowStats
	require.NoError(t, gocsv.UnmarshalFile(f, &rows))
	require.Len(t, rows, 2)

	last := rows[1]
	assert.Equal(t, int32(50), last.WindowEndTick)
	assert.Equal(t, 0, last.Generation)
	assert.Equal(t, 50, last.Age)
	assert.GreaterOrEqual(t, last.SatiationMean, float64(total)/10-1e-9)
}

type runKey struct{}

// recordingStore remembers the run value seen by each AppendGeneration.
type recordingStore struct {
	*storage.MemoryStore
	seen []any
}

func (s *recordingStore) AppendGeneration(ctx context.Context, runID string, rec storage.GenerationRecord) error {
	s.seen = append(s.seen, ctx.Value(runKey{}))
	return s.MemoryStore.AppendGeneration(ctx, runID, rec)
}

func TestRunContextReachesStore(t *testing.T) {
	ctx := context.WithValue(context.Background(), runKey{}, "run-ctx")
	store := &recordingStore{MemoryStore: storage.NewMemoryStore()}

	g, err := NewGameWithOptions(Options{Seed: 10, Config: testConfig(), Context: ctx, Store: store})
	require.NoError(t, err)
	defer g.Unload()

	g.Train()
	g.Train()
	assert.Equal(t, []any{"run-ctx", "run-ctx"}, store.seen)
}

func TestPauseStopsUpdate(t *testing.T) {
	g := newTestGame(t, 7)
	g.SetStepsPerUpdate(3)

	g.Update()
	assert.Equal(t, int32(3), g.Tick())

	g.TogglePause()
	require.True(t, g.Paused())
	g.Update()
	assert.Equal(t, int32(3), g.Tick())

	g.UpdateHeadless()
	assert.Equal(t, int32(6), g.Tick())
}

func TestSetStepsPerUpdateClamps(t *testing.T) {
	g := newTestGame(t, 8)
	g.SetStepsPerUpdate(0)
	assert.Equal(t, 1, g.StepsPerUpdate())
	g.SetStepsPerUpdate(MaxStepsPerUpdate + 50)
	assert.Equal(t, MaxStepsPerUpdate, g.StepsPerUpdate())
	g.SetStepsPerUpdate(7)
	assert.Equal(t, 7, g.StepsPerUpdate())
}
