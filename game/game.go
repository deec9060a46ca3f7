package game

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/pthm-cable/aviary/components"
	"github.com/pthm-cable/aviary/config"
	"github.com/pthm-cable/aviary/genetic"
	"github.com/pthm-cable/aviary/neural"
	"github.com/pthm-cable/aviary/storage"
	"github.com/pthm-cable/aviary/systems"
	"github.com/pthm-cable/aviary/telemetry"
	"github.com/pthm-cable/aviary/world"
)

// MaxStepsPerUpdate bounds the simulation speed multiplier.
const MaxStepsPerUpdate = 100

// Options configures a new game.
type Options struct {
	Seed           int64
	Context        context.Context // scopes every store call of the run; nil = context.Background()
	Config         *config.Config  // nil = config.Cfg()
	OutputDir      string          // empty = no CSV output
	Store          storage.Store   // nil = backend from config
	Evolver        genetic.Evolver // nil = genetic algorithm from config
	StepsPerUpdate int             // ticks per Update call
	LogStats       bool            // log window stats via slog
}

// Game holds the complete simulation state: the world, the evolver and
// the run's telemetry.
type Game struct {
	cfg   *config.Config
	rng   *rand.Rand
	seed  int64
	ctx   context.Context // fixed for the run's lifetime, passed to every store call
	runID string

	world    *world.World
	ticker   *systems.Ticker
	evolver  genetic.Evolver
	eye      components.Eye
	brainCfg neural.BrainConfig
	speed    float32 // initial bird speed

	// State
	tick           int32
	age            int // ticks into the current generation
	generation     int
	genFoodEaten   int
	paused         bool
	stepsPerUpdate int

	// Telemetry
	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager
	store     storage.Store
	logStats  bool

	history     []genetic.Statistics
	bestFitness float32 // fitness of the stored champion, -1 before the first
}

// NewGameWithOptions creates a game with a random initial population.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	eye, err := components.NewEye(float32(cfg.Eye.FOVRange), float32(cfg.Eye.FOVAngle), cfg.Eye.Cells)
	if err != nil {
		return nil, fmt.Errorf("configuring eye: %w", err)
	}

	evolver := opts.Evolver
	if evolver == nil {
		evolver, err = genetic.FromConfig(cfg)
		if err != nil {
			return nil, fmt.Errorf("configuring evolution: %w", err)
		}
	}

	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	g := &Game{
		cfg:            cfg,
		rng:            rand.New(rand.NewSource(opts.Seed)),
		seed:           opts.Seed,
		ctx:            ctx,
		runID:          storage.NewRunID(),
		ticker:         systems.NewTicker(systems.RulesFromConfig(cfg)),
		evolver:        evolver,
		eye:            eye,
		brainCfg:       neural.BrainConfigFromConfig(cfg),
		speed:          float32(cfg.Bird.Speed),
		stepsPerUpdate: steps,
		collector:      telemetry.NewCollector(cfg.Telemetry.LogEvery),
		perf:           telemetry.NewPerfCollector(cfg.Screen.TargetFPS),
		logStats:       opts.LogStats,
		bestFitness:    -1,
	}

	if err := g.spawnInitialPopulation(); err != nil {
		return nil, err
	}

	g.output, err = telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := g.output.WriteConfig(cfg); err != nil {
		g.output.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	if err := g.openStore(opts.Store); err != nil {
		g.output.Close()
		return nil, err
	}

	return g, nil
}

// spawnInitialPopulation fills the world with random birds and food.
func (g *Game) spawnInitialPopulation() error {
	var brainErr error
	g.world = world.Random(g.rng, world.Population{
		Birds: g.cfg.World.Birds,
		Foods: g.cfg.World.Foods,
		Speed: g.speed,
		Eye:   g.eye,
		NewController: func(rng *rand.Rand) components.Controller {
			brain, err := neural.NewBrain(rng, g.brainCfg)
			if err != nil {
				brainErr = err
				return nil
			}
			return brain
		},
	})
	if brainErr != nil {
		return fmt.Errorf("creating brains: %w", brainErr)
	}
	return nil
}

func (g *Game) openStore(store storage.Store) error {
	if store == nil {
		var err error
		store, err = storage.NewStore(g.cfg.Storage.Backend, g.cfg.Storage.Path)
		if err != nil {
			return err
		}
	}
	if err := store.Init(g.ctx); err != nil {
		return fmt.Errorf("initializing store: %w", err)
	}
	g.store = store

	run := storage.Run{
		ID:        g.runID,
		Seed:      g.seed,
		StartedAt: time.Now(),
		Birds:     g.cfg.World.Birds,
		Foods:     g.cfg.World.Foods,
		Cells:     g.cfg.Eye.Cells,
	}
	if err := store.SaveRun(g.ctx, run); err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	return nil
}

// Step advances the simulation by one tick. When the tick completes a
// generation the population is evolved and the finished generation's
// fitness statistics are returned with true, also when breeding failed.
func (g *Game) Step() (*genetic.Statistics, bool) {
	g.perf.StartTick()

	g.perf.StartPhase(telemetry.PhaseCollision)
	eaten := g.ticker.Collide(g.world, g.rng)

	g.perf.StartPhase(telemetry.PhaseBrains)
	g.ticker.ApplyBrains(g.world)

	g.perf.StartPhase(telemetry.PhaseMovement)
	systems.Move(g.world)

	g.tick++
	g.age++
	g.genFoodEaten += eaten
	g.collector.RecordEaten(eaten)

	// A window ending on a generation boundary samples the finished generation.
	g.perf.StartPhase(telemetry.PhaseTelemetry)
	if g.collector.ShouldFlush(g.tick) {
		g.flushTelemetry()
	}

	var stats *genetic.Statistics
	if g.age >= g.cfg.Evolution.GenerationLength {
		g.perf.StartPhase(telemetry.PhaseEvolve)
		var err error
		stats, err = g.evolve()
		if err != nil {
			slog.Error("evolution failed", "generation", g.generation-1, "error", err)
		}
	}

	g.perf.EndTick()
	return stats, stats != nil
}

// Train runs ticks until the current generation completes and returns
// its statistics.
func (g *Game) Train() genetic.Statistics {
	for {
		stats, ok := g.Step()
		if ok {
			return *stats
		}
		if g.age == 0 { // scoring failed, already logged by Step
			return genetic.Statistics{}
		}
	}
}

// UpdateHeadless runs StepsPerUpdate ticks regardless of the pause state.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.Step()
	}
}

// Update runs one frame's worth of ticks unless paused.
func (g *Game) Update() {
	g.perf.RecordFrame()
	if g.paused {
		return
	}
	g.UpdateHeadless()
}

// Unload flushes output and releases the store.
func (g *Game) Unload() {
	if err := g.output.Close(); err != nil {
		slog.Error("closing output", "error", err)
	}
	if err := storage.CloseIfSupported(g.store); err != nil {
		slog.Error("closing store", "error", err)
	}
}

// World returns the simulated world. It must only be read between ticks.
func (g *Game) World() *world.World { return g.world }

// Config returns the configuration the game was built with.
func (g *Game) Config() *config.Config { return g.cfg }

// Tick returns the number of ticks simulated so far.
func (g *Game) Tick() int32 { return g.tick }

// Age returns the number of ticks into the current generation.
func (g *Game) Age() int { return g.age }

// Generation returns the index of the current generation, starting at 0.
func (g *Game) Generation() int { return g.generation }

// History returns the statistics of every completed generation.
func (g *Game) History() []genetic.Statistics { return g.history }

// RunID returns the identifier under which the run is stored.
func (g *Game) RunID() string { return g.runID }

// Store returns the run's statistics store.
func (g *Game) Store() storage.Store { return g.store }

// Paused reports whether Update is suspended.
func (g *Game) Paused() bool { return g.paused }

// TogglePause suspends or resumes Update.
func (g *Game) TogglePause() { g.paused = !g.paused }

// StepsPerUpdate returns the simulation speed multiplier.
func (g *Game) StepsPerUpdate() int { return g.stepsPerUpdate }

// SetStepsPerUpdate sets the speed multiplier, clamped to [1, MaxStepsPerUpdate].
func (g *Game) SetStepsPerUpdate(n int) {
	g.stepsPerUpdate = max(1, min(n, MaxStepsPerUpdate))
}

// PerfStats returns timing statistics over the recent ticks.
func (g *Game) PerfStats() telemetry.PerfStats { return g.perf.Stats() }
