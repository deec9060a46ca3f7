package neural

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/aviary/config"
)

func testBrainConfig() BrainConfig {
	return BrainConfig{Inputs: 9, Hidden: []int{18}, SpeedAccel: 0.2, RotationAccel: 1.5}
}

func TestBrainDecideScalesOutputs(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	cfg := testBrainConfig()
	brain, err := NewBrain(rng, cfg)
	if err != nil {
		t.Fatalf("NewBrain failed: %v", err)
	}

	for trial := 0; trial < 50; trial++ {
		vision := make([]float32, cfg.Inputs)
		for i := range vision {
			vision[i] = rng.Float32() * 2
		}
		cmd := brain.Decide(vision)
		if cmd.Speed < -cfg.SpeedAccel || cmd.Speed > cfg.SpeedAccel {
			t.Errorf("speed delta out of range: %f", cmd.Speed)
		}
		if cmd.Rotation < -cfg.RotationAccel || cmd.Rotation > cfg.RotationAccel {
			t.Errorf("rotation delta out of range: %f", cmd.Rotation)
		}
	}
}

func TestBrainChromosomeRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	cfg := testBrainConfig()
	brain, _ := NewBrain(rng, cfg)

	genes := brain.Chromosome()
	restored, err := BrainFromChromosome(cfg, genes)
	if err != nil {
		t.Fatalf("BrainFromChromosome failed: %v", err)
	}

	vision := []float32{0, 0, 0.4, 0, 0, 0, 0.9, 0, 0}
	if a, b := brain.Decide(vision), restored.Decide(vision); a != b {
		t.Errorf("restored brain decides differently: %+v vs %+v", a, b)
	}
}

func TestBrainFromChromosomeWrongLength(t *testing.T) {
	if _, err := BrainFromChromosome(testBrainConfig(), []float32{1, 2, 3}); err == nil {
		t.Error("expected error for short chromosome")
	}
}

func TestBrainConfigFromConfig(t *testing.T) {
	cfg := config.Default()
	bc := BrainConfigFromConfig(cfg)

	topo := bc.Topology()
	want := []int{cfg.Eye.Cells, 2 * cfg.Eye.Cells, 2}
	if len(topo) != len(want) {
		t.Fatalf("topology wrong: got %v, want %v", topo, want)
	}
	for i := range want {
		if topo[i] != want[i] {
			t.Errorf("topology wrong: got %v, want %v", topo, want)
		}
	}
	if bc.SpeedAccel != float32(cfg.Bird.SpeedAccel) {
		t.Errorf("SpeedAccel wrong: got %f, want %f", bc.SpeedAccel, cfg.Bird.SpeedAccel)
	}
}
