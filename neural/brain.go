package neural

import (
	"fmt"
	"math/rand"

	"github.com/pthm-cable/aviary/components"
	"github.com/pthm-cable/aviary/config"
)

// BrainConfig describes the shape and output scaling of a bird brain.
type BrainConfig struct {
	Inputs        int   // eye cells
	Hidden        []int // hidden layer sizes
	SpeedAccel    float32
	RotationAccel float32
}

// BrainConfigFromConfig builds a BrainConfig from the loaded configuration.
func BrainConfigFromConfig(cfg *config.Config) BrainConfig {
	return BrainConfig{
		Inputs:        cfg.Eye.Cells,
		Hidden:        cfg.Derived.HiddenLayers,
		SpeedAccel:    float32(cfg.Bird.SpeedAccel),
		RotationAccel: float32(cfg.Bird.RotationAccel),
	}
}

// Topology returns the network layer sizes: inputs, hidden layers, then
// two outputs (speed, rotation).
func (c BrainConfig) Topology() []int {
	t := make([]int, 0, len(c.Hidden)+2)
	t = append(t, c.Inputs)
	t = append(t, c.Hidden...)
	return append(t, 2)
}

// Brain turns vision into steering commands. It implements
// components.Controller.
type Brain struct {
	nn  *FFNN
	cfg BrainConfig
}

var _ components.Controller = (*Brain)(nil)

// NewBrain creates a brain with random weights.
func NewBrain(rng *rand.Rand, cfg BrainConfig) (*Brain, error) {
	nn, err := NewFFNN(rng, cfg.Topology())
	if err != nil {
		return nil, fmt.Errorf("new brain: %w", err)
	}
	return &Brain{nn: nn, cfg: cfg}, nil
}

// BrainFromChromosome restores a brain from a flat gene vector, as
// produced by Chromosome.
func BrainFromChromosome(cfg BrainConfig, genes []float32) (*Brain, error) {
	nn, err := FromWeights(cfg.Topology(), genes)
	if err != nil {
		return nil, fmt.Errorf("restore brain: %w", err)
	}
	return &Brain{nn: nn, cfg: cfg}, nil
}

// Decide maps the network's two tanh outputs to a speed delta in
// [-SpeedAccel, SpeedAccel] and a heading delta in
// [-RotationAccel, RotationAccel].
func (b *Brain) Decide(vision []float32) components.Command {
	out := b.nn.Forward(vision)
	return components.Command{
		Speed:    out[0] * b.cfg.SpeedAccel,
		Rotation: out[1] * b.cfg.RotationAccel,
	}
}

// Chromosome returns the brain's weights as a flat gene vector.
func (b *Brain) Chromosome() []float32 {
	return b.nn.Weights()
}

