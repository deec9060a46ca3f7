package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/aviary/config"
)

func TestNormalizeRoundTrip(t *testing.T) {
	pv := NewParamVector()
	def := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(def))
	for i := range def {
		if math.Abs(back[i]-def[i]) > 1e-9 {
			t.Errorf("%s round trip wrong: got %f, want %f", pv.Specs[i].Name, back[i], def[i])
		}
	}
}

func TestApplyAndExtract(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()

	values := []float64{0.3, 2.0, 0.05, 0.5, 1.0}
	pv.ApplyToConfig(cfg, values)
	got := pv.ExtractFromConfig(cfg)
	for i := range values {
		if got[i] != values[i] {
			t.Errorf("%s wrong: got %f, want %f", pv.Specs[i].Name, got[i], values[i])
		}
	}
	if cfg.Eye.FOVRange != 0.3 {
		t.Errorf("eye range not applied: got %f", cfg.Eye.FOVRange)
	}
}

func TestApplyClamps(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()

	pv.ApplyToConfig(cfg, []float64{-1, 100, 0, 0, 0})
	if cfg.Eye.FOVRange != pv.Specs[0].Min {
		t.Errorf("range not clamped to min: got %f", cfg.Eye.FOVRange)
	}
	if cfg.Eye.FOVAngle != pv.Specs[1].Max {
		t.Errorf("angle not clamped to max: got %f", cfg.Eye.FOVAngle)
	}
}

func TestDefaultsMatchConfig(t *testing.T) {
	pv := NewParamVector()
	got := pv.ExtractFromConfig(config.Default())
	for i, spec := range pv.Specs {
		if math.Abs(got[i]-spec.Default) > 1e-3 {
			t.Errorf("%s default %f differs from config %f", spec.Name, spec.Default, got[i])
		}
	}
}

func TestComputeFitness(t *testing.T) {
	if f := computeFitness(nil); f != 0 {
		t.Errorf("empty run fitness wrong: got %f", f)
	}
	// Only the last five generations count.
	means := []float64{100, 100, 1, 2, 3, 4, 5}
	if f := computeFitness(means); f != -3 {
		t.Errorf("fitness wrong: got %f, want -3", f)
	}
}

func TestLearningSlope(t *testing.T) {
	if s := learningSlope([]float64{1, 3, 5, 7}); math.Abs(s-2) > 1e-9 {
		t.Errorf("slope wrong: got %f, want 2", s)
	}
	if s := learningSlope([]float64{4}); s != 0 {
		t.Errorf("single generation slope wrong: got %f", s)
	}
}

func TestCopyConfigIsDeep(t *testing.T) {
	base := config.Default()
	base.Brain.HiddenLayers = []int{4}
	c := copyConfig(base)
	c.Brain.HiddenLayers[0] = 99
	if base.Brain.HiddenLayers[0] != 4 {
		t.Error("copyConfig shares hidden layer slice")
	}
}
