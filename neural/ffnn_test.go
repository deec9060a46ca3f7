package neural

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestNewFFNN(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	nn, err := NewFFNN(rng, []int{9, 18, 2})
	if err != nil {
		t.Fatalf("NewFFNN failed: %v", err)
	}

	if got := len(nn.layers); got != 2 {
		t.Fatalf("layer count wrong: got %d, want 2", got)
	}
	r, c := nn.layers[0].weights.Dims()
	if r != 18 || c != 9 {
		t.Errorf("layer 0 dims wrong: got %dx%d, want 18x9", r, c)
	}
	r, c = nn.layers[1].weights.Dims()
	if r != 2 || c != 18 {
		t.Errorf("layer 1 dims wrong: got %dx%d, want 2x18", r, c)
	}

	for i, w := range nn.Weights() {
		if w < -1 || w > 1 {
			t.Fatalf("weight %d out of [-1,1]: %f", i, w)
		}
	}
}

func TestNewFFNNRejectsBadTopology(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, topo := range [][]int{nil, {3}, {3, 0, 2}, {-1, 2}} {
		if _, err := NewFFNN(rng, topo); !errors.Is(err, ErrTopology) {
			t.Errorf("topology %v: got %v, want ErrTopology", topo, err)
		}
	}
}

func TestNumWeights(t *testing.T) {
	// (9+1)*18 + (18+1)*2
	if got := NumWeights([]int{9, 18, 2}); got != 218 {
		t.Errorf("NumWeights wrong: got %d, want 218", got)
	}
	if got := NumWeights([]int{3, 2}); got != 8 {
		t.Errorf("NumWeights wrong: got %d, want 8", got)
	}
}

func TestForward(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	nn, _ := NewFFNN(rng, []int{5, 10, 2})

	inputs := []float32{0.5, 0, 1.7, 0.2, 3}
	out := nn.Forward(inputs)

	if len(out) != 2 {
		t.Fatalf("output length wrong: got %d, want 2", len(out))
	}
	for i, v := range out {
		if v < -1 || v > 1 {
			t.Errorf("output %d out of range [-1,1]: %f", i, v)
		}
	}
}

func TestForwardDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	nn, _ := NewFFNN(rng, []int{4, 8, 2})

	inputs := []float32{0.1, 0.2, 0.3, 0.4}
	a := nn.Forward(inputs)
	b := nn.Forward(inputs)

	if a[0] != b[0] || a[1] != b[1] {
		t.Error("Forward is not deterministic")
	}
}

func TestForwardKnownWeights(t *testing.T) {
	// One hidden neuron: h = relu(-1 + 2*x0 + 1*x1)
	// Output:           o = tanh(0.5 + 1*h), tanh(0 - 1*h)
	nn, err := FromWeights([]int{2, 1, 2}, []float32{
		-1, 2, 1,
		0.5, 1,
		0, -1,
	})
	if err != nil {
		t.Fatalf("FromWeights failed: %v", err)
	}

	out := nn.Forward([]float32{1, 0.5})
	// h = relu(-1 + 2 + 0.5) = 1.5
	if math.Abs(float64(out[0])-math.Tanh(2)) > 1e-6 {
		t.Errorf("output 0 wrong: got %f, want %f", out[0], math.Tanh(2))
	}
	if math.Abs(float64(out[1])-math.Tanh(-1.5)) > 1e-6 {
		t.Errorf("output 1 wrong: got %f, want %f", out[1], math.Tanh(-1.5))
	}

	// Negative pre-activation is cut off by ReLU.
	out = nn.Forward([]float32{0, 0})
	if math.Abs(float64(out[0])-math.Tanh(0.5)) > 1e-6 || out[1] != 0 {
		t.Errorf("relu cutoff wrong: got %v", out)
	}
}

func TestWeightsRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	topo := []int{9, 18, 2}
	nn, _ := NewFFNN(rng, topo)

	w := nn.Weights()
	if len(w) != NumWeights(topo) {
		t.Fatalf("weight count wrong: got %d, want %d", len(w), NumWeights(topo))
	}

	restored, err := FromWeights(topo, w)
	if err != nil {
		t.Fatalf("FromWeights failed: %v", err)
	}

	inputs := []float32{0, 0.3, 0, 0, 1.2, 0, 0, 0.1, 0}
	a, b := nn.Forward(inputs), restored.Forward(inputs)
	if a[0] != b[0] || a[1] != b[1] {
		t.Errorf("restored network differs: %v vs %v", a, b)
	}
}

func TestFromWeightsWrongLength(t *testing.T) {
	_, err := FromWeights([]int{3, 2}, make([]float32, 7))
	if !errors.Is(err, ErrWeightCount) {
		t.Errorf("got %v, want ErrWeightCount", err)
	}
}

func TestClone(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	nn, _ := NewFFNN(rng, []int{3, 4, 2})

	clone := nn.Clone()
	if clone.Weights()[0] != nn.Weights()[0] {
		t.Error("Clone has different weights")
	}

	// Modifying clone shouldn't affect original
	clone.layers[0].biases.SetVec(0, 999)
	if nn.Weights()[0] == 999 {
		t.Error("Clone is not independent")
	}
}

func BenchmarkForward(b *testing.B) {
	rng := rand.New(rand.NewSource(42))
	nn, _ := NewFFNN(rng, []int{9, 18, 2})

	inputs := make([]float32, 9)
	for i := range inputs {
		inputs[i] = 0.5
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		nn.Forward(inputs)
	}
}
