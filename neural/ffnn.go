// Package neural provides feedforward neural network brains for birds.
package neural

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// ErrTopology is returned when a network shape is unusable.
var ErrTopology = errors.New("invalid topology")

// ErrWeightCount is returned when a flat weight vector does not match a topology.
var ErrWeightCount = errors.New("weight count mismatch")

// layer is one fully connected layer. Row i of weights holds the input
// weights of neuron i.
type layer struct {
	weights *mat.Dense
	biases  *mat.VecDense
	out     *mat.VecDense // scratch
}

// FFNN is a fully connected feedforward network.
// Hidden layers use ReLU, the output layer uses tanh, so every output is
// in [-1, 1].
//
// Forward reuses internal buffers; an FFNN is not safe for concurrent use.
type FFNN struct {
	topology []int
	layers   []layer
	in       *mat.VecDense
}

func checkTopology(topology []int) error {
	if len(topology) < 2 {
		return fmt.Errorf("%w: need at least input and output layers, got %v", ErrTopology, topology)
	}
	for _, n := range topology {
		if n <= 0 {
			return fmt.Errorf("%w: layer sizes must be > 0, got %v", ErrTopology, topology)
		}
	}
	return nil
}

func newFFNN(topology []int) *FFNN {
	nn := &FFNN{
		topology: append([]int(nil), topology...),
		layers:   make([]layer, len(topology)-1),
		in:       mat.NewVecDense(topology[0], nil),
	}
	for i := range nn.layers {
		rows, cols := topology[i+1], topology[i]
		nn.layers[i] = layer{
			weights: mat.NewDense(rows, cols, nil),
			biases:  mat.NewVecDense(rows, nil),
			out:     mat.NewVecDense(rows, nil),
		}
	}
	return nn
}

// NewFFNN creates a network with every weight and bias drawn uniformly
// from [-1, 1]. Values are drawn as float32 so that Weights and
// FromWeights round-trip exactly.
func NewFFNN(rng *rand.Rand, topology []int) (*FFNN, error) {
	if err := checkTopology(topology); err != nil {
		return nil, err
	}
	nn := newFFNN(topology)
	for _, l := range nn.layers {
		rows, cols := l.weights.Dims()
		for r := 0; r < rows; r++ {
			l.biases.SetVec(r, float64(rng.Float32()*2-1))
			for c := 0; c < cols; c++ {
				l.weights.Set(r, c, float64(rng.Float32()*2-1))
			}
		}
	}
	return nn, nil
}

// Topology returns the layer sizes, inputs first.
func (nn *FFNN) Topology() []int {
	return append([]int(nil), nn.topology...)
}

// NumWeights returns the number of parameters (weights plus biases) of a
// network with the given topology.
func NumWeights(topology []int) int {
	n := 0
	for i := 1; i < len(topology); i++ {
		n += topology[i] * (topology[i-1] + 1)
	}
	return n
}

// Forward computes the network output. Missing inputs read as 0 and
// extra inputs are ignored.
func (nn *FFNN) Forward(inputs []float32) []float32 {
	for i := 0; i < nn.in.Len(); i++ {
		var v float64
		if i < len(inputs) {
			v = float64(inputs[i])
		}
		nn.in.SetVec(i, v)
	}

	x := nn.in
	last := len(nn.layers) - 1
	for li := range nn.layers {
		l := &nn.layers[li]
		l.out.MulVec(l.weights, x)
		l.out.AddVec(l.out, l.biases)

		data := l.out.RawVector().Data
		for i := range data {
			if li == last {
				data[i] = math.Tanh(data[i])
			} else if data[i] < 0 {
				data[i] = 0
			}
		}
		x = l.out
	}

	out := make([]float32, x.Len())
	for i := range out {
		out[i] = float32(x.AtVec(i))
	}
	return out
}

// Weights flattens the network layer by layer, neuron by neuron: each
// neuron's bias followed by its input weights.
func (nn *FFNN) Weights() []float32 {
	w := make([]float32, 0, NumWeights(nn.topology))
	for _, l := range nn.layers {
		rows, cols := l.weights.Dims()
		for r := 0; r < rows; r++ {
			w = append(w, float32(l.biases.AtVec(r)))
			for c := 0; c < cols; c++ {
				w = append(w, float32(l.weights.At(r, c)))
			}
		}
	}
	return w
}

// FromWeights rebuilds a network from the layout produced by Weights.
func FromWeights(topology []int, weights []float32) (*FFNN, error) {
	if err := checkTopology(topology); err != nil {
		return nil, err
	}
	if want := NumWeights(topology); len(weights) != want {
		return nil, fmt.Errorf("%w: topology %v needs %d, got %d", ErrWeightCount, topology, want, len(weights))
	}

	nn := newFFNN(topology)
	k := 0
	for _, l := range nn.layers {
		rows, cols := l.weights.Dims()
		for r := 0; r < rows; r++ {
			l.biases.SetVec(r, float64(weights[k]))
			k++
			for c := 0; c < cols; c++ {
				l.weights.Set(r, c, float64(weights[k]))
				k++
			}
		}
	}
	return nn, nil
}

// Clone creates a deep copy of the network.
func (nn *FFNN) Clone() *FFNN {
	clone := newFFNN(nn.topology)
	for i, l := range nn.layers {
		clone.layers[i].weights.Copy(l.weights)
		clone.layers[i].biases.CopyVec(l.biases)
	}
	return clone
}
