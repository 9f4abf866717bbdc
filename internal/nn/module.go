// internal/nn/module.go
// Package nn provides the neural-network layer primitives the benchmark
// model composes: embeddings, linear projections, layer normalization,
// dropout, a transformer encoder block, the cross-entropy criterion, and a
// gradient scaler. The model wrappers in internal/model delegate nearly all
// behavior here.
package nn

import (
	"math/rand"

	"tlmbench/internal/tensor"
)

// Module is a layer that maps an activation tensor to an activation tensor.
type Module interface {
	Forward(x *tensor.Tensor) *tensor.Tensor
}

// Sequential applies a fixed list of modules in order.
type Sequential struct {
	layers []Module
}

// NewSequential builds a sequential pipeline from the given layers.
func NewSequential(layers ...Module) *Sequential {
	return &Sequential{layers: layers}
}

// Append adds a layer to the end of the pipeline.
func (s *Sequential) Append(m Module) {
	s.layers = append(s.layers, m)
}

// Len returns the number of layers in the pipeline.
func (s *Sequential) Len() int { return len(s.layers) }

// Forward runs x through every layer in order.
func (s *Sequential) Forward(x *tensor.Tensor) *tensor.Tensor {
	for _, layer := range s.layers {
		x = layer.Forward(x)
	}
	return x
}

// InitUniform fills t with samples from U(-r, r).
func InitUniform(t *tensor.Tensor, r float64) {
	data := t.Data()
	for i := range data {
		data[i] = (rand.Float64()*2 - 1) * r
	}
}

// InitNormal fills t with N(0, std) samples.
func InitNormal(t *tensor.Tensor, std float64) {
	data := t.Data()
	for i := range data {
		data[i] = rand.NormFloat64() * std
	}
}

// Zero clears t in place.
func Zero(t *tensor.Tensor) {
	data := t.Data()
	for i := range data {
		data[i] = 0
	}
}
