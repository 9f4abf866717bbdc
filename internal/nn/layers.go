// internal/nn/layers.go
package nn

import (
	"fmt"
	"math"
	"math/rand"

	"tlmbench/internal/tensor"
)

// Embedding maps discrete token IDs to dense vectors by table lookup.
type Embedding struct {
	Weight *tensor.Tensor // (numEmbeddings, embedDim)

	numEmbeddings int
	embedDim      int
}

// NewEmbedding creates an embedding table with small normal init.
func NewEmbedding(numEmbeddings, embedDim int) *Embedding {
	w := tensor.New(numEmbeddings, embedDim)
	InitNormal(w, 0.02)
	return &Embedding{
		Weight:        w,
		numEmbeddings: numEmbeddings,
		embedDim:      embedDim,
	}
}

// Lookup returns the (len(ids), embedDim) tensor of embedding rows.
func (e *Embedding) Lookup(ids []int) *tensor.Tensor {
	out := tensor.New(len(ids), e.embedDim)
	dst := out.Data()
	src := e.Weight.Data()
	for i, id := range ids {
		if id < 0 || id >= e.numEmbeddings {
			panic(fmt.Sprintf("nn: token ID %d out of range [0,%d)", id, e.numEmbeddings))
		}
		copy(dst[i*e.embedDim:(i+1)*e.embedDim], src[id*e.embedDim:(id+1)*e.embedDim])
	}
	return out
}

// Linear applies y = xW + b.
type Linear struct {
	Weight *tensor.Tensor // (inFeatures, outFeatures)
	Bias   *tensor.Tensor // (outFeatures)
}

// NewLinear creates a linear layer with Xavier-scaled normal init.
func NewLinear(inFeatures, outFeatures int) *Linear {
	w := tensor.New(inFeatures, outFeatures)
	InitNormal(w, math.Sqrt(2.0/float64(inFeatures)))
	return &Linear{
		Weight: w,
		Bias:   tensor.New(outFeatures),
	}
}

// Forward computes xW + b for x of shape (T, inFeatures).
func (l *Linear) Forward(x *tensor.Tensor) *tensor.Tensor {
	out := tensor.MatMul(x, l.Weight)
	rows, cols := out.Dim(0), out.Dim(1)
	data := out.Data()
	bias := l.Bias.Data()
	for i := 0; i < rows; i++ {
		row := data[i*cols : (i+1)*cols]
		for j := range row {
			row[j] += bias[j]
		}
	}
	return out
}

// LayerNorm normalizes each row to zero mean and unit variance, then
// applies the learned gamma/beta affine transform.
type LayerNorm struct {
	Gamma *tensor.Tensor
	Beta  *tensor.Tensor

	dim int
	eps float64
}

// NewLayerNorm creates a layer norm over the trailing dimension.
func NewLayerNorm(dim int) *LayerNorm {
	gamma := tensor.New(dim)
	for i := range gamma.Data() {
		gamma.Data()[i] = 1.0
	}
	return &LayerNorm{
		Gamma: gamma,
		Beta:  tensor.New(dim),
		dim:   dim,
		eps:   1e-5,
	}
}

// Forward normalizes x of shape (T, dim) row by row.
func (ln *LayerNorm) Forward(x *tensor.Tensor) *tensor.Tensor {
	if x.Dims() != 2 || x.Dim(1) != ln.dim {
		panic(fmt.Sprintf("nn: LayerNorm expects (T,%d), got %v", ln.dim, x.Shape()))
	}
	rows := x.Dim(0)
	out := tensor.New(rows, ln.dim)
	src := x.Data()
	dst := out.Data()
	gamma := ln.Gamma.Data()
	beta := ln.Beta.Data()
	for i := 0; i < rows; i++ {
		row := src[i*ln.dim : (i+1)*ln.dim]
		mean := 0.0
		for _, v := range row {
			mean += v
		}
		mean /= float64(ln.dim)
		variance := 0.0
		for _, v := range row {
			d := v - mean
			variance += d * d
		}
		variance /= float64(ln.dim)
		inv := 1.0 / math.Sqrt(variance+ln.eps)
		outRow := dst[i*ln.dim : (i+1)*ln.dim]
		for j, v := range row {
			outRow[j] = (v-mean)*inv*gamma[j] + beta[j]
		}
	}
	return out
}

// Dropout zeroes activations with probability p during training and
// rescales the survivors by 1/(1-p). In eval mode, or with p == 0, it is a
// pass-through.
type Dropout struct {
	p        float64
	training bool
}

// NewDropout creates a dropout layer in eval mode.
func NewDropout(p float64) *Dropout {
	if p < 0 || p >= 1 {
		panic(fmt.Sprintf("nn: dropout probability %v out of [0,1)", p))
	}
	return &Dropout{p: p}
}

// SetTraining toggles train/eval behavior.
func (d *Dropout) SetTraining(training bool) { d.training = training }

// Forward applies inverted dropout.
func (d *Dropout) Forward(x *tensor.Tensor) *tensor.Tensor {
	if !d.training || d.p == 0 {
		return x
	}
	out := x.Clone()
	data := out.Data()
	keep := 1.0 - d.p
	for i := range data {
		if rand.Float64() < d.p {
			data[i] = 0
		} else {
			data[i] /= keep
		}
	}
	return out
}
