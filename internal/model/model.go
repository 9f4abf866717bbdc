// internal/model/model.go
// Package model defines the GPT-2-style benchmark language model as a thin
// sequential composition of nn primitives. The only logic that lives here is
// weight-initialization boilerplate and the cached causal attention mask;
// everything else delegates to internal/nn.
package model

import (
	"math"

	"tlmbench/internal/appconfig"
	"tlmbench/internal/nn"
	"tlmbench/internal/tensor"
)

// maxPositionalLen bounds the precomputed sinusoidal table.
const maxPositionalLen = 5000

// EmbeddingLayer wraps nn.Embedding with uniform weight initialization and
// scales lookups by sqrt(embedDim).
type EmbeddingLayer struct {
	embed    *nn.Embedding
	ninpSqrt float64
}

// NewEmbeddingLayer creates the embedding table with U(-initRange, initRange)
// weights.
func NewEmbeddingLayer(vocabSize, embedDim int, initRange float64) *EmbeddingLayer {
	embed := nn.NewEmbedding(vocabSize, embedDim)
	nn.InitUniform(embed.Weight, initRange)
	return &EmbeddingLayer{
		embed:    embed,
		ninpSqrt: math.Sqrt(float64(embedDim)),
	}
}

// Forward maps token IDs to scaled embedding vectors of shape (T, embedDim).
func (e *EmbeddingLayer) Forward(ids []int) *tensor.Tensor {
	return tensor.Scale(e.embed.Lookup(ids), e.ninpSqrt)
}

// PositionalEncodingLayer adds the fixed sinusoidal position signal to its
// input and applies dropout.
type PositionalEncodingLayer struct {
	pe   *tensor.Tensor // (maxPositionalLen, embedDim)
	drop *nn.Dropout
}

// NewPositionalEncodingLayer precomputes the sinusoidal table.
func NewPositionalEncodingLayer(embedDim int, dropout float64) *PositionalEncodingLayer {
	pe := tensor.New(maxPositionalLen, embedDim)
	for pos := 0; pos < maxPositionalLen; pos++ {
		for i := 0; i < embedDim; i += 2 {
			div := math.Exp(float64(i) * -math.Log(10000.0) / float64(embedDim))
			angle := float64(pos) * div
			pe.Set(math.Sin(angle), pos, i)
			if i+1 < embedDim {
				pe.Set(math.Cos(angle), pos, i+1)
			}
		}
	}
	return &PositionalEncodingLayer{
		pe:   pe,
		drop: nn.NewDropout(dropout),
	}
}

// Forward adds pe[:T] to x of shape (T, embedDim).
func (p *PositionalEncodingLayer) Forward(x *tensor.Tensor) *tensor.Tensor {
	seqLen, embedDim := x.Dim(0), x.Dim(1)
	out := x.Clone()
	data := out.Data()
	pe := p.pe.Data()
	for t := 0; t < seqLen; t++ {
		row := data[t*embedDim : (t+1)*embedDim]
		peRow := pe[t*embedDim : (t+1)*embedDim]
		for j := range row {
			row[j] += peRow[j]
		}
	}
	return p.drop.Forward(out)
}

// SetTraining toggles the layer's dropout.
func (p *PositionalEncodingLayer) SetTraining(training bool) { p.drop.SetTraining(training) }

// TransformerDecoderLayer is an encoder-style block applied causally. It
// owns an additive causal mask that is recomputed only when the sequence
// length changes.
type TransformerDecoderLayer struct {
	block   *nn.EncoderLayer
	srcMask *tensor.Tensor
}

// NewTransformerDecoderLayer wraps an nn.EncoderLayer.
func NewTransformerDecoderLayer(embedDim, numHeads, ffHidden int, dropout float64) *TransformerDecoderLayer {
	return &TransformerDecoderLayer{
		block: nn.NewEncoderLayer(embedDim, numHeads, ffHidden, dropout),
	}
}

// causalMask builds a (size, size) additive mask: 0 on and below the
// diagonal, -Inf above it, so no position attends to its future.
func causalMask(size int) *tensor.Tensor {
	mask := tensor.New(size, size)
	negInf := math.Inf(-1)
	for i := 0; i < size; i++ {
		for j := i + 1; j < size; j++ {
			mask.Set(negInf, i, j)
		}
	}
	return mask
}

// Forward applies the block under the cached causal mask.
func (d *TransformerDecoderLayer) Forward(x *tensor.Tensor) *tensor.Tensor {
	seqLen := x.Dim(0)
	if d.srcMask == nil || d.srcMask.Dim(0) != seqLen {
		d.srcMask = causalMask(seqLen)
	}
	return d.block.ForwardMasked(x, d.srcMask)
}

// SetTraining toggles dropout inside the wrapped block.
func (d *TransformerDecoderLayer) SetTraining(training bool) { d.block.SetTraining(training) }

// LinearLayer wraps nn.Linear with zeroed bias and uniform weight init.
type LinearLayer struct {
	linear *nn.Linear
}

// NewLinearLayer creates the vocabulary projection.
func NewLinearLayer(inFeatures, outFeatures int, initRange float64) *LinearLayer {
	linear := nn.NewLinear(inFeatures, outFeatures)
	nn.InitUniform(linear.Weight, initRange)
	nn.Zero(linear.Bias)
	return &LinearLayer{linear: linear}
}

// Forward projects x to (T, outFeatures).
func (l *LinearLayer) Forward(x *tensor.Tensor) *tensor.Tensor {
	return l.linear.Forward(x)
}

// TransformerLM is the benchmark language model: embedding, positional
// encoding, a stack of causal decoder blocks, and a final projection to
// vocabulary logits.
type TransformerLM struct {
	embed    *EmbeddingLayer
	pos      *PositionalEncodingLayer
	pipeline *nn.Sequential
	decoders []*TransformerDecoderLayer

	vocabSize int
}

// New assembles the model from the benchmark configuration.
func New(cfg appconfig.Config) *TransformerLM {
	pos := NewPositionalEncodingLayer(cfg.EmbedDim, cfg.Dropout)
	pipeline := nn.NewSequential(pos)
	decoders := make([]*TransformerDecoderLayer, 0, cfg.NumLayers)
	for i := 0; i < cfg.NumLayers; i++ {
		d := NewTransformerDecoderLayer(cfg.EmbedDim, cfg.NumHeads, cfg.FFHidden, cfg.Dropout)
		decoders = append(decoders, d)
		pipeline.Append(d)
	}
	pipeline.Append(NewLinearLayer(cfg.EmbedDim, cfg.VocabSize, cfg.InitRange))

	return &TransformerLM{
		embed:     NewEmbeddingLayer(cfg.VocabSize, cfg.EmbedDim, cfg.InitRange),
		pos:       pos,
		pipeline:  pipeline,
		decoders:  decoders,
		vocabSize: cfg.VocabSize,
	}
}

// VocabSize returns the size of the output distribution.
func (m *TransformerLM) VocabSize() int { return m.vocabSize }

// SetTraining toggles dropout across the positional encoding and all
// decoder blocks.
func (m *TransformerLM) SetTraining(training bool) {
	m.pos.SetTraining(training)
	for _, d := range m.decoders {
		d.SetTraining(training)
	}
}

// Forward maps token IDs to (len(ids), vocabSize) logits.
func (m *TransformerLM) Forward(ids []int) *tensor.Tensor {
	return m.pipeline.Forward(m.embed.Forward(ids))
}
