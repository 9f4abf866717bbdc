// internal/nn/attention.go
package nn

import (
	"fmt"
	"math"

	"tlmbench/internal/tensor"
)

// SelfAttention implements multi-head scaled dot-product self-attention
// over a (T, embedDim) input, with an optional additive attention mask.
type SelfAttention struct {
	Wq, Wk, Wv, Wo *tensor.Tensor

	embedDim int
	numHeads int
	headDim  int
}

// NewSelfAttention creates the four projection matrices. embedDim must be
// divisible by numHeads.
func NewSelfAttention(embedDim, numHeads int) *SelfAttention {
	if embedDim%numHeads != 0 {
		panic(fmt.Sprintf("nn: embedDim (%d) must be divisible by numHeads (%d)", embedDim, numHeads))
	}
	std := math.Sqrt(2.0 / float64(embedDim))
	newProj := func() *tensor.Tensor {
		w := tensor.New(embedDim, embedDim)
		InitNormal(w, std)
		return w
	}
	return &SelfAttention{
		Wq:       newProj(),
		Wk:       newProj(),
		Wv:       newProj(),
		Wo:       newProj(),
		embedDim: embedDim,
		numHeads: numHeads,
		headDim:  embedDim / numHeads,
	}
}

// Forward computes attention for x of shape (T, embedDim). mask, when
// non-nil, must be (T, T) and is added to the raw scores before softmax;
// -Inf entries block attention to those positions.
func (a *SelfAttention) Forward(x, mask *tensor.Tensor) *tensor.Tensor {
	if x.Dims() != 2 || x.Dim(1) != a.embedDim {
		panic(fmt.Sprintf("nn: attention expects (T,%d), got %v", a.embedDim, x.Shape()))
	}
	seqLen := x.Dim(0)
	if mask != nil && (mask.Dim(0) != seqLen || mask.Dim(1) != seqLen) {
		panic(fmt.Sprintf("nn: mask shape %v does not match sequence length %d", mask.Shape(), seqLen))
	}

	q := tensor.MatMul(x, a.Wq)
	k := tensor.MatMul(x, a.Wk)
	v := tensor.MatMul(x, a.Wv)

	out := tensor.New(seqLen, a.embedDim)
	scale := 1.0 / math.Sqrt(float64(a.headDim))

	for h := 0; h < a.numHeads; h++ {
		qh := headSlice(q, h, a.headDim)
		kh := headSlice(k, h, a.headDim)
		vh := headSlice(v, h, a.headDim)

		scores := tensor.Scale(tensor.MatMul(qh, tensor.Transpose(kh)), scale)
		if mask != nil {
			scores = tensor.Add(scores, mask)
		}
		weights := tensor.Softmax(scores)
		attended := tensor.MatMul(weights, vh) // (T, headDim)

		dst := out.Data()
		src := attended.Data()
		for t := 0; t < seqLen; t++ {
			copy(dst[t*a.embedDim+h*a.headDim:t*a.embedDim+(h+1)*a.headDim],
				src[t*a.headDim:(t+1)*a.headDim])
		}
	}

	return tensor.MatMul(out, a.Wo)
}

// headSlice extracts head h's columns from a (T, embedDim) projection.
func headSlice(x *tensor.Tensor, h, headDim int) *tensor.Tensor {
	seqLen, embedDim := x.Dim(0), x.Dim(1)
	out := tensor.New(seqLen, headDim)
	src := x.Data()
	dst := out.Data()
	for t := 0; t < seqLen; t++ {
		copy(dst[t*headDim:(t+1)*headDim],
			src[t*embedDim+h*headDim:t*embedDim+(h+1)*headDim])
	}
	return out
}

// EncoderLayer is a post-norm transformer encoder block: self-attention and
// a position-wise feed-forward network, each wrapped in a residual
// connection followed by layer normalization.
type EncoderLayer struct {
	attn *SelfAttention
	ln1  *LayerNorm
	ln2  *LayerNorm
	ff1  *Linear
	ff2  *Linear
	drop *Dropout
}

// NewEncoderLayer creates an encoder block with the given dimensions.
func NewEncoderLayer(embedDim, numHeads, ffHidden int, dropout float64) *EncoderLayer {
	return &EncoderLayer{
		attn: NewSelfAttention(embedDim, numHeads),
		ln1:  NewLayerNorm(embedDim),
		ln2:  NewLayerNorm(embedDim),
		ff1:  NewLinear(embedDim, ffHidden),
		ff2:  NewLinear(ffHidden, embedDim),
		drop: NewDropout(dropout),
	}
}

// SetTraining toggles dropout behavior for the block.
func (e *EncoderLayer) SetTraining(training bool) { e.drop.SetTraining(training) }

// Forward runs the block without a mask.
func (e *EncoderLayer) Forward(x *tensor.Tensor) *tensor.Tensor {
	return e.ForwardMasked(x, nil)
}

// ForwardMasked runs the block with an additive attention mask.
func (e *EncoderLayer) ForwardMasked(x, mask *tensor.Tensor) *tensor.Tensor {
	attended := e.drop.Forward(e.attn.Forward(x, mask))
	x = e.ln1.Forward(tensor.Add(x, attended))

	hidden := tensor.ReLU(e.ff1.Forward(x))
	ff := e.drop.Forward(e.ff2.Forward(e.drop.Forward(hidden)))
	return e.ln2.Forward(tensor.Add(x, ff))
}
