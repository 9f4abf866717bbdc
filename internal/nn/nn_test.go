package nn

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tlmbench/internal/tensor"
)

func TestEmbeddingLookup(t *testing.T) {
	e := NewEmbedding(4, 3)
	out := e.Lookup([]int{2, 0, 2})
	require.Equal(t, []int{3, 3}, out.Shape())
	for j := 0; j < 3; j++ {
		assert.Equal(t, e.Weight.At(2, j), out.At(0, j))
		assert.Equal(t, e.Weight.At(0, j), out.At(1, j))
		assert.Equal(t, out.At(0, j), out.At(2, j))
	}
	require.Panics(t, func() { e.Lookup([]int{4}) })
	require.Panics(t, func() { e.Lookup([]int{-1}) })
}

func TestLinearForward(t *testing.T) {
	l := &Linear{
		Weight: tensor.FromSlice([]float64{1, 2, 3, 4, 5, 6}, 2, 3),
		Bias:   tensor.FromSlice([]float64{10, 20, 30}, 3),
	}
	x := tensor.FromSlice([]float64{1, 1}, 1, 2)
	out := l.Forward(x)
	require.Equal(t, []int{1, 3}, out.Shape())
	assert.Equal(t, 15.0, out.At(0, 0)) // 1+4+10
	assert.Equal(t, 27.0, out.At(0, 1)) // 2+5+20
	assert.Equal(t, 39.0, out.At(0, 2)) // 3+6+30
}

func TestLayerNormRowsNormalized(t *testing.T) {
	ln := NewLayerNorm(4)
	x := tensor.FromSlice([]float64{1, 2, 3, 4, -5, 0, 5, 10}, 2, 4)
	out := ln.Forward(x)

	for r := 0; r < 2; r++ {
		mean, variance := 0.0, 0.0
		for c := 0; c < 4; c++ {
			mean += out.At(r, c)
		}
		mean /= 4
		for c := 0; c < 4; c++ {
			d := out.At(r, c) - mean
			variance += d * d
		}
		variance /= 4
		assert.InDelta(t, 0.0, mean, 1e-9)
		assert.InDelta(t, 1.0, variance, 1e-4)
	}
}

func TestLayerNormAffine(t *testing.T) {
	ln := NewLayerNorm(2)
	ln.Gamma.Set(0, 0)
	ln.Gamma.Set(0, 1)
	ln.Beta.Set(7, 0)
	ln.Beta.Set(7, 1)
	out := ln.Forward(tensor.FromSlice([]float64{3, 9}, 1, 2))
	assert.Equal(t, 7.0, out.At(0, 0))
	assert.Equal(t, 7.0, out.At(0, 1))
}

func TestDropoutEvalIsPassThrough(t *testing.T) {
	d := NewDropout(0.5)
	x := tensor.FromSlice([]float64{1, 2, 3}, 3)
	out := d.Forward(x)
	assert.Same(t, x, out)
}

func TestDropoutZeroProbabilityIsPassThrough(t *testing.T) {
	d := NewDropout(0)
	d.SetTraining(true)
	x := tensor.FromSlice([]float64{1, 2, 3}, 3)
	assert.Same(t, x, d.Forward(x))
}

func TestDropoutTrainingZeroesAndRescales(t *testing.T) {
	d := NewDropout(0.5)
	d.SetTraining(true)
	x := tensor.New(1, 1000)
	for i := range x.Data() {
		x.Data()[i] = 1.0
	}
	out := d.Forward(x)
	require.NotSame(t, x, out)

	zeros, kept := 0, 0
	for _, v := range out.Data() {
		switch v {
		case 0:
			zeros++
		case 2.0: // 1 / (1 - 0.5)
			kept++
		default:
			t.Fatalf("unexpected dropout output %v", v)
		}
	}
	assert.Equal(t, 1000, zeros+kept)
	assert.Greater(t, zeros, 300)
	assert.Greater(t, kept, 300)
}

func TestDropoutRejectsBadProbability(t *testing.T) {
	require.Panics(t, func() { NewDropout(-0.1) })
	require.Panics(t, func() { NewDropout(1.0) })
}

func TestSelfAttentionShapes(t *testing.T) {
	a := NewSelfAttention(8, 2)
	x := tensor.New(5, 8)
	InitNormal(x, 1.0)
	out := a.Forward(x, nil)
	require.Equal(t, []int{5, 8}, out.Shape())
}

func TestSelfAttentionRejectsIndivisibleHeads(t *testing.T) {
	require.Panics(t, func() { NewSelfAttention(10, 3) })
}

func TestSelfAttentionCausalMaskBlocksFuture(t *testing.T) {
	a := NewSelfAttention(8, 2)

	mask := tensor.New(4, 4)
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			mask.Set(math.Inf(-1), i, j)
		}
	}

	x1 := tensor.New(4, 8)
	InitNormal(x1, 1.0)
	x2 := x1.Clone()
	// Perturb only the last position; earlier outputs must not change.
	for j := 0; j < 8; j++ {
		x2.Set(x2.At(3, j)+5.0, 3, j)
	}

	out1 := a.Forward(x1, mask)
	out2 := a.Forward(x2, mask)
	for i := 0; i < 3; i++ {
		for j := 0; j < 8; j++ {
			assert.InDelta(t, out1.At(i, j), out2.At(i, j), 1e-12,
				"position %d leaked information from the future", i)
		}
	}
}

func TestEncoderLayerShapeAndFiniteness(t *testing.T) {
	e := NewEncoderLayer(8, 2, 16, 0)
	x := tensor.New(6, 8)
	InitNormal(x, 1.0)
	out := e.Forward(x)
	require.Equal(t, []int{6, 8}, out.Shape())
	for _, v := range out.Data() {
		require.False(t, math.IsNaN(v) || math.IsInf(v, 0))
	}
}

func TestSequentialOrder(t *testing.T) {
	s := NewSequential(
		&Linear{
			Weight: tensor.FromSlice([]float64{2}, 1, 1),
			Bias:   tensor.New(1),
		},
		&Linear{
			Weight: tensor.FromSlice([]float64{1}, 1, 1),
			Bias:   tensor.FromSlice([]float64{3}, 1),
		},
	)
	require.Equal(t, 2, s.Len())
	out := s.Forward(tensor.FromSlice([]float64{5}, 1, 1))
	// (5*2) then (+3)
	assert.Equal(t, 13.0, out.At(0, 0))
}

func TestCrossEntropyUniformLogits(t *testing.T) {
	vocab := 16
	logits := tensor.New(3, vocab)
	loss := CrossEntropyLoss{}.Loss(logits, []int{0, 5, 15})
	assert.InDelta(t, math.Log(float64(vocab)), loss, 1e-12)
}

func TestCrossEntropyConfidentPrediction(t *testing.T) {
	logits := tensor.New(1, 4)
	logits.Set(100, 0, 2)
	loss := CrossEntropyLoss{}.Loss(logits, []int{2})
	assert.InDelta(t, 0.0, loss, 1e-9)
}

func TestCrossEntropyPanicsOnBadTargets(t *testing.T) {
	logits := tensor.New(2, 4)
	require.Panics(t, func() { CrossEntropyLoss{}.Loss(logits, []int{0}) })
	require.Panics(t, func() { CrossEntropyLoss{}.Loss(logits, []int{0, 4}) })
}

func TestNewCriterion(t *testing.T) {
	c, err := NewCriterion(CriterionCrossEntropy)
	require.NoError(t, err)
	require.NotNil(t, c)

	_, err = NewCriterion("hinge")
	require.Error(t, err)
}

func TestGradScalerScaleUnscale(t *testing.T) {
	s := NewGradScaler()
	assert.Equal(t, 65536.0, s.CurrentScale())
	assert.Equal(t, 65536.0*2.5, s.Scale(2.5))
	assert.InDelta(t, 2.5, s.Unscale(s.Scale(2.5)), 1e-12)
}

func TestGradScalerBackoffOnOverflow(t *testing.T) {
	s := NewGradScaler()
	s.Update(math.Inf(1))
	assert.Equal(t, 32768.0, s.CurrentScale())
	s.Update(math.NaN())
	assert.Equal(t, 16384.0, s.CurrentScale())
}

func TestGradScalerGrowthAfterInterval(t *testing.T) {
	s := NewGradScaler()
	for i := 0; i < 2000; i++ {
		s.Update(1.0)
	}
	assert.Equal(t, 131072.0, s.CurrentScale())
}

func TestInitUniformRange(t *testing.T) {
	w := tensor.New(50, 50)
	InitUniform(w, 0.1)
	for _, v := range w.Data() {
		require.LessOrEqual(t, math.Abs(v), 0.1)
	}
}

func TestZero(t *testing.T) {
	w := tensor.FromSlice([]float64{1, 2, 3}, 3)
	Zero(w)
	for _, v := range w.Data() {
		require.Equal(t, 0.0, v)
	}
}
