// internal/nn/loss.go
package nn

import (
	"fmt"
	"math"

	"tlmbench/internal/tensor"
)

// CriterionCrossEntropy names the cross-entropy criterion in configuration.
const CriterionCrossEntropy = "cross_entropy"

// Criterion scores model logits against target token IDs.
type Criterion interface {
	Loss(logits *tensor.Tensor, targets []int) float64
}

// NewCriterion resolves a criterion by its configuration name.
func NewCriterion(name string) (Criterion, error) {
	switch name {
	case CriterionCrossEntropy:
		return CrossEntropyLoss{}, nil
	default:
		return nil, fmt.Errorf("nn: unknown criterion %q", name)
	}
}

// CrossEntropyLoss computes mean negative log-likelihood over positions.
type CrossEntropyLoss struct{}

// Loss expects logits of shape (T, vocabSize) and len(targets) == T.
// Uses the log-sum-exp form for numerical stability.
func (CrossEntropyLoss) Loss(logits *tensor.Tensor, targets []int) float64 {
	if logits.Dims() != 2 {
		panic("nn: cross entropy expects 2D logits")
	}
	seqLen, vocab := logits.Dim(0), logits.Dim(1)
	if len(targets) != seqLen {
		panic(fmt.Sprintf("nn: %d targets for %d positions", len(targets), seqLen))
	}
	data := logits.Data()
	total := 0.0
	for t := 0; t < seqLen; t++ {
		row := data[t*vocab : (t+1)*vocab]
		target := targets[t]
		if target < 0 || target >= vocab {
			panic(fmt.Sprintf("nn: target %d out of vocabulary range [0,%d)", target, vocab))
		}
		maxVal := row[0]
		for _, v := range row[1:] {
			if v > maxVal {
				maxVal = v
			}
		}
		sumExp := 0.0
		for _, v := range row {
			sumExp += math.Exp(v - maxVal)
		}
		// -log(softmax(target)) = log(sum exp) + max - logit[target]
		total += math.Log(sumExp) + maxVal - row[target]
	}
	return total / float64(seqLen)
}
