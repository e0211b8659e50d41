// Package score computes gene signature scores over expression data.
package score

import (
	"errors"
	"fmt"

	"github.com/sigtools/sigscore/internal/expr"
	"github.com/sigtools/sigscore/internal/sig"
)

var (
	// ErrEmptySignature is returned when a signature has no genes to score.
	ErrEmptySignature = errors.New("signature has no genes")

	// ErrZeroWeightSum is returned when the weights of a scored signature
	// cancel out and the weighted average is undefined.
	ErrZeroWeightSum = errors.New("signature weights sum to zero")
)

// Average scores one sample: the mean expression of the signature's genes,
// weighted by the per-gene weights when weighted is true. Every signature
// gene must be present in v; extra entries in v are ignored. Inputs are not
// modified.
func Average(s *sig.Signature, v *expr.Vector, weighted bool) (float64, error) {
	genes := s.Genes()
	if len(genes) == 0 {
		return 0, ErrEmptySignature
	}

	var sum, weightSum float64
	for _, g := range genes {
		val, err := v.Value(g)
		if err != nil {
			return 0, fmt.Errorf("lookup signature gene: %w", err)
		}
		w := 1.0
		if weighted {
			w, _ = s.Weight(g)
		}
		sum += val * w
		weightSum += w
	}
	if weightSum == 0 {
		return 0, ErrZeroWeightSum
	}

	return sum / weightSum, nil
}

// AverageFrame scores every sample of a frame, returning one score per
// sample as a vector labeled by sample ID in frame row order.
func AverageFrame(s *sig.Signature, f *expr.Frame, weighted bool) (*expr.Vector, error) {
	samples := f.Rows()
	scores := make([]float64, 0, len(samples))
	for _, sample := range samples {
		row, err := f.Row(sample)
		if err != nil {
			return nil, err
		}
		sc, err := Average(s, row, weighted)
		if err != nil {
			return nil, fmt.Errorf("sample %q: %w", sample, err)
		}
		scores = append(scores, sc)
	}
	return expr.NewVector(samples, scores)
}

// Call applies the signature bias to a score and thresholds at zero,
// turning the average into a binary classification.
func Call(s *sig.Signature, score float64) bool {
	return score+s.Bias() > 0
}
