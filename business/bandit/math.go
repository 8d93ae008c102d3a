package bandit

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

// MaskedMean averages, per arm, only the rows of values in [0, rounds) where
// the arm was played. Arms never played yield a zero mean and a zero count.
func MaskedMean(values [][]float64, mask []Selection, rounds int) ([]float64, []int) {
	return meanWhere(values, mask, rounds, true)
}

// UnplayedMean is the complement of MaskedMean: it averages the rows where
// the arm was NOT played.
func UnplayedMean(values [][]float64, mask []Selection, rounds int) ([]float64, []int) {
	return meanWhere(values, mask, rounds, false)
}

func meanWhere(values [][]float64, mask []Selection, rounds int, played bool) ([]float64, []int) {
	if rounds > len(values) {
		rounds = len(values)
	}
	if rounds > len(mask) {
		rounds = len(mask)
	}
	if rounds <= 0 || len(values) == 0 {
		return nil, nil
	}

	arms := len(values[0])
	sums := make([]float64, arms)
	counts := make([]int, arms)
	for r := range rounds {
		row, flags := values[r], mask[r]
		for i := range arms {
			if flags[i] == played {
				sums[i] += row[i]
				counts[i]++
			}
		}
	}

	for i := range arms {
		if counts[i] > 0 {
			sums[i] /= float64(counts[i])
		}
	}
	return sums, counts
}

// Distance is the Euclidean norm of estimate - truth.
func Distance(estimate, truth []float64) float64 {
	return floats.Distance(estimate, truth, 2)
}

// topK returns the selection of the k highest scores. Ties keep the lower
// arm index first.
func topK(scores []float64, k int) Selection {
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})

	if k > len(idx) {
		k = len(idx)
	}
	return NewSelection(len(scores), idx[:k]...)
}

// argmax is topK with k = 1.
func argmax(scores []float64) Selection {
	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return NewSelection(len(scores), best)
}
