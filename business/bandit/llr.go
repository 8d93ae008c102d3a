package bandit

import "math/rand/v2"

// LLR selects the K arms with the highest (L+1)-scaled confidence bound.
// L is K, or M when under-reporting lets any arm be estimated.
type LLR struct {
	armModel
	width int
}

func NewLLR(p Problem, src rand.Source) *LLR {
	l := p.Select
	if p.Underreporting {
		l = p.Arms
	}
	return &LLR{armModel: armModel{problem: p, src: src}, width: l}
}

func (b *LLR) Name() string { return PolicyLLR }

func (b *LLR) StopsEarly() bool { return true }

func (b *LLR) Initialize(visits []int) []float64 {
	return b.initialLook(visits)
}

func (b *LLR) Oracle(estimate []float64, round int, visits []int) Selection {
	scores := make([]float64, len(estimate))
	for i, mean := range estimate {
		scores[i] = llrScore(mean, round, visits[i], b.width)
	}
	return topK(scores, b.problem.Select)
}

func (b *LLR) Update(h *History, sel Selection, round int) []float64 {
	return b.observe(h, sel, round)
}
