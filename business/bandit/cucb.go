package bandit

import "math/rand/v2"

// CUCB selects the K arms with the highest clipped upper confidence bound.
type CUCB struct {
	armModel
}

func NewCUCB(p Problem, src rand.Source) *CUCB {
	return &CUCB{armModel{problem: p, src: src}}
}

func (c *CUCB) Name() string { return PolicyCUCB }

func (c *CUCB) StopsEarly() bool { return true }

// Initialize starts optimistic: every arm at the upper probability bound,
// with no visits recorded. Unlike UCB1 and LLR there is no initial look at
// the true rates, so the zero-visit guard drives CUCB's first selections.
func (c *CUCB) Initialize(visits []int) []float64 {
	est := make([]float64, c.problem.Arms)
	for i := range est {
		est[i] = 1
	}
	return est
}

// UpdateRule turns μ̂ into μ̄, never above 1.
func (c *CUCB) UpdateRule(round int, estimate []float64, visits []int) []float64 {
	bounds := make([]float64, len(estimate))
	for i, mean := range estimate {
		bounds[i] = cucbBound(mean, round, visits[i])
	}
	return bounds
}

func (c *CUCB) Oracle(estimate []float64, round int, visits []int) Selection {
	return topK(c.UpdateRule(round, estimate, visits), c.problem.Select)
}

func (c *CUCB) Update(h *History, sel Selection, round int) []float64 {
	return c.observe(h, sel, round)
}
