package bandit

import "math/rand/v2"

// UCB1 plays a single arm per round regardless of K.
type UCB1 struct {
	armModel
}

func NewUCB1(p Problem, src rand.Source) *UCB1 {
	p.Select = 1
	return &UCB1{armModel{problem: p, src: src}}
}

func (u *UCB1) Name() string { return PolicyUCB1 }

func (u *UCB1) StopsEarly() bool { return false }

func (u *UCB1) Initialize(visits []int) []float64 {
	return u.initialLook(visits)
}

func (u *UCB1) Oracle(estimate []float64, round int, visits []int) Selection {
	scores := make([]float64, len(estimate))
	for i, mean := range estimate {
		scores[i] = ucb1Score(mean, round, visits[i])
	}
	return argmax(scores)
}

func (u *UCB1) Update(h *History, sel Selection, round int) []float64 {
	return u.observe(h, sel, round)
}
