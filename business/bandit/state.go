package bandit

// Selection is the oracle's indicator vector for one round.
type Selection []bool

func NewSelection(arms int, idx ...int) Selection {
	s := make(Selection, arms)
	for _, i := range idx {
		s[i] = true
	}
	return s
}

// Count returns how many arms are selected.
func (s Selection) Count() int {
	n := 0
	for _, on := range s {
		if on {
			n++
		}
	}
	return n
}

// Indices returns the selected arm indices in ascending order.
func (s Selection) Indices() []int {
	out := make([]int, 0, s.Count())
	for i, on := range s {
		if on {
			out = append(out, i)
		}
	}
	return out
}

// History holds the observation matrix X and the play mask A of one run.
// Row r corresponds to round r+1. Rows are allocated as rounds execute so a
// run that converges early never pays for the full horizon.
type History struct {
	Arms         int
	Observations [][]float64
	Plays        []Selection
}

func NewHistory(arms, horizon int) *History {
	return &History{
		Arms:         arms,
		Observations: make([][]float64, 0, horizon),
		Plays:        make([]Selection, 0, horizon),
	}
}

// Rounds is the number of rounds with a recorded selection.
func (h *History) Rounds() int {
	return len(h.Plays)
}

// RecordSelection stores the selection for the 1-indexed round.
func (h *History) RecordSelection(round int, sel Selection) {
	for len(h.Plays) < round {
		h.Plays = append(h.Plays, make(Selection, h.Arms))
	}
	h.Plays[round-1] = sel
}

// RecordObservation stores the sampled rewards for the 1-indexed round.
func (h *History) RecordObservation(round int, x []float64) {
	for len(h.Observations) < round {
		h.Observations = append(h.Observations, make([]float64, h.Arms))
	}
	h.Observations[round-1] = x
}

// PlayCounts returns, per arm, the number of rounds in which it was selected.
func (h *History) PlayCounts() []int {
	counts := make([]int, h.Arms)
	for _, row := range h.Plays {
		for i, on := range row {
			if on {
				counts[i]++
			}
		}
	}
	return counts
}
