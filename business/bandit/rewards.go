package bandit

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// SampleReward draws one normalized binomial observation for an arm.
// A selected arm is observed at its true rate; an unselected arm only at the
// rate attenuated by its observability discount q.
func SampleReward(src rand.Source, rho, q float64, trials int, selected bool) float64 {
	p := rho
	if !selected {
		p = rho * q
	}
	return sampleRate(src, p, trials)
}

// sampleRate returns Binomial(trials, p) / trials. Degenerate rates are
// resolved without consuming the stream.
func sampleRate(src rand.Source, p float64, trials int) float64 {
	switch {
	case p <= 0:
		return 0
	case p >= 1:
		return 1
	}
	b := distuv.Binomial{N: float64(trials), P: p, Src: src}
	return b.Rand() / float64(trials)
}

// SampleRound samples every arm once for the given selection, in arm order.
func SampleRound(src rand.Source, p Problem, sel Selection) []float64 {
	x := make([]float64, p.Arms)
	for i := range p.Arms {
		x[i] = SampleReward(src, p.Rho[i], p.Q[i], p.Trials, sel[i])
	}
	return x
}
