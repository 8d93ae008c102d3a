package experiment

import (
	"math"
	"math/rand/v2"

	"patrolBandit/business/bandit"
)

// GenerateProblem draws ρ then q from src, consuming it in that order.
// K is SelectFraction of M, at least one.
func GenerateProblem(src rand.Source, arms int, c Config) bandit.Problem {
	r := rand.New(src)

	rho := make([]float64, arms)
	for i := range rho {
		rho[i] = float64(c.RateLow+r.IntN(c.RateHigh-c.RateLow)) / float64(c.Trials)
	}
	q := make([]float64, arms)
	for i := range q {
		q[i] = r.Float64()
	}

	k := int(math.Floor(float64(arms) * c.SelectFraction))
	if k < 1 {
		k = 1
	}

	return bandit.Problem{
		Arms:           arms,
		Select:         k,
		Trials:         c.Trials,
		Rho:            rho,
		Q:              q,
		Underreporting: c.Underreporting,
	}
}

// streamID keeps the per-policy streams of a parallel sweep disjoint
// across sizes.
func streamID(arms, policy int) uint64 {
	return uint64(arms)<<8 | uint64(policy+1)
}
