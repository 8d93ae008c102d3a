//go:build !integration

package bandit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/stat"
)

func TestConvergence_ConcentratesOnBestArms(t *testing.T) {
	p := patrolProblem()
	cfg := RunConfig{Horizon: 3000, NoEarlyStop: true}

	t.Run(PolicyUCB1, func(t *testing.T) {
		res := runPolicy(t, PolicyUCB1, p, cfg, 123)
		v := res.Visits
		t.Logf("[UCB1] visits=%v", v)

		assert.Greater(t, v[2], 2*(v[0]+v[1]+v[3]))
		assert.Greater(t, v[1], v[0])
		assertTrendDown(t, res.Distances)
	})

	t.Run(PolicyLLR, func(t *testing.T) {
		res := runPolicy(t, PolicyLLR, p, cfg, 123)
		v := res.Visits
		t.Logf("[LLR] visits=%v", v)

		assert.Greater(t, v[2], v[1])
		assert.Greater(t, v[1], v[3])
		assert.Greater(t, v[1], v[0])
		assertTrendDown(t, res.Distances)
	})
}

// assertTrendDown compares the moving average of the opening rounds with
// the closing ones; single rounds may move either way.
func assertTrendDown(t *testing.T, distances []float64) {
	t.Helper()
	head := stat.Mean(distances[:10], nil)
	tail := stat.Mean(distances[len(distances)-100:], nil)
	t.Logf("distance head=%.4f tail=%.4f", head, tail)
	assert.Greater(t, head, tail)
}
