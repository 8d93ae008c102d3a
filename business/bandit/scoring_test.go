package bandit

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCUCBUpdateRule_NeverAboveOne(t *testing.T) {
	c := NewCUCB(Problem{Arms: 3, Select: 1, Trials: 10}, rand.NewPCG(1, 1))
	for round := 1; round <= 200; round++ {
		est := []float64{0, 0.5, 1}
		bounds := c.UpdateRule(round, est, []int{0, round / 2, round})
		for i, b := range bounds {
			assert.LessOrEqual(t, b, 1.0, "round %d arm %d", round, i)
			assert.GreaterOrEqual(t, b, est[i])
		}
	}
}

func TestScores_ZeroVisitsStayFinite(t *testing.T) {
	for _, round := range []int{1, 2, 100} {
		u := ucb1Score(0.3, round, 0)
		l := llrScore(0.3, round, 0, 4)
		c := cucbBound(0.3, round, 0)
		assert.False(t, math.IsInf(u, 0) || math.IsNaN(u))
		assert.False(t, math.IsInf(l, 0) || math.IsNaN(l))
		assert.False(t, math.IsInf(c, 0) || math.IsNaN(c))
	}
	// an unplayed arm outranks a well explored one once ln t > 0
	assert.Greater(t, ucb1Score(0, 2, 0), ucb1Score(0.9, 2, 50))
}

func TestScores_FirstRoundHasNoBonus(t *testing.T) {
	assert.Equal(t, 0.4, ucb1Score(0.4, 1, 3))
	assert.Equal(t, 0.4, llrScore(0.4, 1, 3, 2))
}

func TestLLR_UnderreportingWidensBonus(t *testing.T) {
	p := Problem{Arms: 10, Select: 2, Trials: 10}
	narrow := NewLLR(p, rand.NewPCG(1, 1))
	p.Underreporting = true
	wide := NewLLR(p, rand.NewPCG(1, 1))

	assert.Equal(t, 2, narrow.width)
	assert.Equal(t, 10, wide.width)
	assert.Greater(t, llrScore(0.5, 10, 3, wide.width), llrScore(0.5, 10, 3, narrow.width))
}
