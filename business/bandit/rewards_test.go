package bandit

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

func TestSampleReward_Bounds(t *testing.T) {
	src := rand.NewPCG(7, 11)
	for range 500 {
		x := SampleReward(src, 0.4, 0.5, 100, true)
		require.GreaterOrEqual(t, x, 0.0)
		require.LessOrEqual(t, x, 1.0)
	}
}

func TestSampleReward_DegenerateArm(t *testing.T) {
	src := rand.NewPCG(1, 1)
	for range 200 {
		assert.Zero(t, SampleReward(src, 0, 0, 1000, true))
		assert.Zero(t, SampleReward(src, 0, 0, 1000, false))
		assert.Zero(t, SampleReward(src, 0.8, 0, 1000, false))
		assert.Equal(t, 1.0, SampleReward(src, 1, 1, 1000, true))
	}
}

func TestSampleReward_DiscountAppliesOnlyWhenUnselected(t *testing.T) {
	src := rand.NewPCG(3, 5)
	const n = 400

	selected := make([]float64, n)
	unselected := make([]float64, n)
	for i := range n {
		selected[i] = SampleReward(src, 0.6, 0.5, 1000, true)
		unselected[i] = SampleReward(src, 0.6, 0.5, 1000, false)
	}

	assert.InDelta(t, 0.6, stat.Mean(selected, nil), 0.01)
	assert.InDelta(t, 0.3, stat.Mean(unselected, nil), 0.01)
}

func TestSampleRound_Reproducible(t *testing.T) {
	p := Problem{
		Arms:   3,
		Select: 1,
		Trials: 50,
		Rho:    []float64{0.2, 0.5, 0.7},
		Q:      []float64{0.3, 1, 0.5},
	}
	sel := NewSelection(3, 1)

	a := SampleRound(rand.NewPCG(42, 42), p, sel)
	b := SampleRound(rand.NewPCG(42, 42), p, sel)
	assert.Equal(t, a, b)
	assert.Len(t, a, 3)
}
