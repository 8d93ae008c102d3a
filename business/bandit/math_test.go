package bandit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskedMean(t *testing.T) {
	values := [][]float64{
		{0.1, 0.9, 0.5},
		{0.3, 0.7, 0.5},
		{0.5, 0.2, 0.5},
	}
	mask := []Selection{
		{true, false, false},
		{true, true, false},
		{false, true, false},
	}

	means, counts := MaskedMean(values, mask, 3)
	require.Len(t, means, 3)
	assert.InDelta(t, 0.2, means[0], 1e-12)
	assert.InDelta(t, 0.45, means[1], 1e-12)
	assert.Zero(t, means[2], "never played arm must not pick up unplayed rounds")
	assert.Equal(t, []int{2, 2, 0}, counts)

	t.Run("only rounds up to t count", func(t *testing.T) {
		means, counts := MaskedMean(values, mask, 1)
		assert.InDelta(t, 0.1, means[0], 1e-12)
		assert.Zero(t, means[1])
		assert.Equal(t, []int{1, 0, 0}, counts)
	})

	t.Run("no rounds", func(t *testing.T) {
		means, counts := MaskedMean(values, mask, 0)
		assert.Nil(t, means)
		assert.Nil(t, counts)
	})
}

func TestMaskedMean_IgnoresUnplayedValues(t *testing.T) {
	mask := []Selection{
		{true, false},
		{false, true},
		{true, false},
	}
	base := [][]float64{{0.4, 0.1}, {0.2, 0.6}, {0.8, 0.3}}
	perturbed := [][]float64{{0.4, 0.99}, {0.0, 0.6}, {0.8, 0.42}}

	a, _ := MaskedMean(base, mask, 3)
	b, _ := MaskedMean(perturbed, mask, 3)
	assert.Equal(t, a, b)
}

func TestUnplayedMean(t *testing.T) {
	values := [][]float64{{0.2, 0.4}, {0.6, 0.8}}
	mask := []Selection{{true, false}, {false, false}}

	means, counts := UnplayedMean(values, mask, 2)
	assert.InDelta(t, 0.6, means[0], 1e-12)
	assert.InDelta(t, 0.6, means[1], 1e-12)
	assert.Equal(t, []int{1, 2}, counts)
}

func TestTopK(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		k      int
		want   []int
	}{
		{"distinct", []float64{0.1, 0.9, 0.5, 0.7}, 2, []int{1, 3}},
		{"ties keep lowest index", []float64{1, 1, 1, 1}, 2, []int{0, 1}},
		{"partial tie", []float64{0.2, 0.8, 0.8, 0.9}, 2, []int{1, 3}},
		{"k larger than arms", []float64{0.3, 0.1}, 5, []int{0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := topK(tt.scores, tt.k)
			assert.Equal(t, tt.want, sel.Indices())
		})
	}
}

func TestArgmax_TieKeepsLowestIndex(t *testing.T) {
	assert.Equal(t, []int{1}, argmax([]float64{0.2, 0.7, 0.7}).Indices())
}

func TestDistance(t *testing.T) {
	assert.InDelta(t, 5.0, Distance([]float64{3, 0}, []float64{0, 4}), 1e-12)
	assert.Zero(t, Distance([]float64{0.1, 0.2}, []float64{0.1, 0.2}))
}
