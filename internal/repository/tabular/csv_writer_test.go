package tabular

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patrolBandit/business/bandit"
	"patrolBandit/business/experiment"
)

func sizeResult(diagnostics bool) experiment.SizeResult {
	res := experiment.SizeResult{
		Arms: 2,
		Problem: bandit.Problem{
			Arms: 2, Select: 1, Trials: 10,
			Rho: []float64{0.5, 0.25},
			Q:   []float64{1, 0.5},
		},
		Runs: []*bandit.Result{
			{Policy: "UCB1", Distances: []float64{0.3, 0.2, 0.1}},
			{Policy: "CUCB", Distances: []float64{0.4}},
		},
	}
	if diagnostics {
		res.Runs[0].Observability = [][]float64{{0, 0}, {1, 0.5}}
	}
	return res
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVWriter_Distances(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	require.NoError(t, w.WriteSize(context.Background(), sizeResult(false)))

	rows := readCSV(t, filepath.Join(dir, "distance_2.csv"))
	assert.Equal(t, [][]string{
		{"round", "UCB1", "CUCB"},
		{"0", "0.3", "0.4"},
		{"1", "0.2", ""},
		{"2", "0.1", ""},
	}, rows)

	_, err := os.Stat(filepath.Join(dir, "observability_2.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestCSVWriter_Observability(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	require.NoError(t, w.WriteSize(context.Background(), sizeResult(true)))

	rows := readCSV(t, filepath.Join(dir, "observability_2.csv"))
	assert.Equal(t, [][]string{
		{"arm", "rho", "q", "qhat_UCB1"},
		{"0", "0.5", "1", "1"},
		{"1", "0.25", "0.5", "0.5"},
	}, rows)
}
