package experiment

import "strconv"

// Table is a rectangular export: one header and string cells.
type Table struct {
	Header []string
	Rows   [][]string
}

// DistanceTable lays out one column per run, one row per round keyed
// 0..T-1. Runs that stopped early leave their remaining cells empty.
func (s SizeResult) DistanceTable() Table {
	t := Table{Header: []string{"round"}}
	rounds := 0
	for _, res := range s.Runs {
		t.Header = append(t.Header, res.Policy)
		rounds = max(rounds, len(res.Distances))
	}

	t.Rows = make([][]string, rounds)
	for r := range rounds {
		row := make([]string, 1, len(s.Runs)+1)
		row[0] = strconv.Itoa(r)
		for _, res := range s.Runs {
			cell := ""
			if r < len(res.Distances) {
				cell = formatFloat(res.Distances[r])
			}
			row = append(row, cell)
		}
		t.Rows[r] = row
	}
	return t
}

// ObservabilityTable lists, per arm, the true rates next to each run's last
// observability estimate. ok is false when no run kept diagnostics.
func (s SizeResult) ObservabilityTable() (t Table, ok bool) {
	var runs []int
	for i, res := range s.Runs {
		if len(res.Observability) > 0 {
			runs = append(runs, i)
		}
	}
	if len(runs) == 0 {
		return Table{}, false
	}

	t.Header = []string{"arm", "rho", "q"}
	for _, i := range runs {
		t.Header = append(t.Header, "qhat_"+s.Runs[i].Policy)
	}

	t.Rows = make([][]string, s.Problem.Arms)
	for arm := range s.Problem.Arms {
		row := []string{
			strconv.Itoa(arm),
			formatFloat(s.Problem.Rho[arm]),
			formatFloat(s.Problem.Q[arm]),
		}
		for _, i := range runs {
			obs := s.Runs[i].Observability
			row = append(row, formatFloat(obs[len(obs)-1][arm]))
		}
		t.Rows[arm] = row
	}
	return t, true
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
