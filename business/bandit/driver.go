package bandit

import (
	"context"
	"fmt"
	"time"

	"patrolBandit/pkg/logger"
)

type RunState int

const (
	StateInitialized RunState = iota
	StateRunning
	StateTerminated
	StateConverged
)

func (s RunState) String() string {
	switch s {
	case StateInitialized:
		return "initialized"
	case StateRunning:
		return "running"
	case StateTerminated:
		return "terminated"
	case StateConverged:
		return "converged"
	default:
		return fmt.Sprintf("RunState(%d)", int(s))
	}
}

// Result is everything one run of a policy produced.
type Result struct {
	Policy string
	State  RunState
	Rounds int

	// Distances[r] is ‖μ̂ − ρ‖ for the estimate held at the start of round r+1.
	Distances []float64

	// estimate after the last update
	Estimate      []float64
	FinalDistance float64

	Visits        []int
	InitialVisits []int
	History       *History

	// only filled when RunConfig.Diagnostics is set
	Estimates     [][]float64
	Observability [][]float64
}

// Run drives one policy over the problem until the horizon is exhausted or,
// for policies that stop early, until the estimate converges on ρ.
func Run(ctx context.Context, policy Policy, p Problem, cfg RunConfig) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	stops := false
	if es, ok := policy.(earlyStopper); ok {
		stops = es.StopsEarly() && !cfg.NoEarlyStop
	}
	threshold := cfg.threshold()

	visits := make([]int, p.Arms)
	h := NewHistory(p.Arms, cfg.Horizon)
	estimate := policy.Initialize(visits)

	res := &Result{
		Policy:        policy.Name(),
		State:         StateInitialized,
		Distances:     make([]float64, 0, cfg.Horizon),
		InitialVisits: append([]int(nil), visits...),
		History:       h,
	}

	tid := TraceIDFromContext(ctx)
	logger.Debug("bandit_run_start",
		"trace_id", tid,
		"policy", res.Policy,
		"arms", p.Arms,
		"select", p.Select,
		"trials", p.Trials,
		"horizon", cfg.Horizon,
		"early_stop", stops,
	)
	started := time.Now()

	res.State = StateRunning
	for t := 1; t <= cfg.Horizon; t++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context error: %w", err)
		}

		// 1) historical estimate for this round
		res.Distances = append(res.Distances, Distance(estimate, p.Rho))
		if cfg.Diagnostics {
			res.Estimates = append(res.Estimates, append([]float64(nil), estimate...))
			res.Observability = append(res.Observability, observabilityEstimate(h, estimate, t-1))
		}

		// 2) oracle, then record the decision before the next bound is computed
		sel := policy.Oracle(estimate, t, visits)
		h.RecordSelection(t, sel)
		for i, on := range sel {
			if on {
				visits[i]++
			}
		}

		// 3) sample the round and re-estimate from the full history
		estimate = policy.Update(h, sel, t)
		res.Rounds = t

		if cfg.Progress != nil {
			cfg.Progress(t)
		}

		if stops && Distance(estimate, p.Rho) <= threshold {
			res.State = StateConverged
			break
		}
	}
	if res.State == StateRunning {
		res.State = StateTerminated
	}

	res.Estimate = estimate
	res.FinalDistance = Distance(estimate, p.Rho)
	res.Visits = visits

	observeRun(res, time.Since(started))

	logger.Info("bandit_run_end",
		"trace_id", tid,
		"policy", res.Policy,
		"state", res.State.String(),
		"rounds", res.Rounds,
		"final_distance", res.FinalDistance,
	)

	return res, nil
}

// observabilityEstimate is the diagnostic q̂: the mean of the rounds in which
// an arm was not played, relative to its current estimate.
func observabilityEstimate(h *History, estimate []float64, rounds int) []float64 {
	qHat := make([]float64, len(estimate))
	unplayed, _ := UnplayedMean(h.Observations, h.Plays, rounds)
	if unplayed == nil {
		return qHat
	}
	for i, mu := range estimate {
		if mu == 0 {
			continue
		}
		qHat[i] = unplayed[i] / mu
	}
	return qHat
}
