package bandit

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidConfig is returned before any round executes when a problem or
// run configuration cannot be simulated.
var ErrInvalidConfig = errors.New("invalid bandit configuration")

// Problem is the hidden ground truth of one experiment: M arms, K of them
// selected per round, N binomial trials per observation.
type Problem struct {
	Arms   int       `json:"arms" validate:"gt=0"`
	Select int       `json:"select" validate:"gt=0,ltefield=Arms"`
	Trials int       `json:"trials" validate:"gt=0"`
	Rho    []float64 `json:"rho" validate:"dive,gte=0,lte=1"`
	Q      []float64 `json:"q" validate:"dive,gte=0,lte=1"`

	// widens LLR's confidence region from K to M
	Underreporting bool `json:"underreporting"`
}

// RunConfig drives a single policy run.
type RunConfig struct {
	Horizon              int     `json:"horizon" validate:"gt=0"`
	ConvergenceThreshold float64 `json:"convergence_threshold" validate:"gte=0"`
	NoEarlyStop          bool    `json:"no_early_stop"`

	// record the observability estimate q̂ every round
	Diagnostics bool `json:"diagnostics"`

	// called after every executed round; may be nil
	Progress func(round int) `json:"-"`
}

const (
	defaultTrials               = 1000
	defaultHorizon              = 5000
	defaultConvergenceThreshold = 0.05
	defaultSelectFraction       = 0.1

	// guards T_i = 0 in confidence-bound denominators
	zeroVisitEpsilon = 1e-9
	// added to the initial speculative look so μ̂ is never exactly zero
	initialLookEpsilon = 1e-11
)

func DefaultRunConfig() RunConfig {
	return RunConfig{
		Horizon:              defaultHorizon,
		ConvergenceThreshold: defaultConvergenceThreshold,
	}
}

// DefaultSelect is the number of arms selected when only M is known.
func DefaultSelect(arms int) int {
	k := int(float64(arms) * defaultSelectFraction)
	if k < 1 {
		k = 1
	}
	return k
}

var validate = validator.New()

// Validate checks the problem against the simulator's domain.
func (p Problem) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if len(p.Rho) != p.Arms {
		return fmt.Errorf("%w: rho has %d entries, want %d", ErrInvalidConfig, len(p.Rho), p.Arms)
	}
	if len(p.Q) != p.Arms {
		return fmt.Errorf("%w: q has %d entries, want %d", ErrInvalidConfig, len(p.Q), p.Arms)
	}
	return nil
}

// Validate checks the run configuration.
func (c RunConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func (c RunConfig) threshold() float64 {
	if c.ConvergenceThreshold == 0 {
		return defaultConvergenceThreshold
	}
	return c.ConvergenceThreshold
}
