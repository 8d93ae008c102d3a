package bandit

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
)

const (
	PolicyUCB1 = "UCB1"
	PolicyLLR  = "LLR"
	PolicyCUCB = "CUCB"
)

// DefaultPolicies is the run order of a sweep; it fixes how the shared
// random stream is consumed.
var DefaultPolicies = []string{PolicyUCB1, PolicyLLR, PolicyCUCB}

var ErrUnknownPolicy = errors.New("unknown policy")

// Policy is one exploration strategy. Implementations differ only in the
// score formula and in the top-K versus top-1 oracle.
type Policy interface {
	Name() string

	// Initialize produces the first estimate and may adjust visit counts.
	Initialize(visits []int) []float64

	// Oracle maps the current estimate to this round's selection.
	Oracle(estimate []float64, round int, visits []int) Selection

	// Update samples the round for the recorded selection, stores it in the
	// history and returns the masked mean over all rounds so far.
	Update(h *History, sel Selection, round int) []float64
}

// earlyStopper is implemented by policies that halt on convergence.
type earlyStopper interface {
	StopsEarly() bool
}

// ParsePolicy normalizes a policy name. "chen" is accepted for CUCB.
func ParsePolicy(name string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case PolicyUCB1:
		return PolicyUCB1, nil
	case PolicyLLR:
		return PolicyLLR, nil
	case PolicyCUCB, "CHEN":
		return PolicyCUCB, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}

// NewPolicy builds the named policy over the problem, drawing from src.
func NewPolicy(name string, p Problem, src rand.Source) (Policy, error) {
	canonical, err := ParsePolicy(name)
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	switch canonical {
	case PolicyUCB1:
		return NewUCB1(p, src), nil
	case PolicyLLR:
		return NewLLR(p, src), nil
	default:
		return NewCUCB(p, src), nil
	}
}

// armModel is the sampling and estimation shared by every policy.
type armModel struct {
	problem Problem
	src     rand.Source
}

// initialLook samples every arm once at its true rate, ignoring
// observability, and counts it as a visit.
func (m armModel) initialLook(visits []int) []float64 {
	est := make([]float64, m.problem.Arms)
	for i := range est {
		est[i] = sampleRate(m.src, m.problem.Rho[i], m.problem.Trials) + initialLookEpsilon
		visits[i]++
	}
	return est
}

func (m armModel) observe(h *History, sel Selection, round int) []float64 {
	h.RecordObservation(round, SampleRound(m.src, m.problem, sel))
	means, _ := MaskedMean(h.Observations, h.Plays, round)
	return means
}
