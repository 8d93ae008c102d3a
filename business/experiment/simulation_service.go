package experiment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"math/rand/v2"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"patrolBandit/business/bandit"
	"patrolBandit/domain"
	"patrolBandit/pkg/logger"
	"patrolBandit/pkg/metrics"
)

var ErrRunNotFound = errors.New("simulation run not found")

// SimulationRepository contract interface
type SimulationRepository interface {
	Create(ctx context.Context, run *domain.SimulationRun) error
	FindByID(ctx context.Context, id uuid.UUID) (domain.SimulationRun, error)
}

// ResultCache maps a request fingerprint to the run it produced. Runs are
// deterministic in their request, so a hit can be served as is.
type ResultCache interface {
	Get(ctx context.Context, fingerprint string) (uuid.UUID, bool, error)
	Set(ctx context.Context, fingerprint string, id uuid.UUID) error
}

type simulationService struct {
	repo     SimulationRepository
	cache    ResultCache
	defaults Config
}

// NewSimulationService wires the service. cache may be nil.
func NewSimulationService(repo SimulationRepository, cache ResultCache, defaults Config) *simulationService {
	return &simulationService{
		repo:     repo,
		cache:    cache,
		defaults: defaults,
	}
}

// Simulate runs one policy for the request, or returns the stored run of an
// identical earlier request.
func (s *simulationService) Simulate(ctx context.Context, req domain.SimulationRequest) (*domain.SimulationRun, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when simulate")
		return nil, fmt.Errorf("context error: %w", err)
	}

	policy, err := bandit.ParsePolicy(req.Policy)
	if err != nil {
		return nil, err
	}
	req.Policy = policy

	problem, src, err := s.problem(req)
	if err != nil {
		return nil, err
	}
	cfg := bandit.RunConfig{
		Horizon:              req.Horizon,
		ConvergenceThreshold: req.ConvergenceThreshold,
		NoEarlyStop:          req.NoEarlyStop,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	fp := Fingerprint(req, s.defaults)
	if run, ok := s.cached(ctx, fp); ok {
		return run, nil
	}

	p, err := bandit.NewPolicy(policy, problem, src)
	if err != nil {
		return nil, err
	}

	res, err := bandit.Run(ctx, p, problem, cfg)
	if err != nil {
		logger.Error("simulation failed", "policy", policy, "error", err)
		return nil, err
	}

	run, err := newSimulationRun(fp, req, problem, res)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, run); err != nil {
		logger.Error("failed to store simulation run", err)
		return nil, fmt.Errorf("failed to store simulation run: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, fp, run.ID); err != nil {
			logger.Warn("failed to cache simulation run", "id", run.ID.String(), "error", err)
		}
	}

	return run, nil
}

func (s *simulationService) GetSimulation(ctx context.Context, id uuid.UUID) (*domain.SimulationRun, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get simulation")
		return nil, fmt.Errorf("context error: %w", err)
	}

	run, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (s *simulationService) cached(ctx context.Context, fp string) (*domain.SimulationRun, bool) {
	if s.cache == nil {
		return nil, false
	}

	id, ok, err := s.cache.Get(ctx, fp)
	if err != nil {
		logger.Warn("result cache unavailable", "fingerprint", fp, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	run, err := s.repo.FindByID(ctx, id)
	if err != nil {
		// stale entry; the run is simply recomputed
		logger.Debug("cached simulation run missing", "id", id.String(), "error", err)
		return nil, false
	}
	metrics.SimulationCacheHits.Inc()
	return &run, true
}

// problem builds the ground truth for the request, generating ρ and q when
// the caller left them out. The returned stream is positioned after the
// generation draws, as in a sequential sweep.
func (s *simulationService) problem(req domain.SimulationRequest) (bandit.Problem, rand.Source, error) {
	src := rand.NewPCG(req.Seed, 0)

	if len(req.Rho) == 0 && len(req.Q) == 0 {
		sweep := s.sweepFor(req)
		if err := validate.Struct(&sweep); err != nil {
			return bandit.Problem{}, nil, fmt.Errorf("%w: %v", bandit.ErrInvalidConfig, err)
		}
		p := GenerateProblem(src, req.Arms, sweep)
		if req.Select > 0 {
			p.Select = req.Select
		}
		return p, src, p.Validate()
	}

	p := bandit.Problem{
		Arms:           req.Arms,
		Select:         req.Select,
		Trials:         req.Trials,
		Rho:            req.Rho,
		Q:              req.Q,
		Underreporting: req.Underreporting,
	}
	if p.Select == 0 {
		p.Select = bandit.DefaultSelect(req.Arms)
	}
	if p.Trials == 0 {
		p.Trials = s.defaults.Trials
	}
	return p, src, p.Validate()
}

func (s *simulationService) sweepFor(req domain.SimulationRequest) Config {
	c := s.defaults
	c.Seed = req.Seed
	c.Sizes = []int{req.Arms}
	c.Horizon = req.Horizon
	c.Underreporting = req.Underreporting
	c.Policies = []string{req.Policy}
	if req.Trials > 0 {
		c.Trials = req.Trials
	}
	c.RateHigh = min(c.RateHigh, c.Trials)
	c.RateLow = min(c.RateLow, c.RateHigh-1)
	return c
}

// Fingerprint identifies a request by everything that affects its result,
// including the service defaults that generate and size its problem.
func Fingerprint(req domain.SimulationRequest, defaults Config) string {
	raw, _ := json.Marshal(struct {
		Request        domain.SimulationRequest `json:"request"`
		SelectFraction float64                  `json:"select_fraction"`
		RateLow        int                      `json:"rate_low"`
		RateHigh       int                      `json:"rate_high"`
		Trials         int                      `json:"trials"`
	}{
		Request:        req,
		SelectFraction: defaults.SelectFraction,
		RateLow:        defaults.RateLow,
		RateHigh:       defaults.RateHigh,
		Trials:         defaults.Trials,
	})
	h := fnv.New128a()
	h.Write(raw)
	return fmt.Sprintf("%x", h.Sum(nil))
}

func newSimulationRun(fp string, req domain.SimulationRequest, p bandit.Problem, res *bandit.Result) (*domain.SimulationRun, error) {
	estimate, err := json.Marshal(res.Estimate)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal estimate: %w", err)
	}
	visits, err := json.Marshal(res.Visits)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal visits: %w", err)
	}

	run := &domain.SimulationRun{
		ID:            uuid.New(),
		Fingerprint:   fp,
		Policy:        res.Policy,
		Arms:          p.Arms,
		Select:        p.Select,
		Trials:        p.Trials,
		Horizon:       req.Horizon,
		State:         res.State.String(),
		Rounds:        res.Rounds,
		FinalDistance: res.FinalDistance,
		Estimate:      datatypes.JSON(estimate),
		Visits:        datatypes.JSON(visits),
		Params: datatypes.JSONMap{
			"seed":                  req.Seed,
			"convergence_threshold": req.ConvergenceThreshold,
			"no_early_stop":         req.NoEarlyStop,
			"underreporting":        req.Underreporting,
			"generated":             len(req.Rho) == 0,
		},
		Distances: make([]domain.DistancePoint, len(res.Distances)),
	}
	for i, d := range res.Distances {
		run.Distances[i] = domain.DistancePoint{RunID: run.ID, Round: i, Distance: d}
	}
	return run, nil
}
