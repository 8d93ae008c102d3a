package experiment

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"patrolBandit/business/bandit"
	"patrolBandit/pkg/logger"
)

// ResultWriter persists the tables of one finished size.
type ResultWriter interface {
	WriteSize(ctx context.Context, res SizeResult) error
}

// ProgressFunc is called after every executed round of every run. In
// parallel mode it is called from several goroutines.
type ProgressFunc func(arms int, policy string, round int)

type SizeResult struct {
	Arms    int
	Problem bandit.Problem
	Runs    []*bandit.Result
}

type Report struct {
	TraceID string
	Sizes   []SizeResult
}

type PolicySummary struct {
	Policy        string
	State         string
	Rounds        int
	FinalDistance float64
	MeanDistance  float64
}

type Runner struct {
	cfg      Config
	writer   ResultWriter
	progress ProgressFunc
}

// NewRunner builds a sweep runner. writer may be nil.
func NewRunner(cfg Config, writer ResultWriter) *Runner {
	return &Runner{cfg: cfg, writer: writer}
}

func (r *Runner) WithProgress(fn ProgressFunc) *Runner {
	r.progress = fn
	return r
}

// Run executes the sweep size by size. Each size reseeds, so a size's
// numbers do not depend on which sizes ran before it.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if err := r.cfg.Validate(); err != nil {
		logger.Error("invalid sweep config", err)
		return nil, err
	}

	tid := bandit.TraceIDFromContext(ctx)
	if tid == "" {
		tid = uuid.NewString()
		ctx = bandit.ContextWithTraceID(ctx, tid)
	}

	report := &Report{TraceID: tid}
	for _, arms := range r.cfg.Sizes {
		res, err := r.runSize(ctx, arms)
		if err != nil {
			return nil, fmt.Errorf("size %d: %w", arms, err)
		}

		for _, s := range res.Summary() {
			logger.Info("sweep_run_done",
				"trace_id", tid,
				"arms", arms,
				"policy", s.Policy,
				"state", s.State,
				"rounds", s.Rounds,
				"final_distance", s.FinalDistance,
			)
		}

		if r.writer != nil {
			if err := r.writer.WriteSize(ctx, res); err != nil {
				return nil, fmt.Errorf("failed to write size %d: %w", arms, err)
			}
		}
		report.Sizes = append(report.Sizes, res)
	}

	return report, nil
}

func (r *Runner) runSize(ctx context.Context, arms int) (SizeResult, error) {
	src := rand.NewPCG(r.cfg.Seed, 0)
	problem := GenerateProblem(src, arms, r.cfg)

	out := SizeResult{
		Arms:    arms,
		Problem: problem,
		Runs:    make([]*bandit.Result, len(r.cfg.Policies)),
	}

	if !r.cfg.Parallel {
		for i, name := range r.cfg.Policies {
			res, err := r.runOne(ctx, name, problem, src)
			if err != nil {
				return SizeResult{}, err
			}
			out.Runs[i] = res
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range r.cfg.Policies {
		g.Go(func() error {
			res, err := r.runOne(gctx, name, problem, rand.NewPCG(r.cfg.Seed, streamID(arms, i)))
			if err != nil {
				return err
			}
			out.Runs[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return SizeResult{}, err
	}
	return out, nil
}

func (r *Runner) runOne(ctx context.Context, name string, p bandit.Problem, src rand.Source) (*bandit.Result, error) {
	policy, err := bandit.NewPolicy(name, p, src)
	if err != nil {
		return nil, err
	}

	cfg := r.cfg.runConfig()
	if r.progress != nil {
		cfg.Progress = func(round int) { r.progress(p.Arms, name, round) }
	}

	res, err := bandit.Run(ctx, policy, p, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return res, nil
}

// Summary reports each run with the mean of its distance series.
func (s SizeResult) Summary() []PolicySummary {
	out := make([]PolicySummary, 0, len(s.Runs))
	for _, res := range s.Runs {
		out = append(out, PolicySummary{
			Policy:        res.Policy,
			State:         res.State.String(),
			Rounds:        res.Rounds,
			FinalDistance: res.FinalDistance,
			MeanDistance:  stat.Mean(res.Distances, nil),
		})
	}
	return out
}
