package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"patrolBandit/business/experiment"
	"patrolBandit/domain"
)

// SimulationRepository keeps runs in process. It backs the server when no
// database is configured.
type SimulationRepository struct {
	mu   sync.RWMutex
	runs map[uuid.UUID]domain.SimulationRun
}

func NewSimulationRepository() *SimulationRepository {
	return &SimulationRepository{runs: make(map[uuid.UUID]domain.SimulationRun)}
}

func (r *SimulationRepository) Create(ctx context.Context, run *domain.SimulationRun) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.runs[run.ID]; ok {
		return fmt.Errorf("simulation run %s already exists", run.ID)
	}
	r.runs[run.ID] = *run
	return nil
}

func (r *SimulationRepository) FindByID(ctx context.Context, id uuid.UUID) (domain.SimulationRun, error) {
	if err := ctx.Err(); err != nil {
		return domain.SimulationRun{}, fmt.Errorf("context error: %w", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	run, ok := r.runs[id]
	if !ok {
		return domain.SimulationRun{}, experiment.ErrRunNotFound
	}
	return run, nil
}

// ResultCache is the in-process counterpart of the redis cache.
type ResultCache struct {
	mu  sync.RWMutex
	ids map[string]uuid.UUID
}

func NewResultCache() *ResultCache {
	return &ResultCache{ids: make(map[string]uuid.UUID)}
}

func (c *ResultCache) Get(ctx context.Context, fingerprint string) (uuid.UUID, bool, error) {
	if err := ctx.Err(); err != nil {
		return uuid.Nil, false, fmt.Errorf("context error: %w", err)
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.ids[fingerprint]
	return id, ok, nil
}

func (c *ResultCache) Set(ctx context.Context, fingerprint string, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	c.mu.Lock()
	c.ids[fingerprint] = id
	c.mu.Unlock()
	return nil
}
