package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"patrolBandit/business/experiment"
	"patrolBandit/domain"
)

const distanceBatchSize = 500

type SimulationRepository struct {
	DB *gorm.DB
}

func NewSimulationRepository(db *gorm.DB) *SimulationRepository {
	return &SimulationRepository{DB: db}
}

// Create stores the run and its distance series in one transaction.
func (r *SimulationRepository) Create(ctx context.Context, run *domain.SimulationRun) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Distances").Create(run).Error; err != nil {
			return fmt.Errorf("failed to create simulation run: %w", err)
		}
		if len(run.Distances) == 0 {
			return nil
		}
		for i := range run.Distances {
			run.Distances[i].RunID = run.ID
		}
		if err := tx.CreateInBatches(run.Distances, distanceBatchSize).Error; err != nil {
			return fmt.Errorf("failed to create simulation distances: %w", err)
		}
		return nil
	})
}

func (r *SimulationRepository) FindByID(ctx context.Context, id uuid.UUID) (domain.SimulationRun, error) {
	if err := ctx.Err(); err != nil {
		return domain.SimulationRun{}, fmt.Errorf("context error: %w", err)
	}

	var run domain.SimulationRun
	err := r.DB.WithContext(ctx).
		Preload("Distances", func(db *gorm.DB) *gorm.DB {
			return db.Order("round ASC")
		}).
		Where("id = ?", id).
		First(&run).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.SimulationRun{}, experiment.ErrRunNotFound
		}
		return domain.SimulationRun{}, fmt.Errorf("failed to find simulation run: %w", err)
	}

	return run, nil
}
