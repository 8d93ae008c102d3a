package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// CREATE TABLE public.simulation_runs (
//     id              UUID PRIMARY KEY,
//     fingerprint     VARCHAR(32) NOT NULL,
//     policy          TEXT NOT NULL,
//     arms            INT NOT NULL,
//     select_count    INT NOT NULL,
//     trials          INT NOT NULL,
//     horizon         INT NOT NULL,
//     state           TEXT NOT NULL,
//     rounds          INT NOT NULL,
//     final_distance  DOUBLE PRECISION NOT NULL,
//     estimate        JSONB,
//     visits          JSONB,
//     params          JSONB,
//     created_at      TIMESTAMPTZ DEFAULT NOW()
// );

type SimulationRun struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Fingerprint   string            `gorm:"column:fingerprint;size:32;index;not null" json:"fingerprint"`
	Policy        string            `gorm:"column:policy;type:text;not null" json:"policy"`
	Arms          int               `gorm:"column:arms;not null" json:"arms"`
	Select        int               `gorm:"column:select_count;not null" json:"select"`
	Trials        int               `gorm:"column:trials;not null" json:"trials"`
	Horizon       int               `gorm:"column:horizon;not null" json:"horizon"`
	State         string            `gorm:"column:state;type:text;not null" json:"state"`
	Rounds        int               `gorm:"column:rounds;not null" json:"rounds"`
	FinalDistance float64           `gorm:"column:final_distance;not null" json:"final_distance"`
	Estimate      datatypes.JSON    `gorm:"column:estimate;type:jsonb" json:"estimate"`
	Visits        datatypes.JSON    `gorm:"column:visits;type:jsonb" json:"visits"`
	Params        datatypes.JSONMap `gorm:"column:params;type:jsonb" json:"params"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Distances []DistancePoint `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE" json:"distances,omitempty"`
}

func (SimulationRun) TableName() string {
	return "simulation_runs"
}

// DistancePoint is one row of a run's convergence series. Round is 0-based,
// matching the exported distance tables.
type DistancePoint struct {
	ID       uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	RunID    uuid.UUID `gorm:"column:run_id;type:uuid;index;not null" json:"-"`
	Round    int       `gorm:"column:round;not null" json:"round"`
	Distance float64   `gorm:"column:distance;not null" json:"distance"`
}

func (DistancePoint) TableName() string {
	return "simulation_distances"
}

// SimulationRequest describes one policy run. Empty Rho and Q are generated
// from Seed the same way a sweep generates them.
type SimulationRequest struct {
	Policy               string    `json:"policy" validate:"required"`
	Seed                 uint64    `json:"seed"`
	Arms                 int       `json:"arms" validate:"gt=0,lte=100000"`
	Select               int       `json:"select" validate:"gte=0,ltefield=Arms"`
	Trials               int       `json:"trials" validate:"gte=0"`
	Horizon              int       `json:"horizon" validate:"gt=0,lte=20000"`
	ConvergenceThreshold float64   `json:"convergence_threshold" validate:"gte=0"`
	NoEarlyStop          bool      `json:"no_early_stop"`
	Underreporting       bool      `json:"underreporting"`
	Rho                  []float64 `json:"rho,omitempty" validate:"omitempty,dive,gte=0,lte=1"`
	Q                    []float64 `json:"q,omitempty" validate:"omitempty,dive,gte=0,lte=1"`
}
