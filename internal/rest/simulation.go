package rest

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"patrolBandit/business/bandit"
	"patrolBandit/domain"
	"patrolBandit/internal/middleware"
	"patrolBandit/pkg/logger"
	"patrolBandit/pkg/metrics"
)

type (
	SimulationHandler struct {
		validate *validator.Validate
		service  SimulationService
		defaults SimulationDefaults
		timeout  time.Duration
	}

	SimulationService interface {
		Simulate(ctx context.Context, req domain.SimulationRequest) (*domain.SimulationRun, error)
		GetSimulation(ctx context.Context, id uuid.UUID) (*domain.SimulationRun, error)
	}

	// SimulationDefaults fill the fields a request leaves out. MaxArmRounds
	// caps Arms*Horizon, since every round re-averages the whole history.
	SimulationDefaults struct {
		Seed                 uint64
		Horizon              int
		MaxHorizon           int
		MaxArmRounds         int
		Trials               int
		ConvergenceThreshold float64
	}

	ResponseError struct {
		Message string `json:"message"`
	}
)

func NewSimulationHandler(svc SimulationService, defaults SimulationDefaults) *SimulationHandler {
	return &SimulationHandler{
		validate: validator.New(),
		service:  svc,
		defaults: defaults,
		timeout:  2 * time.Minute,
	}
}

func (h *SimulationHandler) Simulate(c echo.Context) error {
	start := time.Now()
	status := http.StatusCreated
	defer func() { observe("simulate", status, start) }()

	// absent JSON fields keep these values
	req := domain.SimulationRequest{
		Seed:                 h.defaults.Seed,
		Horizon:              h.defaults.Horizon,
		Trials:               h.defaults.Trials,
		ConvergenceThreshold: h.defaults.ConvergenceThreshold,
	}
	if err := c.Bind(&req); err != nil {
		status = http.StatusBadRequest
		return c.JSON(status, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		status = http.StatusBadRequest
		return c.JSON(status, ResponseError{Message: err.Error()})
	}
	if h.defaults.MaxHorizon > 0 && req.Horizon > h.defaults.MaxHorizon {
		status = http.StatusBadRequest
		return c.JSON(status, ResponseError{Message: fmt.Sprintf("horizon must not exceed %d", h.defaults.MaxHorizon)})
	}
	if h.defaults.MaxArmRounds > 0 && req.Arms*req.Horizon > h.defaults.MaxArmRounds {
		status = http.StatusBadRequest
		return c.JSON(status, ResponseError{Message: fmt.Sprintf("arms x horizon must not exceed %d", h.defaults.MaxArmRounds)})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	run, err := h.service.Simulate(ctx, req)
	if err != nil {
		status = middleware.StatusFor(err)
		logger.Error("Failed to simulate",
			"trace_id", bandit.TraceIDFromContext(ctx),
			"policy", req.Policy,
			"error", err,
		)
		return c.JSON(status, ResponseError{Message: err.Error()})
	}

	return c.JSON(status, fres.Response.StatusCreated(run))
}

func (h *SimulationHandler) GetSimulation(c echo.Context) error {
	start := time.Now()
	status := http.StatusOK
	defer func() { observe("get_simulation", status, start) }()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		status = http.StatusBadRequest
		return c.JSON(status, ResponseError{Message: "invalid simulation id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	run, err := h.service.GetSimulation(ctx, id)
	if err != nil {
		status = middleware.StatusFor(err)
		return c.JSON(status, ResponseError{Message: err.Error()})
	}

	return c.JSON(status, fres.Response.StatusOK(run))
}

func observe(route string, status int, start time.Time) {
	metrics.SimulationRequestLatency.WithLabelValues(route).Observe(time.Since(start).Seconds())
	metrics.SimulationRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}
