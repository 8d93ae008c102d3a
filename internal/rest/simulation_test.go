package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patrolBandit/business/bandit"
	"patrolBandit/business/experiment"
	"patrolBandit/domain"
)

type stubService struct {
	got domain.SimulationRequest
	run *domain.SimulationRun
	err error
}

func (s *stubService) Simulate(_ context.Context, req domain.SimulationRequest) (*domain.SimulationRun, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return s.run, nil
}

func (s *stubService) GetSimulation(_ context.Context, id uuid.UUID) (*domain.SimulationRun, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.run == nil || s.run.ID != id {
		return nil, experiment.ErrRunNotFound
	}
	return s.run, nil
}

var testDefaults = SimulationDefaults{
	Seed:                 123,
	Horizon:              500,
	MaxHorizon:           1000,
	MaxArmRounds:         100000,
	Trials:               1000,
	ConvergenceThreshold: 0.05,
}

func post(h echo.HandlerFunc, body string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/simulations", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	_ = h(e.NewContext(req, rec))
	return rec
}

func TestSimulate_AppliesDefaults(t *testing.T) {
	svc := &stubService{run: &domain.SimulationRun{ID: uuid.New(), Policy: "CUCB"}}
	h := NewSimulationHandler(svc, testDefaults)

	rec := post(h.Simulate, `{"policy":"cucb","arms":10}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), svc.run.ID.String())
	assert.Equal(t, uint64(123), svc.got.Seed)
	assert.Equal(t, 500, svc.got.Horizon)
	assert.Equal(t, 1000, svc.got.Trials)
}

func TestSimulate_ExplicitFieldsWin(t *testing.T) {
	svc := &stubService{run: &domain.SimulationRun{ID: uuid.New()}}
	h := NewSimulationHandler(svc, testDefaults)

	rec := post(h.Simulate, `{"policy":"llr","arms":4,"seed":0,"horizon":50,"rho":[0.1,0.2,0.3,0.4],"q":[1,1,1,1]}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, uint64(0), svc.got.Seed)
	assert.Equal(t, 50, svc.got.Horizon)
	assert.Equal(t, []float64{0.1, 0.2, 0.3, 0.4}, svc.got.Rho)
}

func TestSimulate_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
	}{
		{"malformed", `{"policy":`, nil},
		{"missing policy", `{"arms":10}`, nil},
		{"zero arms", `{"policy":"ucb1","arms":0}`, nil},
		{"rho out of range", `{"policy":"ucb1","arms":2,"rho":[0.5,1.5],"q":[1,1]}`, nil},
		{"horizon above max", `{"policy":"ucb1","arms":2,"horizon":5000}`, nil},
		{"arms times horizon above max", `{"policy":"ucb1","arms":100000,"horizon":1000}`, nil},
		{"service rejects", `{"policy":"greedy","arms":2}`, fmt.Errorf("%w: %q", bandit.ErrUnknownPolicy, "greedy")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSimulationHandler(&stubService{err: tt.err}, testDefaults)
			rec := post(h.Simulate, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var body ResponseError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestGetSimulation(t *testing.T) {
	run := &domain.SimulationRun{ID: uuid.New(), Policy: "UCB1"}
	h := NewSimulationHandler(&stubService{run: run}, testDefaults)
	e := echo.New()

	get := func(id string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/simulations/"+id, nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues(id)
		_ = h.GetSimulation(c)
		return rec
	}

	rec := get(run.ID.String())
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), run.ID.String())

	assert.Equal(t, http.StatusNotFound, get(uuid.NewString()).Code)
	assert.Equal(t, http.StatusBadRequest, get("not-a-uuid").Code)
}

func TestSimulate_ArmRoundsAtCapAccepted(t *testing.T) {
	svc := &stubService{run: &domain.SimulationRun{ID: uuid.New()}}
	h := NewSimulationHandler(svc, testDefaults)

	rec := post(h.Simulate, `{"policy":"ucb1","arms":100,"horizon":1000}`)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = post(h.Simulate, `{"policy":"ucb1","arms":101,"horizon":1000}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "arms x horizon")
}
