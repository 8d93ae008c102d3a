package bandit

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	BanditRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bandit_simulation_runs_total",
			Help: "Count of finished simulation runs by policy and terminal state.",
		},
		[]string{"policy", "state"},
	)

	BanditRoundsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bandit_simulation_rounds_total",
			Help: "Rounds executed across simulation runs by policy.",
		},
		[]string{"policy"},
	)

	BanditRunDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bandit_simulation_run_seconds",
			Help:    "Wall time of a single simulation run.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		},
		[]string{"policy"},
	)

	BanditFinalDistance = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bandit_simulation_final_distance",
			Help:    "Euclidean distance between the final estimate and the true rates.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"policy"},
	)
)

func init() {
	prometheus.MustRegister(
		BanditRunsTotal,
		BanditRoundsTotal,
		BanditRunDuration,
		BanditFinalDistance,
	)
}

func observeRun(res *Result, elapsed time.Duration) {
	BanditRunsTotal.WithLabelValues(res.Policy, res.State.String()).Inc()
	BanditRoundsTotal.WithLabelValues(res.Policy).Add(float64(res.Rounds))
	BanditRunDuration.WithLabelValues(res.Policy).Observe(elapsed.Seconds())
	BanditFinalDistance.WithLabelValues(res.Policy).Observe(res.FinalDistance)
}
