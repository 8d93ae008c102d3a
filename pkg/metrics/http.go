package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of the simulation HTTP handlers
	SimulationRequestLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "simulation_http_latency_seconds",
		Help:    "Latency of simulation API handlers",
		Buckets: prometheus.ExponentialBuckets(0.005, 4, 10),
	}, []string{"route"})

	// Total number of simulation API requests by status
	SimulationRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "simulation_http_requests_total",
		Help: "Total number of simulation API requests",
	}, []string{"route", "status"})

	// Requests answered from the result cache
	SimulationCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "simulation_cache_hits_total",
		Help: "Simulation requests served from a previous identical run",
	})
)

func Init() {
	prometheus.MustRegister(
		SimulationRequestLatency,
		SimulationRequests,
		SimulationCacheHits,
	)
}
