package backend

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	backendRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hcm",
		Subsystem: "backend",
		Name:      "requests_total",
		Help:      "Total number of backend calls broken down by action and result.",
	}, []string{"action", "result"})

	backendLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hcm",
		Subsystem: "backend",
		Name:      "latency_seconds",
		Help:      "Latency distribution for backend calls.",
		Buckets: []float64{
			0.01, 0.02, 0.05,
			0.1, 0.2, 0.5,
			1, 2, 5, 10, 30,
		},
	}, []string{"action", "result"})
)

func observe(action string, res OperationResult, d time.Duration) {
	result := res.Kind.String()
	backendRequests.WithLabelValues(action, result).Inc()
	if res.Kind != KindNotConnected {
		backendLatency.WithLabelValues(action, result).Observe(d.Seconds())
	}
}
