package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
type Service struct {
	TxTotal              *prometheus.CounterVec
	TxDuration           *prometheus.HistogramVec
	StatRowsWritten      prometheus.Counter
	PhotoCleanupFailures prometheus.Counter
}
