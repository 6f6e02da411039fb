package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		TxTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "football_tx_total",
			Help: "Transactional operations by name and outcome.",
		}, []string{"operation", "outcome"}),
		TxDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "football_tx_duration_seconds",
			Help:    "Duration of transactional operations.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),
		StatRowsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "football_stat_rows_written_total",
			Help: "Player match stat rows inserted or updated.",
		}),
		PhotoCleanupFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "football_photo_cleanup_failures_total",
			Help: "Photo files that could not be removed after a committed delete or update.",
		}),
	}

	reg.MustRegister(
		s.TxTotal,
		s.TxDuration,
		s.StatRowsWritten,
		s.PhotoCleanupFailures,
	)

	return s
}

func (s *Service) ObserveTx(operation, outcome string, seconds float64) {
	s.TxTotal.WithLabelValues(operation, outcome).Inc()
	s.TxDuration.WithLabelValues(operation).Observe(seconds)
}

func (s *Service) AddStatRowsWritten(n int) {
	s.StatRowsWritten.Add(float64(n))
}

func (s *Service) IncPhotoCleanupFailures() {
	s.PhotoCleanupFailures.Inc()
}
