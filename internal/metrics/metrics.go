package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/usage"
)

// Service owns the Prometheus collectors for the question pipeline
type Service struct {
	questionsTotal   *prometheus.CounterVec
	errorsTotal      *prometheus.CounterVec
	modelTokensTotal *prometheus.CounterVec
	retrievalQueries prometheus.Counter
	warehouseBytes   prometheus.Counter
	turnDuration     prometheus.Histogram
}

// NewService registers the pipeline collectors on the default registry
func NewService() *Service {
	s := &Service{
		questionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nexus",
			Name:      "questions_total",
			Help:      "Questions processed, by routing outcome.",
		}, []string{"route"}),
		errorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nexus",
			Name:      "errors_total",
			Help:      "Pipeline errors, by kind.",
		}, []string{"kind"}),
		modelTokensTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nexus",
			Name:      "model_tokens_total",
			Help:      "Model tokens consumed, by direction.",
		}, []string{"direction"}),
		retrievalQueries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nexus",
			Name:      "retrieval_queries_total",
			Help:      "Vector-search queries issued.",
		}),
		warehouseBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nexus",
			Name:      "warehouse_bytes_scanned_total",
			Help:      "Warehouse bytes scanned.",
		}),
		turnDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "nexus",
			Name:      "turn_duration_seconds",
			Help:      "End-to-end latency of one question turn.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
	}

	prometheus.MustRegister(
		s.questionsTotal,
		s.errorsTotal,
		s.modelTokensTotal,
		s.retrievalQueries,
		s.warehouseBytes,
		s.turnDuration,
	)
	return s
}

// RecordTurn folds one completed turn into the collectors. Nil-safe so the
// interactive loop can run without a metrics service.
func (s *Service) RecordTurn(route string, rec *usage.Record, elapsed time.Duration) {
	if s == nil {
		return
	}
	s.questionsTotal.WithLabelValues(route).Inc()
	s.turnDuration.Observe(elapsed.Seconds())

	for _, e := range rec.Entries() {
		switch e.Kind {
		case usage.KindModel:
			s.modelTokensTotal.WithLabelValues("input").Add(float64(e.InputUnits))
			s.modelTokensTotal.WithLabelValues("output").Add(float64(e.OutputUnits))
		case usage.KindRetrieval:
			s.retrievalQueries.Inc()
		case usage.KindWarehouse:
			s.warehouseBytes.Add(float64(e.Bytes))
		}
	}
}

// RecordError counts one pipeline error by kind
func (s *Service) RecordError(kind string) {
	if s == nil {
		return
	}
	s.errorsTotal.WithLabelValues(kind).Inc()
}
