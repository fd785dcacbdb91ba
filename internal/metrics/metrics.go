package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogsocial_operations_total",
		Help: "The total number of graph operations by outcome",
	}, []string{"operation", "outcome"})

	operationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "blogsocial_operation_duration_seconds",
		Help:    "Histogram of graph operation latency in seconds",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"operation"})

	eventsDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogsocial_events_dispatched_total",
		Help: "The total number of events handed to each sink",
	}, []string{"sink", "outcome"})
)

// Outcome labels.
const (
	OK     = "ok"
	Failed = "error"
)

func outcome(err error) string {
	if err != nil {
		return Failed
	}
	return OK
}

func ObserveOperation(operation string, started time.Time, err error) {
	operationsTotal.WithLabelValues(operation, outcome(err)).Inc()
	operationDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

func CountDispatch(sink string, err error) {
	eventsDispatched.WithLabelValues(sink, outcome(err)).Inc()
}
