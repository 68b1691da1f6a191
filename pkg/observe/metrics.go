package observe

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/treestate-dev/treestate/pkg/reactive"
)

// MetricsConfig configures the Prometheus instrument.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "treestate").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for operation duration.
	// Default: prometheus.DefBuckets.
	Buckets []float64

	// RoundBuckets are the histogram buckets for flush rounds.
	// Default: 1, 2, 4, 8, 16, 32.
	RoundBuckets []float64

	// Registry is the Prometheus registerer to use.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus instrument.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the operation duration histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRoundBuckets sets the flush round histogram buckets.
func WithRoundBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.RoundBuckets = buckets
	}
}

// WithRegistry sets the Prometheus registerer.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace:    "treestate",
		Buckets:      prometheus.DefBuckets,
		RoundBuckets: []float64{1, 2, 4, 8, 16, 32},
		Registry:     prometheus.DefaultRegisterer,
	}
}

// metricsInstrument implements reactive.Instrument on Prometheus.
type metricsInstrument struct {
	operationsTotal    *prometheus.CounterVec
	operationDuration  *prometheus.HistogramVec
	notificationsTotal prometheus.Counter
	flushRounds        prometheus.Histogram
	topicsCreated      prometheus.Counter
	topicsDetached     prometheus.Counter
	validationErrors   prometheus.Counter
}

// Metrics creates a Prometheus-backed instrument.
//
// Metrics collected:
//   - treestate_operations_total: counter of public operations by op and status
//   - treestate_operation_duration_seconds: histogram of operation duration by op
//   - treestate_notifications_total: counter of reactions invoked by flushes
//   - treestate_flush_rounds: histogram of rounds needed to drain a flush
//   - treestate_topics_created_total / treestate_topics_detached_total: tree churn
//   - treestate_validation_errors_total: counter of rejected updates
//
// Install it with reactive.SetInstrument and expose the registry with
// promhttp as usual.
func Metrics(opts ...MetricsOption) reactive.Instrument {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &metricsInstrument{
		operationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "operations_total",
			Help:        "Total number of state tree operations",
			ConstLabels: config.ConstLabels,
		}, []string{"op", "status"}),

		operationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "operation_duration_seconds",
			Help:        "State tree operation duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"op"}),

		notificationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "notifications_total",
			Help:        "Total number of subscriber reactions invoked",
			ConstLabels: config.ConstLabels,
		}),

		flushRounds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_rounds",
			Help:        "Rounds needed to drain one notification flush",
			ConstLabels: config.ConstLabels,
			Buckets:     config.RoundBuckets,
		}),

		topicsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "topics_created_total",
			Help:        "Total number of topics allocated",
			ConstLabels: config.ConstLabels,
		}),

		topicsDetached: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "topics_detached_total",
			Help:        "Total number of topics reclaimed by detach",
			ConstLabels: config.ConstLabels,
		}),

		validationErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "validation_errors_total",
			Help:        "Total number of updates rejected by validation",
			ConstLabels: config.ConstLabels,
		}),
	}
}

func (m *metricsInstrument) OperationStarted(op string) func(error) {
	start := time.Now()
	return func(err error) {
		m.operationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

		status := "success"
		if err != nil {
			status = "error"
		}
		m.operationsTotal.WithLabelValues(op, status).Inc()
	}
}

func (m *metricsInstrument) FlushCompleted(rounds, notified int) {
	m.flushRounds.Observe(float64(rounds))
	m.notificationsTotal.Add(float64(notified))
}

func (m *metricsInstrument) TopicCreated() {
	m.topicsCreated.Inc()
}

func (m *metricsInstrument) TopicDetached() {
	m.topicsDetached.Inc()
}

func (m *metricsInstrument) ValidationRejected() {
	m.validationErrors.Inc()
}
