package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	StoreMutations  *prometheus.CounterVec
	RemoteUpdates   *prometheus.CounterVec
	MirrorPushes    *prometheus.CounterVec
	PushDuration    prometheus.Histogram
	OutboxPending   prometheus.Gauge
	AlertsScheduled *prometheus.CounterVec
	ErrorsCount     *prometheus.CounterVec
}

// NewMetrics creates new prometheus metrics registered on the default registry
func NewMetrics(namespace string) *Metrics {
	return NewMetricsWithRegistry(namespace, prometheus.DefaultRegisterer)
}

// NewMetricsWithRegistry creates metrics on the given registerer so tests can
// build several instances without duplicate registration.
func NewMetricsWithRegistry(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		StoreMutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_mutations_total",
			Help:      "The total number of applied store mutations",
		}, []string{"collection", "operation"}),
		RemoteUpdates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mirror_remote_updates_total",
			Help:      "The total number of remote documents applied to local stores",
		}, []string{"collection"}),
		MirrorPushes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mirror_pushes_total",
			Help:      "The total number of mirror push attempts by result",
		}, []string{"result"}),
		PushDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "mirror_push_duration_seconds",
			Help:      "Time taken to push a collection document",
			Buckets:   prometheus.DefBuckets,
		}),
		OutboxPending: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "outbox_pending",
			Help:      "Sync tasks waiting in the outbox",
		}),
		AlertsScheduled: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_scheduled_total",
			Help:      "The total number of scheduled alerts by kind",
		}, []string{"kind"}),
		ErrorsCount: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}
