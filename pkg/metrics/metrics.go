// Package metrics holds the Prometheus collectors of the service.
//
// Collectors are created eagerly so instrumented code works in tests without a registry;
// InitMetrics registers them once with the default (or a given) registerer.
//
// Naming follows Prometheus conventions: <namespace>_<name>_<unit>, counters end in _total.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "boipara"

var registerOnce sync.Once

// ============================================================
// HTTP
// ============================================================

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status.",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 5},
	}, []string{"method", "path"})

	HTTPRequestsInProgress = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "http_requests_in_progress",
		Help:      "HTTP requests currently being served.",
	})
)

// ============================================================
// Orders
// ============================================================

var (
	OrdersCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Orders placed successfully.",
	})

	OrdersFailedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_failed_total",
		Help:      "Order placements that failed, by reason.",
	}, []string{"reason"})

	OrderCreationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "order_creation_duration_seconds",
		Help:      "Time spent placing an order, transaction included.",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	})

	OrderStatusTransitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_status_transitions_total",
		Help:      "Order status changes by target status.",
	}, []string{"status"})
)

// ============================================================
// Search
// ============================================================

var (
	SearchCacheRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "search_cache_requests_total",
		Help:      "Suggestion cache lookups by result (hit|miss).",
	}, []string{"result"})

	SearchQueryDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "search_query_duration_seconds",
		Help:      "Ranked suggestion query latency.",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
	})

	SearchErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "search_errors_total",
		Help:      "Suggestion queries that failed, by kind (timeout|store).",
	}, []string{"kind"})
)

// ============================================================
// Real-time push and outbox
// ============================================================

var (
	RealtimeConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "realtime_connections",
		Help:      "Open push connections on this instance.",
	})

	RealtimeEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "realtime_events_total",
		Help:      "Push events by name and result (delivered|dropped|no_recipient).",
	}, []string{"event", "result"})

	OutboxDispatchedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "outbox_dispatched_total",
		Help:      "Outbox entries processed by kind and result (dispatched|retry|failed).",
	}, []string{"kind", "result"})

	OutboxBatchSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "outbox_batch_size",
		Help:      "Pending entries picked per dispatcher pass.",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
	})
)

// ============================================================
// Resilience and messaging
// ============================================================

var (
	CircuitBreakerState = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "circuit_breaker_state",
		Help:      "Breaker state (0=closed, 1=open, 2=half_open).",
	}, []string{"name"})

	CircuitBreakerRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "circuit_breaker_requests_total",
		Help:      "Breaker-guarded calls by result (success|failure|rejected).",
	}, []string{"name", "result"})

	SagaExecutionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "saga_executions_total",
		Help:      "Saga runs by name and result.",
	}, []string{"saga", "result"})

	MessagesPublishedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_published_total",
		Help:      "Messages published to a broker by sink and topic.",
	}, []string{"sink", "topic"})

	MessagesConsumedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_consumed_total",
		Help:      "Broker messages consumed by source and result.",
	}, []string{"source", "result"})
)

func collectors() []prometheus.Collector {
	return []prometheus.Collector{
		HTTPRequestsTotal, HTTPRequestDuration, HTTPRequestsInProgress,
		OrdersCreatedTotal, OrdersFailedTotal, OrderCreationDuration, OrderStatusTransitionsTotal,
		SearchCacheRequestsTotal, SearchQueryDuration, SearchErrorsTotal,
		RealtimeConnections, RealtimeEventsTotal, OutboxDispatchedTotal, OutboxBatchSize,
		CircuitBreakerState, CircuitBreakerRequests, SagaExecutionsTotal,
		MessagesPublishedTotal, MessagesConsumedTotal,
	}
}

// InitMetrics registers every collector with reg (nil means the default registerer).
// Later calls are no-ops.
func InitMetrics(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		reg.MustRegister(collectors()...)
	})
}

// ============================================================
// Helpers
// ============================================================

func IncCounterVec(counter *prometheus.CounterVec, labels ...string) {
	counter.WithLabelValues(labels...).Inc()
}

func SetGaugeVec(gauge *prometheus.GaugeVec, value float64, labels ...string) {
	gauge.WithLabelValues(labels...).Set(value)
}

func ObserveHistogramVec(histogram *prometheus.HistogramVec, value float64, labels ...string) {
	histogram.WithLabelValues(labels...).Observe(value)
}
