package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics groups the order workflow metrics.
type OrderMetrics struct {
	ordersCreated      prometheus.Counter
	ordersUpdated      prometheus.Counter
	ordersDeleted      prometheus.Counter
	validationFailures *prometheus.CounterVec
	workflowDuration   *prometheus.HistogramVec
	notificationsQueued prometheus.Counter
}

// NewOrderMetrics creates (or reuses) the workflow metrics on the default
// registerer. Safe to call more than once.
func NewOrderMetrics() *OrderMetrics {
	return newOrderMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newOrderMetricsWithRegisterer(registerer prometheus.Registerer) *OrderMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &OrderMetrics{
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "testecomerc_orders_created_total",
			Help: "Total number of orders created",
		}),
		ordersUpdated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "testecomerc_orders_updated_total",
			Help: "Total number of orders updated",
		}),
		ordersDeleted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "testecomerc_orders_deleted_total",
			Help: "Total number of orders soft-deleted",
		}),
		validationFailures: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "testecomerc_order_validation_failures_total",
			Help: "Total number of order requests rejected by validation",
		}, []string{"operation"}),
		workflowDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "testecomerc_order_workflow_duration_seconds",
			Help:    "Duration of order workflow operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"operation"}),
		notificationsQueued: registerCounter(registerer, prometheus.CounterOpts{
			Name: "testecomerc_order_notifications_enqueued_total",
			Help: "Total number of order-created notifications enqueued to the outbox",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOrderCreated increments the created-order counter.
func (m *OrderMetrics) RecordOrderCreated() {
	m.ordersCreated.Inc()
}

// RecordOrderUpdated increments the updated-order counter.
func (m *OrderMetrics) RecordOrderUpdated() {
	m.ordersUpdated.Inc()
}

// RecordOrderDeleted increments the soft-delete counter.
func (m *OrderMetrics) RecordOrderDeleted() {
	m.ordersDeleted.Inc()
}

// RecordValidationFailure increments the rejected-request counter.
func (m *OrderMetrics) RecordValidationFailure(operation string) {
	m.validationFailures.WithLabelValues(operation).Inc()
}

// RecordWorkflowDuration records the duration of one workflow operation.
func (m *OrderMetrics) RecordWorkflowDuration(operation string, duration time.Duration) {
	m.workflowDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordNotificationEnqueued increments the enqueued-notification counter.
func (m *OrderMetrics) RecordNotificationEnqueued() {
	m.notificationsQueued.Inc()
}
