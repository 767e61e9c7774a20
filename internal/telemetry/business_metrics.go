package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics holds Prometheus metrics for storefront-level observability.
// Every recording method is safe to call on a nil receiver so packages can
// record unconditionally in tests.
type BusinessMetrics struct {
	// Cart
	CartMutations       *prometheus.CounterVec
	CartItemsAdded      *prometheus.CounterVec
	CartLoads           *prometheus.CounterVec
	CartPersistFailures *prometheus.CounterVec
	CartValue           prometheus.Histogram

	// Checkout funnel
	CheckoutStarted          *prometheus.CounterVec
	CheckoutValidationFailed *prometheus.CounterVec
	CheckoutSubmitted        *prometheus.CounterVec
	CheckoutOutcomes         *prometheus.CounterVec
	CheckoutErrors           *prometheus.CounterVec
	OrderValue               *prometheus.HistogramVec

	// Payment callbacks
	PaymentCallbacks *prometheus.CounterVec

	// Accounts & engagement
	Signups                 prometheus.Counter
	Logins                  *prometheus.CounterVec
	NewsletterSubscriptions prometheus.Counter
	ReviewsCreated          prometheus.Counter

	// Upstream API
	UpstreamLatency      *prometheus.HistogramVec
	UpstreamBreakerState *prometheus.GaugeVec
}

// NewBusinessMetrics registers all business metrics with reg.
// A nil reg uses the default Prometheus registerer.
func NewBusinessMetrics(namespace string, reg prometheus.Registerer) *BusinessMetrics {
	if namespace == "" {
		namespace = "vortex"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)
	subsystem := "business"

	return &BusinessMetrics{
		// =======================================================================
		// Cart
		// =======================================================================
		CartMutations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_mutations_total",
				Help:      "Total cart mutations by operation",
			},
			[]string{"operation"}, // add, update, remove, clear
		),
		CartItemsAdded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_items_added_total",
				Help:      "Total units added to carts",
			},
			[]string{"category"},
		),
		CartLoads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_loads_total",
				Help:      "Cart rehydrations from session storage by result",
			},
			[]string{"result"}, // restored, empty, corrupt, unavailable
		),
		CartPersistFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_persist_failures_total",
				Help:      "Cart writes to session storage that failed (in-memory cart kept)",
			},
			[]string{"operation"},
		),
		CartValue: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_value",
				Help:      "Cart subtotal at checkout entry in currency units",
				Buckets:   []float64{5000, 10000, 20000, 50000, 100000, 250000, 500000},
			},
		),

		// =======================================================================
		// Checkout
		// =======================================================================
		CheckoutStarted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_started_total",
				Help:      "Checkout submissions received",
			},
			[]string{"payment_method"},
		),
		CheckoutValidationFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_validation_failed_total",
				Help:      "Checkout submissions rejected before reaching the order service",
			},
			[]string{"field"},
		),
		CheckoutSubmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_submitted_total",
				Help:      "Orders sent to the order service",
			},
			[]string{"payment_method"},
		),
		CheckoutOutcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_outcomes_total",
				Help:      "Checkout attempt end states",
			},
			[]string{"outcome"}, // redirect, success, failed, unexpected
		),
		CheckoutErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_errors_total",
				Help:      "Order submission failures by class",
			},
			[]string{"kind"}, // network, timeout, server, other
		),
		OrderValue: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_value",
				Help:      "Submitted order totals in currency units",
				Buckets:   []float64{5000, 10000, 20000, 50000, 100000, 250000, 500000},
			},
			[]string{"payment_method"},
		),

		// =======================================================================
		// Payment callbacks
		// =======================================================================
		PaymentCallbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "payment_callbacks_total",
				Help:      "Gateway callbacks by interpreted status",
			},
			[]string{"gateway", "status"},
		),

		// =======================================================================
		// Accounts & engagement
		// =======================================================================
		Signups: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "signups_total",
				Help:      "Successful account signups",
			},
		),
		Logins: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "logins_total",
				Help:      "Login attempts by result",
			},
			[]string{"result"},
		),
		NewsletterSubscriptions: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "newsletter_subscriptions_total",
				Help:      "Newsletter subscriptions forwarded",
			},
		),
		ReviewsCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "reviews_created_total",
				Help:      "Product reviews created",
			},
		),

		// =======================================================================
		// Upstream API
		// =======================================================================
		UpstreamLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "upstream_duration_seconds",
				Help:      "Storefront API call duration",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"operation", "result"},
		),
		UpstreamBreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "upstream_breaker_state",
				Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
			},
			[]string{"name"},
		),
	}
}

// Global instance for easy access from handlers
var Business *BusinessMetrics

// InitBusinessMetrics initializes the global business metrics instance
func InitBusinessMetrics(namespace string) *BusinessMetrics {
	Business = NewBusinessMetrics(namespace, nil)
	return Business
}

// RecordCartMutation counts a cart operation.
func (m *BusinessMetrics) RecordCartMutation(operation string) {
	if m == nil {
		return
	}
	m.CartMutations.WithLabelValues(operation).Inc()
}

// RecordCartAdd counts units added for a product category.
func (m *BusinessMetrics) RecordCartAdd(category string, quantity int) {
	if m == nil {
		return
	}
	m.CartItemsAdded.WithLabelValues(category).Add(float64(quantity))
}

// RecordCartLoad counts a cart rehydration result.
func (m *BusinessMetrics) RecordCartLoad(result string) {
	if m == nil {
		return
	}
	m.CartLoads.WithLabelValues(result).Inc()
}

// RecordCartPersistFailure counts a failed cart write.
func (m *BusinessMetrics) RecordCartPersistFailure(operation string) {
	if m == nil {
		return
	}
	m.CartPersistFailures.WithLabelValues(operation).Inc()
}

// RecordCheckoutEntry observes the cart value when a shopper opens checkout.
func (m *BusinessMetrics) RecordCheckoutEntry(subtotal int64) {
	if m == nil {
		return
	}
	m.CartValue.Observe(float64(subtotal))
}

// RecordCheckoutStarted counts a checkout submission.
func (m *BusinessMetrics) RecordCheckoutStarted(method string) {
	if m == nil {
		return
	}
	m.CheckoutStarted.WithLabelValues(method).Inc()
}

// RecordValidationFailure counts a rejected form by its first failing field.
func (m *BusinessMetrics) RecordValidationFailure(field string) {
	if m == nil {
		return
	}
	m.CheckoutValidationFailed.WithLabelValues(field).Inc()
}

// RecordOrderSubmitted counts an order sent upstream and observes its total.
func (m *BusinessMetrics) RecordOrderSubmitted(method string, total int64) {
	if m == nil {
		return
	}
	m.CheckoutSubmitted.WithLabelValues(method).Inc()
	m.OrderValue.WithLabelValues(method).Observe(float64(total))
}

// RecordCheckoutOutcome counts how a checkout attempt ended.
func (m *BusinessMetrics) RecordCheckoutOutcome(outcome string) {
	if m == nil {
		return
	}
	m.CheckoutOutcomes.WithLabelValues(outcome).Inc()
}

// RecordCheckoutError counts a submission failure class.
func (m *BusinessMetrics) RecordCheckoutError(kind string) {
	if m == nil {
		return
	}
	m.CheckoutErrors.WithLabelValues(kind).Inc()
}

// RecordPaymentCallback counts an interpreted gateway callback.
func (m *BusinessMetrics) RecordPaymentCallback(gateway, status string) {
	if m == nil {
		return
	}
	m.PaymentCallbacks.WithLabelValues(gateway, status).Inc()
}

// RecordSignup counts a successful signup.
func (m *BusinessMetrics) RecordSignup() {
	if m == nil {
		return
	}
	m.Signups.Inc()
}

// RecordLogin counts a login attempt.
func (m *BusinessMetrics) RecordLogin(success bool) {
	if m == nil {
		return
	}
	result := "failed"
	if success {
		result = "success"
	}
	m.Logins.WithLabelValues(result).Inc()
}

// RecordNewsletterSubscription counts a forwarded subscription.
func (m *BusinessMetrics) RecordNewsletterSubscription() {
	if m == nil {
		return
	}
	m.NewsletterSubscriptions.Inc()
}

// RecordReviewCreated counts a created review.
func (m *BusinessMetrics) RecordReviewCreated() {
	if m == nil {
		return
	}
	m.ReviewsCreated.Inc()
}

// ObserveUpstream records the latency of one outbound API call.
func (m *BusinessMetrics) ObserveUpstream(operation string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.UpstreamLatency.WithLabelValues(operation, result).Observe(elapsed.Seconds())
}

// SetBreakerState records the numeric breaker state.
func (m *BusinessMetrics) SetBreakerState(name string, state int) {
	if m == nil {
		return
	}
	m.UpstreamBreakerState.WithLabelValues(name).Set(float64(state))
}
