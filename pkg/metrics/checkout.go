package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics counts terminal outcomes of register checkouts.
type CheckoutMetrics struct {
	completed       *prometheus.CounterVec
	cancelled       prometheus.Counter
	aborted         prometheus.Counter
	accrualFailures prometheus.Counter
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	completed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_completed_total",
		Help: "Checkouts that reached the completed state.",
	}, []string{"type"})
	cancelled := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_cancelled_total",
		Help: "Checkouts compensated to cancelled after an inventory failure.",
	})
	aborted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_aborted_total",
		Help: "Checkouts aborted before any state change.",
	})
	accrualFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "loyalty_accrual_failures_total",
		Help: "Loyalty accrual updates that failed after a completed sale.",
	})
	reg.MustRegister(completed, cancelled, aborted, accrualFailures)
	return &CheckoutMetrics{
		completed:       completed,
		cancelled:       cancelled,
		aborted:         aborted,
		accrualFailures: accrualFailures,
	}
}

// IncCompleted increments the completed counter for the transaction type.
func (c *CheckoutMetrics) IncCompleted(transactionType string) {
	if c == nil || c.completed == nil {
		return
	}
	if transactionType == "" {
		transactionType = "unknown"
	}
	c.completed.WithLabelValues(transactionType).Inc()
}

// IncCancelled increments the cancelled counter.
func (c *CheckoutMetrics) IncCancelled() {
	if c == nil || c.cancelled == nil {
		return
	}
	c.cancelled.Inc()
}

// IncAborted increments the aborted counter.
func (c *CheckoutMetrics) IncAborted() {
	if c == nil || c.aborted == nil {
		return
	}
	c.aborted.Inc()
}

// IncAccrualFailure increments the loyalty accrual failure counter.
func (c *CheckoutMetrics) IncAccrualFailure() {
	if c == nil || c.accrualFailures == nil {
		return
	}
	c.accrualFailures.Inc()
}
