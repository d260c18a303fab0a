package metrics

import "github.com/prometheus/client_golang/prometheus"

// OrderMetrics records order lifecycle activity.
type OrderMetrics struct {
	transitions *prometheus.CounterVec
	payments    *prometheus.CounterVec
}

// NewOrderMetrics registers the order metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_transitions_total",
		Help: "Order status transitions, labelled by from and to status.",
	}, []string{"from", "to"})
	payments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_payment_transitions_total",
		Help: "Payment status transitions, labelled by from and to status.",
	}, []string{"from", "to"})
	reg.MustRegister(transitions, payments)
	return &OrderMetrics{
		transitions: transitions,
		payments:    payments,
	}
}

// IncTransition increments the order status transition counter.
func (o *OrderMetrics) IncTransition(from, to string) {
	if o == nil || o.transitions == nil {
		return
	}
	o.transitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}

// IncPaymentTransition increments the payment status transition counter.
func (o *OrderMetrics) IncPaymentTransition(from, to string) {
	if o == nil || o.payments == nil {
		return
	}
	o.payments.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}
