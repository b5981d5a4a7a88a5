// Package observ holds the service-level prometheus metrics that are not
// derivable from the per-request HTTP middleware.
package observ

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CheckoutOutcomes counts how submissions ended: done, failed, or
	// suspended awaiting the payment widget.
	CheckoutOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mealmate_checkout_outcomes_total",
			Help: "Checkout submission outcomes",
		},
		[]string{"outcome"},
	)

	// ActiveOrderStreams gauges open websocket tracking subscriptions.
	ActiveOrderStreams = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mealmate_active_order_streams",
			Help: "Open order tracking websocket connections",
		},
	)
)
