// Package metrics defines and registers all custom Prometheus metrics for the
// storefront API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics register with the default Prometheus registry on package load; the
// /metrics endpoint exposes them next to the echoprometheus HTTP metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// ── Order metrics ─────────────────────────────────────────────────────────────

// OrdersCreatedTotal counts orders that were persisted.
// Label:
//   - payment_method: "cash", "card" or "online"
var OrdersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of orders created, by payment method.",
	},
	[]string{"payment_method"},
)

// OrderFailuresTotal counts checkouts that were rejected or failed.
// Label:
//   - reason: "cart_empty", "insufficient_stock", "product_missing", "invalid_input", "in_progress", "store_error"
var OrderFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_failures_total",
		Help:      "Total number of checkouts that did not produce an order.",
	},
	[]string{"reason"},
)

// OrderNumberRetriesTotal counts order number collisions that forced a retry.
var OrderNumberRetriesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_number_retries_total",
		Help:      "Total number of order number collisions resolved by regenerating the number.",
	},
)

// OrderValue observes the final total of created orders.
var OrderValue = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "order_value",
		Help:      "Distribution of order totals including the delivery fee.",
		Buckets:   []float64{100, 250, 500, 1000, 2500, 5000, 10000},
	},
)

// OrderStatusUpdatesTotal counts admin status writes.
// Label:
//   - status: the status written
var OrderStatusUpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_status_updates_total",
		Help:      "Total number of order status updates, by new status.",
	},
	[]string{"status"},
)

// ── Cart and auth metrics ─────────────────────────────────────────────────────

// CartMutationsTotal counts successful cart writes.
// Label:
//   - op: "add" or "remove"
var CartMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_mutations_total",
		Help:      "Total number of cart mutations, by operation.",
	},
	[]string{"op"},
)

// AuthFailuresTotal counts rejected logins and bearer tokens.
// Label:
//   - reason: "bad_credentials", "invalid_token", "principal_missing"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of authentication failures, by reason.",
	},
	[]string{"reason"},
)
