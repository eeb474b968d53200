// Package metrics defines and registers all custom Prometheus metrics for the
// point-of-sale API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on import via
// promauto and exposed by the /metrics handler.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pos"

// ── Ticket metrics ────────────────────────────────────────────────────────────

// TicketsGeneratedTotal counts tickets created.
// Label:
//   - replay: "true" when an Idempotency-Key returned an existing ticket
var TicketsGeneratedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tickets_generated_total",
		Help:      "Total number of ticket generation requests that succeeded.",
	},
	[]string{"replay"},
)

// TicketsCancelledTotal counts tickets moved to CANCELLED.
var TicketsCancelledTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tickets_cancelled_total",
		Help:      "Total number of ticket cancellations.",
	},
)

// RevenueTotal accumulates the totals of generated tickets, in currency units.
var RevenueTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "revenue_total",
		Help:      "Sum of generated ticket totals.",
	},
)

// ── Stock & promotion metrics ─────────────────────────────────────────────────

// StockUpdatesTotal counts stock writes.
// Label:
//   - scope: "ALL", "CATEGORY" or "SINGLE"
var StockUpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stock_updates_total",
		Help:      "Total number of stock update commands, by scope.",
	},
	[]string{"scope"},
)

// StockProductsUpdatedTotal counts individual product writes across all stock updates.
var StockProductsUpdatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stock_products_updated_total",
		Help:      "Total number of product stock values written.",
	},
)

// PromotionOpsTotal counts promotion commands.
// Label:
//   - op: "create", "update" or "delete"
var PromotionOpsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "promotion_ops_total",
		Help:      "Total number of promotion commands, by operation.",
	},
	[]string{"op"},
)

// ── Highlight metrics ─────────────────────────────────────────────────────────

// HighlightRequestsTotal counts calls to the highlight collaborator.
// Label:
//   - result: "ok", "empty" or "error"
var HighlightRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "highlight_requests_total",
		Help:      "Total number of highlight suggestion calls, by result.",
	},
	[]string{"result"},
)

// HighlightDroppedTotal counts refresh requests that were not queued.
// Label:
//   - reason: "in_flight" or "queue_full"
var HighlightDroppedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "highlight_dropped_total",
		Help:      "Total number of highlight refresh requests dropped before processing.",
	},
	[]string{"reason"},
)

// HighlightQueueDepth tracks the number of refresh requests waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var HighlightQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "highlight_queue_depth",
		Help:      "Current number of refresh requests pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// HighlightDuration measures how long a single suggestion call takes.
// Label:
//   - result: "ok", "empty" or "error"
var HighlightDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "highlight_duration_seconds",
		Help:      "Duration of highlight suggestion calls.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"result"},
)
