// Package metrics defines and registers all custom Prometheus metrics for the
// Travel Stay marketplace API. It is the single source of truth for metric
// names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "travelstay"

// ── Authorization metrics ─────────────────────────────────────────────────────

// TokensIssuedTotal counts session tokens issued by the /jwt endpoint.
var TokensIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of session tokens issued.",
	},
)

// AuthDenialsTotal counts requests rejected by the authorization gate.
// Label:
//   - reason: "unauthenticated" (missing/invalid/expired token) or
//     "forbidden" (role or ownership mismatch)
var AuthDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_denials_total",
		Help:      "Total number of requests denied by the authorization gate.",
	},
	[]string{"reason"},
)

// PromotionsTotal counts successful role promotions.
// Label:
//   - role: "owner" or "admin"
var PromotionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "promotions_total",
		Help:      "Total number of role promotions, by target role.",
	},
	[]string{"role"},
)

// ── Listing metrics ───────────────────────────────────────────────────────────

// ListingsCreatedTotal counts newly submitted listings.
// Label:
//   - status: the initial moderation status (usually "pending")
var ListingsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listings_created_total",
		Help:      "Total number of listings created, by initial status.",
	},
	[]string{"status"},
)

// ModerationsTotal counts admin moderation decisions.
// Labels:
//   - status: "approved" or "denied"
//   - result: "matched" (existing listing updated) or "upserted" (missing id created)
var ModerationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "moderations_total",
		Help:      "Total number of listing moderation decisions, by status and match result.",
	},
	[]string{"status", "result"},
)

// ── Infrastructure metrics ────────────────────────────────────────────────────

// TopCitiesCacheTotal counts city aggregate cache lookups.
// Label:
//   - result: "hit" or "miss"
var TopCitiesCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "top_cities_cache_total",
		Help:      "Total number of top-cities cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// AuditQueueDepth tracks the number of audit events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
