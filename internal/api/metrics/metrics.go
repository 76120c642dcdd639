// Package metrics defines and registers all custom Prometheus metrics for the
// meal portal. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry through promauto
// when the package is first imported.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "mealportal"

// ── Upstream metrics ──────────────────────────────────────────────────────────

// UpstreamRequestsTotal counts calls made to the backend services.
// Labels:
//   - service: "user", "order" or "admin"
//   - outcome: "ok", "client_error", "server_error" or "unavailable"
var UpstreamRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Total number of requests sent to backend services, by outcome.",
	},
	[]string{"service", "outcome"},
)

// UpstreamRequestDuration measures backend round trips.
// Label:
//   - service: "user", "order" or "admin"
var UpstreamRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Duration of requests sent to backend services.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"service"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "bad_credentials" or "profile_failed"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ActiveSessions tracks the number of session contexts held in memory.
var ActiveSessions = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Current number of live session contexts.",
	},
)

// SessionRestoresTotal counts restores of persisted sessions.
// Label:
//   - result: "restored", "empty", "expired" or "error"
var SessionRestoresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_restores_total",
		Help:      "Total number of persisted session restores, by result.",
	},
	[]string{"result"},
)

// ── Aggregator metrics ────────────────────────────────────────────────────────

// SupplementaryFallbacksTotal counts per-item supplementary fetches that failed
// and were rendered without their extra data.
// Label:
//   - aggregator: "dining_records", "menu" or "today"
var SupplementaryFallbacksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "supplementary_fallbacks_total",
		Help:      "Total number of per-item supplementary fetches that degraded to no data.",
	},
	[]string{"aggregator"},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationRefreshQueueDepth tracks pending refreshes in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var NotificationRefreshQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notification_refresh_queue_depth",
		Help:      "Current number of billing events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// NotificationRefreshTotal counts billing events handled by the dispatcher.
// Label:
//   - result: "refreshed", "no_session" or "dropped"
var NotificationRefreshTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_refresh_total",
		Help:      "Total number of billing events handled, by result.",
	},
	[]string{"result"},
)
