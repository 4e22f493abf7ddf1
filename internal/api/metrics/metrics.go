// Package metrics defines and registers all custom Prometheus metrics for the
// affirmation API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package init
// via promauto and exposed on GET /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "affirmations"

// ── Cache metrics ─────────────────────────────────────────────────────────────

// FetchesTotal counts upstream fetch attempts.
// Label:
//   - outcome: "fetched", "no_data" or "transport_error"
var FetchesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetches_total",
		Help:      "Total number of upstream affirmation fetches, by outcome.",
	},
	[]string{"outcome"},
)

// UpstreamDuration measures the latency of the upstream call alone.
// Label:
//   - outcome: same values as FetchesTotal
var UpstreamDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Duration of requests to the upstream affirmation source.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"outcome"},
)

// Stored tracks how many affirmations the cache currently holds.
var Stored = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "stored",
		Help:      "Current number of affirmations held in memory.",
	},
)

// EvictedTotal counts entries dropped by the drop-oldest capacity policy.
var EvictedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "evicted_total",
		Help:      "Total number of affirmations dropped because the cache was at capacity.",
	},
)

// ── Account metrics ───────────────────────────────────────────────────────────

// AccountsCreatedTotal counts successfully created accounts.
var AccountsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "accounts_created_total",
		Help:      "Total number of user accounts created.",
	},
)

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "not_found" or "locked"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)
