// Package metrics defines and registers all custom Prometheus metrics for the
// account service. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics register with the default Prometheus registry at package import;
// the router exposes them on GET /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "account"

// ── Registration metrics ──────────────────────────────────────────────────────

// RegistrationsTotal counts registration attempts by outcome.
// Label:
//   - result: "created" or "duplicate"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, labelled by result.",
	},
	[]string{"result"},
)

// PasswordHashDuration measures how long a single bcrypt hash takes.
var PasswordHashDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "password_hash_duration_seconds",
		Help:      "Duration of password hashing during registration.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthFailuresTotal counts rejected requests at the auth gate.
// Label:
//   - reason: "missing_token" or "invalid_token"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of requests rejected by the auth middleware.",
	},
	[]string{"reason"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditEventsTotal counts audit events successfully persisted.
// Label:
//   - action: the recorded account action (e.g. "registered")
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of audit events successfully recorded.",
	},
	[]string{"action"},
)

// AuditDedupTotal counts deduplication decisions in the audit pipeline.
// Label:
//   - result: "hit" (duplicate, skipped) or "miss" (new event, recorded)
var AuditDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_dedup_total",
		Help:      "Total number of audit deduplication checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)
