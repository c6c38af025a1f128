// Package metrics defines and registers all custom Prometheus metrics for the
// attendance API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation through promauto and served by the echoprometheus handler.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "attendance"

// ── Kiosk workflow ────────────────────────────────────────────────────────────

// RecognitionsTotal counts kiosk recognition attempts.
// Label:
//   - outcome: "recognized", "not_recognized", "invalid_input" or "upstream_error"
var RecognitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recognitions_total",
		Help:      "Total number of kiosk recognition attempts, by outcome.",
	},
	[]string{"outcome"},
)

// CheckInsTotal counts persisted check-ins.
// Label:
//   - status: "present" or "late"
var CheckInsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "check_ins_total",
		Help:      "Total number of attendance records written, by status.",
	},
	[]string{"status"},
)

// DegradedResponsesTotal counts workflow answers produced while the datastore
// was unavailable.
// Label:
//   - stage: "employee_lookup", "duplicate_check" or "record_write"
var DegradedResponsesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "degraded_responses_total",
		Help:      "Total number of kiosk responses produced in degraded mode, by failing stage.",
	},
	[]string{"stage"},
)

// ── Recognizer ────────────────────────────────────────────────────────────────

// RecognizerRequestDuration measures calls to the face-recognition service.
// Labels:
//   - operation: "recognize", "enroll" or "health"
//   - result: "ok" or "error"
var RecognizerRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "recognizer_request_duration_seconds",
		Help:      "Duration of requests to the face-recognition service.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	},
	[]string{"operation", "result"},
)

// ── Audit log ─────────────────────────────────────────────────────────────────

// AuditQueueDepth tracks the entries waiting in each audit worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit entries pending in each recorder worker channel.",
	},
	[]string{"worker_id"},
)

// AuditDroppedTotal counts audit entries lost before reaching storage.
// Label:
//   - reason: "queue_full", "closed" or "write_failed"
var AuditDroppedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_dropped_total",
		Help:      "Total number of audit entries that were not persisted, by reason.",
	},
	[]string{"reason"},
)

// ── Live feed ─────────────────────────────────────────────────────────────────

// LiveFeedClients tracks connected dashboard websocket clients.
var LiveFeedClients = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "live_feed_clients",
		Help:      "Number of dashboard clients subscribed to the live check-in feed.",
	},
)
