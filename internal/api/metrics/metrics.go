// Package metrics defines and registers all custom Prometheus metrics for the
// checklist BFF. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default registry on package init through
// promauto; /metrics serves them with promhttp.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bennati/checklist-bff/internal/core/domain"
)

const namespace = "checklist_bff"

// ── Backend gateway ───────────────────────────────────────────────────────────

// GatewayRequestsTotal counts calls to the backend service.
// Labels:
//   - op: gateway operation (e.g. "login", "update_item")
//   - status: HTTP status returned, or "unreachable" when no response arrived
var GatewayRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gateway_requests_total",
		Help:      "Total number of backend requests, by operation and status.",
	},
	[]string{"op", "status"},
)

// GatewayRequestDuration measures backend round trips.
var GatewayRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "gateway_request_duration_seconds",
		Help:      "Duration of backend requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"op"},
)

// ObserveGateway matches backend.Observer.
func ObserveGateway(op string, status int, elapsed time.Duration) {
	label := "unreachable"
	if status != 0 {
		label = strconv.Itoa(status)
	}
	GatewayRequestsTotal.WithLabelValues(op, label).Inc()
	GatewayRequestDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// ── Sessions ──────────────────────────────────────────────────────────────────

// SessionLoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var SessionLoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ActiveWorkspaces is the number of sessions held in memory.
var ActiveWorkspaces = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_workspaces",
		Help:      "Current number of in-memory session workspaces.",
	},
)

// SetActiveWorkspaces matches service.WorkspaceConfig.OnSizeChange.
func SetActiveWorkspaces(n int) { ActiveWorkspaces.Set(float64(n)) }

// ── Checklist ─────────────────────────────────────────────────────────────────

// ChecklistCompletionsTotal counts checklists moved to completed.
var ChecklistCompletionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checklist_completions_total",
		Help:      "Total number of checklists completed.",
	},
)

// ValidationRejectionsTotal counts requests refused before reaching the backend.
// Label:
//   - code: validation code (e.g. "required_tasks_incomplete", "file_too_large")
var ValidationRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "validation_rejections_total",
		Help:      "Total number of requests rejected by local validation, by code.",
	},
	[]string{"code"},
)

// ── Inventory ─────────────────────────────────────────────────────────────────

// InventoryBatchesTotal counts save batches.
// Label:
//   - outcome: "complete", "aborted" or "empty"
var InventoryBatchesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "inventory_batches_total",
		Help:      "Total number of inventory save batches, by outcome.",
	},
	[]string{"outcome"},
)

// InventoryBatchItemsTotal counts staged changes by their fate in a batch.
// Label:
//   - result: "applied", "failed" or "skipped"
var InventoryBatchItemsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "inventory_batch_items_total",
		Help:      "Total number of staged inventory changes, by result.",
	},
	[]string{"result"},
)

// ObserveBatch records one save batch report.
func ObserveBatch(r *domain.BatchReport) {
	switch {
	case r == nil:
		return
	case r.NothingToSave:
		InventoryBatchesTotal.WithLabelValues("empty").Inc()
		return
	case r.Complete():
		InventoryBatchesTotal.WithLabelValues("complete").Inc()
	default:
		InventoryBatchesTotal.WithLabelValues("aborted").Inc()
	}
	InventoryBatchItemsTotal.WithLabelValues(string(domain.OutcomeApplied)).Add(float64(r.Applied))
	InventoryBatchItemsTotal.WithLabelValues(string(domain.OutcomeFailed)).Add(float64(r.Failed))
	InventoryBatchItemsTotal.WithLabelValues(string(domain.OutcomeSkipped)).Add(float64(r.Skipped))
}

// ── Audit queue ───────────────────────────────────────────────────────────────

// AuditQueueDepth tracks the reports waiting in each audit worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of batch reports pending in each audit worker channel.",
	},
	[]string{"worker_id"},
)

// AuditDroppedTotal counts reports discarded because the queue was full.
var AuditDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_dropped_total",
		Help:      "Total number of batch reports dropped because the audit queue was full.",
	},
)
