// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "homebudget_http_requests_total",
	Help: "HTTP requests by method and status code.",
}, []string{"method", "status"})

var RequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "homebudget_http_request_duration_seconds",
	Help:    "HTTP request latency.",
	Buckets: prometheus.DefBuckets,
})

var AutoPayRuns = promauto.NewCounter(prometheus.CounterOpts{
	Name: "homebudget_autopay_runs_total",
	Help: "Auto-payment scheduler scans.",
})

var AutoPayMaterialized = promauto.NewCounter(prometheus.CounterOpts{
	Name: "homebudget_autopay_transactions_total",
	Help: "Transactions materialized by the auto-payment scheduler.",
})

var AuditEntriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "homebudget_audit_entries_total",
	Help: "Audit log entries appended, by action type.",
}, []string{"action"})
