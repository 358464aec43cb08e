// Package metrics exposes Prometheus metrics for the ledger engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// EntriesPosted counts successfully committed journal entries by origin.
var EntriesPosted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "fundbooks",
	Subsystem: "ledger",
	Name:      "entries_posted_total",
	Help:      "Journal entries committed, by originating subsystem.",
}, []string{"origin"})

// PostingFailures counts rejected or failed postings by reason.
var PostingFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "fundbooks",
	Subsystem: "ledger",
	Name:      "posting_failures_total",
	Help:      "Postings that were rejected or failed, by reason.",
}, []string{"reason"})

// EntriesVoided counts voided journal entries.
var EntriesVoided = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "fundbooks",
	Subsystem: "ledger",
	Name:      "entries_voided_total",
	Help:      "Journal entries voided.",
})

// BatchItems counts batch-processing outcomes (depreciation, recurring).
var BatchItems = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "fundbooks",
	Subsystem: "batch",
	Name:      "items_total",
	Help:      "Batch items by job and outcome (processed, skipped, failed).",
}, []string{"job", "outcome"})

// ReconciliationsCompleted counts finalized bank reconciliations.
var ReconciliationsCompleted = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "fundbooks",
	Subsystem: "reconcile",
	Name:      "completed_total",
	Help:      "Bank reconciliations completed.",
})
