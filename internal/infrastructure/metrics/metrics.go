package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ReversalMetrics holds all dispute-workflow metrics.
type ReversalMetrics struct {
	ReversalsSubmittedTotal prometheus.CounterVec
	ReversalsDecidedTotal   prometheus.CounterVec
	DecisionSLAHours        prometheus.HistogramVec

	PendingReversalsCount prometheus.Gauge

	SourceFailuresTotal     prometheus.CounterVec
	LegacyScanFailuresTotal prometheus.CounterVec
	AuditSyncFailuresTotal  prometheus.CounterVec
}

func NewReversalMetrics() *ReversalMetrics {
	return &ReversalMetrics{
		ReversalsSubmittedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reversals_submitted_total",
				Help: "Total number of submitted reversal requests",
			},
			[]string{"scorecard_table"},
		),

		ReversalsDecidedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reversals_decided_total",
				Help: "Total number of decided reversal requests",
			},
			[]string{"scorecard_table", "decision"},
		),

		DecisionSLAHours: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "reversal_decision_sla_hours",
				Help:    "Hours between submission and final decision",
				Buckets: prometheus.ExponentialBuckets(1, 2, 10), // 1h, 2h, 4h, 8h...
			},
			[]string{"decision"},
		),

		PendingReversalsCount: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "reversals_pending_count",
				Help: "Current number of pending reversal requests",
			},
		),

		SourceFailuresTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reversal_source_failures_total",
				Help: "Audit-table batch fetches that failed and were omitted from a read",
			},
			[]string{"scorecard_table"},
		),

		LegacyScanFailuresTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reversal_legacy_scan_failures_total",
				Help: "Legacy scans that failed for a single audit table",
			},
			[]string{"scorecard_table"},
		),

		AuditSyncFailuresTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reversal_audit_sync_failures_total",
				Help: "Approved decisions whose audit-row sync failed (ledger stays authoritative)",
			},
			[]string{"scorecard_table"},
		),
	}
}

func (m *ReversalMetrics) RecordSubmission(scorecardTable string) {
	m.ReversalsSubmittedTotal.WithLabelValues(scorecardTable).Inc()
}

func (m *ReversalMetrics) RecordDecision(scorecardTable, decision string, slaHours float64) {
	m.ReversalsDecidedTotal.WithLabelValues(scorecardTable, decision).Inc()
	m.DecisionSLAHours.WithLabelValues(decision).Observe(slaHours)
}

func (m *ReversalMetrics) RecordPendingCount(count float64) {
	m.PendingReversalsCount.Set(count)
}

func (m *ReversalMetrics) RecordSourceFailure(scorecardTable string) {
	m.SourceFailuresTotal.WithLabelValues(scorecardTable).Inc()
}

func (m *ReversalMetrics) RecordLegacyScanFailure(scorecardTable string) {
	m.LegacyScanFailuresTotal.WithLabelValues(scorecardTable).Inc()
}

func (m *ReversalMetrics) RecordAuditSyncFailure(scorecardTable string) {
	m.AuditSyncFailuresTotal.WithLabelValues(scorecardTable).Inc()
}
