// Package metrics defines and registers all custom Prometheus metrics for the
// smartballot voting API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry at package init via
// promauto; the /metrics endpoint is mounted by the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "voting"

// ── Ballot metrics ────────────────────────────────────────────────────────────

// BallotsCastTotal counts ballots successfully recorded by the ledger.
var BallotsCastTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ballots_cast_total",
		Help:      "Total number of ballots successfully recorded.",
	},
)

// VotesRejectedTotal counts cast-vote calls rejected before recording.
// Label:
//   - reason: short failure kind (e.g. "already_voted", "election_ended",
//     "biometric_mismatch")
var VotesRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "votes_rejected_total",
		Help:      "Total number of cast-vote calls rejected, by reason.",
	},
	[]string{"reason"},
)

// ── Biometric metrics ─────────────────────────────────────────────────────────

// BiometricChecksTotal counts biometric verification outcomes.
// Label:
//   - result: "match", "mismatch", "skipped", "timeout", or "error"
var BiometricChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "biometric_checks_total",
		Help:      "Total number of biometric verification attempts, by result.",
	},
	[]string{"result"},
)

// BiometricExtractionDuration measures feature extraction time inside the
// worker pool, from dequeue to result.
var BiometricExtractionDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "biometric_extraction_duration_seconds",
		Help:      "Duration of a single feature extraction on the worker pool.",
		Buckets:   prometheus.DefBuckets,
	},
)

// BiometricQueueDepth tracks extraction jobs waiting for a pool worker.
var BiometricQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "biometric_queue_depth",
		Help:      "Current number of extraction jobs pending in the biometric pool.",
	},
)

// ── Anomaly metrics ───────────────────────────────────────────────────────────

// AnomalyRunsTotal counts detector runs.
// Label:
//   - result: "ok", "insufficient_data", or "error"
var AnomalyRunsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "anomaly_runs_total",
		Help:      "Total number of anomaly detection runs, by result.",
	},
	[]string{"result"},
)

// AnomalyFlaggedTotal counts ballots flagged as anomalous across all runs.
var AnomalyFlaggedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "anomaly_flagged_total",
		Help:      "Total number of ballots flagged as anomalous.",
	},
)
