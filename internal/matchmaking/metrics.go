package matchmaking

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	queueJoinsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matchmaking_queue_joins_total",
			Help: "Total number of successful queue joins",
		},
	)

	queueLeavesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matchmaking_queue_leaves_total",
			Help: "Total number of successful queue leaves",
		},
	)

	matchesCommittedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matchmaking_matches_committed_total",
			Help: "Total number of committed matches",
		},
	)

	staleCommitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matchmaking_stale_commits_total",
			Help: "Commits dropped because an entry was no longer waiting",
		},
	)

	ticksSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matchmaking_ticks_skipped_total",
			Help: "Scheduler ticks skipped and why",
		},
		[]string{"reason"},
	)

	queueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "matchmaking_queue_depth",
			Help: "Number of users currently waiting",
		},
	)

	compatibilityScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matchmaking_compatibility_scores",
			Help:    "Distribution of compatibility scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	tickDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matchmaking_tick_duration_seconds",
			Help:    "Duration of scheduler matching passes",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
	)
)

func RecordJoin() {
	queueJoinsTotal.Inc()
}

func RecordLeave() {
	queueLeavesTotal.Inc()
}

func RecordMatchCommitted() {
	matchesCommittedTotal.Inc()
}

func RecordStaleCommit() {
	staleCommitsTotal.Inc()
}

func RecordTickSkipped(reason string) {
	ticksSkippedTotal.WithLabelValues(reason).Inc()
}

func SetQueueDepth(depth int) {
	queueDepth.Set(float64(depth))
}

func RecordCompatibilityScore(score int) {
	compatibilityScores.Observe(float64(score))
}

func ObserveTickDuration(d time.Duration) {
	tickDuration.Observe(d.Seconds())
}
