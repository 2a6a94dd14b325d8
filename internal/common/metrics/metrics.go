package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "worker_job_duration_seconds",
			Help:    "Duration of job processing in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	EligibilityVerdicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eligibility_verdicts_total",
			Help: "Eligibility assessments computed, by verdict",
		},
		[]string{"verdict"},
	)

	ZoneLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "equity_zone_lookups_total",
			Help: "Equity zone lookups by outcome (zone, zone_adjacent, none, failed, cache_hit)",
		},
		[]string{"outcome"},
	)

	ZoneLookupDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "equity_zone_lookup_duration_seconds",
			Help:    "Latency of the remote equity zone lookup",
			Buckets: []float64{.05, .1, .25, .5, 1, 2, 5},
		},
	)

	JuryDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jury_decisions_total",
			Help: "Jury decision writes by operation and decision tag",
		},
		[]string{"operation", "decision"},
	)

	StageTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_stage_transitions_total",
			Help: "Pipeline stage transitions by target state",
		},
		[]string{"state"},
	)
)
