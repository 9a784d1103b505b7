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
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
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

	// Matching engine

	ProgramsScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_programs_scored_total",
			Help: "Programs scored by the matching engine, by eligibility status",
		},
		[]string{"status"},
	)

	MatchRunsTruncated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_runs_truncated_total",
			Help: "Match runs that hit their deadline before scoring every program",
		},
	)

	MatchRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_run_duration_seconds",
			Help:    "Wall time of a full match run",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2, 5},
		},
	)

	// Catalog

	CatalogPrograms = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_programs",
			Help: "Programs in the active catalog snapshot",
		},
	)

	CatalogRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_refresh_total",
			Help: "Catalog refresh attempts by source and outcome",
		},
		[]string{"source", "outcome"},
	)

	// Assessment

	AssessmentResponses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assessment_responses_total",
			Help: "Questionnaire responses recorded, by RIASEC dimension",
		},
		[]string{"dimension"},
	)
)
