// internal/common/metrics/metrics.go
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

	TranscriptsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meeting_transcripts_processed_total",
			Help: "Transcripts run through the pipeline, by outcome",
		},
		[]string{"outcome"},
	)

	TasksExtracted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "meeting_tasks_extracted_total",
			Help: "Actionable tasks extracted from transcripts",
		},
	)

	TaskPriorities = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meeting_task_priority_total",
			Help: "Classified tasks by priority level",
		},
		[]string{"priority"},
	)

	TaskAssignments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meeting_task_assignments_total",
			Help: "Task assignments by method (explicit, skills, none)",
		},
		[]string{"method"},
	)

	DependencyCycles = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "meeting_dependency_cycles_total",
			Help: "Transcripts whose task dependencies contained a cycle",
		},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meeting_notifications_sent_total",
			Help: "Assignee notifications sent, by channel",
		},
		[]string{"channel"},
	)

	Transcriptions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meeting_transcriptions_total",
			Help: "Speech-to-text requests, by final status",
		},
		[]string{"status"},
	)

	TasksIndexed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "meeting_tasks_indexed_total",
			Help: "Task records written to the search index",
		},
	)
)
