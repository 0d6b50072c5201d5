// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"sync"
	"time"

	"meeting-workers/internal/common/config"
	"meeting-workers/internal/common/logger"
	"meeting-workers/internal/common/metrics"
	"meeting-workers/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// Job outcomes recorded per handled job.
const (
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
	OutcomeThrown    = "bpmn_error"
	OutcomeUnknown   = "unknown"
)

// CamundaWorker is an open job worker for one task type.
type CamundaWorker struct {
	worker   worker.JobWorker
	logger   logger.Logger
	taskType string
}

// StartWorker opens a job worker for taskType. Disabled workers return nil.
func StartWorker(
	client zbc.Client,
	taskType string,
	wcfg config.WorkerConfig,
	handler worker.JobHandler,
	obs *observability.Observability,
	log logger.Logger,
) *CamundaWorker {
	if !wcfg.Enabled {
		log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return nil
	}

	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(Instrument(taskType, handler, obs)).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})

	return &CamundaWorker{worker: jobWorker, logger: log, taskType: taskType}
}

// Instrument wraps handler so every job updates the worker metrics with the
// outcome of the command the handler issued.
func Instrument(taskType string, handler worker.JobHandler, obs *observability.Observability) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		recorder := &outcomeRecorder{JobClient: client}

		metrics.WorkerJobsActive.WithLabelValues(taskType).Inc()
		start := time.Now()
		defer func() {
			elapsed := time.Since(start)
			outcome := recorder.Outcome()

			metrics.WorkerJobsActive.WithLabelValues(taskType).Dec()
			metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(elapsed.Seconds())
			if outcome == OutcomeCompleted {
				metrics.WorkerJobsCompleted.WithLabelValues(taskType).Inc()
			} else {
				metrics.WorkerJobsFailed.WithLabelValues(taskType, outcome).Inc()
			}

			ctx := context.Background()
			obs.RecordJobProcessed(ctx, taskType, outcome)
			obs.RecordJobDuration(ctx, taskType, elapsed, outcome)
		}()

		handler(recorder, job)
	}
}

// outcomeRecorder remembers which terminal command a handler created.
type outcomeRecorder struct {
	worker.JobClient

	mu      sync.Mutex
	outcome string
}

func (r *outcomeRecorder) set(outcome string) {
	r.mu.Lock()
	r.outcome = outcome
	r.mu.Unlock()
}

func (r *outcomeRecorder) Outcome() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.outcome == "" {
		return OutcomeUnknown
	}
	return r.outcome
}

func (r *outcomeRecorder) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	r.set(OutcomeCompleted)
	return r.JobClient.NewCompleteJobCommand()
}

func (r *outcomeRecorder) NewFailJobCommand() commands.FailJobCommandStep1 {
	r.set(OutcomeFailed)
	return r.JobClient.NewFailJobCommand()
}

func (r *outcomeRecorder) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	r.set(OutcomeThrown)
	return r.JobClient.NewThrowErrorCommand()
}

func (w *CamundaWorker) Stop() {
	if w == nil {
		return
	}
	w.logger.Info("stopping worker", map[string]interface{}{"taskType": w.taskType})
	w.worker.Close()
	w.worker.AwaitClose()
}
