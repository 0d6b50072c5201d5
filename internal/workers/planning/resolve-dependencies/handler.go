package resolvedependencies

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"meeting-workers/internal/common/logger"
	"meeting-workers/internal/common/metrics"
	"meeting-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "resolve-dependencies"
)

var (
	ErrInvalidInput               = errors.New("INVALID_INPUT")
	ErrDependencyResolutionFailed = errors.New("DEPENDENCY_RESOLUTION_FAILED")
)

type Handler struct {
	config   *Config
	resolver *Resolver
	logger   logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		resolver: NewResolver(),
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		errorCode := "DEPENDENCY_RESOLUTION_FAILED"
		if errors.Is(err, ErrInvalidInput) {
			errorCode = "INVALID_INPUT"
		}
		h.failJob(client, job, errorCode, err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if input.Tasks == nil {
		return nil, fmt.Errorf("%w: tasks is required", ErrInvalidInput)
	}

	analysis, err := h.resolver.Analyze(input.Tasks)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependencyResolutionFailed, err)
	}

	output := &Output{
		Dependencies: analysis.Dependencies,
		DependsOn:    make([]int, len(input.Tasks)),
		Order:        make([]int, len(analysis.Order)),
		HasCycle:     analysis.HasCycle(),
		Cycle:        analysis.Cycle,
		Warning:      analysis.Warning(),
	}
	if output.Dependencies == nil {
		output.Dependencies = []models.TaskDependency{}
	}
	for i, pre := range analysis.FirstPrerequisite {
		if pre >= 0 {
			output.DependsOn[i] = pre + 1
		}
	}
	for i, idx := range analysis.Order {
		output.Order[i] = idx + 1
	}

	if analysis.HasCycle() {
		metrics.DependencyCycles.Inc()
		h.logger.Warn("circular dependency detected", map[string]interface{}{
			"error": analysis.Cycle.Err(),
		})
	}

	h.logger.Info("dependencies resolved", map[string]interface{}{
		"tasks":        len(input.Tasks),
		"dependencies": len(analysis.Dependencies),
		"hasCycle":     output.HasCycle,
	})

	return output, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
