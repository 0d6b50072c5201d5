package classifypriority

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"meeting-workers/internal/common/logger"
	"meeting-workers/internal/common/metrics"
	"meeting-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "classify-priority"
)

var (
	ErrInvalidInput = errors.New("INVALID_INPUT")
)

type Handler struct {
	config     *Config
	classifier *Classifier
	logger     logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config:     config,
		classifier: NewClassifier(),
		logger:     log.WithFields(map[string]interface{}{"taskType": TaskType}),
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
		h.failJob(client, job, "INVALID_INPUT", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	var task models.ExtractedTask
	switch {
	case input.Task != nil:
		task = *input.Task
	case input.Text != "":
		task = models.ExtractedTask{Description: input.Text, RawText: input.Text}
	default:
		return nil, fmt.Errorf("%w: task or text is required", ErrInvalidInput)
	}

	ref, err := models.ParseDay(input.ReferenceDate)
	if err != nil {
		return nil, fmt.Errorf("%w: referenceDate %q", ErrInvalidInput, input.ReferenceDate)
	}

	var deadline *time.Time
	if input.DueDate != "" {
		due, err := time.Parse(models.DateLayout, input.DueDate)
		if err != nil {
			return nil, fmt.Errorf("%w: dueDate %q", ErrInvalidInput, input.DueDate)
		}
		deadline = &due
	}

	priority, rule := h.classifier.ClassifyWithRule(task, deadline, ref)
	metrics.TaskPriorities.WithLabelValues(string(priority)).Inc()

	h.logger.Info("priority classified", map[string]interface{}{
		"priority": priority,
		"rule":     rule,
	})

	return &Output{Priority: priority, Rule: rule}, nil
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
