package extracttasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"meeting-workers/internal/common/logger"
	"meeting-workers/internal/common/metrics"
	"meeting-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "extract-tasks"

	NoTasksMessage = "No tasks identified in the meeting transcript"
)

var (
	ErrTranscriptEmpty = errors.New("TRANSCRIPT_EMPTY")
)

type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
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
		errorCode := "TASK_EXTRACTION_FAILED"
		if errors.Is(err, ErrTranscriptEmpty) {
			errorCode = "TRANSCRIPT_EMPTY"
		}
		h.failJob(client, job, errorCode, err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if strings.TrimSpace(input.Transcript) == "" {
		return nil, fmt.Errorf("%w: transcript is required", ErrTranscriptEmpty)
	}

	names := input.TeamNames
	if len(names) == 0 {
		names = models.MemberNames(input.Team)
	}

	tasks := NewExtractor(names).Extract(input.Transcript)
	output := &Output{
		Tasks:      tasks,
		Count:      len(tasks),
		Indicators: CountTaskIndicators(input.Transcript),
	}
	if output.Tasks == nil {
		output.Tasks = []models.ExtractedTask{}
		output.Message = NoTasksMessage
	}
	metrics.TasksExtracted.Add(float64(len(tasks)))

	h.logger.Info("tasks extracted", map[string]interface{}{
		"tasks":      output.Count,
		"indicators": output.Indicators,
		"teamSize":   len(names),
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
