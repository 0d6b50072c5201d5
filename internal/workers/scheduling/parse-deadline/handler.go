package parsedeadline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"meeting-workers/internal/common/logger"
	"meeting-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "parse-deadline"
)

var (
	ErrInvalidReferenceDate = errors.New("INVALID_REFERENCE_DATE")
)

type Handler struct {
	config *Config
	parser *Parser
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		parser: NewParser(),
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
		h.failJob(client, job, "INVALID_REFERENCE_DATE", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	ref, err := models.ParseDay(input.ReferenceDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidReferenceDate, input.ReferenceDate)
	}

	phrase := input.Phrase
	if phrase == "" && input.Text != "" {
		phrase = h.parser.ExtractPhrase(input.Text)
	}

	output := &Output{Phrase: phrase}
	due, ok := h.parser.Parse(phrase, ref)
	if !ok {
		h.logger.Debug("deadline phrase not understood", map[string]interface{}{
			"phrase": phrase,
		})
		return output, nil
	}

	output.Resolved = true
	output.DueDate = due.Format(models.DateLayout)
	output.WithinRange = h.parser.IsValidDeadline(due, ref)
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
