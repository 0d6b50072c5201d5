package processtranscript

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	apperrors "meeting-workers/internal/common/errors"
	"meeting-workers/internal/common/logger"
	"meeting-workers/internal/models"
	"meeting-workers/internal/roster"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "process-transcript"
)

var (
	ErrInvalidReferenceDate = errors.New("INVALID_REFERENCE_DATE")
	ErrRosterLoadFailed     = errors.New("ROSTER_LOAD_FAILED")
)

type Handler struct {
	config   *Config
	pipeline *Pipeline
	roster   roster.Repository
	errors   *apperrors.ErrorHandler
	logger   logger.Logger
}

// NewHandler creates the orchestrating worker. repo is only consulted for
// jobs that name a teamId instead of carrying the roster inline.
func NewHandler(config *Config, pipeline *Pipeline, repo roster.Repository, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		pipeline: pipeline,
		roster:   repo,
		errors:   apperrors.NewErrorHandler(log),
		logger:   log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errors.HandleJobError(context.Background(), client, job,
			apperrors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errors.HandleJobError(context.Background(), client, job, standardError(err))
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	ref, err := models.ParseDay(input.ReferenceDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidReferenceDate, input.ReferenceDate)
	}

	team, err := roster.Resolve(ctx, h.roster, input.Team, input.TeamID)
	if err != nil && !errors.Is(err, roster.ErrNoRoster) {
		return nil, fmt.Errorf("%w: %v", ErrRosterLoadFailed, err)
	}

	var result *models.PipelineResult
	if input.AudioPath != "" && input.Transcript == "" {
		result = h.pipeline.ProcessAudio(ctx, input.AudioPath, team, ref)
	} else {
		result = h.pipeline.Process(ctx, input.Transcript, team, ref)
	}

	if !result.Success {
		h.logger.Warn("pipeline rejected input", map[string]interface{}{
			"runId":   result.RunID,
			"message": result.Message,
		})
	}

	return &Output{PipelineResult: *result, TaskCount: len(result.Tasks)}, nil
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

// standardError maps execute failures onto the shared BPMN error codes.
func standardError(err error) *apperrors.StandardError {
	switch {
	case errors.Is(err, ErrInvalidReferenceDate):
		return apperrors.NewInvalidReferenceDateError(strings.TrimPrefix(err.Error(), ErrInvalidReferenceDate.Error()+": "))
	case errors.Is(err, ErrRosterLoadFailed):
		return apperrors.NewRosterLoadFailedError(err)
	default:
		return apperrors.Normalize(err)
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
