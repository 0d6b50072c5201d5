package transcribeaudio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	apperrors "meeting-workers/internal/common/errors"
	"meeting-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "transcribe-audio"
)

var (
	ErrInvalidInput         = errors.New("INVALID_INPUT")
	ErrNoSpeech             = errors.New("NO_SPEECH_DETECTED")
	ErrTranscriptionFailed  = errors.New("TRANSCRIPTION_FAILED")
	ErrTranscriptionTimeout = errors.New("TRANSCRIPTION_TIMEOUT")
)

type Handler struct {
	config *Config
	client *Client
	errors *apperrors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		client: NewClient(config, log),
		errors: apperrors.NewErrorHandler(log),
		logger: log,
	}
}

// Client exposes the AssemblyAI client so the pipeline can transcribe in
// process.
func (h *Handler) Client() *Client {
	return h.client
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
	if strings.TrimSpace(input.AudioPath) == "" {
		return nil, fmt.Errorf("%w: audioPath is required", ErrInvalidInput)
	}

	output, err := h.client.transcribe(ctx, input.AudioPath)
	if err != nil {
		h.logger.Warn("transcription failed", map[string]interface{}{
			"path":  input.AudioPath,
			"error": err,
		})
		return nil, err
	}

	h.logger.Info("audio transcribed", map[string]interface{}{
		"path":       input.AudioPath,
		"characters": len(output.Transcript),
		"confidence": output.Confidence,
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

// standardError maps execute failures onto the shared error codes. No
// speech is thrown as an empty transcript; service failures are retried.
func standardError(err error) *apperrors.StandardError {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return apperrors.NewInvalidInputError(err.Error())
	case errors.Is(err, ErrNoSpeech):
		return apperrors.NewTranscriptEmptyError()
	case errors.Is(err, ErrTranscriptionTimeout):
		return apperrors.NewTranscriptionTimeoutError()
	default:
		return apperrors.NewTranscriptionFailedError(err)
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
