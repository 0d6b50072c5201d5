package searchtasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"

	apperrors "meeting-workers/internal/common/errors"
	"meeting-workers/internal/common/logger"
	"meeting-workers/internal/models"
	indextasks "meeting-workers/internal/workers/delivery/index-tasks"
)

const (
	TaskType = "search-tasks"
)

var (
	ErrInvalidInput  = errors.New("INVALID_INPUT")
	ErrSearchTimeout = errors.New("SEARCH_TIMEOUT")
)

type Handler struct {
	config  *Config
	indexer *indextasks.Indexer
	errors  *apperrors.ErrorHandler
	logger  logger.Logger
}

func NewHandler(config *Config, client *elasticsearch.Client, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:  config,
		indexer: indextasks.NewIndexer(client, config.Index, false),
		errors:  apperrors.NewErrorHandler(log),
		logger:  log,
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
	query := indextasks.TaskQuery{
		RunID:      strings.TrimSpace(input.RunID),
		AssignedTo: strings.TrimSpace(input.AssignedTo),
		Size:       input.Size,
	}
	if query.Size == 0 {
		query.Size = h.config.DefaultSize
	}
	if query.Size < 0 || query.Size > 100 {
		return nil, fmt.Errorf("%w: size must be between 1 and 100", ErrInvalidInput)
	}
	if input.Priority != "" {
		priority, ok := parsePriority(input.Priority)
		if !ok {
			return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, input.Priority)
		}
		query.Priority = priority
	}

	start := time.Now()
	tasks, err := h.indexer.Search(ctx, query)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrSearchTimeout
		}
		return nil, err
	}

	h.logger.Debug("tasks searched", map[string]interface{}{
		"runId":      query.RunID,
		"assignedTo": query.AssignedTo,
		"hits":       len(tasks),
	})

	return &Output{
		Index:     h.config.Index,
		Tasks:     tasks,
		TotalHits: len(tasks),
		Took:      time.Since(start).Milliseconds(),
	}, nil
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

// parsePriority matches a level name case-insensitively.
func parsePriority(s string) (models.PriorityLevel, bool) {
	for _, p := range []models.PriorityLevel{models.PriorityCritical, models.PriorityHigh, models.PriorityMedium, models.PriorityLow} {
		if strings.EqualFold(strings.TrimSpace(s), string(p)) {
			return p, true
		}
	}
	return "", false
}

func standardError(err error) *apperrors.StandardError {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return apperrors.NewInvalidInputError(err.Error())
	case errors.Is(err, ErrSearchTimeout):
		return apperrors.NewSearchTimeoutError()
	case errors.Is(err, indextasks.ErrElasticsearchConnectionFailed):
		return apperrors.NewElasticsearchConnectionFailedError(err)
	default:
		return apperrors.NewSearchQueryFailedError(err)
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
