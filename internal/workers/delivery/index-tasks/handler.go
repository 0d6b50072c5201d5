package indextasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	apperrors "meeting-workers/internal/common/errors"
	"meeting-workers/internal/common/logger"
	"meeting-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"
)

const (
	TaskType = "index-tasks"
)

var (
	ErrInvalidInput                  = errors.New("INVALID_INPUT")
	ErrElasticsearchConnectionFailed = errors.New("ELASTICSEARCH_CONNECTION_FAILED")
	ErrTaskIndexFailed               = errors.New("TASK_INDEX_FAILED")
	ErrIndexTimeout                  = errors.New("INDEX_TIMEOUT")

	errNoClient = errors.New("elasticsearch client is not configured")
)

type Handler struct {
	config  *Config
	indexer *Indexer
	errors  *apperrors.ErrorHandler
	logger  logger.Logger
}

func NewHandler(config *Config, client *elasticsearch.Client, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	h := &Handler{
		config: config,
		errors: apperrors.NewErrorHandler(log),
		logger: log,
	}
	if client != nil {
		h.indexer = NewIndexer(client, config.Index, config.Refresh)
	}
	return h
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
	if strings.TrimSpace(input.RunID) == "" {
		return nil, fmt.Errorf("%w: runId is required", ErrInvalidInput)
	}
	if h.indexer == nil {
		return nil, fmt.Errorf("%w: %v", ErrElasticsearchConnectionFailed, errNoClient)
	}

	if len(input.Tasks) > 0 {
		if err := h.indexer.EnsureIndex(ctx); err != nil {
			return nil, err
		}
	}

	ids, err := h.indexer.Index(ctx, input.RunID, input.ReferenceDate, input.Tasks)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrIndexTimeout
		}
		return nil, err
	}
	metrics.TasksIndexed.Add(float64(len(ids)))

	h.logger.Info("tasks indexed", map[string]interface{}{
		"runId": input.RunID,
		"index": h.config.Index,
		"count": len(ids),
	})

	return &Output{
		Index:       h.config.Index,
		Indexed:     len(ids),
		DocumentIDs: ids,
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

// standardError maps execute failures onto the shared error codes.
func standardError(err error) *apperrors.StandardError {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return apperrors.NewInvalidInputError(err.Error())
	case errors.Is(err, ErrIndexTimeout):
		return apperrors.NewIndexTimeoutError()
	case errors.Is(err, ErrElasticsearchConnectionFailed):
		return apperrors.NewElasticsearchConnectionFailedError(err)
	case errors.Is(err, ErrTaskIndexFailed):
		return apperrors.NewTaskIndexFailedError(err)
	default:
		return apperrors.Normalize(err)
	}
}

// Indexer returns the handler's indexer, nil when no client was given.
func (h *Handler) Indexer() *Indexer {
	return h.indexer
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
