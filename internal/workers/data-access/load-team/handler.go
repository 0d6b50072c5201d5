package loadteam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "meeting-workers/internal/common/errors"
	"meeting-workers/internal/common/logger"
	"meeting-workers/internal/models"
	"meeting-workers/internal/roster"
)

const (
	TaskType = "load-team"
)

var (
	ErrInvalidInput = errors.New("INVALID_INPUT")
	ErrQueryTimeout = errors.New("QUERY_TIMEOUT")
)

// invalidator is implemented by caching repositories.
type invalidator interface {
	Invalidate(ctx context.Context, teamID string) error
}

type Handler struct {
	config *Config
	repo   roster.Repository
	errors *apperrors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, repo roster.Repository, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		repo:   repo,
		errors: apperrors.NewErrorHandler(log),
		logger: log,
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
		h.errors.HandleJobError(context.Background(), client, job, standardError(input.TeamID, err))
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	teamID := strings.TrimSpace(input.TeamID)
	if teamID == "" {
		return nil, fmt.Errorf("%w: teamId is required", ErrInvalidInput)
	}
	if h.repo == nil {
		return nil, fmt.Errorf("%w: team %s", roster.ErrNoRepository, teamID)
	}

	if input.Refresh {
		if cache, ok := h.repo.(invalidator); ok {
			if err := cache.Invalidate(ctx, teamID); err != nil {
				h.logger.Warn("roster cache invalidation failed", map[string]interface{}{
					"teamId": teamID,
					"error":  err.Error(),
				})
			}
		}
	}

	start := time.Now()
	members, err := h.repo.Load(ctx, teamID)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrQueryTimeout
		}
		return nil, err
	}
	if _, err := roster.Build(members); err != nil {
		return nil, err
	}

	h.logger.Info("team loaded", map[string]interface{}{
		"teamId":  teamID,
		"members": len(members),
	})

	return &Output{
		TeamID:             teamID,
		Team:               members,
		Names:              models.MemberNames(members),
		Count:              len(members),
		QueryExecutionTime: time.Since(start).Milliseconds(),
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
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func standardError(teamID string, err error) *apperrors.StandardError {
	var invalid *roster.ValidationError
	switch {
	case errors.Is(err, ErrInvalidInput):
		return apperrors.NewInvalidInputError(err.Error())
	case errors.Is(err, ErrQueryTimeout):
		return apperrors.NewQueryTimeoutError("team_members")
	case errors.Is(err, roster.ErrTeamNotFound):
		return apperrors.NewTeamNotFoundError(teamID)
	case errors.As(err, &invalid):
		return apperrors.NewRosterInvalidError(invalid.Error())
	default:
		return apperrors.NewRosterLoadFailedError(err)
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
