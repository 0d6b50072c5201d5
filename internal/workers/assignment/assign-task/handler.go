package assigntask

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"meeting-workers/internal/common/logger"
	"meeting-workers/internal/common/metrics"
	"meeting-workers/internal/roster"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "assign-task"
)

var (
	ErrInvalidInput     = errors.New("INVALID_INPUT")
	ErrRosterInvalid    = errors.New("ROSTER_INVALID")
	ErrRosterLoadFailed = errors.New("ROSTER_LOAD_FAILED")
)

type Handler struct {
	config *Config
	engine *Engine
	roster roster.Repository
	logger logger.Logger
}

// NewHandler builds the worker. repo may be nil when every job carries its
// roster inline.
func NewHandler(config *Config, repo roster.Repository, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		engine: NewEngine(),
		roster: repo,
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
		errorCode := "INVALID_INPUT"
		if errors.Is(err, ErrRosterInvalid) {
			errorCode = "ROSTER_INVALID"
		} else if errors.Is(err, ErrRosterLoadFailed) {
			errorCode = "ROSTER_LOAD_FAILED"
		}
		h.failJob(client, job, errorCode, err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if strings.TrimSpace(input.Task.Description) == "" && strings.TrimSpace(input.Task.RawText) == "" {
		return nil, fmt.Errorf("%w: task description or raw text is required", ErrInvalidInput)
	}

	members, err := roster.Resolve(ctx, h.roster, input.Team, input.TeamID)
	if err != nil {
		if errors.Is(err, roster.ErrNoRoster) {
			return nil, fmt.Errorf("%w: team or teamId is required", ErrInvalidInput)
		}
		return nil, fmt.Errorf("%w: %v", ErrRosterLoadFailed, err)
	}

	team, err := roster.Build(members)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRosterInvalid, err)
	}

	result := h.engine.Assign(input.Task, team)
	method := Method(result)
	metrics.TaskAssignments.WithLabelValues(method).Inc()

	output := &Output{
		Assigned:   result.Assigned(),
		Reasoning:  result.Reasoning,
		Confidence: result.Confidence,
		Method:     method,
	}
	if result.Member != nil {
		output.AssignedTo = result.Member.Name
		output.Email = result.Member.Email
	}

	for i, c := range h.engine.Rank(input.Task, team) {
		if i >= h.config.MaxCandidates {
			break
		}
		output.Candidates = append(output.Candidates, CandidateScore{Name: c.Member.Name, Score: c.Score})
	}

	h.logger.Info("task assigned", map[string]interface{}{
		"assignedTo": output.AssignedTo,
		"method":     method,
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
