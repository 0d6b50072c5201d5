package notifyassignees

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "meeting-workers/internal/common/errors"
	"meeting-workers/internal/common/logger"
	"meeting-workers/internal/common/metrics"
	"meeting-workers/internal/models"
	"meeting-workers/internal/roster"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "notify-assignees"
)

var (
	ErrInvalidInput           = errors.New("INVALID_INPUT")
	ErrRosterLoadFailed       = errors.New("ROSTER_LOAD_FAILED")
	ErrNotificationSendFailed = errors.New("NOTIFICATION_SEND_FAILED")
)

type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Handler struct {
	config    *Config
	sesClient SESService
	snsClient SNSService
	repo      roster.Repository
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
	now       func() time.Time
}

// NewHandler wires the senders. A nil sesClient or snsClient disables that
// channel; repo may be nil when jobs always carry their team inline.
func NewHandler(config *Config, sesClient SESService, snsClient SNSService, repo roster.Repository, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		sesClient: sesClient,
		snsClient: snsClient,
		repo:      repo,
		errors:    apperrors.NewErrorHandler(log),
		logger:    log,
		now:       time.Now,
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
		h.errors.HandleJobError(context.Background(), client, job, h.standardError(err))
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) emailEnabled() bool {
	return h.config.EmailEnabled && h.sesClient != nil && h.config.FromEmail != ""
}

func (h *Handler) smsEnabled() bool {
	return h.config.SMSEnabled && h.snsClient != nil
}

// channels names the enabled delivery channels, for error details.
func (h *Handler) channels() string {
	var out []string
	if h.emailEnabled() {
		out = append(out, channelEmail)
	}
	if h.smsEnabled() {
		out = append(out, channelSMS)
	}
	return strings.Join(out, ",")
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if strings.TrimSpace(input.RunID) == "" {
		return nil, fmt.Errorf("%w: runId is required", ErrInvalidInput)
	}

	output := &Output{
		NotificationID: uuid.New().String(),
		Status:         StatusDisabled,
		SentAt:         h.now().UTC().Format(time.RFC3339),
		Recipients:     []RecipientResult{},
	}
	if !h.emailEnabled() && !h.smsEnabled() {
		return output, nil
	}

	team, err := roster.Resolve(ctx, h.repo, input.Team, input.TeamID)
	if err != nil && !errors.Is(err, roster.ErrNoRoster) {
		return nil, fmt.Errorf("%w: %v", ErrRosterLoadFailed, err)
	}
	contacts := make(map[string]models.TeamMember, len(team))
	for _, m := range team {
		contacts[strings.ToLower(strings.TrimSpace(m.Name))] = m
	}

	var attempted, failed int
	for _, group := range groupByAssignee(input.Tasks) {
		member, ok := contacts[strings.ToLower(group.assignee)]
		if !ok || (member.Email == "" && member.Phone == "") {
			output.Unreachable = append(output.Unreachable, group.assignee)
			continue
		}

		result := RecipientResult{Name: member.Name, Tasks: group.numbers()}
		var errs []string

		if h.emailEnabled() && member.Email != "" {
			attempted++
			result.Email = member.Email
			if err := h.sendEmail(ctx, member, input.RunID, group.tasks); err != nil {
				failed++
				errs = append(errs, "email: "+err.Error())
				h.logger.Error("email send failed", map[string]interface{}{
					"assignee": member.Name,
					"error":    err,
				})
			} else {
				result.EmailSent = true
				output.EmailsSent++
				metrics.NotificationsSent.WithLabelValues(channelEmail).Inc()
			}
		}

		if h.smsEnabled() && member.Phone != "" {
			for _, task := range group.tasks {
				if task.Priority.Rank() > h.config.SMSPriorityThreshold.Rank() {
					continue
				}
				attempted++
				if err := h.sendSMS(ctx, member.Phone, smsMessage(task)); err != nil {
					failed++
					errs = append(errs, fmt.Sprintf("sms task %d: %v", task.TaskNumber, err))
					h.logger.Error("SMS send failed", map[string]interface{}{
						"assignee": member.Name,
						"task":     task.TaskNumber,
						"error":    err,
					})
					continue
				}
				result.SMSSent++
				output.SMSSent++
				metrics.NotificationsSent.WithLabelValues(channelSMS).Inc()
			}
		}

		result.Error = strings.Join(errs, "; ")
		if result.EmailSent || result.SMSSent > 0 || result.Error != "" {
			output.Recipients = append(output.Recipients, result)
		}
	}

	if attempted > 0 && failed == attempted {
		return nil, fmt.Errorf("%w: all %d sends failed", ErrNotificationSendFailed, attempted)
	}
	switch {
	case failed > 0:
		output.Status = StatusPartial
	case attempted > 0:
		output.Status = StatusSent
	}

	h.logger.Info("assignees notified", map[string]interface{}{
		"runId":       input.RunID,
		"emails":      output.EmailsSent,
		"sms":         output.SMSSent,
		"failed":      failed,
		"unreachable": len(output.Unreachable),
	})
	return output, nil
}

func (h *Handler) sendEmail(ctx context.Context, member models.TeamMember, runID string, tasks []models.TaskRecord) error {
	subject, body, err := renderEmail(member.Name, runID, tasks)
	if err != nil {
		return err
	}
	_, err = h.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{member.Email},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(h.config.FromEmail),
	})
	return err
}

func (h *Handler) sendSMS(ctx context.Context, to, message string) error {
	_, err := h.snsClient.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(message),
	})
	return err
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

func (h *Handler) standardError(err error) *apperrors.StandardError {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return apperrors.NewInvalidInputError(err.Error())
	case errors.Is(err, ErrRosterLoadFailed):
		return apperrors.NewRosterLoadFailedError(err)
	case errors.Is(err, ErrNotificationSendFailed):
		return apperrors.NewNotificationSendFailedError(h.channels(), err)
	default:
		return apperrors.Normalize(err)
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
