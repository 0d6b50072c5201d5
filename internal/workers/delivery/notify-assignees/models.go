package notifyassignees

import "meeting-workers/internal/models"

type Input struct {
	RunID string              `json:"runId"`
	Tasks []models.TaskRecord `json:"tasks"`
	Team  []models.TeamMember `json:"team,omitempty"`
	// TeamID selects a stored roster when Team is empty.
	TeamID string `json:"teamId,omitempty"`
}

type Output struct {
	NotificationID string            `json:"notificationId"`
	Status         string            `json:"status"` // "sent", "partial", "disabled"
	SentAt         string            `json:"sentAt"` // ISO 8601
	EmailsSent     int               `json:"emailsSent"`
	SMSSent        int               `json:"smsSent"`
	// Recipients holds every assignee a send was attempted for, including
	// those whose sends failed.
	Recipients     []RecipientResult `json:"recipients"`
	Unreachable    []string          `json:"unreachable,omitempty"`
}

// RecipientResult reports what one assignee was sent.
type RecipientResult struct {
	Name      string `json:"name"`
	Tasks     []int  `json:"tasks"`
	Email     string `json:"email,omitempty"`
	EmailSent bool   `json:"emailSent"`
	SMSSent   int    `json:"smsSent"`
	Error     string `json:"error,omitempty"`
}

const (
	StatusSent     = "sent"
	StatusPartial  = "partial"
	StatusDisabled = "disabled"
)

const (
	channelEmail = "email"
	channelSMS   = "sms"
)
