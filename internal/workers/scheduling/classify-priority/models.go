package classifypriority

import "meeting-workers/internal/models"

type Input struct {
	Task          *models.ExtractedTask `json:"task,omitempty"`
	Text          string                `json:"text,omitempty"`
	DueDate       string                `json:"dueDate,omitempty"`
	ReferenceDate string                `json:"referenceDate,omitempty"`
}

type Output struct {
	Priority models.PriorityLevel `json:"priority"`
	Rule     string               `json:"rule"`
}
