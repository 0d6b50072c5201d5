package processtranscript

import "meeting-workers/internal/models"

type Input struct {
	Transcript    string              `json:"transcript,omitempty"`
	AudioPath     string              `json:"audioPath,omitempty"`
	Team          []models.TeamMember `json:"team,omitempty"`
	TeamID        string              `json:"teamId,omitempty"`
	ReferenceDate string              `json:"referenceDate,omitempty"`
}

type Output struct {
	models.PipelineResult
	TaskCount int `json:"taskCount"`
}
