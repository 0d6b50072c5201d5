package extracttasks

import "meeting-workers/internal/models"

type Input struct {
	Transcript string              `json:"transcript"`
	TeamNames  []string            `json:"teamNames,omitempty"`
	Team       []models.TeamMember `json:"team,omitempty"`
}

type Output struct {
	Tasks      []models.ExtractedTask `json:"tasks"`
	Count      int                    `json:"count"`
	Indicators int                    `json:"indicators"`
	Message    string                 `json:"message,omitempty"`
}
