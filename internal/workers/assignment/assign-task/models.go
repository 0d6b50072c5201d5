package assigntask

import "meeting-workers/internal/models"

// Input carries the roster inline in Team, or names a stored team by TeamID.
type Input struct {
	Task   models.ExtractedTask `json:"task"`
	Team   []models.TeamMember  `json:"team,omitempty"`
	TeamID string               `json:"teamId,omitempty"`
}

type CandidateScore struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

type Output struct {
	Assigned   bool             `json:"assigned"`
	AssignedTo string           `json:"assignedTo,omitempty"`
	Email      string           `json:"email,omitempty"`
	Reasoning  string           `json:"reasoning"`
	Confidence float64          `json:"confidence"`
	Method     string           `json:"method"`
	Candidates []CandidateScore `json:"candidates,omitempty"`
}
