// internal/workers/data-access/load-team/models.go
package loadteam

import "meeting-workers/internal/models"

type Input struct {
	TeamID string `json:"teamId"`
	// Refresh drops any cached copy before loading.
	Refresh bool `json:"refresh,omitempty"`
}

type Output struct {
	TeamID             string              `json:"teamId"`
	Team               []models.TeamMember `json:"team"`
	Names              []string            `json:"teamNames"`
	Count              int                 `json:"count"`
	QueryExecutionTime int64               `json:"queryExecutionTime"` // milliseconds
}
