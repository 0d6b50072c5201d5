// internal/workers/data-access/search-tasks/models.go
package searchtasks

import "meeting-workers/internal/models"

// Input filters indexed tasks. Empty fields match everything.
type Input struct {
	RunID      string `json:"runId,omitempty"`
	AssignedTo string `json:"assignedTo,omitempty"`
	Priority   string `json:"priority,omitempty"`
	Size       int    `json:"size,omitempty"`
}

type Output struct {
	Index     string              `json:"index"`
	Tasks     []models.TaskRecord `json:"tasks"`
	TotalHits int                 `json:"totalHits"`
	Took      int64               `json:"took"` // milliseconds
}
