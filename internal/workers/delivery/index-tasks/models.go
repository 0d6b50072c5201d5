package indextasks

import "meeting-workers/internal/models"

type Input struct {
	RunID         string              `json:"runId"`
	ReferenceDate string              `json:"referenceDate,omitempty"`
	Tasks         []models.TaskRecord `json:"tasks"`
}

type Output struct {
	Index       string   `json:"index"`
	Indexed     int      `json:"indexed"`
	DocumentIDs []string `json:"documentIds"`
}

// taskDocument is the shape stored in the search index.
type taskDocument struct {
	RunID         string `json:"run_id"`
	TaskNumber    int    `json:"task_number"`
	Description   string `json:"description"`
	AssignedTo    string `json:"assigned_to,omitempty"`
	Deadline      string `json:"deadline,omitempty"`
	DueDate       string `json:"due_date,omitempty"`
	Priority      string `json:"priority"`
	DependsOn     int    `json:"depends_on,omitempty"`
	Dependencies  string `json:"dependencies,omitempty"`
	Reasoning     string `json:"reasoning,omitempty"`
	ReferenceDate string `json:"reference_date,omitempty"`
	IndexedAt     string `json:"indexed_at"`
}

type bulkItem struct {
	ID     string `json:"_id"`
	Status int    `json:"status"`
	Error  *struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error,omitempty"`
}

type bulkResponse struct {
	Errors bool                  `json:"errors"`
	Items  []map[string]bulkItem `json:"items"`
}
