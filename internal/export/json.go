package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"meeting-workers/internal/models"
)

// RequiredFields must be present in every task object read back from JSON.
var RequiredFields = []string{"task_number", "description", "priority"}

// taskJSON is the exchange form of a TaskRecord. Absent optional values are
// written as null.
type taskJSON struct {
	TaskNumber   int     `json:"task_number"`
	Description  string  `json:"description"`
	AssignedTo   *string `json:"assigned_to"`
	Deadline     *string `json:"deadline"`
	DueDate      string  `json:"due_date,omitempty"`
	Priority     string  `json:"priority"`
	Dependencies *string `json:"dependencies"`
	Reasoning    *string `json:"reasoning"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toJSON(t models.TaskRecord) taskJSON {
	return taskJSON{
		TaskNumber:   t.TaskNumber,
		Description:  t.Description,
		AssignedTo:   optional(t.AssignedTo),
		Deadline:     optional(t.Deadline),
		DueDate:      t.DueDate,
		Priority:     string(t.Priority),
		Dependencies: optional(t.DependencyText()),
		Reasoning:    optional(t.Reasoning),
	}
}

func fromJSON(t taskJSON) models.TaskRecord {
	return models.TaskRecord{
		TaskNumber:  t.TaskNumber,
		Description: t.Description,
		AssignedTo:  deref(t.AssignedTo),
		Deadline:    deref(t.Deadline),
		DueDate:     t.DueDate,
		Priority:    models.ParsePriority(t.Priority),
		DependsOn:   models.ParseDependencyText(deref(t.Dependencies)),
		Reasoning:   deref(t.Reasoning),
	}
}

// MarshalTasks writes tasks as an indented JSON array.
func MarshalTasks(tasks []models.TaskRecord) ([]byte, error) {
	out := make([]taskJSON, len(tasks))
	for i, t := range tasks {
		out[i] = toJSON(t)
	}
	return json.MarshalIndent(out, "", "  ")
}

// UnmarshalTasks reads either a JSON array of tasks or an object holding
// them under "tasks". Missing optional fields take their zero values and a
// missing priority reads as Medium.
func UnmarshalTasks(data []byte) ([]models.TaskRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidFormat)
	}

	var raw []taskJSON
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
	case '{':
		var wrapper struct {
			Tasks *[]taskJSON `json:"tasks"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		if wrapper.Tasks == nil {
			return nil, fmt.Errorf("%w: expected list or object with 'tasks' key", ErrInvalidFormat)
		}
		raw = *wrapper.Tasks
	default:
		return nil, fmt.Errorf("%w: expected list or object with 'tasks' key", ErrInvalidFormat)
	}

	tasks := make([]models.TaskRecord, len(raw))
	for i, t := range raw {
		tasks[i] = fromJSON(t)
	}
	return tasks, nil
}

// ValidateTaskMap reports whether m holds every required field.
func ValidateTaskMap(m map[string]interface{}) bool {
	return len(MissingFields(m)) == 0
}

// MissingFields lists the required fields absent from m, in RequiredFields
// order.
func MissingFields(m map[string]interface{}) []string {
	var missing []string
	for _, f := range RequiredFields {
		if _, ok := m[f]; !ok {
			missing = append(missing, f)
		}
	}
	return missing
}

// resultJSON mirrors PipelineResult with tasks in their exchange form.
type resultJSON struct {
	RunID          string     `json:"run_id,omitempty"`
	Success        bool       `json:"success"`
	Tasks          []taskJSON `json:"tasks"`
	Transcript     *string    `json:"transcript"`
	Message        *string    `json:"error_message"`
	Warning        string     `json:"warning,omitempty"`
	ExecutionOrder []int      `json:"execution_order,omitempty"`
	ReferenceDate  string     `json:"reference_date,omitempty"`
}

func MarshalResult(result *models.PipelineResult) ([]byte, error) {
	out := resultJSON{
		RunID:          result.RunID,
		Success:        result.Success,
		Tasks:          make([]taskJSON, len(result.Tasks)),
		Transcript:     optional(result.Transcript),
		Message:        optional(result.Message),
		Warning:        result.Warning,
		ExecutionOrder: result.ExecutionOrder,
		ReferenceDate:  result.ReferenceDate,
	}
	for i, t := range result.Tasks {
		out.Tasks[i] = toJSON(t)
	}
	return json.MarshalIndent(out, "", "  ")
}

func UnmarshalResult(data []byte) (*models.PipelineResult, error) {
	var in resultJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	result := &models.PipelineResult{
		RunID:          in.RunID,
		Success:        in.Success,
		Tasks:          make([]models.TaskRecord, len(in.Tasks)),
		Transcript:     deref(in.Transcript),
		Message:        deref(in.Message),
		Warning:        in.Warning,
		ExecutionOrder: in.ExecutionOrder,
		ReferenceDate:  in.ReferenceDate,
	}
	for i, t := range in.Tasks {
		result.Tasks[i] = fromJSON(t)
	}
	return result, nil
}
