package models

import "time"

const DateLayout = "2006-01-02"

// PipelineResult is the outcome of one run. ExecutionOrder lists task
// numbers with prerequisites first.
type PipelineResult struct {
	RunID          string       `json:"run_id,omitempty"`
	Success        bool         `json:"success"`
	Tasks          []TaskRecord `json:"tasks"`
	Transcript     string       `json:"transcript,omitempty"`
	Message        string       `json:"error_message,omitempty"`
	Warning        string       `json:"warning,omitempty"`
	ExecutionOrder []int        `json:"execution_order,omitempty"`
	ReferenceDate  string       `json:"reference_date,omitempty"`
}

type ValidationResult struct {
	Valid         bool     `json:"valid"`
	ErrorMessage  string   `json:"errorMessage,omitempty"`
	FileFormat    string   `json:"fileFormat,omitempty"`
	MissingFields []string `json:"missingFields,omitempty"`
}

type TranscriptionResult struct {
	Success      bool    `json:"success"`
	Transcript   string  `json:"transcript,omitempty"`
	ErrorMessage string  `json:"errorMessage,omitempty"`
	Confidence   float64 `json:"confidence,omitempty"`
}

type AudioMetadata struct {
	DurationSeconds float64 `json:"durationSeconds"`
	Format          string  `json:"format"`
	FileSizeBytes   int64   `json:"fileSizeBytes"`
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD date. An empty string yields today.
func ParseDay(s string) (time.Time, error) {
	if s == "" {
		return Day(time.Now()), nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return Day(t), nil
}
