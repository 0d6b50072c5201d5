package classifypriority

import (
	"context"
	"errors"
	"testing"
	"time"

	"meeting-workers/internal/common/logger"
	"meeting-workers/internal/models"

	"github.com/stretchr/testify/assert"
)

func createTestHandler(t *testing.T) *Handler {
	return NewHandler(&Config{Timeout: time.Second}, logger.NewTestLogger(t))
}

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name           string
		input          *Input
		validateOutput func(t *testing.T, output *Output)
	}{
		{
			name: "extracted task with imminent due date",
			input: &Input{
				Task:          &models.ExtractedTask{Description: "Fix login", RawText: "Fix the login bug"},
				DueDate:       "2024-01-16",
				ReferenceDate: "2024-01-15",
			},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, models.PriorityCritical, output.Priority)
				assert.Equal(t, "deadline-imminent", output.Rule)
			},
		},
		{
			name:  "plain text",
			input: &Input{Text: "Update the readme when possible", ReferenceDate: "2024-01-15"},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, models.PriorityLow, output.Priority)
			},
		},
	}

	handler := createTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := handler.Execute(context.Background(), tt.input)
			assert.NoError(t, err)
			tt.validateOutput(t, output)
		})
	}
}

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input *Input
	}{
		{"missing task and text", &Input{}},
		{"bad due date", &Input{Text: "Fix it", DueDate: "tomorrow"}},
		{"bad reference date", &Input{Text: "Fix it", ReferenceDate: "01/15/2024"}},
	}

	handler := createTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := handler.Execute(context.Background(), tt.input)
			assert.Nil(t, output)
			assert.True(t, errors.Is(err, ErrInvalidInput))
		})
	}
}
