package extracttasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"meeting-workers/internal/common/logger"
	"meeting-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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
			name:  "names from team members",
			input: &Input{Transcript: sampleTranscript, Team: []models.TeamMember{{Name: "Sakshi"}, {Name: "Mohit"}}},
			validateOutput: func(t *testing.T, output *Output) {
				require.Equal(t, 5, output.Count)
				assert.Equal(t, "Sakshi", output.Tasks[0].MentionedPerson)
				assert.Equal(t, "Mohit", output.Tasks[1].MentionedPerson)
				assert.Empty(t, output.Message)
				assert.Positive(t, output.Indicators)
			},
		},
		{
			name:  "explicit names win over team",
			input: &Input{Transcript: sampleTranscript, TeamNames: []string{"Mohit"}, Team: []models.TeamMember{{Name: "Sakshi"}}},
			validateOutput: func(t *testing.T, output *Output) {
				require.Equal(t, 5, output.Count)
				assert.Empty(t, output.Tasks[0].MentionedPerson)
				assert.Equal(t, "Mohit", output.Tasks[1].MentionedPerson)
			},
		},
		{
			name:  "nothing actionable",
			input: &Input{Transcript: "Thanks everyone for joining today."},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Zero(t, output.Count)
				assert.NotNil(t, output.Tasks)
				assert.Equal(t, NoTasksMessage, output.Message)
			},
		},
	}

	handler := createTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := handler.Execute(context.Background(), tt.input)
			require.NoError(t, err)
			tt.validateOutput(t, output)
		})
	}
}

func TestHandler_Execute_EmptyTranscript(t *testing.T) {
	output, err := createTestHandler(t).Execute(context.Background(), &Input{Transcript: "  "})

	assert.Nil(t, output)
	assert.True(t, errors.Is(err, ErrTranscriptEmpty))
}
