// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"context"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meeting-workers/internal/common/logger"
	"meeting-workers/internal/export"
	"meeting-workers/internal/models"
	"meeting-workers/internal/roster"

	assigntask "meeting-workers/internal/workers/assignment/assign-task"
	notifyassignees "meeting-workers/internal/workers/delivery/notify-assignees"
	extracttasks "meeting-workers/internal/workers/extraction/extract-tasks"
	processtranscript "meeting-workers/internal/workers/pipeline/process-transcript"
	resolvedependencies "meeting-workers/internal/workers/planning/resolve-dependencies"
	classifypriority "meeting-workers/internal/workers/scheduling/classify-priority"
	parsedeadline "meeting-workers/internal/workers/scheduling/parse-deadline"
)

const referenceDate = "2024-01-15"

func loadSample(t testing.TB) (string, []models.TeamMember) {
	t.Helper()
	data, err := os.ReadFile("../../samples/meeting_transcript.txt")
	require.NoError(t, err)
	team, err := roster.LoadFile("../../configs/team.json")
	require.NoError(t, err)
	return strings.TrimSpace(string(data)), team
}

func runOrchestrator(t testing.TB, transcript string, team []models.TeamMember) *processtranscript.Output {
	t.Helper()
	pipeline := processtranscript.NewPipeline(nil, nil, logger.NewNoOpLogger())
	handler := processtranscript.NewHandler(processtranscript.LoadConfig(), pipeline, nil, logger.NewNoOpLogger())

	out, err := handler.Execute(context.Background(), &processtranscript.Input{
		Transcript:    transcript,
		Team:          team,
		ReferenceDate: referenceDate,
	})
	require.NoError(t, err)
	require.True(t, out.Success, out.Message)
	return out
}

// runStages drives every stage worker in the order a BPMN process would and
// assembles the task records from their outputs.
func runStages(t *testing.T, transcript string, team []models.TeamMember) ([]models.TaskRecord, []int) {
	t.Helper()
	ctx := context.Background()
	log := logger.NewTestLogger(t)

	extracted, err := extracttasks.NewHandler(extracttasks.LoadConfig(), log).
		Execute(ctx, &extracttasks.Input{Transcript: transcript, Team: team})
	require.NoError(t, err)

	deadlines := parsedeadline.NewHandler(parsedeadline.LoadConfig(), log)
	priorities := classifypriority.NewHandler(classifypriority.LoadConfig(), log)
	assigner := assigntask.NewHandler(assigntask.LoadConfig(), nil, log)

	records := make([]models.TaskRecord, len(extracted.Tasks))
	for i := range extracted.Tasks {
		task := extracted.Tasks[i]
		record := models.TaskRecord{
			TaskNumber:  i + 1,
			Description: task.Description,
			Deadline:    task.DeadlinePhrase,
		}

		if task.DeadlinePhrase != "" {
			deadline, err := deadlines.Execute(ctx, &parsedeadline.Input{Phrase: task.DeadlinePhrase, ReferenceDate: referenceDate})
			require.NoError(t, err)
			if deadline.Resolved {
				record.DueDate = deadline.DueDate
			}
		}

		priority, err := priorities.Execute(ctx, &classifypriority.Input{Task: &task, DueDate: record.DueDate, ReferenceDate: referenceDate})
		require.NoError(t, err)
		record.Priority = priority.Priority

		assignment, err := assigner.Execute(ctx, &assigntask.Input{Task: task, Team: team})
		require.NoError(t, err)
		if assignment.Assigned {
			record.AssignedTo = assignment.AssignedTo
			record.Reasoning = assignment.Reasoning
		}
		records[i] = record
	}

	deps, err := resolvedependencies.NewHandler(resolvedependencies.LoadConfig(), log).
		Execute(ctx, &resolvedependencies.Input{Tasks: extracted.Tasks})
	require.NoError(t, err)
	for i, pre := range deps.DependsOn {
		records[i].DependsOn = pre
	}
	return records, deps.Order
}

func TestMeetingToTasks_StagesMatchOrchestrator(t *testing.T) {
	transcript, team := loadSample(t)

	orchestrated := runOrchestrator(t, transcript, team)
	staged, order := runStages(t, transcript, team)

	require.Len(t, orchestrated.Tasks, 5)
	assert.Equal(t, 5, orchestrated.TaskCount)
	assert.Equal(t, orchestrated.Tasks, staged)
	assert.Equal(t, orchestrated.ExecutionOrder, order)

	assert.Equal(t, "Sakshi", staged[0].AssignedTo)
	assert.Equal(t, models.PriorityCritical, staged[0].Priority)
	assert.Equal(t, "2024-01-16", staged[0].DueDate)
	assert.Equal(t, 1, staged[4].DependsOn)
}

func TestMeetingToTasks_Exports(t *testing.T) {
	transcript, team := loadSample(t)
	result := runOrchestrator(t, transcript, team).PipelineResult

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, export.Write(&buf, export.FormatJSON, &result, false))

		decoded, err := export.UnmarshalResult(buf.Bytes())
		require.NoError(t, err)
		assert.Equal(t, result.Tasks, decoded.Tasks)
		assert.Equal(t, result.ExecutionOrder, decoded.ExecutionOrder)
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, export.Write(&buf, export.FormatCSV, &result, false))

		decoded, err := export.ReadCSV(&buf)
		require.NoError(t, err)
		require.Len(t, decoded, len(result.Tasks))
		for i := range decoded {
			want := result.Tasks[i]
			want.DueDate = ""
			assert.Equal(t, want, decoded[i])
		}
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, export.Write(&buf, export.FormatText, &result, true))

		out := buf.String()
		assert.Contains(t, out, "5 task(s) relative to 2024-01-15")
		assert.Contains(t, out, "Fix the critical login bug")
		assert.Contains(t, out, "Execution order: #")
	})
}

type recordingSES struct {
	mu  sync.Mutex
	out []*ses.SendEmailInput
}

func (r *recordingSES) SendEmail(_ context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.out = append(r.out, in)
	return &ses.SendEmailOutput{}, nil
}

type recordingSNS struct {
	mu  sync.Mutex
	out []*sns.PublishInput
}

func (r *recordingSNS) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.out = append(r.out, in)
	return &sns.PublishOutput{}, nil
}

func TestMeetingToTasks_NotifyAssignees(t *testing.T) {
	transcript, team := loadSample(t)
	result := runOrchestrator(t, transcript, team)

	for i := range team {
		team[i].Email = strings.ToLower(team[i].Name) + "@example.com"
		team[i].Phone = "+15550000" + string(rune('0'+i))
	}

	sesClient := &recordingSES{}
	snsClient := &recordingSNS{}
	cfg := notifyassignees.LoadConfig()
	cfg.EmailEnabled = true
	cfg.SMSEnabled = true
	cfg.FromEmail = "tasks@example.com"
	cfg.SMSPriorityThreshold = models.PriorityCritical

	out, err := notifyassignees.NewHandler(cfg, sesClient, snsClient, nil, logger.NewTestLogger(t)).
		Execute(context.Background(), &notifyassignees.Input{RunID: result.RunID, Tasks: result.Tasks, Team: team})
	require.NoError(t, err)

	assert.Equal(t, notifyassignees.StatusSent, out.Status)
	assert.Equal(t, 4, out.EmailsSent)
	assert.Len(t, sesClient.out, 4)
	assert.Equal(t, 1, out.SMSSent)
	require.Len(t, snsClient.out, 1)
	assert.Contains(t, *snsClient.out[0].Message, "Fix the critical login bug")
	assert.Empty(t, out.Unreachable)
}

func BenchmarkHandler_ProcessTranscript(b *testing.B) {
	transcript, team := loadSample(b)
	pipeline := processtranscript.NewPipeline(nil, nil, logger.NewNoOpLogger())
	handler := processtranscript.NewHandler(processtranscript.LoadConfig(), pipeline, nil, logger.NewNoOpLogger())
	input := &processtranscript.Input{Transcript: transcript, Team: team, ReferenceDate: referenceDate}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = handler.Execute(context.Background(), input)
	}
}

func BenchmarkExport_CSV(b *testing.B) {
	transcript, team := loadSample(b)
	result := runOrchestrator(b, transcript, team).PipelineResult

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var buf bytes.Buffer
		_ = export.Write(&buf, export.FormatCSV, &result, false)
	}
}
