package camunda

import (
	"testing"

	"meeting-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

// stubJobClient hands out nil commands; handlers under test only create them.
type stubJobClient struct{}

func (stubJobClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 { return nil }
func (stubJobClient) NewFailJobCommand() commands.FailJobCommandStep1         { return nil }
func (stubJobClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1   { return nil }

func TestInstrument_RecordsOutcome(t *testing.T) {
	tests := []struct {
		name     string
		taskType string
		handler  worker.JobHandler
		outcome  string
	}{
		{
			name:     "completed",
			taskType: "test-complete",
			handler:  func(c worker.JobClient, _ entities.Job) { c.NewCompleteJobCommand() },
			outcome:  OutcomeCompleted,
		},
		{
			name:     "failed with retries",
			taskType: "test-fail",
			handler:  func(c worker.JobClient, _ entities.Job) { c.NewFailJobCommand() },
			outcome:  OutcomeFailed,
		},
		{
			name:     "thrown",
			taskType: "test-throw",
			handler:  func(c worker.JobClient, _ entities.Job) { c.NewThrowErrorCommand() },
			outcome:  OutcomeThrown,
		},
		{
			name:     "no command",
			taskType: "test-silent",
			handler:  func(worker.JobClient, entities.Job) {},
			outcome:  OutcomeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Instrument(tt.taskType, tt.handler, nil)(stubJobClient{}, entities.Job{})

			assert.Zero(t, testutil.ToFloat64(metrics.WorkerJobsActive.WithLabelValues(tt.taskType)))
			if tt.outcome == OutcomeCompleted {
				assert.Equal(t, 1.0, testutil.ToFloat64(metrics.WorkerJobsCompleted.WithLabelValues(tt.taskType)))
				return
			}
			assert.Equal(t, 1.0, testutil.ToFloat64(metrics.WorkerJobsFailed.WithLabelValues(tt.taskType, tt.outcome)))
		})
	}
}
