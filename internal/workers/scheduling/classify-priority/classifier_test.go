package classifypriority

import (
	"testing"
	"time"

	"meeting-workers/internal/models"

	"github.com/stretchr/testify/assert"
)

var ref = time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

func daysFromRef(n int) *time.Time {
	d := ref.AddDate(0, 0, n)
	return &d
}

func TestClassifier_Classify(t *testing.T) {
	tests := []struct {
		name     string
		task     models.ExtractedTask
		deadline *time.Time
		expected models.PriorityLevel
		rule     string
	}{
		{
			name:     "can wait beats urgency words",
			task:     models.ExtractedTask{RawText: "This is urgent but it can wait until Monday"},
			expected: models.PriorityMedium,
			rule:     "deferred",
		},
		{
			name:     "can wait beats imminent deadline",
			task:     models.ExtractedTask{RawText: "Update the docs, this can wait"},
			deadline: daysFromRef(0),
			expected: models.PriorityMedium,
			rule:     "deferred",
		},
		{
			name:     "critical word",
			task:     models.ExtractedTask{RawText: "Fix the critical login bug"},
			expected: models.PriorityCritical,
			rule:     "critical-indicator",
		},
		{
			name:     "critical from extracted indicator only",
			task:     models.ExtractedTask{RawText: "Fix the login flow", PriorityIndicators: []string{"ASAP"}},
			expected: models.PriorityCritical,
			rule:     "critical-indicator",
		},
		{
			name:     "deadline tomorrow outranks important",
			task:     models.ExtractedTask{RawText: "Important: update the API documentation"},
			deadline: daysFromRef(1),
			expected: models.PriorityCritical,
			rule:     "deadline-imminent",
		},
		{
			name:     "overdue deadline is critical",
			task:     models.ExtractedTask{RawText: "Write the release notes"},
			deadline: daysFromRef(-3),
			expected: models.PriorityCritical,
			rule:     "deadline-imminent",
		},
		{
			name:     "high indicator",
			task:     models.ExtractedTask{RawText: "The dashboard is really slow, it's affecting users"},
			deadline: daysFromRef(5),
			expected: models.PriorityHigh,
			rule:     "high-indicator",
		},
		{
			name:     "deadline in two days",
			task:     models.ExtractedTask{RawText: "Write the release notes"},
			deadline: daysFromRef(2),
			expected: models.PriorityHigh,
			rule:     "deadline-near",
		},
		{
			name:     "low indicator",
			task:     models.ExtractedTask{RawText: "Refactor the settings page when possible"},
			expected: models.PriorityLow,
			rule:     "low-indicator",
		},
		{
			name:     "high beats low",
			task:     models.ExtractedTask{RawText: "Important cleanup, nice to have before release"},
			expected: models.PriorityHigh,
			rule:     "high-indicator",
		},
		{
			name:     "nothing applies",
			task:     models.ExtractedTask{RawText: "Write the onboarding guide"},
			deadline: daysFromRef(10),
			expected: models.PriorityMedium,
			rule:     "default",
		},
	}

	classifier := NewClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			priority, rule := classifier.ClassifyWithRule(tt.task, tt.deadline, ref)
			assert.Equal(t, tt.expected, priority)
			assert.Equal(t, tt.rule, rule)
		})
	}
}

func TestClassifier_CriticalIndicatorNeverMediumOrLow(t *testing.T) {
	classifier := NewClassifier()
	deadlines := []*time.Time{nil, daysFromRef(0), daysFromRef(2), daysFromRef(30)}

	for _, word := range criticalIndicators {
		for _, d := range deadlines {
			got := classifier.ClassifyFromText("Please handle the payments outage "+word+", nice to have a fix", d, ref)
			assert.Contains(t, []models.PriorityLevel{models.PriorityCritical, models.PriorityHigh}, got, word)
		}
	}
}

func TestClassifier_ImminentDeadlineAlwaysCritical(t *testing.T) {
	classifier := NewClassifier()
	texts := []string{
		"Write the onboarding guide",
		"Important: review the pull request",
		"Clean up the backlog when possible",
	}

	for _, text := range texts {
		for _, days := range []int{-1, 0, 1} {
			assert.Equal(t, models.PriorityCritical, classifier.ClassifyFromText(text, daysFromRef(days), ref), text)
		}
	}
}

func TestClassifier_NoSignalsIsMedium(t *testing.T) {
	classifier := NewClassifier()

	assert.Equal(t, models.PriorityMedium, classifier.ClassifyFromText("Write unit tests for the payment module", nil, ref))
	assert.Equal(t, models.PriorityMedium, classifier.ClassifyFromText("Write unit tests for the payment module", daysFromRef(3), ref))
}
