package extracttasks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTranscript = "Hi everyone, let's discuss this week's priorities. " +
	"Sakshi, we need someone to fix the critical login bug that users reported yesterday. " +
	"This needs to be done by tomorrow evening since it's blocking users. " +
	"Also, the database performance is really slow, Mohit you're good with backend optimization right? " +
	"We should tackle this by end of this week, it's affecting the user experience. " +
	"And we need to update the API documentation before Friday's release - this is high priority. " +
	"Oh, and someone should design the new onboarding screens for the next sprint. " +
	"Arjun, didn't you work on UI designs last month? This can wait until next Monday. " +
	"One more thing - we need to write unit tests for the payment module. " +
	"This depends on the login bug fix being completed first, so let's plan this for Wednesday."

var sampleTeam = []string{"Sakshi", "Mohit", "Arjun", "Lata"}

func TestExtractor_Extract_SampleTranscript(t *testing.T) {
	tasks := NewExtractor(sampleTeam).Extract(sampleTranscript)
	require.Len(t, tasks, 5)

	expected := []struct {
		description string
		person      string
		deadline    string
		indicators  []string
		deps        []string
	}{
		{"Fix the critical login bug", "Sakshi", "tomorrow evening", []string{"critical"}, []string{}},
		{"Optimize database performance", "Mohit", "end of this week", []string{}, []string{}},
		{"Update the API documentation", "", "friday", []string{"high priority"}, []string{}},
		{"Design the new onboarding screens", "", "next Monday", []string{}, []string{}},
		{
			"Write unit tests for the payment module", "", "wednesday", []string{},
			[]string{"login bug fix", "the login bug fix being completed first"},
		},
	}

	for i, want := range expected {
		got := tasks[i]
		assert.Equal(t, want.description, got.Description, "task %d", i+1)
		assert.Equal(t, want.person, got.MentionedPerson, "task %d", i+1)
		assert.Equal(t, want.deadline, got.DeadlinePhrase, "task %d", i+1)
		assert.Equal(t, want.indicators, got.PriorityIndicators, "task %d", i+1)
		assert.Equal(t, want.deps, got.DependencyPhrases, "task %d", i+1)
	}

	assert.Contains(t, tasks[0].RawText, "This needs to be done by tomorrow evening")
	assert.Contains(t, tasks[1].RawText, "it's affecting the user experience")
	assert.Contains(t, tasks[3].RawText, "This can wait until next Monday.")
	assert.NotContains(t, tasks[3].RawText, "Arjun")
	assert.Contains(t, tasks[4].RawText, "This depends on the login bug fix")
}

func TestExtractor_Extract_AddressedHandOff(t *testing.T) {
	tasks := NewExtractor(sampleTeam).Extract(
		"We need to fix the critical login bug by tomorrow. Sakshi, please handle it.")

	require.Len(t, tasks, 1)
	assert.Equal(t, "Fix the critical login bug", tasks[0].Description)
	assert.Equal(t, "Sakshi", tasks[0].MentionedPerson)
	assert.Equal(t, "tomorrow", tasks[0].DeadlinePhrase)
	assert.Equal(t, []string{"critical"}, tasks[0].PriorityIndicators)
}

func TestExtractor_Extract_RequestWithOwnWorkIsNewTask(t *testing.T) {
	tests := []struct {
		name       string
		transcript string
		person     string
	}{
		{"addressed question", "We need to fix the login bug. Mohit, can you update the API documentation?", "Mohit"},
		{"bare please", "We need to fix the login bug. Please update the API documentation.", ""},
		{"addressed please", "We need to fix the login bug. Lata, please write unit tests for the payment module.", "Lata"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := NewExtractor(sampleTeam).Extract(tt.transcript)

			require.Len(t, tasks, 2)
			assert.Contains(t, tasks[0].Description, "login bug")
			assert.Empty(t, tasks[0].MentionedPerson)
			assert.NotContains(t, tasks[0].RawText, tt.transcript[len("We need to fix the login bug. "):])
			assert.Equal(t, tt.person, tasks[1].MentionedPerson)
		})
	}
}

func TestExtractor_Extract_NoTasks(t *testing.T) {
	tests := []struct {
		name       string
		transcript string
	}{
		{"empty", ""},
		{"whitespace", "   \n\t "},
		{"small talk", "Hi everyone, let's discuss this week's priorities. Thanks for joining."},
		{"past work question", "Arjun, did you work on the onboarding flow last month?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, NewExtractor(sampleTeam).Extract(tt.transcript))
		})
	}
}

func TestExtractor_MentionIsInstanceScoped(t *testing.T) {
	transcript := "Mohit, we need to fix the checkout bug today."

	withRoster := NewExtractor([]string{"Mohit"}).Extract(transcript)
	withoutRoster := NewExtractor(nil).Extract(transcript)

	require.Len(t, withRoster, 1)
	require.Len(t, withoutRoster, 1)
	assert.Equal(t, "Mohit", withRoster[0].MentionedPerson)
	assert.Empty(t, withoutRoster[0].MentionedPerson)
}

func TestExtractor_MentionKeepsSpokenCasing(t *testing.T) {
	e := NewExtractor([]string{"Lata"})

	assert.Equal(t, "LATA", e.mentionedPerson("LATA, we need to write the test plan."))
	assert.Empty(t, e.mentionedPerson("The latex build needs to be fixed."))
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "terminal punctuation",
			text:     "Fix the login page! Is it slow?  Ship it.",
			expected: []string{"Fix the login page!", "Is it slow?", "Ship it."},
		},
		{
			name:     "spoken separator",
			text:     "Review the PR. One more thing - update the changelog.",
			expected: []string{"Review the PR.", "- update the changelog."},
		},
		{
			name:     "second need-to clause",
			text:     "Fix the login page and we need to update the docs.",
			expected: []string{"Fix the login page", "We need to update the docs."},
		},
		{
			name:     "short fragments dropped",
			text:     "Ok. Yes. Deploy the service tonight.",
			expected: []string{"Deploy the service tonight."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, splitSentences(tt.text))
		})
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		sentence string
		expected string
	}{
		{"So, we need to write unit tests for the payment modu.", "Write unit tests for the payment module"},
		{"The database performance is bad.", "Optimize database performance"},
		{"Okay, update the documentation for the CLI.", "Update the documentation"},
		{"we should migrate the billing cron", "Migrate the billing cron"},
	}

	for _, tt := range tests {
		t.Run(tt.sentence, func(t *testing.T) {
			assert.Equal(t, tt.expected, describe(tt.sentence))
		})
	}
}

func TestDeadlinePhrase(t *testing.T) {
	tests := []struct {
		text     string
		expected string
	}{
		{"this needs to be done by tomorrow evening", "tomorrow evening"},
		{"tackle this by end of this week", "end of this week"},
		{"ship it by thursday", "thursday"},
		{"before friday's release", "friday"},
		{"for the next sprint", "next Monday"},
		{"can wait until next monday", "next monday"},
		{"finish it in 3 days", "3 days"},
		{"we discussed it on tuesday", "tuesday"},
		{"no date here", ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.expected, deadlinePhrase(tt.text))
		})
	}
}

func TestCountTaskIndicators(t *testing.T) {
	assert.Equal(t, 0, CountTaskIndicators(""))
	assert.Equal(t, 3, CountTaskIndicators("We need to fix it"))
}
