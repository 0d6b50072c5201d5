package resolvedependencies

import (
	"testing"

	"meeting-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func task(description, raw string, phrases ...string) models.ExtractedTask {
	return models.ExtractedTask{
		Description:       description,
		RawText:           raw,
		DependencyPhrases: phrases,
	}
}

func TestExtractPhrases(t *testing.T) {
	tests := []struct {
		text     string
		expected []string
	}{
		{"This depends on the login bug fix being completed first", []string{"the login bug fix being completed first"}},
		{"Start after the database migration is done.", []string{"the database migration"}},
		{"Once the API is finished we ship", []string{"the api"}},
		{"We are blocked by the vendor, sadly", []string{"the vendor"}},
		{"Still waiting for legal approval.", []string{"legal approval"}},
		{"This requires the api keys to be rotated", []string{"the api keys"}},
		{"It needs the schema review first", []string{"the schema review"}},
		{"We can't start until design signs off.", []string{"design signs off"}},
		{"Prerequisites: schema review.", []string{"schema review"}},
		{"Ship the release notes", nil},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractPhrases(tt.text))
			assert.Equal(t, tt.expected != nil, HasDependencyPhrase(tt.text))
		})
	}
}

func TestResolver_Resolve_LoginBugScenario(t *testing.T) {
	tasks := []models.ExtractedTask{
		task("Fix the login bug", "We need to fix the login bug by tomorrow."),
		task("Update the API documentation", "Update the API documentation before friday's release."),
		task("Write unit tests for the payment module",
			"Write unit tests for the payment module. This depends on the login bug fix being completed first."),
	}

	deps := NewResolver().Resolve(tasks)

	require.Len(t, deps, 1)
	assert.Equal(t, 2, deps[0].DependentIndex)
	assert.Equal(t, 0, deps[0].PrerequisiteIndex)
	assert.Equal(t, "the login bug fix being completed first", deps[0].Phrase)
}

func TestResolver_Resolve_ExtractedPhrasesComeFirst(t *testing.T) {
	tasks := []models.ExtractedTask{
		task("Set up the staging database", "Set up the staging database."),
		task("Write the migration guide", "Write the migration guide."),
		task("Run the data migration",
			"Run the data migration. It depends on the migration guide.",
			"the staging database"),
	}

	deps := NewResolver().Resolve(tasks)

	require.Len(t, deps, 2)
	assert.Equal(t, 0, deps[0].PrerequisiteIndex)
	assert.Equal(t, "the staging database", deps[0].Phrase)
	assert.Equal(t, 1, deps[1].PrerequisiteIndex)
}

func TestPhrasesFor_KeepsRepeatedTextPhrases(t *testing.T) {
	tk := task("Run the data migration",
		"This depends on the staging database. Start after the migration guide is done, "+
			"then again after the migration guide is done.",
		"the staging database")

	assert.Equal(t, []string{
		"the staging database",
		"the migration guide",
		"the migration guide",
	}, phrasesFor(tk))
}

func TestResolver_Resolve_RepeatedTextPhraseYieldsOneEdge(t *testing.T) {
	tasks := []models.ExtractedTask{
		task("Write the migration guide", "Write the migration guide."),
		task("Run the data migration",
			"Run it after the migration guide is done. Only after the migration guide is done."),
	}

	analysis, err := NewResolver().Analyze(tasks)
	require.NoError(t, err)

	require.Len(t, analysis.Dependencies, 2)
	assert.Equal(t, 0, analysis.Dependencies[0].PrerequisiteIndex)
	assert.Equal(t, 0, analysis.Dependencies[1].PrerequisiteIndex)
	assert.Equal(t, []int{0, 1}, analysis.Order)
	assert.False(t, analysis.HasCycle())
}

func TestResolver_Resolve_NoMatchIsDropped(t *testing.T) {
	tasks := []models.ExtractedTask{
		task("Refresh the quarterly charts", "Refresh the quarterly charts."),
		task("Send the invoices", "Send the invoices. We are waiting for the vendor contract."),
	}

	assert.Empty(t, NewResolver().Resolve(tasks))
}

func TestMatchTask(t *testing.T) {
	tests := []struct {
		name         string
		phrase       string
		descriptions []string
		exclude      int
		expected     int
		found        bool
	}{
		{
			name:         "containment",
			phrase:       "the export pipeline",
			descriptions: []string{"build the reporting service", "set up the export pipeline"},
			exclude:      0,
			expected:     1,
			found:        true,
		},
		{
			name:         "strong keyword beats an earlier overlap",
			phrase:       "the quarterly login audit",
			descriptions: []string{"prepare quarterly audit notes", "fix login redirect", "me"},
			exclude:      2,
			expected:     1,
			found:        true,
		},
		{
			name:         "overlap tie keeps the earliest task",
			phrase:       "the reporting cleanup",
			descriptions: []string{"refresh the reporting charts", "clean the reporting exports", "x"},
			exclude:      2,
			expected:     0,
			found:        true,
		},
		{
			name:         "never matches itself",
			phrase:       "fix the login bug",
			descriptions: []string{"fix the login bug"},
			exclude:      0,
			found:        false,
		},
		{
			name:         "blank phrase",
			phrase:       "   ",
			descriptions: []string{"fix the login bug", "ship it"},
			exclude:      1,
			found:        false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, ok := matchTask(tt.phrase, tt.descriptions, tt.exclude)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.expected, idx)
			}
		})
	}
}

func TestResolver_Analyze_CircularDependencies(t *testing.T) {
	tasks := []models.ExtractedTask{
		task("Build the reporting service", "Build the reporting service. This depends on the export pipeline."),
		task("Set up the export pipeline", "Set up the export pipeline. This depends on the metrics schema."),
		task("Define the metrics schema", "Define the metrics schema. This depends on the reporting service."),
	}

	analysis, err := NewResolver().Analyze(tasks)
	require.NoError(t, err)

	assert.True(t, analysis.HasCycle())
	assert.Equal(t, CycleEdge{From: 2, To: 0}, *analysis.Cycle)
	assert.Contains(t, analysis.Warning(), CycleWarning)
	assert.Equal(t, []int{1, 2, 0}, analysis.FirstPrerequisite)
	assert.Equal(t, []int{0, 1, 2}, analysis.Order)
}

func TestResolver_Analyze_LinearChain(t *testing.T) {
	tasks := []models.ExtractedTask{
		task("Build the reporting service", "Build the reporting service. This depends on the export pipeline."),
		task("Set up the export pipeline", "Set up the export pipeline. This depends on the metrics schema."),
		task("Define the metrics schema", "Define the metrics schema."),
	}

	analysis, err := NewResolver().Analyze(tasks)
	require.NoError(t, err)

	assert.False(t, analysis.HasCycle())
	assert.Empty(t, analysis.Warning())
	assert.Equal(t, []int{2, 1, 0}, analysis.Order)
}
