package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	t.Setenv("ASSEMBLYAI_API_KEY", "test-key")

	cfg, err := LoadFromFile(writeConfig(t, `
camunda:
  broker_address: localhost:26500
workers:
  extract-tasks:
    enabled: true
`))
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Camunda.MaxJobsActive)
	assert.Equal(t, RosterSourceInline, cfg.Pipeline.RosterSource)
	assert.Equal(t, "UTC", cfg.Pipeline.Timezone)
	assert.Equal(t, "https://api.assemblyai.com/v2", cfg.Transcription.AssemblyAI.BaseURL)
	assert.Equal(t, "test-key", cfg.Transcription.AssemblyAI.APIKey)
	assert.Equal(t, 3*time.Second, GetDuration(cfg.Transcription.AssemblyAI.PollInterval))
	assert.Equal(t, 5*time.Minute, GetDuration(cfg.Transcription.AssemblyAI.Timeout))
	assert.Equal(t, "Critical", cfg.Notifications.SMS.PriorityThreshold)
	assert.Equal(t, "meeting-tasks", cfg.Indexing.Index)
	assert.Equal(t, ":8080", cfg.Metrics.Address)

	worker := GetWorkerConfig(cfg, "extract-tasks")
	assert.Equal(t, 5, worker.MaxJobsActive)
	assert.Equal(t, 30000, worker.Timeout)
	assert.Equal(t, 3, worker.MaxRetries)
}

func TestLoadFromFile_ExpandsEnvVars(t *testing.T) {
	t.Setenv("TEST_ZEEBE_ADDRESS", "zeebe:26500")
	t.Setenv("TEST_DB_HOST", "db.internal")

	cfg, err := LoadFromFile(writeConfig(t, `
camunda:
  broker_address: ${TEST_ZEEBE_ADDRESS}
database:
  postgres:
    host: ${TEST_DB_HOST}
    database: meetings
    user: workers
pipeline:
  roster_source: postgres
`))
	require.NoError(t, err)

	assert.Equal(t, "zeebe:26500", cfg.Camunda.BrokerAddress)
	assert.Equal(t, "db.internal", cfg.Database.Postgres.Host)
	assert.Contains(t, cfg.Database.Postgres.GetDSN(), "host=db.internal port=5432")
	assert.Contains(t, cfg.Database.Postgres.GetDSN(), "sslmode=disable")
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "missing broker",
			body:    "pipeline:\n  roster_source: inline\n",
			wantErr: "camunda.broker_address is required",
		},
		{
			name:    "file roster without path",
			body:    "camunda:\n  broker_address: localhost:26500\npipeline:\n  roster_source: file\n",
			wantErr: "pipeline.roster_file is required",
		},
		{
			name:    "postgres roster without host",
			body:    "camunda:\n  broker_address: localhost:26500\npipeline:\n  roster_source: postgres\n",
			wantErr: "database.postgres.host is required",
		},
		{
			name:    "unknown roster source",
			body:    "camunda:\n  broker_address: localhost:26500\npipeline:\n  roster_source: ldap\n",
			wantErr: `pipeline.roster_source "ldap"`,
		},
		{
			name:    "indexing without elasticsearch",
			body:    "camunda:\n  broker_address: localhost:26500\nindexing:\n  enabled: true\n",
			wantErr: "database.elasticsearch.addresses or url is required",
		},
		{
			name:    "email without sender",
			body:    "camunda:\n  broker_address: localhost:26500\nnotifications:\n  email:\n    enabled: true\n",
			wantErr: "notifications.email.from_email is required",
		},
		{
			name:    "bad timezone",
			body:    "camunda:\n  broker_address: localhost:26500\npipeline:\n  timezone: Mars/Olympus\n",
			wantErr: "pipeline.timezone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestIsWorkerEnabled(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{
		"notify-assignees": {Enabled: false},
		"index-tasks":      {Enabled: true},
	}}

	assert.False(t, IsWorkerEnabled(cfg, "notify-assignees"))
	assert.True(t, IsWorkerEnabled(cfg, "index-tasks"))
	assert.True(t, IsWorkerEnabled(cfg, "extract-tasks"))
}

func TestElasticsearchConfig_GetURL(t *testing.T) {
	assert.Equal(t, "http://es:9200", ElasticsearchConfig{URL: "http://es:9200", Addresses: []string{"http://other:9200"}}.GetURL())
	assert.Equal(t, "http://other:9200", ElasticsearchConfig{Addresses: []string{"http://other:9200"}}.GetURL())
	assert.Empty(t, ElasticsearchConfig{}.GetURL())
}
