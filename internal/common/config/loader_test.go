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
	path := writeConfig(t, `
database:
  postgres:
    host: localhost
    database: tasks
    user: tracker
  redis:
    address: localhost:6379
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, BackendPostgres, cfg.Directory.Backend)
	assert.Equal(t, 300, cfg.Query.EntityCacheTTL)
	assert.Equal(t, 5*time.Minute, cfg.Query.EntityCacheTTLDuration())
	assert.Equal(t, 0.6, cfg.Query.FuzzyThreshold)
	assert.Equal(t, 0.9, cfg.Query.SuggestionThreshold)
	assert.Equal(t, 5, cfg.Query.MinPromptLength)
	assert.Equal(t, 500, cfg.Query.MaxPromptLength)
	assert.Equal(t, 10, cfg.Query.RedistributionThreshold)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "tasks", cfg.Database.Elasticsearch.TasksIndex)
	assert.Equal(t, "stderr", cfg.Logging.Output)
	assert.Equal(t, "task-query", cfg.MCP.ServerName)
}

func TestLoadFromFile_ExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("TQ_TEST_PG_PASSWORD", "s3cret")
	path := writeConfig(t, `
database:
  postgres:
    host: localhost
    database: tasks
    user: tracker
    password: ${TQ_TEST_PG_PASSWORD}
  redis:
    address: localhost:6379
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Database.Postgres.Password)
	assert.Contains(t, cfg.Database.Postgres.GetDSN(), "password=s3cret")
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name: "missing redis",
			body: `
database:
  postgres: {host: localhost, database: tasks, user: tracker}
`,
			wantErr: "database.redis.address is required",
		},
		{
			name: "elasticsearch without addresses",
			body: `
directory: {backend: elasticsearch}
database:
  redis: {address: localhost:6379}
`,
			wantErr: "database.elasticsearch.addresses is required",
		},
		{
			name: "unknown backend",
			body: `
directory: {backend: mongo}
database:
  redis: {address: localhost:6379}
`,
			wantErr: `directory.backend "mongo" is not supported`,
		},
		{
			name: "camunda enabled without broker",
			body: `
camunda: {enabled: true}
database:
  postgres: {host: localhost, database: tasks, user: tracker}
  redis: {address: localhost:6379}
`,
			wantErr: "camunda.broker_address is required",
		},
		{
			name: "prompt bounds inverted",
			body: `
query: {min_prompt_length: 600}
database:
  postgres: {host: localhost, database: tasks, user: tracker}
  redis: {address: localhost:6379}
`,
			wantErr: "min_prompt_length must not exceed",
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

func TestGetWorkerConfig_Fallback(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{
		"process-task-query": {Enabled: false, MaxJobsActive: 2},
	}}

	assert.False(t, IsWorkerEnabled(cfg, "process-task-query"))
	assert.True(t, IsWorkerEnabled(cfg, "unknown"))
	assert.Equal(t, 2, GetWorkerConfig(cfg, "process-task-query").MaxJobsActive)
	assert.Equal(t, 30000, GetWorkerConfig(cfg, "unknown").Timeout)
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}
