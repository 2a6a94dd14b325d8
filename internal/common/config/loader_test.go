package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
camunda:
  broker_address: localhost:26500
database:
  postgres:
    host: localhost
    database: coaching
    user: coaching
  redis:
    address: localhost:6379
  elasticsearch:
    addresses: ["http://localhost:9200"]
geo:
  base_url: http://geo.local
registry:
  base_url: http://sirene.local
workers:
  score-eligibility:
    enabled: true
    timeout: 45000
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, "localhost:26500", cfg.Camunda.BrokerAddress)
	assert.Equal(t, 10, cfg.Camunda.MaxJobsActive)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, "http://localhost:9200", cfg.Database.Elasticsearch.GetURL())
	assert.Equal(t, 200.0, cfg.Eligibility.AdjacencyThresholdMeters)
	assert.Equal(t, 5*time.Second, cfg.Geo.Timeout())
	assert.Equal(t, 24*time.Hour, cfg.Geo.CacheTTL())
	assert.Equal(t, "candidate-assessments", cfg.Reporting.AssessmentIndex)
	assert.Equal(t, "info", cfg.Logging.Level)

	w := GetWorkerConfig(cfg, "score-eligibility")
	assert.True(t, w.Enabled)
	assert.Equal(t, 45000, w.Timeout)
	assert.Equal(t, 5, w.MaxJobsActive)
}

func TestLoadFromFile_EnvOverride(t *testing.T) {
	t.Setenv("ELIGIBILITY_ADJACENCY_THRESHOLD_METERS", "350")
	t.Setenv("GEO_TIMEOUT_SECONDS", "2")

	cfg, err := LoadFromFile(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, 350.0, cfg.Eligibility.AdjacencyThresholdMeters)
	assert.Equal(t, 2*time.Second, cfg.Geo.Timeout())
}

func TestLoadFromFile_ExpandsPlaceholders(t *testing.T) {
	t.Setenv("TEST_BROKER", "zeebe:26500")
	yaml := `
camunda:
  broker_address: ${TEST_BROKER}
database:
  postgres: {host: db, database: coaching, user: u}
  redis: {address: "redis:6379"}
  elasticsearch: {url: "http://es:9200"}
geo: {base_url: "http://geo.local"}
registry: {base_url: "http://sirene.local"}
`
	cfg, err := LoadFromFile(writeConfig(t, yaml))
	require.NoError(t, err)
	assert.Equal(t, "zeebe:26500", cfg.Camunda.BrokerAddress)
}

func TestLoadFromFile_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "missing broker",
			yaml: `
database:
  postgres: {host: db, database: coaching, user: u}
  redis: {address: "redis:6379"}
  elasticsearch: {url: "http://es:9200"}
geo: {base_url: "http://geo.local"}
registry: {base_url: "http://sirene.local"}
`,
			wantErr: "BrokerAddress",
		},
		{
			name: "bad log level",
			yaml: validYAML + `
logging:
  level: verbose
`,
			wantErr: "Level",
		},
		{
			name: "missing elasticsearch",
			yaml: `
camunda: {broker_address: "localhost:26500"}
database:
  postgres: {host: db, database: coaching, user: u}
  redis: {address: "redis:6379"}
geo: {base_url: "http://geo.local"}
registry: {base_url: "http://sirene.local"}
`,
			wantErr: "elasticsearch",
		},
		{
			name: "email enabled without sender",
			yaml: validYAML + `
notifications:
  email:
    enabled: true
`,
			wantErr: "from_email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetWorkerConfig_Default(t *testing.T) {
	cfg := &Config{}
	w := GetWorkerConfig(cfg, "unknown")
	assert.True(t, w.Enabled)
	assert.Equal(t, 30000, w.Timeout)
	assert.True(t, IsWorkerEnabled(cfg, "unknown"))
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}
