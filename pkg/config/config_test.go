package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gait-ai/gait/pkg/errors"
	"github.com/gait-ai/gait/pkg/models"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gait.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "sparql", cfg.Cache.Backend)
	require.Len(t, cfg.APIs, 2)
	assert.Equal(t, models.AuthBearer, cfg.APIs[0].Auth)
	assert.Equal(t, models.AuthNone, cfg.APIs[1].Auth)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Setenv("TEST_GITHUB_TOKEN", "ghp-test-123")

	path := writeConfig(t, `
store:
  endpoint: http://blazegraph:9999/blazegraph/namespace/kb/sparql
cache:
  enabled: true
  backend: sqlite
  db_path: /tmp/gait-cache.db
  ttl: 30m
apis:
  - name: github
    family: user-collection
    url: https://api.github.com/graphql
    auth: bearer
    token: ${TEST_GITHUB_TOKEN}
    mapping_graph: http://example.org/graphs/github
    primary_concept: user
    default_field: id
log:
  json: true
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://blazegraph:9999/blazegraph/namespace/kb/sparql", cfg.Store.Endpoint)
	assert.Equal(t, "sqlite", cfg.Cache.Backend)
	assert.Equal(t, 30*time.Minute, cfg.Cache.TTL)
	require.Len(t, cfg.APIs, 1)
	assert.Equal(t, "ghp-test-123", cfg.APIs[0].Token, "env var not expanded")
	assert.True(t, cfg.Log.JSON)

	// Untouched sections keep defaults.
	assert.Equal(t, "http://localhost:5000/parse/with-api-detection", cfg.NLP.Endpoint)
}

func TestLoadDefaultsAuthToNone(t *testing.T) {
	path := writeConfig(t, `
apis:
  - name: countries
    family: reference
    url: https://countries.trevorblades.com/
    mapping_graph: http://example.org/graphs/countries
    default_field: code
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, models.AuthNone, cfg.APIs[0].Auth)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"unknown family": `
apis:
  - name: weather
    family: forecast
    url: https://weather.example.com/graphql
    mapping_graph: g
    default_field: id
`,
		"zero ttl": `
cache:
  ttl: 0s
`,
		"unknown backend": `
cache:
  backend: redis
`,
		"duplicate api": `
apis:
  - name: github
    family: user-collection
    url: https://api.github.com/graphql
    mapping_graph: g
    default_field: id
  - name: GitHub
    family: user-collection
    url: https://api.github.com/graphql
    mapping_graph: g
    default_field: id
`,
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
		})
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load("/nonexistent/gait.yaml")
	assert.Error(t, err)
}
