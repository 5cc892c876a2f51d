package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenNoFileOrEnv(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "openai", cfg.LLM.DefaultProvider)
	assert.Equal(t, 8000, cfg.Chunking.BatchBudget)
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9191
  shutdown_timeout: 30s
auth:
  jwt_secret: file-secret
llm:
  default_provider: anthropic
chunking:
  batch_budget: 12000
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout.Duration())
	assert.Equal(t, "file-secret", cfg.Auth.JWTSecret.Value())
	assert.Equal(t, "anthropic", cfg.LLM.DefaultProvider)
	assert.Equal(t, 12000, cfg.Chunking.BatchBudget)
	// Untouched fields keep defaults.
	assert.Equal(t, "chromem", cfg.Vector.Backend)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9191\n"), 0o600))

	t.Setenv("BOARDROOM_SERVER_PORT", "7070")
	t.Setenv("BOARDROOM_AUTH_JWT_SECRET", "env-secret")
	t.Setenv("BOARDROOM_LLM_OPENAI_KEY", "sk-test")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port, "env must beat file")
	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret.Value())
	assert.Equal(t, "sk-test", cfg.LLM.OpenAIKey.Value())
}

func TestLoad_MissingFileIsIgnored(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not: valid"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}

func TestEnvToKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"BOARDROOM_SERVER_PORT", "server.port"},
		{"BOARDROOM_AUTH_JWT_SECRET", "auth.jwt_secret"},
		{"BOARDROOM_LLM_REQUESTS_PER_MINUTE", "llm.requests_per_minute"},
		{"BOARDROOM_CHUNKING_BATCH_BUDGET", "chunking.batch_budget"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, envToKey(tt.in), tt.in)
	}
}
