package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/resumebuilder/pkg/llm"
)

var keys = []string{
	"CONFIG_FILE", "PORT", "DATABASE_URL", "JWT_SECRET", "JWT_ISSUER", "JWT_TTL_MINUTES",
	"MAX_UPLOAD_BYTES", "LOG_LEVEL", "LOG_FORMAT", "AI_PROVIDER", "AI_MODEL", "OPENAI_MODEL",
	"AI_API_KEY", "OPENAI_API_KEY", "AI_BASE_URL", "OPENAI_BASE_URL", "AI_TIMEOUT_SECONDS",
	"APP_TITLE", "APP_REFERER", "S3_ENDPOINT", "S3_REGION", "S3_BUCKET", "S3_ACCESS_KEY",
	"S3_SECRET_KEY", "AMQP_URL", "AMQP_EXCHANGE", "READY_TIMEOUT_SECONDS", "DB_MAX_CONNS",
	"DB_MIN_CONNS", "DB_MAX_CONN_LIFETIME_MINUTES", "PAGE_SIZE", "MAX_PAGE_SIZE",
}

// clearEnv blanks every key for the test; getEnv treats empty as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, int64(15<<20), cfg.MaxUploadBytes)
	assert.Equal(t, llm.Credentials{Provider: llm.ProviderOpenAI, Model: "gpt-4o-mini"}, cfg.AI.Credentials())
	assert.Equal(t, 180*time.Second, cfg.AI.Timeout())
	assert.Equal(t, "resume_events", cfg.AMQP.Exchange)
	assert.Equal(t, 2*time.Second, cfg.ReadyTimeout())
	assert.Equal(t, 10, cfg.Postgres.MaxConns)
	assert.Equal(t, time.Hour, cfg.Postgres.MaxConnLifetime())
	assert.Equal(t, Page{Size: 50, Max: 200}, cfg.Page)
}

func TestLoadPoolAndPageSettings(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
postgres:
  max_conns: 25
page:
  size: 20
  max: 100
`), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("MAX_PAGE_SIZE", "500")
	t.Setenv("DB_MIN_CONNS", "2")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Postgres.MaxConns)
	assert.Equal(t, 2, cfg.Postgres.MinConns)
	assert.Equal(t, 60, cfg.Postgres.MaxConnLifetimeMinutes)
	assert.Equal(t, Page{Size: 20, Max: 500}, cfg.Page)
}

func TestLoadLegacyOpenAIVariables(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-legacy")
	t.Setenv("OPENAI_MODEL", "gpt-4.1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-legacy", cfg.AI.APIKey)
	assert.Equal(t, "gpt-4.1", cfg.AI.Model)

	t.Setenv("AI_API_KEY", "sk-new")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-new", cfg.AI.APIKey)
}

func TestLoadYAMLThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9090"
database_url: postgres://localhost/resumes
ai:
  provider: gemini
  model: gemini-2.5-flash
  api_key: from-file
s3:
  bucket: uploads
`), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("AI_API_KEY", "from-env")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "postgres://localhost/resumes", cfg.DatabaseURL)
	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.Equal(t, "from-env", cfg.AI.APIKey)
	assert.Equal(t, 180, cfg.AI.TimeoutSeconds)
	assert.Equal(t, "uploads", cfg.S3.Bucket)
}

func TestLoadBadFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: [unclosed"), 0o600))
	t.Setenv("CONFIG_FILE", path)
	_, err = Load()
	assert.Error(t, err)
}
