package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  port: 9090
  host: "0.0.0.0"

tracking:
  base_url: "https://phish.example.com/track"
  secret_key: "a-test-secret-key-long-enough"

storage:
  type: "file"
  path: "./test-data/campaigns.json"

redis:
  enabled: true
  addr: "redis:6379"

quiz:
  questions_per_quiz: 3

logging:
  level: "debug"
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "https://phish.example.com/track", cfg.Tracking.BaseURL)
	assert.Equal(t, "file", cfg.Storage.Type)
	assert.Equal(t, "./test-data/campaigns.json", cfg.Storage.Path)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 3, cfg.Quiz.QuestionsPerQuiz)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("tracking:\n  secret_key: x\n"), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, "http://localhost:8080/track", cfg.Tracking.BaseURL)
	assert.Equal(t, "file", cfg.Storage.Type)
	assert.Equal(t, "data/campaigns.json", cfg.Storage.Path)
	assert.Equal(t, 5, cfg.Quiz.QuestionsPerQuiz)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("TRACKING_SECRET_KEY", "env-secret-key-long-enough")
	t.Setenv("PORT", "3000")
	t.Setenv("DATABASE_URL", "postgres://localhost/phish")
	t.Setenv("REDIS_ADDR", "envredis:6379")

	cfg, err := LoadFromEnv("")
	require.NoError(t, err)

	assert.Equal(t, "env-secret-key-long-enough", cfg.Tracking.SecretKey)
	assert.Equal(t, 3000, cfg.Server.Port)
	// DATABASE_URL flips the backend when storage type isn't pinned.
	assert.Equal(t, "postgres", cfg.Storage.Type)
	assert.Equal(t, "postgres://localhost/phish", cfg.Storage.DatabaseURL)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "envredis:6379", cfg.Redis.Addr)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		c := &Config{}
		c.applyDefaults()
		c.Tracking.SecretKey = "a-test-secret-key-long-enough"
		return c
	}

	t.Run("valid file config", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("missing secret", func(t *testing.T) {
		c := base()
		c.Tracking.SecretKey = ""
		assert.Error(t, c.Validate())
	})

	t.Run("short secret", func(t *testing.T) {
		c := base()
		c.Tracking.SecretKey = "short"
		assert.Error(t, c.Validate())
	})

	t.Run("postgres without url", func(t *testing.T) {
		c := base()
		c.Storage.Type = "postgres"
		assert.Error(t, c.Validate())
	})

	t.Run("unknown storage type", func(t *testing.T) {
		c := base()
		c.Storage.Type = "s3"
		assert.Error(t, c.Validate())
	})
}
