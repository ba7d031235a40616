package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 40, cfg.Scrape.Iterations)
	assert.Equal(t, 5*time.Second, cfg.Scrape.MinSleep)
	assert.Equal(t, 15*time.Second, cfg.Scrape.MaxSleep)
	assert.Equal(t, "all_recommendations.json", cfg.Scrape.OutputFile)
	assert.Equal(t, "assets/prompts.json", cfg.Scrape.QuestionsFile)
	assert.Equal(t, "ios", cfg.Hinge.Platform)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Logging.Level)

	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
hinge:
  bearer_token: file-token
  session_id: file-session
  platform: android
scrape:
  iterations: 7
  output_file: custom.json
server:
  addr: ":9090"
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, "file-token", cfg.Hinge.BearerToken)
	assert.Equal(t, "android", cfg.Hinge.Platform)
	assert.Equal(t, 7, cfg.Scrape.Iterations)
	assert.Equal(t, "custom.json", cfg.Scrape.OutputFile)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Untouched fields keep their defaults.
	assert.Equal(t, 5*time.Second, cfg.Scrape.MinSleep)
}

func TestLoadFromFileErrors(t *testing.T) {
	t.Run("missing explicit file", func(t *testing.T) {
		cfg := DefaultConfig()
		assert.Error(t, cfg.LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")))
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("hinge: [not a map"), 0600))

		cfg := DefaultConfig()
		assert.Error(t, cfg.LoadFromFile(path))
	})
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HINGE_BEARER_TOKEN", "env-token")
	t.Setenv("HINGE_SESSION_ID", "env-session")
	t.Setenv("HINGE_USER_ID", "env-user")
	t.Setenv("HINGE_SCRAPE_ITERATIONS", "3")
	t.Setenv("HINGE_SERVER_ADDR", ":7070")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "env-token", cfg.Hinge.BearerToken)
	assert.Equal(t, "env-session", cfg.Hinge.SessionID)
	assert.Equal(t, "env-user", cfg.Hinge.UserID)
	assert.Equal(t, 3, cfg.Scrape.Iterations)
	assert.Equal(t, ":7070", cfg.Server.Addr)
}

func TestLoadFromEnvIgnoresInvalidIterations(t *testing.T) {
	t.Setenv("HINGE_SCRAPE_ITERATIONS", "not-a-number")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())
	assert.Equal(t, 40, cfg.Scrape.Iterations)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("hinge:\n  bearer_token: file-token\n"), 0600))

	t.Setenv("HINGE_BEARER_TOKEN", "env-token")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Hinge.BearerToken)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"zero iterations", func(c *Config) { c.Scrape.Iterations = 0 }, true},
		{"negative sleep", func(c *Config) { c.Scrape.MinSleep = -time.Second }, true},
		{"max below min", func(c *Config) {
			c.Scrape.MinSleep = 10 * time.Second
			c.Scrape.MaxSleep = 5 * time.Second
		}, true},
		{"missing output file", func(c *Config) { c.Scrape.OutputFile = "" }, true},
		{"missing questions file", func(c *Config) { c.Scrape.QuestionsFile = "" }, true},
		{"unknown platform", func(c *Config) { c.Hinge.Platform = "windows-phone" }, true},
		{"android platform", func(c *Config) { c.Hinge.Platform = "android" }, false},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateCredentials(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, cfg.ValidateCredentials())

	cfg.Hinge.BearerToken = "token"
	cfg.Hinge.SessionID = "session"
	cfg.Hinge.UserID = "user"
	assert.NoError(t, cfg.ValidateCredentials())
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Hinge.BearerToken = "saved-token"
	cfg.Scrape.Iterations = 12
	require.NoError(t, cfg.Save(path))

	reloaded := DefaultConfig()
	require.NoError(t, reloaded.LoadFromFile(path))
	assert.Equal(t, "saved-token", reloaded.Hinge.BearerToken)
	assert.Equal(t, 12, reloaded.Scrape.Iterations)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}
