package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/amirphl/mushola/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, utils.MaxUploadSize, cfg.Upload.MaxFileSize)
	assert.Equal(t, []string{"image/jpeg", "image/png", "image/gif"}, cfg.Upload.AllowedTypes)
	assert.Equal(t, 30*time.Second, cfg.Filebase.Timeout)
	assert.Equal(t, utils.FilebaseGatewayURL, cfg.Filebase.GatewayURL)
	assert.Equal(t, []string{"*"}, cfg.Security.AllowedOrigins)
	assert.False(t, cfg.Database.Enabled)
	assert.False(t, cfg.Cache.Enabled)
	assert.True(t, cfg.IsProduction())
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("FILEBASE_API_TOKEN", "token-123")
	t.Setenv("FILEBASE_TIMEOUT", "5s")
	t.Setenv("UPLOAD_ALLOWED_TYPES", "image/png, image/gif")
	t.Setenv("APP_ENV", "development")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "token-123", cfg.Filebase.APIToken)
	assert.Equal(t, 5*time.Second, cfg.Filebase.Timeout)
	assert.Equal(t, []string{"image/png", "image/gif"}, cfg.Upload.AllowedTypes)
	assert.False(t, cfg.IsProduction())
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(cfg *Config)
		expectError string
	}{
		{
			name:   "valid defaults",
			mutate: func(cfg *Config) {},
		},
		{
			name:        "invalid port",
			mutate:      func(cfg *Config) { cfg.Server.Port = 70000 },
			expectError: "SERVER_PORT",
		},
		{
			name: "database enabled without host",
			mutate: func(cfg *Config) {
				cfg.Database.Enabled = true
				cfg.Database.Host = ""
			},
			expectError: "DB_HOST",
		},
		{
			name: "body limit below upload cap",
			mutate: func(cfg *Config) {
				cfg.Server.BodyLimit = 1024
			},
			expectError: "SERVER_BODY_LIMIT",
		},
		{
			name:        "invalid log level",
			mutate:      func(cfg *Config) { cfg.Logging.Level = "verbose" },
			expectError: "LOG_LEVEL",
		},
		{
			name:        "non-positive timeout",
			mutate:      func(cfg *Config) { cfg.Filebase.Timeout = 0 },
			expectError: "FILEBASE_TIMEOUT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig()
			require.NoError(t, err)

			tt.mutate(cfg)
			err = ValidateConfig(cfg)
			if tt.expectError == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "# comment\nMUSHOLA_TEST_A=\"quoted\"\nMUSHOLA_TEST_B = plain\ninvalid line\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("MUSHOLA_TEST_A", "")
	t.Setenv("MUSHOLA_TEST_B", "")
	require.NoError(t, loadEnvFile(path))

	assert.Equal(t, "quoted", os.Getenv("MUSHOLA_TEST_A"))
	assert.Equal(t, "plain", os.Getenv("MUSHOLA_TEST_B"))
}

func TestLoadEnvFileMissing(t *testing.T) {
	assert.NoError(t, loadEnvFile(filepath.Join(t.TempDir(), "missing.env")))
}
