package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
ListenAddress = "0.0.0.0:8080"
RetentionSeconds =3600
StaticDir = "./web/build"
HistoryTimeZone = "Europe/Bucharest"

[CloudWatch]
    DefaultRegion = "eu-west-1"
    UserPoolID = "eu-west-1_AbCdEf"
    CacheTTLInSeconds = 300
    RefreshIntervalInSeconds = 600
`

func expectedConfig() Config {
	return Config{
		ListenAddress:    "0.0.0.0:8080",
		RetentionSeconds: 3600,
		StaticDir:        "./web/build",
		HistoryTimeZone:  "Europe/Bucharest",
		CloudWatch: CloudWatchConfig{
			DefaultRegion:            "eu-west-1",
			UserPoolID:               "eu-west-1_AbCdEf",
			CacheTTLInSeconds:        300,
			RefreshIntervalInSeconds: 600,
		},
	}
}

func TestConfig(t *testing.T) {
	t.Parallel()

	cfg := Config{}

	err := toml.Unmarshal([]byte(testConfig), &cfg)
	assert.Nil(t, err)
	assert.Equal(t, expectedConfig(), cfg)
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("missing file should error", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "failed to read config file")
	})
	t.Run("invalid contents should error", func(t *testing.T) {
		t.Parallel()

		file := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(file, []byte("ListenAddress = "), 0644))

		cfg, err := LoadConfig(file)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "failed to decode config file")
	})
	t.Run("should work", func(t *testing.T) {
		t.Parallel()

		file := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(file, []byte(testConfig), 0644))

		cfg, err := LoadConfig(file)
		require.NoError(t, err)
		assert.Equal(t, expectedConfig(), *cfg)
	})
}
