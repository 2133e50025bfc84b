package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// CloudWatchConfig holds the metrics catalog settings
type CloudWatchConfig struct {
	DefaultRegion            string `toml:"DefaultRegion"`
	UserPoolID               string `toml:"UserPoolID"`
	CacheTTLInSeconds        int    `toml:"CacheTTLInSeconds"`
	RefreshIntervalInSeconds int    `toml:"RefreshIntervalInSeconds"`
}

// Config maps to the config.toml file for the status page service
type Config struct {
	ListenAddress    string           `toml:"ListenAddress"`
	RetentionSeconds int              `toml:"RetentionSeconds"`
	StaticDir        string           `toml:"StaticDir"`
	HistoryTimeZone  string           `toml:"HistoryTimeZone"`
	CloudWatch       CloudWatchConfig `toml:"CloudWatch"`
}

// LoadConfig parses a TOML file into the Config struct
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", filepath, err)
	}

	var cfg Config
	err = toml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	return &cfg, nil
}
