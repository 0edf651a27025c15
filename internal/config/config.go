package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every environment variable, e.g. FOLDERTIME_AW_URL.
const Prefix = "FOLDERTIME"

// Config holds all application configuration.
type Config struct {
	ActivityWatch ActivityWatchConfig `envconfig:"AW"`
	Store         StoreConfig         `envconfig:"DB"`
	Logging       LogConfig           `envconfig:"LOG"`
	Analysis      AnalysisConfig      `envconfig:"ANALYSIS"`
}

// ActivityWatchConfig holds the event source connection settings.
type ActivityWatchConfig struct {
	URL     string        `default:"http://localhost:5600"`
	Timeout time.Duration `default:"30s"`
	Retries int           `default:"2"`
}

// StoreConfig holds the local cache location. An empty path means the
// default under the user's config directory.
//
// Leaf keys are derived from field names: an explicit envconfig tag would make
// envconfig fall back to the unprefixed variable ($PATH, $HOME).
type StoreConfig struct {
	Path string
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `default:"warn"`
	Dev   bool   `default:"false"`
}

// AnalysisConfig holds folder attribution settings.
type AnalysisConfig struct {
	IncludeWeb bool `split_words:"true" default:"false"`
	Home       string
	Cache      bool `default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		ActivityWatch: ActivityWatchConfig{
			URL:     "http://localhost:5600",
			Timeout: 30 * time.Second,
			Retries: 2,
		},
		Logging: LogConfig{
			Level: "warn",
		},
		Analysis: AnalysisConfig{
			Cache: true,
		},
	}
}
