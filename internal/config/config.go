// Package config loads the twostage configuration from the environment.
package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

// Prefix of every environment variable, e.g. TWOSTAGE_PIPELINE_CAPACITY.
const Prefix = "twostage"

const (
	FormatText = "text"
	FormatJSON = "json"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all application configuration.
type Config struct {
	Pipeline PipelineConfig
	Logging  LogConfig
	Output   OutputConfig
}

// PipelineConfig holds the pipeline tuning.
type PipelineConfig struct {
	StageDelay time.Duration `envconfig:"STAGE_DELAY" default:"5s"`
	// Capacity of the stage queues, -1 for unbounded.
	Capacity int    `envconfig:"CAPACITY" default:"-1"`
	Sentinel string `envconfig:"SENTINEL" default:"done"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LEVEL" default:"info"`
	Development bool   `envconfig:"DEV" default:"false"`
}

// OutputConfig holds how the records are written.
type OutputConfig struct {
	Format string `envconfig:"FORMAT" default:"text"`
	// DOT is the path of the stage graph file, empty to skip it.
	DOT string `envconfig:"DOT"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	err := envconfig.Process(Prefix, &cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			StageDelay: 5 * time.Second,
			Capacity:   -1,
			Sentinel:   "done",
		},
		Logging: LogConfig{
			Level: "info",
		},
		Output: OutputConfig{
			Format: FormatText,
		},
	}
}

// Validate checks the values that envconfig cannot.
func (c *Config) Validate() error {
	switch {
	case c.Pipeline.StageDelay < 0:
		return errors.Wrapf(ErrInvalidConfig, "stage delay %s is negative", c.Pipeline.StageDelay)
	case c.Pipeline.Capacity < -1:
		return errors.Wrapf(ErrInvalidConfig, "capacity %d is below -1", c.Pipeline.Capacity)
	case c.Pipeline.Sentinel == "":
		return errors.Wrap(ErrInvalidConfig, "sentinel must not be empty")
	case c.Output.Format != FormatText && c.Output.Format != FormatJSON:
		return errors.Wrapf(ErrInvalidConfig, "unknown output format %q", c.Output.Format)
	}

	return nil
}
