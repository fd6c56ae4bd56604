package config

import (
	"fmt"

	"github.com/m0dd0/FolderSync/internal/domain"
)

// Comparison policy names accepted in config and on the command line
const (
	CompareMetadata = "metadata"
	CompareContent  = "content"
)

// Config represents the complete configuration for foldersync
type Config struct {
	// Threads is the number of concurrent workers
	Threads int `mapstructure:"threads"`

	// OpsPerThread is the number of operations grouped per scheduling unit
	OpsPerThread int `mapstructure:"ops_per_thread"`

	// Compare selects the file equality policy: "metadata" or "content"
	Compare string `mapstructure:"compare"`

	// Ignore lists glob patterns excluded from both trees
	Ignore []string `mapstructure:"ignore"`

	// Logging configures the structured logger
	Logging LoggingConfig `mapstructure:"logging"`
}

// LoggingConfig configures log output
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// Default returns a configuration with documented defaults
func Default() *Config {
	return &Config{
		Threads:      domain.DefaultThreads,
		OpsPerThread: domain.DefaultOpsPerThread,
		Compare:      CompareMetadata,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks if the configuration is complete and consistent
func (c *Config) Validate() error {
	if err := c.SyncConfig().Validate(); err != nil {
		return err
	}
	switch c.Compare {
	case CompareMetadata, CompareContent:
	default:
		return fmt.Errorf("%w: unknown compare policy: %s", domain.ErrConfigInvalid, c.Compare)
	}
	return nil
}

// SyncConfig returns the pool parameters as an engine value
func (c *Config) SyncConfig() domain.SyncConfig {
	return domain.SyncConfig{
		Threads:      c.Threads,
		OpsPerThread: c.OpsPerThread,
	}
}
