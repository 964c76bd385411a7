package config

import (
	"fmt"
	"time"

	"go.uber.org/zap/zapcore"
)

const (
	// DefaultListenAddr matches the port the application has always been reachable on.
	DefaultListenAddr = "0.0.0.0:5000"
	// DefaultMetadataTimeout bounds a single identity document fetch.
	DefaultMetadataTimeout = 2 * time.Second
	// DefaultLogLevel is the zap level used when none is configured.
	DefaultLogLevel = "info"
)

// ServerConfig configures the metadata HTTP service.
type ServerConfig struct {
	Listen           string        `yaml:"listen"`
	MetadataTimeout  time.Duration `yaml:"metadata_timeout"`
	MetadataEndpoint string        `yaml:"metadata_endpoint,omitempty"` // empty = SDK default
	LogLevel         string        `yaml:"log_level"`
}

// NewServerConfig returns a ServerConfig with defaults.
func NewServerConfig() *ServerConfig {
	return &ServerConfig{
		Listen:          DefaultListenAddr,
		MetadataTimeout: DefaultMetadataTimeout,
		LogLevel:        DefaultLogLevel,
	}
}

// LoadServerConfig loads the server configuration from path.
// A missing file returns defaults.
func LoadServerConfig(path string) (*ServerConfig, error) {
	cfg := NewServerConfig()
	if path == "" {
		return cfg, nil
	}

	if _, err := readYAML(path, cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *ServerConfig) applyDefaults() {
	if c.Listen == "" {
		c.Listen = DefaultListenAddr
	}
	if c.MetadataTimeout == 0 {
		c.MetadataTimeout = DefaultMetadataTimeout
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

// Validate checks the server configuration.
func (c *ServerConfig) Validate() error {
	if c.MetadataTimeout < 0 {
		return fmt.Errorf("metadata_timeout must be positive, got %s", c.MetadataTimeout)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel into a zap level.
func (c *ServerConfig) Level() (zapcore.Level, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
