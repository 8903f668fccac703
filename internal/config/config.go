// Package config loads hdfscli settings from YAML files and WEBHDFS_*
// environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

// Configuration is the complete client configuration.
type Configuration struct {
	Gateway GatewayConfig `yaml:"gateway"`
	HTTP    HTTPConfig    `yaml:"http"`
	Log     LogConfig     `yaml:"log"`
	Local   LocalConfig   `yaml:"local"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// GatewayConfig identifies the WebHDFS gateway and the acting user.
type GatewayConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	User string `yaml:"user"`
}

// HTTPConfig bounds gateway requests.
type HTTPConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// LogConfig selects level and output format.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// LocalConfig sets the initial local working directory.
type LocalConfig struct {
	Dir string `yaml:"dir"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// NewDefault returns the configuration used when nothing is overridden.
func NewDefault() *Configuration {
	return &Configuration{
		Gateway: GatewayConfig{
			Host: "localhost",
			Port: 9870,
			User: "hdfs",
		},
		HTTP: HTTPConfig{
			Timeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Local: LocalConfig{
			Dir: ".",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    ":9102",
		},
	}
}

// LoadFromFile loads configuration from a YAML file. Keys absent from the
// file keep their current values.
func (c *Configuration) LoadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// LoadFromEnv overrides settings from WEBHDFS_* variables.
func (c *Configuration) LoadFromEnv() error {
	if val := os.Getenv("WEBHDFS_HOST"); val != "" {
		c.Gateway.Host = val
	}
	if val := os.Getenv("WEBHDFS_PORT"); val != "" {
		port, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid WEBHDFS_PORT %q: %w", val, err)
		}
		c.Gateway.Port = port
	}
	if val := os.Getenv("WEBHDFS_USER"); val != "" {
		c.Gateway.User = val
	}
	if val := os.Getenv("WEBHDFS_TIMEOUT"); val != "" {
		timeout, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("invalid WEBHDFS_TIMEOUT %q: %w", val, err)
		}
		c.HTTP.Timeout = timeout
	}
	if val := os.Getenv("WEBHDFS_LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}

	return nil
}

// SaveToFile writes the configuration as YAML, creating parent directories.
func (c *Configuration) SaveToFile(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(filename, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Configuration) Validate() error {
	if strings.TrimSpace(c.Gateway.Host) == "" {
		return fmt.Errorf("gateway.host is required")
	}
	if c.Gateway.Port <= 0 || c.Gateway.Port > 65535 {
		return fmt.Errorf("gateway.port must be between 1 and 65535, got %d", c.Gateway.Port)
	}
	if strings.TrimSpace(c.Gateway.User) == "" {
		return fmt.Errorf("gateway.user is required")
	}
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be greater than 0")
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, strings.ToLower(c.Log.Level)) {
		return fmt.Errorf("invalid log.level: %s (must be one of: %s)",
			c.Log.Level, strings.Join(validLevels, ", "))
	}
	validFormats := []string{"text", "json"}
	if !contains(validFormats, strings.ToLower(c.Log.Format)) {
		return fmt.Errorf("invalid log.format: %s (must be one of: %s)",
			c.Log.Format, strings.Join(validFormats, ", "))
	}

	if c.Metrics.Enabled && strings.TrimSpace(c.Metrics.Addr) == "" {
		return fmt.Errorf("metrics.addr is required when metrics are enabled")
	}

	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
