package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewDefault(t *testing.T) {
	cfg := NewDefault()

	if cfg.Gateway.Host != "localhost" || cfg.Gateway.Port != 9870 || cfg.Gateway.User != "hdfs" {
		t.Errorf("unexpected gateway defaults: %+v", cfg.Gateway)
	}
	if cfg.HTTP.Timeout != 30*time.Second {
		t.Errorf("Expected timeout 30s, got %v", cfg.HTTP.Timeout)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("unexpected log defaults: %+v", cfg.Log)
	}
	if cfg.Metrics.Enabled {
		t.Error("Expected metrics to be disabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "webhdfs.yaml")
	content := `
gateway:
  host: namenode.internal
  port: 50070
http:
  timeout: 5s
log:
  level: debug
  format: json
metrics:
  enabled: true
  addr: ":9200"
`
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg := NewDefault()
	if err := cfg.LoadFromFile(file); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}

	if cfg.Gateway.Host != "namenode.internal" || cfg.Gateway.Port != 50070 {
		t.Errorf("unexpected gateway: %+v", cfg.Gateway)
	}
	// Keys missing from the file keep their defaults.
	if cfg.Gateway.User != "hdfs" {
		t.Errorf("Expected default user, got %s", cfg.Gateway.User)
	}
	if cfg.HTTP.Timeout != 5*time.Second {
		t.Errorf("Expected timeout 5s, got %v", cfg.HTTP.Timeout)
	}
	if cfg.Log.Format != "json" || !cfg.Metrics.Enabled || cfg.Metrics.Addr != ":9200" {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestLoadFromFileErrors(t *testing.T) {
	cfg := NewDefault()
	if err := cfg.LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	file := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(file, []byte("gateway: [unclosed"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := cfg.LoadFromFile(file); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("WEBHDFS_HOST", "env-host")
	t.Setenv("WEBHDFS_PORT", "14000")
	t.Setenv("WEBHDFS_USER", "etl")
	t.Setenv("WEBHDFS_TIMEOUT", "2m")
	t.Setenv("WEBHDFS_LOG_LEVEL", "warn")

	cfg := NewDefault()
	if err := cfg.LoadFromEnv(); err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	if cfg.Gateway != (GatewayConfig{Host: "env-host", Port: 14000, User: "etl"}) {
		t.Errorf("unexpected gateway: %+v", cfg.Gateway)
	}
	if cfg.HTTP.Timeout != 2*time.Minute {
		t.Errorf("Expected timeout 2m, got %v", cfg.HTTP.Timeout)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Expected warn, got %s", cfg.Log.Level)
	}
}

func TestLoadFromEnvRejectsBadValues(t *testing.T) {
	t.Setenv("WEBHDFS_PORT", "http")
	if err := NewDefault().LoadFromEnv(); err == nil {
		t.Error("expected error for bad port")
	}

	t.Setenv("WEBHDFS_PORT", "")
	t.Setenv("WEBHDFS_TIMEOUT", "soon")
	if err := NewDefault().LoadFromEnv(); err == nil {
		t.Error("expected error for bad timeout")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Configuration)
	}{
		{"empty host", func(c *Configuration) { c.Gateway.Host = "" }},
		{"bad port", func(c *Configuration) { c.Gateway.Port = 0 }},
		{"empty user", func(c *Configuration) { c.Gateway.User = " " }},
		{"zero timeout", func(c *Configuration) { c.HTTP.Timeout = 0 }},
		{"bad level", func(c *Configuration) { c.Log.Level = "verbose" }},
		{"bad format", func(c *Configuration) { c.Log.Format = "xml" }},
		{"metrics without addr", func(c *Configuration) { c.Metrics.Enabled = true; c.Metrics.Addr = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefault()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSaveToFileRoundTrip(t *testing.T) {
	file := filepath.Join(t.TempDir(), "nested", "webhdfs.yaml")
	cfg := NewDefault()
	cfg.Gateway.Host = "saved"

	if err := cfg.SaveToFile(file); err != nil {
		t.Fatalf("SaveToFile: %v", err)
	}
	loaded := NewDefault()
	if err := loaded.LoadFromFile(file); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if loaded.Gateway.Host != "saved" || loaded.HTTP.Timeout != cfg.HTTP.Timeout {
		t.Errorf("unexpected round trip: %+v", loaded)
	}
}
