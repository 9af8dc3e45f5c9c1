package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir())
	if err != nil {
		t.Fatalf("expected no error loading defaults, got %v", err)
	}

	if cfg.Log.Level != "info" {
		t.Errorf("expected default log level 'info', got %s", cfg.Log.Level)
	}
	if cfg.Output.Format != FormatText {
		t.Errorf("expected default format 'text', got %s", cfg.Output.Format)
	}
	if cfg.Hooks.Workers != 4 {
		t.Errorf("expected default workers 4, got %d", cfg.Hooks.Workers)
	}
	if cfg.Hooks.QueueSize != 100 {
		t.Errorf("expected default queue size 100, got %d", cfg.Hooks.QueueSize)
	}
}

func TestLoadFrom_ConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := `log:
  level: debug
  development: true
output:
  format: JSON
hooks:
  workers: 8
`
	if err := os.WriteFile(filepath.Join(tmpDir, "assetrefs.yml"), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFrom(tmpDir)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Log.Level != "debug" || !cfg.Log.Development {
		t.Errorf("unexpected log config: %+v", cfg.Log)
	}
	if cfg.Output.Format != FormatJSON {
		t.Errorf("expected format to be normalized to 'json', got %s", cfg.Output.Format)
	}
	if cfg.Hooks.Workers != 8 {
		t.Errorf("expected 8 workers, got %d", cfg.Hooks.Workers)
	}
	if cfg.Hooks.QueueSize != 100 {
		t.Errorf("expected default queue size to survive, got %d", cfg.Hooks.QueueSize)
	}
}

func TestLoadFrom_EnvOverride(t *testing.T) {
	t.Setenv("ASSETREFS_LOG_LEVEL", "warn")
	t.Setenv("ASSETREFS_OUTPUT_FORMAT", "json")

	cfg, err := LoadFrom(t.TempDir())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("expected env log level 'warn', got %s", cfg.Log.Level)
	}
	if cfg.Output.Format != FormatJSON {
		t.Errorf("expected env format 'json', got %s", cfg.Output.Format)
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown format", "output:\n  format: xml\n"},
		{"zero workers", "hooks:\n  workers: 0\n"},
		{"negative queue", "hooks:\n  queue_size: -1\n"},
		{"broken yaml", "log: [unterminated\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			if err := os.WriteFile(filepath.Join(tmpDir, "assetrefs.yaml"), []byte(tt.content), 0o644); err != nil {
				t.Fatalf("failed to write config file: %v", err)
			}
			if _, err := LoadFrom(tmpDir); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
