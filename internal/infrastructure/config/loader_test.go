package config

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestLoadWritesDefaultOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	loader := NewFileLoader(path)

	cfg, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config not written: %v", err)
	}
	if cfg.Preferences.DefaultModel != "gpt-3.5-turbo" {
		t.Errorf("DefaultModel = %q", cfg.Preferences.DefaultModel)
	}
	if cfg.Preferences.MaxAttempts != 2 {
		t.Errorf("MaxAttempts = %d, want 2", cfg.Preferences.MaxAttempts)
	}
	if cfg.Endpoints["ollama"] != "http://localhost:11434" {
		t.Errorf("ollama endpoint = %q", cfg.Endpoints["ollama"])
	}
}

func TestLoadCreatesPrivateStateDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits")
	}
	dir := filepath.Join(t.TempDir(), ".chatcmd")
	if _, err := NewFileLoader(filepath.Join(dir, "config.yaml")).Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// The directory also holds the credential vault and its key file, so no
	// group or world bits may be set.
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("stat state dir: %v", err)
	}
	if perm := info.Mode().Perm(); perm&0o077 != 0 {
		t.Errorf("state dir mode = %o, want no group/world access", perm)
	}
}

func TestLoadHydratesPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	partial := []byte("preferences:\n  default_model: claude-3-haiku\n")
	if err := os.WriteFile(path, partial, 0o600); err != nil {
		t.Fatalf("write partial config: %v", err)
	}

	cfg, err := NewFileLoader(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Preferences.DefaultModel != "claude-3-haiku" {
		t.Errorf("DefaultModel = %q, user choice lost", cfg.Preferences.DefaultModel)
	}
	if cfg.Preferences.TimeoutSeconds != 10 || cfg.Preferences.BackoffMS != 500 {
		t.Errorf("defaults not hydrated: %+v", cfg.Preferences)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("preferences: [not a map"), 0o600); err != nil {
		t.Fatalf("write malformed config: %v", err)
	}
	if _, err := NewFileLoader(path).Load(context.Background()); err == nil {
		t.Fatal("malformed config loaded without error")
	}
}
