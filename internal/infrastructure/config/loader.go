package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/chatcmd-go/assets"
	"github.com/doeshing/chatcmd-go/internal/domain"
	"github.com/doeshing/chatcmd-go/internal/pkg/filesystem"
	"github.com/doeshing/chatcmd-go/internal/ports"
)

// FileLoader loads YAML configuration from ~/.chatcmd/config.yaml
// (overridable via CHATCMD_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider. On first run the embedded default
// configuration is written out before being returned.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.resolvePath()
	if err := ensureConfigDir(path); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if err := os.WriteFile(path, assets.DefaultConfigYAML, 0o600); err != nil {
				return domain.Config{}, err
			}
			data = assets.DefaultConfigYAML
		} else {
			return domain.Config{}, err
		}
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, err
	}

	return hydrateDefaults(cfg), nil
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return l.overridePath
	}
	if custom := os.Getenv("CHATCMD_CONFIG"); custom != "" {
		return expandPath(custom)
	}
	return filepath.Join(ConfigDir(), "config.yaml")
}

// ConfigDir returns the application's state directory, ~/.chatcmd.
func ConfigDir() string {
	return filepath.Join(filesystem.UserHomeDir(), ".chatcmd")
}

// ensureConfigDir keeps the state directory private; it also holds the
// credential vault and its key file.
func ensureConfigDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o700)
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.ConfigFormatVersion == "" {
		cfg.ConfigFormatVersion = "1"
	}
	if cfg.Preferences.DefaultModel == "" {
		cfg.Preferences.DefaultModel = "gpt-3.5-turbo"
	}
	if cfg.Preferences.TimeoutSeconds == 0 {
		cfg.Preferences.TimeoutSeconds = 10
	}
	if cfg.Preferences.MaxAttempts == 0 {
		cfg.Preferences.MaxAttempts = 2
	}
	if cfg.Preferences.BackoffMS == 0 {
		cfg.Preferences.BackoffMS = 500
	}
	if cfg.Endpoints == nil {
		cfg.Endpoints = map[string]string{}
	}
	if cfg.Endpoints["ollama"] == "" {
		cfg.Endpoints["ollama"] = "http://localhost:11434"
	}
	return cfg
}

func expandPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if len(path) > 1 && path[:2] == "~/" {
		return filepath.Join(filesystem.UserHomeDir(), path[2:])
	}
	return filepath.Clean(path)
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
