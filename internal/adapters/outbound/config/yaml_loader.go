// Package config loads the engine configuration from .cadmod.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cadmod/cadmod/internal/domain"
)

const fileName = ".cadmod.yaml"

// YAMLLoader implements domain.ConfigLoader by reading .cadmod.yaml.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads .cadmod.yaml from projectPath. Returns DefaultConfig if
// the file does not exist. A malformed or invalid file is a fatal
// configuration error: the run must not start from it.
func (l *YAMLLoader) Load(projectPath string) (domain.EngineConfig, error) {
	data, err := os.ReadFile(filepath.Join(projectPath, fileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.DefaultConfig(), nil
		}
		return domain.EngineConfig{}, err
	}

	cfg := domain.DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.EngineConfig{}, fmt.Errorf("parsing %s: %w", fileName, err)
	}

	if err := cfg.Validate(); err != nil {
		return domain.EngineConfig{}, fmt.Errorf("invalid %s: %w", fileName, err)
	}
	return cfg, nil
}
