// Package config loads the persisted exclusion lists, creating them from the
// bundled defaults the first time the tool runs.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"reposynth/pkg/ignore"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	// AppDir is the directory created under the user's config home.
	AppDir = "repo-synthesizer-ai-prompt"
	// FileName is the name of the settings file inside AppDir.
	FileName = "config.json"
	// PathEnv overrides the settings file location when set.
	PathEnv = "REPOSYNTH_CONFIG"
)

// ErrConfigPath is returned when the settings location cannot be determined.
var ErrConfigPath = errors.New("failed to determine config path")

//go:embed default_config.json
var defaultConfig []byte

// Config mirrors the settings file.
type Config struct {
	IgnoredFolders    []string `mapstructure:"ignored_folders" json:"ignored_folders"`
	IgnoredFiles      []string `mapstructure:"ignored_files" json:"ignored_files"`
	IgnoredExtensions []string `mapstructure:"ignored_extensions" json:"ignored_extensions"`
}

// Policy converts the stored lists into an exclusion policy.
func (c Config) Policy() ignore.Policy {
	return ignore.NewPolicy(c.IgnoredFolders, c.IgnoredFiles, c.IgnoredExtensions)
}

// Default returns the bundled default payload.
func Default() []byte {
	return append([]byte(nil), defaultConfig...)
}

// Path resolves the settings file location. REPOSYNTH_CONFIG wins over the
// XDG config home.
func Path() (string, error) {
	if p := os.Getenv(PathEnv); p != "" {
		return p, nil
	}
	p, err := xdg.ConfigFile(filepath.Join(AppDir, FileName))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrConfigPath, err)
	}
	return p, nil
}

// LoadOrCreate reads the settings file at path, writing the bundled default
// first if it does not exist yet.
func LoadOrCreate(path string, logger *zap.Logger) (Config, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			logger.Error("Failed to create config directory", zap.String("path", filepath.Dir(path)), zap.Error(err))
			return Config{}, fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := os.WriteFile(path, defaultConfig, 0o644); err != nil {
			logger.Error("Failed to write default config", zap.String("path", path), zap.Error(err))
			return Config{}, fmt.Errorf("failed to write default config: %w", err)
		}
		logger.Info("Created default config", zap.String("path", path))
	} else if err != nil {
		return Config{}, fmt.Errorf("failed to stat config file: %w", err)
	}

	return Load(path, logger)
}

// Load parses the settings file at path.
func Load(path string, logger *zap.Logger) (Config, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		logger.Error("Failed to read config", zap.String("path", path), zap.Error(err))
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		logger.Error("Failed to parse config", zap.String("path", path), zap.Error(err))
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	logger.Debug("Loaded config",
		zap.String("path", path),
		zap.Int("ignoredFolders", len(cfg.IgnoredFolders)),
		zap.Int("ignoredFiles", len(cfg.IgnoredFiles)),
		zap.Int("ignoredExtensions", len(cfg.IgnoredExtensions)))
	return cfg, nil
}
