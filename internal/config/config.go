package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-md2hatena/internal/atompub"
	"github.com/alnah/go-md2hatena/internal/fileutil"
	"github.com/alnah/go-md2hatena/internal/logger"
	"github.com/alnah/go-md2hatena/internal/pipeline"
	"github.com/alnah/go-md2hatena/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidEndpoint = errors.New("invalid root endpoint")
	ErrUnknownTheme    = errors.New("unknown theme")
	ErrInvalidValue    = errors.New("invalid value")
)

// Field length limits.
const (
	MaxURLLength    = 2048 // Browser limit
	MaxAPIKeyLength = 256
	MaxPathLength   = 4096
)

// Timeout bounds.
const (
	MinTimeout = time.Second
	MaxTimeout = 10 * time.Minute
)

// dirName is the per-user config directory under os.UserConfigDir.
const dirName = "go-md2hatena"

// Config holds all configuration for publishing.
type Config struct {
	Hatena HatenaConfig `yaml:"hatena"`
	Render RenderConfig `yaml:"render"`
	Post   PostConfig   `yaml:"post"`
	Assets AssetsConfig `yaml:"assets"`
	Log    LogConfig    `yaml:"log"`
}

// HatenaConfig defines the blog account.
type HatenaConfig struct {
	RootEndpoint string        `yaml:"rootEndpoint"` // https://blog.hatena.ne.jp/<user>/<blog>/atom
	APIKey       string        `yaml:"apiKey"`
	Timeout      time.Duration `yaml:"timeout"` // 0 = atompub.DefaultTimeout
}

// RenderConfig defines rendering options.
type RenderConfig struct {
	Theme string `yaml:"theme"` // empty = pipeline.DefaultTheme
}

// PostConfig defines publishing defaults.
type PostConfig struct {
	DefaultDraft bool   `yaml:"defaultDraft"`
	ImageRoot    string `yaml:"imageRoot"` // second lookup root for ![[embeds]]
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// LogConfig defines logging options.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// UserID returns the account name encoded in the root endpoint.
func (c *Config) UserID() (string, error) {
	id, err := atompub.UserID(c.Hatena.RootEndpoint)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidEndpoint, err)
	}
	return id, nil
}

// ThemeOrDefault returns the configured theme or the pipeline default.
func (c *Config) ThemeOrDefault() string {
	if c.Render.Theme == "" {
		return pipeline.DefaultTheme
	}
	return c.Render.Theme
}

// Validate checks field values. Credentials may be absent here; they are
// required only when publishing.
// Called automatically by LoadConfig, but available for callers that
// build a Config from flags and environment.
func (c *Config) Validate() error {
	if err := validateFieldLength("hatena.rootEndpoint", c.Hatena.RootEndpoint, MaxURLLength); err != nil {
		return err
	}
	if err := validateFieldLength("hatena.apiKey", c.Hatena.APIKey, MaxAPIKeyLength); err != nil {
		return err
	}
	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("post.imageRoot", c.Post.ImageRoot, MaxPathLength); err != nil {
		return err
	}

	if c.Hatena.RootEndpoint != "" {
		if !strings.HasPrefix(c.Hatena.RootEndpoint, "https://") && !strings.HasPrefix(c.Hatena.RootEndpoint, "http://") {
			return fmt.Errorf("%w: hatena.rootEndpoint must be an http(s) URL, got %q", ErrInvalidEndpoint, c.Hatena.RootEndpoint)
		}
		if _, err := c.UserID(); err != nil {
			return fmt.Errorf("hatena.rootEndpoint: %w", err)
		}
	}

	if c.Hatena.Timeout != 0 && (c.Hatena.Timeout < MinTimeout || c.Hatena.Timeout > MaxTimeout) {
		return fmt.Errorf("%w: hatena.timeout must be between %s and %s, got %s",
			ErrInvalidValue, MinTimeout, MaxTimeout, c.Hatena.Timeout)
	}

	if c.Render.Theme != "" && !pipeline.IsTheme(c.Render.Theme) {
		return fmt.Errorf("%w: render.theme %q (available: %s)",
			ErrUnknownTheme, c.Render.Theme, strings.Join(pipeline.Themes(), ", "))
	}

	if c.Log.Level != "" {
		if _, err := logger.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("%w: log.level: %v", ErrInvalidValue, err)
		}
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Render: RenderConfig{Theme: pipeline.DefaultTheme},
		Post:   PostConfig{DefaultDraft: true},
		Log:    LogConfig{Level: logger.DefaultLevel},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-md2hatena/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, dirName, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
