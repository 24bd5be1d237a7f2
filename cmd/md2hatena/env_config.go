package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/alnah/go-md2hatena/internal/config"
	"github.com/alnah/go-md2hatena/internal/fileutil"
)

// envPrefix starts every variable the CLI reads.
const envPrefix = "MD2HATENA_"

// dotEnvFiles are loaded from the working directory, most specific first.
// godotenv never overrides a variable that is already set, so the first
// file to define a key wins and the real environment beats both.
var dotEnvFiles = []string{".env.local", ".env"}

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath   string        // MD2HATENA_CONFIG: config file name or path
	RootEndpoint string        // MD2HATENA_ROOT_ENDPOINT: AtomPub root
	APIKey       string        // MD2HATENA_API_KEY: AtomPub API key
	Theme        string        // MD2HATENA_THEME: highlighting theme
	DefaultDraft *bool         // MD2HATENA_DEFAULT_DRAFT: draft when the post does not say
	LogLevel     string        // MD2HATENA_LOG_LEVEL: debug, info, warn, error
	Timeout      time.Duration // MD2HATENA_TIMEOUT: per-request timeout
	ImageRoot    string        // MD2HATENA_IMAGE_ROOT: second root for image embeds
	Workers      int           // MD2HATENA_WORKERS: render workers
}

// knownEnvVars lists valid MD2HATENA_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MD2HATENA_CONFIG":        true,
	"MD2HATENA_ROOT_ENDPOINT": true,
	"MD2HATENA_API_KEY":       true,
	"MD2HATENA_THEME":         true,
	"MD2HATENA_DEFAULT_DRAFT": true,
	"MD2HATENA_LOG_LEVEL":     true,
	"MD2HATENA_TIMEOUT":       true,
	"MD2HATENA_IMAGE_ROOT":    true,
	"MD2HATENA_WORKERS":       true,
}

// loadDotEnv loads the .env files found in dir into the process
// environment.
func loadDotEnv(dir string) error {
	for _, name := range dotEnvFiles {
		path := filepath.Join(dir, name)
		if !fileutil.FileExists(path) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("%w: %s: %v", config.ErrConfigParse, path, err)
		}
	}
	return nil
}

// loadEnvConfig reads configuration from environment variables.
// Malformed booleans, durations and counts are errors rather than being
// silently dropped.
func loadEnvConfig() (*envConfig, error) {
	cfg := &envConfig{
		ConfigPath:   os.Getenv("MD2HATENA_CONFIG"),
		RootEndpoint: os.Getenv("MD2HATENA_ROOT_ENDPOINT"),
		APIKey:       os.Getenv("MD2HATENA_API_KEY"),
		Theme:        os.Getenv("MD2HATENA_THEME"),
		LogLevel:     os.Getenv("MD2HATENA_LOG_LEVEL"),
		ImageRoot:    os.Getenv("MD2HATENA_IMAGE_ROOT"),
	}

	if v := os.Getenv("MD2HATENA_DEFAULT_DRAFT"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%w: MD2HATENA_DEFAULT_DRAFT=%q is not a boolean", config.ErrInvalidValue, v)
		}
		cfg.DefaultDraft = &b
	}

	if v := os.Getenv("MD2HATENA_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("%w: MD2HATENA_TIMEOUT=%q is not a positive duration", config.ErrInvalidValue, v)
		}
		cfg.Timeout = d
	}

	if v := os.Getenv("MD2HATENA_WORKERS"); v != "" {
		w, err := strconv.Atoi(v)
		if err != nil || w < 0 {
			return nil, fmt.Errorf("%w: MD2HATENA_WORKERS=%q", ErrInvalidWorkerCount, v)
		}
		cfg.Workers = w
	}

	return cfg, nil
}

// warnUnknownEnvVars logs warnings for unrecognized MD2HATENA_* variables.
// Helps catch typos like MD2HATENA_APIKEY instead of MD2HATENA_API_KEY.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Set variables replace file values: CLI flags > env vars > config file > defaults
// (CLI flags are applied later by each command).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.RootEndpoint != "" {
		cfg.Hatena.RootEndpoint = env.RootEndpoint
	}
	if env.APIKey != "" {
		cfg.Hatena.APIKey = env.APIKey
	}
	if env.Timeout > 0 {
		cfg.Hatena.Timeout = env.Timeout
	}
	if env.Theme != "" {
		cfg.Render.Theme = env.Theme
	}
	if env.DefaultDraft != nil {
		cfg.Post.DefaultDraft = *env.DefaultDraft
	}
	if env.ImageRoot != "" {
		cfg.Post.ImageRoot = env.ImageRoot
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
}
