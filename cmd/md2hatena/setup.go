package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	md2hatena "github.com/alnah/go-md2hatena"
	"github.com/alnah/go-md2hatena/internal/assets"
	"github.com/alnah/go-md2hatena/internal/atompub"
	"github.com/alnah/go-md2hatena/internal/config"
	"github.com/alnah/go-md2hatena/internal/hints"
	"github.com/alnah/go-md2hatena/internal/logger"
	"github.com/alnah/go-md2hatena/internal/pipeline"
)

// loadConfig resolves configuration from the config file, the environment
// and the common flags, in increasing priority.
func loadConfig(common *commonFlags, env *Environment) (*config.Config, *envConfig, error) {
	envCfg, err := loadEnvConfig()
	if err != nil {
		return nil, nil, err
	}
	warnUnknownEnvVars(env.Stderr)

	name := common.config
	if name == "" {
		name = envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		cfg, err = config.LoadConfig(name)
		if err != nil {
			return nil, nil, err
		}
	}

	applyEnvConfig(envCfg, cfg)
	if common.theme != "" {
		cfg.Render.Theme = common.theme
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, envCfg, nil
}

// newLogger builds the CLI logger. --verbose and --quiet override the
// configured level.
func newLogger(cfg *config.Config, common *commonFlags, w io.Writer) (logger.Logger, error) {
	level := cfg.Log.Level
	switch {
	case common.verbose:
		level = logger.LevelDebug
	case common.quiet:
		level = logger.LevelError
	}
	return logger.New(logger.Config{Level: level, Output: w})
}

// newPublisher builds a Publisher from resolved configuration.
func newPublisher(cfg *config.Config, log logger.Logger, env *Environment) (*md2hatena.Publisher, error) {
	opts := []md2hatena.Option{
		md2hatena.WithCredentials(cfg.Hatena.RootEndpoint, cfg.Hatena.APIKey),
		md2hatena.WithTheme(cfg.ThemeOrDefault()),
		md2hatena.WithDefaultDraft(cfg.Post.DefaultDraft),
		md2hatena.WithImageRoot(cfg.Post.ImageRoot),
		md2hatena.WithLogger(log),
	}
	if cfg.Hatena.Timeout > 0 {
		opts = append(opts, md2hatena.WithTimeout(cfg.Hatena.Timeout))
	}
	if cfg.Assets.BasePath != "" {
		loader, err := assets.NewResolver(cfg.Assets.BasePath)
		if err != nil {
			return nil, fmt.Errorf("%w: assets.basePath: %w", md2hatena.ErrConfiguration, err)
		}
		opts = append(opts, md2hatena.WithAssetLoader(loader))
	}
	if env.Client != nil {
		opts = append(opts, md2hatena.WithClient(env.Client))
	}
	return md2hatena.New(opts...)
}

// hintFor returns an actionable suffix for err, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(nil)
	case errors.Is(err, config.ErrUnknownTheme), errors.Is(err, pipeline.ErrUnknownTheme):
		return hints.ForThemeNotFound(pipeline.Themes())
	case errors.Is(err, errMissingCredentials):
		return hints.ForMissingCredentials()
	case errors.Is(err, atompub.ErrUnauthorized):
		return hints.ForUnauthorized()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	}
	return ""
}
