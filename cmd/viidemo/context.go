package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"viidemo/internal/config"
	"viidemo/internal/gallery"
	"viidemo/internal/logging"
	"viidemo/internal/manifest"
	"viidemo/internal/prompttext"
)

type commandContext struct {
	configFlag *string
	debugFlag  *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string, debugFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		debugFlag:  debugFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.debugFlag != nil && *c.debugFlag {
			cfg.Logging.Debug = true
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = fmt.Errorf("init logger: %w", err)
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// loadGallery fetches the manifest, builds the gallery and waits for all
// background work. A manifest load failure is not returned as an error: it
// becomes the container's inline message, the same way the page shows it.
func loadGallery(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*gallery.Container, error) {
	base := cfg.AssetBase()
	trace := logging.NewTracer(logger, cfg.Logging.Debug)
	container := gallery.NewContainer()

	loadCtx, cancel := context.WithTimeout(ctx, cfg.ManifestTimeout())
	m, err := manifest.NewLoader(http.DefaultClient, base).Load(loadCtx, cfg.Manifest.URL)
	cancel()
	if err != nil {
		logger.Warn("manifest load failed", logging.String("url", cfg.Manifest.URL), logging.Error(err))
		container.Fail(err)
		return container, nil
	}

	resolver := prompttext.NewResolver(base,
		prompttext.WithTimeout(cfg.PromptTimeout()),
		prompttext.WithTracer(trace),
	)
	opts := []gallery.Option{
		gallery.WithLogger(logger),
		gallery.WithTracer(trace),
		gallery.WithConcurrency(cfg.Render.FetchConcurrency),
		gallery.WithOriginalToggle(cfg.Features.OriginalToggle),
	}
	if cfg.Media.ProbeAspect {
		opts = append(opts, gallery.WithAspectSource(gallery.NewProbeAspects(cfg.Media.FFprobeBinary, base, cfg.ProbeTimeout())))
	}
	gallery.NewBuilder(resolver, opts...).Build(ctx, container, m)
	if err := container.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wait for gallery: %w", err)
	}
	return container, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
