package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSite(); err != nil {
		return err
	}
	if err := c.validateManifest(); err != nil {
		return err
	}
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateMedia(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateSite() error {
	if c.Site.Root == "" {
		return errors.New("site.root must be set")
	}
	if c.Site.BaseURL == "" {
		return nil
	}
	parsed, err := url.Parse(c.Site.BaseURL)
	if err != nil {
		return fmt.Errorf("site.base_url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("site.base_url must be an http(s) URL, got %q", c.Site.BaseURL)
	}
	return nil
}

func (c *Config) validateManifest() error {
	if c.Manifest.URL == "" {
		return errors.New("manifest.url must be set")
	}
	if c.Manifest.RequestTimeout < 0 {
		return errors.New("manifest.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validateRender() error {
	if c.Render.FetchConcurrency < 1 {
		return errors.New("render.fetch_concurrency must be at least 1")
	}
	if c.Render.PromptTimeout < 0 {
		return errors.New("render.prompt_timeout must be positive")
	}
	return nil
}

func (c *Config) validateServer() error {
	if !strings.Contains(c.Server.Bind, ":") {
		return fmt.Errorf("server.bind must be host:port, got %q", c.Server.Bind)
	}
	if c.Server.MaxSessions < 1 {
		return errors.New("server.max_sessions must be at least 1")
	}
	return nil
}

func (c *Config) validateMedia() error {
	if c.Media.ProbeTimeout < 0 {
		return errors.New("media.probe_timeout must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
