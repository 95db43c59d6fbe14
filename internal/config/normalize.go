package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeSite(); err != nil {
		return err
	}
	c.normalizeManifest()
	c.normalizeRender()
	c.normalizeServer()
	c.normalizeMedia()
	return c.normalizeLogging()
}

func (c *Config) normalizeSite() error {
	var err error
	if strings.TrimSpace(c.Site.Root) == "" {
		c.Site.Root = defaultSiteRoot
	}
	if c.Site.Root, err = expandPath(strings.TrimSpace(c.Site.Root)); err != nil {
		return fmt.Errorf("site.root: %w", err)
	}
	if strings.TrimSpace(c.Site.OutputDir) == "" {
		c.Site.OutputDir = defaultOutputDir
	}
	if c.Site.OutputDir, err = expandPath(strings.TrimSpace(c.Site.OutputDir)); err != nil {
		return fmt.Errorf("site.output_dir: %w", err)
	}
	c.Site.BaseURL = strings.TrimSpace(c.Site.BaseURL)
	if c.Site.BaseURL != "" && !strings.HasSuffix(c.Site.BaseURL, "/") {
		c.Site.BaseURL += "/"
	}
	c.Site.Title = strings.TrimSpace(c.Site.Title)
	if c.Site.Title == "" {
		c.Site.Title = defaultSiteTitle
	}
	return nil
}

func (c *Config) normalizeManifest() {
	c.Manifest.URL = strings.TrimSpace(c.Manifest.URL)
	if c.Manifest.URL == "" || c.Manifest.URL == defaultManifestURL {
		if value, ok := os.LookupEnv(manifestEnvVar); ok && strings.TrimSpace(value) != "" {
			c.Manifest.URL = strings.TrimSpace(value)
		}
	}
	if c.Manifest.URL == "" {
		c.Manifest.URL = defaultManifestURL
	}
	if c.Manifest.RequestTimeout == 0 {
		c.Manifest.RequestTimeout = defaultManifestTimeout
	}
}

func (c *Config) normalizeRender() {
	if c.Render.FetchConcurrency == 0 {
		c.Render.FetchConcurrency = defaultFetchConcurrency
	}
	if c.Render.PromptTimeout == 0 {
		c.Render.PromptTimeout = defaultPromptTimeout
	}
}

func (c *Config) normalizeServer() {
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultServerBind
	}
	if c.Server.MaxSessions == 0 {
		c.Server.MaxSessions = defaultServerMaxSessions
	}
}

func (c *Config) normalizeMedia() {
	c.Media.FFprobeBinary = strings.TrimSpace(c.Media.FFprobeBinary)
	if c.Media.FFprobeBinary == "" {
		c.Media.FFprobeBinary = defaultFFprobeBinary
	}
	if c.Media.ProbeTimeout == 0 {
		c.Media.ProbeTimeout = defaultProbeTimeout
	}
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.Dir) == "" {
		c.Logging.Dir = ""
		return nil
	}
	var err error
	if c.Logging.Dir, err = expandPath(strings.TrimSpace(c.Logging.Dir)); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	return nil
}
