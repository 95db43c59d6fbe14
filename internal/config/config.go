package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Site describes where the gallery page lives and where builds are written.
type Site struct {
	Root        string `toml:"root"`
	BaseURL     string `toml:"base_url"`
	OutputDir   string `toml:"output_dir"`
	Title       string `toml:"title"`
	BundleMedia bool   `toml:"bundle_media"`
}

// Manifest locates the demo manifest.
type Manifest struct {
	URL            string `toml:"url"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Render contains settings for the gallery builder's background work.
type Render struct {
	FetchConcurrency int `toml:"fetch_concurrency"`
	PromptTimeout    int `toml:"prompt_timeout"`
}

// Server contains preview server settings.
type Server struct {
	Bind        string `toml:"bind"`
	MaxSessions int    `toml:"max_sessions"`
}

// Media contains settings for optional local media inspection.
type Media struct {
	ProbeAspect   bool   `toml:"probe_aspect"`
	FFprobeBinary string `toml:"ffprobe_binary"`
	ProbeTimeout  int    `toml:"probe_timeout"`
}

// Features gates behaviour that ships disabled.
type Features struct {
	// OriginalToggle exposes the confirm-gated original (unmasked) view on
	// candidate videos. Off unless explicitly enabled.
	OriginalToggle bool `toml:"original_toggle"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	Debug  bool   `toml:"debug"`
	Dir    string `toml:"dir"`
}

// Config encapsulates all configuration values for viidemo.
//
// Configuration sections by subsystem:
//   - Site: page root, asset base URL, build output directory, page title
//   - Manifest: manifest location and fetch timeout
//   - Render: background prompt/probe concurrency and timeouts
//   - Server: preview server bind address and session retention
//   - Media: ffprobe-based aspect ratio back-fill
//   - Features: disabled-by-default viewing extensions
//   - Logging: log format, level, verbose trace, optional log directory
type Config struct {
	Site     Site     `toml:"site"`
	Manifest Manifest `toml:"manifest"`
	Render   Render   `toml:"render"`
	Server   Server   `toml:"server"`
	Media    Media    `toml:"media"`
	Features Features `toml:"features"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPathTemplate)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		info, err := os.Stat(expanded)
		if err != nil {
			if os.IsNotExist(err) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		if info.IsDir() {
			return "", false, fmt.Errorf("config path %q is a directory", expanded)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(defaultProjectConfigFileName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates directories the commands write into. The build
// output directory is created lazily by the site writer.
func (c *Config) EnsureDirectories() error {
	if strings.TrimSpace(c.Logging.Dir) == "" {
		return nil
	}
	if err := os.MkdirAll(c.Logging.Dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Logging.Dir, err)
	}
	return nil
}

// AssetBase returns the base against which relative manifest references
// (prompt files, media) are resolved: the configured base URL when set,
// otherwise the site root directory.
func (c *Config) AssetBase() string {
	if base := strings.TrimSpace(c.Site.BaseURL); base != "" {
		return base
	}
	return c.Site.Root
}

// ManifestTimeout returns the manifest request timeout.
func (c *Config) ManifestTimeout() time.Duration {
	return time.Duration(c.Manifest.RequestTimeout) * time.Second
}

// PromptTimeout returns the per-prompt fetch timeout.
func (c *Config) PromptTimeout() time.Duration {
	return time.Duration(c.Render.PromptTimeout) * time.Second
}

// ProbeTimeout returns the per-file ffprobe timeout.
func (c *Config) ProbeTimeout() time.Duration {
	return time.Duration(c.Media.ProbeTimeout) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
