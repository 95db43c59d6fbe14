package config

const (
	defaultSiteRoot              = "."
	defaultOutputDir             = "public"
	defaultSiteTitle             = "Visual Instruction Injection Demos"
	defaultManifestURL           = "data/manifest.json"
	defaultManifestTimeout       = 30
	defaultFetchConcurrency      = 8
	defaultPromptTimeout         = 15
	defaultServerBind            = "127.0.0.1:7490"
	defaultServerMaxSessions     = 64
	defaultFFprobeBinary         = "ffprobe"
	defaultProbeTimeout          = 10
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	defaultOriginalToggle        = false
	defaultProbeAspect           = false
	manifestEnvVar               = "VIIDEMO_MANIFEST"
	defaultConfigPathTemplate    = "~/.config/viidemo/config.toml"
	defaultProjectConfigFileName = "viidemo.toml"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Site: Site{
			Root:      defaultSiteRoot,
			OutputDir: defaultOutputDir,
			Title:     defaultSiteTitle,
		},
		Manifest: Manifest{
			URL:            defaultManifestURL,
			RequestTimeout: defaultManifestTimeout,
		},
		Render: Render{
			FetchConcurrency: defaultFetchConcurrency,
			PromptTimeout:    defaultPromptTimeout,
		},
		Server: Server{
			Bind:        defaultServerBind,
			MaxSessions: defaultServerMaxSessions,
		},
		Media: Media{
			ProbeAspect:   defaultProbeAspect,
			FFprobeBinary: defaultFFprobeBinary,
			ProbeTimeout:  defaultProbeTimeout,
		},
		Features: Features{
			OriginalToggle: defaultOriginalToggle,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
