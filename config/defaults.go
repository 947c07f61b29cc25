package config

const (
	defaultBaseURL              = "http://localhost:8000"
	defaultHealthTimeoutSeconds = 5
	defaultWordWrap             = 80
)

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:              defaultBaseURL,
			HealthTimeoutSeconds: defaultHealthTimeoutSeconds,
		},
		UI: UIConfig{
			WordWrap: defaultWordWrap,
		},
		Logging: defaultLoggingConfig(),
	}
}

func defaultLoggingConfig() LoggingConfig {
	enabled := true
	return LoggingConfig{
		Enabled: &enabled,
		Level:   "info",
		Stdout:  false,
		File:    "logs/nutrichat.log",
	}
}

func (c *Config) applyDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaultBaseURL
	}
	if c.API.HealthTimeoutSeconds <= 0 {
		c.API.HealthTimeoutSeconds = defaultHealthTimeoutSeconds
	}
	if c.UI.WordWrap <= 0 {
		c.UI.WordWrap = defaultWordWrap
	}
	if c.Logging.Enabled == nil {
		defaults := defaultLoggingConfig()
		c.Logging.Enabled = defaults.Enabled
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.File == "" {
		c.Logging.File = "logs/nutrichat.log"
	}
}
