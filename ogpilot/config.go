package ogpilot

import (
	"fmt"
	"net/url"
	"time"

	"github.com/ogpilot/ogpilot-go/config"
)

// DefaultBaseURL is the origin of the hosted OG Pilot service.
const DefaultBaseURL = "https://ogpilot.com"

// Config defines OG Pilot client configuration
type Config struct {
	APIKey          string        `env:"API_KEY"`
	Domain          string        `env:"DOMAIN"`
	BaseURL         string        `env:"BASE_URL,default:https://ogpilot.com"`
	OpenTimeout     time.Duration `env:"OPEN_TIMEOUT,default:5s"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT,default:10s"`
	StripExtensions bool          `env:"STRIP_EXTENSIONS,default:true"`
	UserAgent       string        `env:"USER_AGENT,default:ogpilot-go"`

	// Monitoring
	EnableLogging bool   `env:"ENABLE_LOGGING,default:true"`
	LogLevel      string `env:"LOG_LEVEL,default:info"`

	// Debug logs every outbound request and response status.
	Debug bool `env:"DEBUG,default:false"`
}

// DefaultConfig returns a Config with all default values applied.
// Use this when creating configs programmatically instead of from environment variables.
func DefaultConfig() Config {
	return Config{
		BaseURL:         DefaultBaseURL,
		OpenTimeout:     5 * time.Second,
		ReadTimeout:     10 * time.Second,
		StripExtensions: true,
		UserAgent:       "ogpilot-go",
		EnableLogging:   true,
		LogLevel:        "info",
	}
}

// GetConfig returns config loaded from environment
func GetConfig(opts ...config.LoadOptions) (*Config, error) {
	cfg := &Config{}
	if len(opts) == 0 {
		opts = append(opts, config.LoadOptions{Prefix: "OG_PILOT_"})
	}
	if err := config.Load(cfg, opts...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validateConfig checks settings that can be verified before any call.
// The API key and domain are checked per request, so a client can be built
// before credentials are known.
func validateConfig(cfg Config) error {
	if cfg.BaseURL == "" {
		return fmt.Errorf("%w: base URL required", ErrInvalidConfig)
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: base URL must be an absolute http(s) URL: %q", ErrInvalidConfig, cfg.BaseURL)
	}
	if cfg.OpenTimeout < 0 || cfg.ReadTimeout < 0 {
		return fmt.Errorf("%w: timeouts cannot be negative", ErrInvalidConfig)
	}
	return nil
}
