// Package config loads struct-based configuration from environment variables
// and .env files.
//
// Fields opt in with an `env` tag. Every name is prefixed with
// LoadOptions.Prefix (DefaultPrefix when Load is called without options):
//
//	type Config struct {
//	    APIKey  string        `env:"API_KEY"`
//	    BaseURL string        `env:"BASE_URL,default:https://ogpilot.com"`
//	    Timeout time.Duration `env:"TIMEOUT,default:5s"`
//	    Strip   bool          `env:"STRIP_EXTENSIONS,default:true"`
//	}
//
//	var cfg Config
//	err := config.Load(&cfg) // OG_PILOT_API_KEY, OG_PILOT_BASE_URL, ...
//
// Use a different prefix to keep several configurations apart:
//
//	err := config.Load(&cfg, config.LoadOptions{Prefix: "STAGING_OG_PILOT_"})
//
// # Supported Types
//
//   - string
//   - int, int8, int16, int32, int64 and the unsigned variants
//   - float32, float64
//   - bool ("true", "false", "1", "0", ...)
//   - time.Duration ("500ms", "5s", "1h30m")
//   - []string (comma separated)
//
// # Environment Files
//
// A .env file in the working directory is read before the environment.
// Values already exported in the process win over the file. Set
// OG_PILOT_CONFIG_DEBUG=true (or LoadOptions.Debug) to print every resolved
// variable; values of names containing KEY, SECRET or TOKEN are redacted.
package config
