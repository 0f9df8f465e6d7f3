package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultPrefix is prepended to every variable name when Load is called
// without options.
const DefaultPrefix = "OG_PILOT_"

// ErrRequired is returned when a field tagged as required has no value.
var ErrRequired = errors.New("required environment variable not set")

// LoadOptions defines options for loading configuration from environment variables.
type LoadOptions struct {
	Prefix string // Prefix to prepend to environment variable names
	Debug  bool   // Print every resolved variable while loading
	// Files lists .env files to read before the environment. Missing files
	// are ignored. Defaults to ".env" in the working directory.
	Files []string
}

// Load populates a struct from .env files and environment variables using reflection.
//
// Field tags control the mapping:
//   - `env:"VAR_NAME"`: maps the field to PREFIX + VAR_NAME
//   - `env:"VAR_NAME,default:value"`: value used when the variable is unset
//   - `env:"VAR_NAME,required"`: Load fails with ErrRequired when unset
//
// Variables already present in the process environment take precedence over
// values read from .env files.
//
// Example:
//
//	type Config struct {
//	    APIKey  string        `env:"API_KEY,required"`
//	    Timeout time.Duration `env:"TIMEOUT,default:5s"`
//	}
//
//	var cfg Config
//	err := config.Load(&cfg, config.LoadOptions{Prefix: "OG_PILOT_"})
//	// Will look for OG_PILOT_API_KEY and OG_PILOT_TIMEOUT
func Load(cfg interface{}, opts ...LoadOptions) error {
	options := LoadOptions{Prefix: DefaultPrefix}
	if len(opts) > 0 {
		options = opts[0]
	}

	rv := reflect.ValueOf(cfg)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("config: expected pointer to struct, got %T", cfg)
	}

	files := options.Files
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		// godotenv.Load never overrides variables that are already set.
		_ = godotenv.Load(f)
	}

	v := rv.Elem()
	t := v.Type()
	printDebug := options.Debug || os.Getenv("OG_PILOT_CONFIG_DEBUG") == "true"

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		envTag := field.Tag.Get("env")
		if envTag == "" || !field.IsExported() {
			continue
		}

		name, defaultValue, required := parseTag(envTag)
		fullEnvName := options.Prefix + name

		value, ok := os.LookupEnv(fullEnvName)
		if !ok || value == "" {
			value = defaultValue
		}
		if printDebug {
			fmt.Printf("[OGPILOT] %s=%s\n", fullEnvName, redact(fullEnvName, value))
		}

		if value == "" {
			if required {
				return fmt.Errorf("%w: %s", ErrRequired, fullEnvName)
			}
			continue
		}

		if err := setFieldValue(v.Field(i), value); err != nil {
			return fmt.Errorf("config: %s: %w", fullEnvName, err)
		}
	}

	return nil
}

// parseTag splits an env tag into its variable name, default value and
// required flag. A default value may itself contain commas, so everything
// after "default:" up to the next known option belongs to it.
func parseTag(tag string) (name, defaultValue string, required bool) {
	parts := strings.Split(tag, ",")
	name = parts[0]

	inDefault := false
	for _, part := range parts[1:] {
		switch {
		case part == "required":
			required = true
			inDefault = false
		case strings.HasPrefix(part, "default:"):
			defaultValue = strings.TrimPrefix(part, "default:")
			inDefault = true
		case inDefault:
			defaultValue += "," + part
		}
	}
	return name, defaultValue, required
}

func redact(name, value string) string {
	upper := strings.ToUpper(name)
	if value == "" || !(strings.Contains(upper, "KEY") || strings.Contains(upper, "SECRET") || strings.Contains(upper, "TOKEN")) {
		return value
	}
	if len(value) <= 4 {
		return "****"
	}
	return value[:4] + "****"
}

// setFieldValue converts a raw environment string into the field's type.
//
// Supported types: string, signed and unsigned integers, floats, bool,
// time.Duration and []string (comma separated). Other kinds are skipped.
func setFieldValue(field reflect.Value, value string) error {
	if field.Type() == reflect.TypeOf(time.Duration(0)) {
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		field.Set(reflect.ValueOf(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetUint(u)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return nil
		}
		var items []string
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		field.Set(reflect.ValueOf(items))
	default:
		return nil
	}
	return nil
}
