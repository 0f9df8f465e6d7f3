package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

// Test struct with various field types
type TestConfig struct {
	StringField   string        `env:"TEST_STRING"`
	IntField      int           `env:"TEST_INT"`
	Int64Field    int64         `env:"TEST_INT64"`
	BoolField     bool          `env:"TEST_BOOL"`
	DurationField time.Duration `env:"TEST_DURATION,default:5s"`
	DefaultField  string        `env:"TEST_DEFAULT,default:defaultValue"`
	NoTagField    string        // Field without env tag
}

var noPrefix = LoadOptions{Files: []string{"does-not-exist.env"}}

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		expected TestConfig
		wantErr  bool
	}{
		{
			name: "all fields set from environment",
			envVars: map[string]string{
				"TEST_STRING":   "hello",
				"TEST_INT":      "42",
				"TEST_INT64":    "9223372036854775807",
				"TEST_BOOL":     "true",
				"TEST_DURATION": "250ms",
			},
			expected: TestConfig{
				StringField:   "hello",
				IntField:      42,
				Int64Field:    9223372036854775807,
				BoolField:     true,
				DurationField: 250 * time.Millisecond,
				DefaultField:  "defaultValue",
			},
		},
		{
			name: "override default value",
			envVars: map[string]string{
				"TEST_DEFAULT": "overridden",
			},
			expected: TestConfig{
				DurationField: 5 * time.Second,
				DefaultField:  "overridden",
			},
		},
		{
			name: "invalid int value",
			envVars: map[string]string{
				"TEST_INT": "not-a-number",
			},
			wantErr: true,
		},
		{
			name: "invalid bool value",
			envVars: map[string]string{
				"TEST_BOOL": "not-a-bool",
			},
			wantErr: true,
		},
		{
			name: "invalid duration value",
			envVars: map[string]string{
				"TEST_DURATION": "soon",
			},
			wantErr: true,
		},
		{
			name:    "empty environment leaves zero values",
			envVars: map[string]string{},
			expected: TestConfig{
				DurationField: 5 * time.Second,
				DefaultField:  "defaultValue",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"TEST_STRING", "TEST_INT", "TEST_INT64", "TEST_BOOL", "TEST_DURATION", "TEST_DEFAULT"} {
				t.Setenv(k, "")
			}
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg := &TestConfig{}
			err := Load(cfg, noPrefix)

			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if *cfg != tt.expected {
				t.Errorf("Load() = %+v, want %+v", *cfg, tt.expected)
			}
		})
	}
}

func TestLoadWithPrefix(t *testing.T) {
	type prefixed struct {
		APIKey string `env:"API_KEY"`
		Domain string `env:"DOMAIN"`
	}

	t.Setenv("OG_PILOT_API_KEY", "key-123")
	t.Setenv("STAGING_DOMAIN", "staging.example.com")

	cfg := &prefixed{}
	if err := Load(cfg); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.APIKey != "key-123" {
		t.Errorf("APIKey = %q, want %q", cfg.APIKey, "key-123")
	}

	staging := &prefixed{}
	if err := Load(staging, LoadOptions{Prefix: "STAGING_"}); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if staging.Domain != "staging.example.com" || staging.APIKey != "" {
		t.Errorf("unexpected staging config: %+v", staging)
	}
}

func TestLoadRequired(t *testing.T) {
	type required struct {
		Secret string `env:"TEST_REQUIRED_SECRET,required"`
	}

	t.Setenv("TEST_REQUIRED_SECRET", "")
	err := Load(&required{}, noPrefix)
	if !errors.Is(err, ErrRequired) {
		t.Fatalf("expected ErrRequired, got %v", err)
	}

	t.Setenv("TEST_REQUIRED_SECRET", "s3cret")
	cfg := &required{}
	if err := Load(cfg, noPrefix); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Secret != "s3cret" {
		t.Errorf("Secret = %q", cfg.Secret)
	}
}

func TestLoadDotEnvFile(t *testing.T) {
	type fileConfig struct {
		Domain string `env:"TEST_DOTENV_DOMAIN"`
		Key    string `env:"TEST_DOTENV_KEY"`
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("TEST_DOTENV_DOMAIN=from-file.example\nTEST_DOTENV_KEY=file-key\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	// Exported variables win over the file.
	t.Setenv("TEST_DOTENV_KEY", "env-key")
	t.Cleanup(func() { os.Unsetenv("TEST_DOTENV_DOMAIN") })

	cfg := &fileConfig{}
	if err := Load(cfg, LoadOptions{Files: []string{path}}); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Domain != "from-file.example" {
		t.Errorf("Domain = %q, want value from file", cfg.Domain)
	}
	if cfg.Key != "env-key" {
		t.Errorf("Key = %q, want value from environment", cfg.Key)
	}
}

func TestLoadRejectsNonPointer(t *testing.T) {
	if err := Load(TestConfig{}, noPrefix); err == nil {
		t.Error("expected error for non-pointer config")
	}
}

func TestSetFieldValue(t *testing.T) {
	tests := []struct {
		name    string
		target  interface{}
		value   string
		want    interface{}
		wantErr bool
	}{
		{name: "string", target: &struct{ Field string }{}, value: "test", want: "test"},
		{name: "int", target: &struct{ Field int }{}, value: "123", want: 123},
		{name: "int64", target: &struct{ Field int64 }{}, value: "9223372036854775807", want: int64(9223372036854775807)},
		{name: "uint", target: &struct{ Field uint }{}, value: "7", want: uint(7)},
		{name: "float", target: &struct{ Field float64 }{}, value: "3.14", want: 3.14},
		{name: "bool 1", target: &struct{ Field bool }{}, value: "1", want: true},
		{name: "bool false", target: &struct{ Field bool }{}, value: "false", want: false},
		{name: "slice", target: &struct{ Field []string }{}, value: "a, b,,c", want: []string{"a", "b", "c"}},
		{name: "invalid int", target: &struct{ Field int }{}, value: "abc", wantErr: true},
		{name: "invalid bool", target: &struct{ Field bool }{}, value: "yes", wantErr: true},
		{name: "negative uint", target: &struct{ Field uint }{}, value: "-1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field := reflect.ValueOf(tt.target).Elem().Field(0)

			err := setFieldValue(field, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("setFieldValue() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got := field.Interface(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("setFieldValue() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestComplexEnvTag(t *testing.T) {
	type ComplexConfig struct {
		Field1 string `env:"COMPLEX_FIELD1,default:value1"`
		Field2 string `env:"COMPLEX_FIELD2,required,default:value2"`
		Field3 string `env:"COMPLEX_FIELD3,default:a,b,c"`
	}

	cfg := &ComplexConfig{}
	if err := Load(cfg, noPrefix); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Field1 != "value1" {
		t.Errorf("Field1 = %v, want %v", cfg.Field1, "value1")
	}
	if cfg.Field2 != "value2" {
		t.Errorf("Field2 = %v, want %v", cfg.Field2, "value2")
	}
	if cfg.Field3 != "a,b,c" {
		t.Errorf("Field3 = %v, want %v", cfg.Field3, "a,b,c")
	}
}

func TestRedact(t *testing.T) {
	if got := redact("OG_PILOT_API_KEY", "sk_live_abcdef"); got != "sk_l****" {
		t.Errorf("redact() = %q", got)
	}
	if got := redact("OG_PILOT_DOMAIN", "example.com"); got != "example.com" {
		t.Errorf("redact() = %q", got)
	}
}
