// Package config loads client configuration from a YAML file with
// per-field environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultPath is tried when no config file is given on the command line.
const DefaultPath = "storefront.yaml"

// Config is the full client configuration.
type Config struct {
	// BaseURL is the backend API root.
	BaseURL string `yaml:"baseURL" validate:"required,url"`
	// TimeoutSeconds bounds every request. Zero means the built-in default.
	TimeoutSeconds int `yaml:"timeoutSeconds" validate:"gte=0"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"logLevel" validate:"omitempty,oneof=debug info warn warning error"`
	// DefaultLocale is sent as Accept-Language when none is persisted.
	DefaultLocale string `yaml:"defaultLocale"`

	// StateBackend selects where client state persists.
	StateBackend string `yaml:"stateBackend" validate:"oneof=file memory redis"`
	// StatePath is the state file location for the file backend.
	StatePath string `yaml:"statePath"`

	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`
	RedisPrefix   string `yaml:"redisPrefix"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		BaseURL:        "http://127.0.0.1:8080/api",
		TimeoutSeconds: 10,
		LogLevel:       "info",
		DefaultLocale:  "en",
		StateBackend:   "file",
		StatePath:      "storefront-state.json",
		RedisPrefix:    "storefront:",
	}
}

// Load reads config from path, falling back to defaults when path is empty
// or the default file is absent. Environment variables with the STOREFRONT_
// prefix override file values.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	case os.IsNotExist(err) && !explicit:
		// No config file is fine; defaults plus env apply.
	default:
		return cfg, fmt.Errorf("read config: %w", err)
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("STOREFRONT_BASE_URL"); v != "" {
		cfg.BaseURL = strings.TrimSpace(v)
	}
	if v := os.Getenv("STOREFRONT_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			cfg.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("STOREFRONT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.TrimSpace(v)
	}
	if v := os.Getenv("STOREFRONT_LOCALE"); v != "" {
		cfg.DefaultLocale = strings.TrimSpace(v)
	}
	if v := os.Getenv("STOREFRONT_STATE_BACKEND"); v != "" {
		cfg.StateBackend = strings.TrimSpace(v)
	}
	if v := os.Getenv("STOREFRONT_STATE_PATH"); v != "" {
		cfg.StatePath = strings.TrimSpace(v)
	}
	if v := os.Getenv("STOREFRONT_REDIS_ADDR"); v != "" {
		cfg.RedisAddr = strings.TrimSpace(v)
	}
	if v := os.Getenv("STOREFRONT_REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("STOREFRONT_REDIS_PREFIX"); v != "" {
		cfg.RedisPrefix = v
	}
}

// Validate checks structural rules plus cross-field requirements.
func (c Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	switch c.StateBackend {
	case "file":
		if c.StatePath == "" {
			return fmt.Errorf("invalid config: statePath required for file state backend")
		}
	case "redis":
		if c.RedisAddr == "" {
			return fmt.Errorf("invalid config: redisAddr required for redis state backend")
		}
	}
	return nil
}

// Timeout returns the per-request timeout as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
