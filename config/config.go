// Package config loads console configuration from a YAML file and/or
// environment variables.
package config

import (
	"fmt"
	"net"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root console configuration. Sources, in order of
// precedence: explicit path, CONFIG_PATH, ./local.yaml, environment.
type Config struct {
	Env     string        `yaml:"env" env:"ENV" env-default:"local"`
	HTTP    HTTPConfig    `yaml:"http"`
	Backend BackendConfig `yaml:"backend"`
	Auth    AuthConfig    `yaml:"auth"`
	Store   StoreConfig   `yaml:"store"`
	Redis   RedisConfig   `yaml:"redis"`
}

// HTTPConfig holds the console's own listen address.
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"9100"`
}

// Addr returns the address in host:port form.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// BackendConfig points at the marketplace API.
type BackendConfig struct {
	URL string `yaml:"url" env:"BACKEND_URL" env-required:"true"`
}

// AuthConfig tunes the authentication flow and guard.
type AuthConfig struct {
	PhonePattern     string `yaml:"phone_pattern" env:"PHONE_PATTERN"`
	LoginPath        string `yaml:"login_path" env:"LOGIN_PATH" env-default:"/auth"`
	EnforceAdminRole bool   `yaml:"enforce_admin_role" env:"ENFORCE_ADMIN_ROLE" env-default:"true"`
	LenientDecode    bool   `yaml:"lenient_decode" env:"LENIENT_DECODE" env-default:"false"`
}

// StoreConfig selects the token store backend.
type StoreConfig struct {
	Backend string `yaml:"backend" env:"STORE_BACKEND" env-default:"file"`
	Path    string `yaml:"path" env:"STORE_PATH" env-default:"./state/tokens.json"`
}

// RedisConfig is used by the redis token store and the event publisher.
type RedisConfig struct {
	URL string `yaml:"url" env:"REDIS_URL"`
}

// MustLoad wraps Load and panics on error.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load loads configuration from, in order: the explicit path, CONFIG_PATH,
// ./local.yaml, then environment variables only. Environment variables
// always overlay file values.
func Load(path string) (*Config, error) {
	var cfg Config

	tryRead := func(p string) (*Config, error) {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", p, err)
		}
		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}
		return &cfg, nil
	}

	if path != "" {
		return tryRead(path)
	}

	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		return tryRead(envPath)
	}

	if _, err := os.Stat("local.yaml"); err == nil {
		return tryRead("local.yaml")
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}
	return &cfg, nil
}
