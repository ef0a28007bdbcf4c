// Package config loads the storefront configuration from defaults, an
// optional YAML file and environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v2"
)

// MinSecretLength is the shortest accepted token signing secret, in bytes.
const MinSecretLength = 32

// Config is the full application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Redis    RedisConfig    `yaml:"redis"`
	OIDC     OIDCConfig     `yaml:"oidc"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string   `yaml:"addr"`
	ReadTimeout     Duration `yaml:"read_timeout"`
	WriteTimeout    Duration `yaml:"write_timeout"`
	RequestTimeout  Duration `yaml:"request_timeout"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig selects the relational store. An empty URL selects the
// in-memory stores.
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// AuthConfig holds credential and token settings.
type AuthConfig struct {
	TokenSecret       string   `yaml:"token_secret"`
	TokenTTL          Duration `yaml:"token_ttl"`
	MinPasswordLength int      `yaml:"min_password_length"`
	BcryptCost        int      `yaml:"bcrypt_cost"`
}

// RedisConfig enables the item cache and login limiter when Addr is set.
type RedisConfig struct {
	Addr          string   `yaml:"addr"`
	Password      string   `yaml:"password"`
	DB            int      `yaml:"db"`
	ItemCacheTTL  Duration `yaml:"item_cache_ttl"`
	LoginAttempts int      `yaml:"login_attempts"`
	LoginWindow   Duration `yaml:"login_window"`
}

// OIDCConfig enables SSO login when every field is set.
type OIDCConfig struct {
	Issuer       string `yaml:"issuer"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURL  string `yaml:"redirect_url"`
}

// Enabled reports whether SSO is fully configured.
func (o OIDCConfig) Enabled() bool {
	return o.Issuer != "" && o.ClientID != "" && o.ClientSecret != "" && o.RedirectURL != ""
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level       string `yaml:"level"`
	Environment string `yaml:"environment"`
}

// Duration is a time.Duration that unmarshals from strings like "15m".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Default returns the configuration used before any file or environment
// overrides are applied.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     Duration(10 * time.Second),
			WriteTimeout:    Duration(10 * time.Second),
			RequestTimeout:  Duration(30 * time.Second),
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Auth: AuthConfig{
			TokenTTL:          Duration(24 * time.Hour),
			MinPasswordLength: 7,
			BcryptCost:        bcrypt.DefaultCost,
		},
		Redis: RedisConfig{
			ItemCacheTTL:  Duration(15 * time.Minute),
			LoginAttempts: 10,
			LoginWindow:   Duration(time.Minute),
		},
		Log: LogConfig{
			Level:       "info",
			Environment: "prod",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// non-empty), then environment variables, then validation.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := loadEnv(cfg); err != nil {
		return nil, fmt.Errorf("load config from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	content, err := os.ReadFile(os.ExpandEnv(path))
	if err != nil {
		return err
	}
	return yaml.UnmarshalStrict(content, cfg)
}

func loadEnv(cfg *Config) error {
	setString(&cfg.Server.Addr, "ADDR")
	setString(&cfg.Database.URL, "DATABASE_URL")
	setString(&cfg.Auth.TokenSecret, "TOKEN_SECRET")
	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setString(&cfg.OIDC.Issuer, "OIDC_ISSUER")
	setString(&cfg.OIDC.ClientID, "OIDC_CLIENT_ID")
	setString(&cfg.OIDC.ClientSecret, "OIDC_CLIENT_SECRET")
	setString(&cfg.OIDC.RedirectURL, "OIDC_REDIRECT_URL")
	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.Environment, "APP_ENV")

	if err := setDuration(&cfg.Auth.TokenTTL, "TOKEN_TTL"); err != nil {
		return err
	}
	if err := setInt(&cfg.Auth.MinPasswordLength, "MIN_PASSWORD_LENGTH"); err != nil {
		return err
	}
	if err := setInt(&cfg.Auth.BcryptCost, "BCRYPT_COST"); err != nil {
		return err
	}
	return setInt(&cfg.Redis.DB, "REDIS_DB")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %q", key, v)
	}
	*dst = n
	return nil
}

func setDuration(dst *Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %q", key, v)
	}
	*dst = Duration(d)
	return nil
}

// Validate checks required values and ranges.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if c.Auth.TokenSecret == "" {
		return errors.New("auth.token_secret is required (TOKEN_SECRET)")
	}
	if len(c.Auth.TokenSecret) < MinSecretLength {
		return fmt.Errorf("auth.token_secret must be at least %d bytes", MinSecretLength)
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("auth.token_ttl must be positive")
	}
	if c.Auth.MinPasswordLength < 1 {
		return errors.New("auth.min_password_length must be at least 1")
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("auth.bcrypt_cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.Redis.Addr != "" {
		if c.Redis.LoginAttempts < 1 {
			return errors.New("redis.login_attempts must be at least 1")
		}
		if c.Redis.LoginWindow <= 0 || c.Redis.ItemCacheTTL <= 0 {
			return errors.New("redis.login_window and redis.item_cache_ttl must be positive")
		}
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log.level: %s", c.Log.Level)
	}
	switch c.Log.Environment {
	case "dev", "staging", "prod":
	default:
		return fmt.Errorf("invalid log.environment: %s, must be one of: dev, staging, prod", c.Log.Environment)
	}
	return nil
}
