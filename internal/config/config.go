package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/samvad-hq/restclient/pkg/restclient"
)

// DefaultEnvFile is read when no explicit env file is given. A missing file is not an error.
const DefaultEnvFile = ".env"

// Config holds the CLI configuration loaded from an env file and environment variables.
type Config struct {
	AppName               string        `mapstructure:"app_name"`
	LogLevel              string        `mapstructure:"log_level"`
	Token                 string        `mapstructure:"rest_client_token"`
	Endpoint              string        `mapstructure:"rest_client_endpoint"`
	Identifier            string        `mapstructure:"rest_client_identifier"`
	RequestTimeoutSeconds int64         `mapstructure:"request_timeout_seconds"`
	RequestTimeout        time.Duration `mapstructure:"-"`

	CacheType            string        `mapstructure:"cache_type"`
	CachePath            string        `mapstructure:"cache_path"`
	CacheTTLSeconds      int64         `mapstructure:"cache_ttl_seconds"`
	CacheCleanupSeconds  int64         `mapstructure:"cache_cleanup_interval_seconds"`
	CacheTTL             time.Duration `mapstructure:"-"`
	CacheCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from envFile (if present) and environment variables.
func Load(envFile string) (*Config, error) {
	envFile = strings.TrimSpace(envFile)
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	_ = godotenv.Load(envFile)

	v := viper.New()

	v.SetDefault("app_name", "restcli")
	v.SetDefault("log_level", "warn")
	v.SetDefault("rest_client_token", "")
	v.SetDefault("rest_client_endpoint", "")
	v.SetDefault("rest_client_identifier", restclient.DefaultIdentifier)
	v.SetDefault("request_timeout_seconds", 30)
	v.SetDefault("cache_type", "bbolt")
	v.SetDefault("cache_path", "./data/restcli-cache.db")
	v.SetDefault("cache_ttl_seconds", 0) // disabled
	v.SetDefault("cache_cleanup_interval_seconds", int64(time.Hour/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates numeric settings and derives the duration fields. Call it again after
// changing the *Seconds fields.
func (c *Config) Normalize() error {
	if c.RequestTimeoutSeconds < 0 {
		return fmt.Errorf("invalid request_timeout_seconds (must not be negative)")
	}
	c.RequestTimeout = time.Duration(c.RequestTimeoutSeconds) * time.Second

	if c.CacheTTLSeconds < 0 {
		return fmt.Errorf("invalid cache_ttl_seconds (must not be negative)")
	}
	if c.CacheCleanupSeconds <= 0 {
		return fmt.Errorf("invalid cache_cleanup_interval_seconds (must be positive seconds)")
	}
	c.CacheTTL = time.Duration(c.CacheTTLSeconds) * time.Second
	c.CacheCleanupInterval = time.Duration(c.CacheCleanupSeconds) * time.Second
	return nil
}

// CacheEnabled reports whether GET responses should be cached.
func (c *Config) CacheEnabled() bool {
	return c.CacheTTL > 0
}

// Lookup exposes the loaded token and endpoint to restclient.New.
func (c *Config) Lookup() restclient.LookupFunc {
	return restclient.MapLookup(map[string]string{
		restclient.EnvToken:    c.Token,
		restclient.EnvEndpoint: c.Endpoint,
	})
}
