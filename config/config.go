package config

import (
	"fmt"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"time"
)

// Output formats
const (
	FormatConsole = "console"
	FormatJson    = "json"
	FormatHtml    = "html"
	FormatRaw     = "raw"
	FormatServe   = "serve"
)

var formats = map[string]bool{
	FormatConsole: true,
	FormatJson:    true,
	FormatHtml:    true,
	FormatRaw:     true,
	FormatServe:   true,
}

type Config struct {
	Bluesky struct {
		Username       string `env:"BLUESKY_USERNAME"`
		Password       string `env:"BLUESKY_PASSWORD"`
		Handle         string `env:"BLUESKY_HANDLE"`
		Service        string `env:"BLUESKY_SERVICE" env-default:"https://bsky.social"`
		PDSLookup      bool   `env:"BLUESKY_PDS_LOOKUP" env-default:"false"`
		FeedLimit      int64  `env:"BLUESKY_FEED_LIMIT" env-default:"50"`
		TimeoutSeconds int    `env:"BLUESKY_TIMEOUT_SECONDS" env-default:"30"`
	}
	Output struct {
		Format string `env:"OUTPUT_FORMAT" env-default:"html"`
	}
	Log struct {
		Level string `env:"LOG_LEVEL" env-default:"warn"`
	}
	Server struct {
		Port int `env:"SERVER_PORT" env-default:"3333"`
	}
	Cache struct {
		RedisHost    string `env:"REDIS_HOST"`
		RedisPort    string `env:"REDIS_PORT" env-default:"6379"`
		MemcachedURL string `env:"MEMCACHED_URL"`
		TTLMinutes   int    `env:"PROFILE_CACHE_TTL_MINUTES" env-default:"60"`
	}
}

// ConfigError reports a missing or invalid configuration value.
type ConfigError struct {
	Variable string
	Reason   string
	Err      error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config %s: %s: %v", e.Variable, e.Reason, e.Err)
	}
	return fmt.Sprintf("config %s: %s", e.Variable, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Load reads the configuration from the environment. Values from a .env file
// in the working directory are used for variables that are not already set.
func Load() (*Config, error) {
	// The .env file is optional
	_ = godotenv.Load()

	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, &ConfigError{Variable: "environment", Reason: "cannot be read", Err: err}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Bluesky.Username == "" {
		return &ConfigError{Variable: "BLUESKY_USERNAME", Reason: "is required"}
	}
	if c.Bluesky.Password == "" {
		return &ConfigError{Variable: "BLUESKY_PASSWORD", Reason: "is required"}
	}
	if c.Bluesky.FeedLimit < 1 || c.Bluesky.FeedLimit > 100 {
		return &ConfigError{Variable: "BLUESKY_FEED_LIMIT", Reason: "must be between 1 and 100"}
	}
	if c.Bluesky.TimeoutSeconds < 0 {
		return &ConfigError{Variable: "BLUESKY_TIMEOUT_SECONDS", Reason: "must not be negative"}
	}
	if !formats[c.Output.Format] {
		return &ConfigError{Variable: "OUTPUT_FORMAT", Reason: fmt.Sprintf("unknown format '%s'", c.Output.Format)}
	}
	return nil
}

// TargetHandle is the account whose feed is fetched, the logged in user
// unless BLUESKY_HANDLE is set.
func (c *Config) TargetHandle() string {
	if c.Bluesky.Handle != "" {
		return c.Bluesky.Handle
	}
	return c.Bluesky.Username
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Bluesky.TimeoutSeconds) * time.Second
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLMinutes) * time.Minute
}
