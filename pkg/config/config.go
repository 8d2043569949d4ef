package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	ServerPort string `mapstructure:"SERVER_PORT"`
	LogLevel   string `mapstructure:"LOG_LEVEL"`
	LogFormat  string `mapstructure:"LOG_FORMAT"` // "json" or "console"

	PostgresHost     string `mapstructure:"POSTGRES_HOST"`
	PostgresPort     string `mapstructure:"POSTGRES_PORT"`
	PostgresUser     string `mapstructure:"POSTGRES_USER"`
	PostgresPassword string `mapstructure:"POSTGRES_PASSWORD"`
	PostgresDB       string `mapstructure:"POSTGRES_DB"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	MongoURI      string `mapstructure:"MONGO_URI"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`

	StateBackend   string `mapstructure:"STATE_BACKEND"`   // "memory" or "redis"
	StorageBackend string `mapstructure:"STORAGE_BACKEND"` // "postgres" or "mongo"

	MaxConcurrency  int    `mapstructure:"MAX_CONCURRENCY"`
	UserAgent       string `mapstructure:"USER_AGENT"`
	RespectRobots   bool   `mapstructure:"RESPECT_ROBOTS"`
	PageLoadSeconds int    `mapstructure:"PAGE_LOAD_TIMEOUT_SECONDS"`
	StateTTLSeconds int    `mapstructure:"STATE_TTL_SECONDS"`
	CleanupDelayMS  int    `mapstructure:"CLEANUP_DELAY_MS"`
}

const defaultUserAgent = `Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/108.0.0.0 Safari/537.36`

// Load reads configuration from a .env file in the working directory and the environment.
func Load() (*Config, error) {
	return LoadFrom(".env")
}

// LoadFrom reads configuration from the given env file and environment variables.
// The file is optional; environment variables always take precedence.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	// Missing file is fine, production is configured purely through the environment.
	_ = v.ReadInConfig()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("POSTGRES_USER", "user")
	v.SetDefault("POSTGRES_PASSWORD", "password")
	v.SetDefault("POSTGRES_DB", "extraction")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "extraction")
	v.SetDefault("STATE_BACKEND", "memory")
	v.SetDefault("STORAGE_BACKEND", "postgres")
	v.SetDefault("MAX_CONCURRENCY", 4)
	v.SetDefault("USER_AGENT", defaultUserAgent)
	v.SetDefault("RESPECT_ROBOTS", true)
	v.SetDefault("PAGE_LOAD_TIMEOUT_SECONDS", 60)
	v.SetDefault("STATE_TTL_SECONDS", 3600)
	v.SetDefault("CLEANUP_DELAY_MS", 1000)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StateBackend {
	case "memory", "redis":
	default:
		return fmt.Errorf("invalid STATE_BACKEND %q", c.StateBackend)
	}
	switch c.StorageBackend {
	case "postgres", "mongo":
	default:
		return fmt.Errorf("invalid STORAGE_BACKEND %q", c.StorageBackend)
	}
	if c.CleanupDelayMS < 0 {
		return fmt.Errorf("CLEANUP_DELAY_MS must not be negative")
	}
	return nil
}

// PostgresURL builds the pgx connection string.
func (c *Config) PostgresURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.PostgresUser, c.PostgresPassword, c.PostgresHost, c.PostgresPort, c.PostgresDB)
}

func (c *Config) PageLoadTimeout() time.Duration {
	return time.Duration(c.PageLoadSeconds) * time.Second
}

func (c *Config) StateTTL() time.Duration {
	return time.Duration(c.StateTTLSeconds) * time.Second
}

func (c *Config) CleanupDelay() time.Duration {
	return time.Duration(c.CleanupDelayMS) * time.Millisecond
}
