package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	SessionBackendSQL   = "sql"
	SessionBackendRedis = "redis"
)

type Config struct {
	Port     string `yaml:"port"`
	DBDriver string `yaml:"db_driver"`
	DBDSN    string `yaml:"db_dsn"`
	Secret   string `yaml:"secret"`
	AppEnv   string `yaml:"app_env"`
	LogLevel string `yaml:"log_level"`

	Session   SessionConfig   `yaml:"session"`
	Redis     RedisConfig     `yaml:"redis"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Seed      SeedConfig      `yaml:"seed"`
}

type SessionConfig struct {
	Backend       string        `yaml:"backend"`
	CookieName    string        `yaml:"cookie_name"`
	TTL           time.Duration `yaml:"ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
	SecureCookie  bool          `yaml:"secure_cookie"`
}

type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

// RateLimitConfig throttles POST /login per client IP. It needs Redis.
type RateLimitConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxRequests int           `yaml:"max_requests"`
	Window      time.Duration `yaml:"window"`
}

type SeedConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Port:     "8080",
		DBDriver: "sqlite3",
		DBDSN:    "worklog.db",
		Secret:   "dev-secret-change-me-in-production",
		AppEnv:   "development",
		LogLevel: "info",
		Session: SessionConfig{
			Backend:       SessionBackendSQL,
			CookieName:    "worklog",
			TTL:           24 * time.Hour,
			SweepInterval: 10 * time.Minute,
		},
		Redis: RedisConfig{
			Addr:      "127.0.0.1:6379",
			KeyPrefix: "worklog:",
		},
		RateLimit: RateLimitConfig{
			MaxRequests: 10,
			Window:      time.Minute,
		},
		Seed: SeedConfig{Enabled: true},
	}
}

// Load reads filename over the defaults, then applies .env and environment
// overrides. A missing file is not an error.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", filename, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}

	_ = godotenv.Load() // optional
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString("PORT", &c.Port)
	setString("DB_DRIVER", &c.DBDriver)
	setString("DB_DSN", &c.DBDSN)
	setString("SESSION_SECRET", &c.Secret)
	setString("SESSION_BACKEND", &c.Session.Backend)
	setString("APP_ENV", &c.AppEnv)
	setString("LOG_LEVEL", &c.LogLevel)
	setString("REDIS_ADDR", &c.Redis.Addr)
	setString("REDIS_PASSWORD", &c.Redis.Password)

	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REDIS_DB: %w", err)
		}
		c.Redis.DB = n
	}
	if v := os.Getenv("SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SESSION_TTL: %w", err)
		}
		c.Session.TTL = d
	}
	return nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "sqlite3", "postgres":
	default:
		return fmt.Errorf("unsupported db_driver %q", c.DBDriver)
	}
	if c.DBDSN == "" {
		return errors.New("db_dsn is required")
	}
	switch c.Session.Backend {
	case SessionBackendSQL, SessionBackendRedis:
	default:
		return fmt.Errorf("unsupported session backend %q", c.Session.Backend)
	}
	if c.Session.TTL <= 0 {
		return errors.New("session ttl must be positive")
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.MaxRequests <= 0 || c.RateLimit.Window <= 0 {
			return errors.New("rate_limit needs positive max_requests and window")
		}
	}
	// securecookie wants at least 32 bytes of hash key
	if c.Production() && len(c.Secret) < 32 {
		return errors.New("secret must be at least 32 bytes in production")
	}
	return nil
}

func (c *Config) Production() bool {
	return c.AppEnv == "production"
}

// NeedsRedis reports whether any configured component talks to Redis.
func (c *Config) NeedsRedis() bool {
	return c.Session.Backend == SessionBackendRedis || c.RateLimit.Enabled
}
