package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	Cookie   CookieConfig   `yaml:"cookie"`
	Password PasswordConfig `yaml:"password"`
	Session  SessionConfig  `yaml:"session"`
	Redis    RedisConfig    `yaml:"redis"`
}

type ServerConfig struct {
	Host           string        `yaml:"host"`
	Port           string        `yaml:"port"`
	Mode           string        `yaml:"mode"` // debug, release, test
	RequestTimeout time.Duration `yaml:"request_timeout"`
	AllowOrigins   []string      `yaml:"allow_origins"`
}

type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite, mysql, postgres
	DSN    string `yaml:"dsn"`
}

// JWTConfig holds one secret per token kind so a leaked access secret
// cannot be used to mint refresh tokens.
type JWTConfig struct {
	AccessSecret  string        `yaml:"access_secret"`
	RefreshSecret string        `yaml:"refresh_secret"`
	AccessTTL     time.Duration `yaml:"access_ttl"`
	RefreshTTL    time.Duration `yaml:"refresh_ttl"`
}

type CookieConfig struct {
	MaxAge   time.Duration `yaml:"max_age"`
	Domain   string        `yaml:"domain"`
	Path     string        `yaml:"path"`
	Secure   bool          `yaml:"secure"`
	SameSite string        `yaml:"same_site"` // lax, strict, none
}

type PasswordConfig struct {
	Cost int `yaml:"cost"` // bcrypt work factor
}

type SessionConfig struct {
	RefreshStore string `yaml:"refresh_store"` // gorm, redis
	CleanupCron  string `yaml:"cleanup_cron"`
}

// RedisConfig for the optional redis-backed refresh token store
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	URL      string `yaml:"url"` // takes precedence over addr/password/db
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}
		// Unmarshal over the defaults so partial files keep sane values.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", configPath, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	cfg.overrideFromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           "8080",
			Mode:           "debug",
			RequestTimeout: 10 * time.Second,
			AllowOrigins:   []string{"http://localhost:3000"},
		},
		Log: LogConfig{
			Level: "info",
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "quill.db",
		},
		JWT: JWTConfig{
			AccessSecret:  "quill-access-secret-change-in-production",
			RefreshSecret: "quill-refresh-secret-change-in-production",
			AccessTTL:     30 * time.Minute,
			RefreshTTL:    60 * time.Minute,
		},
		Cookie: CookieConfig{
			MaxAge:   24 * time.Hour,
			Path:     "/",
			SameSite: "lax",
		},
		Password: PasswordConfig{
			Cost: 10,
		},
		Session: SessionConfig{
			RefreshStore: "gorm",
			CleanupCron:  "@hourly",
		},
		Redis: RedisConfig{
			Enabled: false,
			Addr:    "localhost:6379",
			DB:      0,
		},
	}
}

// Validate reports the first setting that would make the auth core unsafe
// or unusable.
func (c *Config) Validate() error {
	if c.JWT.AccessSecret == "" || c.JWT.RefreshSecret == "" {
		return errors.New("jwt secrets must not be empty")
	}
	if c.JWT.AccessSecret == c.JWT.RefreshSecret {
		return errors.New("jwt access and refresh secrets must differ")
	}
	if c.JWT.AccessTTL <= 0 || c.JWT.RefreshTTL <= 0 {
		return errors.New("jwt ttl values must be positive")
	}
	if c.Cookie.MaxAge <= 0 {
		return errors.New("cookie max_age must be positive")
	}
	switch c.Database.Driver {
	case "sqlite", "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
	switch c.Session.RefreshStore {
	case "gorm":
	case "redis":
		if !c.Redis.Enabled {
			return errors.New("redis refresh store requires redis.enabled")
		}
	default:
		return fmt.Errorf("unsupported refresh store: %s", c.Session.RefreshStore)
	}
	return nil
}

func (c *Config) overrideFromEnv() {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		c.Server.Port = port
	}
	if mode := os.Getenv("SERVER_MODE"); mode != "" {
		c.Server.Mode = mode
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		c.Database.DSN = dsn
	}
	if secret := os.Getenv("JWT_ACCESS_SECRET"); secret != "" {
		c.JWT.AccessSecret = secret
	}
	if secret := os.Getenv("JWT_REFRESH_SECRET"); secret != "" {
		c.JWT.RefreshSecret = secret
	}
	if secure := os.Getenv("COOKIE_SECURE"); secure != "" {
		if v, err := strconv.ParseBool(secure); err == nil {
			c.Cookie.Secure = v
		}
	}
	// Redis URL override (redis:// or rediss://), parsed when the client is built
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		c.Redis.Enabled = true
		c.Redis.URL = redisURL
	}
	if store := os.Getenv("REFRESH_STORE"); store != "" {
		c.Session.RefreshStore = store
	}
}
