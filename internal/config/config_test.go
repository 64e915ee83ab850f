package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.JWT.AccessTTL != 30*time.Minute {
		t.Errorf("AccessTTL = %v, expected 30m", cfg.JWT.AccessTTL)
	}
	if cfg.JWT.RefreshTTL != 60*time.Minute {
		t.Errorf("RefreshTTL = %v, expected 60m", cfg.JWT.RefreshTTL)
	}
	if cfg.Cookie.MaxAge != 24*time.Hour {
		t.Errorf("Cookie.MaxAge = %v, expected 24h", cfg.Cookie.MaxAge)
	}
	if cfg.Password.Cost != 10 {
		t.Errorf("Password.Cost = %d, expected 10", cfg.Password.Cost)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"empty access secret", func(c *Config) { c.JWT.AccessSecret = "" }, true},
		{"shared secret", func(c *Config) { c.JWT.RefreshSecret = c.JWT.AccessSecret }, true},
		{"zero access ttl", func(c *Config) { c.JWT.AccessTTL = 0 }, true},
		{"negative refresh ttl", func(c *Config) { c.JWT.RefreshTTL = -time.Minute }, true},
		{"zero cookie max age", func(c *Config) { c.Cookie.MaxAge = 0 }, true},
		{"unknown driver", func(c *Config) { c.Database.Driver = "oracle" }, true},
		{"unknown refresh store", func(c *Config) { c.Session.RefreshStore = "memcached" }, true},
		{"redis store without redis", func(c *Config) { c.Session.RefreshStore = "redis" }, true},
		{"redis store with redis", func(c *Config) {
			c.Session.RefreshStore = "redis"
			c.Redis.Enabled = true
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("Port = %q, expected %q", cfg.Server.Port, "8080")
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "server:\n  port: \"9090\"\njwt:\n  access_ttl: 15m\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("Port = %q, expected %q", cfg.Server.Port, "9090")
	}
	if cfg.JWT.AccessTTL != 15*time.Minute {
		t.Errorf("AccessTTL = %v, expected 15m", cfg.JWT.AccessTTL)
	}
	if cfg.JWT.RefreshTTL != 60*time.Minute {
		t.Errorf("RefreshTTL = %v, expected default 60m", cfg.JWT.RefreshTTL)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("JWT_ACCESS_SECRET", "env-access")
	t.Setenv("JWT_REFRESH_SECRET", "env-refresh")
	t.Setenv("COOKIE_SECURE", "true")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Errorf("Port = %q, expected %q", cfg.Server.Port, "7070")
	}
	if cfg.JWT.AccessSecret != "env-access" || cfg.JWT.RefreshSecret != "env-refresh" {
		t.Errorf("secrets not overridden: %q %q", cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret)
	}
	if !cfg.Cookie.Secure {
		t.Error("Cookie.Secure should be true")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() should fail on invalid yaml")
	}
}

func TestLoad_RedisURLEnv(t *testing.T) {
	const url = "rediss://default:pw@cache.example.com:6380/2"
	t.Setenv("REDIS_URL", url)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.Redis.Enabled {
		t.Error("Redis.Enabled should be true when REDIS_URL is set")
	}
	if cfg.Redis.URL != url {
		t.Errorf("Redis.URL = %q, expected %q", cfg.Redis.URL, url)
	}
}
