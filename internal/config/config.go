package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the pagesmith server.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Site     SiteConfig
	Auth     AuthConfig
}

type ServerConfig struct {
	Port int
	Env  string
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL string
}

// SiteConfig controls how request paths resolve to tenants and templates.
type SiteConfig struct {
	BaseURL           string
	Topology          string // flat, keyed or vertical
	DefaultCollection string
	TemplatesDir      string
	MapsAPIKey        string
	UploadTTL         time.Duration
}

type AuthConfig struct {
	JWTSecret         string
	AdminPasswordHash string
	TokenTTL          time.Duration
}

var validTopologies = map[string]bool{
	"flat":     true,
	"keyed":    true,
	"vertical": true,
}

// Load reads configuration from environment variables and returns a validated Config.
// Returns an error with a descriptive message if any required value is missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("PAGESMITH_PORT", 8080),
			Env:  envString("PAGESMITH_ENV", "development"),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Site: SiteConfig{
			BaseURL:           os.Getenv("BASE_URL"),
			Topology:          envString("ROUTING_TOPOLOGY", "flat"),
			DefaultCollection: envString("DEFAULT_COLLECTION", "companies"),
			TemplatesDir:      envString("TEMPLATES_DIR", "views"),
			MapsAPIKey:        os.Getenv("GOOGLE_MAPS_API_KEY"),
			UploadTTL:         envDuration("UPLOAD_TTL", 30*time.Minute),
		},
		Auth: AuthConfig{
			JWTSecret:         os.Getenv("JWT_SECRET"),
			AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
			TokenTTL:          envDuration("TOKEN_TTL", 12*time.Hour),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if c.Site.BaseURL == "" {
		return fmt.Errorf("BASE_URL is required")
	}
	if !strings.HasPrefix(c.Site.BaseURL, "http://") && !strings.HasPrefix(c.Site.BaseURL, "https://") {
		return fmt.Errorf("BASE_URL must start with http:// or https://, got %q", c.Site.BaseURL)
	}

	if !validTopologies[c.Site.Topology] {
		return fmt.Errorf("ROUTING_TOPOLOGY must be one of flat, keyed, vertical; got %q", c.Site.Topology)
	}
	if c.Site.Topology == "vertical" && c.Site.MapsAPIKey == "" {
		return fmt.Errorf("GOOGLE_MAPS_API_KEY is required when ROUTING_TOPOLOGY is vertical")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
