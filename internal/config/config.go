package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/xxxsen/common/logger"
)

const envPrefix = "SIGNUP_"

const (
	PresenterTemplate = "template"
	PresenterPlain    = "plain"
)

type Config struct {
	Port           int              `json:"port" env:"PORT"`
	BaseURL        string           `json:"base_url" env:"BASE_URL"`
	SecretKey      string           `json:"secret_key" env:"SECRET_KEY"`
	AccessTTLHours int              `json:"access_ttl_hours" env:"ACCESS_TTL_HOURS"`
	Database       DatabaseConfig   `json:"database" envPrefix:"DB_"`
	LogConfig      logger.LogConfig `json:"log_config"`
	Activation     ActivationConfig `json:"activation" envPrefix:"ACTIVATION_"`
	Cleanup        CleanupConfig    `json:"cleanup" envPrefix:"CLEANUP_"`
	RateLimit      RateLimitConfig  `json:"rate_limit" envPrefix:"RATE_LIMIT_"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn" env:"DSN"`
	Host     string `json:"host" env:"HOST"`
	Port     int    `json:"port" env:"PORT"`
	User     string `json:"user" env:"USER"`
	Password string `json:"password" env:"PASSWORD"`
	DBName   string `json:"dbname" env:"NAME"`
	SSLMode  string `json:"sslmode" env:"SSLMODE"`
}

type ActivationConfig struct {
	// Presenter is "template" (render activate.html) or "plain" (literal text).
	Presenter string `json:"presenter" env:"PRESENTER"`
	TTLHours  int    `json:"ttl_hours" env:"TTL_HOURS"`
}

type CleanupConfig struct {
	Enable      bool   `json:"enable" env:"ENABLE"`
	Cron        string `json:"cron" env:"CRON"`
	MaxAgeHours int    `json:"max_age_hours" env:"MAX_AGE_HOURS"`
}

type RateLimitConfig struct {
	WindowSeconds int `json:"window_seconds" env:"WINDOW_SECONDS"`
	MaxKeys       int `json:"max_keys" env:"MAX_KEYS"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() error {
	if c.SecretKey == "" {
		return fmt.Errorf("secret_key is required")
	}
	if c.Port == 0 {
		return fmt.Errorf("port is required")
	}
	if c.Database.DSN == "" && c.Database.Host == "" {
		return fmt.Errorf("database.dsn or database.host is required")
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.AccessTTLHours == 0 {
		c.AccessTTLHours = 72
	}
	if c.LogConfig.Level == "" {
		c.LogConfig.Level = "info"
	}
	c.Activation.Presenter = strings.ToLower(strings.TrimSpace(c.Activation.Presenter))
	switch c.Activation.Presenter {
	case "":
		c.Activation.Presenter = PresenterTemplate
	case PresenterTemplate, PresenterPlain:
	default:
		return fmt.Errorf("activation.presenter must be %s or %s", PresenterTemplate, PresenterPlain)
	}
	if c.Activation.TTLHours == 0 {
		c.Activation.TTLHours = 24
	}
	if c.Cleanup.Cron == "" {
		c.Cleanup.Cron = "0 * * * *"
	}
	if c.Cleanup.MaxAgeHours == 0 {
		c.Cleanup.MaxAgeHours = 3 * c.Activation.TTLHours
	}
	if c.RateLimit.WindowSeconds == 0 {
		c.RateLimit.WindowSeconds = 2
	}
	if c.RateLimit.MaxKeys == 0 {
		c.RateLimit.MaxKeys = 10000
	}
	return nil
}
