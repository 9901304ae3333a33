// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	LogLevel      string `mapstructure:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	LogFormat     string `mapstructure:"LOG_FORMAT" validate:"oneof=json text"`
	LogFile       string `mapstructure:"LOG_FILE"`
	LogMaxSizeMB  int    `mapstructure:"LOG_MAX_SIZE_MB" validate:"gte=0"`
	LogMaxBackups int    `mapstructure:"LOG_MAX_BACKUPS" validate:"gte=0"`
	LogMaxAgeDays int    `mapstructure:"LOG_MAX_AGE_DAYS" validate:"gte=0"`
	LogCompress   bool   `mapstructure:"LOG_COMPRESS"`

	DBURL          string `mapstructure:"DB_URL" validate:"required"`
	DBMaxConns     int32  `mapstructure:"DB_MAX_CONNS" validate:"gte=0"`
	MigrationsPath string `mapstructure:"MIGRATIONS_PATH" validate:"required"`

	GithubToken    string        `mapstructure:"GITHUB_TOKEN"`
	GithubUsername string        `mapstructure:"GITHUB_USERNAME" validate:"required_without=GithubToken"`
	GithubAPIURL   string        `mapstructure:"GITHUB_API_URL" validate:"omitempty,url"`
	GithubRawURL   string        `mapstructure:"GITHUB_RAW_URL" validate:"omitempty,url"`
	GithubTimeout  time.Duration `mapstructure:"GITHUB_TIMEOUT" validate:"gt=0"`
	OverlayPath    string        `mapstructure:"OVERLAY_PATH" validate:"required"`

	HTTPAddr    string   `mapstructure:"HTTP_ADDR" validate:"required"`
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`
	APISecret   string   `mapstructure:"API_SECRET"`

	SyncInterval    time.Duration `mapstructure:"SYNC_INTERVAL" validate:"gte=0"`
	SyncCron        string        `mapstructure:"SYNC_CRON"`
	SyncOnStartup   bool          `mapstructure:"SYNC_ON_STARTUP"`
	SyncConcurrency int           `mapstructure:"SYNC_CONCURRENCY" validate:"gte=1"`
	SyncListRetries int           `mapstructure:"SYNC_LIST_RETRIES" validate:"gte=0"`

	RedisURL     string        `mapstructure:"REDIS_URL"`
	ListCacheTTL time.Duration `mapstructure:"LIST_CACHE_TTL" validate:"gt=0"`
}

// defaults lists every key so that AutomaticEnv can see it during Unmarshal.
var defaults = map[string]any{
	"LOG_LEVEL":        "info",
	"LOG_FORMAT":       "json",
	"LOG_FILE":         "",
	"LOG_MAX_SIZE_MB":  100,
	"LOG_MAX_BACKUPS":  3,
	"LOG_MAX_AGE_DAYS": 28,
	"LOG_COMPRESS":     false,

	"DB_URL":          "",
	"DB_MAX_CONNS":    10,
	"MIGRATIONS_PATH": "file://migrations",

	"GITHUB_TOKEN":    "",
	"GITHUB_USERNAME": "",
	"GITHUB_API_URL":  "",
	"GITHUB_RAW_URL":  "",
	"GITHUB_TIMEOUT":  "30s",
	"OVERLAY_PATH":    "portfolio/meta.json",

	"HTTP_ADDR":    ":8080",
	"CORS_ORIGINS": []string{"*"},
	"API_SECRET":   "",

	"SYNC_INTERVAL":     "1h",
	"SYNC_CRON":         "",
	"SYNC_ON_STARTUP":   true,
	"SYNC_CONCURRENCY":  5,
	"SYNC_LIST_RETRIES": 3,

	"REDIS_URL":      "",
	"LIST_CACHE_TTL": "5m",
}

var validate = validator.New()

// LoadConfig reads configuration from file and/or environment variables.
func LoadConfig() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// Load from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode configuration: %w", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	cfg.CORSOrigins = splitList(cfg.CORSOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints and the cron expression, if any.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.SyncCron != "" {
		if _, err := cron.ParseStandard(c.SyncCron); err != nil {
			return fmt.Errorf("invalid configuration: SYNC_CRON: %w", err)
		}
	}
	return nil
}

// splitList trims entries and drops empty ones, accepting both "a,b" and ["a", "b"].
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
