package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config keeps runtime settings for the service.
type Config struct {
	Environment string `mapstructure:"ENVIRONMENT"`
	HTTPAddr    string `mapstructure:"HTTP_ADDR"`
	AdminAddr   string `mapstructure:"ADMIN_ADDR"`
	StaticDir   string `mapstructure:"STATIC_DIR"`

	DatabaseDriver string `mapstructure:"DATABASE_DRIVER"`
	DatabaseURL    string `mapstructure:"DATABASE_URL"`

	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	StatsCacheTTL time.Duration `mapstructure:"STATS_CACHE_TTL"`

	LogLevel string `mapstructure:"LOG_LEVEL"`
	LogFile  string `mapstructure:"LOG_FILE"`

	TelegramToken  string `mapstructure:"TELEGRAM_TOKEN"`
	TelegramChatID int64  `mapstructure:"TELEGRAM_CHAT_ID"`

	DigestTime          string        `mapstructure:"DIGEST_TIME"`
	DigestIntervalHours string        `mapstructure:"DIGEST_INTERVAL_HOURS"`
	DigestInterval      time.Duration `mapstructure:"-"`
}

var keys = map[string]interface{}{
	"ENVIRONMENT":           "development",
	"HTTP_ADDR":             ":3000",
	"ADMIN_ADDR":            ":9090",
	"STATIC_DIR":            "",
	"DATABASE_DRIVER":       "sqlite",
	"DATABASE_URL":          "task_tracker.db",
	"REDIS_ADDR":            "",
	"REDIS_PASSWORD":        "",
	"REDIS_DB":              0,
	"STATS_CACHE_TTL":       "30s",
	"LOG_LEVEL":             "info",
	"LOG_FILE":              "",
	"TELEGRAM_TOKEN":        "",
	"TELEGRAM_CHAT_ID":      0,
	"DIGEST_TIME":           "",
	"DIGEST_INTERVAL_HOURS": "",
}

// Load reads configuration from an optional .env file in path and from
// environment variables, with sane defaults.
func Load(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	for key, def := range keys {
		v.SetDefault(key, def)
	}

	var cfg Config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return cfg, fmt.Errorf("read config: %w", err)
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}

	cfg.DatabaseDriver = strings.ToLower(strings.TrimSpace(cfg.DatabaseDriver))
	cfg.DigestInterval = parseInterval(strings.TrimSpace(cfg.DigestIntervalHours))

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.DatabaseDriver {
	case "sqlite", "mysql":
	default:
		return fmt.Errorf("DATABASE_DRIVER must be sqlite or mysql, got %q", c.DatabaseDriver)
	}
	if c.DigestTime != "" {
		if _, err := time.Parse("15:04", strings.TrimSpace(c.DigestTime)); err != nil {
			return fmt.Errorf("DIGEST_TIME must be HH:MM, got %q", c.DigestTime)
		}
	}
	if c.TelegramToken != "" && c.TelegramChatID == 0 {
		return fmt.Errorf("TELEGRAM_CHAT_ID is required when TELEGRAM_TOKEN is set")
	}
	return nil
}

// DigestEnabled reports whether a digest schedule is configured.
func (c Config) DigestEnabled() bool {
	return c.DigestTime != "" || c.DigestInterval > 0
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func parseInterval(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return 0
	}
	return hours
}
