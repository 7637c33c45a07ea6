package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"
)

type Config struct {
	TelegramToken string  `env:"BOT_TOKEN,required"`
	GroupChatID   int64   `env:"GROUP_CHAT_ID,required"`
	AdminIDs      []int64 `env:"ADMIN_IDS" envSeparator:","`
	CatalogURL    string  `env:"CATALOG_URL" envDefault:"https://a.wsxc.cn/ItS5XIV"`

	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"0"`

	DBHost            string        `env:"DB_HOST"`
	DBPort            int           `env:"DB_PORT" envDefault:"5432"`
	DBUser            string        `env:"DB_USER"`
	DBPassword        string        `env:"DB_PASSWORD"`
	DBName            string        `env:"DB_NAME"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`
	DBConnMaxIdleTime time.Duration `env:"DB_CONN_MAX_IDLE_TIME" envDefault:"2m"`

	MetricsAddr string `env:"METRICS_ADDR"`
	Debug       bool   `env:"DEBUG" envDefault:"false"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.DBHost != "" && (cfg.DBUser == "" || cfg.DBName == "") {
		return nil, fmt.Errorf("DB_HOST is set but DB_USER or DB_NAME is missing")
	}

	return &cfg, nil
}

// DatabaseEnabled reports whether the optional order log is configured.
func (c *Config) DatabaseEnabled() bool {
	return c.DBHost != ""
}

// IsAdmin reports whether the given Telegram ID is in the admin allow-list.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}
