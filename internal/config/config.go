package config

import (
	"log/slog"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	ServerAddr  string `mapstructure:"SERVER_ADDR"`
	AppEnv      string `mapstructure:"APP_ENV"`

	// MigrationMode is "auto" (gorm AutoMigrate), "sql" (embedded SQL
	// migrations) or "none".
	MigrationMode string `mapstructure:"MIGRATION_MODE"`

	SearchDefaultPageSize int `mapstructure:"SEARCH_DEFAULT_PAGE_SIZE"`
	SearchMaxPageSize     int `mapstructure:"SEARCH_MAX_PAGE_SIZE"`

	DBSlowThreshold time.Duration `mapstructure:"DB_SLOW_THRESHOLD"`
}

const (
	MigrationAuto = "auto"
	MigrationSQL  = "sql"
	MigrationNone = "none"
)

var AppConfig *Config

var defaults = map[string]any{
	"DATABASE_URL":             "",
	"JWT_SECRET":               "",
	"SERVER_ADDR":              ":8080",
	"APP_ENV":                  "development",
	"MIGRATION_MODE":           MigrationAuto,
	"SEARCH_DEFAULT_PAGE_SIZE": 10,
	"SEARCH_MAX_PAGE_SIZE":     100,
	"DB_SLOW_THRESHOLD":        200 * time.Millisecond,
}

// LoadConfig loads the configuration from a .env file and environment
// variables into AppConfig. Environment variables win over the file.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.AddConfigPath(".")
	v.SetConfigName(".env")
	v.SetConfigType("env")

	// Every key needs a default so AutomaticEnv picks it up during Unmarshal.
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		slog.Warn(".env file not found, loading from environment variables")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	AppConfig = &cfg
	return &cfg, nil
}
