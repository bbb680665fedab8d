package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	DB          DBConfig
	Telegram    TelegramConfig
	Report      ReportConfig
	LogLevel    string
	AutoMigrate bool
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// URL returns the postgres connection string for pgxpool.
func (c DBConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s",
		c.User, c.Password, c.Host, c.Port, c.Database,
	)
}

type TelegramConfig struct {
	Token   string
	AdminID int64 // only this user may request reports
}

type ReportConfig struct {
	// Location is the time zone orders are recorded and reported in.
	Location *time.Location
}

// field: default value
var defaults = map[string]interface{}{
	"DB_HOST":         "localhost",
	"DB_PORT":         5432,
	"DB_USER":         "postgres",
	"DB_PASSWORD":     "",
	"DB_NAME":         "restaurant",
	"TOKEN":           "",
	"ADMIN_ID":        0,
	"REPORT_TIMEZONE": "Local",
	"LOG_LEVEL":       "INFO",
	"AUTO_MIGRATE":    false,
}

// Load reads .env (if present) and the process environment.
// Environment variables take precedence over .env values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	for key, def := range defaults {
		v.SetDefault(key, def)
	}

	loc, err := time.LoadLocation(v.GetString("REPORT_TIMEZONE"))
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_TIMEZONE: %w", err)
	}

	return &Config{
		DB: DBConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Database: v.GetString("DB_NAME"),
		},
		Telegram: TelegramConfig{
			Token:   v.GetString("TOKEN"),
			AdminID: v.GetInt64("ADMIN_ID"),
		},
		Report: ReportConfig{
			Location: loc,
		},
		LogLevel:    strings.ToUpper(v.GetString("LOG_LEVEL")),
		AutoMigrate: v.GetBool("AUTO_MIGRATE"),
	}, nil
}
