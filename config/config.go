// Package config loads the server configuration from a yaml file and
// the environment, with sensible campus defaults.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	Port int    `mapstructure:"PORT"`
	Env  string `mapstructure:"ENV"`

	// Cache backend: "sqlite", "redis", or "memory".
	CacheBackend string `mapstructure:"CACHE_BACKEND"`
	SQLitePath   string `mapstructure:"SQLITE_PATH"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	// Remote table API backend.
	BackendURL        string `mapstructure:"BACKEND_URL"`
	BackendAPIKey     string `mapstructure:"BACKEND_API_KEY"`
	BackendCredential string `mapstructure:"BACKEND_CREDENTIAL"`

	// Institutional identity.
	EmailDomain     string `mapstructure:"EMAIL_DOMAIN"`
	CommissionEmail string `mapstructure:"COMMISSION_EMAIL"`
	CommissionName  string `mapstructure:"COMMISSION_NAME"`

	// Engine tuning.
	SyncCooldownSeconds int `mapstructure:"SYNC_COOLDOWN_SECONDS"`
	MaxWeeksToShow      int `mapstructure:"MAX_WEEKS_TO_SHOW"`

	// CORS origins for the web frontend.
	AllowedOrigins []string `mapstructure:"ALLOWED_ORIGINS"`
}

// SyncCooldown returns the cool-down as a duration.
func (c Config) SyncCooldown() time.Duration {
	return time.Duration(c.SyncCooldownSeconds) * time.Second
}

func (c Config) IsProduction() bool { return c.Env == "production" }

// Load reads config.yaml (from path, the working directory, or ./config)
// and overlays environment variables. A missing file is not an error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if path != "" {
		v.AddConfigPath(path)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()

	v.SetDefault("PORT", 8080)
	v.SetDefault("ENV", "development")
	v.SetDefault("CACHE_BACKEND", "sqlite")
	v.SetDefault("SQLITE_PATH", "schedule.db")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("BACKEND_URL", "")
	v.SetDefault("BACKEND_API_KEY", "")
	v.SetDefault("BACKEND_CREDENTIAL", "")
	v.SetDefault("EMAIL_DOMAIN", "ifsudestemg.edu.br")
	v.SetDefault("COMMISSION_EMAIL", "comissaohorario.sd@ifsudestemg.edu.br")
	v.SetDefault("COMMISSION_NAME", "Comissão de Horários")
	v.SetDefault("SYNC_COOLDOWN_SECONDS", 60)
	v.SetDefault("MAX_WEEKS_TO_SHOW", 4)
	v.SetDefault("ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:8080"})

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}
