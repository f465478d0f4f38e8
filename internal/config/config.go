/**
 * @description
 * This package handles configuration management for the service. It uses the
 * Viper library to read configuration from environment variables and an
 * optional .env file, providing a centralized way to manage settings.
 *
 * @dependencies
 * - github.com/spf13/viper: Configuration loading and binding.
 */

package config

import (
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds all the configuration variables for the account-service.
type Config struct {
	ServerPort              string `mapstructure:"SERVER_PORT"`
	DatabaseURL             string `mapstructure:"DATABASE_URL"`
	RedisURL                string `mapstructure:"REDIS_URL"`
	RedisRateLimitPrefix    string `mapstructure:"REDIS_RATE_LIMIT_PREFIX"`
	RabbitMQURL             string `mapstructure:"RABBITMQ_URL"`
	EventsExchange          string `mapstructure:"EVENTS_EXCHANGE"`
	CORSAllowedOrigins      string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	ProviderCallbackKey     string `mapstructure:"PROVIDER_CALLBACK_KEY"`
	SessionTTLHours         int    `mapstructure:"SESSION_TTL_HOURS"`
	LoginRateLimitPerMinute int    `mapstructure:"LOGIN_RATE_LIMIT_PER_MINUTE"`
	StaleDepositHours       int    `mapstructure:"STALE_DEPOSIT_HOURS"`
	SweeperSchedule         string `mapstructure:"SWEEPER_SCHEDULE"`
}

// LoadConfig reads configuration from environment variables and the optional
// .env file at the given path.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("EVENTS_EXCHANGE", "vaultra.events")
	viper.SetDefault("REDIS_RATE_LIMIT_PREFIX", "vaultra:rate_limit")
	viper.SetDefault("SESSION_TTL_HOURS", 720)
	viper.SetDefault("LOGIN_RATE_LIMIT_PER_MINUTE", 10)
	viper.SetDefault("STALE_DEPOSIT_HOURS", 72)
	viper.SetDefault("SWEEPER_SCHEDULE", "@every 1h")

	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("DATABASE_URL")
	_ = viper.BindEnv("REDIS_URL")
	_ = viper.BindEnv("REDIS_RATE_LIMIT_PREFIX")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("EVENTS_EXCHANGE")
	_ = viper.BindEnv("CORS_ALLOWED_ORIGINS")
	_ = viper.BindEnv("PROVIDER_CALLBACK_KEY")
	_ = viper.BindEnv("SESSION_TTL_HOURS")
	_ = viper.BindEnv("LOGIN_RATE_LIMIT_PER_MINUTE")
	_ = viper.BindEnv("STALE_DEPOSIT_HOURS")
	_ = viper.BindEnv("SWEEPER_SCHEDULE")

	// The .env file is optional; environment variables alone are fine.
	if err = viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			zap.L().Warn("failed to read config file; using environment values", zap.Error(err))
		}
		err = nil
	}

	if err = viper.Unmarshal(&config); err != nil {
		return
	}

	config.RedisURL = strings.TrimSpace(config.RedisURL)
	config.RedisRateLimitPrefix = strings.TrimSpace(config.RedisRateLimitPrefix)
	if config.RedisRateLimitPrefix == "" {
		config.RedisRateLimitPrefix = "vaultra:rate_limit"
	}
	if config.SessionTTLHours <= 0 {
		config.SessionTTLHours = 720
	}
	if config.LoginRateLimitPerMinute <= 0 {
		config.LoginRateLimitPerMinute = 10
	}
	if config.StaleDepositHours <= 0 {
		config.StaleDepositHours = 72
	}
	if strings.TrimSpace(config.SweeperSchedule) == "" {
		config.SweeperSchedule = "@every 1h"
	}

	return
}

// AllowedOrigins splits the comma-separated CORS origin list.
func (c Config) AllowedOrigins() []string {
	raw := strings.TrimSpace(c.CORSAllowedOrigins)
	if raw == "" {
		return []string{"*"}
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
