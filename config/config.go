package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port string `mapstructure:"port"`
		Host string `mapstructure:"host"`
		Name string `mapstructure:"name"`
	} `mapstructure:"server"`

	Database struct {
		Type       string `mapstructure:"type"`     // "sqlite3" or "postgres"
		Database   string `mapstructure:"database"` // db name or file path
		Host       string `mapstructure:"host"`
		Port       int    `mapstructure:"port"`
		User       string `mapstructure:"user"`
		Password   string `mapstructure:"password"`
		SSLMode    string `mapstructure:"ssl_mode"`
		Migrations string `mapstructure:"migrations"`
	} `mapstructure:"database"`

	Chat struct {
		SendBuffer     int   `mapstructure:"send_buffer"`
		MaxMessageSize int64 `mapstructure:"max_message_size"`

		RateLimit struct {
			Burst          int    `mapstructure:"burst"`
			RefillInterval string `mapstructure:"refill_interval"`
		} `mapstructure:"rate_limit"`
	} `mapstructure:"chat"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Environment variable support
	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	// Read config file (optional - fallback to env vars)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.port", "8000")
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.name", "GABBER")
	viper.SetDefault("database.type", "sqlite3")
	viper.SetDefault("database.database", "gabber.db")
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("database.migrations", "migrations")
	viper.SetDefault("chat.send_buffer", 256)
	viper.SetDefault("chat.max_message_size", 4096)
	viper.SetDefault("chat.rate_limit.burst", 10)
	viper.SetDefault("chat.rate_limit.refill_interval", "1s")
}
