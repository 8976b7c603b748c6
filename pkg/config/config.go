package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full service configuration. Values come from an optional
// YAML file and may be overridden by environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr           string        `mapstructure:"addr"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// DatabaseConfig configures the Postgres connection.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig configures the cache connection.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig configures token issuance.
type AuthConfig struct {
	SecretKey     string        `mapstructure:"secret_key"`
	AccessExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshExpiry time.Duration `mapstructure:"refresh_expiry"`
}

// KafkaConfig configures the event producer. An empty broker list disables
// event publishing.
type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// Load reads configuration from configPath (when the file exists) and applies
// environment variable overrides, then fills in defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix("NOTEHUB")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":" + GetEnv("PORT", "8080")
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 30 * time.Second
	}

	if cfg.Database.Host == "" {
		cfg.Database.Host = GetEnv("DB_HOST", "localhost")
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = GetEnvAsInt("DB_PORT", 5432)
	}
	if cfg.Database.User == "" {
		cfg.Database.User = GetEnv("DB_USER", "postgres")
	}
	if cfg.Database.Password == "" {
		cfg.Database.Password = GetEnv("DB_PASSWORD", "postgres")
	}
	if cfg.Database.Database == "" {
		cfg.Database.Database = GetEnv("DB_NAME", "notehub")
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = GetEnv("DB_SSLMODE", "disable")
	}

	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = GetEnv("REDIS_ADDR", "localhost:6379")
	}

	if cfg.Auth.SecretKey == "" {
		cfg.Auth.SecretKey = GetEnv("AUTH_SECRET_KEY", "")
	}
	if cfg.Auth.AccessExpiry == 0 {
		cfg.Auth.AccessExpiry = GetEnvAsDuration("AUTH_ACCESS_EXPIRY", time.Hour)
	}
	if cfg.Auth.RefreshExpiry == 0 {
		cfg.Auth.RefreshExpiry = GetEnvAsDuration("AUTH_REFRESH_EXPIRY", 30*24*time.Hour)
	}

	if len(cfg.Kafka.Brokers) == 0 {
		if brokers := GetEnv("KAFKA_BROKERS", ""); brokers != "" {
			cfg.Kafka.Brokers = strings.Split(brokers, ",")
		}
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = GetEnv("KAFKA_TOPIC", "note-events")
	}
}

// GetEnv returns the environment variable value or a default when unset.
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvAsInt returns the environment variable parsed as an int, or a default.
func GetEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// GetEnvAsDuration returns the environment variable parsed as a duration, or
// a default.
func GetEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
