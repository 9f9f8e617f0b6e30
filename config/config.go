package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

// DefaultJWTSecret is only accepted in development.
const DefaultJWTSecret = "your-secret-key-change-this-in-prod"

type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	Storage  StorageConfig
	Postgres PostgresConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Elastic  ElasticsearchConfig
	I18n     I18nConfig
}

type ServerConfig struct {
	AppEnv         string
	HTTPPort       string
	AllowedOrigins []string
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

// StorageConfig selects the persistence driver: "postgres" or "memory".
type StorageConfig struct {
	Driver string
}

type PostgresConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	ConnMaxIdleTime int
	AutoMigrate     bool
}

type JWTConfig struct {
	SecretKey string
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Enabled     bool
	Brokers     []string
	OrdersTopic string
	EventsTopic string
	GroupID     string
}

type ElasticsearchConfig struct {
	Enabled   bool
	Addresses []string
	Username  string
	Password  string
}

type I18nConfig struct {
	DefaultLanguage string
}

func LoadEnv() *Config {
	return &Config{
		Server: ServerConfig{
			AppEnv:         getEnv("APP_ENV", "development"),
			HTTPPort:       getEnv("HTTP_PORT", ":8083"),
			AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", nil),
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "debug"),
			Encoding:          getEnv("LOGGER_ENCODING", "console"),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
		},
		Storage: StorageConfig{
			Driver: getEnv("STORAGE_DRIVER", "postgres"),
		},
		Postgres: PostgresConfig{
			Host:            getEnv("POSTGRES_HOST", "localhost"),
			Port:            getEnv("POSTGRES_PORT", "5433"),
			User:            getEnv("POSTGRES_USER", "omnipos"),
			Password:        getEnv("POSTGRES_PASSWORD", "omnipos"),
			DBName:          getEnv("POSTGRES_DB", "omnipos_inventory"),
			SSLMode:         getEnv("POSTGRES_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("POSTGRES_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("POSTGRES_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvInt("POSTGRES_CONN_MAX_LIFETIME", 300),
			ConnMaxIdleTime: getEnvInt("POSTGRES_CONN_MAX_IDLE_TIME", 60),
			AutoMigrate:     getEnvBool("POSTGRES_AUTO_MIGRATE", true),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET_KEY", DefaultJWTSecret),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", true),
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Enabled:     getEnvBool("KAFKA_ENABLED", true),
			Brokers:     getEnvSlice("KAFKA_BROKERS", []string{"localhost:9092"}),
			OrdersTopic: getEnv("KAFKA_TOPIC_ORDERS", "orders.events"),
			EventsTopic: getEnv("KAFKA_TOPIC_INVENTORY", "inventory.events"),
			GroupID:     getEnv("KAFKA_GROUP_INVENTORY", "inventory"),
		},
		Elastic: ElasticsearchConfig{
			Enabled:   getEnvBool("ELASTICSEARCH_ENABLED", true),
			Addresses: getEnvSlice("ELASTICSEARCH_ADDRESSES", []string{"http://localhost:9200"}),
			Username:  getEnv("ELASTICSEARCH_USERNAME", ""),
			Password:  getEnv("ELASTICSEARCH_PASSWORD", ""),
		},
		I18n: I18nConfig{
			DefaultLanguage: getEnv("I18N_DEFAULT_LANGUAGE", "en"),
		},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.AppEnv == "dev"
}

// Validate rejects settings that are only safe on a developer machine.
func (c *Config) Validate() error {
	if c.JWT.SecretKey == "" {
		return errors.New("JWT_SECRET_KEY is empty")
	}
	if !c.IsDevelopment() && c.JWT.SecretKey == DefaultJWTSecret {
		return errors.New("JWT_SECRET_KEY must be set outside development")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	if value, ok := os.LookupEnv(key); ok {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return fallback
}
