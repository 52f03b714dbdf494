package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Storage backends understood by the server.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMySQL  = "mysql"
)

// Config holds all configuration for our application
type Config struct {
	Port                 string
	Origin               string
	Environment          string
	LogLevel             string
	JWTSecret            string
	JWTExpirationMinutes int
	IDStrategy           string
	Storage              StorageConfig
	Database             DatabaseConfig
	Redis                RedisConfig
	Mailer               MailerConfig
	AppURL               string
}

// StorageConfig selects where collections are persisted.
type StorageConfig struct {
	Backend string
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	DSN      string
}

// RedisConfig holds redis connection details
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	Namespace string
}

// MailerConfig holds email service configuration
type MailerConfig struct {
	DefaultFrom string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "3306"),
		Username: getEnv("DB_USERNAME", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "midwife_demo"),
	}

	dbConfig.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		dbConfig.Username, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name)

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	jwtExpMinutes, err := strconv.Atoi(getEnv("JWT_EXPIRATION_MINUTES", "120"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_MINUTES: %w", err)
	}
	if jwtExpMinutes <= 0 {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_MINUTES: must be positive")
	}

	backend := strings.ToLower(getEnv("STORAGE_BACKEND", BackendMemory))
	switch backend {
	case BackendMemory, BackendRedis, BackendMySQL:
	default:
		return nil, fmt.Errorf("invalid STORAGE_BACKEND %q: want memory, redis or mysql", backend)
	}

	idStrategy := strings.ToLower(getEnv("ID_STRATEGY", "uuid"))
	if idStrategy != "uuid" && idStrategy != "ulid" {
		return nil, fmt.Errorf("invalid ID_STRATEGY %q: want uuid or ulid", idStrategy)
	}

	return &Config{
		Port:                 getEnv("PORT", "3001"),
		Origin:               getEnv("ORIGIN", "http://localhost:5173"),
		Environment:          getEnv("NODE_ENV", "development"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		JWTSecret:            getEnv("JWT_SECRET", "default_jwt_secret"),
		JWTExpirationMinutes: jwtExpMinutes,
		IDStrategy:           idStrategy,
		Storage:              StorageConfig{Backend: backend},
		Database:             dbConfig,
		Redis: RedisConfig{
			Addr:      getEnv("REDIS_ADDR", "localhost:6379"),
			Password:  getEnv("REDIS_PASSWORD", ""),
			DB:        redisDB,
			Namespace: getEnv("REDIS_NAMESPACE", "midwife-demo"),
		},
		Mailer: MailerConfig{
			DefaultFrom: getEnv("MAILER_DEFAULT_FROM", "no-reply@midwife.local"),
		},
		AppURL: getEnv("APP_URL", "http://localhost:3001"),
	}, nil
}

// IsProduction reports whether the server runs with production settings.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
