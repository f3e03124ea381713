package config

import (
	"os"
	"strconv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort    string
	DBDriver      string
	MySQLDSN      string
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	JWTSecret     string
	JWTIssuer     string
	JWTAudience   string
	TokenTTLHours int
	SwaggerHost   string
	SeedDemoData  bool
}

// Load builds Config from environment with sensible defaults.
// The default driver is the in-memory sqlite store; set DB_DRIVER=mysql
// together with MYSQL_DSN for a persistent backend.
func Load() *Config {
	return &Config{
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		DBDriver:      getEnv("DB_DRIVER", "sqlite"),
		MySQLDSN:      getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/taskmanager?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		RedisPass:     os.Getenv("REDIS_PASSWORD"),
		JWTSecret:     getEnv("JWT_SECRET", "change-me"),
		JWTIssuer:     getEnv("JWT_ISSUER", "TaskManagerAPI"),
		JWTAudience:   getEnv("JWT_AUDIENCE", "TaskManagerClients"),
		TokenTTLHours: getEnvInt("TOKEN_TTL_HOURS", 24),
		SwaggerHost:   os.Getenv("SWAGGER_HOST"),
		SeedDemoData:  getEnvBool("SEED_DEMO_DATA", true),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}
