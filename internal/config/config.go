package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/eugenek0529/reservation-system/internal/cache"
	"github.com/eugenek0529/reservation-system/internal/database"
	"github.com/eugenek0529/reservation-system/internal/messaging"
	"github.com/eugenek0529/reservation-system/internal/search"
)

// Config holds the application configuration
type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration

	JWTSecret   string
	PublicRPS   float64
	PublicBurst int

	// Proxies whose X-Forwarded-For is trusted; empty uses the peer address
	TrustedProxies []string

	// Background month seeding
	SeedInterval    time.Duration
	SeedMonthsAhead int
	MetricsPort     string

	Database      database.Config
	NATS          messaging.Config
	Redis         cache.Config
	Elasticsearch search.Config
}

// Load reads the configuration from environment variables. A .env file in the
// working directory is loaded first when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug(".env not loaded, using process environment", "error", err)
	}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 30)) * time.Second,

		JWTSecret:   getEnv("JWT_SECRET", ""),
		PublicRPS:   getEnvFloat("PUBLIC_RPS", 5),
		PublicBurst: getEnvInt("PUBLIC_BURST", 10),

		TrustedProxies: getEnvList("TRUSTED_PROXIES"),

		SeedInterval:    time.Duration(getEnvInt("SEED_INTERVAL_MIN", 60)) * time.Minute,
		SeedMonthsAhead: getEnvInt("SEED_MONTHS_AHEAD", 1),
		MetricsPort:     getEnv("METRICS_PORT", "9091"),

		Database: database.Config{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "reservations"),
			Password:           getEnv("DB_PASSWORD", "reservations"),
			DBName:             getEnv("DB_NAME", "reservations"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
			ConnMaxIdleTimeMin: getEnvInt("DB_CONN_MAX_IDLE_TIME_MIN", 1),
		},

		NATS: messaging.Config{
			Enabled:   getEnvBool("NATS_ENABLED", true),
			URL:       getEnv("NATS_URL", "nats://localhost:4222"),
			ClusterID: getEnv("NATS_CLUSTER_ID", "reservations"),
			ClientID:  getEnv("NATS_CLIENT_ID", "reservations-api"),
		},

		Redis: cache.Config{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			TTL:      time.Duration(getEnvInt("REDIS_TTL_SEC", 60)) * time.Second,
		},

		Elasticsearch: search.Config{
			URL:        getEnv("ELASTICSEARCH_URL", ""),
			Index:      getEnv("ELASTICSEARCH_INDEX", "customers"),
			Username:   os.Getenv("ELASTICSEARCH_USERNAME"),
			Password:   os.Getenv("ELASTICSEARCH_PASSWORD"),
			MaxRetries: getEnvInt("ELASTICSEARCH_MAX_RETRIES", 3),
		},
	}
}

// getEnv returns the environment value or the default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns an integer environment value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvList splits a comma separated variable, dropping empty entries
func getEnvList(key string) []string {
	var items []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
