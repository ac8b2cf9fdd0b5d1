package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"goldcinema/internal/cache"
	"goldcinema/internal/database"
	"goldcinema/internal/external"
	"goldcinema/internal/messaging"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port      string
	GinMode   string
	LogLevel  string
	LogFormat string

	// "memory" or "postgres"
	BookingStore string

	// Optional HS256 secret for decoding bearer tokens; empty disables auth.
	JWTSecret string

	Database database.Config
	NATS     messaging.Config
	Valkey   cache.Config
	Mpesa    external.MpesaConfig
	Expiry   ExpiryConfig
}

// ExpiryConfig controls the pending-booking reclamation job.
type ExpiryConfig struct {
	Enabled       bool
	Timeout       time.Duration
	CheckInterval time.Duration
}

// Load reads configuration from the environment, honoring a local .env file.
func Load() *Config {
	godotenv.Load()

	return &Config{
		Port:      getEnv("PORT", "8080"),
		GinMode:   getEnv("GIN_MODE", "debug"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		BookingStore: getEnv("BOOKING_STORE", "memory"),
		JWTSecret:    getEnv("JWT_SECRET", ""),

		Database: database.Config{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "goldcinema"),
			Password:           getEnv("DB_PASSWORD", "goldcinema123"),
			DBName:             getEnv("DB_NAME", "goldcinema"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 50),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
			ConnMaxIdleTimeMin: getEnvInt("DB_CONN_MAX_IDLE_TIME_MIN", 1),
		},

		NATS: messaging.Config{
			URL:       getEnv("NATS_URL", "nats://localhost:4222"),
			ClusterID: getEnv("NATS_CLUSTER_ID", "goldcinema"),
			ClientID:  getEnv("NATS_CLIENT_ID", "goldcinema-api"),
		},

		Valkey: cache.Config{
			Addr:     getEnv("VALKEY_ADDR", ""),
			Password: getEnv("VALKEY_PASSWORD", ""),
			TTL:      time.Duration(getEnvInt("VALKEY_TTL_SEC", 300)) * time.Second,
		},

		Mpesa: external.MpesaConfig{
			BaseURL:        getEnv("MPESA_BASE_URL", "https://sandbox.safaricom.co.ke"),
			ConsumerKey:    getEnv("MPESA_CONSUMER_KEY", ""),
			ConsumerSecret: getEnv("MPESA_CONSUMER_SECRET", ""),
			ShortCode:      getEnv("MPESA_SHORTCODE", "174379"),
			Passkey:        getEnv("MPESA_PASSKEY", ""),
			CallbackURL:    callbackURL(),
			Timeout:        time.Duration(getEnvInt("MPESA_TIMEOUT_SEC", 30)) * time.Second,
		},

		Expiry: ExpiryConfig{
			Enabled:       getEnv("BOOKING_EXPIRY_ENABLED", "true") == "true",
			Timeout:       time.Duration(getEnvInt("BOOKING_EXPIRY_TIMEOUT_MIN", 15)) * time.Minute,
			CheckInterval: time.Duration(getEnvInt("BOOKING_EXPIRY_CHECK_SEC", 30)) * time.Second,
		},
	}
}

// callbackURL resolves the URL Daraja posts payment results to. An absolute
// MPESA_CALLBACK_URL wins; otherwise it is derived from BASE_URL.
func callbackURL() string {
	if url := os.Getenv("MPESA_CALLBACK_URL"); url != "" {
		return url
	}
	base := strings.TrimRight(getEnv("BASE_URL", "http://localhost:8080"), "/")
	return base + "/mpesa/callback"
}

// getEnv reads an environment variable with a fallback default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an integer environment variable with a fallback default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
