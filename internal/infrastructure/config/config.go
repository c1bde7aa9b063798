// internal/infrastructure/config/config.go
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Mirror backends
const (
	MirrorBackendMongo  = "mongo"
	MirrorBackendRedis  = "redis"
	MirrorBackendMemory = "memory"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string
	LogLevel   string

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Station
	StationAirport string
	Timezone       string

	// Identity used until a user signs in; empty means the shared "public" scope
	DefaultUserID string

	// Mirror
	MirrorBackend string

	// MongoDB
	MongoURI        string
	MongoDB         string
	MongoUser       string
	MongoPassword   string
	MongoCollection string

	// Redis
	RedisURL       string
	RedisKeyPrefix string

	// PostgreSQL
	PostgresURI string

	// Outbox
	OutboxPath        string
	SyncPollInterval  time.Duration
	SyncPushTimeout   time.Duration
	SyncMaxRetries    int
	SyncRatePerSecond float64
	SyncBatchSize     int

	// Processes
	ExpireSweepInterval time.Duration

	// Alerts
	NotificationEndpoint string
	NotificationToken    string

	// Gmail
	GmailClientID     string
	GmailClientSecret string
	GmailRefreshToken string
	IncidentSender    string
	IncidentRecipient string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		AppVersion:   getEnv("APP_VERSION", "1.0.0"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,

		StationAirport: getEnv("STATION_AIRPORT", "MCZ"),
		Timezone:       getEnv("TIMEZONE", "America/Sao_Paulo"),
		DefaultUserID:  getEnv("DEFAULT_USER_ID", ""),

		MirrorBackend: getEnv("MIRROR_BACKEND", MirrorBackendMongo),

		MongoURI:        getEnv("MONGODB_DSN", "mongodb://localhost:27017"),
		MongoDB:         getEnv("MONGO_DB", "groundops"),
		MongoUser:       getEnv("MONGO_USER", ""),
		MongoPassword:   getEnv("MONGO_PASSWORD", ""),
		MongoCollection: getEnv("MONGO_MIRROR_COLLECTION", "mirror_documents"),

		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379/0"),
		RedisKeyPrefix: getEnv("REDIS_KEY_PREFIX", "groundops:"),

		PostgresURI: getEnv("POSTGRES_DSN", ""),

		OutboxPath:        getEnv("OUTBOX_PATH", ""),
		SyncPollInterval:  time.Duration(getEnvAsInt("SYNC_POLL_INTERVAL", 5)) * time.Second,
		SyncPushTimeout:   time.Duration(getEnvAsInt("SYNC_PUSH_TIMEOUT", 10)) * time.Second,
		SyncMaxRetries:    getEnvAsInt("SYNC_MAX_RETRIES", 5),
		SyncRatePerSecond: getEnvAsFloat("SYNC_RATE_PER_SECOND", 5),
		SyncBatchSize:     getEnvAsInt("SYNC_BATCH_SIZE", 50),

		ExpireSweepInterval: time.Duration(getEnvAsInt("EXPIRE_SWEEP_INTERVAL", 300)) * time.Second,

		NotificationEndpoint: getEnv("NOTIFICATION_SERVICE_URL", ""),
		NotificationToken:    getEnv("NOTIFICATION_TOKEN", ""),

		GmailClientID:     getEnv("GMAIL_CLIENT_ID", ""),
		GmailClientSecret: getEnv("GMAIL_CLIENT_SECRET", ""),
		GmailRefreshToken: getEnv("GMAIL_REFRESH_TOKEN", ""),
		IncidentSender:    getEnv("INCIDENT_SENDER", "me"),
		IncidentRecipient: getEnv("INCIDENT_RECIPIENT", ""),
	}

	return config, nil
}

// Location resolves the configured time zone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}
