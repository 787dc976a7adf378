package config

import (
	"os"
	"time"

	"github.com/adilzhn/remindly/pkg/logger"
	"github.com/joho/godotenv"
)

// Config holds all runtime settings, loaded from the environment.
type Config struct {
	Port        string
	MongoURI    string
	MongoDBName string

	JWTSecret   string
	TokenExpiry time.Duration

	// CronSecret is the shared bearer credential for the job trigger
	// endpoints; SchedulerID is the identity marker header value accepted as
	// an alternative.
	CronSecret  string
	SchedulerID string

	// FCMCredentialsFile points at the Firebase service-account JSON. Empty
	// disables push sending (dry-run transport).
	FCMCredentialsFile string

	// ReferenceTZ is the single timezone all day-keys, due windows and quiet
	// hours are evaluated in.
	ReferenceTZ string

	AllowedOrigins []string
}

// LoadConfig reads .env (when present) and the process environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logger.Log.Info("No .env file found, relying on environment")
	}

	return &Config{
		Port:               getEnv("PORT", "8080"),
		MongoURI:           getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:        getEnv("MONGO_DB", "remindly"),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		TokenExpiry:        getDuration("TOKEN_EXPIRY", 72*time.Hour),
		CronSecret:         getEnv("CRON_SECRET", ""),
		SchedulerID:        getEnv("SCHEDULER_ID", "remindly-cron"),
		FCMCredentialsFile: getEnv("FCM_CREDENTIALS_FILE", ""),
		ReferenceTZ:        getEnv("REFERENCE_TZ", "Asia/Bangkok"),
		AllowedOrigins:     []string{getEnv("FRONTEND_ORIGIN", "http://localhost:3000")},
	}
}

// Location resolves the reference timezone, falling back to UTC+7 when the
// name cannot be loaded.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.ReferenceTZ)
	if err != nil {
		logger.Log.WithField("tz", c.ReferenceTZ).Warn("Unknown reference timezone, using UTC+7")
		return time.FixedZone("UTC+7", 7*3600)
	}
	return loc
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
