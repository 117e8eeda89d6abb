package config

import (
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cast"
)

// Config holds all runtime settings, loaded once from the environment.
type Config struct {
	Port     string
	MockMode bool

	MongoURI   string
	RedisAddr  string
	RedisPass  string
	RedisQueue string

	JWTSecret         string
	AdminPasswordHash string

	GeocoderURL    string
	GeocoderAPIKey string

	// MockLatency is the simulated store delay in mock mode.
	MockLatency time.Duration
	// SummaryRefreshInterval drives the background dashboard refresher.
	SummaryRefreshInterval time.Duration
	// ReportRateLimit caps reports per client per day. 0 disables the limiter.
	ReportRateLimit int
}

var (
	cfg  Config
	once sync.Once
)

// Load reads the .env file (if present) and the environment, and returns
// the process-wide configuration. Subsequent calls return the same value.
func Load() Config {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			log.Info("No .env file found")
		}

		cfg = Config{
			Port:                   getEnv("PORT", "8080"),
			MockMode:               cast.ToBool(getEnv("MOCK_MODE", "false")),
			MongoURI:               os.Getenv("MONGODB_URI"),
			RedisAddr:              os.Getenv("REDIS_ADDRESS"),
			RedisPass:              os.Getenv("REDIS_PASSWORD"),
			RedisQueue:             getEnv("REDIS_QUEUE_FOR_REPORT_LIMIT", "civicapp:reports"),
			JWTSecret:              getEnv("JWT_SECRET", ""),
			AdminPasswordHash:      os.Getenv("ADMIN_PASSWORD_HASH"),
			GeocoderURL:            os.Getenv("GEOCODER_URL"),
			GeocoderAPIKey:         os.Getenv("GEOCODER_API_KEY"),
			MockLatency:            cast.ToDuration(getEnv("MOCK_LATENCY", "500ms")),
			SummaryRefreshInterval: cast.ToDuration(getEnv("SUMMARY_REFRESH_INTERVAL", "15s")),
			ReportRateLimit:        cast.ToInt(getEnv("REPORT_RATE_LIMIT", "10")),
		}
	})
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
