// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// ServerHost is the host address the server will bind to.
	ServerHost string
	// ServerPort is the port number the server will listen on.
	ServerPort int

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// ServiceSecret seeds master key derivation. Required, minimum 16 bytes.
	ServiceSecret string
	// KeyRotationInterval is how long a derived master key stays valid before
	// the next operation triggers regeneration.
	KeyRotationInterval time.Duration
	// EncryptionAlgorithm selects the AEAD construction ("aes-gcm" or
	// "chacha20-poly1305").
	EncryptionAlgorithm string

	// RateLimitRequests is the number of requests allowed per identifier and
	// path within RateLimitWindow.
	RateLimitRequests int
	// RateLimitWindow is the fixed window size for request rate limiting.
	RateLimitWindow time.Duration

	// QuotaBaseRequests is the hourly request allowance for base tier clients.
	QuotaBaseRequests int
	// QuotaElevatedRequests is the hourly request allowance for elevated tier clients.
	QuotaElevatedRequests int
	// QuotaWindow is the window over which tier quotas are counted.
	QuotaWindow time.Duration

	// SignatureEnabled indicates whether HMAC request signature verification
	// is enforced on mutating endpoints.
	SignatureEnabled bool
	// SignatureFreshness is the maximum allowed clock skew for signature timestamps.
	SignatureFreshness time.Duration

	// DetectorMaxRequests is the absolute per-source request ceiling tracked
	// by the attack-pattern detector.
	DetectorMaxRequests int
	// DetectorBurstPerSecond is the per-source request rate above which
	// traffic is flagged as a burst anomaly.
	DetectorBurstPerSecond int
	// DetectorMaxRecords bounds the number of live attack-pattern records.
	DetectorMaxRecords int
	// DetectorRecordTTL is how long an attack-pattern record lives without activity.
	DetectorRecordTTL time.Duration

	// SlowRequestThreshold is the latency above which a request is reported
	// as slow.
	SlowRequestThreshold time.Duration

	// EventLogCapacity bounds the shared security event log.
	EventLogCapacity int

	// CORSEnabled indicates whether CORS is enabled.
	CORSEnabled bool
	// CORSAllowOrigins is a comma-separated list of allowed origins for CORS.
	CORSAllowOrigins string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Server configuration
		ServerHost: env.GetString("SERVER_HOST", "0.0.0.0"),
		ServerPort: env.GetInt("SERVER_PORT", 8080),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Encryption
		ServiceSecret:       env.GetString("SERVICE_SECRET", ""),
		KeyRotationInterval: env.GetDuration("KEY_ROTATION_INTERVAL_MINUTES", 60, time.Minute),
		EncryptionAlgorithm: env.GetString("ENCRYPTION_ALGORITHM", "aes-gcm"),

		// Request rate limiting
		RateLimitRequests: env.GetInt("RATE_LIMIT_REQUESTS", 30),
		RateLimitWindow:   env.GetDuration("RATE_LIMIT_WINDOW_SECONDS", 60, time.Second),

		// Tier quotas
		QuotaBaseRequests:     env.GetInt("QUOTA_BASE_REQUESTS", 100),
		QuotaElevatedRequests: env.GetInt("QUOTA_ELEVATED_REQUESTS", 1000),
		QuotaWindow:           env.GetDuration("QUOTA_WINDOW_MINUTES", 60, time.Minute),

		// Request signatures
		SignatureEnabled:   env.GetBool("SIGNATURE_ENABLED", true),
		SignatureFreshness: env.GetDuration("SIGNATURE_FRESHNESS_SECONDS", 300, time.Second),

		// Threat detection
		DetectorMaxRequests:    env.GetInt("DETECTOR_MAX_REQUESTS", 1000),
		DetectorBurstPerSecond: env.GetInt("DETECTOR_BURST_PER_SECOND", 10),
		DetectorMaxRecords:     env.GetInt("DETECTOR_MAX_RECORDS", 10000),
		DetectorRecordTTL:      env.GetDuration("DETECTOR_RECORD_TTL_MINUTES", 60, time.Minute),

		// Performance monitoring
		SlowRequestThreshold: env.GetDuration("SLOW_REQUEST_THRESHOLD_MS", 1000, time.Millisecond),

		// Event log
		EventLogCapacity: env.GetInt("EVENT_LOG_CAPACITY", 1000),

		// CORS
		CORSEnabled:      env.GetBool("CORS_ENABLED", false),
		CORSAllowOrigins: env.GetString("CORS_ALLOW_ORIGINS", ""),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "securevibe"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),
	}
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	switch c.LogLevel {
	case "debug":
		return "debug"
	case "info", "warn", "error":
		return "release"
	default:
		return "release"
	}
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
}
