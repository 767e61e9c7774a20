package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	LogLevel string
	Port     uint16
	BaseURL  string // Public storefront URL, used to build gateway return URLs
	API      APIConfig
	Checkout CheckoutConfig
	Payment  PaymentConfig
	Storage  StorageConfig
	Session  SessionConfig
	Sentry   SentryConfig
}

// APIConfig configures the client for the external catalog/order/review/auth service.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
	Breaker BreakerConfig
}

// BreakerConfig tunes the circuit breaker around outbound API calls.
type BreakerConfig struct {
	MaxRequests         uint32        // Requests allowed through while half-open
	Interval            time.Duration // Closed-state counter reset period
	Timeout             time.Duration // How long the breaker stays open
	ConsecutiveFailures uint32        // Failures in a row that open the breaker
}

// CheckoutConfig holds pricing rules. Amounts are whole currency units.
type CheckoutConfig struct {
	FreeShippingThreshold int64 // Subtotals strictly above this ship free
	FlatShippingFee       int64
}

// PaymentConfig lists the enabled gateways and their settings.
type PaymentConfig struct {
	Methods []string // Enabled payment methods in display order (e.g. "verge")
	Verge   VergeConfig
	Stripe  StripeConfig
}

// VergeConfig configures interpretation of Verge callbacks.
type VergeConfig struct {
	SuccessCode string
}

type StripeConfig struct {
	SecretKey string
}

type StorageConfig struct {
	Provider      string // "memory", "local", "redis" or "r2"
	KeyPrefix     string
	TTL           time.Duration
	LocalPath     string
	RedisURL      string
	R2AccountID   string
	R2AccessKeyID string
	R2SecretKey   string
	R2BucketName  string
}

// SessionConfig configures the shopper session cookie.
type SessionConfig struct {
	CookieName string
	Secure     bool
	MaxAge     time.Duration
}

// SentryConfig holds configuration for Sentry error tracking
type SentryConfig struct {
	DSN              string
	Enabled          bool
	Environment      string
	Release          string
	SampleRate       float64
	TracesSampleRate float64
	Debug            bool
}

func NewConfig() (*Config, error) {
	// Try to load .env from current directory, then walk up to find it (max 2 levels)
	err := godotenv.Load()
	if err != nil {
		dir, _ := os.Getwd()
		found := false
		for i := 0; i < 2; i++ {
			dir = filepath.Join(dir, "..")
			if err := godotenv.Load(filepath.Join(dir, ".env")); err == nil {
				found = true
				break
			}
		}
		if !found {
			slog.Default().Warn("Warning: .env file not found, using environment variables and defaults")
		}
	}

	return loadConfig()
}

// loadConfig reads the process environment into a Config.
func loadConfig() (*Config, error) {
	cfg := &Config{
		Env:      getEnv("ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Port:     getEnvInt("PORT", 3000),
		BaseURL:  getEnv("BASE_URL", "http://localhost:3000"),
		API: APIConfig{
			BaseURL: strings.TrimSuffix(getEnv("API_BASE_URL", "http://localhost:8000/api"), "/"),
			Timeout: getEnvDuration("API_TIMEOUT", 30*time.Second),
			Breaker: BreakerConfig{
				MaxRequests:         uint32(getEnvInt("API_BREAKER_MAX_REQUESTS", 1)),
				Interval:            getEnvDuration("API_BREAKER_INTERVAL", time.Minute),
				Timeout:             getEnvDuration("API_BREAKER_TIMEOUT", 30*time.Second),
				ConsecutiveFailures: uint32(getEnvInt("API_BREAKER_FAILURES", 5)),
			},
		},
		Checkout: CheckoutConfig{
			FreeShippingThreshold: getEnvInt64("FREE_SHIPPING_THRESHOLD", 50000),
			FlatShippingFee:       getEnvInt64("FLAT_SHIPPING_FEE", 3000),
		},
		Payment: PaymentConfig{
			Methods: getEnvList("PAYMENT_METHODS", []string{"verge"}),
			Verge: VergeConfig{
				SuccessCode: getEnv("VERGE_SUCCESS_CODE", "00"),
			},
			Stripe: StripeConfig{
				SecretKey: getEnv("STRIPE_SECRET_KEY", ""),
			},
		},
		Storage: StorageConfig{
			Provider:      getEnv("STORAGE_PROVIDER", "memory"),
			KeyPrefix:     getEnv("STORAGE_KEY_PREFIX", "vortex:"),
			TTL:           getEnvDuration("STORAGE_TTL", 30*24*time.Hour),
			LocalPath:     getEnv("LOCAL_STORAGE_PATH", "./data/sessions"),
			RedisURL:      getEnv("REDIS_URL", ""),
			R2AccountID:   getEnv("R2_ACCOUNT_ID", ""),
			R2AccessKeyID: getEnv("R2_ACCESS_KEY_ID", ""),
			R2SecretKey:   getEnv("R2_SECRET_ACCESS_KEY", ""),
			R2BucketName:  getEnv("R2_BUCKET_NAME", ""),
		},
		Session: SessionConfig{
			CookieName: getEnv("SESSION_COOKIE_NAME", "vortex_session"),
			Secure:     getEnvBool("SESSION_COOKIE_SECURE", false),
			MaxAge:     getEnvDuration("SESSION_MAX_AGE", 30*24*time.Hour),
		},
		Sentry: SentryConfig{
			DSN:              getEnv("SENTRY_DSN", ""),
			Enabled:          getEnvBool("SENTRY_ENABLED", false), // Disabled by default for development
			Environment:      getEnv("SENTRY_ENVIRONMENT", "development"),
			Release:          getEnv("SENTRY_RELEASE", ""),
			SampleRate:       getEnvFloat("SENTRY_SAMPLE_RATE", 1.0),
			TracesSampleRate: getEnvFloat("SENTRY_TRACES_SAMPLE_RATE", 0.0),
			Debug:            getEnvBool("SENTRY_DEBUG", false),
		},
	}

	// Validate env
	validEnv := cfg.Env == "dev" || cfg.Env == "prod"
	if !validEnv {
		slog.Default().Warn("Invalid environment. Using default: prod", slog.String("env", cfg.Env))
		cfg.Env = "prod"
	}

	// Validate log level
	validLevel := cfg.LogLevel == "info" || cfg.LogLevel == "debug" || cfg.LogLevel == "warn" || cfg.LogLevel == "error"
	if !validLevel {
		slog.Default().Warn("Invalid log level. Using default: info", slog.String("value", cfg.LogLevel))
		cfg.LogLevel = "info"
	}

	if cfg.Checkout.FreeShippingThreshold < 0 || cfg.Checkout.FlatShippingFee < 0 {
		return nil, fmt.Errorf("shipping threshold and fee must not be negative")
	}

	if len(cfg.Payment.Methods) == 0 {
		return nil, fmt.Errorf("PAYMENT_METHODS must enable at least one gateway")
	}

	// Session storage must survive restarts in production
	if cfg.Env == "prod" && cfg.Storage.Provider == "memory" {
		slog.Default().Warn("memory session storage in production loses carts on restart")
	}

	if cfg.Storage.Provider == "redis" && cfg.Storage.RedisURL == "" {
		return nil, fmt.Errorf("REDIS_URL required when using redis storage")
	}

	// Validate R2 configuration in production
	if cfg.Env == "prod" && cfg.Storage.Provider == "r2" {
		if cfg.Storage.R2AccountID == "" {
			return nil, fmt.Errorf("R2_ACCOUNT_ID required when using R2 storage in production")
		}
		if cfg.Storage.R2AccessKeyID == "" || cfg.Storage.R2SecretKey == "" {
			return nil, fmt.Errorf("R2 credentials required when using R2 storage in production")
		}
		if cfg.Storage.R2BucketName == "" {
			return nil, fmt.Errorf("R2_BUCKET_NAME required when using R2 storage in production")
		}
	}

	if cfg.Env == "prod" {
		cfg.Session.Secure = true
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue uint16) uint16 {
	if value := os.Getenv(key); value != "" {
		var intValue uint16
		if _, err := fmt.Sscanf(value, "%d", &intValue); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		var intValue int64
		if _, err := fmt.Sscanf(value, "%d", &intValue); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		var floatValue float64
		if _, err := fmt.Sscanf(value, "%f", &floatValue); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvList parses a comma-separated list, dropping blanks.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
