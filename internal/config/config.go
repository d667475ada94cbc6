package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// JWTSecret signs and verifies session tokens for the role guard.
	JWTSecret string
	// LoginPath is where unauthenticated requests are redirected.
	LoginPath string
	// GuardFallbackPath is where authenticated-but-unauthorized requests go.
	GuardFallbackPath string
	// CachedRoleTTL bounds how long a cached role is trusted when the live
	// session role has not loaded.
	CachedRoleTTL time.Duration

	CORSAllowedOrigins []string

	// RateLimitPerSecond / RateLimitBurst apply to auth-sensitive routes.
	RateLimitPerSecond float64
	RateLimitBurst     int

	// Reconciler settings for the pending-booking sweep.
	ReconcilerEnabled     bool
	ReconcilerInterval    time.Duration
	PendingStaleAfter     time.Duration
	ReconcilerMaxAttempts int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		JWTSecret:         getEnv("JWT_SECRET", ""),
		LoginPath:         getEnv("LOGIN_PATH", "/login"),
		GuardFallbackPath: getEnv("GUARD_FALLBACK_PATH", "/"),
		CachedRoleTTL:     getEnvAsDuration("CACHED_ROLE_TTL", 24*time.Hour),

		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),

		RateLimitPerSecond: getEnvAsFloat("RATE_LIMIT_PER_SECOND", 5),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 10),

		ReconcilerEnabled:     getEnvAsBool("RECONCILER_ENABLED", true),
		ReconcilerInterval:    getEnvAsDuration("RECONCILER_INTERVAL", time.Minute),
		PendingStaleAfter:     getEnvAsDuration("PENDING_STALE_AFTER", 5*time.Minute),
		ReconcilerMaxAttempts: getEnvAsInt("RECONCILER_MAX_ATTEMPTS", 3),
	}
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
