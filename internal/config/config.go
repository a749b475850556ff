package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAppName           = "ScootGate"
	defaultAppEnv            = "development"
	defaultPort              = "8080"
	defaultLogLevel          = "info"
	defaultShutdownDelay     = 10 * time.Second
	defaultAccessTokenTTL    = time.Hour
	defaultCipherShift       = 3
	defaultChallengeAttempts = 3
	defaultSessionTTL        = 5 * time.Minute
	defaultPendingSignupTTL  = 24 * time.Hour
	defaultIdempotencyTTL    = 24 * time.Hour
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName              string
	AppEnv               string
	Port                 string
	LogLevel             string
	DatabaseURL          string
	RedisURL             string
	JWTSecret            string
	AccessTokenTTL       time.Duration
	CipherShift          int
	MaxChallengeAttempts int
	ChallengeSessionTTL  time.Duration
	PendingSignupTTL     time.Duration
	ShutdownPeriod       time.Duration
	IdempotencyTTL       time.Duration
}

// Load reads configuration values from the environment and populates a Config instance.
func Load() (Config, error) {
	cfg := Config{
		AppName:              getEnv("APP_NAME", defaultAppName),
		AppEnv:               getEnv("APP_ENV", defaultAppEnv),
		Port:                 getEnv("PORT", defaultPort),
		LogLevel:             strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		RedisURL:             os.Getenv("REDIS_URL"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		AccessTokenTTL:       defaultAccessTokenTTL,
		CipherShift:          defaultCipherShift,
		MaxChallengeAttempts: defaultChallengeAttempts,
		ChallengeSessionTTL:  defaultSessionTTL,
		PendingSignupTTL:     defaultPendingSignupTTL,
		ShutdownPeriod:       defaultShutdownDelay,
		IdempotencyTTL:       defaultIdempotencyTTL,
	}

	var err error
	if cfg.AccessTokenTTL, err = durationEnv("ACCESS_TOKEN_TTL", cfg.AccessTokenTTL); err != nil {
		return Config{}, err
	}
	if cfg.ChallengeSessionTTL, err = durationEnv("CHALLENGE_SESSION_TTL", cfg.ChallengeSessionTTL); err != nil {
		return Config{}, err
	}
	if cfg.PendingSignupTTL, err = durationEnv("PENDING_SIGNUP_TTL", cfg.PendingSignupTTL); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownPeriod, err = durationEnv("SHUTDOWN_TIMEOUT", cfg.ShutdownPeriod); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = durationEnv("IDEMPOTENCY_TTL", cfg.IdempotencyTTL); err != nil {
		return Config{}, err
	}
	if cfg.CipherShift, err = intEnv("CIPHER_SHIFT", cfg.CipherShift); err != nil {
		return Config{}, err
	}
	if cfg.MaxChallengeAttempts, err = intEnv("MAX_CHALLENGE_ATTEMPTS", cfg.MaxChallengeAttempts); err != nil {
		return Config{}, err
	}

	if cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("REDIS_URL must be set")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET must be set")
	}
	// DATABASE_URL stays optional: routes fall back to in-memory repositories
	// in development when no database is configured.

	if cfg.CipherShift%26 == 0 {
		return Config{}, fmt.Errorf("CIPHER_SHIFT must not be a multiple of 26")
	}

	return cfg, nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	if seconds, err := strconv.Atoi(v); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
