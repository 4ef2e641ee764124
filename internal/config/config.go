package config

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

var ErrMissingJWTSecret = errors.New("JWT_SECRET is not set")

type Config struct {
	Env  string
	Port int

	DBURL string

	// Auth
	JWTSecret           string
	JWTAccessTTLMinutes int
	AuthExemptPaths     []string

	// Bootstrap admin account (skipped when unset)
	AdminEmail    string
	AdminPassword string
	AdminName     string

	CORSOrigins []string

	// Redis (worker-side send dedup)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	OTLPEndpoint string

	RateLimit       int
	RateLimitWindow time.Duration
	MaxBodyBytes    int64
}

// Paths skipped by the authentication gate. Matches are by prefix,
// except "/" which only matches the root itself.
var defaultExemptPaths = []string{
	"/health",
	"/docs",
	"/redoc",
	"/openapi.json",
	"/auth/login",
	"/auth/logout",
	"/metrics",
	"/",
}

// Load reads configuration from the environment. The signing secret has
// no fallback: a process without an explicit JWT_SECRET must not start.
func Load() (Config, error) {
	cfg := Config{
		Env:                 getEnv("APP_ENV", "dev"),
		Port:                getEnvInt("PORT", 8080),
		DBURL:               buildDBURL(),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		JWTAccessTTLMinutes: getEnvInt("JWT_ACCESS_TTL_MINUTES", 30),
		AuthExemptPaths:     getEnvList("AUTH_EXEMPT_PATHS", defaultExemptPaths),
		AdminEmail:          os.Getenv("ADMIN_EMAIL"),
		AdminPassword:       os.Getenv("ADMIN_PASSWORD"),
		AdminName:           getEnv("ADMIN_NAME", "System Administrator"),
		CORSOrigins:         getEnvList("CORS_ORIGINS", nil),
		RedisAddr:           getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword:       os.Getenv("REDIS_PASSWORD"),
		RedisDB:             getEnvInt("REDIS_DB", 0),
		OTLPEndpoint:        os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		RateLimit:           getEnvInt("RATE_LIMIT", 100),
		RateLimitWindow:     time.Duration(getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second,
		MaxBodyBytes:        int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),
	}

	if cfg.JWTSecret == "" {
		return Config{}, ErrMissingJWTSecret
	}

	if cfg.JWTAccessTTLMinutes <= 0 {
		cfg.JWTAccessTTLMinutes = 30
	}

	return cfg, nil
}

func (c Config) AccessTTL() time.Duration {
	return time.Duration(c.JWTAccessTTLMinutes) * time.Minute
}

func buildDBURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "medisecure")
	pass := getEnv("DB_PASSWORD", "medisecure")
	name := getEnv("DB_NAME", "medisecure")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)

	if v == "" {
		return fallback
	}

	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	if len(out) == 0 {
		return fallback
	}

	return out
}
