package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process-level configuration. FromEnv builds it from the
// environment so main stays lean.
type Server struct {
	Addr string

	// DatabaseURL selects the postgres-backed registration store; when empty
	// the in-memory store is used.
	DatabaseURL string

	// Redis holds the admin session store backend; when URL is empty sessions
	// are kept in memory.
	Redis RedisConfig

	// KafkaBrokers enables the Kafka audit publisher; when empty audit events
	// go through the in-process worker.
	KafkaBrokers    []string
	KafkaAuditTopic string

	// AdminPasswordHash, when set, takes precedence over AdminPassword and is
	// compared with bcrypt.
	AdminUsername     string
	AdminPassword     string
	AdminPasswordHash string
	AdminSessionTTL   time.Duration

	// Zero timeouts fall back to the httpserver defaults.
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration

	JWTSigningKey string

	// InstitutionDomain is used to derive participant emails from roll
	// numbers for display and exports; never persisted.
	InstitutionDomain string
}

// RedisConfig mirrors the go-redis options we override.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	addr := os.Getenv("HACKREG_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	domain := os.Getenv("INSTITUTION_DOMAIN")
	if domain == "" {
		domain = "psgtech.ac.in"
	}

	sessionTTL := 12 * time.Hour
	if raw := os.Getenv("ADMIN_SESSION_TTL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			sessionTTL = d
		}
	}

	var readTimeout, writeTimeout time.Duration
	if d, err := time.ParseDuration(os.Getenv("HTTP_READ_TIMEOUT")); err == nil {
		readTimeout = d
	}
	if d, err := time.ParseDuration(os.Getenv("HTTP_WRITE_TIMEOUT")); err == nil {
		writeTimeout = d
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}
	topic := os.Getenv("KAFKA_AUDIT_TOPIC")
	if topic == "" {
		topic = "hackreg.audit"
	}

	return Server{
		Addr:        addr,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		KafkaBrokers:      brokers,
		KafkaAuditTopic:   topic,
		AdminUsername:     os.Getenv("ADMIN_USERNAME"),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		AdminSessionTTL:   sessionTTL,
		HTTPReadTimeout:   readTimeout,
		HTTPWriteTimeout:  writeTimeout,
		JWTSigningKey:     jwtSigningKey,
		InstitutionDomain: domain,
	}
}
