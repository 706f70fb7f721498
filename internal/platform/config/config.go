package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string
	Policy        Policy
	Postgres      Postgres
	Redis         Redis
	Kafka         Kafka
	AuditBuffer   int
}

// Policy carries the routing policy overrides.
type Policy struct {
	// AuditThresholdCents overrides the audit routing threshold; 0 keeps the
	// default.
	AuditThresholdCents int64

	// WaitingPeriodDays overrides the waiting period applied to every request
	// type; 0 keeps the default.
	WaitingPeriodDays int
}

// Postgres carries the case/dossier and audit-trail database settings.
// Empty URL means in-memory stores.
type Postgres struct {
	URL string
}

// Redis carries the sequence allocator settings. Empty URL means the
// in-process allocator.
type Redis struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Kafka carries the decision event stream settings. No brokers means events
// are not published.
type Kafka struct {
	Brokers []string
	Topic   string
}

// FromEnv builds the process config from environment variables so main stays
// lean.
func FromEnv() Server {
	cfg := Server{
		Addr:          envOr("AUTORIZA_ADDR", ":8080"),
		JWTSigningKey: envOr("AUTORIZA_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		Policy: Policy{
			AuditThresholdCents: envInt64("AUTORIZA_AUDIT_THRESHOLD_CENTS", 0),
			WaitingPeriodDays:   int(envInt64("AUTORIZA_WAITING_PERIOD_DAYS", 0)),
		},
		Postgres: Postgres{
			URL: os.Getenv("AUTORIZA_POSTGRES_URL"),
		},
		Redis: Redis{
			URL:          os.Getenv("AUTORIZA_REDIS_URL"),
			PoolSize:     int(envInt64("AUTORIZA_REDIS_POOL_SIZE", 10)),
			MinIdleConns: int(envInt64("AUTORIZA_REDIS_MIN_IDLE_CONNS", 2)),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: Kafka{
			Topic: envOr("AUTORIZA_KAFKA_TOPIC", "authorization.decisions"),
		},
		AuditBuffer: int(envInt64("AUTORIZA_AUDIT_BUFFER", 256)),
	}
	if brokers := os.Getenv("AUTORIZA_KAFKA_BROKERS"); brokers != "" {
		cfg.Kafka.Brokers = strings.Split(brokers, ",")
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
