// Package config builds runtime configuration from environment variables so
// main stays lean.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	// Port is the first port the API tries to bind. When taken, the server
	// walks forward (Port+1, Port+2, …) up to PortFallbackSpan attempts.
	Port             int
	PortFallbackSpan int

	PostgresURL string
	RedisURL    string

	KafkaBrokers    []string
	KafkaAuditTopic string

	JWTSigningKey string
	TokenTTL      time.Duration
	BcryptCost    int

	ShutdownTimeout time.Duration
}

// FromEnv reads configuration from the environment, applying development
// defaults for anything unset.
func FromEnv() Server {
	cfg := Server{
		Port:             envInt("AOI_PORT", 5001),
		PortFallbackSpan: envInt("AOI_PORT_FALLBACK_SPAN", 10),
		PostgresURL:      os.Getenv("AOI_POSTGRES_URL"),
		RedisURL:         os.Getenv("AOI_REDIS_URL"),
		KafkaAuditTopic:  envString("AOI_KAFKA_AUDIT_TOPIC", "aoi.audit"),
		JWTSigningKey:    envString("AOI_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		TokenTTL:         envDuration("AOI_TOKEN_TTL", 12*time.Hour),
		BcryptCost:       envInt("AOI_BCRYPT_COST", 10),
		ShutdownTimeout:  envDuration("AOI_SHUTDOWN_TIMEOUT", 10*time.Second),
	}
	if brokers := os.Getenv("AOI_KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	return cfg
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
