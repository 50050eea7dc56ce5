// Package config reads the demo server configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/mockpay/sessionkit/internal/session"
)

type Config struct {
	Port string

	ProcessingDuration time.Duration
	RetryInterval      time.Duration
	MaxPresentAttempts int
	AnnounceDelay      time.Duration

	// Overlay notifier selection: Kafka wins when both are set, NATS next,
	// log output otherwise.
	KafkaBrokers []string
	NATSURL      string
}

// Load reads .env (if present) and then the environment.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from environment variables, applying defaults for
// anything unset or unparseable.
func FromEnv() Config {
	return Config{
		Port:               getenv("PORT", "8080"),
		ProcessingDuration: durationEnv("PROCESSING_DURATION", session.DefaultProcessingDuration),
		RetryInterval:      durationEnv("RETRY_INTERVAL", session.DefaultRetryInterval),
		MaxPresentAttempts: intEnv("MAX_PRESENT_ATTEMPTS", session.DefaultMaxPresentAttempts),
		AnnounceDelay:      durationEnv("ANNOUNCE_DELAY", session.DefaultAnnounceDelay),
		KafkaBrokers:       splitList(os.Getenv("KAFKA_BROKERS")),
		NATSURL:            os.Getenv("NATS_URL"),
	}
}

// Session maps the timing knobs into a session configuration.
func (c Config) Session() session.Config {
	return session.Config{
		ProcessingDuration: c.ProcessingDuration,
		RetryInterval:      c.RetryInterval,
		MaxPresentAttempts: c.MaxPresentAttempts,
		AnnounceDelay:      c.AnnounceDelay,
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("config: ignoring invalid %s=%q", key, v)
		return fallback
	}
	return d
}

func intEnv(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("config: ignoring invalid %s=%q", key, v)
		return fallback
	}
	return n
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
