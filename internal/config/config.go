// Package config loads the environment-driven settings shared by both
// binaries, mirroring the teacher's cfg.MustLoad() entrypoint
// (cmd/main.go: cfg "github.com/merkulovlad/wbtech-go/internal/config/config").
// godotenv.Load is attempted first (ignored if no .env file is present) so
// local development works the way the teacher's did.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/merkulovlad/orderflow/internal/logger"
)

// KafkaConfig names the broker, the ORDERS/ORDERS.DLT topics, and the
// consumer group id. Topic/DLTTopic MUST agree between the two binaries
// (spec.md §9 open question); both read the same env vars.
type KafkaConfig struct {
	Brokers  []string
	Topic    string
	DLTTopic string
	GroupID  string
}

// PublishConfig carries the PublishEngine's timeout budget and circuit
// breaker tuning (spec.md §4.7).
type PublishConfig struct {
	RequestTimeout    time.Duration
	DeliveryTimeout   time.Duration
	APITimeout        time.Duration
	RetryInitialDelay time.Duration

	BreakerWindowSize       int
	BreakerFailureThreshold float64
	BreakerOpenDuration     time.Duration
	BreakerHalfOpenProbes   int

	FailureLogPath string
}

// ConsumeConfig carries the ConsumeEngine's retry-with-DLT tuning (spec.md §4.8).
type ConsumeConfig struct {
	RetryInitialDelay time.Duration
	RetryMultiplier   float64
	RetryMaxDelay     time.Duration
	RetryMaxAttempts  int
}

// MonitorConfig carries the ConnectivityMonitor's probe cadence (spec.md §4.6).
type MonitorConfig struct {
	ProbeTimeout        time.Duration
	UnhealthyInitialGap time.Duration
	UnhealthyMaxGap     time.Duration
	HealthyInterval     time.Duration
}

// HTTPConfig is the port each binary listens on.
type HTTPConfig struct {
	Port string
}

// Config is the root settings object; MustLoad populates one of these per
// binary from the process environment.
type Config struct {
	HTTP     HTTPConfig
	Log      logger.Config
	Kafka    KafkaConfig
	Publish  PublishConfig
	Consume  ConsumeConfig
	Monitor  MonitorConfig
}

// MustLoad loads .env (best-effort) then builds a Config from the
// environment, applying the canonical defaults from spec.md §4.6–§4.8.
// It panics on malformed (non-parseable) numeric/duration env values, the
// same "fail fast at boot" posture as the teacher's cfg.MustLoad().
func MustLoad() *Config {
	_ = godotenv.Load()

	return &Config{
		HTTP: HTTPConfig{
			Port: getEnv("HTTP_PORT", "8080"),
		},
		Log: logger.Config{
			Level:    getEnv("LOG_LEVEL", "info"),
			Encoding: getEnv("LOG_ENCODING", "console"),
		},
		Kafka: KafkaConfig{
			Brokers:  strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			Topic:    getEnv("KAFKA_TOPIC", "ORDERS"),
			DLTTopic: getEnv("KAFKA_DLT_TOPIC", "ORDERS.DLT"),
			GroupID:  getEnv("KAFKA_GROUP_ID", "order-service"),
		},
		Publish: PublishConfig{
			RequestTimeout:    getDuration("PUBLISH_REQUEST_TIMEOUT", 3*time.Second),
			DeliveryTimeout:   getDuration("PUBLISH_DELIVERY_TIMEOUT", 8*time.Second),
			APITimeout:        getDuration("PUBLISH_API_TIMEOUT", 10*time.Second),
			RetryInitialDelay: getDuration("PUBLISH_RETRY_INITIAL_DELAY", 100*time.Millisecond),

			BreakerWindowSize:       getInt("BREAKER_WINDOW_SIZE", 10),
			BreakerFailureThreshold: getFloat("BREAKER_FAILURE_THRESHOLD", 0.5),
			BreakerOpenDuration:     getDuration("BREAKER_OPEN_DURATION", 30*time.Second),
			BreakerHalfOpenProbes:   getInt("BREAKER_HALF_OPEN_PROBES", 3),

			FailureLogPath: getEnv("FAILURE_LOG_PATH", "publish-failures.log"),
		},
		Consume: ConsumeConfig{
			RetryInitialDelay: getDuration("CONSUME_RETRY_INITIAL_DELAY", 1*time.Second),
			RetryMultiplier:   getFloat("CONSUME_RETRY_MULTIPLIER", 2.0),
			RetryMaxDelay:     getDuration("CONSUME_RETRY_MAX_DELAY", 10*time.Second),
			RetryMaxAttempts:  getInt("CONSUME_RETRY_MAX_ATTEMPTS", 4),
		},
		Monitor: MonitorConfig{
			ProbeTimeout:        getDuration("MONITOR_PROBE_TIMEOUT", 3*time.Second),
			UnhealthyInitialGap: getDuration("MONITOR_UNHEALTHY_INITIAL_GAP", 100*time.Millisecond),
			UnhealthyMaxGap:     getDuration("MONITOR_UNHEALTHY_MAX_GAP", 5*time.Second),
			HealthyInterval:     getDuration("MONITOR_HEALTHY_INTERVAL", 30*time.Second),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic("config: invalid duration for " + key + ": " + err.Error())
		}
		return d
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic("config: invalid int for " + key + ": " + err.Error())
		}
		return n
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			panic("config: invalid float for " + key + ": " + err.Error())
		}
		return f
	}
	return def
}
