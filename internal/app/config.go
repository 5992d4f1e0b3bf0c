package app

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds every runtime setting, loaded from the environment.
type Config struct {
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8080"`
	MetricsAddr string `envconfig:"METRICS_ADDR" default:":9090"`

	// DatabaseURL empty means the in-memory storage is used.
	DatabaseURL string `envconfig:"DATABASE_URL"`

	// KafkaBrokers empty means notifications are logged instead of published.
	KafkaBrokers       []string `envconfig:"KAFKA_BROKERS"`
	NotificationsTopic string   `envconfig:"NOTIFICATIONS_TOPIC" default:"order.notifications"`

	OutboxPollInterval   time.Duration `envconfig:"OUTBOX_POLL_INTERVAL" default:"1s"`
	OutboxBatchSize      int           `envconfig:"OUTBOX_BATCH_SIZE" default:"100"`
	OutboxMaxAttempts    int           `envconfig:"OUTBOX_MAX_ATTEMPTS" default:"3"`
	OutboxRetryBaseDelay time.Duration `envconfig:"OUTBOX_RETRY_BASE_DELAY" default:"50ms"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// LoadConfig reads the configuration from TESTECOMERC_-prefixed environment
// variables, falling back to the defaults above.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("testecomerc", &cfg); err != nil {
		return Config{}, fmt.Errorf("load config from env: %w", err)
	}
	return cfg, nil
}
