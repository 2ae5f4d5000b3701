package config

import "time"

// Relay tunes the outbox relay loop that publishes lifecycle events to Kafka.
type Relay struct {
	BatchSize uint32        `env:"RELAY_BATCH_SIZE" envDefault:"100"`
	Interval  time.Duration `env:"RELAY_INTERVAL" envDefault:"1s"`
}
